package extract

// knownBrands is the reference list of brands the store carries, used to
// split the vendor off a catalog name when the brand is not yet present
// in the Shopify export. Multi-word entries must stay in the list so they
// win over their prefixes ("New Balance Numeric" over "New Balance",
// "DC Shoes" over "DC"), matching is longest-first.
var knownBrands = []string{
	"New Balance Numeric", "The Loose Company", "Deus Ex Machina",
	"Bonjour Urethane", "Bronson Speed Co", "Thrasher Seasonal",
	"The North Face", "The Quiet Life", "Converse Skate",
	"Loreak Mendian", "Poetic Collective", "Miles Griptape",
	"Beton Cire", "Bronze 56K", "Cash Only", "Film Trucks",
	"Anti Hero", "Carhartt WIP", "DC Shoes", "Last Resort Ab",
	"New Balance", "Dial Tone", "Haze Wheels", "Shake Junt",
	"Tiger Claw", "Toy Machine", "Santa Cruz", "Jason Markk",
	"Butter Goods", "Pull-In", "Hotel Blue", "Stance Socks",
	"No Name", "On Running", "Quasi", "Rave",
	"Ace", "Adidas", "Analog", "Anon", "April", "Arcade",
	"Armistice", "Birkenstock", "Blind", "Bones",
	"Broski", "Butter", "Carhartt", "Clarks", "Cliche", "Coal",
	"Commune", "Converse", "Creature", "Deus", "DGK", "Dime",
	"Eastpak", "Element", "Estime", "Fjallraven", "Gramicci",
	"Hélas", "Helas", "Herschel", "Hockey", "Huf", "Independent",
	"Isle", "Jessup", "Komono", "Krooked", "Limosine", "Magenta",
	"Mini Logo", "Neff", "Nike Sb", "Nixon", "Obey", "Palace",
	"Patagonia", "Passport", "Pizza", "Polar", "Powell",
	"Pusher", "Puma", "Rains", "Reebok", "Ripcare", "Ripndip",
	"Rvca", "Schmoove", "Sour", "Spitfire", "Stance",
	"Street Art", "Streetart", "Studio", "Stussy", "Thrasher",
	"Tired", "Veja", "Vans", "Venture", "Volcom", "Welcome",
	"Wknd", "Yardsale", "Zero", "Antiz",
}

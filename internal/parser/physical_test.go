package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksync-service/internal/config"
	"stocksync-service/internal/models"
)

func defaultLayout() config.PhysicalLayout {
	return config.Load().Physical
}

func TestParsePhysical(t *testing.T) {
	// Legacy export: \r line endings, comma decimals, a TOTAL summary row
	// and a truncated record, all of which must be survived.
	content := strings.Join([]string{
		`STREET ART;00123_4;65368-2;"CARHARTT WIP COTTON TRUNKS WHITE + WHITE I029375.931.XX";"M";2,00;;;12,50;;29,95;`,
		`STREET ART;00999_1;TOTAL;total;x;0;;;;;0;`,
		`STREET ART;00124_1;77777-1;"BEANIE LOGO";"O/S";1,00;;;5,00;;15,00;`,
		`STREET ART;truncated`,
	}, "\r")

	items, err := ParsePhysical([]byte(content), defaultLayout())
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "00123_4", first.Article)
	assert.Equal(t, "65368-2", first.Barcode)
	assert.Equal(t, "CARHARTT WIP COTTON TRUNKS WHITE + WHITE I029375.931.XX", first.CatalogName)
	assert.Equal(t, "M", first.Size)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, 12.5, first.PurchasePrice)
	assert.Equal(t, 29.95, first.SalePrice)

	// "O/S" is one of the one-size spellings
	assert.Equal(t, "Taille unique", items[1].Size)
}

func TestParsePhysicalDetectsStoreMarker(t *testing.T) {
	content := `LE SKATESHOP;00123_4;65368-2;"HUF TEE";"L";1,00;;;10,00;;25,00;`

	items, err := ParsePhysical([]byte(content), defaultLayout())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "HUF TEE", items[0].CatalogName)
}

func TestParsePhysicalNoMarker(t *testing.T) {
	_, err := ParsePhysical([]byte("this is not a stock export"), defaultLayout())
	require.Error(t, err)

	var parseErr *models.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "physical", parseErr.File)
}

func TestParsePhysicalNoRecords(t *testing.T) {
	// Marker present but every record unusable.
	content := `STREET ART;00999_1;65368-2;;;0;;;;;0;`
	_, err := ParsePhysical([]byte(content), defaultLayout())

	var parseErr *models.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "no stock records")
}

func TestParseQuantityCommaDecimals(t *testing.T) {
	assert.Equal(t, 3, parseQuantity("3,00"))
	assert.Equal(t, 3, parseQuantity(" 3.0 "))
	assert.Equal(t, 0, parseQuantity("abc"))
	assert.Equal(t, 0, parseQuantity(""))
}

func TestNormalizeSize(t *testing.T) {
	assert.Equal(t, "Taille unique", NormalizeSize("One Size"))
	assert.Equal(t, "Taille unique", NormalizeSize("TU"))
	assert.Equal(t, "Taille unique", NormalizeSize(" os "))
	assert.Equal(t, "XL", NormalizeSize("XL"))
}

func TestDecodeText(t *testing.T) {
	// UTF-8 with BOM
	assert.Equal(t, "héllo", DecodeText(append([]byte{0xEF, 0xBB, 0xBF}, []byte("héllo")...)))

	// Latin-1 / cp1252 bytes: 0xC9 is É
	assert.Equal(t, "HÉLAS", DecodeText([]byte{'H', 0xC9, 'L', 'A', 'S'}))

	// Old Mac line endings become \n
	assert.Equal(t, "a\nb\nc", DecodeText([]byte("a\rb\r\nc")))
}

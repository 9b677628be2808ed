package parser

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts an uploaded file to a UTF-8 string. The legacy
// point-of-sale export shows up as UTF-8 with BOM, cp1252 or latin-1
// depending on the machine that produced it, so decoding falls through
// the same chain the store has seen in practice. Line endings are
// normalized because old exports use bare \r.
func DecodeText(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	var text string
	if utf8.Valid(raw) {
		text = string(raw)
	} else if decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw); err == nil {
		text = string(decoded)
	} else {
		decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		text = string(decoded)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

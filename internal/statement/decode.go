package statement

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText turns raw upload bytes into text. Encodings are tried in a fixed
// order: BOM-prefixed UTF-8, plain UTF-8, Windows-1252, and finally a lossy
// pass that replaces anything still invalid. It never fails.
func decodeText(data []byte) string {
	if bytes.HasPrefix(data, utf8BOM) {
		trimmed := bytes.TrimPrefix(data, utf8BOM)
		if utf8.Valid(trimmed) {
			return string(trimmed)
		}
		data = trimmed
	}
	if utf8.Valid(data) {
		return string(data)
	}
	if decoded, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
		return string(decoded)
	}
	return strings.ToValidUTF8(string(data), "�")
}

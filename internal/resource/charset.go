package resource

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Legacy codepages tried when a page is not valid UTF-8. Cyrillic
// sites in particular still serve Windows-1251 and KOI8-R.
var legacyEncodings = []encoding.Encoding{
	charmap.Windows1251,
	charmap.KOI8R,
	charmap.ISO8859_1,
}

// decodeBody converts raw response bytes to a string: UTF-8 if it
// decodes cleanly, otherwise the first legacy codepage that maps every
// byte, otherwise UTF-8 with replacement runes.
func decodeBody(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	for _, enc := range legacyEncodings {
		if s, ok := tryDecode(raw, enc); ok {
			return s
		}
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

func tryDecode(raw []byte, enc encoding.Encoding) (string, bool) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	// Charmap decoders substitute U+FFFD for unmapped bytes instead
	// of failing; treat that as a failed attempt.
	if strings.ContainsRune(string(out), utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

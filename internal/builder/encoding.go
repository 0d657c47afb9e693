package builder

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/vvka-141/temporarily/pkg/temporarily"
)

// Encodings lists the names accepted by Encode, canonical spelling first.
var Encodings = []string{"utf8", "ascii", "latin1", "utf16le", "base64", "hex"}

var encodingAliases = map[string]string{
	"utf8":     "utf8",
	"utf-8":    "utf8",
	"ascii":    "ascii",
	"latin1":   "latin1",
	"binary":   "latin1",
	"utf16le":  "utf16le",
	"utf-16le": "utf16le",
	"ucs2":     "utf16le",
	"ucs-2":    "utf16le",
	"base64":   "base64",
	"hex":      "hex",
}

// Encode converts data to the bytes written for encoding. base64 and hex
// decode data; the text encodings transcode it.
func Encode(data, encoding string) ([]byte, error) {
	canonical, ok := encodingAliases[strings.ToLower(encoding)]
	if !ok {
		return nil, fmt.Errorf("%q (supported: %s): %w", encoding, strings.Join(Encodings, ", "), temporarily.ErrUnsupportedEncoding)
	}

	switch canonical {
	case "utf8":
		return []byte(data), nil
	case "ascii":
		for i, r := range data {
			if r > 0x7f {
				return nil, fmt.Errorf("character %q at offset %d is not ASCII", r, i)
			}
		}
		return []byte(data), nil
	case "latin1":
		out, err := charmap.ISO8859_1.NewEncoder().String(data)
		if err != nil {
			return nil, fmt.Errorf("cannot encode data as latin1: %w", err)
		}
		return []byte(out), nil
	case "utf16le":
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().String(data)
		if err != nil {
			return nil, fmt.Errorf("cannot encode data as utf16le: %w", err)
		}
		return []byte(out), nil
	case "base64":
		out, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data: %w", err)
		}
		return out, nil
	default: // hex
		out, err := hex.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("invalid hex data: %w", err)
		}
		return out, nil
	}
}

// SupportedEncoding reports whether Encode accepts encoding.
func SupportedEncoding(encoding string) bool {
	_, ok := encodingAliases[strings.ToLower(encoding)]
	return ok
}

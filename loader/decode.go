package loader

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Names of the encodings recognized by Decode
const (
	EncodingUTF8    = "UTF-8"
	EncodingUTF8BOM = "UTF-8-BOM"
	EncodingUTF16LE = "UTF-16LE"
	EncodingUTF16BE = "UTF-16BE"
	EncodingLatin1  = "ISO-8859-1"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts the contents of a source file to a string, detecting the encoding
// from the byte order mark. Files without BOM that are not valid UTF-8 are read as
// Latin-1, the usual encoding of old LaTeX sources.
// It returns the text and the name of the encoding detected.
func Decode(data []byte) (string, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
		if err != nil {
			return "", EncodingUTF8BOM, fmt.Errorf("decoding %s: %w", EncodingUTF8BOM, err)
		}
		return string(out), EncodingUTF8BOM, nil

	case bytes.HasPrefix(data, bomUTF16LE):
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", EncodingUTF16LE, fmt.Errorf("decoding %s: %w", EncodingUTF16LE, err)
		}
		return string(out), EncodingUTF16LE, nil

	case bytes.HasPrefix(data, bomUTF16BE):
		out, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", EncodingUTF16BE, fmt.Errorf("decoding %s: %w", EncodingUTF16BE, err)
		}
		return string(out), EncodingUTF16BE, nil

	case utf8.Valid(data):
		return string(data), EncodingUTF8, nil
	}

	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", EncodingLatin1, fmt.Errorf("decoding %s: %w", EncodingLatin1, err)
	}
	return string(out), EncodingLatin1, nil
}

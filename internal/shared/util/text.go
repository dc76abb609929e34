package util

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeSource turns raw file bytes into text. A UTF-8 byte-order mark is
// dropped and UTF-16 files with a BOM are transcoded; anything else is
// passed through unchanged.
func DecodeSource(data []byte) (string, error) {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

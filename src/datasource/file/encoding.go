package file

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// ErrUndecodable is returned when no encoding in the fallback list decodes
// the input cleanly.
var ErrUndecodable = errors.New("input is not valid under any configured encoding")

// DefaultEncodings is the fallback order used when none is configured:
// UTF-8 first, then the Korean legacy code pages.
var DefaultEncodings = []string{"utf-8", "euc-kr", "windows-949"}

// Decode converts data to UTF-8 by trying each WHATWG encoding label in
// order and returns the label that succeeded. A UTF-8 byte-order mark is
// dropped.
//
// The x/text decoders never fail on bad input; they emit U+FFFD instead. A
// legacy attempt therefore counts as failed when the output carries a
// replacement rune, and UTF-8 is checked strictly up front.
func Decode(data []byte, labels []string) ([]byte, string, error) {
	if len(labels) == 0 {
		labels = DefaultEncodings
	}

	for _, label := range labels {
		enc, err := htmlindex.Get(label)
		if err != nil {
			return nil, "", fmt.Errorf("unknown encoding %q: %w", label, err)
		}
		name, _ := htmlindex.Name(enc)

		if name == "utf-8" {
			if !utf8.Valid(data) {
				continue
			}
			out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
			if err != nil {
				continue
			}
			return out, label, nil
		}

		out, err := enc.NewDecoder().Bytes(data)
		if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
			continue
		}
		return out, label, nil
	}

	return nil, "", fmt.Errorf("%w (tried %s)", ErrUndecodable, strings.Join(labels, ", "))
}

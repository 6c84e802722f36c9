package strs

import (
	"errors"
	"fmt"
	"iter"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrOddLength indicates UTF-16 input whose byte length is odd.
	ErrOddLength = errors.New("strs: utf16 data has odd length")

	// ErrDecode indicates input that could not be transcoded.
	ErrDecode = errors.New("strs: decode failed")
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func appendRune(b []byte, r rune) []byte {
	return utf8.AppendRune(b, r)
}

// AppendRune appends the UTF-8 encoding of r. Invalid code points append
// U+FFFD.
func (s *String) AppendRune(r rune) {
	var scratch [utf8.UTFMax]byte
	s.Append(ViewBytes(appendRune(scratch[:0], r)))
}

// RuneCount returns the number of code points in v. Invalid bytes count as
// one code point each.
func (v View) RuneCount() int {
	return utf8.RuneCount(v.b)
}

// DecodeRune decodes the code point starting at byte offset i and returns it
// with its encoded width.
func (v View) DecodeRune(i int) (rune, int) {
	if i < 0 || i >= len(v.b) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(v.b[i:])
}

// Runes yields the code points of v with their byte offsets.
func (v View) Runes() iter.Seq2[int, rune] {
	return func(yield func(int, rune) bool) {
		for i := 0; i < len(v.b); {
			r, n := utf8.DecodeRune(v.b[i:])
			if !yield(i, r) {
				return
			}
			i += n
		}
	}
}

// UTF16 returns v as UTF-16 code units.
func (v View) UTF16() []uint16 {
	units := make([]uint16, 0, len(v.b))
	for _, r := range v.Runes() {
		units = utf16.AppendRune(units, r)
	}
	return units
}

// FromUTF16 returns a string holding the UTF-8 form of units.
func FromUTF16(units []uint16, opts ...Option) *String {
	s := newString(opts)
	AppendUTF16(s, units)
	return s
}

// DecodeUTF16LE transcodes little-endian UTF-16 bytes into a new string.
func DecodeUTF16LE(data []byte, opts ...Option) (*String, error) {
	if len(data)%2 != 0 {
		return nil, ErrOddLength
	}
	decoded, err := utf16le.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: utf16le: %w", ErrDecode, err)
	}
	s := newString(opts)
	s.Append(ViewBytes(decoded))
	return s, nil
}

// EncodeUTF16LE transcodes v into little-endian UTF-16 bytes.
func EncodeUTF16LE(v View) ([]byte, error) {
	encoded, err := utf16le.NewEncoder().Bytes(v.b)
	if err != nil {
		return nil, fmt.Errorf("%w: utf16le: %w", ErrDecode, err)
	}
	return encoded, nil
}

// DecodeANSI transcodes Windows-1252 bytes into a new string.
func DecodeANSI(data []byte, opts ...Option) (*String, error) {
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: windows-1252: %w", ErrDecode, err)
	}
	s := newString(opts)
	s.Append(ViewBytes(decoded))
	return s, nil
}

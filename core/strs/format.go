package strs

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf16"
)

const (
	// InvalidFlags replaces an argument whose flags were not understood.
	InvalidFlags = "@@INVALID_FLAGS@@"

	// UnsupportedType replaces an argument no strategy can render.
	UnsupportedType = "@@UNSUPPORTED_TYPE@@"
)

const (
	defaultPrecision = 3
	maxPrecision     = 18
	maxMinDigits     = 64
)

// Formattable is implemented by types that render themselves. flags is the
// raw text between the markers.
type Formattable interface {
	AppendFormat(dst *String, flags string)
}

// Formatter holds the marker pair that delimits arguments in a template.
type Formatter struct {
	Open  string
	Close string
}

var (
	// DefaultMarkers uses "{" and "}".
	DefaultMarkers = Formatter{Open: "{", Close: "}"}

	// LegacyMarkers uses "%{" and "}", the log template syntax.
	LegacyMarkers = Formatter{Open: "%{", Close: "}"}
)

// ParseMarkers maps a configuration name to a Formatter.
func ParseMarkers(name string) (Formatter, bool) {
	switch name {
	case "", "braces":
		return DefaultMarkers, true
	case "legacy":
		return LegacyMarkers, true
	default:
		return Formatter{}, false
	}
}

// Append renders format with args onto dst.
//
// Arguments are consumed left to right. When the arguments run out the rest
// of the template is copied literally; surplus arguments are ignored.
func (f Formatter) Append(dst *String, format string, args ...any) {
	rest := format
	for next := 0; ; next++ {
		open := strings.Index(rest, f.Open)
		if open < 0 || next >= len(args) {
			dst.AppendString(rest)
			return
		}
		dst.AppendString(rest[:open])
		rest = rest[open+len(f.Open):]

		end := strings.Index(rest, f.Close)
		if end < 0 {
			dst.AppendString(InvalidFlags)
			return
		}
		appendArg(dst, rest[:end], args[next])
		rest = rest[end+len(f.Close):]
	}
}

// Format renders into a new String from the default allocator.
func (f Formatter) Format(format string, args ...any) *String {
	out := newString(nil)
	f.Append(out, format, args...)
	return out
}

// Render renders into a Go string.
func (f Formatter) Render(format string, args ...any) string {
	var out String
	f.Append(&out, format, args...)
	s := out.String()
	out.Free()
	return s
}

// Format renders with DefaultMarkers into a new String.
func Format(format string, args ...any) *String {
	out := newString(nil)
	DefaultMarkers.Append(out, format, args...)
	return out
}

// Render renders with DefaultMarkers into a Go string.
func Render(format string, args ...any) string {
	return DefaultMarkers.Render(format, args...)
}

// AppendFormat renders with DefaultMarkers onto dst.
func AppendFormat(dst *String, format string, args ...any) {
	DefaultMarkers.Append(dst, format, args...)
}

func appendArg(dst *String, flags string, arg any) {
	switch v := arg.(type) {
	case Formattable:
		v.AppendFormat(dst, flags)
	case int:
		AppendInt(dst, int64(v), flags)
	case int8:
		AppendInt(dst, int64(v), flags)
	case int16:
		AppendInt(dst, int64(v), flags)
	case int32:
		AppendInt(dst, int64(v), flags)
	case int64:
		AppendInt(dst, v, flags)
	case uint:
		AppendUint(dst, uint64(v), flags)
	case uint8:
		AppendUint(dst, uint64(v), flags)
	case uint16:
		AppendUint(dst, uint64(v), flags)
	case uint32:
		AppendUint(dst, uint64(v), flags)
	case uint64:
		AppendUint(dst, v, flags)
	case uintptr:
		AppendUint(dst, uint64(v), flags)
	case float32:
		AppendFloat(dst, float64(v), flags)
	case float64:
		AppendFloat(dst, v, flags)
	case string:
		dst.AppendString(v)
	case View:
		dst.Append(v)
	case *String:
		dst.Append(v.View())
	case []byte:
		dst.Append(ViewBytes(v))
	case []uint16:
		AppendUTF16(dst, v)
	case bool:
		dst.AppendString(strconv.FormatBool(v))
	case fmt.Stringer:
		dst.AppendString(v.String())
	case error:
		dst.AppendString(v.Error())
	default:
		appendReflect(dst, flags, arg)
	}
}

// appendReflect handles named types over the basic kinds.
func appendReflect(dst *String, flags string, arg any) {
	if arg == nil {
		dst.AppendString(UnsupportedType)
		return
	}
	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		AppendInt(dst, rv.Int(), flags)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		AppendUint(dst, rv.Uint(), flags)
	case reflect.Float32, reflect.Float64:
		AppendFloat(dst, rv.Float(), flags)
	case reflect.String:
		dst.AppendString(rv.String())
	case reflect.Bool:
		dst.AppendString(strconv.FormatBool(rv.Bool()))
	default:
		dst.AppendString(UnsupportedType)
	}
}

// parseMinDigits reads the integer flags: empty, "," or ",N".
func parseMinDigits(flags string) (int, bool) {
	if flags == "" {
		return 1, true
	}
	if flags[0] != ',' {
		return 0, false
	}
	if len(flags) == 1 {
		return 1, true
	}
	n := 0
	for i := 1; i < len(flags); i++ {
		c := flags[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = min(n*10+int(c-'0'), maxMinDigits)
	}
	return n, true
}

// AppendUint renders v with integer flags.
func AppendUint(dst *String, v uint64, flags string) {
	digits, ok := parseMinDigits(flags)
	if !ok {
		dst.AppendString(InvalidFlags)
		return
	}
	appendDigits(dst, v, digits)
}

// AppendInt renders v with integer flags. The sign does not count as a digit.
func AppendInt(dst *String, v int64, flags string) {
	digits, ok := parseMinDigits(flags)
	if !ok {
		dst.AppendString(InvalidFlags)
		return
	}
	u := uint64(v)
	if v < 0 {
		dst.AppendChar('-')
		u = -u
	}
	appendDigits(dst, u, digits)
}

func appendDigits(dst *String, v uint64, minDigits int) {
	var scratch [20]byte
	digits := strconv.AppendUint(scratch[:0], v, 10)
	for range minDigits - len(digits) {
		dst.AppendChar('0')
	}
	dst.Append(ViewBytes(digits))
}

// parsePrecision reads the float flags: empty, "." or ".N".
func parsePrecision(flags string) (int, bool) {
	if flags == "" {
		return defaultPrecision, true
	}
	if flags[0] != '.' {
		return 0, false
	}
	if len(flags) == 1 {
		return defaultPrecision, true
	}
	n := 0
	for i := 1; i < len(flags); i++ {
		c := flags[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = min(n*10+int(c-'0'), maxPrecision)
	}
	return n, true
}

// AppendFloat renders v with float flags. Values outside [1e-8, 1e8) use a
// mantissa in [1, 10) followed by "e" and the decimal exponent. Decimals are
// rounded half away from zero and trailing zeros are dropped.
func AppendFloat(dst *String, v float64, flags string) {
	prec, ok := parsePrecision(flags)
	if !ok {
		dst.AppendString(InvalidFlags)
		return
	}

	switch {
	case math.IsNaN(v):
		dst.AppendString("nan")
		return
	case math.IsInf(v, 1):
		dst.AppendString("inf")
		return
	case math.IsInf(v, -1):
		dst.AppendString("-inf")
		return
	case v == 0:
		dst.AppendChar('0')
		return
	}

	if v < 0 {
		dst.AppendChar('-')
		v = -v
	}

	exp := 0
	scientific := v >= 1e8 || v < 1e-8
	if scientific {
		v, exp = normalize(v)
	}

	scale := math.Pow10(prec)
	whole := math.Floor(v)
	frac := uint64(math.Round((v - whole) * scale))
	if frac >= uint64(scale) {
		whole++
		frac -= uint64(scale)
	}
	if scientific && whole >= 10 {
		whole /= 10
		exp++
	}
	if !scientific && whole >= 1e8 {
		scientific = true
		whole, exp = normalize(whole)
	}

	appendDigits(dst, uint64(whole), 1)
	if frac > 0 {
		var scratch [20]byte
		digits := strconv.AppendUint(scratch[:0], frac, 10)
		dst.AppendChar('.')
		for range prec - len(digits) {
			dst.AppendChar('0')
		}
		for len(digits) > 0 && digits[len(digits)-1] == '0' {
			digits = digits[:len(digits)-1]
		}
		dst.Append(ViewBytes(digits))
	}
	if scientific {
		dst.AppendChar('e')
		AppendInt(dst, int64(exp), "")
	}
}

// normalize scales a positive finite v into [1, 10) by repeated powers of
// ten with exponents 256, 128, ..., 1 and returns the decimal exponent.
func normalize(v float64) (float64, int) {
	exp := 0
	if v >= 10 {
		for k := 256; k >= 1; k >>= 1 {
			if p := math.Pow10(k); v >= p {
				v /= p
				exp += k
			}
		}
		return v, exp
	}
	for k := 256; k >= 1; k >>= 1 {
		if v < math.Pow10(1-k) {
			v *= math.Pow10(k)
			exp -= k
		}
	}
	return v, exp
}

// AppendUTF16 appends UTF-16 code units as UTF-8.
func AppendUTF16(dst *String, units []uint16) {
	var scratch [4]byte
	for _, r := range utf16.Decode(units) {
		dst.Append(ViewBytes(appendRune(scratch[:0], r)))
	}
}

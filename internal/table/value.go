package table

import (
	"cmp"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	kindNull valueKind = iota
	kindString
	kindNumber
	kindBool
)

// Value is a single cell value. The zero Value is null and sorts first.
type Value struct {
	kind valueKind
	str  string
	num  float64
	flag bool
}

// String wraps a string cell value
func String(s string) Value {
	return Value{kind: kindString, str: s}
}

// Number wraps a numeric cell value
func Number(n float64) Value {
	return Value{kind: kindNumber, num: n}
}

// Int wraps an integer cell value
func Int(n int64) Value {
	return Value{kind: kindNumber, num: float64(n)}
}

// Bool wraps a boolean cell value
func Bool(b bool) Value {
	return Value{kind: kindBool, flag: b}
}

// IsNull reports whether the value is the zero Value
func (v Value) IsNull() bool {
	return v.kind == kindNull
}

// Raw returns the underlying Go value for serialization
func (v Value) Raw() any {
	switch v.kind {
	case kindString:
		return v.str
	case kindNumber:
		return v.num
	case kindBool:
		return v.flag
	default:
		return nil
	}
}

// String renders the value with its default formatting
func (v Value) String() string {
	switch v.kind {
	case kindString:
		return v.str
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindBool:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

// Compare orders two values. Values of different kinds order by kind,
// strings compare case-insensitively and false sorts before true.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case kindString:
		if c := strings.Compare(strings.ToLower(a.str), strings.ToLower(b.str)); c != 0 {
			return c
		}
		return strings.Compare(a.str, b.str)
	case kindNumber:
		return cmp.Compare(a.num, b.num)
	case kindBool:
		switch {
		case a.flag == b.flag:
			return 0
		case !a.flag:
			return -1
		default:
			return 1
		}
	default:
		return 0
	}
}

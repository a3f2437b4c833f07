package options

import "github.com/okian/confscore/pkg/matrix"

// Kind identifies the type held by a Value.
type Kind uint8

// Supported value kinds.
const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindBool
	KindMatrix
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindMatrix:
		return "matrix"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// Value is a tagged union over the supported option kinds.
// The zero Value has KindInvalid.
type Value struct {
	kind Kind
	str  string
	num  float64
	flag bool
	mat  *matrix.Dense
	list *List
}

// StringValue wraps s.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue wraps f.
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{kind: KindBool, flag: b} }

// MatrixValue wraps m. A nil matrix produces an invalid value.
func MatrixValue(m *matrix.Dense) Value {
	if m == nil {
		return Value{}
	}
	return Value{kind: KindMatrix, mat: m}
}

// ListValue wraps a nested list. A nil list produces an invalid value.
func ListValue(l *List) Value {
	if l == nil {
		return Value{}
	}
	return Value{kind: KindList, list: l}
}

// Kind reports the type held by v.
func (v Value) Kind() Kind { return v.kind }

package dataset

import (
	"strconv"
	"time"
)

// TimestampLayout is the canonical rendering for timestamp cells. Timestamps
// are normalized to UTC and rendered without an offset so the same table
// always fingerprints and profiles identically regardless of host timezone.
const TimestampLayout = "2006-01-02T15:04:05"

// ValueKind discriminates the cell union.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

// Value is a single table cell: exactly one of the typed fields is
// meaningful, selected by Kind. The zero Value is the null cell.
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Time  time.Time
}

func Null() Value            { return Value{Kind: KindNull} }
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value {
	return Value{Kind: KindFloat, Float: f}
}
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func TimeValue(t time.Time) Value {
	return Value{Kind: KindTime, Time: t.UTC()}
}

// IsNull reports whether the cell is the null/missing marker.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders the cell the way it appears in profiles, prompts and
// ground truths. Floats use the shortest round-trip representation.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindTime:
		return v.Time.UTC().Format(TimestampLayout)
	}
	return ""
}

// Native returns the cell as a JSON-friendly Go value (nil for null).
func (v Value) Native() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindTime:
		return v.Time.UTC().Format(TimestampLayout)
	}
	return nil
}

// Equal reports value equality across cells. Integer and float cells
// compare numerically; Key returns a map key consistent with this
// relation for use in counting maps.
func (v Value) Equal(o Value) bool {
	if v.Kind == o.Kind {
		switch v.Kind {
		case KindNull:
			return true
		case KindBool:
			return v.Bool == o.Bool
		case KindInt:
			return v.Int == o.Int
		case KindFloat:
			return v.Float == o.Float
		case KindString:
			return v.Str == o.Str
		case KindTime:
			return v.Time.Equal(o.Time)
		}
	}
	if (v.Kind == KindInt && o.Kind == KindFloat) || (v.Kind == KindFloat && o.Kind == KindInt) {
		return v.asFloat() == o.asFloat()
	}
	return false
}

func (v Value) asFloat() float64 {
	if v.Kind == KindInt {
		return float64(v.Int)
	}
	return v.Float
}

// Key returns a map key identifying the value for uniqueness counting;
// it is the hashable image of Equal. Numeric cells share a key space so
// a column mixing 1 and 1.0 counts one distinct value.
func (v Value) Key() string {
	switch v.Kind {
	case KindBool:
		return "b:" + strconv.FormatBool(v.Bool)
	case KindInt:
		return "n:" + strconv.FormatFloat(float64(v.Int), 'g', -1, 64)
	case KindFloat:
		return "n:" + strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return "s:" + v.Str
	case KindTime:
		return "t:" + v.Time.UTC().Format(time.RFC3339Nano)
	}
	return "null"
}

package answers

import (
	"fmt"
	"strings"
)

// Value is a single recorded decision. The zero Value is undecided.
type Value struct {
	raw any
}

// Undecided is returned for keys that have never been answered.
var Undecided = Value{}

// Bool records a yes/no decision.
func Bool(b bool) Value {
	return Value{raw: b}
}

// Enum records an enumerated choice such as an email provider.
func Enum(choice string) Value {
	return Value{raw: strings.TrimSpace(choice)}
}

// Parse converts command-line text into a Value. Recognised yes/no spellings
// become booleans, "nil"/"null"/"" leave the decision undecided, and anything
// else is kept as an enumerated choice.
func Parse(text string) Value {
	trimmed := strings.TrimSpace(text)
	switch strings.ToLower(trimmed) {
	case "true", "yes", "y":
		return Bool(true)
	case "false", "no", "n":
		return Bool(false)
	case "", "nil", "null", "~":
		return Undecided
	}
	return Enum(trimmed)
}

// Decided reports whether a decision has been recorded.
func (v Value) Decided() bool {
	return v.raw != nil
}

// Truthy reports whether the decision enables something: any decided value
// other than false.
func (v Value) Truthy() bool {
	if b, ok := v.raw.(bool); ok {
		return b
	}
	return v.raw != nil
}

// Enum returns the enumerated choice when the value holds one.
func (v Value) Enum() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// Equal reports whether two values hold the same decision.
func (v Value) Equal(other Value) bool {
	return v.raw == other.raw
}

func (v Value) String() string {
	switch raw := v.raw.(type) {
	case nil:
		return "undecided"
	case bool:
		if raw {
			return "true"
		}
		return "false"
	case string:
		return raw
	default:
		return fmt.Sprint(raw)
	}
}

// fromRaw reads a decoded answers.yml entry. Strings go through Parse so a
// hand-written "no" means the same as false.
func fromRaw(raw any) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return Undecided, nil
	case bool:
		return Bool(typed), nil
	case string:
		return Parse(typed), nil
	default:
		return Undecided, fmt.Errorf("unsupported value %v (%T)", raw, raw)
	}
}

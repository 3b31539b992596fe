package attr

import "strings"

// Flag is a tri-state boolean attribute. The zero value is Unset so merges
// never let an absent attribute override an explicit one.
type Flag int8

const (
	Unset Flag = iota
	True
	False
)

// ParseFlag converts a markup string into a Flag.
func ParseFlag(s string) Flag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return True
	case "false", "0", "no", "off":
		return False
	default:
		return Unset
	}
}

// FlagOf converts a Go bool.
func FlagOf(b bool) Flag {
	if b {
		return True
	}
	return False
}

// Bool resolves the flag, using def when it is Unset.
func (f Flag) Bool(def bool) bool {
	switch f {
	case True:
		return true
	case False:
		return false
	default:
		return def
	}
}

func (f Flag) String() string {
	switch f {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return ""
	}
}

package getopt

import (
	"strconv"
	"strings"
	"unicode"
)

// coerce converts a raw parameter to the rule's type. Type errors name the
// rule by its canonical name.
func coerce(rule *Rule, raw string) (Value, *ParseError) {
	switch rule.Type {
	case TypeWord:
		if strings.IndexFunc(raw, unicode.IsSpace) >= 0 {
			return Value{}, &ParseError{
				Type:    ErrorTypeInvalidValue,
				Message: "Option \"" + rule.Name + "\" requires a single-word parameter, but was given \"" + raw + "\".",
				Flag:    rule.Name,
			}
		}
		return String(raw), nil
	case TypeInteger, TypeNumericFlag:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Value{}, &ParseError{
				Type:    ErrorTypeInvalidValue,
				Message: "Option \"" + rule.Name + "\" requires an integer parameter, but was given \"" + raw + "\".",
				Flag:    rule.Name,
				Cause:   err,
			}
		}
		return Int(n), nil
	default:
		return String(raw), nil
	}
}

// split applies the parameter separator to string values. Values without the
// separator are left alone and empty pieces are dropped.
func split(v Value, sep string) Value {
	s, ok := v.Str()
	if !ok || sep == "" || !strings.Contains(s, sep) {
		return v
	}
	parts := strings.Split(s, sep)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			items = append(items, p)
		}
	}
	return Value{kind: KindList, list: items}
}

// isNegativeInt reports whether tok is "-" followed by decimal digits.
func isNegativeInt(tok string) bool {
	return len(tok) > 1 && tok[0] == '-' && isDigits(tok[1:])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

package getopt

import (
	"strings"

	"github.com/dzonerzy/go-getopt/internal/intern"
)

// RuleSpec is a declarative rule set: ShortOptions or Rules.
type RuleSpec interface {
	compile(names *intern.Table) ([]*Rule, error)
}

// ShortOptions declares one-letter flags in getopt(3) style: "abp:" declares
// the flags a and b and the option p with a required string parameter.
type ShortOptions string

func (s ShortOptions) compile(names *intern.Table) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isRuleLetter(c) {
			return nil, newRuleError(ErrorTypeMalformedRule, string(s), string(c),
				"Invalid character %q in short option rules %q.", string(c), string(s))
		}
		name := names.Rune(rune(c))
		rule := &Rule{Name: name, Aliases: []string{name}, key: string(s)}
		if i+1 < len(s) && s[i+1] == ':' {
			rule.Param = ParamRequired
			rule.Type = TypeString
			i++
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// RuleDef is one named rule. Flags is a pipe separated alias list with an
// optional trailing type marker, for example "apple|a=i".
//
// Markers: =s -s (string), =w -w (word), =i -i (integer), =# -# (numeric
// flag). "=" makes the parameter required, "-" optional.
type RuleDef struct {
	Flags string
	Help  string
}

// Def is shorthand for a RuleDef literal.
func Def(flags, help string) RuleDef {
	return RuleDef{Flags: flags, Help: help}
}

// Rules is an ordered list of named rules.
type Rules []RuleDef

func (rs Rules) compile(names *intern.Table) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(rs))
	for _, def := range rs {
		rule, err := def.compile(names)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (d RuleDef) compile(names *intern.Table) (*Rule, error) {
	list, param, typ, err := splitMarker(d.Flags)
	if err != nil {
		return nil, err
	}

	segments := strings.Split(list, "|")
	rule := &Rule{
		Aliases: make([]string, 0, len(segments)),
		Param:   param,
		Type:    typ,
		Help:    d.Help,
		key:     d.Flags,
	}
	for _, seg := range segments {
		if seg == "" {
			return nil, newRuleError(ErrorTypeBlankFlag, d.Flags, "",
				"Blank flag not allowed in rule %q.", d.Flags)
		}
		if strings.ContainsAny(seg, "= \t") {
			return nil, newRuleError(ErrorTypeMalformedRule, d.Flags, seg,
				"Malformed type marker in rule %q.", d.Flags)
		}
		rule.Aliases = append(rule.Aliases, names.Name(seg))
	}
	rule.Name = rule.Aliases[0]
	return rule, nil
}

// splitMarker strips the type marker from a rule key. A "-" followed by a
// letter that is not a type is part of the name ("top-n"); an "=" followed by
// one is an error.
func splitMarker(key string) (string, ParamMode, ValueType, error) {
	n := len(key)
	if n < 2 || (key[n-2] != '=' && key[n-2] != '-') {
		return key, ParamNone, TypeFlag, nil
	}

	var typ ValueType
	switch key[n-1] {
	case 's':
		typ = TypeString
	case 'w':
		typ = TypeWord
	case 'i':
		typ = TypeInteger
	case '#':
		typ = TypeNumericFlag
	default:
		if key[n-2] == '-' {
			return key, ParamNone, TypeFlag, nil
		}
		return "", 0, 0, newRuleError(ErrorTypeMalformedRule, key, "",
			"Malformed type marker in rule %q.", key)
	}

	param := ParamRequired
	if key[n-2] == '-' {
		param = ParamOptional
	}
	return key[:n-2], param, typ, nil
}

func isRuleLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

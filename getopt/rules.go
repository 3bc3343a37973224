package getopt

import (
	"slices"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dzonerzy/go-getopt/internal/intern"
)

// ParamMode says whether an option takes a parameter.
type ParamMode int

const (
	ParamNone ParamMode = iota
	ParamRequired
	ParamOptional
)

// ValueType is the type a parameter is coerced to.
type ValueType int

const (
	TypeFlag ValueType = iota
	TypeString
	TypeWord
	TypeInteger
	TypeNumericFlag
)

// hint is the placeholder shown in the usage message.
func (t ValueType) hint() string {
	switch t {
	case TypeWord:
		return "<word>"
	case TypeInteger:
		return "<integer>"
	case TypeNumericFlag:
		return "<number>"
	default:
		return "<string>"
	}
}

// Rule is one declared option.
type Rule struct {
	Name    string   // canonical name, the storage key
	Aliases []string // every name resolving to this rule, Name first
	Param   ParamMode
	Type    ValueType
	Help    string

	key      string // rule text as written, for error messages
	freeform bool
}

// TakesValue reports whether the rule accepts a parameter.
func (r *Rule) TakesValue() bool {
	return r.Param != ParamNone
}

func (r *Rule) clone() *Rule {
	c := *r
	c.Aliases = slices.Clone(r.Aliases)
	return &c
}

// RuleTable holds compiled rules in declaration order and resolves aliases
// to canonical names.
type RuleTable struct {
	rules   *orderedmap.OrderedMap[string, *Rule]
	aliases map[string]string
	numeric string
	names   *intern.Table
}

// NewRuleTable compiles spec into a table. A nil spec gives an empty table.
func NewRuleTable(spec RuleSpec, ignoreCase bool) (*RuleTable, error) {
	t := newRuleTable(ignoreCase)
	if spec == nil {
		return t, nil
	}
	if err := t.Add(spec); err != nil {
		return nil, err
	}
	return t, nil
}

func newRuleTable(ignoreCase bool) *RuleTable {
	return &RuleTable{
		rules:   orderedmap.New[string, *Rule](),
		aliases: make(map[string]string),
		names:   intern.NewTable(ignoreCase),
	}
}

// Add compiles spec and merges it into the table. The batch is validated
// as a whole against the table and itself; on error nothing is inserted.
func (t *RuleTable) Add(spec RuleSpec) error {
	batch, err := spec.compile(t.names)
	if err != nil {
		return err
	}

	claimed := make(map[string]bool)
	numeric := t.numeric
	for _, rule := range batch {
		for _, alias := range rule.Aliases {
			if _, exists := t.aliases[alias]; exists || claimed[alias] {
				return duplicateError(rule.key, alias)
			}
			claimed[alias] = true
		}
		if rule.Type == TypeNumericFlag {
			if numeric != "" {
				return newRuleError(ErrorTypeDuplicateFlag, rule.key, rule.Name,
					"Numeric flag is being defined more than once, already bound to %q.", numeric)
			}
			numeric = rule.Name
		}
	}

	for _, rule := range batch {
		t.insert(rule)
	}
	t.numeric = numeric
	return nil
}

// insert registers rule without validation.
func (t *RuleTable) insert(rule *Rule) {
	t.rules.Set(rule.Name, rule)
	for _, alias := range rule.Aliases {
		t.aliases[alias] = rule.Name
	}
}

// Resolve maps any alias to the canonical name.
func (t *RuleTable) Resolve(name string) (string, bool) {
	canonical, ok := t.aliases[t.names.Name(name)]
	return canonical, ok
}

// Lookup returns the rule an alias resolves to.
func (t *RuleTable) Lookup(name string) (*Rule, bool) {
	canonical, ok := t.Resolve(name)
	if !ok {
		return nil, false
	}
	return t.rules.Get(canonical)
}

// Numeric returns the rule receiving bare numeric tokens, if one is declared.
func (t *RuleTable) Numeric() (*Rule, bool) {
	if t.numeric == "" {
		return nil, false
	}
	return t.rules.Get(t.numeric)
}

// Rules returns copies of the rules in declaration order.
func (t *RuleTable) Rules() []*Rule {
	out := make([]*Rule, 0, t.rules.Len())
	for pair := t.rules.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.clone())
	}
	return out
}

// Len returns the number of rules.
func (t *RuleTable) Len() int {
	return t.rules.Len()
}

// longNames lists every multi-letter alias, used for suggestions.
func (t *RuleTable) longNames() []string {
	var names []string
	for pair := t.rules.Oldest(); pair != nil; pair = pair.Next() {
		for _, alias := range pair.Value.Aliases {
			if len(alias) > 1 {
				names = append(names, alias)
			}
		}
	}
	return names
}

// AddAliases attaches new aliases to existing rules. Keys that resolve to no
// rule are skipped. Keys are applied in sorted order and the whole map is
// rejected if any alias collides.
func (t *RuleTable) AddAliases(aliases map[string]string) error {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	type grant struct{ canonical, alias string }
	grants := make([]grant, 0, len(keys))
	claimed := make(map[string]bool)
	for _, k := range keys {
		canonical, ok := t.Resolve(k)
		if !ok {
			continue
		}
		raw := aliases[k]
		if raw == "" {
			return newRuleError(ErrorTypeBlankFlag, k, "",
				"Blank flag not allowed in rule %q.", k)
		}
		alias := t.names.Name(raw)
		if _, exists := t.aliases[alias]; exists || claimed[alias] {
			return duplicateError(k, alias)
		}
		claimed[alias] = true
		grants = append(grants, grant{canonical, alias})
	}

	for _, g := range grants {
		rule, _ := t.rules.Get(g.canonical)
		rule.Aliases = append(rule.Aliases, g.alias)
		t.aliases[g.alias] = g.canonical
	}
	return nil
}

// SetHelp replaces help text. Names that resolve to no rule are ignored.
func (t *RuleTable) SetHelp(help map[string]string) {
	for name, text := range help {
		if rule, ok := t.Lookup(name); ok {
			rule.Help = text
		}
	}
}

// setFolding switches case folding and rebuilds the alias index. Rules whose
// aliases collide once folded make it fail and leave the table unchanged.
func (t *RuleTable) setFolding(fold bool) error {
	if t.names.Folding() == fold {
		return nil
	}
	names := intern.NewTable(fold)
	rules := orderedmap.New[string, *Rule]()
	aliases := make(map[string]string, len(t.aliases))
	numeric := ""

	for pair := t.rules.Oldest(); pair != nil; pair = pair.Next() {
		rule := pair.Value.clone()
		for i, alias := range rule.Aliases {
			folded := names.Name(alias)
			if _, exists := aliases[folded]; exists {
				return duplicateError(pair.Key, folded)
			}
			rule.Aliases[i] = folded
			aliases[folded] = rule.Aliases[0]
		}
		rule.Name = rule.Aliases[0]
		if pair.Key == t.numeric {
			numeric = rule.Name
		}
		rules.Set(rule.Name, rule)
	}

	t.names, t.rules, t.aliases, t.numeric = names, rules, aliases, numeric
	return nil
}

// dashed renders an alias the way it is typed on the command line.
func dashed(alias string) string {
	if len(alias) == 1 {
		return "-" + alias
	}
	return "--" + alias
}

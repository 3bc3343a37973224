// Package getopt is a command-line option engine. A rule set (short option
// letters or named rules with aliases and typed parameters) is compiled into
// a RuleTable; Parse tokenizes an argument list against it, coerces values,
// runs option callbacks and keeps the bound options in declaration order.
//
// Basic usage:
//
//	opts, err := getopt.Parse(getopt.Rules{
//		getopt.Def("verbose|v", "Print more"),
//		getopt.Def("output|o=s", "Output file"),
//	}, os.Args[1:])
//	if err != nil {
//		var perr *getopt.ParseError
//		if errors.As(err, &perr) {
//			fmt.Fprint(os.Stderr, perr.Usage)
//		}
//		os.Exit(2)
//	}
//	out := opts.MustGetString("output", "-")
package getopt

import (
	"encoding/json"
	"log/slog"
	"os"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Callback observes every binding of an option. Returning an error aborts
// the parse with a ParseError wrapping it.
type Callback func(value Value, opts *Getopt) error

// Getopt is a parse engine bound to a rule table and an argument list.
// It is not safe for concurrent use.
type Getopt struct {
	cfg        config
	rules      *RuleTable
	discovered *RuleTable

	options   *orderedmap.OrderedMap[string, Value]
	counts    map[string]int
	assigned  *orderedmap.OrderedMap[string, Value]
	callbacks *orderedmap.OrderedMap[string, Callback]
	remaining []string

	args  []string
	dirty bool
}

// New compiles spec and binds the engine to args. A nil args reads
// os.Args[1:]. Parsing is deferred to Parse.
func New(spec RuleSpec, args []string, opts ...Option) (*Getopt, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	rules, err := NewRuleTable(spec, cfg.ignoreCase)
	if err != nil {
		return nil, err
	}

	if args == nil && len(os.Args) > 1 {
		args = os.Args[1:]
	}

	g := &Getopt{
		cfg:        cfg,
		rules:      rules,
		discovered: newRuleTable(cfg.ignoreCase),
		options:    orderedmap.New[string, Value](),
		counts:     make(map[string]int),
		assigned:   orderedmap.New[string, Value](),
		callbacks:  orderedmap.New[string, Callback](),
		args:       slices.Clone(args),
		dirty:      true,
	}
	g.cfg.logger.Debug("rules compiled", slog.Int("rules", rules.Len()), slog.Int("args", len(args)))
	return g, nil
}

// Parse compiles spec, binds args and parses them in one step.
func Parse(spec RuleSpec, args []string, opts ...Option) (*Getopt, error) {
	g, err := New(spec, args, opts...)
	if err != nil {
		return nil, err
	}
	if err := g.Parse(); err != nil {
		return g, err
	}
	return g, nil
}

// Configure applies options after construction. The next Parse re-runs.
// Programmatic assignments follow their options to the refolded names;
// assignments to freeform options are dropped with the discovered rules.
func (g *Getopt) Configure(opts ...Option) error {
	cfg := g.cfg
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := g.rules.setFolding(cfg.ignoreCase); err != nil {
		return err
	}
	g.discovered = newRuleTable(cfg.ignoreCase)
	g.cfg = cfg

	assigned := orderedmap.New[string, Value]()
	for pair := g.assigned.Oldest(); pair != nil; pair = pair.Next() {
		if canonical, ok := g.resolve(pair.Key); ok {
			assigned.Set(canonical, pair.Value)
		}
	}
	g.assigned = assigned
	g.dirty = true
	return nil
}

// Rules returns the engine's rule table.
func (g *Getopt) Rules() *RuleTable {
	return g.rules
}

// AddRules merges more rules into the table.
func (g *Getopt) AddRules(spec RuleSpec) error {
	if err := g.rules.Add(spec); err != nil {
		return err
	}
	g.cfg.logger.Debug("rules added", slog.Int("rules", g.rules.Len()))
	g.dirty = true
	return nil
}

// SetAliases attaches aliases to declared options, keyed by any existing
// name. Unknown keys are skipped.
func (g *Getopt) SetAliases(aliases map[string]string) error {
	if err := g.rules.AddAliases(aliases); err != nil {
		return err
	}
	g.dirty = true
	return nil
}

// SetHelp replaces help text, keyed by any existing name. Unknown names are
// ignored.
func (g *Getopt) SetHelp(help map[string]string) {
	g.rules.SetHelp(help)
}

// SetOptionCallback registers fn for the option known as name. The name is
// resolved when options are bound, so callbacks may be registered before
// the rule or alias exists.
func (g *Getopt) SetOptionCallback(name string, fn Callback) error {
	if fn == nil {
		return newUsageError("Callback for option %q must not be nil.", name)
	}
	g.callbacks.Set(name, fn)
	g.dirty = true
	return nil
}

// SetArguments replaces the argument list.
func (g *Getopt) SetArguments(args []string) {
	g.args = slices.Clone(args)
	g.dirty = true
}

// AddArguments appends to the argument list.
func (g *Getopt) AddArguments(args []string) {
	g.args = append(g.args, args...)
	g.dirty = true
}

// Arguments returns a copy of the stored argument list.
func (g *Getopt) Arguments() []string {
	return slices.Clone(g.args)
}

// UnmarshalArguments decodes a JSON array of strings into an argument list.
func UnmarshalArguments(data []byte) ([]string, error) {
	var args []string
	if err := json.Unmarshal(data, &args); err != nil || args == nil {
		return nil, newUsageError("Arguments should be an array of strings.")
	}
	return args, nil
}

// Parse runs the parser over the stored arguments if anything changed since
// the last successful run. Each run starts from the programmatic assignments
// and rebinds every option from scratch.
func (g *Getopt) Parse() error {
	if !g.dirty {
		return nil
	}
	g.dirty = false

	g.options = orderedmap.New[string, Value]()
	clear(g.counts)
	g.remaining = g.remaining[:0]
	g.discovered = newRuleTable(g.cfg.ignoreCase)
	for pair := g.assigned.Oldest(); pair != nil; pair = pair.Next() {
		g.options.Set(pair.Key, pair.Value)
	}

	p := newParser(g)
	if err := p.run(); err != nil {
		g.dirty = true
		g.cfg.logger.Debug("parse failed", slog.String("error", err.Error()))
		return err
	}
	g.cfg.logger.Debug("parse complete",
		slog.Int("options", g.options.Len()),
		slog.Int("remaining", len(g.remaining)))
	return nil
}

// sync runs a pending parse before an accessor reads the bindings. On
// failure the engine stays dirty and the accessor sees what was bound
// before the failing token; Parse reports the error.
func (g *Getopt) sync() error {
	if !g.dirty {
		return nil
	}
	return g.Parse()
}

// lookup resolves a name against declared rules, then freeform ones.
func (g *Getopt) lookup(name string) (*Rule, bool) {
	if rule, ok := g.rules.Lookup(name); ok {
		return rule, true
	}
	return g.discovered.Lookup(name)
}

func (g *Getopt) resolve(name string) (string, bool) {
	if rule, ok := g.lookup(name); ok {
		return rule.Name, true
	}
	return "", false
}

// Option returns the value bound to name or any of its aliases. Like every
// accessor it parses first when the rules, arguments or configuration
// changed since the last parse.
func (g *Getopt) Option(name string) (Value, bool) {
	_ = g.sync()
	canonical, ok := g.resolve(name)
	if !ok {
		return Value{}, false
	}
	return g.options.Get(canonical)
}

// IsSet reports whether name is bound, whatever the value.
func (g *Getopt) IsSet(name string) bool {
	_, ok := g.Option(name)
	return ok
}

// Set binds v to a declared option. The assignment survives later parses
// until a parsed occurrence overrides it. It reports false for unknown names.
func (g *Getopt) Set(name string, v Value) bool {
	_ = g.sync()
	canonical, ok := g.resolve(name)
	if !ok {
		return false
	}
	g.assigned.Set(canonical, v)
	g.options.Set(canonical, v)
	return true
}

// Unset removes the binding and any programmatic assignment for name. An
// option given in the arguments comes back only when a later change forces
// a reparse.
func (g *Getopt) Unset(name string) {
	_ = g.sync()
	canonical, ok := g.resolve(name)
	if !ok {
		return
	}
	g.assigned.Delete(canonical)
	g.options.Delete(canonical)
	delete(g.counts, canonical)
}

// Options returns the canonical names of bound options in binding order.
func (g *Getopt) Options() []string {
	_ = g.sync()
	names := make([]string, 0, g.options.Len())
	for pair := g.options.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// RemainingArgs returns the arguments that were not consumed by options.
func (g *Getopt) RemainingArgs() []string {
	_ = g.sync()
	return slices.Clone(g.remaining)
}

// Occurrences returns how many times name was seen in the last parse.
func (g *Getopt) Occurrences(name string) int {
	_ = g.sync()
	canonical, ok := g.resolve(name)
	if !ok {
		return 0
	}
	return g.counts[canonical]
}

// GetBool retrieves a boolean option value.
func (g *Getopt) GetBool(name string) (bool, bool) {
	if v, ok := g.Option(name); ok {
		return v.Bool()
	}
	return false, false
}

// GetInt retrieves an integer option value. Flag counts from cumulative
// flags are integers.
func (g *Getopt) GetInt(name string) (int, bool) {
	if v, ok := g.Option(name); ok {
		return v.Int()
	}
	return 0, false
}

// GetString retrieves a string option value.
func (g *Getopt) GetString(name string) (string, bool) {
	if v, ok := g.Option(name); ok {
		return v.Str()
	}
	return "", false
}

// GetList retrieves a list option value. A single string binds as a one
// element list.
func (g *Getopt) GetList(name string) ([]string, bool) {
	v, ok := g.Option(name)
	if !ok {
		return nil, false
	}
	if s, isStr := v.Str(); isStr {
		return []string{s}, true
	}
	return v.List()
}

// MustGetBool returns the boolean value or defaultValue.
func (g *Getopt) MustGetBool(name string, defaultValue bool) bool {
	if value, exists := g.GetBool(name); exists {
		return value
	}
	return defaultValue
}

// MustGetInt returns the integer value or defaultValue.
func (g *Getopt) MustGetInt(name string, defaultValue int) int {
	if value, exists := g.GetInt(name); exists {
		return value
	}
	return defaultValue
}

// MustGetString returns the string value or defaultValue.
func (g *Getopt) MustGetString(name string, defaultValue string) string {
	if value, exists := g.GetString(name); exists {
		return value
	}
	return defaultValue
}

// MustGetList returns the list value or defaultValue.
func (g *Getopt) MustGetList(name string, defaultValue []string) []string {
	if value, exists := g.GetList(name); exists {
		return value
	}
	return defaultValue
}

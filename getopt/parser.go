package getopt

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dzonerzy/go-getopt/internal/fuzzy"
)

// suggestDistance is the edit distance within which an unknown long option
// gets a suggestion.
const suggestDistance = 2

// parser is a single pass over the engine's arguments.
type parser struct {
	g    *Getopt
	args []string
	pos  int
	seen map[string]bool // options bound by this pass
}

func newParser(g *Getopt) *parser {
	return &parser{
		g:    g,
		args: slices.Clone(g.args),
		seen: make(map[string]bool),
	}
}

// run consumes the arguments left to right. Positional tokens are collected
// and scanning continues after them.
func (p *parser) run() error {
	for p.pos < len(p.args) {
		tok := p.args[p.pos]
		p.pos++

		var err error
		switch {
		case tok == "--":
			if p.g.cfg.dashDash {
				p.g.remaining = append(p.g.remaining, p.args[p.pos:]...)
				p.pos = len(p.args)
			}
		case tok == "-":
			if p.pos < len(p.args) {
				err = p.fail(ErrorTypeAmbiguousDash, "-",
					"A lone \"-\" is only allowed as the last argument.")
			} else {
				p.g.remaining = append(p.g.remaining, tok)
			}
		case strings.HasPrefix(tok, "--"):
			err = p.long(tok[2:])
		case p.g.cfg.numeric && isNegativeInt(tok):
			err = p.numeric(tok[1:])
		case len(tok) > 1 && tok[0] == '-':
			err = p.short(tok[1:])
		default:
			p.g.remaining = append(p.g.remaining, tok)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// long handles --name and --name=value.
func (p *parser) long(body string) error {
	name, value, inline := strings.Cut(body, "=")
	rule, ok := p.g.lookup(name)
	if !ok {
		if !p.g.cfg.freeform || name == "" {
			return p.unknown(name)
		}
		rule = p.discover(name)
	}

	if inline {
		if !rule.TakesValue() {
			if value != "" {
				p.args = slices.Insert(p.args, p.pos, value)
			}
			return p.bindFlag(rule)
		}
		return p.bindRaw(rule, value)
	}
	return p.takeParam(rule, name)
}

// short handles a cluster of one-letter options. A letter taking a parameter
// consumes the rest of the cluster, or the next token when nothing is left.
func (p *parser) short(cluster string) error {
	for i, r := range cluster {
		letter := string(r)
		rule, ok := p.g.lookup(letter)
		if !ok {
			return p.unknown(letter)
		}
		if !rule.TakesValue() {
			if err := p.bindFlag(rule); err != nil {
				return err
			}
			continue
		}
		_, width := utf8.DecodeRuneInString(cluster[i:])
		if rest := cluster[i+width:]; rest != "" {
			return p.bindRaw(rule, rest)
		}
		return p.takeParam(rule, letter)
	}
	return nil
}

// numeric binds a token such as -5 to the numeric rule.
func (p *parser) numeric(digits string) error {
	rule, ok := p.g.rules.Numeric()
	if !ok {
		return p.unknown(digits)
	}
	return p.bindRaw(rule, digits)
}

// takeParam reads the parameter of rule from the next token. typed is the
// name as it appeared on the command line.
func (p *parser) takeParam(rule *Rule, typed string) error {
	if p.pos < len(p.args) && acceptsValue(rule, p.args[p.pos]) {
		raw := p.args[p.pos]
		p.pos++
		return p.bindRaw(rule, raw)
	}
	if rule.Param == ParamRequired {
		return p.fail(ErrorTypeMissingValue, rule.Name,
			"Option %q requires a parameter.", typed)
	}
	return p.bindFlag(rule)
}

// acceptsValue reports whether tok can be consumed as a parameter. Tokens
// that look like options are left alone, except negative numbers for
// integer rules.
func acceptsValue(rule *Rule, tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return true
	}
	return (rule.Type == TypeInteger || rule.Type == TypeNumericFlag) && isNegativeInt(tok)
}

func (p *parser) discover(name string) *Rule {
	key := p.g.discovered.names.Name(name)
	rule := &Rule{
		Name:     key,
		Aliases:  []string{key},
		Param:    ParamOptional,
		Type:     TypeString,
		key:      name,
		freeform: true,
	}
	p.g.discovered.insert(rule)
	p.g.cfg.logger.Debug("freeform option registered", slog.String("option", key))
	return rule
}

// bindRaw coerces raw and binds it as one occurrence of rule.
func (p *parser) bindRaw(rule *Rule, raw string) error {
	v, perr := coerce(rule, raw)
	if perr != nil {
		perr.Usage = p.g.UsageMessage()
		return perr
	}
	v = split(v, p.g.cfg.separator)

	prev, had := p.g.options.Get(rule.Name)
	if p.g.cfg.cumulativeParam && had && p.seen[rule.Name] {
		v = appendValue(prev, v)
	}
	return p.bind(rule, v)
}

// bindFlag records an occurrence without a parameter. Under cumulative
// parameters a bare optional-parameter option keeps the values collected
// so far.
func (p *parser) bindFlag(rule *Rule) error {
	v := Bool(true)
	if p.g.cfg.cumulativeFlags {
		v = Int(p.g.counts[rule.Name] + 1)
	}
	if p.g.cfg.cumulativeParam && rule.TakesValue() && p.seen[rule.Name] {
		if prev, had := p.g.options.Get(rule.Name); had {
			v = prev
		}
	}
	return p.bind(rule, v)
}

func (p *parser) bind(rule *Rule, v Value) error {
	p.g.options.Set(rule.Name, v)
	p.g.counts[rule.Name]++
	p.seen[rule.Name] = true
	return p.dispatch(rule, v)
}

// dispatch runs the callbacks registered under any name of rule, in
// registration order.
func (p *parser) dispatch(rule *Rule, v Value) error {
	for pair := p.g.callbacks.Oldest(); pair != nil; pair = pair.Next() {
		canonical, ok := p.g.resolve(pair.Key)
		if !ok || canonical != rule.Name {
			continue
		}
		if err := pair.Value(v, p.g); err != nil {
			perr := p.fail(ErrorTypeInvalidOption, rule.Name,
				"The option %s is invalid. See usage.", rule.Name)
			perr.Cause = err
			return perr
		}
	}
	return nil
}

// unknown reports an unrecognized option, with a suggestion for long names.
func (p *parser) unknown(name string) error {
	perr := p.fail(ErrorTypeUnknownOption, name, "Option %q is not recognized.", name)
	if p.g.cfg.suggest && len(name) > 1 {
		perr.Suggestion = fuzzy.FindBestOption(name, p.g.rules.longNames(), suggestDistance)
	}
	return perr
}

func (p *parser) fail(typ ErrorType, flag, format string, args ...any) *ParseError {
	return &ParseError{
		Type:    typ,
		Message: fmt.Sprintf(format, args...),
		Flag:    flag,
		Usage:   p.g.UsageMessage(),
	}
}

package getopt

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/dzonerzy/go-getopt/internal/pool"
)

// usageNameWidth is the minimum width of the option column.
const usageNameWidth = 20

// UsageMessage renders the declared options with their help text. Freeform
// options are never listed.
func (g *Getopt) UsageMessage() string {
	type line struct{ name, help string }
	var (
		lines []line
		width = usageNameWidth
	)
	for pair := g.rules.rules.Oldest(); pair != nil; pair = pair.Next() {
		rule := pair.Value
		if rule.freeform {
			continue
		}
		flags := make([]string, len(rule.Aliases))
		for i, alias := range rule.Aliases {
			flags[i] = dashed(alias)
		}
		name := strings.Join(flags, "|")
		switch rule.Param {
		case ParamRequired:
			name += " " + rule.Type.hint()
		case ParamOptional:
			name += " [ " + rule.Type.hint() + " ]"
		}
		width = max(width, len(name))
		lines = append(lines, line{name, rule.Help})
	}

	b := pool.GetBuffer()
	defer pool.PutBuffer(b)
	fmt.Fprintf(b, "Usage: %s [ options ]\n", g.cfg.progName)
	for _, l := range lines {
		fmt.Fprintf(b, "%-*s %s\n", width, l.name, l.help)
	}
	return b.String()
}

// String renders the bound options as space separated name=value pairs.
func (g *Getopt) String() string {
	_ = g.sync()
	parts := make([]string, 0, g.options.Len())
	for pair := g.options.Oldest(); pair != nil; pair = pair.Next() {
		parts = append(parts, pair.Key+"="+pair.Value.String())
	}
	return strings.Join(parts, " ")
}

// ToArray flattens the bound options into names followed by their values.
// Bare flags contribute only their name.
func (g *Getopt) ToArray() []string {
	_ = g.sync()
	out := make([]string, 0, g.options.Len()*2)
	for pair := g.options.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
		if !pair.Value.IsTrue() {
			out = append(out, pair.Value.String())
		}
	}
	return out
}

type jsonDocument struct {
	Options []jsonEntry `json:"options"`
}

type jsonEntry struct {
	Option jsonOption `json:"option"`
}

type jsonOption struct {
	Flag      string `json:"flag"`
	Parameter any    `json:"parameter"`
}

// ToJSON renders the bound options as an indented JSON document. A pending
// parse that fails is returned as the error.
func (g *Getopt) ToJSON() (string, error) {
	if err := g.sync(); err != nil {
		return "", err
	}
	doc := jsonDocument{Options: make([]jsonEntry, 0, g.options.Len())}
	for pair := g.options.Oldest(); pair != nil; pair = pair.Next() {
		doc.Options = append(doc.Options, jsonEntry{Option: jsonOption{
			Flag:      pair.Key,
			Parameter: pair.Value.jsonValue(),
		}})
	}

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode options: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ToXML renders the bound options as an XML document. Bare flags have no
// parameter attribute. A pending parse that fails is returned as the error.
func (g *Getopt) ToXML() (string, error) {
	if err := g.sync(); err != nil {
		return "", err
	}
	b := pool.GetBuffer()
	defer pool.PutBuffer(b)
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n<options>")
	for pair := g.options.Oldest(); pair != nil; pair = pair.Next() {
		b.WriteString(`<option flag="`)
		if err := xml.EscapeText(b, []byte(pair.Key)); err != nil {
			return "", fmt.Errorf("encode option %q: %w", pair.Key, err)
		}
		b.WriteByte('"')
		if !pair.Value.IsTrue() {
			b.WriteString(` parameter="`)
			if err := xml.EscapeText(b, []byte(pair.Value.String())); err != nil {
				return "", fmt.Errorf("encode option %q: %w", pair.Key, err)
			}
			b.WriteByte('"')
		}
		b.WriteString("/>")
	}
	b.WriteString("</options>\n")
	return b.String(), nil
}

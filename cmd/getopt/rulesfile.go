package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dzonerzy/go-getopt/getopt"
	"gopkg.in/yaml.v3"
)

// RulesFileError reports a rules file that could not be read or decoded.
type RulesFileError struct {
	Path string
	Err  error
}

func (e *RulesFileError) Error() string {
	return fmt.Sprintf("rules file %s: %v", e.Path, e.Err)
}

func (e *RulesFileError) Unwrap() error { return e.Err }

// loadRulesFile reads named rules from a YAML or TOML file. The file is a
// single mapping from rule key to help text, kept in file order:
//
//	verbose|v: Print more
//	output|o=s: Output file
//
// Files ending in .toml are decoded as TOML, everything else as YAML.
func loadRulesFile(path string) (getopt.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RulesFileError{Path: path, Err: err}
	}

	var rules getopt.Rules
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		rules, err = decodeTOMLRules(data)
	default:
		rules, err = decodeYAMLRules(data)
	}
	if err != nil {
		return nil, &RulesFileError{Path: path, Err: err}
	}
	return rules, nil
}

func decodeYAMLRules(data []byte) (getopt.Rules, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return getopt.Rules{}, nil
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of rule to help text")
	}

	m := doc.Content[0]
	rules := make(getopt.Rules, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: help for %q must be a string", val.Line, key.Value)
		}
		help := val.Value
		if val.Tag == "!!null" {
			help = ""
		}
		rules = append(rules, getopt.Def(key.Value, help))
	}
	return rules, nil
}

func decodeTOMLRules(data []byte) (getopt.Rules, error) {
	var raw map[string]any
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw)
	if err != nil {
		return nil, err
	}

	rules := make(getopt.Rules, 0, len(raw))
	for _, key := range md.Keys() {
		if len(key) != 1 {
			return nil, fmt.Errorf("rule %q must be a top-level key", key.String())
		}
		help, ok := raw[key[0]].(string)
		if !ok {
			return nil, fmt.Errorf("help for %q must be a string", key[0])
		}
		rules = append(rules, getopt.Def(key[0], help))
	}
	return rules, nil
}

// Package intern canonicalises option names for go-getopt.
// Used by the rule table for alias keys and by the parser for lookups, so
// that every spelling of a name maps to one shared string.
package intern

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Table interns option names, optionally folding them to lower case first.
type Table struct {
	names map[string]string
	fold  bool
	mutex sync.RWMutex
}

// NewTable creates a name table. When fold is true every name is lower-cased
// before it is interned.
func NewTable(fold bool) *Table {
	return &Table{
		names: make(map[string]string, 32),
		fold:  fold,
	}
}

// Folding reports whether the table lower-cases names.
func (t *Table) Folding() bool {
	return t.fold
}

// Name returns the canonical form of s.
func (t *Table) Name(s string) string {
	t.mutex.RLock()
	fold := t.fold
	if !fold {
		if interned, exists := t.names[s]; exists {
			t.mutex.RUnlock()
			return interned
		}
	}
	t.mutex.RUnlock()

	key := s
	if fold {
		key = lower(s)
	}
	if len(key) == 1 {
		if c := key[0]; c < utf8.RuneSelf {
			if single := singleChar(c); single != "" {
				return single
			}
		}
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()
	if interned, exists := t.names[key]; exists {
		return interned
	}
	t.names[key] = key
	return key
}

// Rune returns the canonical form of a one-letter option name.
func (t *Table) Rune(r rune) string {
	if r < utf8.RuneSelf {
		c := byte(r)
		if t.Folding() && c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if single := singleChar(c); single != "" {
			return single
		}
	}
	return t.Name(string(r))
}

// Len returns the number of interned multi-letter names.
func (t *Table) Len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.names)
}

// lower avoids an allocation for names that are already lower case.
func lower(s string) string {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return strings.ToLower(s)
		}
	}
	return s
}

func singleChar(c byte) string {
	switch {
	case c >= 'a' && c <= 'z':
		return singleCharStrings[c-'a']
	case c >= 'A' && c <= 'Z':
		return singleCharStrings[26+c-'A']
	case c >= '0' && c <= '9':
		return singleCharStrings[52+c-'0']
	}
	return ""
}

// Pre-allocated single character names for short options
// a-z (0-25), A-Z (26-51), 0-9 (52-61)
var singleCharStrings = [62]string{
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
}

package getopt

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// config holds the parsing and formatting policy of an engine.
type config struct {
	ignoreCase      bool
	dashDash        bool
	cumulativeParam bool
	cumulativeFlags bool
	separator       string
	freeform        bool
	numeric         bool
	suggest         bool
	progName        string
	logger          *slog.Logger
}

func defaultConfig() config {
	prog := "getopt"
	if len(os.Args) > 0 {
		prog = filepath.Base(os.Args[0])
	}
	return config{
		dashDash: true,
		suggest:  true,
		progName: prog,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures an engine. Options are applied in order at construction
// or later through Configure.
type Option func(*config)

// IgnoreCase folds option names to lower case when rules are compiled and
// when tokens are matched.
func IgnoreCase() Option {
	return func(c *config) { c.ignoreCase = true }
}

// DashDash controls whether "--" ends option scanning. Enabled by default.
// When disabled the token is dropped and scanning continues.
func DashDash(enabled bool) Option {
	return func(c *config) { c.dashDash = enabled }
}

// CumulativeParameters makes repeated value-bearing options accumulate into a
// list instead of overwriting the previous value.
func CumulativeParameters() Option {
	return func(c *config) { c.cumulativeParam = true }
}

// CumulativeFlags makes repeated bare flags count their occurrences.
func CumulativeFlags() Option {
	return func(c *config) { c.cumulativeFlags = true }
}

// ParameterSeparator splits every bound string value on sep. An empty sep
// disables splitting.
func ParameterSeparator(sep string) Option {
	return func(c *config) { c.separator = sep }
}

// FreeformFlags accepts undeclared long options, registering each as an
// optional string option for the current parse.
func FreeformFlags() Option {
	return func(c *config) { c.freeform = true }
}

// NumericFlags accepts tokens like -5 as the value of the numeric rule.
func NumericFlags() Option {
	return func(c *config) { c.numeric = true }
}

// SuggestFlags toggles "did you mean" suggestions on unknown long options.
func SuggestFlags(enabled bool) Option {
	return func(c *config) { c.suggest = enabled }
}

// ProgramName sets the name shown in the usage header.
func ProgramName(name string) Option {
	return func(c *config) { c.progName = name }
}

// WithLogger routes debug traces of rule compilation and parsing to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

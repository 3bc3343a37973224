// Command getopt parses an argument list against option rules given on its
// own command line or in a rules file, and prints the result.
//
//	getopt -r 'abp:' -- -a -p value
//	getopt -R 'verbose|v' -R 'output|o=s:Output file' -o json -- -v --output=x
//	getopt -f rules.yaml -o usage
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dzonerzy/go-getopt/getopt"
	optio "github.com/dzonerzy/go-getopt/io"
)

type flags struct {
	short            string
	named            []string
	rulesFile        string
	output           string
	name             string
	separator        string
	ignoreCase       bool
	noDashDash       bool
	cumulativeParams bool
	cumulativeFlags  bool
	freeform         bool
	numeric          bool
	verbose          bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err != nil {
		printError(stderr, err)
	}
	return newExitCodeManager().resolve(err)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "getopt [flags] [--] ARGS...",
		Short: "Parse command-line options against a rule set",
		Long: `getopt compiles option rules, parses the arguments after -- against them
and prints the bound options as text, a flat list, JSON, XML or a usage
message.

Short rules follow the classic letter syntax ("abp:"). Named rules use
"name|alias" keys with an optional type marker: =s =w =i for required
string, word and integer parameters, -s -w -i for optional ones, =# for
the numeric flag. A named rule given with -R may carry help text after a
colon: "output|o=s:Output file".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(f, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: defaultExitDefaults().Misusage, Err: err}
	})

	fl := cmd.Flags()
	fl.SetInterspersed(false)
	fl.StringVarP(&f.short, "rules", "r", "", "short option string, e.g. \"abp:\"")
	fl.StringArrayVarP(&f.named, "rule", "R", nil, "named rule \"apple|a=s\" or \"apple|a=s:help\" (repeatable)")
	fl.StringVarP(&f.rulesFile, "rules-file", "f", "", "YAML or TOML file mapping rules to help text")
	fl.StringVarP(&f.output, "output", "o", "text", "output format: text|array|json|xml|usage")
	fl.StringVar(&f.name, "name", "", "program name shown in the usage message")
	fl.StringVar(&f.separator, "separator", "", "split parameter values on this separator")
	fl.BoolVar(&f.ignoreCase, "ignore-case", false, "match option names case-insensitively")
	fl.BoolVar(&f.noDashDash, "no-dashdash", false, "do not treat -- as the end of options")
	fl.BoolVar(&f.cumulativeParams, "cumulative-params", false, "collect repeated parameters into a list")
	fl.BoolVar(&f.cumulativeFlags, "cumulative-flags", false, "count repeated flags")
	fl.BoolVar(&f.freeform, "freeform", false, "accept undeclared long options")
	fl.BoolVar(&f.numeric, "numeric", false, "accept -NUMBER for the numeric rule")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log rule compilation and parsing to stderr")
	return cmd
}

func execute(f *flags, args []string, stdout, stderr io.Writer) error {
	if !validOutput(f.output) {
		return &ExitError{
			Code: defaultExitDefaults().Misusage,
			Err:  fmt.Errorf("unknown output format %q (want text, array, json, xml or usage)", f.output),
		}
	}

	specs, err := collectSpecs(f)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		return &ExitError{
			Code: defaultExitDefaults().Misusage,
			Err:  errors.New("no rules given; use --rules, --rule or --rules-file"),
		}
	}

	logger := slog.New(optio.NewHandler(stderr, &optio.Options{Level: slog.LevelWarn, Format: optio.LogFormatTagged}))
	if f.verbose {
		logger = slog.New(optio.NewHandler(stderr, &optio.Options{Level: slog.LevelDebug, Format: optio.LogFormatTagged}))
	}

	g, err := getopt.New(specs[0], append([]string{}, args...), engineOptions(f, logger)...)
	if err != nil {
		return err
	}
	for _, spec := range specs[1:] {
		if err := g.AddRules(spec); err != nil {
			return err
		}
	}

	if f.output == "usage" {
		_, err := io.WriteString(stdout, g.UsageMessage())
		return err
	}
	if err := g.Parse(); err != nil {
		return err
	}
	logger.Log(context.Background(), optio.LevelSuccess, "parsed", slog.Int("options", len(g.Options())), slog.Int("remaining", len(g.RemainingArgs())))
	return render(stdout, f.output, g)
}

func validOutput(format string) bool {
	switch format {
	case "text", "array", "json", "xml", "usage":
		return true
	}
	return false
}

// collectSpecs gathers rule sets in flag order: short string, rules file,
// then -R rules.
func collectSpecs(f *flags) ([]getopt.RuleSpec, error) {
	var specs []getopt.RuleSpec
	if f.short != "" {
		specs = append(specs, getopt.ShortOptions(f.short))
	}
	if f.rulesFile != "" {
		rules, err := loadRulesFile(f.rulesFile)
		if err != nil {
			return nil, err
		}
		if len(rules) > 0 {
			specs = append(specs, rules)
		}
	}
	if len(f.named) > 0 {
		rules := make(getopt.Rules, 0, len(f.named))
		for _, r := range f.named {
			key, help, _ := strings.Cut(r, ":")
			rules = append(rules, getopt.Def(key, help))
		}
		specs = append(specs, rules)
	}
	return specs, nil
}

func engineOptions(f *flags, logger *slog.Logger) []getopt.Option {
	opts := []getopt.Option{
		getopt.DashDash(!f.noDashDash),
		getopt.WithLogger(logger),
	}
	if f.name != "" {
		opts = append(opts, getopt.ProgramName(f.name))
	}
	if f.separator != "" {
		opts = append(opts, getopt.ParameterSeparator(f.separator))
	}
	if f.ignoreCase {
		opts = append(opts, getopt.IgnoreCase())
	}
	if f.cumulativeParams {
		opts = append(opts, getopt.CumulativeParameters())
	}
	if f.cumulativeFlags {
		opts = append(opts, getopt.CumulativeFlags())
	}
	if f.freeform {
		opts = append(opts, getopt.FreeformFlags())
	}
	if f.numeric {
		opts = append(opts, getopt.NumericFlags())
	}
	return opts
}

// render prints the parsed options. Text and array output end with the
// remaining arguments after a "--" line when there are any.
func render(w io.Writer, format string, g *getopt.Getopt) error {
	var out strings.Builder
	switch format {
	case "json":
		doc, err := g.ToJSON()
		if err != nil {
			return err
		}
		out.WriteString(doc)
		out.WriteByte('\n')
	case "xml":
		doc, err := g.ToXML()
		if err != nil {
			return err
		}
		out.WriteString(doc)
	case "array":
		for _, item := range g.ToArray() {
			out.WriteString(item)
			out.WriteByte('\n')
		}
		writeRemaining(&out, g.RemainingArgs(), "\n")
	default:
		out.WriteString(g.String())
		out.WriteByte('\n')
		writeRemaining(&out, g.RemainingArgs(), " ")
	}
	_, err := io.WriteString(w, out.String())
	return err
}

func writeRemaining(out *strings.Builder, rest []string, sep string) {
	if len(rest) == 0 {
		return
	}
	out.WriteString("--")
	for _, arg := range rest {
		out.WriteString(sep)
		out.WriteString(arg)
	}
	out.WriteByte('\n')
}

// printError writes "Error: <message>" in red, the suggestion for unknown
// options and, for parse errors, the usage message.
func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprintf(w, "Error: %s\n", err)

	var perr *getopt.ParseError
	if !errors.As(err, &perr) {
		return
	}
	if perr.Suggestion != "" {
		fmt.Fprintf(w, "Did you mean %s?\n", color.New(color.FgYellow).Sprint("--"+perr.Suggestion))
	}
	if perr.Usage != "" {
		fmt.Fprintf(w, "\n%s", perr.Usage)
	}
}

package getopt

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParameterTypes(t *testing.T) {
	g, err := New(Rules{
		Def("apple|a=i", "apple with integer"),
		Def("banana|b=w", "banana with word"),
		Def("pear|p=s", "pear with string"),
		Def("orange|o-i", "orange with optional integer"),
		Def("lemon|l-w", "lemon with optional word"),
		Def("kumquat|k-s", "kumquat with optional string"),
	}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		args   []string
		option string
		want   Value
	}{
		{[]string{"-a", "327"}, "a", Int(327)},
		{[]string{"-a", "-12"}, "apple", Int(-12)},
		{[]string{"-b", "word"}, "b", String("word")},
		{[]string{"-p", "string"}, "p", String("string")},
		{[]string{"-p", "two words"}, "pear", String("two words")},
		{[]string{"-o", "327"}, "o", Int(327)},
		{[]string{"-o"}, "o", Bool(true)},
		{[]string{"-l", "word"}, "l", String("word")},
		{[]string{"-k", "string"}, "k", String("string")},
		{[]string{"-k", "-a", "1"}, "k", Bool(true)},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			g.SetArguments(tt.args)
			if err := g.Parse(); err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			got, ok := g.Option(tt.option)
			if !ok {
				t.Fatalf("%s not set", tt.option)
			}
			if !got.Equal(tt.want) {
				t.Errorf("%s = %v (%s), want %v (%s)", tt.option, got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

func TestParameterTypeErrors(t *testing.T) {
	spec := Rules{
		Def("apple|a=i", "apple with integer"),
		Def("banana|b=w", "banana with word"),
		Def("orange|o-i", "orange with optional integer"),
	}
	tests := []struct {
		args    []string
		message string
	}{
		{[]string{"-a", "noninteger"}, `Option "apple" requires an integer parameter, but was given "noninteger".`},
		{[]string{"--apple=3.5"}, `Option "apple" requires an integer parameter, but was given "3.5".`},
		{[]string{"-b", "two words"}, `Option "banana" requires a single-word parameter, but was given "two words".`},
		{[]string{"-b", "tab\tinside"}, `Option "banana" requires a single-word parameter, but was given "tab` + "\t" + `inside".`},
		{[]string{"-o", "x"}, `Option "orange" requires an integer parameter, but was given "x".`},
	}
	for _, tt := range tests {
		t.Run(tt.args[len(tt.args)-1], func(t *testing.T) {
			_, err := Parse(spec, tt.args)
			perr := parseError(t, err)
			if perr.Message != tt.message {
				t.Errorf("Message = %q, want %q", perr.Message, tt.message)
			}
			if perr.Type != ErrorTypeInvalidValue {
				t.Errorf("Type = %s, want %s", perr.Type, ErrorTypeInvalidValue)
			}
			if perr.Usage == "" {
				t.Error("Usage not attached")
			}
		})
	}
}

func TestCumulativeParameters(t *testing.T) {
	args := []string{"--colors=red", "--colors=green", "--colors=blue"}

	t.Run("last wins by default", func(t *testing.T) {
		g := mustParse(t, Rules{Def("colors=s", "Colors-option")}, args)
		v, _ := g.Option("colors")
		if !v.Equal(String("blue")) {
			t.Errorf("colors = %v (%s), want blue", v, v.Kind())
		}
	})
	t.Run("accumulates when enabled", func(t *testing.T) {
		g := mustParse(t, Rules{Def("colors=s", "Colors-option")}, args, CumulativeParameters())
		got, ok := g.Option("colors")
		if !ok || got.Kind() != KindList {
			t.Fatalf("colors = %v (%s), want a list", got, got.Kind())
		}
		list, _ := got.List()
		if diff := cmp.Diff([]string{"red", "green", "blue"}, list); diff != "" {
			t.Errorf("colors mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("single occurrence stays scalar", func(t *testing.T) {
		g := mustParse(t, Rules{Def("colors=s", "")}, []string{"--colors=red"}, CumulativeParameters())
		if v, _ := g.Option("colors"); v.Kind() != KindString {
			t.Errorf("colors kind = %s, want string", v.Kind())
		}
	})
	t.Run("separator lists are flattened", func(t *testing.T) {
		g := mustParse(t, Rules{Def("colors=s", "")},
			[]string{"--colors=red,green", "--colors=blue", "--colors=cyan,magenta"},
			CumulativeParameters(), ParameterSeparator(","))
		got, _ := g.GetList("colors")
		if diff := cmp.Diff([]string{"red", "green", "blue", "cyan", "magenta"}, got); diff != "" {
			t.Errorf("colors mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("integers accumulate as text", func(t *testing.T) {
		g := mustParse(t, Rules{Def("n=i", "")}, []string{"--n", "1", "--n", "2"}, CumulativeParameters())
		got, _ := g.GetList("n")
		if diff := cmp.Diff([]string{"1", "2"}, got); diff != "" {
			t.Errorf("n mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("bare optional keeps the list", func(t *testing.T) {
		g := mustParse(t, Rules{Def("colors-s", "")},
			[]string{"--colors=red", "--colors=blue", "--colors"}, CumulativeParameters())
		got, _ := g.GetList("colors")
		if diff := cmp.Diff([]string{"red", "blue"}, got); diff != "" {
			t.Errorf("colors mismatch (-want +got):\n%s", diff)
		}
		if n := g.Occurrences("colors"); n != 3 {
			t.Errorf("Occurrences(colors) = %d, want 3", n)
		}
	})
	t.Run("bare optional first is a flag", func(t *testing.T) {
		g := mustParse(t, Rules{Def("colors-s", "")}, []string{"--colors"}, CumulativeParameters())
		if v, _ := g.Option("colors"); !v.IsTrue() {
			t.Errorf("colors = %v (%s), want true", v, v.Kind())
		}
	})
}

func TestCumulativeFlags(t *testing.T) {
	args := []string{"-v", "-v", "-v"}

	g := mustParse(t, ShortOptions("v"), args)
	if v, _ := g.Option("v"); !v.IsTrue() {
		t.Errorf("v = %v, want true by default", v)
	}

	g = mustParse(t, ShortOptions("v"), args, CumulativeFlags())
	if got := g.MustGetInt("v", 0); got != 3 {
		t.Errorf("v = %d, want 3", got)
	}

	g = mustParse(t, ShortOptions("v"), []string{"-vvv", "-v"}, CumulativeFlags())
	if got := g.MustGetInt("v", 0); got != 4 {
		t.Errorf("v = %d, want 4 from a cluster", got)
	}
}

func TestParameterSeparator(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		opts []Option
		want Value
	}{
		{"no separator configured", "--colors=red,green,blue", nil, String("red,green,blue")},
		{"split on comma", "--colors=red,green,blue", []Option{ParameterSeparator(",")}, List("red", "green", "blue")},
		{"value without separator", "--colors=red", []Option{ParameterSeparator(",")}, String("red")},
		{"empty pieces dropped", "--colors=red,,blue,", []Option{ParameterSeparator(",")}, List("red", "blue")},
		{"multi character separator", "--colors=red::blue", []Option{ParameterSeparator("::")}, List("red", "blue")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustParse(t, Rules{Def("colors=s", "Colors-option")}, []string{tt.arg}, tt.opts...)
			got, _ := g.Option("colors")
			if !got.Equal(tt.want) {
				t.Errorf("colors = %v (%s), want %v (%s)", got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

func TestFreeformFlags(t *testing.T) {
	t.Run("bare flag", func(t *testing.T) {
		g := mustParse(t, Rules{Def("colors", "Colors-option")}, []string{"--freeform"}, FreeformFlags())
		if !g.MustGetBool("freeform", false) {
			t.Error("Expected freeform=true")
		}
	})
	t.Run("flag with value", func(t *testing.T) {
		g := mustParse(t, Rules{Def("colors", "Colors-option")},
			[]string{"color", "--freeform", "test", "gopher"}, FreeformFlags())
		if got := g.MustGetString("freeform", ""); got != "test" {
			t.Errorf("freeform = %q, want test", got)
		}
		if diff := cmp.Diff([]string{"color", "gopher"}, g.RemainingArgs()); diff != "" {
			t.Errorf("RemainingArgs() mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("inline value", func(t *testing.T) {
		g := mustParse(t, nil, []string{"--mode=fast"}, FreeformFlags())
		if got := g.MustGetString("mode", ""); got != "fast" {
			t.Errorf("mode = %q, want fast", got)
		}
	})
	t.Run("not added to declared rules", func(t *testing.T) {
		g := mustParse(t, Rules{Def("colors", "")}, []string{"--freeform"}, FreeformFlags())
		if g.Rules().Len() != 1 {
			t.Errorf("Rules().Len() = %d, want 1", g.Rules().Len())
		}
		if _, ok := g.Rules().Lookup("freeform"); ok {
			t.Error("freeform option leaked into the declared table")
		}
	})
	t.Run("discovered options reset per parse", func(t *testing.T) {
		g := mustParse(t, nil, []string{"--one"}, FreeformFlags())
		g.SetArguments([]string{"--two"})
		if err := g.Parse(); err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if g.IsSet("one") {
			t.Error("Expected one to be forgotten")
		}
		if !g.IsSet("two") {
			t.Error("Expected two set")
		}
	})
	t.Run("short letters still checked", func(t *testing.T) {
		_, err := Parse(Rules{Def("colors", "")}, []string{"-x"}, FreeformFlags())
		parseError(t, err)
	})
}

func TestNumericFlags(t *testing.T) {
	t.Run("rejected by default", func(t *testing.T) {
		_, err := Parse(Rules{Def("colors=s", "Colors-option")}, []string{"red", "green", "-3"})
		perr := parseError(t, err)
		if perr.Message != `Option "3" is not recognized.` {
			t.Errorf("Message = %q", perr.Message)
		}
	})
	t.Run("bound to numeric rule", func(t *testing.T) {
		g := mustParse(t, Rules{Def("lines=#", "Lines-option")},
			[]string{"other", "arguments", "-5"}, NumericFlags())
		if got := g.MustGetInt("lines", 0); got != 5 {
			t.Errorf("lines = %d, want 5", got)
		}
		if diff := cmp.Diff([]string{"other", "arguments"}, g.RemainingArgs()); diff != "" {
			t.Errorf("RemainingArgs() mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("no numeric rule declared", func(t *testing.T) {
		_, err := Parse(Rules{Def("lines=s", "Lines-option")},
			[]string{"other", "arguments", "-5"}, NumericFlags())
		perr := parseError(t, err)
		if perr.Type != ErrorTypeUnknownOption {
			t.Errorf("Type = %s, want %s", perr.Type, ErrorTypeUnknownOption)
		}
	})
	t.Run("numeric rule by name", func(t *testing.T) {
		g := mustParse(t, Rules{Def("lines=#", "")}, []string{"--lines", "12"})
		if got := g.MustGetInt("lines", 0); got != 12 {
			t.Errorf("lines = %d, want 12", got)
		}
	})
	t.Run("digit letters without numeric mode", func(t *testing.T) {
		g := mustParse(t, ShortOptions("12"), []string{"-12"})
		if !g.IsSet("1") || !g.IsSet("2") {
			t.Errorf("Expected 1 and 2 set, got %q", g.String())
		}
	})
}

func TestInlineValueOnFlagIsRequeued(t *testing.T) {
	g := mustParse(t, Rules{
		Def("a|apples|apple", "APPLES"),
		Def("b|bears|bear", "BEARS"),
	}, []string{"--apples=Gala"})

	if !g.MustGetBool("a", false) {
		t.Error("Expected a=true")
	}
	if diff := cmp.Diff([]string{"Gala"}, g.RemainingArgs()); diff != "" {
		t.Errorf("RemainingArgs() mismatch (-want +got):\n%s", diff)
	}
}

func TestShortClusterInvalidUTF8(t *testing.T) {
	spec := Rules{Def("\uFFFD=s", ""), Def("a", "")}

	_, err := Parse(spec, []string{"-\xff"})
	if perr := parseError(t, err); perr.Type != ErrorTypeMissingValue {
		t.Errorf("Type = %s, want %s", perr.Type, ErrorTypeMissingValue)
	}

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-\xffvalue"}, "value"},
		{[]string{"-a\xff", "next"}, "next"},
		{[]string{"-\xff\xfe"}, "\xfe"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.args), func(t *testing.T) {
			g := mustParse(t, spec, tt.args)
			if got := g.MustGetString("\uFFFD", ""); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnknownOptionSuggestion(t *testing.T) {
	spec := Rules{Def("verbose|v", ""), Def("version", ""), Def("output|o=s", "")}

	_, err := Parse(spec, []string{"--outptu", "x"})
	perr := parseError(t, err)
	if perr.Suggestion != "output" {
		t.Errorf("Suggestion = %q, want output", perr.Suggestion)
	}
	if perr.Flag != "outptu" {
		t.Errorf("Flag = %q, want outptu", perr.Flag)
	}

	_, err = Parse(spec, []string{"--zzzzzz"})
	if perr := parseError(t, err); perr.Suggestion != "" {
		t.Errorf("Suggestion = %q, want none", perr.Suggestion)
	}

	_, err = Parse(spec, []string{"--outptu"}, SuggestFlags(false))
	if perr := parseError(t, err); perr.Suggestion != "" {
		t.Errorf("Suggestion = %q, want none when disabled", perr.Suggestion)
	}
}

func TestOptionCallback(t *testing.T) {
	g, _ := New(ShortOptions("a"), []string{"-a"})
	var got Value
	calls := 0
	err := g.SetOptionCallback("a", func(v Value, opts *Getopt) error {
		got = v
		calls++
		if opts != g {
			t.Error("callback received a different engine")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("SetOptionCallback failed: %v", err)
	}
	if err := g.Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !got.IsTrue() {
		t.Errorf("callback value = %v, want true", got)
	}
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
}

func TestOptionCallbackAddedByAlias(t *testing.T) {
	g, _ := New(Rules{
		Def("a|apples|apple=s", "APPLES"),
		Def("b|bears|bear=s", "BEARS"),
	}, []string{"--apples=Gala", "--bears=Grizzly"})

	var apple, bear string
	_ = g.SetOptionCallback("a", func(v Value, _ *Getopt) error {
		apple, _ = v.Str()
		return nil
	})
	_ = g.SetOptionCallback("bear", func(v Value, _ *Getopt) error {
		bear, _ = v.Str()
		return nil
	})
	if err := g.Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if apple != "Gala" {
		t.Errorf("apple callback got %q, want Gala", apple)
	}
	if bear != "Grizzly" {
		t.Errorf("bear callback got %q, want Grizzly", bear)
	}
}

func TestOptionCallbackNotCalled(t *testing.T) {
	g, _ := New(Rules{
		Def("a|apples|apple", "APPLES"),
		Def("b|bears|bear", "BEARS"),
	}, []string{"--apples=Gala"})

	called := false
	_ = g.SetOptionCallback("bear", func(Value, *Getopt) error {
		called = true
		return nil
	})
	if err := g.Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if called {
		t.Error("bear callback ran without a bear option")
	}
}

func TestOptionCallbackPerOccurrence(t *testing.T) {
	g, _ := New(Rules{Def("colors|c=s", "")}, []string{"-c", "red", "-c", "blue"}, CumulativeParameters())

	var seen []string
	_ = g.SetOptionCallback("colors", func(v Value, _ *Getopt) error {
		seen = append(seen, v.String())
		return nil
	})
	if err := g.Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if diff := cmp.Diff([]string{"red", "red,blue"}, seen); diff != "" {
		t.Errorf("callback values mismatch (-want +got):\n%s", diff)
	}

	// a reparse without changes does not run callbacks again
	if err := g.Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(seen) != 2 {
		t.Errorf("callback ran %d times, want 2", len(seen))
	}
}

func TestOptionCallbackRejects(t *testing.T) {
	g, _ := New(ShortOptions("x"), []string{"-x"})
	_ = g.SetOptionCallback("x", func(Value, *Getopt) error {
		return ErrRejected
	})

	err := g.Parse()
	perr := parseError(t, err)
	if perr.Message != "The option x is invalid. See usage." {
		t.Errorf("Message = %q", perr.Message)
	}
	if perr.Type != ErrorTypeInvalidOption {
		t.Errorf("Type = %s, want %s", perr.Type, ErrorTypeInvalidOption)
	}
	if !errors.Is(err, ErrRejected) {
		t.Error("Expected the callback error to be wrapped")
	}
}

func TestOptionCallbackCustomError(t *testing.T) {
	g, _ := New(Rules{Def("port|p=i", "")}, []string{"--port", "70000"})
	_ = g.SetOptionCallback("p", func(v Value, _ *Getopt) error {
		if n, _ := v.Int(); n > 65535 {
			return fmt.Errorf("port %d out of range", n)
		}
		return nil
	})

	err := g.Parse()
	perr := parseError(t, err)
	if perr.Flag != "port" {
		t.Errorf("Flag = %q, want port", perr.Flag)
	}
	if perr.Cause == nil || perr.Cause.Error() != "port 70000 out of range" {
		t.Errorf("Cause = %v", perr.Cause)
	}
}

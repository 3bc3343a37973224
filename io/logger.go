// Package optio renders log records for the getopt command. It is a
// log/slog handler that prints one line per record with a level prefix,
// coloured per level when the output supports it.
package optio

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LevelSuccess sits between Info and Warn and marks completed work.
const LevelSuccess = slog.Level(2)

// LogFormat defines the prefix style of log lines
type LogFormat int

const (
	LogFormatSymbols LogFormat = iota // ● ◆ ✓ ▲ ✗
	LogFormatTagged                   // [DEBUG] [INFO] [SUCCESS] [WARN] [ERROR]
	LogFormatPlain                    // No prefix
)

// Options configure a Handler.
type Options struct {
	// Level is the minimum level written. Defaults to Info.
	Level slog.Leveler
	// Format selects the prefix style.
	Format LogFormat
	// Color forces colour on or off. Nil follows the terminal.
	Color *bool
	// ErrorsTo receives Warn and Error records. Nil writes everything to
	// the handler's writer.
	ErrorsTo io.Writer
	// TimeFormat adds a timestamp in this layout when non-empty.
	TimeFormat string
}

// Handler is a slog.Handler producing the getopt command's log lines.
type Handler struct {
	out      io.Writer
	errOut   io.Writer
	opts     Options
	prefixes map[slog.Level]string
	colors   map[slog.Level]*color.Color
	attrs    string // preformatted WithAttrs output
	groups   []string
	mu       *sync.Mutex
}

// NewHandler creates a handler writing to w.
func NewHandler(w io.Writer, opts *Options) *Handler {
	h := &Handler{out: w, mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	h.errOut = h.opts.ErrorsTo
	if h.errOut == nil {
		h.errOut = w
	}
	h.prefixes = prefixesFor(h.opts.Format)
	h.colors = levelColors(h.opts.Color)
	return h
}

// NewStderrLogger returns a logger on stderr at the given level, coloured
// when stderr is a terminal.
func NewStderrLogger(level slog.Leveler, format LogFormat) *slog.Logger {
	return slog.New(NewHandler(os.Stderr, &Options{Level: level, Format: format}))
}

func prefixesFor(format LogFormat) map[slog.Level]string {
	switch format {
	case LogFormatTagged:
		return map[slog.Level]string{
			slog.LevelDebug: "[DEBUG]",
			slog.LevelInfo:  "[INFO]",
			LevelSuccess:    "[SUCCESS]",
			slog.LevelWarn:  "[WARN]",
			slog.LevelError: "[ERROR]",
		}
	case LogFormatPlain:
		return map[slog.Level]string{}
	default:
		return map[slog.Level]string{
			slog.LevelDebug: "●", // U+25CF Black Circle
			slog.LevelInfo:  "◆", // U+25C6 Black Diamond
			LevelSuccess:    "✓", // U+2713 Check Mark
			slog.LevelWarn:  "▲", // U+25B2 Black Up-Pointing Triangle
			slog.LevelError: "✗", // U+2717 Ballot X
		}
	}
}

func levelColors(force *bool) map[slog.Level]*color.Color {
	colors := map[slog.Level]*color.Color{
		slog.LevelDebug: color.New(color.FgMagenta),
		slog.LevelInfo:  color.New(color.FgBlue),
		LevelSuccess:    color.New(color.FgGreen),
		slog.LevelWarn:  color.New(color.FgYellow),
		slog.LevelError: color.New(color.FgRed, color.Bold),
	}
	if force != nil {
		for _, c := range colors {
			if *force {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
	return colors
}

// bucket maps a level onto the nearest named level at or below it.
func bucket(level slog.Level) slog.Level {
	switch {
	case level >= slog.LevelError:
		return slog.LevelError
	case level >= slog.LevelWarn:
		return slog.LevelWarn
	case level >= LevelSuccess:
		return LevelSuccess
	case level >= slog.LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	level := bucket(r.Level)

	var b strings.Builder
	if prefix := h.prefixes[level]; prefix != "" {
		b.WriteString(prefix)
		b.WriteByte(' ')
	}
	if h.opts.TimeFormat != "" && !r.Time.IsZero() {
		b.WriteString(r.Time.Format(h.opts.TimeFormat))
		b.WriteByte(' ')
	}
	b.WriteString(r.Message)

	b.WriteString(h.attrs)
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, prefix, a)
		return true
	})

	line := b.String()
	if c, ok := h.colors[level]; ok {
		line = c.Sprint(line)
	}

	w := h.out
	if level >= slog.LevelWarn {
		w = h.errOut
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(w, line+"\n")
	return err
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			appendAttr(b, key, ga)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	var s string
	switch a.Value.Kind() {
	case slog.KindTime:
		s = a.Value.Time().Format(time.RFC3339)
	default:
		s = a.Value.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		s = strconv.Quote(s)
	}
	b.WriteString(s)
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		appendAttr(&b, prefix, a)
	}
	c := *h
	c.attrs = h.attrs + b.String()
	return &c
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.groups = append(append([]string{}, h.groups...), name)
	return &c
}

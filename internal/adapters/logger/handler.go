package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/stratum/internal/ui/output"
	"go.trai.ch/stratum/internal/ui/style"
)

// Attribute keys that place a line within a build.
const (
	TargetKey = "target"
	PhaseKey  = "phase"
)

// PrettyHandler is a slog.Handler that writes colored, human-readable build output.
//
// Top-level target and phase attributes are not listed as key=value pairs. They
// become a "[target/phase]" prefix so interleaved output of concurrent builds
// stays attributable.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	scope lineScope
	attrs []string
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to w, or stderr when w is nil.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	scope := h.scope
	attrs := slices.Clone(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		if rendered, ok := h.render(&scope, a); ok {
			attrs = append(attrs, rendered)
		}
		return true
	})

	symbol, color := levelStyle(r.Level)

	var b strings.Builder
	if symbol != "" {
		b.WriteString(symbol)
		b.WriteByte(' ')
	}
	b.WriteString(scope.prefix())
	b.WriteString(r.Message)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a)
	}

	styled := h.out.String(b.String()).Foreground(color)
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes applied to every line.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	next := h.clone()
	for _, a := range attrs {
		if rendered, ok := next.render(&next.scope, a); ok {
			next.attrs = append(next.attrs, rendered)
		}
	}
	return next
}

// WithGroup returns a new Handler that qualifies later attribute keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	next := h.clone()
	if next.group != "" {
		name = next.group + "." + name
	}
	next.group = name
	return next
}

func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		scope: h.scope,
		attrs: slices.Clip(h.attrs),
		group: h.group,
	}
}

// render absorbs scope attributes into s and formats everything else.
// It reports false when a produced no key=value text.
func (h *PrettyHandler) render(s *lineScope, a slog.Attr) (string, bool) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return "", false
	}
	if h.group == "" && s.absorb(a) {
		return "", false
	}

	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	return key + "=" + a.Value.String(), true
}

func levelStyle(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return style.Warning, termenv.RGBColor(string(style.Yellow))
	default:
		return "", termenv.RGBColor(string(style.Slate))
	}
}

// lineScope is the build a line belongs to.
type lineScope struct {
	target string
	phase  string
}

func (s *lineScope) absorb(a slog.Attr) bool {
	switch a.Key {
	case TargetKey:
		s.target = a.Value.String()
	case PhaseKey:
		s.phase = a.Value.String()
	default:
		return false
	}
	return true
}

func (s lineScope) prefix() string {
	switch {
	case s.target == "" && s.phase == "":
		return ""
	case s.phase == "":
		return "[" + s.target + "] "
	case s.target == "":
		return "[" + s.phase + "] "
	default:
		return "[" + s.target + "/" + s.phase + "] "
	}
}

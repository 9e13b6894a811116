// Package console writes one key=value line per log entry. It is the default
// provider of the posts binary and keeps stdout free for the manifest.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-posts/internal/logging"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

// Level represents the severity attached to a log entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return levelNames[LevelInfo]
}

// ParseLevel maps a configuration value onto a Level. Empty input yields LevelInfo.
func ParseLevel(value string) (Level, error) {
	name := strings.TrimSpace(value)
	switch {
	case name == "":
		return LevelInfo, nil
	case strings.EqualFold(name, "warning"):
		return LevelWarn, nil
	}
	for level, label := range levelNames {
		if strings.EqualFold(name, label) {
			return Level(level), nil
		}
	}
	return LevelInfo, fmt.Errorf("console logger: unknown level %q", value)
}

// Options configures the console logger provider. Zero values write INFO and
// above to stderr using the wall clock.
type Options struct {
	Writer   io.Writer
	TimeFunc func() time.Time
	MinLevel *Level
}

// sink is shared by every logger handed out by one provider.
type sink struct {
	mu    sync.Mutex
	out   io.Writer
	now   func() time.Time
	floor Level
}

func (s *sink) write(line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.out.Write(line)
}

type provider struct {
	sink *sink
}

// NewProvider constructs a console-backed logger provider.
func NewProvider(opts Options) interfaces.LoggerProvider {
	s := &sink{out: opts.Writer, now: opts.TimeFunc, floor: LevelInfo}
	if s.out == nil {
		s.out = os.Stderr
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.MinLevel != nil {
		s.floor = *opts.MinLevel
	}
	return &provider{sink: s}
}

func (p *provider) GetLogger(name string) interfaces.Logger {
	return &logger{sink: p.sink, fields: map[string]any{"logger": name}}
}

type logger struct {
	sink   *sink
	fields map[string]any
	ctx    context.Context
}

var (
	_ interfaces.Logger       = (*logger)(nil)
	_ interfaces.FieldsLogger = (*logger)(nil)
)

func (l *logger) Trace(msg string, args ...any) { l.emit(LevelTrace, msg, args) }
func (l *logger) Debug(msg string, args ...any) { l.emit(LevelDebug, msg, args) }
func (l *logger) Info(msg string, args ...any)  { l.emit(LevelInfo, msg, args) }
func (l *logger) Warn(msg string, args ...any)  { l.emit(LevelWarn, msg, args) }
func (l *logger) Error(msg string, args ...any) { l.emit(LevelError, msg, args) }
func (l *logger) Fatal(msg string, args ...any) { l.emit(LevelFatal, msg, args) }

func (l *logger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	return &logger{sink: l.sink, fields: merge(merge(nil, l.fields), fields), ctx: l.ctx}
}

func (l *logger) WithContext(ctx context.Context) interfaces.Logger {
	return &logger{sink: l.sink, fields: l.fields, ctx: ctx}
}

func (l *logger) emit(level Level, msg string, args []any) {
	if l.sink == nil || level < l.sink.floor {
		return
	}

	// Later sources win: logger fields, then context fields, then call arguments.
	fields := merge(nil, l.fields)
	fields = merge(fields, logging.ContextFields(l.ctx))
	fields = merge(fields, pairs(args))

	l.sink.write(render(l.sink.now().UTC(), level, msg, fields))
}

func merge(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

// pairs turns alternating key/value arguments into fields. Values without a
// usable string key are stored as field_<n>, n being the pair index.
func pairs(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	fields := make(map[string]any, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		positional := fmt.Sprintf("field_%d", i/2)
		if i+1 == len(args) {
			fields[positional] = args[i]
			break
		}
		if key, ok := args[i].(string); ok && key != "" {
			fields[key] = args[i+1]
		} else {
			fields[positional] = args[i+1]
		}
	}
	return fields
}

func render(ts time.Time, level Level, msg string, fields map[string]any) []byte {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	line := make([]byte, 0, 64+len(msg)+16*len(keys))
	line = ts.AppendFormat(line, time.RFC3339Nano)
	line = append(line, ' ')
	line = append(line, level.String()...)
	line = append(line, ' ')
	line = append(line, msg...)
	for _, key := range keys {
		line = append(line, ' ')
		line = append(line, key...)
		line = append(line, '=')
		line = appendValue(line, fields[key])
	}
	return append(line, '\n')
}

func appendValue(dst []byte, value any) []byte {
	switch v := value.(type) {
	case nil:
		return append(dst, "null"...)
	case string:
		return appendText(dst, v)
	case bool:
		return strconv.AppendBool(dst, v)
	case int:
		return strconv.AppendInt(dst, int64(v), 10)
	case int64:
		return strconv.AppendInt(dst, v, 10)
	case float64:
		return strconv.AppendFloat(dst, v, 'f', -1, 64)
	case time.Time:
		return appendText(dst, v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return appendText(dst, v.String())
	case error:
		return appendText(dst, v.Error())
	case fmt.Stringer:
		return appendText(dst, v.String())
	default:
		return appendText(dst, fmt.Sprint(v))
	}
}

// appendText quotes values that would break key=value parsing.
func appendText(dst []byte, value string) []byte {
	if value == "" || strings.ContainsFunc(value, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.AppendQuote(dst, value)
	}
	return append(dst, value...)
}

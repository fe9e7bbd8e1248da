package propmod

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/itchyny/timefmt-go"
	"github.com/speakeasy-api/animmod"
)

// LogLevel orders log severities; higher levels are more verbose.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{"ERROR", "WARN", "INFO", "DEBUG"}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLogLevel maps a level name in any case to a LogLevel. Unknown names
// fall back to warn.
func ParseLogLevel(s string) LogLevel {
	s = strings.ToUpper(s)
	if s == "WARNING" {
		return LevelWarn
	}
	for i, name := range levelNames {
		if s == name {
			return LogLevel(i)
		}
	}
	return LevelWarn
}

// Logger receives analysis progress. Diagnostics are logged at warn.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)

	// Session and Behavior return loggers that tag every line with the id.
	Session(id string) Logger
	Behavior(id animmod.ObjectID) Logger
}

const timestampLayout = "%Y-%m-%dT%H:%M:%SZ"

// lineLogger writes one line per message:
//
//	[LEVEL] ts session=ID behavior=ID msg
type lineLogger struct {
	out      io.Writer
	level    LogLevel
	now      func() time.Time
	session  string
	behavior animmod.ObjectID

	// shared by every logger derived from the same NewLogger call
	mu *sync.Mutex
}

// NewLogger logs messages at level and below to w, or to os.Stderr when w
// is nil.
func NewLogger(level LogLevel, w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &lineLogger{out: w, level: level, now: time.Now, mu: &sync.Mutex{}}
}

func (l *lineLogger) Session(id string) Logger {
	c := *l
	c.session = id
	return &c
}

func (l *lineLogger) Behavior(id animmod.ObjectID) Logger {
	c := *l
	c.behavior = id
	return &c
}

func (l *lineLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *lineLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *lineLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }

func (l *lineLogger) logf(level LogLevel, format string, args ...any) {
	if level > l.level {
		return
	}
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(timefmt.Format(l.now().UTC(), timestampLayout))
	if l.session != "" {
		b.WriteString(" session=")
		b.WriteString(tag(l.session))
	}
	if l.behavior != "" {
		b.WriteString(" behavior=")
		b.WriteString(tag(string(l.behavior)))
	}
	b.WriteByte(' ')
	fmt.Fprintf(&b, format, args...)
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, b.String())
}

// tag quotes ids that would break the key=value layout.
func tag(s string) string {
	if strings.IndexFunc(s, func(r rune) bool { return r <= ' ' || r == '"' }) >= 0 {
		return strconv.Quote(s)
	}
	return s
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any)              {}
func (noopLogger) Infof(string, ...any)               {}
func (noopLogger) Warnf(string, ...any)               {}
func (n noopLogger) Session(string) Logger            { return n }
func (n noopLogger) Behavior(animmod.ObjectID) Logger { return n }

// NopLogger returns a logger that discards all output.
func NopLogger() Logger { return noopLogger{} }

// valueSummary renders a ValueInfo for log lines, truncating large sets.
func valueSummary(v animmod.ValueInfo, limit int) string {
	if v.IsVariable() {
		return "variable"
	}
	var items []string
	if v.Kind() == animmod.KindObject {
		for _, id := range v.Objects() {
			items = append(items, string(id))
		}
	} else {
		floats, _ := v.Floats()
		for _, f := range floats {
			items = append(items, fmt.Sprint(f))
		}
	}
	s := "{" + truncateList(items, limit) + "}"
	if v.PartialApplication() {
		s += "?"
	}
	return s
}

// truncateList joins items with "," and appends +N if truncated.
func truncateList(items []string, limit int) string {
	if limit <= 0 || len(items) <= limit {
		return strings.Join(items, ",")
	}
	head := items[:limit]
	return strings.Join(head, ",") + fmt.Sprintf(",+%d", len(items)-limit)
}

package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logger fields
const (
	PACKAGE    = "pkg"
	REQUEST_ID = "request_id"
	USER_ID    = "user_id"
	ORDER_ID   = "order_id"
	PRODUCT_ID = "product_id"
)

// output lets Init change the destination of loggers created before it ran
type output struct {
	mu sync.RWMutex
	w  io.Writer
}

func (o *output) Write(p []byte) (int, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.w.Write(p)
}

func (o *output) set(w io.Writer) {
	o.mu.Lock()
	o.w = w
	o.mu.Unlock()
}

var out = &output{w: os.Stdout}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// Init configures the global logger. format "console" switches to the human readable writer.
func Init(level, format string) {
	InitWriter(level, format, os.Stdout)
}

// InitWriter is Init with an explicit destination
func InitWriter(level, format string, w io.Writer) {
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: w != os.Stdout}
	}
	out.set(w)
	zerolog.SetGlobalLevel(ParseLevel(level))
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}

// NewPackageLogger returns a logger with pkg={pkg}
func NewPackageLogger(pkg string) zerolog.Logger {
	return log.With().Str(PACKAGE, pkg).Logger()
}

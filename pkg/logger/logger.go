// Package logx configures the process-wide zerolog logger. The REPL runs
// with the console writer; anything headless logs JSON lines.
package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config is read from the LOG_* environment (see pkg/logger/autoload).
type Config struct {
	Level  string `default:"info"`
	Pretty bool   `default:"false"`
}

// Init replaces the global logger. Unparseable levels fall back to info
// rather than failing startup over a typo.
func Init(cfg Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var w io.Writer = os.Stdout
	if cfg.Pretty {
		w = zerolog.NewConsoleWriter()
	}

	log.Logger = zerolog.New(w).Level(level).With().Timestamp().Caller().Logger()
}

package logx

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init mutates the global logger, so these cases do not run in parallel.

func TestInitSetsLevel(t *testing.T) {
	Init(Config{Level: "debug"})
	if got := log.Logger.GetLevel(); got != zerolog.DebugLevel {
		t.Fatalf("level = %s, want debug", got)
	}
}

func TestInitBadLevelFallsBackToInfo(t *testing.T) {
	Init(Config{Level: "shouting"})
	if got := log.Logger.GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("level = %s, want info", got)
	}
}

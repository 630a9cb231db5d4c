package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sahai-labs/sahai-agent/agent/catalog"
	conflictx "github.com/sahai-labs/sahai-agent/agent/conflict"
	"github.com/sahai-labs/sahai-agent/agent/contract"
	"github.com/sahai-labs/sahai-agent/agent/evaluator"
	"github.com/sahai-labs/sahai-agent/agent/executor"
	memoryx "github.com/sahai-labs/sahai-agent/agent/memory"
	"github.com/sahai-labs/sahai-agent/agent/nlu"
	"github.com/sahai-labs/sahai-agent/agent/orchestrator"
	plannerx "github.com/sahai-labs/sahai-agent/agent/planner"
	toolx "github.com/sahai-labs/sahai-agent/agent/tool"
	configx "github.com/sahai-labs/sahai-agent/pkg/config"
	_ "github.com/sahai-labs/sahai-agent/pkg/logger/autoload"
	openrouterx "github.com/sahai-labs/sahai-agent/pkg/openrouter"
)

type AppConfig struct {
	CatalogDSN    string        `envconfig:"CATALOG_DSN"`
	SessionIdle   time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`
	SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"5m"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appCfg := configx.MustNew[AppConfig]("")

	store, closeStore, err := buildCatalog(*appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("load scheme catalog")
	}
	defer closeStore()

	orCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	classifier := buildClassifier(ctx, orCfg)
	responder := buildResponder(orCfg)

	p, err := plannerx.New(classifier)
	if err != nil {
		log.Fatal().Err(err).Msg("build planner")
	}
	exec, err := executor.New(toolx.NewRegistry(store))
	if err != nil {
		log.Fatal().Err(err).Msg("build executor")
	}

	sessions := memoryx.NewManager(
		conflictx.NewDetector(),
		memoryx.WithIdleTimeout(appCfg.SessionIdle),
	)
	sessions.StartSweeper(ctx, appCfg.SweepInterval)

	agent, err := orchestrator.New(sessions, p, exec, evaluator.New(), responder)
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	runREPL(ctx, agent)
}

func buildCatalog(cfg AppConfig) (catalog.Store, func(), error) {
	if dsn := strings.TrimSpace(cfg.CatalogDSN); dsn != "" {
		store, err := catalog.NewBunStore(catalog.BunStoreConfig{DSN: dsn})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("using postgres scheme catalog")
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("close catalog store")
			}
		}, nil
	}
	store, err := catalog.NewStaticStore()
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

// buildClassifier prefers the LLM classifier when OpenRouter is configured
// and quietly falls back to keywords otherwise.
func buildClassifier(ctx context.Context, orCfg *openrouterx.Config) contract.IntentClassifier {
	if !orCfg.Enabled() {
		log.Info().Msg("no openrouter key, using keyword classifier")
		return nlu.NewKeywordClassifier()
	}

	chatModel, err := orCfg.New(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("openrouter unavailable, using keyword classifier")
		return nlu.NewKeywordClassifier()
	}
	classifier, err := nlu.NewLLMClassifier(ctx, chatModel)
	if err != nil {
		log.Warn().Err(err).Msg("intent graph failed, using keyword classifier")
		return nlu.NewKeywordClassifier()
	}
	log.Info().Str("model", orCfg.Model).Msg("using llm classifier")
	return classifier
}

// buildResponder upgrades the canned-template replies with a model rewrite
// when OpenRouter is configured; nil keeps the template default.
func buildResponder(orCfg *openrouterx.Config) contract.Responder {
	client := openrouterx.NewClient(*orCfg)
	if client == nil {
		return nil
	}
	log.Info().Str("model", orCfg.Model).Msg("using llm responder")
	return orchestrator.NewLLMResponder(client, orCfg.Model)
}

func runREPL(ctx context.Context, agent *orchestrator.Orchestrator) {
	sessionID := uuid.NewString()
	fmt.Println("सहायक तैयार है। अपनी बात लिखें (बंद करने के लिए 'exit'):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		out, err := agent.HandleTurn(ctx, sessionID, line)
		if err != nil {
			log.Error().Err(err).Msg("turn rejected")
			continue
		}
		fmt.Println(out.Response)
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("read input")
	}
}

package nlu

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

//go:embed prompt/intent.txt
var intentPromptRaw string

// classifyTimeout bounds one model call; on expiry the keyword fallback
// answers instead.
const classifyTimeout = 10 * time.Second

type intentLLMOutput struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// LLMClassifier asks a chat model for the intent and falls back to the
// keyword classifier when the model errors or returns garbage. The session
// never stalls on a flaky model.
type LLMClassifier struct {
	runner   compose.Runnable[map[string]any, intentLLMOutput]
	fallback KeywordClassifier
}

var _ contract.IntentClassifier = (*LLMClassifier)(nil)

func NewLLMClassifier(ctx context.Context, chatModel einomodel.BaseChatModel) (*LLMClassifier, error) {
	runner, err := compileIntentGraph(ctx, chatModel)
	if err != nil {
		return nil, fmt.Errorf("compile intent graph: %w", err)
	}
	return &LLMClassifier{runner: runner, fallback: NewKeywordClassifier()}, nil
}

func (c *LLMClassifier) Classify(ctx context.Context, text string) (contract.Classification, error) {
	if strings.TrimSpace(text) == "" {
		return contract.Classification{Intent: contract.IntentUnknown, Confidence: 0}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	out, err := c.runner.Invoke(callCtx, map[string]any{"input": text})
	if err != nil {
		log.Warn().Err(err).Msg("intent model failed, using keyword classifier")
		return c.fallback.Classify(ctx, text)
	}

	intent := contract.Intent(strings.TrimSpace(out.Intent))
	if !validIntent(intent) {
		log.Warn().Str("intent", out.Intent).Msg("intent model returned unknown label")
		return c.fallback.Classify(ctx, text)
	}
	conf := out.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return contract.Classification{Intent: intent, Confidence: conf}, nil
}

func validIntent(i contract.Intent) bool {
	switch i {
	case contract.IntentGreeting, contract.IntentFarewell, contract.IntentEligibilityCheck,
		contract.IntentSchemeInquiry, contract.IntentApplicationHelp, contract.IntentDocumentInfo,
		contract.IntentStatusInquiry, contract.IntentProvideInfo, contract.IntentCorrection,
		contract.IntentGeneralQuestion, contract.IntentUnknown:
		return true
	}
	return false
}

func compileIntentGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
) (compose.Runnable[map[string]any, intentLLMOutput], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(strings.TrimSpace(intentPromptRaw)),
		schema.UserMessage("{input}"),
	)

	parser := schema.NewMessageJSONParser[intentLLMOutput](&schema.MessageJSONParseConfig{
		ParseFrom: schema.MessageParseFromContent,
	})

	graph := compose.NewGraph[map[string]any, intentLLMOutput]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add intent prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add intent model node: %w", err)
	}
	if err := graph.AddLambdaNode("parse_json", compose.MessageParser(parser)); err != nil {
		return nil, fmt.Errorf("add intent parser node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add intent edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add intent edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", "parse_json"); err != nil {
		return nil, fmt.Errorf("add intent edge model->parse: %w", err)
	}
	if err := graph.AddEdge("parse_json", compose.END); err != nil {
		return nil, fmt.Errorf("add intent edge parse->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("nlu.intent_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile intent graph: %w", err)
	}
	return runner, nil
}

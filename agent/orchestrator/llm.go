package orchestrator

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/rs/zerolog/log"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

// rephrasePrompt keeps the model on a leash: the template draft carries the
// facts, the model only smooths the phrasing.
const rephrasePrompt = "तुम भारत सरकार की योजनाओं की सहायक हो। नीचे दिया गया मसौदा सरल, बोलचाल की हिंदी में दोबारा लिखो। कोई संख्या, योजना का नाम, दस्तावेज या हेल्पलाइन नंबर मत बदलो और अपनी तरफ से कोई नई जानकारी मत जोड़ो।"

type completeFunc func(ctx context.Context, system, user string) (string, error)

// llmResponder rewrites the template responder's draft through a chat
// model. Any model failure falls back to the draft verbatim, so replies
// never depend on the model being up.
type llmResponder struct {
	complete completeFunc
	draft    contract.Responder
}

var _ contract.Responder = (*llmResponder)(nil)

// NewLLMResponder wraps the template responder with a chat-model rewrite.
func NewLLMResponder(client *openaisdk.Client, model string) contract.Responder {
	return &llmResponder{
		complete: func(ctx context.Context, system, user string) (string, error) {
			resp, err := client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
				Model: openaisdk.ChatModel(model),
				Messages: []openaisdk.ChatCompletionMessageParamUnion{
					openaisdk.SystemMessage(system),
					openaisdk.UserMessage(user),
				},
			})
			if err != nil {
				return "", err
			}
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("chat completion returned no choices")
			}
			return resp.Choices[0].Message.Content, nil
		},
		draft: NewTemplateResponder(),
	}
}

func (r *llmResponder) Compose(ctx context.Context, req contract.ComposeRequest) (string, error) {
	draft, err := r.draft.Compose(ctx, req)
	if err != nil || draft == "" {
		return draft, err
	}

	out, err := r.complete(ctx, rephrasePrompt, draft)
	if err != nil {
		log.Warn().Err(err).Msg("responder model failed, using draft")
		return draft, nil
	}
	if out = strings.TrimSpace(out); out == "" {
		return draft, nil
	}
	return out, nil
}

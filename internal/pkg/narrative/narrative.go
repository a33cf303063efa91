package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"tpbench/internal/pkg/benchmark"
)

const (
	defaultModel      = shared.ResponsesModel("gpt-5.1")
	analysisByteLimit = 128 * 1024 // cap what we send to the model
)

var (
	// ErrMissingAPIKey is returned when OPENAI_API_KEY was not configured.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")
)

// Generator is a thin wrapper around the OpenAI responses client that turns a
// completed comparability analysis into documentation prose.
type Generator struct {
	client *openai.Client
	model  shared.ResponsesModel
}

// NewGeneratorFromEnv builds a Generator using the OPENAI_API_KEY env var.
func NewGeneratorFromEnv() (*Generator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	return NewGenerator(apiKey), nil
}

func NewGenerator(apiKey string) *Generator {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Generator{client: &client, model: defaultModel}
}

// Generate sends the analysis to the OpenAI Responses API and returns the
// narrative paragraph along with the tokens consumed.
func (g *Generator) Generate(ctx context.Context, analysis *benchmark.ComparabilityAnalysis) (string, int64, error) {
	if g == nil || g.client == nil {
		return "", 0, errors.New("Generator is not initialized")
	}

	payload, err := json.Marshal(analysis)
	if err != nil {
		return "", 0, fmt.Errorf("marshal analysis: %w", err)
	}

	resp, err := g.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: g.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(systemPrompt, responses.EasyInputMessageRoleSystem),
				responses.ResponseInputItemParamOfMessage(buildPrompt(string(payload)), responses.EasyInputMessageRoleUser),
			},
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("call OpenAI: %w", err)
	}

	output := strings.TrimSpace(resp.OutputText())
	if output == "" {
		return "", 0, errors.New("model returned an empty response")
	}

	return output, resp.Usage.TotalTokens, nil
}

func buildPrompt(analysisJSON string) string {
	if len(analysisJSON) > analysisByteLimit {
		analysisJSON = analysisJSON[:analysisByteLimit] + "\n\n[...truncated for brevity...]"
	}

	builder := strings.Builder{}
	builder.WriteString("The benchmarking analysis below is serialized as JSON. Write the narrative for it.\n")
	builder.WriteString("Analysis:\n")
	builder.WriteString(analysisJSON)
	builder.WriteString("\n\n")
	builder.WriteString("Additional instructions: ")
	builder.WriteString(additionalInstructions)

	return builder.String()
}

package scorecard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golfkollektivet-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/scorecard")

const (
	DefaultBaseUrl = "https://api.openai.com"
	DefaultModel   = "gpt-4o"

	completionsPath = "/v1/chat/completions"
)

type Config struct {
	ApiKey  string `json:"apiKey"`
	Model   string `json:"model"`
	BaseUrl string `json:"baseUrl"`
}

// Client talks to an OpenAI-compatible chat completions API. It carries
// no session state, a single client serves all requests.
type Client struct {
	config Config
	http   *resty.Client
}

func NewClient(config Config) *Client {
	if config.BaseUrl == "" {
		config.BaseUrl = DefaultBaseUrl
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	client := resty.New().
		SetBaseURL(config.BaseUrl).
		SetAuthToken(config.ApiKey).
		// vision calls routinely take over a minute
		SetTimeout(2 * time.Minute)
	telemetry.InstrumentResty(client, "services/scorecard")

	return &Client{config: config, http: client}
}

type chatContent struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageUrl *chatImageUrl `json:"image_url,omitempty"`
}

type chatImageUrl struct {
	Url string `json:"url"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []chatContent `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete sends one user message and returns the model's reply text.
func (c *Client) complete(ctx context.Context, content []chatContent, maxTokens int) (string, error) {
	ctx, span := tracer.Start(ctx, "client:complete")
	defer span.End()

	var reply chatResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:     c.config.Model,
			Messages:  []chatMessage{{Role: "user", Content: content}},
			MaxTokens: maxTokens,
		}).
		SetResult(&reply).
		Post(completionsPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion request failed")
		return "", err
	}
	if res.IsError() {
		err := fmt.Errorf("completion api returned %s: %s", res.Status(), res.String())
		span.SetStatus(codes.Error, "completion api error")
		return "", err
	}
	if len(reply.Choices) == 0 || strings.TrimSpace(reply.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("completion reply carried no content")
	}

	return reply.Choices[0].Message.Content, nil
}

// extractJsonBlock cuts the first '{' through the last '}' out of a
// reply, which strips markdown fences and any prose around the JSON.
func extractJsonBlock(reply string) (string, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON block found in reply: %s", reply)
	}
	return reply[start : end+1], nil
}

func decodeJsonBlock(reply string, out any) error {
	block, err := extractJsonBlock(reply)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(block), out); err != nil {
		return fmt.Errorf("failed to decode reply JSON: %w", err)
	}
	return nil
}

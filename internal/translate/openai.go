package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joseph-ayodele/actes-extractor/internal/common"
)

// OpenAIConfig for the chat-completions translator.
type OpenAIConfig struct {
	APIKey  string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL string        // default https://api.openai.com/v1
	Model   string        // default gpt-4o-mini
	Timeout time.Duration // http client timeout
}

// OpenAI translates through the chat/completions endpoint.
type OpenAI struct {
	cfg  OpenAIConfig
	http *http.Client
	log  *slog.Logger
}

func NewOpenAI(cfg OpenAIConfig, logger *slog.Logger) *OpenAI {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAI{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, log: logger}
}

// Translate returns the translation of text. Blank text is returned as is
// without a request.
func (c *OpenAI) Translate(ctx context.Context, text, src, dst string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	start := time.Now()
	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": 0,
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt(src, dst)},
			{"role": "user", "content": text},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, status, err := sendJSON(ctx, c.http, endpoint, body, headers, c.log)
	if err != nil {
		c.log.Error("translate.openai.http_error",
			"status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.NewAppError(common.CodeTranslation, "openai request failed", fmt.Errorf("%w: %w", common.ErrTranslation, err))
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", common.NewAppError(common.CodeTranslation, "decode openai response", fmt.Errorf("%w: %w", common.ErrTranslation, err))
	}
	if len(cc.Choices) == 0 {
		return "", common.NewAppError(common.CodeTranslation, "no choices in openai response", common.ErrTranslation)
	}

	out := strings.TrimSpace(cc.Choices[0].Message.Content)
	c.log.Info("translate.openai.ok",
		"model", c.cfg.Model,
		"src", src, "dst", dst,
		"in_chars", len(text), "out_chars", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func systemPrompt(src, dst string) string {
	return fmt.Sprintf(
		"You translate French company-registry acts from %q to %q. "+
			"Translate faithfully, keep company names, numbers and legal terms of art as written, "+
			"and return only the translated text with no commentary.",
		src, dst)
}

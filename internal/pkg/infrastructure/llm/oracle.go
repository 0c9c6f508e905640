package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

const (
	attemptDeadline = 60 * time.Second
	maxAttempts     = 3
)

var ErrCompletionFailed = errors.New("completion failed")

type Options struct {
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

//go:generate moq -rm -out oracle_mock.go . Oracle
type Oracle interface {
	// Complete sends a system and user prompt to the model and returns the
	// completion text. Prompt construction and output parsing belong to the
	// caller; the oracle only moves text.
	Complete(ctx context.Context, system, user string, opts Options) (string, error)
}

type Config struct {
	URL   string
	Token string
	Model string
}

type oracle struct {
	cfg    Config
	client *http.Client
}

// New returns an oracle speaking the chat-completions wire format. Whether
// the model runs co-located or across the network is a deployment choice;
// the interface stays identical.
func New(cfg Config) Oracle {
	return &oracle{
		cfg:    cfg,
		client: &http.Client{Timeout: attemptDeadline},
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (o *oracle) Complete(ctx context.Context, system, user string, opts Options) (string, error) {
	log := logging.GetFromContext(ctx)

	reqBody := chatRequest{
		Model:       o.cfg.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	if opts.JSONMode {
		reqBody.ResponseFormat = &respFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	var text string

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second

	err = backoff.Retry(func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptDeadline)
		defer cancel()

		text, err = o.attempt(attemptCtx, payload)
		if err != nil {
			log.Debug("completion attempt failed", "err", err.Error())
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, maxAttempts-1), ctx))

	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}

	return text, nil
}

func (o *oracle) attempt(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.URL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	if o.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+o.cfg.Token)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model endpoint returned status %d", resp.StatusCode)
	}

	var cr chatResponse
	err = json.Unmarshal(b, &cr)
	if err != nil {
		return "", err
	}

	if cr.Error != nil {
		return "", errors.New(cr.Error.Message)
	}

	if len(cr.Choices) == 0 {
		return "", errors.New("completion contained no choices")
	}

	return cr.Choices[0].Message.Content, nil
}

package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rao305/boilerai-transcript/internal/domain"
	apperrors "github.com/rao305/boilerai-transcript/internal/pkg/errors"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
	"github.com/rao305/boilerai-transcript/internal/utils"
)

// Extractor wraps the upstream AI extraction call. The call is the only
// asynchronous boundary in the pipeline, so it carries a request timeout, a
// bounded retry count with a fixed backoff, and surfaces a hard error once
// retries exhaust. It never fabricates rows on failure.
type Extractor struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client

	maxRetries int
	backoff    time.Duration
}

// ExtractorConfig bounds the extraction boundary explicitly.
type ExtractorConfig struct {
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

func NewExtractor(cfg ExtractorConfig, baseLog *logger.Logger) (*Extractor, error) {
	log := baseLog.With("service", "ExtractorClient")

	apiKey := utils.GetEnv("OPENAI_API_KEY", "", baseLog)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	baseURL := utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com", baseLog)
	model := utils.GetEnv("OPENAI_MODEL", "gpt-4o-mini", baseLog)

	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 2 * time.Second
	}

	return &Extractor{
		log:        log,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
	}, nil
}

const extractionSystemPrompt = `You extract course rows from raw academic transcript text. ` +
	`Return JSON with a "rows" array; each row has course_code, course_title, grade, credits, semester, year, status. ` +
	`Copy values as they appear; use empty strings for missing fields. Do not invent courses.`

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func isRetryableHTTP(code int) bool {
	if code == 408 || code == 429 {
		return true
	}
	return code >= 500 && code <= 599
}

func isRetryableErr(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		return isRetryableHTTP(httpErr.StatusCode)
	}
	return false
}

// ExtractRows sends the raw transcript text upstream and decodes the
// structured rows. Caller cancellation is respected between attempts.
func (e *Extractor) ExtractRows(ctx context.Context, rawText string) ([]domain.RawRow, error) {
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.backoff):
			}
			e.log.Warn("retrying extraction", "attempt", attempt, "error", lastErr)
		}

		rows, err := e.extractOnce(ctx, rawText)
		if err == nil {
			return rows, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isRetryableErr(err) {
			break
		}
	}
	return nil, fmt.Errorf("%w: %v", apperrors.ErrExtraction, lastErr)
}

func (e *Extractor) extractOnce(ctx context.Context, rawText string) ([]domain.RawRow, error) {
	body := map[string]any{
		"model": e.model,
		"messages": []map[string]string{
			{"role": "system", "content": extractionSystemPrompt},
			{"role": "user", "content": rawText},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &httpError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)}
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, fmt.Errorf("decode completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("completion has no choices")
	}

	var payload struct {
		Rows []domain.RawRow `json:"rows"`
	}
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("decode extraction payload: %w", err)
	}
	return payload.Rows, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

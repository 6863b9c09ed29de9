package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anlan/pearlcms/config"
)

// Translate converts Chinese text to English via the public translate
// endpoint. Best-effort: one bounded request, no retry. Callers treat failure
// as non-critical.
func Translate(text string) (string, error) {
	cfg := config.Get()
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "zh-CN")
	q.Set("tl", "en")
	q.Set("dt", "t")
	q.Set("q", text)

	client := &http.Client{Timeout: time.Duration(cfg.TranslateTimeoutSec) * time.Second}
	resp, err := client.Get(cfg.TranslateEndpoint + "?" + q.Encode())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	return parseTranslateResponse(body)
}

// parseTranslateResponse extracts the translated sentences from the nested
// array payload: [[["translated","source",...],...],...].
func parseTranslateResponse(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("unexpected translate payload: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translate payload")
	}
	sentences, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected translate payload shape")
	}

	var b strings.Builder
	for _, s := range sentences {
		parts, ok := s.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if text, ok := parts[0].(string); ok {
			b.WriteString(text)
		}
	}
	return b.String(), nil
}

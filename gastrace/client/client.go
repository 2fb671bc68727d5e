package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/verdio/gastrace/gastrace/log"
)

// Config carries the connection settings for one collaborator.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}

	return c.Timeout
}

// httpClient is the shared plumbing for the collaborator clients: JSON
// requests through a named circuit breaker.
type httpClient struct {
	name     string
	config   Config
	client   *http.Client
	breakers *BreakerManager
	logger   log.Logger
}

func newHTTPClient(name string, config Config, breakers *BreakerManager, logger log.Logger) httpClient {
	if logger == nil {
		logger = log.NewNop()
	}

	return httpClient{
		name:     name,
		config:   config,
		client:   &http.Client{Timeout: config.timeout()},
		breakers: breakers,
		logger:   logger,
	}
}

// statusError carries a non-2xx response for callers that map specific
// statuses to domain errors.
type statusError struct {
	Status int
	Body   string
}

func (e statusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", strings.ToLower(e.Body), e.Status)
}

// doJSON issues the request through the breaker and decodes a JSON response
// into out. A nil body sends no payload; a nil out discards the response.
func (c httpClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	run := func() (any, error) {
		var reader io.Reader

		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("encode request: %w", err)
			}

			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		req.Header.Set("Accept", "application/json")

		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		if c.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

			return nil, statusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("decode response: %w", err)
			}
		}

		return nil, nil
	}

	_, err := c.breakers.Execute(c.name, run)
	if err != nil {
		c.logger.Log(ctx, log.LevelWarn, "collaborator call failed",
			log.String("collaborator", c.name),
			log.String("path", path),
			log.Err(err),
		)
	}

	return err
}

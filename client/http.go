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

	"github.com/monkmode/monkmode/habit"
)

const requestTimeout = 10 * time.Second

// HTTPClient implements API against a MonkMode sync server.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewHTTPClient returns a client for baseURL, e.g. "http://localhost:5000".
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: requestTimeout},
	}
}

type skippedReply struct {
	Skipped bool `json:"skipped"`
}

type saveLogReply struct {
	habit.Document
	skippedReply
}

type addRuleReply struct {
	Rules []habit.Rule `json:"rules"`
	skippedReply
}

// Fetch loads the document. A 404 is habit.ErrDocumentNotFound.
func (c *HTTPClient) Fetch(ctx context.Context) (*habit.Document, error) {
	var doc habit.Document
	if err := c.do(ctx, http.MethodGet, "/data", nil, &doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	return &doc, nil
}

func (c *HTTPClient) SaveSnapshot(ctx context.Context, snap habit.Snapshot) (*habit.Document, error) {
	var doc habit.Document
	if err := c.do(ctx, http.MethodPost, "/save", snap, &doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	return &doc, nil
}

func (c *HTTPClient) SaveLog(ctx context.Context, date habit.Date, text string) (*habit.Document, error) {
	var reply saveLogReply
	body := map[string]string{"date": string(date), "text": text}
	if err := c.do(ctx, http.MethodPost, "/save-log", body, &reply); err != nil {
		return nil, err
	}
	if reply.Skipped {
		return nil, nil
	}
	reply.Document.Normalize()
	return &reply.Document, nil
}

func (c *HTTPClient) AddRule(ctx context.Context, text string) ([]habit.Rule, error) {
	var reply addRuleReply
	if err := c.do(ctx, http.MethodPost, "/add-rule", map[string]string{"text": text}, &reply); err != nil {
		return nil, err
	}
	if reply.Skipped {
		return nil, nil
	}
	if reply.Rules == nil {
		reply.Rules = []habit.Rule{}
	}
	return reply.Rules, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s body: %w", path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return habit.ErrDocumentNotFound
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s %s", habit.ErrInvalidInput, method, path)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s %s returned %d", method, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s reply: %w", path, err)
	}
	return nil
}

package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// avroContentType is the Kafka REST proxy content type for
	// Avro-encoded produce requests.
	avroContentType = "application/vnd.kafka.avro.v2+json"

	// DefaultTimeout bounds every proxy request. Emission is on the
	// path of interactive actions, so it must never hang.
	DefaultTimeout = 5 * time.Second
)

// Result is the outcome of one emission attempt. A failed Result is not
// a Go error: callers decide how to downgrade it.
type Result struct {
	OK  bool
	Err error
}

// failure wraps an error into a failed Result.
func failure(err error) Result { return Result{Err: err} }

// payload is the proxy produce-request body: the value schema plus the
// records to publish under it.
type payload struct {
	ValueSchema string   `json:"value_schema"`
	Records     []record `json:"records"`
}

type record struct {
	Value map[string]any `json:"value"`
}

// Client talks to the telemetry store's Kafka REST proxy.
type Client struct {
	BaseURL   string // proxy base URL, e.g. https://summit.example.org
	Namespace string // topic namespace, e.g. lsst.obsenv
	HTTP      *http.Client
	Logger    *slog.Logger
}

// NewClient returns a client with the default request timeout. A nil
// logger falls back to slog.Default().
func NewClient(baseURL, namespace string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Namespace: namespace,
		HTTP:      &http.Client{Timeout: timeout},
		Logger:    logger,
	}
}

// topicName returns the fully qualified topic for an event.
func (c *Client) topicName(ev Event) string {
	return c.Namespace + "." + ev.Topic()
}

// Submit publishes one event. It never blocks past the client timeout
// and never panics the caller with an error: the Result says whether
// the store accepted the event.
func (c *Client) Submit(ctx context.Context, ev Event) Result {
	if c.BaseURL == "" {
		return failure(fmt.Errorf("no telemetry proxy URL configured"))
	}

	topic := c.topicName(ev)
	body, err := json.Marshal(payload{
		ValueSchema: ev.Schema(),
		Records:     []record{{Value: ev.Value()}},
	})
	if err != nil {
		return failure(fmt.Errorf("encoding %s event: %w", topic, err))
	}

	url := fmt.Sprintf("%s/topics/%s", c.BaseURL, topic)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return failure(fmt.Errorf("creating produce request: %w", err))
	}
	req.Header.Set("Content-Type", avroContentType)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return failure(fmt.Errorf("posting to %s: %w", topic, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return failure(fmt.Errorf("proxy returned status %d for %s: %s",
			resp.StatusCode, topic, strings.TrimSpace(string(msg))))
	}

	c.Logger.Debug("telemetry event submitted", "topic", topic)
	return Result{OK: true}
}

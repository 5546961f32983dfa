package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func testEvent() ActionEvent {
	return ActionEvent{
		Timestamp: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Action:    "setup",
		Packages:  []string{"core-ctrl", "maintel-scripts"},
		Status:    "success",
		User:      "operator",
	}
}

func TestSubmitPostsAvroPayload(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody payload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "lsst.obsenv", 0, discard)
	result := c.Submit(context.Background(), testEvent())
	if !result.OK {
		t.Fatalf("expected success, got %v", result.Err)
	}

	if gotPath != "/topics/lsst.obsenv.action" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotContentType != avroContentType {
		t.Errorf("unexpected content type %s", gotContentType)
	}
	if len(gotBody.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(gotBody.Records))
	}
	if gotBody.ValueSchema == "" {
		t.Error("missing value schema")
	}
	value := gotBody.Records[0].Value
	if value["action"] != "setup" || value["status"] != "success" {
		t.Errorf("unexpected record value: %v", value)
	}
	pkgs, ok := value["packages"].([]interface{})
	if !ok || len(pkgs) != 2 || pkgs[0] != "core-ctrl" {
		t.Errorf("unexpected packages field: %v", value["packages"])
	}
}

func TestSubmitServerErrorIsFailedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "schema rejected", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "lsst.obsenv", 0, discard)
	result := c.Submit(context.Background(), testEvent())
	if result.OK {
		t.Fatal("expected failed result")
	}
	if result.Err == nil {
		t.Fatal("failed result must carry an error")
	}
}

func TestSubmitUnreachableProxyIsFailedResult(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "lsst.obsenv", 500*time.Millisecond, discard)
	result := c.Submit(context.Background(), testEvent())
	if result.OK {
		t.Fatal("expected failed result for unreachable proxy")
	}
}

func TestSubmitTimeoutIsBounded(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, "lsst.obsenv", 100*time.Millisecond, discard)
	start := time.Now()
	result := c.Submit(context.Background(), testEvent())
	elapsed := time.Since(start)

	if result.OK {
		t.Fatal("expected timeout failure")
	}
	if elapsed > 2*time.Second {
		t.Errorf("submit was not bounded by the timeout: %v", elapsed)
	}
}

func TestSubmitWithoutURLFails(t *testing.T) {
	c := NewClient("", "lsst.obsenv", 0, discard)
	if result := c.Submit(context.Background(), testEvent()); result.OK {
		t.Fatal("expected failure with no proxy URL")
	}
}

func TestCreateTopics(t *testing.T) {
	var created []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v3/clusters":
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"data": [{"cluster_id": "test-cluster"}]}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v3/clusters/test-cluster/topics":
			var cfg TopicConfig
			json.NewDecoder(r.Body).Decode(&cfg)
			created = append(created, cfg.TopicName)
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "lsst.obsenv", 0, discard)
	if err := c.CreateTopics(context.Background()); err != nil {
		t.Fatalf("CreateTopics: %v", err)
	}
	if len(created) != 2 || created[0] != "lsst.obsenv.action" || created[1] != "lsst.obsenv.summary" {
		t.Errorf("unexpected topics created: %v", created)
	}
}

func TestCreateTopicsConflictIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v3/clusters" {
			io.WriteString(w, `{"data": [{"cluster_id": "c"}]}`)
			return
		}
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "lsst.obsenv", 0, discard)
	if err := c.CreateTopics(context.Background()); err != nil {
		t.Errorf("conflict should be treated as already-exists: %v", err)
	}
}

func TestSummaryEventString(t *testing.T) {
	ev := SummaryEvent{Versions: map[string]string{"b_pkg": "2.0.0", "a_pkg": "1.0.0"}}
	if got := ev.String(); got != "a_pkg=1.0.0 b_pkg=2.0.0" {
		t.Errorf("unexpected rendering: %q", got)
	}
}

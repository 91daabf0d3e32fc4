package server_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"qrcatalog/internal/http/server"
	"qrcatalog/internal/repos"
)

type brokenStore struct{}

func (brokenStore) Write(context.Context, int64, []byte) error { return errors.New("disk full") }
func (brokenStore) Delete(int64) error                         { return nil }

// commitFailPool hands out real connections whose commit always fails.
type commitFailPool struct{ repos.ConnPool }

func (p commitFailPool) Acquire(ctx context.Context) (repos.Conn, error) {
	c, err := p.ConnPool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return commitFailConn{c}, nil
}

type commitFailConn struct{ repos.Conn }

func (commitFailConn) Commit() error { return errors.New("disk I/O error") }

func expectEmptyCatalog(t *testing.T, ta *testApp) {
	t.Helper()
	resp := ta.do(t, "GET", "/products", nil, "")
	expectStatus(t, resp, http.StatusOK)
	if got := strings.TrimSpace(readBody(t, resp)); got != "[]" {
		t.Fatalf("expected empty catalog, got %s", got)
	}
}

func TestCreateProductArtifactFailure(t *testing.T) {
	ta := newTestApp(t, server.Options{})
	ta.deps.ProductHandler.Creator.Artifacts = brokenStore{}

	var resp *http.Response
	logs := captureLogs(t, func() {
		resp = ta.do(t, "POST", "/products", map[string]any{"Pname": "Runner", "price": 10}, "")
	})
	expectStatus(t, resp, http.StatusInternalServerError)
	if body := readBody(t, resp); !strings.Contains(body, `"error":"Error generating QR code"`) || strings.Contains(body, "disk full") {
		t.Fatalf("unexpected body: %s", body)
	}
	if e := findLog(logs, "product.create.fail"); e == nil || e.Fields["reason"] != "artifact-write-failed" {
		t.Fatalf("expected artifact-write-failed log, got %+v", logs)
	}
	if files := qrFiles(t, ta); len(files) != 0 {
		t.Fatalf("expected no artifacts, got %v", files)
	}
	expectEmptyCatalog(t, ta)
}

func TestCreateProductCommitFailure(t *testing.T) {
	ta := newTestApp(t, server.Options{})
	creator := ta.deps.ProductHandler.Creator
	creator.Pool = commitFailPool{creator.Pool}

	var resp *http.Response
	logs := captureLogs(t, func() {
		resp = ta.do(t, "POST", "/products", map[string]any{"Pname": "Runner", "price": 10}, "")
	})
	expectStatus(t, resp, http.StatusInternalServerError)
	if body := readBody(t, resp); !strings.Contains(body, `"error":"Error committing transaction"`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if e := findLog(logs, "product.create.fail"); e == nil || e.Fields["reason"] != "commit-failed" {
		t.Fatalf("expected commit-failed log, got %+v", logs)
	}
	if files := qrFiles(t, ta); len(files) != 0 {
		t.Fatalf("artifact must be removed after a failed commit, got %v", files)
	}
	expectEmptyCatalog(t, ta)
}

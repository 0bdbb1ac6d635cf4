package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tillpoint/pos-terminal/internal/session"
	"github.com/tillpoint/pos-terminal/pkg/config"
	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
	"github.com/tillpoint/pos-terminal/pkg/logger"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.CatalogConfig{
		BaseURL:        server.URL,
		RequestTimeout: 2 * time.Second,
	}, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

func TestClientForwardsSessionToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))

	ctx := session.WithContext(context.Background(), session.Session{Token: "abc123"})
	if _, err := client.ListProducts(ctx); err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
}

func TestFindByCodeMissIsNotFound(t *testing.T) {
	t.Parallel()

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"no such product"}}`, http.StatusNotFound)
	}))

	_, err := client.FindByCode(context.Background(), "999999")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestClientSurfacesUpstreamMessage(t *testing.T) {
	t.Parallel()

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"store offline"}}`))
	}))

	_, err := client.ListProducts(context.Background())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
	if coded.Message() != "store offline" {
		t.Fatalf("message = %q, want upstream text", coded.Message())
	}
}

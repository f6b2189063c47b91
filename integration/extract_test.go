package integration

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/a-h/reviewextract/auth"
	"github.com/a-h/reviewextract/client"
	"github.com/a-h/reviewextract/flow"
	"github.com/a-h/reviewextract/page"
)

// serverURL returns the review server to test against. Tests are skipped
// unless REVIEW_SERVER_URL is set.
func serverURL(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	url := os.Getenv("REVIEW_SERVER_URL")
	if url == "" {
		t.Skip("REVIEW_SERVER_URL not set")
	}
	return url
}

func TestExtractWithoutSessionRedirectsToLogin(t *testing.T) {
	url := serverURL(t)
	c := page.NewConsole(new(bytes.Buffer), url, "/", "Extract reviews")
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	f := flow.New(log, client.New(url, auth.Session{}), flow.Page{Submit: c, Progress: c, Navigator: c, Alerter: c})

	o := f.Submit(context.Background(), "https://rozetka.com.ua/")

	if o.Kind != flow.KindAuthRequired {
		t.Fatalf("expected %q, got %q (%s)", flow.KindAuthRequired, o.Kind, o.Message)
	}
	if c.Location() != url+"/login?next=%2F" {
		t.Errorf("unexpected location %q", c.Location())
	}
}

func TestExtractWithSession(t *testing.T) {
	url := serverURL(t)
	cookie := os.Getenv("REVIEW_SESSION_COOKIE")
	product := os.Getenv("REVIEW_PRODUCT_URL")
	if cookie == "" || product == "" {
		t.Skip("REVIEW_SESSION_COOKIE and REVIEW_PRODUCT_URL not set")
	}
	c := page.NewConsole(new(bytes.Buffer), url, "/", "Extract reviews")
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	f := flow.New(log, client.New(url, auth.New(cookie)), flow.Page{Submit: c, Progress: c, Navigator: c, Alerter: c})

	o := f.Submit(context.Background(), product)

	if o.Kind != flow.KindSuccess {
		t.Fatalf("expected %q, got %q (%s)", flow.KindSuccess, o.Kind, o.Message)
	}
	if c.Location() != url+flow.ResultPath(o.ExtractionID) {
		t.Errorf("unexpected location %q", c.Location())
	}
}

package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/a-h/jsonapi"
	"github.com/a-h/reviewextract/client"
	"github.com/a-h/reviewextract/models"
	"github.com/a-h/reviewextract/page"
	"github.com/google/go-cmp/cmp"
)

type fakePoster struct {
	resp  models.PlatformConfigResponse
	err   error
	calls []string
	label string
	ctrl  page.SubmitControl
}

func (p *fakePoster) GenerateConfigPost(ctx context.Context, req models.PlatformConfigRequest) (models.PlatformConfigResponse, error) {
	p.calls = append(p.calls, "generate")
	p.label = p.ctrl.Label()
	return p.resp, p.err
}

func (p *fakePoster) TestConfigPost(ctx context.Context, req models.PlatformConfigRequest) (models.PlatformConfigResponse, error) {
	p.calls = append(p.calls, "test")
	p.label = p.ctrl.Label()
	return p.resp, p.err
}

type notification struct {
	Kind    string
	Message string
}

type recordingNotifier struct {
	notifications []notification
}

func (n *recordingNotifier) Success(message string) {
	n.notifications = append(n.notifications, notification{"success", message})
}

func (n *recordingNotifier) Error(message string) {
	n.notifications = append(n.notifications, notification{"error", message})
}

var completeRequest = models.PlatformConfigRequest{
	URL:         "https://example.com/p/1",
	TitleBlock:  "<h1>Product</h1>",
	ReviewBlock: "<div class=\"review\"></div>",
}

func newTestFlow(resp models.PlatformConfigResponse, err error) (*Flow, *fakePoster, *recordingNotifier, *page.Console) {
	ctrl := page.NewConsole(new(bytes.Buffer), "http://localhost", "/admin/platforms", "Generate")
	poster := &fakePoster{resp: resp, err: err, ctrl: ctrl}
	notifier := &recordingNotifier{}
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return New(log, poster, ctrl, notifier), poster, notifier, ctrl
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name                  string
		req                   models.PlatformConfigRequest
		resp                  models.PlatformConfigResponse
		err                   error
		expectedOK            bool
		expectedConfig        json.RawMessage
		expectedCalls         []string
		expectedNotifications []notification
	}{
		{
			name:           "config is returned on success",
			req:            completeRequest,
			resp:           models.PlatformConfigResponse{Success: true, Config: json.RawMessage(`{"a":1}`)},
			expectedOK:     true,
			expectedConfig: json.RawMessage(`{"a":1}`),
			expectedCalls:  []string{"generate"},
		},
		{
			name:                  "incomplete forms are not sent",
			req:                   models.PlatformConfigRequest{URL: "https://example.com", TitleBlock: " "},
			expectedNotifications: []notification{{"error", MessageFillAllFields}},
		},
		{
			name:                  "server errors are shown",
			req:                   completeRequest,
			resp:                  models.PlatformConfigResponse{Error: "no reviews found"},
			expectedCalls:         []string{"generate"},
			expectedNotifications: []notification{{"error", "no reviews found"}},
		},
		{
			name:                  "unsuccessful responses without an error use the fallback",
			req:                   completeRequest,
			resp:                  models.PlatformConfigResponse{},
			expectedCalls:         []string{"generate"},
			expectedNotifications: []notification{{"error", MessageGenerateFailed}},
		},
		{
			name:                  "status errors use the body error",
			req:                   completeRequest,
			resp:                  models.PlatformConfigResponse{Error: "forbidden"},
			err:                   jsonapi.InvalidStatusError{Status: http.StatusForbidden},
			expectedCalls:         []string{"generate"},
			expectedNotifications: []notification{{"error", "forbidden"}},
		},
		{
			name:                  "transport errors use a generic message",
			req:                   completeRequest,
			err:                   errors.New("connection refused"),
			expectedCalls:         []string{"generate"},
			expectedNotifications: []notification{{"error", MessageSendFailed}},
		},
		{
			name:                  "expired sessions point at the login page",
			req:                   completeRequest,
			err:                   client.LoginRequiredError{LoginURL: "http://localhost/login?next=%2Fadmin%2Fplatforms%2Fgenerate-config"},
			expectedCalls:         []string{"generate"},
			expectedNotifications: []notification{{"error", "login required, sign in at http://localhost/login?next=%2Fadmin%2Fplatforms%2Fgenerate-config"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, poster, notifier, ctrl := newTestFlow(tt.resp, tt.err)

			config, ok := f.Generate(context.Background(), tt.req)

			if ok != tt.expectedOK {
				t.Errorf("expected ok %v, got %v", tt.expectedOK, ok)
			}
			if diff := cmp.Diff(tt.expectedConfig, config); diff != "" {
				t.Error(diff)
			}
			if diff := cmp.Diff(tt.expectedCalls, poster.calls); diff != "" {
				t.Error(diff)
			}
			if diff := cmp.Diff(tt.expectedNotifications, notifier.notifications); diff != "" {
				t.Error(diff)
			}
			if len(poster.calls) > 0 && poster.label != BusyLabel {
				t.Errorf("expected busy label during request, got %q", poster.label)
			}
			if !ctrl.Enabled() || ctrl.Label() != "Generate" {
				t.Error("expected control to be restored")
			}
		})
	}
}

func TestTest(t *testing.T) {
	tests := []struct {
		name                  string
		req                   models.PlatformConfigRequest
		resp                  models.PlatformConfigResponse
		expectedOK            bool
		expectedCalls         []string
		expectedNotifications []notification
	}{
		{
			name:                  "success is notified",
			req:                   models.PlatformConfigRequest{URL: "https://example.com", ReviewBlock: "<div></div>"},
			resp:                  models.PlatformConfigResponse{Success: true, Config: json.RawMessage(`{}`)},
			expectedOK:            true,
			expectedCalls:         []string{"test"},
			expectedNotifications: []notification{{"success", MessageConfigGenerated}},
		},
		{
			name:                  "URL is required",
			req:                   models.PlatformConfigRequest{ReviewBlock: "<div></div>"},
			expectedNotifications: []notification{{"error", MessageURLRequired}},
		},
		{
			name:                  "one block is required",
			req:                   models.PlatformConfigRequest{URL: "https://example.com"},
			expectedNotifications: []notification{{"error", MessageBlockRequired}},
		},
		{
			name:                  "unsuccessful 200 responses are errors",
			req:                   completeRequest,
			resp:                  models.PlatformConfigResponse{Error: "could not fetch page"},
			expectedCalls:         []string{"test"},
			expectedNotifications: []notification{{"error", "could not fetch page"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, poster, notifier, _ := newTestFlow(tt.resp, nil)

			_, ok := f.Test(context.Background(), tt.req)

			if ok != tt.expectedOK {
				t.Errorf("expected ok %v, got %v", tt.expectedOK, ok)
			}
			if diff := cmp.Diff(tt.expectedCalls, poster.calls); diff != "" {
				t.Error(diff)
			}
			if diff := cmp.Diff(tt.expectedNotifications, notifier.notifications); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestRender(t *testing.T) {
	config := json.RawMessage(`{"title":".t","review":".r"}`)
	tests := []struct {
		format   OutputFormat
		expected string
	}{
		{
			format:   OutputFormatJSON,
			expected: "{\n  \"title\": \".t\",\n  \"review\": \".r\"\n}",
		},
		{
			format:   OutputFormatYAML,
			expected: "review: .r\ntitle: .t\n",
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			actual, err := Render(config, tt.format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if actual != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, actual)
			}
		})
	}
	if _, err := Render(config, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
	if actual, err := Render(nil, OutputFormatJSON); err != nil || actual != "" {
		t.Errorf("expected empty output for an empty config, got %q, %v", actual, err)
	}
}

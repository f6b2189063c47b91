// Package flow runs the submit-to-outcome cycle of the extraction form.
package flow

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/reviewextract/auth"
	"github.com/a-h/reviewextract/client"
	"github.com/a-h/reviewextract/models"
	"github.com/a-h/reviewextract/page"
)

// BusyLabel is shown on the submit control while a request is pending.
const BusyLabel = "Processing..."

// ResultPath is the page that shows a finished extraction.
func ResultPath(extractionID string) string {
	return "/review/extraction/" + url.PathEscape(extractionID)
}

type Extractor interface {
	ExtractPost(ctx context.Context, req models.ExtractPostRequest) (*http.Response, error)
}

// Page holds the handles of the form that the flow drives.
type Page struct {
	Submit    page.SubmitControl
	Progress  page.ProgressIndicator
	Navigator page.Navigator
	Alerter   page.Alerter
}

// UIState is the part of the page state owned by the flow.
type UIState struct {
	Submitting   bool
	ModalVisible bool
}

func New(log *slog.Logger, extractor Extractor, p Page) *Flow {
	return &Flow{
		log:       log,
		extractor: extractor,
		page:      p,
	}
}

type Flow struct {
	log       *slog.Logger
	extractor Extractor
	page      Page

	m     sync.Mutex
	state UIState
}

func (f *Flow) State() UIState {
	f.m.Lock()
	defer f.m.Unlock()
	return f.state
}

func (f *Flow) setState(submitting, modalVisible bool) {
	f.m.Lock()
	defer f.m.Unlock()
	f.state = UIState{Submitting: submitting, ModalVisible: modalVisible}
}

// Submit sends one extraction request and performs exactly one of: navigate
// to the result page, redirect to login, or alert an error. The submit
// control is always restored before Submit returns.
func (f *Flow) Submit(ctx context.Context, extractURL string) (o Outcome) {
	reset := page.ShowLoading(f.page.Submit, BusyLabel)
	defer func() {
		reset()
		f.m.Lock()
		f.state.Submitting = false
		f.m.Unlock()
	}()
	f.setState(true, true)
	f.page.Progress.Show()

	f.log.Info("submitting extraction", slog.String("url", extractURL))
	o = f.request(ctx, extractURL)
	f.log.Info("extraction request complete", slog.String("outcome", string(o.Kind)), slog.String("id", o.ExtractionID))

	switch o.Kind {
	case KindAuthRequired:
		f.hideProgress()
		f.page.Navigator.Navigate(auth.LoginURL(f.page.Navigator.Path()))
	case KindSuccess:
		// The page is being replaced, so the progress indicator stays up.
		f.page.Navigator.Navigate(ResultPath(o.ExtractionID))
	default:
		f.hideProgress()
		if o.Err != nil {
			f.log.Error("extraction request failed", slog.Any("error", o.Err))
		}
		f.page.Alerter.Alert(o.Message)
	}
	return o
}

func (f *Flow) hideProgress() {
	f.page.Progress.Hide()
	f.m.Lock()
	f.state.ModalVisible = false
	f.m.Unlock()
}

func (f *Flow) request(ctx context.Context, extractURL string) Outcome {
	res, err := f.extractor.ExtractPost(ctx, models.ExtractPostRequest{URL: extractURL})
	if err != nil {
		return TransportError(MessageTransportFailed, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusUnauthorized {
		return AuthRequired()
	}
	// The headers decide a login redirect, so a body that fails to arrive
	// does not turn it into a transport error.
	contentType := res.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		f.logNonJSON(ctx, res)
		return AuthRequired()
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return TransportError(MessageTransportFailed, err)
	}
	return Classify(res.StatusCode, contentType, body)
}

// logNonJSON records what came back instead of JSON, usually a login page
// served after a redirect.
func (f *Flow) logNonJSON(ctx context.Context, res *http.Response) {
	if !f.log.Enabled(ctx, slog.LevelDebug) {
		return
	}
	// Best effort: the page may be truncated.
	body, _ := io.ReadAll(res.Body)
	attrs := []any{
		slog.Int("status", res.StatusCode),
		slog.String("contentType", res.Header.Get("Content-Type")),
	}
	if res.Request != nil {
		attrs = append(attrs,
			slog.String("requestID", res.Request.Header.Get(client.RequestIDHeader)),
			slog.String("finalURL", res.Request.URL.String()))
	}
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
		attrs = append(attrs, slog.String("title", strings.TrimSpace(doc.Find("title").First().Text())))
	}
	f.log.Debug("non-JSON response treated as login required", attrs...)
}

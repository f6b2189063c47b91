package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/jsonapi"
	"github.com/a-h/reviewextract/auth"
	"github.com/a-h/reviewextract/models"
	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request ID so that client and server logs
// can be correlated.
const RequestIDHeader = "X-Request-ID"

func New(baseURL string, session auth.Session) Client {
	return Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		session: session,
	}
}

type Client struct {
	baseURL string
	session auth.Session
}

func (c Client) BaseURL() string {
	return c.baseURL
}

// ErrLoginRequired is matched by errors.Is on a LoginRequiredError.
var ErrLoginRequired = errors.New("login required")

// LoginRequiredError is returned when the server answers with a login page
// or a 401 instead of the requested resource.
type LoginRequiredError struct {
	// LoginURL is the absolute login URL, with the requested path as the
	// next parameter.
	LoginURL string
}

func (e LoginRequiredError) Error() string {
	return fmt.Sprintf("login required, sign in at %s", e.LoginURL)
}

func (e LoginRequiredError) Is(target error) bool {
	return target == ErrLoginRequired
}

// ExtractPost starts an extraction. The raw response is returned because
// the caller classifies it from the status, headers and body together.
// The caller must close the response body.
func (c Client) ExtractPost(ctx context.Context, req models.ExtractPostRequest) (*http.Response, error) {
	target, err := c.url(nil, "review", "extract")
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, target, req)
}

func (c Client) GenerateConfigPost(ctx context.Context, req models.PlatformConfigRequest) (resp models.PlatformConfigResponse, err error) {
	return c.platformConfigPost(ctx, "generate-config", req)
}

func (c Client) TestConfigPost(ctx context.Context, req models.PlatformConfigRequest) (resp models.PlatformConfigResponse, err error) {
	return c.platformConfigPost(ctx, "test-config", req)
}

// platformConfigPost returns the decoded body even when the status is not
// 2xx, alongside a jsonapi.InvalidStatusError, so that callers can show the
// server's error message.
func (c Client) platformConfigPost(ctx context.Context, action string, req models.PlatformConfigRequest) (resp models.PlatformConfigResponse, err error) {
	target, err := c.url(nil, "admin", "platforms", action)
	if err != nil {
		return resp, err
	}
	status, body, err := c.doJSON(ctx, http.MethodPost, target, req)
	if err != nil {
		return resp, err
	}
	if err = json.Unmarshal(body, &resp); err != nil {
		return resp, fmt.Errorf("failed to decode response: %w", err)
	}
	if !isSuccess(status) {
		return resp, jsonapi.InvalidStatusError{
			Status: status,
			Body:   string(body),
		}
	}
	return resp, nil
}

func (c Client) ExtractionDelete(ctx context.Context, id string) (resp models.ExtractionDeleteResponse, err error) {
	target, err := c.url(nil, "review", "extraction", id, "delete")
	if err != nil {
		return resp, err
	}
	status, body, err := c.doJSON(ctx, http.MethodPost, target, struct{}{})
	if err != nil {
		return resp, err
	}
	if !isSuccess(status) {
		return resp, jsonapi.InvalidStatusError{
			Status: status,
			Body:   string(body),
		}
	}
	if err = json.Unmarshal(body, &resp); err != nil {
		return resp, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.Error != "" {
		return resp, fmt.Errorf("failed to delete extraction: %s", resp.Error)
	}
	return resp, nil
}

// ExtractionSummaryGet asks the server to summarise the reviews of an
// extraction. Summaries are generated on demand, so this can be slow.
func (c Client) ExtractionSummaryGet(ctx context.Context, id string) (resp models.ExtractionSummaryResponse, err error) {
	target, err := c.url(nil, "review", "extraction", id, "summary")
	if err != nil {
		return resp, err
	}
	status, body, err := c.doJSON(ctx, http.MethodGet, target, nil)
	if err != nil {
		return resp, err
	}
	if err = json.Unmarshal(body, &resp); err != nil {
		return resp, fmt.Errorf("failed to decode response: %w", err)
	}
	if !isSuccess(status) {
		ise := jsonapi.InvalidStatusError{
			Status: status,
			Body:   string(body),
		}
		if resp.Error != "" {
			return resp, fmt.Errorf("failed to get summary: %s: %w", resp.Error, ise)
		}
		return resp, ise
	}
	return resp, nil
}

// ExtractionExport writes the exported reviews of an extraction to w.
func (c Client) ExtractionExport(ctx context.Context, id string, format models.ExportFormat, w io.Writer) (err error) {
	target, err := c.url(url.Values{"format": []string{string(format)}}, "review", "api", "extraction", id, "export")
	if err != nil {
		return err
	}
	res, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if isLoginPage(res) {
		return c.loginRequired(res)
	}
	if !isSuccess(res.StatusCode) {
		body, _ := io.ReadAll(res.Body)
		return jsonapi.InvalidStatusError{
			Status: res.StatusCode,
			Body:   string(body),
		}
	}
	if _, err = io.Copy(w, res.Body); err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// url joins segments onto the base URL, escaping each one so that an ID
// containing a slash stays a single segment.
func (c Client) url(query url.Values, segments ...string) (string, error) {
	base, err := jsonapi.URL(c.baseURL).String()
	if err != nil {
		return "", err
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u.RawPath = strings.TrimSuffix(u.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.Join(segments, "/")
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// isLoginPage reports whether the response is a 401 or the login page that
// an expired session is redirected to. HTML error pages, such as a 404 for
// an unknown extraction, are not.
func isLoginPage(res *http.Response) bool {
	if res.StatusCode == http.StatusUnauthorized {
		return true
	}
	if res.Request != nil && res.Request.URL.Path == auth.LoginPath {
		return true
	}
	return isSuccess(res.StatusCode) && strings.Contains(res.Header.Get("Content-Type"), "text/html")
}

func (c Client) loginRequired(res *http.Response) error {
	var requested string
	if res.Request != nil {
		requested = originalRequest(res.Request).URL.Path
	}
	loginURL := auth.LoginURL(requested)
	if base, err := url.Parse(c.baseURL); err == nil {
		if ref, err := url.Parse(loginURL); err == nil {
			loginURL = base.ResolveReference(ref).String()
		}
	}
	return LoginRequiredError{LoginURL: loginURL}
}

// originalRequest follows redirects back to the first request.
func originalRequest(r *http.Request) *http.Request {
	for r.Response != nil && r.Response.Request != nil {
		r = r.Response.Request
	}
	return r
}

// doJSON performs a request to a JSON endpoint and reads the body. A 2xx
// response that is not JSON is treated as the login page, as the extraction
// form does. Other non-JSON responses become a status error.
func (c Client) doJSON(ctx context.Context, method, target string, req any) (status int, body []byte, err error) {
	res, err := c.do(ctx, method, target, req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	isJSON := strings.Contains(res.Header.Get("Content-Type"), "application/json")
	if isLoginPage(res) || (!isJSON && isSuccess(res.StatusCode)) {
		return res.StatusCode, nil, c.loginRequired(res)
	}
	body, err = io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if !isJSON {
		return res.StatusCode, nil, jsonapi.InvalidStatusError{
			Status: res.StatusCode,
			Body:   string(body),
		}
	}
	return res.StatusCode, body, nil
}

func (c Client) do(ctx context.Context, method, target string, req any) (*http.Response, error) {
	var body io.Reader
	if req != nil {
		buf, err := json.Marshal(req)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if req != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	c.session.Apply(httpReq)
	res, err := jsonapi.Raw(httpReq,
		jsonapi.WithRequestHeader("Accept", "application/json"),
		jsonapi.WithRequestHeader(RequestIDHeader, uuid.NewString()))
	if err != nil {
		return nil, fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	return res, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

// Package admin drives the platform config generation form.
package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/a-h/jsonapi"
	"github.com/a-h/reviewextract/client"
	"github.com/a-h/reviewextract/form"
	"github.com/a-h/reviewextract/models"
	"github.com/a-h/reviewextract/page"
	"gopkg.in/yaml.v3"
)

const (
	BusyLabel = "Loading..."

	MessageFillAllFields   = "Please fill in all fields."
	MessageURLRequired     = "URL is required."
	MessageBlockRequired   = "Provide at least one HTML block."
	MessageGenerateFailed  = "Failed to generate configuration."
	MessageSendFailed      = "Failed to send request."
	MessageConfigGenerated = "Configuration generated successfully."
)

type ConfigPoster interface {
	GenerateConfigPost(ctx context.Context, req models.PlatformConfigRequest) (models.PlatformConfigResponse, error)
	TestConfigPost(ctx context.Context, req models.PlatformConfigRequest) (models.PlatformConfigResponse, error)
}

type Notifier interface {
	Success(message string)
	Error(message string)
}

func New(log *slog.Logger, poster ConfigPoster, submit page.SubmitControl, notifier Notifier) *Flow {
	return &Flow{
		log:      log,
		poster:   poster,
		submit:   submit,
		notifier: notifier,
	}
}

type Flow struct {
	log      *slog.Logger
	poster   ConfigPoster
	submit   page.SubmitControl
	notifier Notifier
}

// Generate asks the server to derive a platform config from sample HTML
// blocks. All fields are required.
func (f *Flow) Generate(ctx context.Context, req models.PlatformConfigRequest) (config json.RawMessage, ok bool) {
	invalid := form.Validate([]form.Field{
		{Name: "url", Value: req.URL, Required: true},
		{Name: "title_block", Value: req.TitleBlock, Required: true},
		{Name: "review_block", Value: req.ReviewBlock, Required: true},
	})
	if len(invalid) > 0 {
		f.log.Debug("config form is incomplete", slog.Any("fields", invalid))
		f.notifier.Error(MessageFillAllFields)
		return nil, false
	}
	reset := page.ShowLoading(f.submit, BusyLabel)
	defer reset()

	resp, err := f.poster.GenerateConfigPost(ctx, req)
	return f.handle(resp, err, false)
}

// Test generates a config and checks that it extracts reviews from the URL.
// The URL and at least one block are required.
func (f *Flow) Test(ctx context.Context, req models.PlatformConfigRequest) (config json.RawMessage, ok bool) {
	if len(form.Validate([]form.Field{{Name: "url", Value: req.URL, Required: true}})) > 0 {
		f.notifier.Error(MessageURLRequired)
		return nil, false
	}
	blocks := []form.Field{
		{Name: "title_block", Value: req.TitleBlock, Required: true},
		{Name: "review_block", Value: req.ReviewBlock, Required: true},
	}
	if len(form.Validate(blocks)) == len(blocks) {
		f.notifier.Error(MessageBlockRequired)
		return nil, false
	}
	reset := page.ShowLoading(f.submit, BusyLabel)
	defer reset()

	resp, err := f.poster.TestConfigPost(ctx, req)
	return f.handle(resp, err, true)
}

func (f *Flow) handle(resp models.PlatformConfigResponse, err error, notifySuccess bool) (config json.RawMessage, ok bool) {
	if err != nil {
		if errors.Is(err, client.ErrLoginRequired) {
			f.log.Warn("config request needs a login", slog.Any("error", err))
			f.notifier.Error(err.Error())
			return nil, false
		}
		var ise jsonapi.InvalidStatusError
		if !errors.As(err, &ise) {
			f.log.Error("config request failed", slog.Any("error", err))
			f.notifier.Error(MessageSendFailed)
			return nil, false
		}
		f.log.Warn("config request rejected", slog.Int("status", ise.Status))
	}
	if err != nil || !resp.Success {
		if resp.Error != "" {
			f.notifier.Error(resp.Error)
		} else {
			f.notifier.Error(MessageGenerateFailed)
		}
		return nil, false
	}
	if notifySuccess {
		f.notifier.Success(MessageConfigGenerated)
	}
	return resp.Config, true
}

type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// Render pretty prints a config.
func Render(config json.RawMessage, format OutputFormat) (string, error) {
	if len(bytes.TrimSpace(config)) == 0 {
		return "", nil
	}
	switch format {
	case OutputFormatJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, config, "", "  "); err != nil {
			return "", fmt.Errorf("failed to format config: %w", err)
		}
		return buf.String(), nil
	case OutputFormatYAML:
		var v any
		if err := json.Unmarshal(config, &v); err != nil {
			return "", fmt.Errorf("failed to decode config: %w", err)
		}
		out, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to encode config: %w", err)
		}
		return string(out), nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

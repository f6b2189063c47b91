package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/a-h/reviewextract/flow"
	"github.com/a-h/reviewextract/page"
	tea "github.com/charmbracelet/bubbletea"
)

type ExtractCommand struct {
	ServerURL   string        `help:"The URL of the review server." env:"REVIEW_SERVER_URL" default:"http://localhost:5000"`
	SessionFile string        `help:"The file containing a JSON map of server URLs to session cookies." env:"REVIEW_SESSION_FILE" default:""`
	URL         string        `arg:"" optional:"" help:"The product page to extract reviews from. Starts the interactive form if omitted."`
	PagePath    string        `help:"The path of the page the form is on, sent as the next parameter on login." env:"PAGE_PATH" default:"/"`
	Timeout     time.Duration `help:"Give up on the request after this long, 0 waits forever." env:"TIMEOUT" default:"0"`
	NoTUI       bool          `help:"Do not start the interactive form." env:"NO_TUI" default:"false"`
	LogLevel    string        `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

const submitLabel = "Extract reviews"

var errExtractionFailed = errors.New("extraction failed")

func (c ExtractCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)
	rsc, err := newClient(log, c.ServerURL, c.SessionFile)
	if err != nil {
		return err
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	if c.NoTUI || c.URL != "" {
		if c.URL == "" {
			return fmt.Errorf("a URL is required when the interactive form is disabled")
		}
		console := page.NewConsole(os.Stdout, c.ServerURL, c.PagePath, submitLabel)
		f := flow.New(log, rsc, flow.Page{
			Submit:    console,
			Progress:  console,
			Navigator: console,
			Alerter:   console,
		})
		o := f.Submit(ctx, c.URL)
		if o.Kind == flow.KindApplicationError || o.Kind == flow.KindTransportError {
			return fmt.Errorf("%w: %s", errExtractionFailed, o.Message)
		}
		return nil
	}

	tp := newTUIPage(c.PagePath, submitLabel)
	f := flow.New(log, rsc, flow.Page{
		Submit:    tp,
		Progress:  tp,
		Navigator: tp,
		Alerter:   tp,
	})
	p := tea.NewProgram(newExtractModel(ctx, f, tp))
	tp.send = p.Send
	if _, err = p.Run(); err != nil {
		return err
	}
	if target := tp.Location(); target != "" {
		location, err := page.ResolveURL(c.ServerURL, target)
		if err != nil {
			return err
		}
		fmt.Println(location)
	}
	return nil
}

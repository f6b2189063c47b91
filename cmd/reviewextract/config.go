package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/a-h/reviewextract/admin"
	"github.com/a-h/reviewextract/form"
	"github.com/a-h/reviewextract/models"
	"github.com/a-h/reviewextract/notify"
	"github.com/a-h/reviewextract/page"
	"github.com/charmbracelet/lipgloss"
)

type ConfigCommand struct {
	Generate ConfigGenerateCommand `cmd:"generate" help:"Generate a platform config from sample HTML blocks."`
	Test     ConfigTestCommand     `cmd:"test" help:"Generate a platform config and test it against the URL."`
}

type ConfigFlags struct {
	ServerURL       string `help:"The URL of the review server." env:"REVIEW_SERVER_URL" default:"http://localhost:5000"`
	SessionFile     string `help:"The file containing a JSON map of server URLs to session cookies." env:"REVIEW_SESSION_FILE" default:""`
	URL             string `help:"A product page of the platform." default:""`
	TitleBlock      string `help:"HTML of the block containing the product title." default:""`
	TitleBlockFile  string `help:"Read the title block from a file." default:""`
	ReviewBlock     string `help:"HTML of a single review." default:""`
	ReviewBlockFile string `help:"Read the review block from a file." default:""`
	Format          string `help:"Output format of the config." enum:"json,yaml" default:"json"`
	Copy            bool   `help:"Copy the config to the clipboard." default:"false"`
	LogLevel        string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

type ConfigGenerateCommand struct {
	ConfigFlags `embed:""`
}

func (c ConfigGenerateCommand) Run(ctx context.Context) (err error) {
	return c.run(ctx, "Generate", (*admin.Flow).Generate)
}

type ConfigTestCommand struct {
	ConfigFlags `embed:""`
}

func (c ConfigTestCommand) Run(ctx context.Context) (err error) {
	return c.run(ctx, "Test", (*admin.Flow).Test)
}

var notificationPrefix = map[notify.Kind]string{
	notify.KindSuccess: lipgloss.NewStyle().Foreground(Green).Render("✓"),
	notify.KindError:   lipgloss.NewStyle().Foreground(Red).Render("✗"),
}

var errConfigFailed = errors.New("config request failed")

func (c ConfigFlags) run(ctx context.Context, label string, action func(*admin.Flow, context.Context, models.PlatformConfigRequest) (json.RawMessage, bool)) (err error) {
	log := getLogger(c.LogLevel)
	rsc, err := newClient(log, c.ServerURL, c.SessionFile)
	if err != nil {
		return err
	}
	req := models.PlatformConfigRequest{URL: c.URL}
	if req.TitleBlock, err = readFileOrDefault(c.TitleBlockFile, c.TitleBlock); err != nil {
		return err
	}
	if req.ReviewBlock, err = readFileOrDefault(c.ReviewBlockFile, c.ReviewBlock); err != nil {
		return err
	}

	notifier := notify.New(func(n notify.Notification, visible bool) {
		if visible {
			fmt.Fprintf(os.Stderr, "%s %s\n", notificationPrefix[n.Kind], n.Message)
		}
	})
	defer notifier.Dismiss()
	button := page.NewConsole(os.Stderr, c.ServerURL, "/admin/platforms", label)
	f := admin.New(log, rsc, button, notifier)

	config, ok := action(f, ctx, req)
	if !ok {
		return errConfigFailed
	}
	output, err := admin.Render(config, admin.OutputFormat(c.Format))
	if err != nil {
		return err
	}
	fmt.Println(output)
	if c.Copy {
		msg, err := form.Copy(output)
		if err != nil {
			log.Warn("failed to copy config", slog.Any("error", err))
			notifier.Error(msg)
			return nil
		}
		notifier.Success(msg)
	}
	return nil
}

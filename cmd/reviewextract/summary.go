package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/a-h/reviewextract/format"
	"github.com/a-h/reviewextract/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type SummaryCommand struct {
	ServerURL   string `help:"The URL of the review server." env:"REVIEW_SERVER_URL" default:"http://localhost:5000"`
	SessionFile string `help:"The file containing a JSON map of server URLs to session cookies." env:"REVIEW_SESSION_FILE" default:""`
	ID          string `arg:"" help:"The ID of the extraction to summarise."`
	Width       int    `help:"The column to wrap text at." default:"80"`
	LogLevel    string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c SummaryCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)
	rsc, err := newClient(log, c.ServerURL, c.SessionFile)
	if err != nil {
		return err
	}
	log.Debug("requesting summary", slog.String("id", c.ID))
	resp, err := rsc.ExtractionSummaryGet(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to summarise extraction: %w", err)
	}
	_, err = io.WriteString(os.Stdout, formatSummary(resp, c.Width))
	return err
}

var (
	prosStyle = lipgloss.NewStyle().Bold(true).Foreground(Green)
	consStyle = lipgloss.NewStyle().Bold(true).Foreground(Red)
)

func formatSummary(resp models.ExtractionSummaryResponse, width int) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Summary"))
	if resp.AverageRating > 0 {
		sb.WriteString("  ")
		sb.WriteString(format.RatingStyled(resp.AverageRating))
	}
	sb.WriteString("\n\n")
	if s := strings.TrimSpace(resp.Summary); s != "" {
		sb.WriteString(wordwrap.String(s, width))
		sb.WriteString("\n\n")
	}
	writeList(&sb, prosStyle.Render("Pros"), "+ ", resp.Pros, width)
	writeList(&sb, consStyle.Render("Cons"), "- ", resp.Cons, width)
	return sb.String()
}

func writeList(sb *strings.Builder, title, prefix string, items []string, width int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title)
	sb.WriteString("\n")
	for _, item := range items {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		sb.WriteString(wordwrap.String(prefix+item, width))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
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

type ExportCommand struct {
	ServerURL   string `help:"The URL of the review server." env:"REVIEW_SERVER_URL" default:"http://localhost:5000"`
	SessionFile string `help:"The file containing a JSON map of server URLs to session cookies." env:"REVIEW_SESSION_FILE" default:""`
	ID          string `arg:"" help:"The ID of the extraction to export."`
	Format      string `help:"The export format, table prints the reviews for reading." enum:"json,csv,table" default:"json"`
	Output      string `short:"o" help:"The file to write to, - for stdout." default:"-"`
	LogLevel    string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c ExportCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)
	rsc, err := newClient(log, c.ServerURL, c.SessionFile)
	if err != nil {
		return err
	}
	var w io.Writer = os.Stdout
	if c.Output != "-" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if c.Format != "table" {
		if err = rsc.ExtractionExport(ctx, c.ID, models.ExportFormat(c.Format), w); err != nil {
			return fmt.Errorf("failed to export extraction: %w", err)
		}
		log.Debug("extraction exported", slog.String("id", c.ID), slog.String("format", c.Format))
		return nil
	}

	buf := new(bytes.Buffer)
	if err = rsc.ExtractionExport(ctx, c.ID, models.ExportFormatJSON, buf); err != nil {
		return fmt.Errorf("failed to export extraction: %w", err)
	}
	var reviews []models.Review
	if err = json.Unmarshal(buf.Bytes(), &reviews); err != nil {
		return fmt.Errorf("failed to decode reviews: %w", err)
	}
	_, err = io.WriteString(w, formatReviews(reviews, 80))
	return err
}

var (
	authorStyle = lipgloss.NewStyle().Bold(true).Foreground(Pink)
	dateStyle   = lipgloss.NewStyle().Foreground(Comment)
)

func formatReviews(reviews []models.Review, width int) string {
	var sb strings.Builder
	if len(reviews) > 0 && reviews[0].ProductTitle != "" {
		sb.WriteString(headerStyle.Render(reviews[0].ProductTitle))
		sb.WriteString("\n\n")
	}
	for _, r := range reviews {
		sb.WriteString(authorStyle.Render(r.Author))
		if r.Rating != nil {
			sb.WriteString("  ")
			sb.WriteString(format.RatingStyled(*r.Rating))
		}
		if r.Date != "" {
			sb.WriteString("  ")
			sb.WriteString(dateStyle.Render(format.Date(r.Date)))
		}
		sb.WriteString("\n")
		for _, text := range []string{r.Text, labelled("+ ", r.Advantages), labelled("- ", r.Disadvantages)} {
			if text == "" {
				continue
			}
			sb.WriteString(wordwrap.String(strings.TrimSpace(text), width))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func labelled(prefix, s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return prefix + s
}

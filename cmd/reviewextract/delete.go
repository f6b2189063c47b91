package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/a-h/reviewextract/form"
)

type DeleteCommand struct {
	ServerURL   string `help:"The URL of the review server." env:"REVIEW_SERVER_URL" default:"http://localhost:5000"`
	SessionFile string `help:"The file containing a JSON map of server URLs to session cookies." env:"REVIEW_SESSION_FILE" default:""`
	ID          string `arg:"" help:"The ID of the extraction to delete."`
	Yes         bool   `short:"y" help:"Do not ask for confirmation." default:"false"`
	LogLevel    string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c DeleteCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)
	rsc, err := newClient(log, c.ServerURL, c.SessionFile)
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := form.Confirm(os.Stdin, os.Stderr, fmt.Sprintf("Delete extraction %s and all of its reviews?", c.ID))
		if err != nil {
			return err
		}
		if !ok {
			log.Info("delete cancelled", slog.String("id", c.ID))
			return nil
		}
	}
	if _, err = rsc.ExtractionDelete(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete extraction: %w", err)
	}
	log.Info("extraction deleted", slog.String("id", c.ID))
	return nil
}

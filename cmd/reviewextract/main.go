package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/a-h/reviewextract/auth"
	"github.com/a-h/reviewextract/client"
	"github.com/alecthomas/kong"
)

type CLI struct {
	Extract ExtractCommand `cmd:"extract" help:"Submit a product URL for review extraction."`
	Config  ConfigCommand  `cmd:"config" help:"Generate or test platform configs (admin)."`
	Delete  DeleteCommand  `cmd:"delete" help:"Delete an extraction and its reviews."`
	Export  ExportCommand  `cmd:"export" help:"Export the reviews of an extraction."`
	Summary SummaryCommand `cmd:"summary" help:"Summarise the reviews of an extraction."`
	Version VersionCommand `cmd:"version" help:"Print the version of the client."`
}

func main() {
	var cli CLI
	ctx := context.Background()
	kctx := kong.Parse(&cli, kong.UsageOnError(), kong.BindTo(ctx, (*context.Context)(nil)))
	if err := kctx.Run(); err != nil {
		log := getLogger("error")
		log.Error("error", slog.Any("error", err))
		os.Exit(1)
	}
}

func getLogger(level string) *slog.Logger {
	ll := slog.LevelInfo
	switch level {
	case "debug":
		ll = slog.LevelDebug
	case "info":
		ll = slog.LevelInfo
	case "warn":
		ll = slog.LevelWarn
	case "error":
		ll = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: ll,
	}))
}

// newClient creates a client using the session stored for serverURL in
// sessionFile. An empty sessionFile means no session.
func newClient(log *slog.Logger, serverURL, sessionFile string) (client.Client, error) {
	if sessionFile == "" {
		return client.New(serverURL, auth.Session{}), nil
	}
	sessions, err := auth.LoadFromFile(sessionFile)
	if err != nil {
		return client.Client{}, fmt.Errorf("failed to load sessions: %w", err)
	}
	session, ok := auth.ForServer(sessions, serverURL)
	if !ok {
		log.Warn("no session found for server, continuing without one", slog.String("url", serverURL))
	}
	return client.New(serverURL, session), nil
}

func readFileOrDefault(filename, defaultContent string) (string, error) {
	if filename == "" {
		return defaultContent, nil
	}
	contents, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return string(contents), nil
}

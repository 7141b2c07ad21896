package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tellerbank/teller/internal/browser"
	"github.com/tellerbank/teller/internal/config"
	"github.com/tellerbank/teller/internal/credstore"
	"github.com/tellerbank/teller/internal/session"
	"github.com/tellerbank/teller/internal/tui"
	"github.com/tellerbank/teller/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("teller " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "support":
			return openSite("support")
		case "terms":
			return openSite("terms")
		case "privacy":
			return openSite("privacy")
		case "logout":
			return runLogout(cfg)
		}
	}

	// The TUI owns stdout, so debug logs go to a file or nowhere.
	logger := slog.New(slog.DiscardHandler)
	if cfg.DebugLog != "" {
		f, err := os.OpenFile(cfg.DebugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close() //nolint:errcheck
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	creds := credstore.New(cfg.ConfigDir, cfg.Token)

	// The unauthorized hook closes over ctrl so a 401 on any request tears
	// the in-memory session down too. ctrl exists before the first request
	// can fire: nothing talks to the network until the program runs.
	var ctrl *session.Controller
	api := client.New(cfg.APIURL, creds,
		client.WithLogger(logger),
		client.WithUnauthorizedHook(func() {
			if ctrl != nil {
				ctrl.Invalidate()
			}
		}),
	)
	ctrl = session.New(api, creds)

	p := tea.NewProgram(tui.NewApp(ctrl, api), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runLogout(cfg config.Config) error {
	creds := credstore.New(cfg.ConfigDir, "")
	tok, err := creds.Token()
	if err != nil {
		return err
	}
	if tok == "" {
		fmt.Println("Already signed out.")
		return nil
	}
	if err := creds.Clear(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func openSite(page string) error {
	url := "https://tellerbank.app/" + page
	if err := browser.Open(url); err != nil {
		fmt.Println(url)
	}
	return nil
}

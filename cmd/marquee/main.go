package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/config"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/mmcdole/marquee/internal/movies"
	"github.com/mmcdole/marquee/internal/screen"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tmdb"
	"github.com/mmcdole/marquee/internal/tui"
	"github.com/mmcdole/marquee/internal/user"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion, ephemeral bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&ephemeral, "ephemeral", false, "keep favorites and preferences in memory only")
	flag.Parse()

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if err := run(ephemeral); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ephemeral bool) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if ephemeral {
		cfg.Ephemeral()
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee", "version", Version, "ephemeral", ephemeral)

	// Check if configured
	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg, !ephemeral); err != nil {
			return err
		}
	}

	// Remote catalog
	client, err := tmdb.NewClient(tmdb.Options{
		BaseURL:  cfg.TMDB.BaseURL,
		APIKey:   cfg.TMDB.APIKey,
		Language: cfg.TMDB.Language,
		Page:     cfg.TMDB.Page,
		Timeout:  cfg.TMDB.Timeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}
	movieRepo := movies.NewRepository(client, cfg.TMDB.ImageBaseURL, logger)

	// Local storage
	favorites, err := store.OpenFavorites(cfg.Storage.DataDir, logger)
	if err != nil {
		return fmt.Errorf("failed to open favorites: %w", err)
	}
	defer favorites.Close()

	prefs, err := store.OpenPreferences(cfg.Storage.DataDir, logger)
	if err != nil {
		return fmt.Errorf("failed to open preferences: %w", err)
	}
	defer prefs.Close()

	picDir, cleanup, err := picturesDir(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	defer cleanup()
	userRepo := user.NewRepository(favorites, prefs, picDir, logger)

	// Screens live as long as the program
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	screens := tui.Screens{
		Discover:  screen.NewDiscover(ctx, movieRepo, cfg.UI.RankSearchResults, logger),
		Details:   screen.NewDetails(ctx, movieRepo, userRepo, logger),
		Favorites: screen.NewFavorites(ctx, movieRepo, userRepo, cfg.Favorites.LookupDelay, logger),
		Profile:   screen.NewProfile(ctx, userRepo, logger),
	}
	defer func() {
		screens.Discover.Close()
		screens.Details.Close()
		screens.Favorites.Close()
		screens.Profile.Close()
	}()

	// Run the TUI
	p := tea.NewProgram(
		tui.NewModel(ctx, screens, logger),
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// picturesDir returns where imported pictures go. Without a data directory
// a temporary one is used and removed by cleanup.
func picturesDir(dataDir string) (string, func(), error) {
	if dataDir != "" {
		return filepath.Join(dataDir, "pictures"), func() {}, nil
	}
	dir, err := os.MkdirTemp("", "marquee-pictures-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create pictures directory: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

// runSetupFlow asks for the TMDB API key and optionally saves it
func runSetupFlow(cfg *config.Config, save bool) error {
	fmt.Println()
	fmt.Println("Welcome to Marquee!")
	fmt.Println()
	fmt.Println("Marquee needs a TMDB API key: https://www.themoviedb.org/settings/api")
	fmt.Println()

	for {
		fmt.Print("Enter your TMDB API key: ")
		apiKey, err := readSecret()
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if apiKey == "" {
			fmt.Println("API key cannot be empty. Please try again.")
			continue
		}

		cfg.TMDB.APIKey = apiKey
		break
	}

	if !save {
		return nil
	}
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}

// readSecret reads a line without echo when stdin is a terminal
func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		return strings.TrimSpace(string(b)), err
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"relaychat/internal/logger"
)

const (
	defaultTitle     = "Explicit Intent"
	defaultCharLimit = 4000
	maxCharLimit     = 20000
)

type appConfig struct {
	title     string
	charLimit int
	altScreen bool
	mouse     bool
	themeFile string
	logFile   string
	logLevel  string
}

func parseFlags(args []string, stderr io.Writer) (appConfig, error) {
	fs := flag.NewFlagSet("relaychat-tui", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := appConfig{}
	fs.StringVar(&cfg.title, "title", envOr("RELAYCHAT_TITLE", defaultTitle), "Header title")
	fs.IntVar(&cfg.charLimit, "char-limit", envOrInt("RELAYCHAT_CHAR_LIMIT", defaultCharLimit), "Character limit for message and reply inputs")
	fs.BoolVar(&cfg.altScreen, "alt-screen", envOrBool("RELAYCHAT_ALT_SCREEN", true), "Use alternate screen buffer")
	fs.BoolVar(&cfg.mouse, "mouse", envOrBool("RELAYCHAT_MOUSE", true), "Scroll the chat history with the mouse wheel")
	fs.StringVar(&cfg.themeFile, "theme", envOr("RELAYCHAT_THEME", ""), "Optional YAML palette file")
	fs.StringVar(&cfg.logFile, "log-file", envOr("RELAYCHAT_LOG_FILE", ""), "Log file path (logging is off when empty)")
	fs.StringVar(&cfg.logLevel, "log-level", envOr("RELAYCHAT_LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")
	if err := fs.Parse(args); err != nil {
		return appConfig{}, err
	}

	cfg.title = nullCoalesce(strings.TrimSpace(cfg.title), defaultTitle)
	cfg.charLimit = clampInt(cfg.charLimit, 1, maxCharLimit)
	cfg.logLevel = strings.ToLower(strings.TrimSpace(cfg.logLevel))
	return cfg, nil
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if value == "" {
		return fallback
	}
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func programOptions(cfg appConfig) []tea.ProgramOption {
	var opts []tea.ProgramOption
	if cfg.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return opts
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run returns the process exit code. The logger is closed before it returns
// on every path past Init.
func run(args []string, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}
	if err := logger.Init(logger.Config{File: cfg.logFile, Level: cfg.logLevel}); err != nil {
		fmt.Fprintf(stderr, "relaychat-tui: %v\n", err)
		return 1
	}
	defer logger.Close()

	pal, err := loadPalette(cfg.themeFile)
	if err != nil {
		logger.Error("load theme", "err", err)
		fmt.Fprintf(stderr, "relaychat-tui: %v\n", err)
		return 1
	}

	logger.Info("starting", "title", cfg.title, "theme", cfg.themeFile)
	p := tea.NewProgram(newModel(cfg, newTheme(pal)), programOptions(cfg)...)
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Fprintf(stderr, "relaychat-tui fatal error: %v\n", err)
		return 1
	}
	return 0
}

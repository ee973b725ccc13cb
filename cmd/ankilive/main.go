package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ankilive/ankilive/internal/config"
	"github.com/ankilive/ankilive/internal/mcp"
	"github.com/ankilive/ankilive/internal/repo"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"run": true, "add": true, "list": true, "show": true,
	"remove": true, "export": true, "purge": true, "web": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
     _         _    _ _     _
    / \   _ __| | _(_) |   (_)_   _____
   / _ \ | '_ \ |/ / | |   | \ \ / / _ \
  / ___ \| | | |   <| | |___| |\ V /  __/
 /_/   \_\_| |_|_|\_\_|_____|_| \_/ \___|

  Capture lecture slides into Anki flashcards

  Usage: ankilive <command> [options]
         ankilive run        start the capture daemon
         ankilive --help

  MCP server mode requires piped input.`)
}

// resolveCardsDir resolves the configured cards directory against
// baseDir. ANKILIVE_CARDS_DIR overrides the config for one invocation.
func resolveCardsDir(baseDir string, cfg *config.Config) string {
	if env := os.Getenv("ANKILIVE_CARDS_DIR"); env != "" {
		return env
	}
	if filepath.IsAbs(cfg.CardsDir) {
		return cfg.CardsDir
	}
	return filepath.Join(baseDir, cfg.CardsDir)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before touching the card store
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".ankilive")

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	r, err := repo.New(resolveCardsDir(baseDir, cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize card store: %v\n", err)
		os.Exit(1)
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(r, cfg)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'ankilive --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(r, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

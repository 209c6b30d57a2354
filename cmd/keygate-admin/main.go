// ABOUTME: Admin CLI for keygate API key management
// ABOUTME: Opens the SQLite store directly; run it on the host that serves keygate

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/2389/keygate/internal/config"
	"github.com/2389/keygate/internal/store"
)

const banner = `
 _                          _                       _           _
| | _____ _   _  __ _  __ _| |_ ___        __ _  __| |_ __ ___ (_)_ __
| |/ / _ \ | | |/ _' |/ _' | __/ _ \_____ / _' |/ _' | '_ ' _ \| | '_ \
|   <  __/ |_| | (_| | (_| | ||  __/_____| (_| | (_| | | | | | | | | | |
|_|\_\___|\__, |\__, |\__,_|\__\___|      \__,_|\__,_|_| |_| |_|_|_| |_|
          |___/ |___/
`

func main() {
	// The store logs through slog.Default; keep it out of table output.
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "keys":
		err = cmdKeys(args)
	case "events":
		err = cmdEvents(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: keygate-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  keys                    List API keys (values redacted)")
	fmt.Println("  keys list               List API keys (values redacted)")
	fmt.Println("  keys add [VALUE]        Add an API key; generates one if VALUE is omitted")
	fmt.Println("  keys revoke <id>        Revoke an API key by ID")
	fmt.Println("  events                  Show the key management audit log")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  KEYGATE_DB_PATH         SQLite database path (overrides config)")
	fmt.Println("  KEYGATE_CONFIG          Config file path (default: ~/.config/keygate/keygate.yaml)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  keygate-admin keys")
	fmt.Println("  keygate-admin keys add")
	fmt.Println("  keygate-admin keys add my-shared-secret")
	fmt.Println("  keygate-admin keys revoke 2")
	fmt.Println("  keygate-admin events --limit 20")
	fmt.Println()
}

// getConfigPath returns the path to the keygate config file.
// Priority: KEYGATE_CONFIG env var > XDG_CONFIG_HOME/keygate/keygate.yaml > ~/.config/keygate/keygate.yaml
func getConfigPath() string {
	if envPath := os.Getenv("KEYGATE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "keygate.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "keygate", "keygate.yaml")
}

// openStore opens the same database the server uses.
// KEYGATE_DB_PATH takes precedence for Docker deployments.
func openStore() (*store.SQLiteStore, error) {
	dbPath := os.Getenv("KEYGATE_DB_PATH")
	if dbPath == "" {
		cfg, err := config.LoadOrDefault(getConfigPath())
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		dbPath = cfg.Database.Path
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return s, nil
}

// cmdKeys handles keys subcommands
func cmdKeys(args []string) error {
	// Default to list
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "list", "ls":
		return cmdKeysList()
	case "add", "create":
		return cmdKeysAdd(args)
	case "revoke", "rm", "remove", "delete":
		return cmdKeysRevoke(args)
	default:
		return fmt.Errorf("unknown keys subcommand: %s (use list, add, revoke)", subcmd)
	}
}

// cmdKeysList lists all keys with values redacted
func cmdKeysList() error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	keys, err := s.ListKeys(context.Background())
	if err != nil {
		return fmt.Errorf("ListKeys: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  API Keys")
	cyan.Println("  --------")

	if len(keys) == 0 {
		fmt.Println("  (no keys)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tKEY")
	fmt.Fprintln(w, "  --\t---")

	for _, k := range keys {
		fmt.Fprintf(w, "  %d\t%s\n", k.ID, store.RedactKey(k.Key))
	}
	w.Flush()
	fmt.Println()

	return nil
}

// cmdKeysAdd stores an operator-provided key, or generates one if no value is given
func cmdKeysAdd(args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	var key *store.APIKey
	var value string
	source := "provided"

	if len(args) > 0 {
		value = args[0]
		key, err = s.AddKey(ctx, value)
		if err != nil {
			return fmt.Errorf("AddKey: %w", err)
		}
	} else {
		source = "generated"
		key, value, err = s.GenerateKey(ctx)
		if err != nil {
			return fmt.Errorf("GenerateKey: %w", err)
		}
	}

	event := &store.KeyEvent{
		Action: store.KeyEventAdd,
		KeyID:  &key.ID,
		Actor:  store.ActorAdminCLI,
		Detail: map[string]any{"source": source},
	}
	if err := s.AppendKeyEvent(ctx, event); err != nil {
		return fmt.Errorf("recording key event: %w", err)
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	green.Printf("✓ Added key: %d\n", key.ID)
	if source == "generated" {
		fmt.Print("  Value: ")
		cyan.Println(value)
		color.Yellow("  Store it now. It will not be shown again.")
	}

	return nil
}

// cmdKeysRevoke deletes a key by id
func cmdKeysRevoke(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: keys revoke <id>")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid key id %q: %w", args[0], err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	if err := s.RevokeKey(ctx, id); err != nil {
		return fmt.Errorf("RevokeKey: %w", err)
	}

	event := &store.KeyEvent{
		Action: store.KeyEventRevoke,
		KeyID:  &id,
		Actor:  store.ActorAdminCLI,
	}
	if err := s.AppendKeyEvent(ctx, event); err != nil {
		return fmt.Errorf("recording key event: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Revoked key: %d\n", id)

	return nil
}

// cmdEvents shows the audit log, newest first
func cmdEvents(args []string) error {
	limit := 50

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--limit", "-n":
			if i+1 < len(args) {
				n, err := strconv.Atoi(args[i+1])
				if err != nil {
					return fmt.Errorf("invalid limit: %w", err)
				}
				limit = n
				i++
			}
		}
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	events, err := s.ListKeyEvents(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("ListKeyEvents: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Key Events")
	cyan.Println("  ----------")

	if len(events) == 0 {
		fmt.Println("  (no events)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  TIME\tACTION\tKEY\tACTOR")
	fmt.Fprintln(w, "  ----\t------\t---\t-----")

	for _, e := range events {
		keyID := "-"
		if e.KeyID != nil {
			keyID = strconv.FormatInt(*e.KeyID, 10)
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("Jan 02 15:04"),
			e.Action,
			keyID,
			e.Actor,
		)
	}
	w.Flush()
	fmt.Println()

	return nil
}

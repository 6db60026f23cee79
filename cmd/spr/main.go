// Package main provides the CLI entrypoint for spr.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/spr/internal/config"
	"github.com/verte-zerg/spr/internal/history"
	"github.com/verte-zerg/spr/internal/model"
	"github.com/verte-zerg/spr/internal/source"
	"github.com/verte-zerg/spr/internal/store"
	"github.com/verte-zerg/spr/internal/tui"
)

var (
	readWPM            int
	readSkip           int
	readORP            bool
	readORPMode        string
	readPausePunct     bool
	readPauseParagraph bool
	readWarmup         bool
	readTitle          string
	readClipboard      bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "spr [file|-]",
		Short:         "Terminal speed reader",
		Long:          "Read text one word at a time. Without input, the last text is resumed.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReadCmd,
	}

	addReaderFlags(rootCmd)
	rootCmd.Flags().StringVar(&readTitle, "title", "", "title stored in history (default: first line)")
	rootCmd.Flags().BoolVar(&readClipboard, "clipboard", false, "read text from the clipboard")

	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addReaderFlags(cmd *cobra.Command) {
	def := model.DefaultSettings()
	cmd.Flags().IntVar(&readWPM, "wpm", def.WPM, "words per minute")
	cmd.Flags().IntVar(&readSkip, "skip", def.SkipSize, "words moved by shift+left/right")
	cmd.Flags().BoolVar(&readORP, "orp", def.ORPEnabled, "highlight the optimal recognition point")
	cmd.Flags().StringVar(&readORPMode, "orp-mode", string(def.ORPMode), "recognition point position: short, medium or long")
	cmd.Flags().BoolVar(&readPausePunct, "pause-punct", def.PauseOnPunctuation, "pause longer after punctuation")
	cmd.Flags().BoolVar(&readPauseParagraph, "pause-paragraph", def.PauseOnParagraph, "pause longer before a new paragraph")
	cmd.Flags().BoolVar(&readWarmup, "warmup", def.WarmupEnabled, "count down before playback starts")
}

func runReadCmd(cmd *cobra.Command, args []string) error {
	if readClipboard && len(args) > 0 {
		return fmt.Errorf("--clipboard cannot be combined with a file argument")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	settings, err := loadSettings(ctx, cmd, st)
	if err != nil {
		return err
	}

	opts := tui.Options{
		Store:        st,
		Settings:     settings,
		Title:        readTitle,
		SaveSettings: true,
		Clipboard:    source.Clipboard,
	}

	var text string
	switch {
	case readClipboard:
		text, err = source.Clipboard()
	case len(args) == 1:
		text, err = source.LoadText(args[0])
		if err == nil && readTitle == "" && args[0] != source.Stdin {
			opts.Title = filepath.Base(args[0])
		}
	}
	if err != nil {
		return fmt.Errorf("failed to load text: %w", err)
	}

	if text != "" {
		opts.Text = text
		items, err := st.LoadHistory(ctx)
		if err != nil {
			logErrf("failed to load history: %v\n", err)
		}
		if item, ok := history.FindText(items, text); ok {
			opts.Item = &item
			opts.InitialIndex = item.LastIndex
		}
	} else {
		item, index, ok, err := activeItem(ctx, st)
		if err != nil {
			logErrf("failed to load session: %v\n", err)
		}
		if ok {
			opts.Item = &item
			opts.InitialIndex = index
		}
	}

	return runReader(opts)
}

func runReader(opts tui.Options) error {
	reader := tui.NewModel(opts)
	program := tea.NewProgram(reader, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run reader: %w", err)
	}
	return nil
}

// activeItem resolves the session pointer to its history item.
func activeItem(ctx context.Context, st *store.Store) (model.HistoryItem, int, bool, error) {
	session, err := st.LoadSession(ctx)
	if err != nil {
		return model.HistoryItem{}, 0, false, err
	}
	if session.ActiveID == "" {
		return model.HistoryItem{}, 0, false, nil
	}
	item, ok, err := st.GetHistoryItem(ctx, session.ActiveID)
	if err != nil || !ok {
		return model.HistoryItem{}, 0, false, err
	}
	return item, session.ActiveIndex, true, nil
}

// loadSettings layers stored settings, the config file and changed flags.
func loadSettings(ctx context.Context, cmd *cobra.Command, st *store.Store) (model.Settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	settings, err := st.LoadSettings(ctx)
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	settings = fileCfg.Apply(settings)
	return applyReaderFlags(cmd, settings)
}

func applyReaderFlags(cmd *cobra.Command, settings model.Settings) (model.Settings, error) {
	if cmd.Flags().Lookup("wpm") == nil {
		return settings, nil
	}
	applyIntFlag(cmd, "wpm", &settings.WPM, readWPM)
	applyIntFlag(cmd, "skip", &settings.SkipSize, readSkip)
	applyBoolFlag(cmd, "orp", &settings.ORPEnabled, readORP)
	applyBoolFlag(cmd, "pause-punct", &settings.PauseOnPunctuation, readPausePunct)
	applyBoolFlag(cmd, "pause-paragraph", &settings.PauseOnParagraph, readPauseParagraph)
	applyBoolFlag(cmd, "warmup", &settings.WarmupEnabled, readWarmup)
	if cmd.Flags().Changed("orp-mode") {
		mode := model.OrpMode(strings.ToLower(strings.TrimSpace(readORPMode)))
		if !mode.Valid() {
			return settings, fmt.Errorf("--orp-mode must be short, medium or long")
		}
		settings.ORPMode = mode
	}
	if cmd.Flags().Changed("skip") && readSkip <= 0 {
		return settings, fmt.Errorf("--skip must be > 0")
	}
	return settings.Normalize(), nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

// loadInput reads a file argument, or the active text when there is none.
func loadInput(ctx context.Context, st *store.Store, args []string) (string, string, error) {
	if len(args) == 1 {
		text, err := source.LoadText(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to load text: %w", err)
		}
		title := filepath.Base(args[0])
		if args[0] == source.Stdin {
			title = history.DeriveTitle(text)
		}
		return text, title, nil
	}
	item, _, ok, err := activeItem(ctx, st)
	if err != nil {
		return "", "", fmt.Errorf("failed to load session: %w", err)
	}
	if !ok {
		return "", "", errors.New("no input given and no text to resume")
	}
	return item.Text, item.Title, nil
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyBoolFlag(cmd *cobra.Command, name string, target *bool, value bool) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

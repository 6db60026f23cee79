package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/spr/internal/history"
	"github.com/verte-zerg/spr/internal/historyui"
	"github.com/verte-zerg/spr/internal/model"
	"github.com/verte-zerg/spr/internal/source"
	"github.com/verte-zerg/spr/internal/stats"
	"github.com/verte-zerg/spr/internal/tui"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

var (
	exportFormat string
	exportOutput string
)

func newHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved texts",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print saved texts",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write saved texts as yaml or json",
		Args:  cobra.NoArgs,
		RunE:  runHistoryExportCmd,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", formatYAML, "output format: yaml or json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	importCmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Merge texts from a yaml or json export",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryImportCmd,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all saved texts",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClearCmd,
	}

	historyCmd.AddCommand(listCmd, exportCmd, importCmd, clearCmd)
	return historyCmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
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

	browser := historyui.NewModel(st, settings)
	program := tea.NewProgram(browser, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history: %w", err)
	}
	item, ok := browser.Selected()
	if !ok {
		return nil
	}
	return runReader(tui.Options{
		Store:        st,
		Settings:     settings,
		Item:         &item,
		InitialIndex: item.LastIndex,
		SaveSettings: true,
		Clipboard:    source.Clipboard,
	})
}

func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
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
	items, err := st.LoadHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return stats.RenderHistory(cmd.OutOrStdout(), items, settings)
}

func runHistoryExportCmd(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(strings.TrimSpace(exportFormat))
	if format != formatYAML && format != formatJSON {
		return fmt.Errorf("--format must be yaml or json")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	items, err := st.LoadHistory(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if exportOutput == "" {
		return writeHistory(cmd.OutOrStdout(), items, format)
	}
	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := writeHistory(f, items, format); err != nil {
		if cerr := f.Close(); cerr != nil {
			_ = cerr
		}
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	return nil
}

func runHistoryImportCmd(cmd *cobra.Command, args []string) error {
	data, err := readImport(args[0])
	if err != nil {
		return err
	}
	incoming, err := parseHistory(data, importFormat(args[0]))
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	items, err := st.LoadHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	imported := 0
	for _, item := range incoming {
		if strings.TrimSpace(item.ID) == "" || strings.TrimSpace(item.Text) == "" {
			continue
		}
		if item.Title == "" {
			item.Title = history.DeriveTitle(item.Text)
		}
		items = history.Upsert(items, item)
		imported++
	}
	if err := st.SaveHistory(ctx, items); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d texts.\n", imported)
	return err
}

func runHistoryClearCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	if err := st.ClearHistory(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	if err := st.SaveSession(ctx, model.Session{}); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	return err
}

// writeHistory encodes items; an empty history is written as an empty list.
func writeHistory(w io.Writer, items []model.HistoryItem, format string) error {
	if items == nil {
		items = []model.HistoryItem{}
	}
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
}

func parseHistory(data []byte, format string) ([]model.HistoryItem, error) {
	var items []model.HistoryItem
	switch format {
	case formatJSON:
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	}
	return items, nil
}

func importFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return formatJSON
	}
	return formatYAML
}

func readImport(path string) ([]byte, error) {
	if path == source.Stdin {
		return readImportFrom(os.Stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			_ = cerr
		}
	}()
	return readImportFrom(file)
}

func readImportFrom(r io.Reader) ([]byte, error) {
	data, err := source.ReadBytes(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import: %w", err)
	}
	return data, nil
}

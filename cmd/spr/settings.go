package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/spr/internal/config"
	"github.com/verte-zerg/spr/internal/stats"
	"github.com/verte-zerg/spr/internal/tokenize"
)

func newStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats [file|-]",
		Short: "Show counts and reading time for a text",
		Long:  "Show counts and reading time for a text. Without input, the last text is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStatsCmd,
	}
	addReaderFlags(statsCmd)
	return statsCmd
}

func runStatsCmd(cmd *cobra.Command, args []string) error {
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
	text, title, err := loadInput(ctx, st, args)
	if err != nil {
		return err
	}
	tokens := tokenize.Tokenize(text)
	return stats.RenderReport(cmd.OutOrStdout(), title, tokens, settings, stats.TerminalWidth())
}

func newSettingsCmd() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or reset saved settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print effective settings as toml",
		Args:  cobra.NoArgs,
		RunE:  runSettingsShowCmd,
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore default settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsResetCmd,
	}

	settingsCmd.AddCommand(showCmd, resetCmd)
	return settingsCmd
}

func runSettingsShowCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	settings, err := loadSettings(context.Background(), cmd, st)
	if err != nil {
		return err
	}
	if err := config.FromSettings(settings).Encode(cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return nil
}

func runSettingsResetCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.ResetSettings(context.Background()); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Settings reset to defaults.")
	return err
}

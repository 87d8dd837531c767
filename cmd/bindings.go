package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/datasync/keymarker/internal/config"
	"github.com/datasync/keymarker/internal/paths"
	"github.com/datasync/keymarker/internal/presentation"
)

var bindingsWrite bool

var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "Print the chord table as JSON",
	Long: `Print the configured key bindings as JSON, with the timings that
decide between single keys and chords. Keys marked "prefix" wait for the
debounce window before sending because they also start a chord.

Examples:
  keymarker bindings
  keymarker bindings | jq '.bindings[] | select(.prefix)'

  # Copy the effective bindings into the config file for editing
  keymarker bindings --write`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		table, err := cfg.Table()
		if err != nil {
			return fmt.Errorf("invalid bindings: %w", err)
		}

		if bindingsWrite {
			path := viper.ConfigFileUsed()
			if path == "" {
				path = paths.LocalConfigFile()
			}
			entries := cfg.Bindings
			if len(entries) == 0 {
				entries = config.DefaultBindings()
			}
			if err := config.SaveBindings(path, entries); err != nil {
				return fmt.Errorf("saving bindings: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d bindings to %s\n", len(entries), path)
		}

		return presentation.NewFormatter(cmd.OutOrStdout()).FormatBindings(presentation.BindingsDTO{
			SequenceTimeout: cfg.SequenceTimeout.String(),
			DebounceWindow:  cfg.DebounceWindow.String(),
			Bindings:        presentation.FromTable(table, cfg.PromptQuestions()),
		})
	},
}

func init() {
	bindingsCmd.Flags().BoolVarP(&bindingsWrite, "write", "w", false, "write the effective bindings into the config file")
	rootCmd.AddCommand(bindingsCmd)
}

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datasync/keymarker/internal/infrastructure/sqlite"
	"github.com/datasync/keymarker/internal/presentation"
	"github.com/datasync/keymarker/internal/sessions"
	"github.com/datasync/keymarker/internal/sessions/domain"
)

var markersSession string

var markersCmd = &cobra.Command{
	Use:   "markers",
	Short: "Print the markers of a recorded session as JSON",
	Long: `Print a recorded session and its markers as JSON. Undo markers stay in
the list; the event markers they cancel are flagged "undone" and left out of
"effective".

Examples:
  # Latest session
  keymarker markers

  # A specific session
  keymarker markers --session 1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed

  keymarker markers | jq -r '.effective[]'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbPath := cfg.RecorderPath()
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("no recordings at %s: %w", dbPath, err)
		}

		db, err := sqlite.NewDB(dbPath)
		if err != nil {
			return fmt.Errorf("opening marker database: %w", err)
		}
		defer func() { _ = db.Close() }()

		timeline, err := sessions.LoadTimeline(cmd.Context(), db.SessionRepository(), db.MarkerRepository(), markersSession)
		if errors.Is(err, domain.ErrSessionNotFound) && markersSession == "" {
			return errors.New("no recorded sessions yet")
		}
		if err != nil {
			return err
		}

		return presentation.NewFormatter(cmd.OutOrStdout()).FormatTimeline(presentation.FromTimeline(timeline))
	},
}

func init() {
	markersCmd.Flags().StringVarP(&markersSession, "session", "s", "", "session GUID (default: latest)")
	rootCmd.AddCommand(markersCmd)
}

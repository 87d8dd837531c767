package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/datasync/keymarker/internal/disambiguator"
	"github.com/datasync/keymarker/internal/replay"
)

var replayRecord bool

var replayCmd = &cobra.Command{
	Use:   "replay SCRIPT",
	Short: "Play a YAML key script without the console",
	Long: `Play a scripted key sequence through the same disambiguator the console
uses. Each marker prints as "Sent marker: <name> (<detail>)" and each undo
as "UNDOING: <name> (sent UNDO_<name>)" with the undo count. Undo
exhaustion and the history view go to stderr.

Script format:
  steps:
    - key: b
    - wait: 400ms
    - key: a
    - wait: 50ms
    - special: quit
  answers: [Reading]

The source stays open for sequence_timeout after the last step so a prompt
opened by the final keys can still be answered.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replayRecord, "record", false, "store the replayed markers in the marker database")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cleanupLog, err := initLogging("keymarker-replay")
	if err != nil {
		return err
	}
	defer cleanupLog()

	script, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	runCfg := cfg
	runCfg.Recorder.Enabled = cfg.Recorder.Enabled && replayRecord
	sess, err := openSession(ctx, runCfg)
	if err != nil {
		return err
	}

	transcript := disambiguator.NewTranscript(cmd.OutOrStdout(), cmd.ErrOrStderr())
	player := replay.NewPlayer(script, replay.WithTrailingWait(runCfg.SequenceTimeout))
	d := disambiguator.New(runCfg.Disambiguator(), sess.table, sess.emitter, player,
		disambiguator.WithNotices(sess.notices),
		disambiguator.WithObserver(transcript.Write))

	player.Start(ctx)
	runErr := d.Run(ctx, player)
	player.Stop()

	closeErr := sess.close(context.Background(), runErr)
	if runErr != nil {
		return runErr
	}
	return closeErr
}

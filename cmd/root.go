package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/datasync/keymarker/internal/config"
	"github.com/datasync/keymarker/internal/disambiguator"
	"github.com/datasync/keymarker/internal/log"
	"github.com/datasync/keymarker/internal/paths"
	"github.com/datasync/keymarker/internal/ui/console"
)

func init() {
	// Query the terminal background before Bubble Tea owns stdin so the
	// OSC 11 reply is not read as typed keys.
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "keymarker",
	Short: "Send session markers from single keys and two-key chords",
	Long: `keymarker turns keystrokes into named markers for tagging a recorded
session. Single keys send a marker at once; keys that also start a two-key
chord wait briefly for the second key. Markers can be undone, reviewed with
F1, and labeled with a free-text prompt.`,
	Version:       version,
	SilenceUsage:  true,
	RunE:          runApp,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return cfg.Validate()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .keymarker/config.yaml, then ~/.config/keymarker/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (path from KEYMARKER_LOG, default debug.log)")
}

func initConfig() {
	loaded, path, err := loadConfig(viper.GetViper(), cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config %s: %v\n", path, err)
	}
	cfg = loaded
}

// loadConfig resolves the config file, writing the default one when none
// exists, and unmarshals it over the defaults.
func loadConfig(v *viper.Viper, explicit string) (config.Config, string, error) {
	config.SetViperDefaults(v)

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else if _, err := os.Stat(paths.LocalConfigFile()); err == nil {
		v.SetConfigFile(paths.LocalConfigFile())
	} else {
		v.AddConfigPath(paths.ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	var readErr error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			defaultPath := filepath.Join(paths.ConfigDir(), "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				v.SetConfigFile(defaultPath)
				readErr = v.ReadInConfig()
			}
			// A failed write leaves the built-in defaults in place.
		} else {
			readErr = err
		}
	}

	loaded := config.Defaults()
	if err := v.Unmarshal(&loaded); err != nil && readErr == nil {
		readErr = err
	}
	return loaded, v.ConfigFileUsed(), readErr
}

// initLogging enables the file logger when --debug or KEYMARKER_DEBUG is
// set. The returned cleanup is never nil.
func initLogging(prefix string) (func(), error) {
	if !debugFlag && os.Getenv("KEYMARKER_DEBUG") == "" {
		return func() {}, nil
	}
	logPath := os.Getenv("KEYMARKER_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "keymarker starting", "version", version, "config", viper.ConfigFileUsed(), "logPath", logPath)
	return cleanup, nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	cleanupLog, err := initLogging("keymarker")
	if err != nil {
		return err
	}
	defer cleanupLog()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}

	bridge := console.NewBridge()
	d := disambiguator.New(cfg.Disambiguator(), sess.table, sess.emitter, bridge,
		disambiguator.WithNotices(sess.notices))

	model := console.New(ctx, console.Options{
		Bridge:   bridge,
		Notices:  sess.notices,
		Feed:     sess.feed,
		Labels:   sess.labels,
		Flags:    sess.flags,
		Prompts:  cfg.PromptQuestions(),
		FeedSize: cfg.UI.LogLines,
		Debug:    debugFlag || os.Getenv("KEYMARKER_DEBUG") != "",
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	runErr := make(chan error, 1)
	go func() {
		err := d.Run(ctx, bridge)
		runErr <- err
		p.Quit()
	}()

	_, uiErr := p.Run()
	// The UI can exit first on ctrl+c; end the key source so Run returns.
	bridge.Close(uiErr)
	loopErr := <-runErr
	cancel()

	closeErr := sess.close(context.Background(), loopErr)
	switch {
	case uiErr != nil:
		return fmt.Errorf("running program: %w", uiErr)
	case loopErr != nil && !errors.Is(loopErr, context.Canceled):
		return loopErr
	default:
		return closeErr
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

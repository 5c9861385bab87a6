// Package cli implements the recordio command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmikh/recordio-sub002/internal/config"
	"github.com/jmikh/recordio-sub002/internal/director"
	"github.com/jmikh/recordio-sub002/internal/engine"
	"github.com/jmikh/recordio-sub002/internal/geom"
	"github.com/jmikh/recordio-sub002/internal/logging"
	"github.com/jmikh/recordio-sub002/internal/system"
)

const (
	sessionsDir  = "input/sessions"
	framesDir    = "input/frames"
	schedulesDir = "output/schedules"
)

var (
	cfgFile    string
	verbose    bool
	scheduleIn string
)

var rootCmd = &cobra.Command{
	Use:   "recordio",
	Short: "Automatic zoom and camera choreography for screen recordings",
	Long: `recordio turns a screen recording's event stream into a zoom schedule:
it finds the moments worth looking at, plans eased zoom-ins and zoom-outs
around them, and answers per-frame viewport and camera queries.

Sessions default to the newest JSON file in input/sessions/.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Verbose = true
		}
		logging.Init(cfg.Verbose)
		cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml or ~/.recordio/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(previewCmd)
}

// loadEngine resolves the session path (args[0] or the newest session),
// loads it and runs one regeneration.
func loadEngine(cmd *cobra.Command, args []string) (*engine.Engine, *engine.Snapshot, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		latest, err := system.FindLatestSession(sessionsDir)
		if err != nil {
			return nil, nil, fmt.Errorf("no session given and none found: %w", err)
		}
		path = latest
	}

	session, err := engine.LoadSession(path)
	if err != nil {
		return nil, nil, err
	}

	cfg := config.FromContext(cmd.Context())
	if scheduleIn != "" {
		if err := useSavedSchedule(session, cfg, scheduleIn); err != nil {
			return nil, nil, err
		}
	}

	eng := engine.New(cfg, logging.NewLogger())
	snap, err := eng.Regenerate(session)
	if err != nil {
		return nil, nil, err
	}
	return eng, snap, nil
}

// useSavedSchedule replaces the session's auto zoom with the actions of a
// schedule file. "latest" picks the newest file in output/schedules.
func useSavedSchedule(s *engine.Session, cfg *config.Config, path string) error {
	if path == "latest" {
		latest, err := director.FindLatestSchedule(schedulesDir)
		if err != nil {
			return err
		}
		path = latest
	}

	saved, err := director.ReadSchedule(path)
	if err != nil {
		return err
	}
	output := geom.Size{Width: float64(cfg.Output.Width), Height: float64(cfg.Output.Height)}
	if !saved.Output.Empty() && saved.Output != output {
		return fmt.Errorf("schedule %s was made for a %vx%v output, config is %vx%v",
			path, saved.Output.Width, saved.Output.Height, output.Width, output.Height)
	}

	zoom := cfg.Zoom
	if s.Zoom != nil {
		zoom = *s.Zoom
	}
	zoom.IsAuto = false
	s.Zoom = &zoom
	s.ManualActions = saved.Actions

	logger := logging.WithComponent("cli")
	logger.Debug().
		Str("path", path).
		Int("actions", len(saved.Actions)).
		Msg("using saved schedule")
	return nil
}

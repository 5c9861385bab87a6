package cli

import (
	"github.com/spf13/cobra"

	"github.com/jmikh/recordio-sub002/internal/director"
	"github.com/jmikh/recordio-sub002/internal/logging"
)

var scheduleOut string

var scheduleCmd = &cobra.Command{
	Use:   "schedule [session.json]",
	Short: "Generate and save the zoom schedule for a session",
	Long: `Extracts focus areas from the session's events, schedules zoom actions
and writes them as YAML, or JSON when --out ends in .json. Without --out the
schedule goes to a timestamped file in output/schedules/.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, snap, err := loadEngine(cmd, args)
		if err != nil {
			return err
		}

		out := scheduleOut
		if out == "" {
			out = director.GenerateSchedulePath(schedulesDir)
		}
		if err := director.WriteSchedule(snap.Schedule, out); err != nil {
			return err
		}

		logger := logging.WithComponent("cli")
		logger.Info().
			Str("path", out).
			Int("actions", len(snap.Schedule.Actions)).
			Msg("schedule saved")
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVarP(&scheduleOut, "out", "o", "", "output path (.yaml or .json)")
}

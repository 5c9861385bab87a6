package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmikh/recordio-sub002/internal/config"
	"github.com/jmikh/recordio-sub002/internal/system"
)

var (
	sampleFPS     int
	sampleWorkers int
	sampleStats   bool
)

var sampleCmd = &cobra.Command{
	Use:   "sample [session.json]",
	Short: "Print the viewport and camera state of every output frame",
	Long: `Regenerates the schedule and evaluates every frame at --fps in parallel,
printing one JSON object per line. --schedule replays a saved schedule
instead. --stats appends a host resource report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := loadEngine(cmd, args)
		if err != nil {
			return err
		}

		cfg := config.FromContext(cmd.Context())
		fps := sampleFPS
		if fps <= 0 {
			fps = cfg.Output.FPS
		}

		report, err := system.CollectResources(cmd.Context())
		if err != nil {
			return err
		}
		workers := sampleWorkers
		if workers <= 0 {
			workers = cfg.Processing.Workers
		}
		workers = report.Workers(workers)

		frames, err := eng.SampleTrack(cmd.Context(), fps, workers)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, f := range frames {
			if err := enc.Encode(f); err != nil {
				return err
			}
		}

		if sampleStats {
			after, err := system.CollectResources(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d frames, %d workers: %s\n", len(frames), workers, after)
		}
		return nil
	},
}

func init() {
	sampleCmd.Flags().IntVar(&sampleFPS, "fps", 0, "frames per second (default from config)")
	sampleCmd.Flags().IntVar(&sampleWorkers, "workers", 0, "parallel workers (default from config)")
	sampleCmd.Flags().BoolVar(&sampleStats, "stats", false, "print a resource report to stderr")
	sampleCmd.Flags().StringVar(&scheduleIn, "schedule", "", "replay a saved schedule (path or \"latest\") instead of regenerating")
}

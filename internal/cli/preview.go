package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmikh/recordio-sub002/internal/logging"
	"github.com/jmikh/recordio-sub002/internal/preview"
	"github.com/jmikh/recordio-sub002/internal/system"
)

var (
	previewAt    float64
	previewUntil float64
	previewStep  float64
	previewOut   string
	previewDir   string
)

var previewCmd = &cobra.Command{
	Use:   "preview <session.json> [frame.png]",
	Short: "Render debug frames of the schedule",
	Long: `Draws the captured frame as seen through the viewport at --at (output ms)
and marks the camera overlay. With --until, frames are drawn every --step ms
up to --until and written to --dir. The frame defaults to the newest image in
input/frames/ and must match the session's input size.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, snap, err := loadEngine(cmd, args[:1])
		if err != nil {
			return err
		}

		framePath := framesDir
		if len(args) > 1 {
			framePath = args[1]
		}
		framePath, err = system.FindLatestFrame(framePath)
		if err != nil {
			return err
		}
		size, err := preview.FrameSize(framePath)
		if err != nil {
			return err
		}
		if in := snap.View.InputSize(); size != in {
			return fmt.Errorf("frame %s is %vx%v, session input is %vx%v",
				framePath, size.Width, size.Height, in.Width, in.Height)
		}
		src, err := preview.LoadFrame(framePath)
		if err != nil {
			return err
		}

		until := max(previewUntil, previewAt)
		if previewAt < 0 || until > snap.Duration() {
			return fmt.Errorf("[%.0f, %.0f]ms is outside the output timeline [0, %.0f]", previewAt, until, snap.Duration())
		}
		single := until == previewAt
		if !single && previewStep <= 0 {
			return fmt.Errorf("--step must be positive, got %.0f", previewStep)
		}

		log := logging.WithComponent("cli")
		pool := system.NewFramePool()
		written := 0
		for at := previewAt; at <= until; at += previewStep {
			frame := snap.Frame(at)
			img := preview.Render(src, snap.View, frame.Viewport, &frame.Overlay, pool)

			out := filepath.Join(previewDir, fmt.Sprintf("preview_%06.0f.png", at))
			if single && previewOut != "" {
				out = previewOut
			}
			err := preview.WritePNG(out, img)
			pool.Put(img)
			if err != nil {
				return err
			}
			written++

			center := snap.View.OutputToInputPoint(frame.Viewport.Center())
			log.Debug().
				Str("path", out).
				Float64("at", at).
				Float64("zoom", frame.Zoom).
				Float64("source_x", center.X).
				Float64("source_y", center.Y).
				Msg("preview frame written")

			if single {
				break
			}
		}

		log.Info().
			Int("frames", written).
			Float64("from", previewAt).
			Float64("until", until).
			Msg("preview written")
		return nil
	},
}

func init() {
	previewCmd.Flags().Float64Var(&previewAt, "at", 0, "output time in ms")
	previewCmd.Flags().Float64Var(&previewUntil, "until", 0, "render a range of frames up to this output time")
	previewCmd.Flags().Float64Var(&previewStep, "step", 1000, "ms between frames of a range")
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "output PNG path for a single frame")
	previewCmd.Flags().StringVar(&previewDir, "dir", "output", "directory for generated preview names")
	previewCmd.Flags().StringVar(&scheduleIn, "schedule", "", "replay a saved schedule (path or \"latest\") instead of regenerating")
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gifcast/gifcast/internal/api"
	"github.com/gifcast/gifcast/internal/config"
	"github.com/gifcast/gifcast/internal/encoder"
	"github.com/gifcast/gifcast/internal/export"
	"github.com/gifcast/gifcast/internal/logger"
	"github.com/gifcast/gifcast/internal/source"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a frame source into an animated GIF",
	Long: `Record pumps frames from the configured source through the pacing
exporter into an animated GIF until the duration elapses or the process is
interrupted.`,
	Example: `  # Record a 640x480 screen region at 10 fps for 5 seconds
  gifcast record --out demo.gif --frame-delay 100 --duration 5s

  # Record an MJPEG stream, keeping every frame with its real timing
  gifcast record --source mjpeg --url http://cam.local/stream --variable

  # Record until Ctrl+C, status API on port 9000
  gifcast record --out long.gif --port 9000`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().String("out", "", "output GIF path")
	recordCmd.Flags().String("source", "", "frame source kind (x11, mjpeg, websocket)")
	recordCmd.Flags().String("url", "", "stream url for mjpeg/websocket sources")
	recordCmd.Flags().Int("frame-delay", 0, "target output frame period in milliseconds")
	recordCmd.Flags().Bool("variable", false, "keep every frame with its measured display time")
	recordCmd.Flags().Duration("duration", 0, "recording duration (0 records until interrupted)")
	recordCmd.Flags().Int("port", 0, "status API port (0 disables the server)")

	viper.BindPFlag("output.path", recordCmd.Flags().Lookup("out"))
	viper.BindPFlag("source.kind", recordCmd.Flags().Lookup("source"))
	viper.BindPFlag("source.url", recordCmd.Flags().Lookup("url"))
	viper.BindPFlag("output.frame_delay_ms", recordCmd.Flags().Lookup("frame-delay"))
	viper.BindPFlag("output.variable_delay", recordCmd.Flags().Lookup("variable"))
	viper.BindPFlag("server_port", recordCmd.Flags().Lookup("port"))
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.LogLevel, true)
	log := logger.WithComponent("record")

	duration, err := cmd.Flags().GetDuration("duration")
	if err != nil {
		return err
	}

	src, err := buildSource(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	enc := encoder.NewGIF(out, encoder.GIFConfig{
		Width:       cfg.Output.Width,
		Height:      cfg.Output.Height,
		DelayMillis: cfg.Output.FrameDelayMs,
	})

	var exporter *export.Exporter
	if cfg.Output.VariableDelay {
		exporter = export.NewVariableRate(enc)
	} else {
		exporter = export.NewFixedRate(enc, time.Duration(cfg.Output.FrameDelayMs)*time.Millisecond)
	}

	if cfg.ServerPort > 0 {
		server := api.NewServer(exporter)
		go func() {
			if err := server.Start(cfg.ServerPort); err != nil {
				log.Error().Err(err).Msg("Status server stopped")
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Interrupted, finishing recording")
		cancel()
	}()

	log.Info().
		Str("source", src.Name()).
		Str("out", cfg.Output.Path).
		Bool("variable", cfg.Output.VariableDelay).
		Int("frame_delay_ms", cfg.Output.FrameDelayMs).
		Msg("Recording started")

	pumpFrames(ctx, src, exporter)

	drain := time.Duration(cfg.Output.DrainTimeoutMs) * time.Millisecond
	if cfg.Output.DrainTimeoutMs < 0 {
		drain = export.NoWait
	}
	complete := exporter.Terminate(drain)

	if err := exporter.Err(); err != nil {
		return fmt.Errorf("recording failed: %w", err)
	}
	if !complete {
		return fmt.Errorf("recording incomplete: %d frames were not flushed before the drain timeout",
			exporter.Submitted()-exporter.Saved())
	}

	stats := exporter.Stats()
	log.Info().
		Uint64("saved", stats.Saved).
		Uint64("skipped", stats.Skipped).
		Str("out", cfg.Output.Path).
		Msg("Recording complete")
	return nil
}

// pumpFrames feeds the exporter until the source ends or ctx is cancelled.
func pumpFrames(ctx context.Context, src source.Source, exporter *export.Exporter) {
	log := logger.WithComponent("record")
	for {
		frame, err := src.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				log.Info().Msg("Frame source ended")
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			default:
				log.Error().Err(err).Msg("Frame source failed")
			}
			return
		}
		exporter.Export(frame)
	}
}

// applyFlagOverrides layers explicitly-set viper keys over the file config.
func applyFlagOverrides(cfg *config.Config) {
	if viper.IsSet("output.path") && viper.GetString("output.path") != "" {
		cfg.Output.Path = viper.GetString("output.path")
	}
	if viper.IsSet("source.kind") && viper.GetString("source.kind") != "" {
		cfg.Source.Kind = viper.GetString("source.kind")
	}
	if viper.IsSet("source.url") && viper.GetString("source.url") != "" {
		cfg.Source.URL = viper.GetString("source.url")
	}
	if viper.IsSet("output.frame_delay_ms") && viper.GetInt("output.frame_delay_ms") > 0 {
		cfg.Output.FrameDelayMs = viper.GetInt("output.frame_delay_ms")
	}
	if viper.IsSet("output.variable_delay") && viper.GetBool("output.variable_delay") {
		cfg.Output.VariableDelay = true
	}
	if viper.IsSet("server_port") && viper.GetInt("server_port") > 0 {
		cfg.ServerPort = viper.GetInt("server_port")
	}
	if viper.IsSet("log_level") && viper.GetString("log_level") != "" {
		cfg.LogLevel = viper.GetString("log_level")
	}
}

// buildSource constructs the configured frame producer.
func buildSource(cfg *config.Config) (source.Source, error) {
	switch cfg.Source.Kind {
	case "x11":
		return source.NewX11(source.X11Config{
			X:        cfg.Source.X,
			Y:        cfg.Source.Y,
			Width:    cfg.Source.Width,
			Height:   cfg.Source.Height,
			Interval: time.Duration(cfg.Source.IntervalMs) * time.Millisecond,
		})
	case "mjpeg":
		return source.NewMJPEG(context.Background(), cfg.Source.URL)
	case "websocket":
		return source.NewWebSocket(context.Background(), cfg.Source.URL)
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// Command fxengine is a demo harness for the effects engine: it wires a
// synthetic tone generator up as a capture source and an oto/v3 speaker
// player up as a render sink, starts the engine, and prints a live
// meter/spectrum readout until the user quits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/loopback-audio/fxcore/internal/config"
	"github.com/loopback-audio/fxcore/internal/dsp"
	"github.com/loopback-audio/fxcore/internal/engine"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "path to a YAML engine config (defaults built in if omitted)")
		sampleRate = pflag.Float64("sample-rate", 0, "override the configured sample rate, in Hz")
		chainFlag  = pflag.String("chain", "", "comma-separated effect chain override, e.g. eq,compressor,limiter,gain")
		toneFreq   = pflag.Float64("tone-freq", 220.0, "frequency of the synthetic capture tone, in Hz")
		toneAmp    = pflag.Float64("tone-amp", 0.25, "amplitude of the synthetic capture tone, 0..1")
		logLevel   = pflag.String("log-level", "", "override the configured log level (debug|info|warn|error)")
	)
	pflag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fxengine: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *sampleRate > 0 {
		cfg.SampleRate = *sampleRate
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *chainFlag != "" {
		cfg.DefaultChain = parseChain(*chainFlag)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           parseLogLevel(cfg.LogLevel),
	})

	eng := engine.New(cfg, logger)

	source := NewToneSource(cfg.SampleRate, *toneFreq, *toneAmp)

	sink, err := NewOtoSink(int(cfg.SampleRate))
	if err != nil {
		logger.Fatal("failed to open audio output", "error", err)
	}
	defer sink.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := eng.Start(ctx, source, sink); err != nil {
		logger.Fatal("failed to start engine", "error", err)
	}
	defer eng.Stop()

	runStatusLoop(ctx, eng)
}

// parseChain splits a comma-separated flag value into dsp.Kind values,
// skipping anything blank.
func parseChain(s string) []dsp.Kind {
	parts := strings.Split(s, ",")
	kinds := make([]dsp.Kind, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kinds = append(kinds, dsp.Kind(p))
	}
	return kinds
}

func parseLogLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// runStatusLoop prints a one-line meter/spectrum summary at a UI cadence
// until ctx is canceled or the terminal reports a quit keypress.
func runStatusLoop(ctx context.Context, eng *engine.Engine) {
	quit := watchForQuitKey()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		case <-ticker.C:
			printStatus(eng)
		}
	}
}

func printStatus(eng *engine.Engine) {
	m := eng.Meters()
	spectrum := eng.Spectrum()
	peakBin := 0
	peakDB := -120.0
	for i, db := range spectrum {
		if db > peakDB {
			peakDB = db
			peakBin = i
		}
	}
	fmt.Printf("\r%-8s in=%6.3f/%6.3f out=%6.3f/%6.3f under=%-6d over=%-6d peak_bin=%-5d peak_db=%6.1f  ",
		eng.State(), m.InputL, m.InputR, m.OutputL, m.OutputR,
		eng.Underruns(), eng.Overruns(), peakBin, peakDB)
}

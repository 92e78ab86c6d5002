// Command tuner shows the pitch of a test tone, an audio file or a browser
// microphone streamed over WebRTC.
//
// Usage:
//
//	tuner [flags]
//
// Flag defaults come from TUNER_* environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cwbudde/algo-tuner/dsp/conv"
	"github.com/cwbudde/algo-tuner/internal/config"
	"github.com/cwbudde/algo-tuner/internal/display"
	"github.com/cwbudde/algo-tuner/measure/note"
	"github.com/cwbudde/algo-tuner/measure/pitch"
	"github.com/cwbudde/algo-tuner/tuner"
)

func main() {
	cfg := config.Load()
	detune := bindFlags(flag.CommandLine, &cfg)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg, *detune); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func bindFlags(fs *flag.FlagSet, cfg *config.Config) *float64 {
	fs.StringVar(&cfg.Source, "source", cfg.Source, "signal source: tone, file or webrtc")
	fs.StringVar(&cfg.File, "file", cfg.File, "audio file for -source file (wav, aiff, mp3, ogg)")
	fs.Float64Var(&cfg.ToneHz, "tone", cfg.ToneHz, "test tone frequency in Hz")
	fs.IntVar(&cfg.SampleRate, "rate", cfg.SampleRate, "sample rate in Hz for tone and file sources")
	fs.IntVar(&cfg.BufferSize, "size", cfg.BufferSize, "analysis window in samples (power of two)")
	fs.Float64Var(&cfg.FPS, "fps", cfg.FPS, "frames per second")
	fs.StringVar(&cfg.Method, "method", cfg.Method, "autocorrelation: auto, direct or fft")
	fs.StringVar(&cfg.Target, "target", cfg.Target, "note to tune to, e.g. E2; empty follows the nearest note")
	fs.StringVar(&cfg.Listen, "listen", cfg.Listen, "listen address for -source webrtc")
	fs.StringVar(&cfg.Display, "display", cfg.Display, "display: text or terminal")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	detune := fs.Float64("detune", 0, "detune the test tone by cents")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: tuner [flags]\n\n")
		fmt.Fprintf(out, "Shows the nearest note and cents offset of an audio signal.\n\n")
		fmt.Fprintf(out, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  tuner -tone 82.41 -detune 12\n")
		fmt.Fprintf(out, "  tuner -source file -file guitar.wav -target E2\n")
		fmt.Fprintf(out, "  tuner -source webrtc -listen :8090 -display terminal\n")
	}
	return detune
}

func run(cfg config.Config, detune float64) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	// The terminal display owns the screen.
	var logOut io.Writer = os.Stderr
	if cfg.Display == config.DisplayTerminal {
		logOut = io.Discard
	}
	logger := initLogger(logOut, level)

	method, err := conv.ParseMethod(cfg.Method)
	if err != nil {
		return err
	}

	opts := []tuner.Option{
		tuner.WithFPS(cfg.FPS),
		tuner.WithLogger(logger),
		tuner.WithEstimator(pitch.NewEstimator(pitch.WithMethod(method))),
	}
	if cfg.Target != "" {
		target, err := note.Parse(cfg.Target)
		if err != nil {
			return err
		}
		opts = append(opts, tuner.WithTarget(target))
	}

	src, closeSource, err := openSource(ctx, cfg, detune, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	out, closeDisplay, err := openDisplay(cfg, stop)
	if err != nil {
		return err
	}
	defer closeDisplay()

	return tuner.New(src, out, opts...).Run(ctx)
}

func openDisplay(cfg config.Config, cancel context.CancelFunc) (tuner.Renderer, func(), error) {
	if cfg.Display != config.DisplayTerminal {
		return display.NewText(os.Stdout), func() {}, nil
	}

	term, err := display.NewTerminal(cancel)
	if err != nil {
		return nil, nil, err
	}
	return term, func() { _ = term.Close() }, nil
}

func initLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

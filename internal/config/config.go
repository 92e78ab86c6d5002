// Package config loads tuner command settings from TUNER_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-tuner/capture"
	"github.com/cwbudde/algo-tuner/dsp/conv"
	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/measure/note"
)

// Source kinds.
const (
	SourceTone   = "tone"
	SourceFile   = "file"
	SourceWebRTC = "webrtc"
)

// Display kinds.
const (
	DisplayText     = "text"
	DisplayTerminal = "terminal"
)

// Config holds the command configuration.
type Config struct {
	Source string
	File   string
	ToneHz float64

	SampleRate int
	BufferSize int
	FPS        float64
	Method     string

	// Target is a note name to tune to; empty follows the nearest note.
	Target string

	Listen   string
	Display  string
	LogLevel string
}

// Load reads the configuration from the environment with defaults.
func Load() Config {
	return Config{
		Source: envStr("TUNER_SOURCE", SourceTone),
		File:   envStr("TUNER_FILE", ""),
		ToneHz: envFloat("TUNER_TONE_HZ", 440),

		SampleRate: envInt("TUNER_SAMPLE_RATE", 44100),
		BufferSize: envInt("TUNER_BUFFER_SIZE", 2048),
		FPS:        envFloat("TUNER_FPS", 60),
		Method:     envStr("TUNER_METHOD", "auto"),

		Target: envStr("TUNER_TARGET", ""),

		Listen:   envStr("TUNER_LISTEN", ":8090"),
		Display:  envStr("TUNER_DISPLAY", DisplayText),
		LogLevel: envStr("TUNER_LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration for values the command can not run
// with.
func (c Config) Validate() error {
	var errs []error

	switch c.Source {
	case SourceTone:
		if !(c.ToneHz > 0) || c.ToneHz >= float64(c.SampleRate)/2 {
			errs = append(errs, fmt.Errorf("tone frequency %v Hz outside (0, %d)", c.ToneHz, c.SampleRate/2))
		}
	case SourceFile:
		if c.File == "" {
			errs = append(errs, errors.New("file source needs a file"))
		}
	case SourceWebRTC:
		if c.Listen == "" {
			errs = append(errs, errors.New("webrtc source needs a listen address"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source %q", c.Source))
	}

	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate must be > 0: %d", c.SampleRate))
	}
	if !core.IsPowerOf2(c.BufferSize) {
		errs = append(errs, fmt.Errorf("buffer size must be a power of two: %d", c.BufferSize))
	}
	if !(c.FPS > 0) {
		errs = append(errs, fmt.Errorf("fps must be > 0: %v", c.FPS))
	}
	if _, err := conv.ParseMethod(c.Method); err != nil {
		errs = append(errs, err)
	}
	if c.Target != "" {
		if _, err := note.Parse(c.Target); err != nil {
			errs = append(errs, err)
		}
	}
	switch c.Display {
	case DisplayText, DisplayTerminal:
	default:
		errs = append(errs, fmt.Errorf("unknown display %q", c.Display))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Source == SourceFile && c.File != "" {
		if _, err := fileFormat(c.File); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

func fileFormat(path string) (string, error) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", fmt.Errorf("%w: %q", capture.ErrUnknownFormat, path)
	}
	ext := strings.ToLower(path[i+1:])
	for _, f := range capture.Formats() {
		if f == ext {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: %q", capture.ErrUnknownFormat, path)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

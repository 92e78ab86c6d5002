package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gopxl/beep"

	"github.com/cwbudde/algo-tuner/capture"
	"github.com/cwbudde/algo-tuner/capture/webrtc"
	"github.com/cwbudde/algo-tuner/internal/config"
	"github.com/cwbudde/algo-tuner/tuner"
)

// resampleQuality is the beep interpolation quality for file sources.
const resampleQuality = 4

//go:embed index.html
var indexPage []byte

// openSource builds the configured source. The returned func releases it.
func openSource(ctx context.Context, cfg config.Config, detune float64, logger *slog.Logger) (tuner.Source, func(), error) {
	switch cfg.Source {
	case config.SourceFile:
		return openFile(cfg, logger)
	case config.SourceWebRTC:
		return openWebRTC(ctx, cfg, logger)
	default:
		return openTone(cfg, detune, logger)
	}
}

func openTone(cfg config.Config, detune float64, logger *slog.Logger) (tuner.Source, func(), error) {
	sr := beep.SampleRate(cfg.SampleRate)
	tone, err := capture.Tone(sr, cfg.ToneHz, 0.5,
		capture.WithHarmonics(0.4, 0.2, 0.1),
		capture.WithNoise(0.005, 1),
		capture.WithDetune(detune),
	)
	if err != nil {
		return nil, nil, err
	}

	src, err := capture.NewStreamSource(tone, sr, cfg.BufferSize, cfg.FPS)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("tone source", "hz", cfg.ToneHz, "detune", detune, "rate", cfg.SampleRate)
	return src, func() {}, nil
}

func openFile(cfg config.Config, logger *slog.Logger) (tuner.Source, func(), error) {
	s, format, err := capture.Open(cfg.File)
	if err != nil {
		return nil, nil, err
	}

	var stream beep.Streamer = s
	sr := format.SampleRate
	if want := beep.SampleRate(cfg.SampleRate); want != sr {
		stream = beep.Resample(resampleQuality, sr, want, s)
		sr = want
	}

	src, err := capture.NewStreamSource(stream, sr, cfg.BufferSize, cfg.FPS)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	logger.Info("file source",
		"path", cfg.File,
		"rate", int(format.SampleRate),
		"channels", format.NumChannels,
	)
	return src, func() { _ = s.Close() }, nil
}

func openWebRTC(ctx context.Context, cfg config.Config, logger *slog.Logger) (tuner.Source, func(), error) {
	a, err := capture.NewAnalyser(webrtc.SampleRate, cfg.BufferSize)
	if err != nil {
		return nil, nil, err
	}
	ingest, err := webrtc.NewIngest(a, webrtc.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return nil, nil, fmt.Errorf("listen %s: %w", cfg.Listen, err)
	}

	srv := &http.Server{
		Handler:           newMux(ingest),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "err", err)
		}
	}()
	logger.Info("webrtc ingest listening", "addr", ln.Addr().String())

	closeFn := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", "err", err)
		}
		if err := ingest.Close(); err != nil {
			logger.Warn("webrtc close", "err", err)
		}
	}
	return a, closeFn, nil
}

func newMux(ingest http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/offer", ingest)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexPage)
	})
	return mux
}

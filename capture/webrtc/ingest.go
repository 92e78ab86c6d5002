package webrtc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	pion "github.com/pion/webrtc/v4"
	"gopkg.in/hraban/opus.v2"

	"github.com/cwbudde/algo-tuner/capture"
	"github.com/cwbudde/algo-tuner/dsp/core"
)

// SampleRate is the rate Opus audio is decoded at.
const SampleRate = 48000

// maxFrameSamples holds the longest Opus frame (120 ms) at SampleRate.
const maxFrameSamples = SampleRate * 120 / 1000

var (
	// ErrSampleRate is returned when the analyser does not run at SampleRate.
	ErrSampleRate = errors.New("webrtc: analyser must run at 48000 Hz")

	// ErrPeerClosed is returned when a peer disconnects before its answer
	// is ready.
	ErrPeerClosed = errors.New("webrtc: peer closed during negotiation")
)

type opusDecoder interface {
	Decode(data []byte, pcm []int16) (int, error)
}

// Option configures an Ingest.
type Option func(*Ingest)

// WithConfiguration sets the peer connection configuration, e.g. ICE
// servers.
func WithConfiguration(cfg pion.Configuration) Option {
	return func(i *Ingest) {
		i.config = cfg
	}
}

// WithLogger sets the logger for peer events.
func WithLogger(l *slog.Logger) Option {
	return func(i *Ingest) {
		if l != nil {
			i.logger = l
		}
	}
}

// Ingest negotiates WebRTC sessions and feeds received audio into an
// Analyser.
type Ingest struct {
	analyser *capture.Analyser
	config   pion.Configuration
	logger   *slog.Logger

	newDecoder func() (opusDecoder, error)

	mu    sync.Mutex
	peers []*pion.PeerConnection

	writeMu sync.Mutex
	scratch []float64
}

// NewIngest returns a handler writing into a, which must run at SampleRate.
func NewIngest(a *capture.Analyser, opts ...Option) (*Ingest, error) {
	if a == nil || a.SampleRate() != SampleRate {
		return nil, ErrSampleRate
	}

	i := &Ingest{
		analyser: a,
		logger:   slog.New(slog.DiscardHandler),
		newDecoder: func() (opusDecoder, error) {
			return opus.NewDecoder(SampleRate, 1)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i, nil
}

// PeerCount returns the number of tracked peers, including those still
// negotiating.
func (i *Ingest) PeerCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.peers)
}

// Close disconnects all peers.
func (i *Ingest) Close() error {
	i.mu.Lock()
	peers := i.peers
	i.peers = nil
	i.mu.Unlock()

	var errs []error
	for _, pc := range peers {
		if err := pc.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ServeHTTP answers a JSON SDP offer posted by a browser and starts
// receiving its audio track.
func (i *Ingest) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Methods", "POST")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	var offer pion.SessionDescription
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil || offer.Type != pion.SDPTypeOffer {
		http.Error(w, "invalid SDP offer", http.StatusBadRequest)
		return
	}

	answer, err := i.answer(r.Context(), offer)
	if err != nil {
		var bad *badOfferError
		if errors.As(err, &bad) {
			http.Error(w, bad.Error(), http.StatusBadRequest)
			return
		}
		i.logger.Error("webrtc negotiation failed", "err", err)
		http.Error(w, "negotiation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(answer); err != nil {
		i.logger.Warn("webrtc answer not sent", "err", err)
	}
}

type badOfferError struct {
	err error
}

func (e *badOfferError) Error() string { return "invalid SDP offer: " + e.err.Error() }
func (e *badOfferError) Unwrap() error { return e.err }

func (i *Ingest) answer(ctx context.Context, offer pion.SessionDescription) (*pion.SessionDescription, error) {
	pc, err := pion.NewPeerConnection(i.config)
	if err != nil {
		return nil, fmt.Errorf("webrtc: create peer connection: %w", err)
	}
	// Tracked from the start so a failure during negotiation closes it.
	i.addPeer(pc)

	_, err = pc.AddTransceiverFromKind(pion.RTPCodecTypeAudio, pion.RTPTransceiverInit{
		Direction: pion.RTPTransceiverDirectionRecvonly,
	})
	if err != nil {
		i.closePeer(pc)
		return nil, fmt.Errorf("webrtc: add transceiver: %w", err)
	}

	pc.OnTrack(func(track *pion.TrackRemote, _ *pion.RTPReceiver) {
		i.consume(track)
	})
	pc.OnConnectionStateChange(func(s pion.PeerConnectionState) {
		i.onState(pc, s)
	})

	if err := pc.SetRemoteDescription(offer); err != nil {
		i.closePeer(pc)
		return nil, &badOfferError{err: err}
	}

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		i.closePeer(pc)
		return nil, fmt.Errorf("webrtc: create answer: %w", err)
	}

	gatherComplete := pion.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(answer); err != nil {
		i.closePeer(pc)
		return nil, fmt.Errorf("webrtc: set local description: %w", err)
	}
	select {
	case <-gatherComplete:
	case <-ctx.Done():
	}
	if err := ctx.Err(); err != nil {
		i.closePeer(pc)
		return nil, fmt.Errorf("webrtc: ice gathering: %w", err)
	}
	if !i.hasPeer(pc) {
		return nil, ErrPeerClosed
	}

	i.logger.Info("webrtc peer connected", "total", i.PeerCount())
	return pc.LocalDescription(), nil
}

func (i *Ingest) onState(pc *pion.PeerConnection, s pion.PeerConnectionState) {
	switch s {
	case pion.PeerConnectionStateFailed,
		pion.PeerConnectionStateClosed,
		pion.PeerConnectionStateDisconnected:
		if i.closePeer(pc) {
			i.logger.Info("webrtc peer disconnected", "state", s.String(), "remaining", i.PeerCount())
		}
	}
}

// consume decodes an audio track until it ends.
func (i *Ingest) consume(track *pion.TrackRemote) {
	codec := track.Codec()
	if !strings.EqualFold(codec.MimeType, pion.MimeTypeOpus) {
		i.logger.Warn("webrtc track ignored", "mime", codec.MimeType)
		return
	}

	dec, err := i.newDecoder()
	if err != nil {
		i.logger.Error("webrtc opus decoder", "err", err)
		return
	}

	pcm := make([]int16, maxFrameSamples)
	for {
		pkt, _, err := track.ReadRTP()
		if err != nil {
			i.logger.Debug("webrtc track ended", "err", err)
			return
		}
		if len(pkt.Payload) == 0 {
			continue
		}
		if err := i.decodePacket(dec, pkt.Payload, pcm); err != nil {
			i.logger.Debug("webrtc opus decode", "err", err)
		}
	}
}

func (i *Ingest) decodePacket(dec opusDecoder, payload []byte, pcm []int16) error {
	n, err := dec.Decode(payload, pcm)
	if err != nil {
		return err
	}
	i.write(pcm[:n])
	return nil
}

// write converts 16-bit PCM and appends it to the analyser. Tracks of
// several peers are serialized so the analyser sees a single writer.
func (i *Ingest) write(pcm []int16) {
	i.writeMu.Lock()
	defer i.writeMu.Unlock()

	i.scratch = pcm16ToFloat(i.scratch, pcm)
	i.analyser.Write(i.scratch)
}

func (i *Ingest) addPeer(pc *pion.PeerConnection) {
	i.mu.Lock()
	i.peers = append(i.peers, pc)
	i.mu.Unlock()
}

func (i *Ingest) hasPeer(pc *pion.PeerConnection) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return slices.Contains(i.peers, pc)
}

// closePeer untracks and closes pc. It reports whether pc was tracked.
func (i *Ingest) closePeer(pc *pion.PeerConnection) bool {
	i.mu.Lock()
	k := slices.Index(i.peers, pc)
	if k >= 0 {
		i.peers = slices.Delete(i.peers, k, k+1)
	}
	i.mu.Unlock()

	if k < 0 {
		return false
	}
	if err := pc.Close(); err != nil {
		i.logger.Debug("webrtc peer close", "err", err)
	}
	return true
}

func pcm16ToFloat(dst []float64, src []int16) []float64 {
	dst = core.EnsureLen(dst, len(src))
	for k, v := range src {
		dst[k] = float64(v) / 32768
	}
	return dst
}

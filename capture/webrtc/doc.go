// Package webrtc receives live microphone audio from a browser over WebRTC.
//
// [Ingest] is an http.Handler for SDP negotiation: the browser POSTs its
// offer as JSON, receives the answer, and sends its microphone as an Opus
// track. Decoded audio (48 kHz mono) is written into a capture.Analyser
// that the tuner loop reads from.
package webrtc

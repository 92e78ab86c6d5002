// Package capture provides signal sources for the tuner loop.
//
// An [Analyser] keeps the most recent window of mono samples written by an
// audio producer and hands out snapshots to the loop, much like the analyser
// node of a browser audio graph. [StreamSource] feeds an Analyser from any
// beep.Streamer at the rate the display consumes it, which makes decoded
// files ([Open], [Decode]) and synthetic tones ([Tone]) usable as live input.
//
// Decoding failures and unsupported formats are reported by the
// constructors, before a loop is started.
package capture

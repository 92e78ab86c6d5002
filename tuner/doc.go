// Package tuner drives pitch estimation in real time.
//
// A [Loop] pulls the latest window from a [Source] once per display frame,
// estimates its pitch, maps it to the nearest note and hands the resulting
// [Reading] to a [Renderer]. Frames come from a [Clock]; the default is a
// 60 fps ticker, tests drive the loop by hand.
//
//	loop := tuner.New(src, renderer)
//	err := loop.Run(ctx) // until ctx is cancelled or src returns io.EOF
//
// Ticks never overlap. The only state shared with the audio side is the
// window returned by Source.Buffer, which the loop treats as read-only for
// the duration of one tick.
package tuner

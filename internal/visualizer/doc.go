// Package visualizer drives a boid swarm from audio spectrum frames.
//
// A [Controller] owns two surfaces obtained from a [surface.Screen]: an
// offscreen buffer the swarm is drawn into every frame, and the visible
// surface. Each frame the visible surface is darkened with black at an
// alpha equal to the current decay and the buffer is composited on top,
// which leaves motion trails whose length follows the music's loudness.
//
// Lifecycle:
//
//	uninitialized --Start/FadeIn--> initialized (idle)
//	idle --audio frame--> running --Pause/Reset--> idle
//	initialized --Stop/FadeOut--> uninitialized
//
// Calls that do not apply in the current state are ignored.
//
// # Thread Safety
//
// The Controller is not safe for concurrent use. All calls, including the
// callbacks it schedules on its [Scheduler], must happen on one host
// goroutine. Audio sources hand events to that goroutine over a channel.
package visualizer

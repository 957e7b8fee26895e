// Package boids implements the audio-driven flocking simulation.
//
// A [Swarm] owns one [Boid] per frequency band for each audio channel. Each
// call to [Swarm.Run] is one tick:
//
//   - clear the target surface and draw every boid in a random order
//   - advance: find neighbours within Params.Visibility and accumulate the
//     cohesion, alignment, separation and avoidance adjustments
//   - integrate: apply adjustments to the heading, clamp speed, move
//
// # Example
//
//	s, _ := boids.New(audio.Bands31, 800, 600, boids.DefaultParams(), palette.Named("spectral"), rng)
//	s.Run(buffer)
//
// # Thread Safety
//
// A Swarm is not safe for concurrent use. It is driven from a single host
// loop, which is also where excitation values are written.
package boids

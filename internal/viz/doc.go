// Package viz is the terminal front end: a Bubble Tea program that hosts a
// visualizer on a braille canvas beside a status panel.
//
// The program's Update loop is the single host goroutine. Ticks step the
// visualizer's scheduler; audio events arrive as messages read from the
// source channel one at a time.
//
// # Key Bindings
//
//	Space - Hold/release audio input
//	R     - Restart with a fresh swarm
//	F     - Fade out, or fade back in when stopped
//	T     - Cycle panel themes
//	?     - Toggle help
//	Q     - Quit
package viz

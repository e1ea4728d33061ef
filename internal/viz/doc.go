// Package viz renders a particle arena in the terminal.
//
// The live view is a Bubble Tea program built around [Model]:
//
//   - [Canvas]: braille canvas with 2x4 dots per cell
//   - [Camera]: perspective projection of particle positions
//   - themes and lipgloss styles for the stats panel
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	R      - Replay the initial scene
//	S      - Scene menu
//	T      - Cycle color themes
//	A      - Toggle axes
//	x/y/z  - Rotate camera (shift reverses)
//	+/-    - Zoom
//	?      - Show help overlay
//
// Keys bound by the composition script take precedence over these; q and
// ctrl+c always quit.
package viz

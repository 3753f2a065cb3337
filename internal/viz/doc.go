// Package viz is the live terminal view of a mission.
//
// The view is a Bubble Tea program that steps the mission controller on
// every frame with the wall-clock time since the previous frame:
//
//   - [Model]: the mission view with telemetry, strip charts and the rocket column
//   - [Canvas]: Braille-based pixel canvas used for the rocket column
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space   - Launch, abort or relaunch
//	Up/Down - Move the throttle lever by 5%
//	R       - Reset to a ready system
//	T       - Cycle color themes
//	?       - Show help
//	Q       - Quit
package viz

// Package explorer provides the interactive terminal explorer.
package explorer

// State represents the current explorer mode.
type State int

const (
	// StateExplore is the default mode: the camera pans over the world.
	StateExplore State = iota
	// StateHelp shows the key bindings over the world.
	StateHelp
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExplore:
		return "explore"
	case StateHelp:
		return "help"
	default:
		return "unknown"
	}
}

var helpLines = []string{
	" arrows/hjkl  pan        ",
	" HJKL         pan faster ",
	" c            landmark   ",
	" o            origin     ",
	" ?            this help  ",
	" q/esc        quit       ",
}

package session

import "context"

// State is a position in the menu.
type State int

const (
	// StateMain waits for info, image or quit.
	StateMain State = iota
	// StateChoose waits for known, random, birthday or main.
	StateChoose
	// StateBirthday collects month, day and year.
	StateBirthday
	// StateQuit prints the session summary and ends the loop.
	StateQuit
)

func (s State) String() string {
	switch s {
	case StateMain:
		return "main"
	case StateChoose:
		return "choose"
	case StateBirthday:
		return "birthday"
	case StateQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Mode selects how a chosen Pokémon is displayed.
type Mode int

const (
	ModeInfo Mode = iota
	ModeImage
)

type transition struct {
	next State
	// run is optional; returning errInputClosed ends the session.
	run func(c *Controller, ctx context.Context) error
}

// transitions maps each line-driven state and command to its successor.
// Commands not listed re-prompt in the same state.
var transitions = map[State]map[string]transition{
	StateMain: {
		"info":  {next: StateChoose, run: (*Controller).chooseInfo},
		"image": {next: StateChoose, run: (*Controller).chooseImage},
		"quit":  {next: StateQuit},
	},
	StateChoose: {
		"known":    {next: StateMain, run: (*Controller).known},
		"random":   {next: StateMain, run: (*Controller).random},
		"birthday": {next: StateBirthday},
		"main":     {next: StateMain, run: (*Controller).backToMain},
	},
}

// Next returns the state command leads to from s, and false when s does not
// recognise it.
func Next(s State, command string) (State, bool) {
	t, ok := transitions[s][command]
	if !ok {
		return s, false
	}
	return t.next, true
}

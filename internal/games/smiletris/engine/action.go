package engine

// Action is a player command.
type Action int

const (
	ActionNone Action = iota
	ActionRotate
	// ActionDrop holds the soft drop until the next action or landing.
	ActionDrop
	ActionLeft
	ActionRight
	ActionPause
)

func (a Action) String() string {
	switch a {
	case ActionRotate:
		return "rotate"
	case ActionDrop:
		return "drop"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionPause:
		return "pause"
	default:
		return "none"
	}
}

// mirrored swaps rotate with drop and left with right.
func (a Action) mirrored() Action {
	switch a {
	case ActionRotate:
		return ActionDrop
	case ActionDrop:
		return ActionRotate
	case ActionLeft:
		return ActionRight
	case ActionRight:
		return ActionLeft
	default:
		return a
	}
}

// Menu entries accepted by MenuSelect.
const (
	MenuStart  = 0
	MenuLevel  = 1
	MenuTitle  = 2
	MenuResume = 3
	MenuExit   = 4
	MenuEvents = 5
)

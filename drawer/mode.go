package drawer

// Mode governs how pointer events are read.
type Mode int

const (
	ModeFreehand Mode = iota // drag draws many short strokes
	ModeTwoClick             // first click anchors, second click finishes a line
)

func (m Mode) String() string {
	switch m {
	case ModeFreehand:
		return "FREEHAND"
	case ModeTwoClick:
		return "LINE"
	default:
		return "UNKNOWN"
	}
}

// ParseMode accepts the names used by the batch driver.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "freehand", "free", "FREEHAND":
		return ModeFreehand, true
	case "line", "twoclick", "LINE":
		return ModeTwoClick, true
	default:
		return ModeFreehand, false
	}
}

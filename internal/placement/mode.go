package placement

// Mode decides what a tap, long-press or drag does.
type Mode int

const (
	View Mode = iota
	Add
	Move
	Pan
)

func (m Mode) String() string {
	switch m {
	case View:
		return "View"
	case Add:
		return "Add"
	case Move:
		return "Move"
	case Pan:
		return "Pan"
	}
	return "Mode(?)"
}

// Modes lists every mode in toolbar order.
var Modes = []Mode{View, Add, Move, Pan}

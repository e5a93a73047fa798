package model

// Directional trade signals. The zero value means no position is asserted.
const (
	SignalLong  = 1
	SignalShort = -1
	SignalFlat  = 0
)

// ValidSignal reports whether s is one of the recognized signal values.
func ValidSignal(s int) bool {
	return s == SignalLong || s == SignalShort || s == SignalFlat
}

package protocol

// intensityMode is the 2-bit wire encoding of an intensity instruction.
type intensityMode uint8

const (
	modeKeep     intensityMode = 0b00
	modeIncrease intensityMode = 0b01
	modeDecrease intensityMode = 0b10
	modeAbsolute intensityMode = 0b11
)

// IntensityChange describes if and how the stimulation intensity of one
// channel should change. The zero value means "do not change".
//
// Prefer relative changes: an absolute change overwrites any adjustment the
// user made with the hardware shoulder switches.
type IntensityChange struct {
	mode  intensityMode
	value uint8
}

// DoNotChange leaves the channel intensity as it is.
func DoNotChange() IntensityChange { return IntensityChange{} }

// RelativeIncrease raises the channel intensity by v.
func RelativeIncrease(v uint8) IntensityChange {
	return IntensityChange{mode: modeIncrease, value: v}
}

// RelativeDecrease lowers the channel intensity by v.
func RelativeDecrease(v uint8) IntensityChange {
	return IntensityChange{mode: modeDecrease, value: v}
}

// AbsoluteChange sets the channel intensity to v.
func AbsoluteChange(v uint8) IntensityChange {
	return IntensityChange{mode: modeAbsolute, value: v}
}

// packModes folds the two 2-bit channel modes into the frame's mode byte,
// channel A in the high pair.
func packModes(i Stereo[IntensityChange]) uint8 {
	return uint8(i.A.mode)<<2 | uint8(i.B.mode)
}

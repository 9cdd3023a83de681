package protocol

// MaxIntensity is the highest pulse amplitude the device accepts; anything
// above is capped before hitting the wire.
const MaxIntensity = 100

// Pulse is one frequency/amplitude set covering 25 ms of waveform on a
// single channel.
type Pulse struct {
	// Frequency in Hz, 1–100 officially, up to 200 in practice.
	// Zero means no pulse for this slot.
	Frequency uint8
	// Intensity is the pulse amplitude as an abstract 0–100 value.
	Intensity uint8
}

// CompressFrequency maps a frequency in Hz to the device's one-byte
// time-domain encoding. The device works on the pulse period T = 1000/f ms
// and compresses it piecewise, trading range for resolution at short
// periods:
//
//	T < 5      -> 5
//	T < 100    -> T
//	T < 600    -> (T-100)/5 + 100
//	T < 1000   -> (T-600)/10 + 200
//	otherwise  -> 240
//
// The result is truncated, not rounded. Zero frequency encodes as zero
// (silence). The mapping is not invertible but is monotone: a higher
// frequency never yields a larger byte.
func CompressFrequency(hz uint8) uint8 {
	if hz == 0 {
		return 0
	}

	t := 1000.0 / float32(hz)

	switch {
	case t < 5:
		t = 5
	case t < 100:
		// identity segment
	case t < 600:
		t = (t-100)/5 + 100
	case t < 1000:
		t = (t-600)/10 + 200
	default:
		t = 240
	}

	return uint8(t)
}

// ClampIntensity caps a raw amplitude at MaxIntensity. Values above the cap
// are silently reduced, never rejected.
func ClampIntensity(v uint8) uint8 {
	if v > MaxIntensity {
		return MaxIntensity
	}
	return v
}

func (p Pulse) compressedFrequency() uint8 { return CompressFrequency(p.Frequency) }

func (p Pulse) clampedIntensity() uint8 { return ClampIntensity(p.Intensity) }

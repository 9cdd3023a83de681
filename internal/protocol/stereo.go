package protocol

// Stereo is a pair of values, one per stimulation channel.
//
// Any serialized form puts channel A before channel B; the pair itself
// carries no other invariants.
type Stereo[T any] struct {
	A T
	B T
}

// Symmetric returns a pair with the same value on both channels.
func Symmetric[T any](v T) Stereo[T] {
	return Stereo[T]{A: v, B: v}
}

// appendStereo encodes both channel values positionally, A first, by
// delegating to the element encoder. Every pair on the wire goes through
// this so the A-before-B layout lives in exactly one place.
func appendStereo[T any](dst []byte, s Stereo[T], enc func([]byte, T) []byte) []byte {
	dst = enc(dst, s.A)
	return enc(dst, s.B)
}

// takeStereo decodes both channel values positionally, A first, returning
// the remaining bytes.
func takeStereo[T any](b []byte, dec func([]byte) (T, []byte)) (Stereo[T], []byte) {
	var s Stereo[T]
	s.A, b = dec(b)
	s.B, b = dec(b)
	return s, b
}

func appendByte(dst []byte, v uint8) []byte { return append(dst, v) }

func takeByte(b []byte) (uint8, []byte) { return b[0], b[1:] }

// Package protocol owns the Coyote 3 wire contract.
//
// Ownership boundary:
// - stereo pair primitives and their positional byte layout
// - frequency compression and intensity clamping/packing
// - outbound command frames (send-pulses, update-settings)
// - inbound notification frames (intensity change, settings change)
//
// Everything here is pure computation: encoding never fails and never
// blocks, decoding fails only structurally (unknown magic, short payload).
package protocol

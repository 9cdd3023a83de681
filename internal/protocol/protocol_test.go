package protocol

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex literal %q: %v", s, err)
	}
	return b
}

func repeatSlots(slot Stereo[Pulse]) [PulseSlots]Stereo[Pulse] {
	var slots [PulseSlots]Stereo[Pulse]
	for i := range slots {
		slots[i] = slot
	}
	return slots
}

func TestEncodeSendPulsesKnownVectors(t *testing.T) {
	tests := []struct {
		name      string
		intensity uint8
		want      string
	}{
		{name: "silent waveform", intensity: 0, want: "b00f0a000a0a0a0a000000002121212100000000"},
		{name: "full amplitude", intensity: 100, want: "b00f0a000a0a0a0a646464642121212164646464"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Pulses{
				Intensity: Stereo[IntensityChange]{
					A: AbsoluteChange(10),
					B: AbsoluteChange(0),
				},
				PulseData: repeatSlots(Stereo[Pulse]{
					A: Pulse{Frequency: 100, Intensity: tc.intensity},
					B: Pulse{Frequency: 30, Intensity: tc.intensity},
				}),
			}
			got := EncodeSendPulses(p)
			if len(got) != SendPulsesFrameLen {
				t.Fatalf("frame length: got %d want %d", len(got), SendPulsesFrameLen)
			}
			if want := mustHex(t, tc.want); !bytes.Equal(got, want) {
				t.Fatalf("frame mismatch:\n got %x\nwant %x", got, want)
			}
		})
	}
}

func TestEncodeSendPulsesClampsIntensity(t *testing.T) {
	p := Pulses{
		PulseData: repeatSlots(Stereo[Pulse]{
			A: Pulse{Frequency: 100, Intensity: 255},
			B: Pulse{Frequency: 100, Intensity: 101},
		}),
	}
	got := EncodeSendPulses(p)
	for i := 8; i < 12; i++ {
		if got[i] != MaxIntensity {
			t.Fatalf("channel A intensity byte %d not clamped: got %d", i, got[i])
		}
	}
	for i := 16; i < 20; i++ {
		if got[i] != MaxIntensity {
			t.Fatalf("channel B intensity byte %d not clamped: got %d", i, got[i])
		}
	}
}

func TestEncodeSendPulsesModeByte(t *testing.T) {
	tests := []struct {
		name string
		a, b IntensityChange
		want uint8
	}{
		{name: "keep both", a: DoNotChange(), b: DoNotChange(), want: 0b0000},
		{name: "increase A", a: RelativeIncrease(5), b: DoNotChange(), want: 0b0100},
		{name: "decrease B", a: DoNotChange(), b: RelativeDecrease(5), want: 0b0010},
		{name: "absolute both", a: AbsoluteChange(20), b: AbsoluteChange(20), want: 0b1111},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EncodeSendPulses(Pulses{Intensity: Stereo[IntensityChange]{A: tc.a, B: tc.b}})
			if got[1] != tc.want {
				t.Fatalf("mode byte: got %04b want %04b", got[1], tc.want)
			}
		})
	}
}

func TestEncodeUpdateSettingsKnownVector(t *testing.T) {
	got := EncodeUpdateSettings(DeviceSettings{
		Limit:            Symmetric[uint8](200),
		FrequencyBalance: Symmetric[uint8](160),
		IntensityBalance: Symmetric[uint8](0),
	})
	if want := mustHex(t, "bfc8c8a0a00000"); !bytes.Equal(got, want) {
		t.Fatalf("frame mismatch:\n got %x\nwant %x", got, want)
	}
}

func TestCompressFrequencyTable(t *testing.T) {
	tests := []struct {
		hz   uint8
		want uint8
	}{
		{hz: 0, want: 0},     // silence
		{hz: 1, want: 240},   // T = 1000 ms, saturated
		{hz: 2, want: 180},   // T = 500 ms, third segment
		{hz: 5, want: 120},   // T = 200 ms, third segment
		{hz: 10, want: 100},  // T = 100 ms, segment boundary
		{hz: 11, want: 90},   // T = 90.9 ms, identity segment
		{hz: 30, want: 33},   // truncates, never rounds
		{hz: 100, want: 10},  // identity segment
		{hz: 200, want: 5},   // T = 5 ms, shortest unsaturated period
		{hz: 255, want: 5},   // T below 5 ms clamps to 5
	}
	for _, tc := range tests {
		if got := CompressFrequency(tc.hz); got != tc.want {
			t.Fatalf("CompressFrequency(%d): got %d want %d", tc.hz, got, tc.want)
		}
	}
}

func TestCompressFrequencyRangeAndMonotonicity(t *testing.T) {
	prev := CompressFrequency(1)
	for hz := uint8(1); hz <= 200; hz++ {
		got := CompressFrequency(hz)
		if got < 5 || got > 240 {
			t.Fatalf("CompressFrequency(%d) = %d outside [5,240]", hz, got)
		}
		if got > prev {
			t.Fatalf("CompressFrequency not monotone: f(%d)=%d > f(%d)=%d", hz, got, hz-1, prev)
		}
		prev = got
	}
}

func TestClampIntensity(t *testing.T) {
	for v := 0; v <= 255; v++ {
		got := ClampIntensity(uint8(v))
		if v <= MaxIntensity && got != uint8(v) {
			t.Fatalf("ClampIntensity(%d) changed an in-range value to %d", v, got)
		}
		if got > MaxIntensity {
			t.Fatalf("ClampIntensity(%d) = %d above cap", v, got)
		}
	}
}

func TestDecodeNotificationIntensity(t *testing.T) {
	n, err := DecodeNotification([]byte{0xB1, 0x07, 0x14, 0x28})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	in, ok := n.(IntensityNotification)
	if !ok {
		t.Fatalf("wrong variant: %T", n)
	}
	if in.Serial != 7 || in.Intensity.A != 20 || in.Intensity.B != 40 {
		t.Fatalf("decoded fields mismatch: %+v", in)
	}
}

func TestDecodeNotificationSettings(t *testing.T) {
	n, err := DecodeNotification(mustHex(t, "be4646a0a00000"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	sn, ok := n.(SettingsNotification)
	if !ok {
		t.Fatalf("wrong variant: %T", n)
	}
	want := DeviceSettings{
		Limit:            Symmetric[uint8](70),
		FrequencyBalance: Symmetric[uint8](160),
	}
	if sn.Settings != want {
		t.Fatalf("decoded settings mismatch: got %+v want %+v", sn.Settings, want)
	}
}

func TestDecodeNotificationFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    error
	}{
		{name: "empty", payload: nil, want: ErrTruncated},
		{name: "unknown magic", payload: []byte{0xFF, 1, 2, 3}, want: ErrUnknownMagic},
		{name: "command magic is not a notification", payload: []byte{0xB0, 1, 2, 3}, want: ErrUnknownMagic},
		{name: "short intensity", payload: []byte{0xB1, 1, 2}, want: ErrTruncated},
		{name: "short settings", payload: []byte{0xBE, 1, 2, 3, 4, 5}, want: ErrTruncated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := DecodeNotification(tc.payload)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if n != nil {
				t.Fatalf("failed decode returned a notification: %+v", n)
			}
		})
	}
}

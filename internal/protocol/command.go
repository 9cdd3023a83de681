package protocol

// Frame magic bytes. Commands flow host -> device, notifications device -> host.
const (
	magicSendPulses     uint8 = 0xB0
	magicIntensity      uint8 = 0xB1
	magicSettingsChange uint8 = 0xBE
	magicUpdateSettings uint8 = 0xBF
)

// Frame sizes, magic byte included.
const (
	SendPulsesFrameLen     = 20
	UpdateSettingsFrameLen = 7
)

// PulseSlots is the number of 25 ms waveform slots per send-pulses frame.
// One frame therefore covers exactly 100 ms and is sent on that cadence.
const PulseSlots = 4

// Pulses is the control data for the next 100 ms of stimulation.
type Pulses struct {
	// Intensity optionally changes the stimulation intensity per channel.
	Intensity Stereo[IntensityChange]
	// PulseData holds the four 25 ms waveform slots.
	PulseData [PulseSlots]Stereo[Pulse]
}

// DeviceSettings is the device-wide configuration, as opposed to the
// per-burst pulse data.
type DeviceSettings struct {
	// Limit is the per-channel maximum intensity. It is important that the
	// user stays in control of this value.
	Limit Stereo[uint8]
	// FrequencyBalance controls the relative intensity of waveforms at
	// different frequencies under a fixed channel intensity. Higher values
	// increase the throbbing sensation of low-frequency waveforms.
	FrequencyBalance Stereo[uint8]
	// IntensityBalance affects the pulse width of the waveform. Whether it
	// actually influences the output is questionable.
	IntensityBalance Stereo[uint8]
}

// DefaultSettings returns the configuration the device ships with.
func DefaultSettings() DeviceSettings {
	return DeviceSettings{
		Limit:            Symmetric[uint8](70),
		FrequencyBalance: Symmetric[uint8](160),
		IntensityBalance: Symmetric[uint8](0),
	}
}

// EncodeSendPulses builds the 20-byte 0xB0 command frame. Layout after the
// magic byte: packed intensity modes, intensity values A then B, then the
// waveform block as four columns of four bytes each — compressed
// frequencies A, clamped intensities A, compressed frequencies B, clamped
// intensities B. Encoding cannot fail; out-of-range intensities are capped.
func EncodeSendPulses(p Pulses) []byte {
	buf := make([]byte, 0, SendPulsesFrameLen)
	buf = append(buf, magicSendPulses, packModes(p.Intensity))
	buf = appendStereo(buf, p.Intensity, func(dst []byte, c IntensityChange) []byte {
		return append(dst, c.value)
	})

	for _, slot := range p.PulseData {
		buf = append(buf, slot.A.compressedFrequency())
	}
	for _, slot := range p.PulseData {
		buf = append(buf, slot.A.clampedIntensity())
	}
	for _, slot := range p.PulseData {
		buf = append(buf, slot.B.compressedFrequency())
	}
	for _, slot := range p.PulseData {
		buf = append(buf, slot.B.clampedIntensity())
	}
	return buf
}

// EncodeUpdateSettings builds the 7-byte 0xBF command frame.
func EncodeUpdateSettings(s DeviceSettings) []byte {
	buf := make([]byte, 0, UpdateSettingsFrameLen)
	buf = append(buf, magicUpdateSettings)
	return appendSettings(buf, s)
}

func appendSettings(dst []byte, s DeviceSettings) []byte {
	dst = appendStereo(dst, s.Limit, appendByte)
	dst = appendStereo(dst, s.FrequencyBalance, appendByte)
	return appendStereo(dst, s.IntensityBalance, appendByte)
}

func takeSettings(b []byte) (DeviceSettings, []byte) {
	var s DeviceSettings
	s.Limit, b = takeStereo(b, takeByte)
	s.FrequencyBalance, b = takeStereo(b, takeByte)
	s.IntensityBalance, b = takeStereo(b, takeByte)
	return s, b
}

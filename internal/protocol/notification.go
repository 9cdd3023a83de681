package protocol

import "fmt"

// Notification is a decoded inbound frame from the notify characteristic.
// The two concrete types below are the only implementations.
type Notification interface {
	isNotification()
}

// IntensityNotification reports the effective per-channel intensity after
// the device applied a change, whether commanded or made with the hardware
// switches.
type IntensityNotification struct {
	// Serial counts intensity changes on the device side. Nothing in this
	// layer consumes it, but it is part of the frame.
	Serial    uint8
	Intensity Stereo[uint8]
}

// SettingsNotification reports the effective device settings.
type SettingsNotification struct {
	Settings DeviceSettings
}

func (IntensityNotification) isNotification() {}
func (SettingsNotification) isNotification()  {}

// DecodeNotification parses one inbound frame. Each notification is
// self-contained, so a failure only discards that frame; there is no
// stream state to desynchronize. The only failure modes are an unknown
// magic byte and a payload shorter than the variant requires.
func DecodeNotification(b []byte) (Notification, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrTruncated)
	}

	switch b[0] {
	case magicIntensity:
		if len(b) < 4 {
			return nil, fmt.Errorf("%w: intensity notification needs 4 bytes, got %d", ErrTruncated, len(b))
		}
		n := IntensityNotification{Serial: b[1]}
		n.Intensity, _ = takeStereo(b[2:4], takeByte)
		return n, nil

	case magicSettingsChange:
		if len(b) < UpdateSettingsFrameLen {
			return nil, fmt.Errorf("%w: settings notification needs %d bytes, got %d", ErrTruncated, UpdateSettingsFrameLen, len(b))
		}
		s, _ := takeSettings(b[1:UpdateSettingsFrameLen])
		return SettingsNotification{Settings: s}, nil

	default:
		return nil, fmt.Errorf("%w: %#02x", ErrUnknownMagic, b[0])
	}
}

package device

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"coyotectl/internal/protocol"
)

// Config carries everything Connect needs besides the transport. The zero
// value is usable: an all-zero Settings is replaced with DefaultSettings,
// since a zero intensity limit would make the device inert.
type Config struct {
	// Settings is pushed to the device right after connecting, forcing the
	// device configuration into a known state.
	Settings protocol.DeviceSettings
}

// Session is one live connection to a Coyote 3.
//
// Outbound calls are not serialized here: if at most one command may be in
// flight, the caller spaces its SendPulses/UpdateSettings calls itself.
type Session struct {
	transport Transport
	bridge    *stateBridge
	log       zerolog.Logger
}

// Connect builds a session over an already-linked transport: it verifies
// the required characteristics, reads the initial battery charge,
// subscribes to the notification feeds, and pushes the configured settings
// so desired and actual configuration agree.
//
// Transport failures abort construction and are returned unchanged.
func Connect(ctx context.Context, t Transport, cfg Config, log zerolog.Logger) (*Session, error) {
	for _, required := range []uuid.UUID{WriteCharacteristic, NotifyCharacteristic, BatteryCharacteristic} {
		if !t.Has(required) {
			return nil, &MissingCharacteristicError{Characteristic: required}
		}
	}

	settings := cfg.Settings
	if settings == (protocol.DeviceSettings{}) {
		settings = protocol.DefaultSettings()
	}

	battery, err := t.Read(ctx, BatteryCharacteristic)
	if err != nil {
		return nil, fmt.Errorf("read battery: %w", err)
	}
	initial := State{Settings: settings}
	if len(battery) > 0 {
		initial.Battery = battery[0]
	}

	for _, c := range []uuid.UUID{NotifyCharacteristic, BatteryCharacteristic} {
		if err := t.Subscribe(ctx, c); err != nil {
			return nil, fmt.Errorf("subscribe %s: %w", c, err)
		}
	}

	s := &Session{
		transport: t,
		bridge:    newStateBridge(initial, decodeFeed(t.Notifications(), initial, log)),
		log:       log,
	}

	if err := s.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	return s, nil
}

// decodeFeed maps raw characteristic pushes onto state snapshots. A frame
// that fails to decode is logged and dropped without emitting a snapshot;
// the session keeps running. The returned channel closes when the raw feed
// closes.
func decodeFeed(raw <-chan RawNotification, initial State, log zerolog.Logger) <-chan State {
	out := make(chan State)
	go func() {
		defer close(out)
		st := initial
		for n := range raw {
			switch n.Characteristic {
			case NotifyCharacteristic:
				decoded, err := protocol.DecodeNotification(n.Value)
				if err != nil {
					log.Error().Err(err).Hex("payload", n.Value).Msg("dropping malformed notification")
					continue
				}
				switch decoded := decoded.(type) {
				case protocol.IntensityNotification:
					st.Intensity = decoded.Intensity
				case protocol.SettingsNotification:
					st.Settings = decoded.Settings
				}
			case BatteryCharacteristic:
				if len(n.Value) != 1 {
					log.Error().Hex("payload", n.Value).Msg("dropping malformed battery push")
					continue
				}
				st.Battery = n.Value[0]
			default:
				log.Debug().Str("characteristic", n.Characteristic.String()).Msg("push from unknown characteristic")
				continue
			}
			out <- st
		}
	}()
	return out
}

// SendPulses transmits the waveform data for the next 100 ms. Callers are
// expected to call this on a 100 ms cadence.
func (s *Session) SendPulses(ctx context.Context, p protocol.Pulses) error {
	return s.write(ctx, protocol.EncodeSendPulses(p))
}

// UpdateSettings transmits a new device-wide configuration.
func (s *Session) UpdateSettings(ctx context.Context, settings protocol.DeviceSettings) error {
	return s.write(ctx, protocol.EncodeUpdateSettings(settings))
}

func (s *Session) write(ctx context.Context, frame []byte) error {
	s.log.Debug().Hex("frame", frame).Msg("write command")
	return s.transport.WriteWithoutResponse(ctx, WriteCharacteristic, frame)
}

// State returns the read handle on the mirrored device state.
func (s *Session) State() StateSignal {
	return s.bridge
}

// Disconnect tears down the underlying link.
func (s *Session) Disconnect(ctx context.Context) error {
	return s.transport.Disconnect(ctx)
}

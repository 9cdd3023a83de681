// Package config loads the driver configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"coyotectl/internal/device"
	"coyotectl/internal/protocol"
)

// ChannelPair is a per-channel value pair in the config file.
type ChannelPair struct {
	A uint8 `toml:"a"`
	B uint8 `toml:"b"`
}

func (p ChannelPair) stereo() protocol.Stereo[uint8] {
	return protocol.Stereo[uint8]{A: p.A, B: p.B}
}

// Waveform describes the demo pulse loop: a fixed-frequency waveform whose
// amplitude swings sinusoidally around a base value, advancing one frame
// every 100 ms.
type Waveform struct {
	Frequency     uint8 `toml:"frequency"`
	BaseIntensity uint8 `toml:"base_intensity"`
	Swing         uint8 `toml:"swing"`
	PeriodFrames  int   `toml:"period_frames"`
}

// Config is the coyotectl configuration file.
type Config struct {
	DeviceName       string      `toml:"device_name"`
	Limit            ChannelPair `toml:"limit"`
	FrequencyBalance ChannelPair `toml:"frequency_balance"`
	IntensityBalance ChannelPair `toml:"intensity_balance"`
	Waveform         Waveform    `toml:"waveform"`
}

// Default returns a conservative configuration: stimulation confined to
// channel A with a low limit.
func Default() Config {
	return Config{
		DeviceName:       device.LocalName,
		Limit:            ChannelPair{A: 50, B: 0},
		FrequencyBalance: ChannelPair{A: 160, B: 160},
		IntensityBalance: ChannelPair{A: 0, B: 0},
		Waveform: Waveform{
			Frequency:     200,
			BaseIntensity: 50,
			Swing:         50,
			PeriodFrames:  20,
		},
	}
}

// Load reads the config file at path, falling back to Default for absent
// fields. An empty path returns Default unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the device cannot act on.
func Validate(cfg Config) error {
	if cfg.DeviceName == "" {
		return fmt.Errorf("config missing device_name")
	}
	if cfg.Waveform.Frequency > 200 {
		return fmt.Errorf("waveform frequency %d above the 200 Hz device maximum", cfg.Waveform.Frequency)
	}
	if cfg.Waveform.PeriodFrames <= 0 {
		return fmt.Errorf("waveform period_frames must be positive, got %d", cfg.Waveform.PeriodFrames)
	}
	if int(cfg.Waveform.BaseIntensity)+int(cfg.Waveform.Swing) > protocol.MaxIntensity {
		return fmt.Errorf("waveform base_intensity+swing %d exceeds the intensity cap %d",
			int(cfg.Waveform.BaseIntensity)+int(cfg.Waveform.Swing), protocol.MaxIntensity)
	}
	return nil
}

// Settings converts the file values into the wire settings struct.
func (c Config) Settings() protocol.DeviceSettings {
	return protocol.DeviceSettings{
		Limit:            c.Limit.stereo(),
		FrequencyBalance: c.FrequencyBalance.stereo(),
		IntensityBalance: c.IntensityBalance.stereo(),
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"coyotectl/internal/bluetooth"
	"coyotectl/internal/config"
	"coyotectl/internal/device"
	"coyotectl/internal/logging"
	"coyotectl/internal/protocol"
)

// frameInterval is the cadence the device expects pulse frames on.
const frameInterval = 100 * time.Millisecond

func main() {
	configPath := flag.String("config", "", "path to coyotectl.toml (optional)")
	flag.Parse()

	log := logging.New("coyotectl")
	if err := run(*configPath, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("coyotectl failed")
	}
}

func run(configPath string, log zerolog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("device", cfg.DeviceName).Msg("scanning")
	transport, err := bluetooth.Dial(ctx, bluetooth.Options{LocalName: cfg.DeviceName})
	if err != nil {
		return err
	}

	session, err := device.Connect(ctx, transport, device.Config{Settings: cfg.Settings()}, log)
	if err != nil {
		transport.Disconnect(context.Background())
		return err
	}
	defer func() {
		// The signal context is already gone on the way out.
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := session.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("disconnect")
		}
	}()

	go watchState(ctx, session.State(), log)

	// Put channel A at a known intensity before the waveform starts;
	// channel B stays off.
	err = session.SendPulses(ctx, protocol.Pulses{
		Intensity: protocol.Stereo[protocol.IntensityChange]{
			A: protocol.AbsoluteChange(20),
			B: protocol.AbsoluteChange(0),
		},
	})
	if err != nil {
		return err
	}

	log.Info().Msg("stimulating, ctrl-c to stop")
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := session.SendPulses(ctx, wavePulses(cfg.Waveform, frame)); err != nil {
			return err
		}
	}
}

// wavePulses builds the next 100 ms frame: channel A runs the configured
// frequency with a sinusoidally swinging amplitude, channel B is silent.
func wavePulses(w config.Waveform, frame int) protocol.Pulses {
	phase := 2 * math.Pi * float64(frame) / float64(w.PeriodFrames)
	intensity := w.BaseIntensity + uint8(float64(w.Swing)*(math.Sin(phase)/2+0.5))

	var p protocol.Pulses
	for i := range p.PulseData {
		p.PulseData[i].A = protocol.Pulse{Frequency: w.Frequency, Intensity: intensity}
	}
	return p
}

func watchState(ctx context.Context, sig device.StateSignal, log zerolog.Logger) {
	for st := range sig.Watch(ctx) {
		log.Info().
			Uint8("battery", st.Battery).
			Uint8("intensity_a", st.Intensity.A).
			Uint8("intensity_b", st.Intensity.B).
			Uint8("limit_a", st.Settings.Limit.A).
			Uint8("limit_b", st.Settings.Limit.B).
			Msg("device state")
	}
}

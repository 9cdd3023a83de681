// Package bluetooth implements the session's Transport boundary on top of
// the host BLE adapter.
package bluetooth

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"tinygo.org/x/bluetooth"

	"coyotectl/internal/device"
)

// pushBuffer bounds notifications queued between the radio callback and
// the session's decoder. The callback never blocks the radio loop; if the
// consumer falls this far behind, the oldest unread push is dropped.
const pushBuffer = 16

// Options configures Dial.
type Options struct {
	// LocalName is the advertised name to scan for.
	LocalName string
}

// Transport is a connected, service-discovered BLE link.
type Transport struct {
	dev   bluetooth.Device
	chars map[uuid.UUID]bluetooth.DeviceCharacteristic

	mu     sync.Mutex
	closed bool
	pushes chan device.RawNotification
}

var _ device.Transport = (*Transport)(nil)

// Dial scans for a peripheral advertising opts.LocalName, connects and
// discovers its services. Scanning runs until the context ends; there is
// no retry of any step.
func Dial(ctx context.Context, opts Options) (*Transport, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("enable adapter: %w", err)
	}

	result, err := scanForName(ctx, adapter, opts.LocalName)
	if err != nil {
		return nil, err
	}

	dev, err := adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", result.Address, err)
	}

	chars, err := discoverCharacteristics(dev)
	if err != nil {
		dev.Disconnect()
		return nil, err
	}

	return &Transport{
		dev:    dev,
		chars:  chars,
		pushes: make(chan device.RawNotification, pushBuffer),
	}, nil
}

func scanForName(ctx context.Context, adapter *bluetooth.Adapter, name string) (bluetooth.ScanResult, error) {
	found := make(chan bluetooth.ScanResult, 1)
	scanDone := make(chan error, 1)
	go func() {
		scanDone <- adapter.Scan(func(a *bluetooth.Adapter, r bluetooth.ScanResult) {
			if r.LocalName() != name {
				return
			}
			select {
			case found <- r:
			default:
			}
			a.StopScan()
		})
	}()

	select {
	case <-ctx.Done():
		adapter.StopScan()
		<-scanDone
		return bluetooth.ScanResult{}, ctx.Err()
	case err := <-scanDone:
		if err != nil {
			return bluetooth.ScanResult{}, fmt.Errorf("scan: %w", err)
		}
	}

	select {
	case r := <-found:
		return r, nil
	default:
		return bluetooth.ScanResult{}, fmt.Errorf("scan stopped before finding %q", name)
	}
}

func discoverCharacteristics(dev bluetooth.Device) (map[uuid.UUID]bluetooth.DeviceCharacteristic, error) {
	services, err := dev.DiscoverServices(nil)
	if err != nil {
		return nil, fmt.Errorf("discover services: %w", err)
	}

	chars := make(map[uuid.UUID]bluetooth.DeviceCharacteristic)
	for _, svc := range services {
		discovered, err := svc.DiscoverCharacteristics(nil)
		if err != nil {
			return nil, fmt.Errorf("discover characteristics of %s: %w", svc.UUID(), err)
		}
		for _, c := range discovered {
			id, err := uuid.Parse(c.UUID().String())
			if err != nil {
				return nil, fmt.Errorf("characteristic uuid %q: %w", c.UUID(), err)
			}
			chars[id] = c
		}
	}
	return chars, nil
}

func (t *Transport) characteristic(id uuid.UUID) (bluetooth.DeviceCharacteristic, error) {
	c, ok := t.chars[id]
	if !ok {
		return bluetooth.DeviceCharacteristic{}, &device.MissingCharacteristicError{Characteristic: id}
	}
	return c, nil
}

// Has reports whether discovery found the characteristic.
func (t *Transport) Has(id uuid.UUID) bool {
	_, ok := t.chars[id]
	return ok
}

// Read performs a one-shot characteristic read.
func (t *Transport) Read(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := t.characteristic(id)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 64)
	n, err := c.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", id, err)
	}
	return buf[:n], nil
}

// Subscribe enables notifications for the characteristic and fans them
// into the shared push channel. The notification buffer belongs to the
// radio stack, so the value is copied before it crosses goroutines.
func (t *Transport) Subscribe(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c, err := t.characteristic(id)
	if err != nil {
		return err
	}
	return c.EnableNotifications(func(buf []byte) {
		value := make([]byte, len(buf))
		copy(value, buf)
		t.push(device.RawNotification{Characteristic: id, Value: value})
	})
}

func (t *Transport) push(n device.RawNotification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	for {
		select {
		case t.pushes <- n:
			return
		default:
		}
		select {
		case <-t.pushes: // shed the oldest unread push
		default:
		}
	}
}

// Notifications returns the push stream. It is closed by Disconnect.
func (t *Transport) Notifications() <-chan device.RawNotification {
	return t.pushes
}

// WriteWithoutResponse issues an unacknowledged characteristic write.
func (t *Transport) WriteWithoutResponse(ctx context.Context, id uuid.UUID, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c, err := t.characteristic(id)
	if err != nil {
		return err
	}
	if _, err := c.WriteWithoutResponse(data); err != nil {
		return fmt.Errorf("write %s: %w", id, err)
	}
	return nil
}

// Disconnect drops the link and closes the push stream.
func (t *Transport) Disconnect(ctx context.Context) error {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.pushes)
	}
	t.mu.Unlock()

	if err := t.dev.Disconnect(); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

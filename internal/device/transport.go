package device

import (
	"context"

	"github.com/google/uuid"
)

// LocalName is the advertised name of a Coyote 3.
const LocalName = "47L121000"

// GATT characteristics the protocol is defined against. These are fixed
// protocol constants; a device without the required ones is not usable.
var (
	// WriteCharacteristic accepts command frames, written without response.
	WriteCharacteristic = uuid.MustParse("0000150a-0000-1000-8000-00805f9b34fb")
	// NotifyCharacteristic pushes intensity and settings notifications.
	NotifyCharacteristic = uuid.MustParse("0000150b-0000-1000-8000-00805f9b34fb")
	// BatteryCharacteristic is readable and pushes the charge percentage
	// as a single raw byte, no magic prefix.
	BatteryCharacteristic = uuid.MustParse("00001500-0000-1000-8000-00805f9b34fb")
)

// RawNotification is one unparsed push from a subscribed characteristic.
type RawNotification struct {
	Characteristic uuid.UUID
	Value          []byte
}

// Transport is the established, service-discovered wireless link a Session
// drives. Implementations own scanning, connection and subscription
// mechanics; the session layer only sees characteristics.
//
// Failures are propagated to the caller unchanged and are never retried
// here.
type Transport interface {
	// Has reports whether discovery found the characteristic.
	Has(characteristic uuid.UUID) bool
	// Read performs a one-shot read of a characteristic value.
	Read(ctx context.Context, characteristic uuid.UUID) ([]byte, error)
	// Subscribe enables notifications for the characteristic. Pushes are
	// delivered through Notifications in arrival order.
	Subscribe(ctx context.Context, characteristic uuid.UUID) error
	// Notifications returns the push stream for all subscribed
	// characteristics. The channel is closed when the link goes away.
	Notifications() <-chan RawNotification
	// WriteWithoutResponse issues an unacknowledged write.
	WriteWithoutResponse(ctx context.Context, characteristic uuid.UUID, data []byte) error
	// Disconnect tears down the link.
	Disconnect(ctx context.Context) error
}

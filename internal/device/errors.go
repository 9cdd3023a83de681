package device

import (
	"fmt"

	"github.com/google/uuid"
)

// MissingCharacteristicError reports that service discovery completed but a
// characteristic the protocol requires was absent. This should never happen
// with an original device, and it is fatal to session construction.
type MissingCharacteristicError struct {
	Characteristic uuid.UUID
}

func (e *MissingCharacteristicError) Error() string {
	return fmt.Sprintf("device: missing characteristic %s", e.Characteristic)
}

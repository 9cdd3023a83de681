package protocol

import "errors"

var (
	ErrUnknownMagic = errors.New("protocol: unknown magic byte")
	ErrTruncated    = errors.New("protocol: truncated frame")
)

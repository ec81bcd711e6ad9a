package bus

import "errors"

var (
	// ErrNack indicates that the target did not acknowledge the transaction,
	// typically because it is busy with an internal write cycle.
	ErrNack = errors.New("bus: transaction not acknowledged")

	// ErrUnknownScheme indicates that no Opener is registered for a transport identifier's scheme.
	ErrUnknownScheme = errors.New("bus: unknown transport scheme")

	// ErrUnsupported indicates that the transport is not available on this platform.
	ErrUnsupported = errors.New("bus: transport not supported on this platform")

	// ErrClosed indicates use of a Conn after Close.
	ErrClosed = errors.New("bus: connection closed")
)

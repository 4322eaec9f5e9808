package contract

import "errors"

var (
	// ErrUnparseableValue indicates a contract return value that does not
	// decode as any known tagged kind. It is deliberately distinct from a
	// genuine zero so callers can tell "empty" from "unreadable".
	ErrUnparseableValue = errors.New("contract: unparseable value")

	// ErrUnreadableResult indicates a query whose result could not be
	// obtained or decoded. Query methods return it alongside a zero-filled
	// value so batch callers may keep going.
	ErrUnreadableResult = errors.New("contract: unreadable result")

	// ErrInvalidAddress indicates a malformed user account identifier.
	ErrInvalidAddress = errors.New("contract: invalid address")

	// ErrNonPositiveAmount indicates a deposit, withdrawal or credit of
	// zero or less.
	ErrNonPositiveAmount = errors.New("contract: non-positive amount")

	// ErrNoAdmin indicates a privileged call on a client built without an
	// admin credential.
	ErrNoAdmin = errors.New("contract: no admin credential configured")
)

package ledger

import "errors"

var (
	// ErrConnectionFailed indicates the client could not reach the endpoint.
	ErrConnectionFailed = errors.New("ledger: connection failed")

	// ErrInvalidResponse indicates the endpoint returned a malformed or
	// unexpected response.
	ErrInvalidResponse = errors.New("ledger: invalid response")

	// ErrAccountNotFound indicates the requested account does not exist
	// on the ledger.
	ErrAccountNotFound = errors.New("ledger: account not found")

	// ErrInvalidNetwork indicates an unknown network name.
	ErrInvalidNetwork = errors.New("ledger: invalid network")
)

package txn

import "errors"

var (
	// ErrNoOperations indicates a transaction was built with no operations.
	ErrNoOperations = errors.New("txn: no operations")

	// ErrTooManyOperations indicates the operation count exceeds the envelope limit.
	ErrTooManyOperations = errors.New("txn: too many operations")

	// ErrInvalidOperation indicates an operation failed its own validation.
	ErrInvalidOperation = errors.New("txn: invalid operation")

	// ErrInvalidSource indicates the source account is not a valid address.
	ErrInvalidSource = errors.New("txn: invalid source account")

	// ErrInvalidSequence indicates a negative sequence number.
	ErrInvalidSequence = errors.New("txn: invalid sequence number")

	// ErrAlreadySigned indicates a mutation was attempted after signing.
	ErrAlreadySigned = errors.New("txn: transaction already signed")

	// ErrNoPassphrase indicates signing was attempted without a network passphrase.
	ErrNoPassphrase = errors.New("txn: network passphrase required")

	// ErrEncodingFailed indicates the envelope could not be serialized.
	ErrEncodingFailed = errors.New("txn: envelope encoding failed")

	// ErrDecodingFailed indicates an envelope could not be parsed.
	ErrDecodingFailed = errors.New("txn: envelope decoding failed")
)

package keys

import "errors"

var (
	// ErrInvalidAddress indicates a string is not a valid account identifier.
	ErrInvalidAddress = errors.New("keys: invalid account address")

	// ErrInvalidSecret indicates a string is not a valid signing seed.
	ErrInvalidSecret = errors.New("keys: invalid secret seed")

	// ErrInvalidContractID indicates a string is not a valid contract identifier.
	ErrInvalidContractID = errors.New("keys: invalid contract id")

	// ErrInvalidKeyLength indicates an encoded key has the wrong length.
	ErrInvalidKeyLength = errors.New("keys: invalid key length")

	// ErrInvalidKeyEncoding indicates an encoded key is not valid base32.
	ErrInvalidKeyEncoding = errors.New("keys: invalid key encoding")

	// ErrInvalidVersionByte indicates an encoded key carries the wrong version byte.
	ErrInvalidVersionByte = errors.New("keys: invalid version byte")

	// ErrInvalidChecksum indicates an encoded key fails its checksum.
	ErrInvalidChecksum = errors.New("keys: invalid checksum")
)

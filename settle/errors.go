package settle

import "errors"

var (
	// ErrInvalidSecret indicates a source secret that does not parse.
	ErrInvalidSecret = errors.New("settle: invalid source secret")

	// ErrInvalidMerchant indicates a malformed merchant destination.
	ErrInvalidMerchant = errors.New("settle: invalid merchant destination")

	// ErrInvalidVault indicates a malformed vault destination on a
	// request carrying a positive roundoff.
	ErrInvalidVault = errors.New("settle: invalid vault destination")

	// ErrInvalidAmount indicates a negative or zero merchant amount, or
	// a negative roundoff.
	ErrInvalidAmount = errors.New("settle: invalid amount")
)

package keys

import (
	"crypto/ed25519"
	"fmt"
)

// Keypair is an ed25519 signing keypair identified by a strkey address.
// The seed is held only for the lifetime of the value; nothing in this
// package persists it.
type Keypair struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// ParseSecret parses an "S…" strkey seed into a Keypair. A given seed
// always maps to the same address.
func ParseSecret(seed string) (*Keypair, error) {
	raw, err := decodeStrkey(VersionSeed, seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSecret, err)
	}
	priv := ed25519.NewKeyFromSeed(raw)
	return &Keypair{
		pub:  priv.Public().(ed25519.PublicKey),
		priv: priv,
	}, nil
}

// FromRawSeed builds a Keypair from a raw 32-byte seed.
func FromRawSeed(seed [32]byte) *Keypair {
	priv := ed25519.NewKeyFromSeed(seed[:])
	return &Keypair{
		pub:  priv.Public().(ed25519.PublicKey),
		priv: priv,
	}
}

// Address returns the strkey account identifier for the public key.
func (kp *Keypair) Address() string {
	var pub [32]byte
	copy(pub[:], kp.pub)
	return EncodeAddress(pub)
}

// Seed returns the strkey-encoded seed.
func (kp *Keypair) Seed() string {
	return encodeStrkey(VersionSeed, kp.priv.Seed())
}

// PublicKeyBytes returns the raw 32-byte public key.
func (kp *Keypair) PublicKeyBytes() [32]byte {
	var pub [32]byte
	copy(pub[:], kp.pub)
	return pub
}

// Hint returns the trailing four bytes of the public key, used to tag
// signatures on a transaction envelope.
func (kp *Keypair) Hint() [4]byte {
	var hint [4]byte
	copy(hint[:], kp.pub[len(kp.pub)-4:])
	return hint
}

// Sign signs input with the private key.
func (kp *Keypair) Sign(input []byte) []byte {
	return ed25519.Sign(kp.priv, input)
}

// Verify reports whether sig is a valid signature of input by this keypair.
func (kp *Keypair) Verify(input, sig []byte) bool {
	return ed25519.Verify(kp.pub, input, sig)
}

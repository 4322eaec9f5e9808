package keys

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSeed(b byte) [32]byte {
	var seed [32]byte
	for i := range seed {
		seed[i] = b
	}
	return seed
}

func TestAddressRoundTrip(t *testing.T) {
	kp := FromRawSeed(makeSeed(0x01))
	addr := kp.Address()

	assert.Len(t, addr, 56)
	assert.True(t, strings.HasPrefix(addr, "G"), "address %q should start with G", addr)
	assert.True(t, IsValidAddress(addr))

	raw, err := DecodeAddress(addr)
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKeyBytes(), raw)
	assert.Equal(t, addr, EncodeAddress(raw))
}

func TestSeedRoundTrip(t *testing.T) {
	kp := FromRawSeed(makeSeed(0x42))
	seed := kp.Seed()

	assert.Len(t, seed, 56)
	assert.True(t, strings.HasPrefix(seed, "S"), "seed %q should start with S", seed)

	parsed, err := ParseSecret(seed)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), parsed.Address(), "a seed must map to exactly one address")
}

func TestContractIDRoundTrip(t *testing.T) {
	raw := makeSeed(0x7f)
	id := EncodeContractID(raw)

	assert.True(t, strings.HasPrefix(id, "C"), "contract id %q should start with C", id)
	assert.True(t, IsValidContractID(id))
	assert.False(t, IsValidAddress(id), "contract id must not validate as an account")

	decoded, err := DecodeContractID(id)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestIsValidAddressRejects(t *testing.T) {
	valid := FromRawSeed(makeSeed(0x05)).Address()

	tests := []struct {
		name      string
		candidate string
	}{
		{"empty", ""},
		{"too short", valid[:55]},
		{"too long", valid + "A"},
		{"lowercase", strings.ToLower(valid)},
		{"not base32", valid[:55] + "0"},
		{"seed instead of address", FromRawSeed(makeSeed(0x05)).Seed()},
		{"corrupted checksum", flipLastChar(valid)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, IsValidAddress(tt.candidate))
		})
	}
}

// flipLastChar swaps the final character for a different base32 character,
// which keeps the encoding valid but breaks the checksum.
func flipLastChar(s string) string {
	last := s[len(s)-1]
	repl := byte('A')
	if last == 'A' {
		repl = 'B'
	}
	return s[:len(s)-1] + string(repl)
}

func TestDecodeAddressErrorKinds(t *testing.T) {
	valid := FromRawSeed(makeSeed(0x09)).Address()

	_, err := DecodeAddress("GSHORT")
	assert.ErrorIs(t, err, ErrInvalidKeyLength)

	_, err = DecodeAddress(flipLastChar(valid))
	assert.ErrorIs(t, err, ErrInvalidChecksum)

	_, err = ParseSecret(valid)
	assert.ErrorIs(t, err, ErrInvalidSecret)
}

func TestSignAndVerify(t *testing.T) {
	kp := FromRawSeed(makeSeed(0x11))
	msg := []byte("settlement payload")

	sig := kp.Sign(msg)
	assert.Len(t, sig, 64)
	assert.True(t, kp.Verify(msg, sig))
	assert.False(t, kp.Verify([]byte("tampered"), sig))

	other := FromRawSeed(makeSeed(0x12))
	assert.False(t, other.Verify(msg, sig))
}

func TestHint(t *testing.T) {
	kp := FromRawSeed(makeSeed(0x21))
	pub := kp.PublicKeyBytes()
	hint := kp.Hint()
	assert.Equal(t, pub[28:], hint[:])
}

func TestCRC16KnownVector(t *testing.T) {
	// XModem check value for the ASCII string "123456789".
	assert.Equal(t, uint16(0x31c3), crc16([]byte("123456789")))
}

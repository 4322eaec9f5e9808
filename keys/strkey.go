package keys

import (
	"encoding/base32"
	"fmt"
)

// Version bytes for the strkey encoding. The top five bits select the
// leading character of the encoded form.
const (
	VersionAccount  byte = 6 << 3  // 'G'
	VersionSeed     byte = 18 << 3 // 'S'
	VersionContract byte = 2 << 3  // 'C'
)

const (
	payloadSize = 32
	encodedLen  = 56 // base32 of version(1) + payload(32) + checksum(2)
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// crc16 computes the CRC16-XModem checksum (polynomial 0x1021, zero init)
// that trails every strkey payload.
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// encodeStrkey encodes a 32-byte payload under the given version byte.
func encodeStrkey(version byte, payload []byte) string {
	raw := make([]byte, 0, payloadSize+3)
	raw = append(raw, version)
	raw = append(raw, payload...)
	sum := crc16(raw)
	raw = append(raw, byte(sum), byte(sum>>8)) // little-endian trailer
	return b32.EncodeToString(raw)
}

// decodeStrkey decodes a strkey and verifies length, version byte and
// checksum. It returns the 32-byte payload.
func decodeStrkey(version byte, encoded string) ([]byte, error) {
	if len(encoded) != encodedLen {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrInvalidKeyLength, len(encoded), encodedLen)
	}
	raw, err := b32.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeyEncoding, err)
	}
	if len(raw) != payloadSize+3 {
		return nil, fmt.Errorf("%w: decoded to %d bytes", ErrInvalidKeyLength, len(raw))
	}
	if raw[0] != version {
		return nil, fmt.Errorf("%w: version byte 0x%02x, want 0x%02x", ErrInvalidVersionByte, raw[0], version)
	}
	body := raw[:payloadSize+1]
	want := crc16(body)
	got := uint16(raw[payloadSize+1]) | uint16(raw[payloadSize+2])<<8
	if got != want {
		return nil, fmt.Errorf("%w: 0x%04x, want 0x%04x", ErrInvalidChecksum, got, want)
	}
	out := make([]byte, payloadSize)
	copy(out, raw[1:payloadSize+1])
	return out, nil
}

// IsValidAddress reports whether candidate is a structurally valid
// account identifier (a "G…" strkey). It performs no network I/O and is
// the precondition check for every operation that takes an address.
func IsValidAddress(candidate string) bool {
	_, err := decodeStrkey(VersionAccount, candidate)
	return err == nil
}

// IsValidContractID reports whether candidate is a structurally valid
// contract identifier (a "C…" strkey).
func IsValidContractID(candidate string) bool {
	_, err := decodeStrkey(VersionContract, candidate)
	return err == nil
}

// DecodeAddress decodes an account identifier into its raw 32-byte
// ed25519 public key.
func DecodeAddress(address string) ([32]byte, error) {
	var out [32]byte
	raw, err := decodeStrkey(VersionAccount, address)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	copy(out[:], raw)
	return out, nil
}

// EncodeAddress encodes a raw ed25519 public key as an account identifier.
func EncodeAddress(pub [32]byte) string {
	return encodeStrkey(VersionAccount, pub[:])
}

// DecodeContractID decodes a contract identifier into its raw 32 bytes.
func DecodeContractID(id string) ([32]byte, error) {
	var out [32]byte
	raw, err := decodeStrkey(VersionContract, id)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidContractID, err)
	}
	copy(out[:], raw)
	return out, nil
}

// EncodeContractID encodes raw contract bytes as a contract identifier.
func EncodeContractID(raw [32]byte) string {
	return encodeStrkey(VersionContract, raw[:])
}

// Package txn builds, signs and serializes settlement transactions.
//
// A transaction is an ordered list of operations under one source
// account and sequence number. The ledger applies the operations
// atomically: either every operation takes effect or none does. The
// envelope encoding here is the project's canonical binary form
// (length-prefixed, big-endian); the signature base binds it to a
// network passphrase so envelopes cannot replay across networks.
package txn

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/aman-coder03/microyield-go/keys"
)

// MinBaseFee is the smallest per-operation fee the ledger accepts.
const MinBaseFee uint32 = 100

// Params are the inputs for Build.
type Params struct {
	// SourceAccount is the strkey address whose sequence number the
	// transaction consumes.
	SourceAccount string

	// Sequence is the sequence number this transaction occupies; it must
	// be exactly one above the account's current value at submission.
	Sequence int64

	// BaseFee is the fee bid in stroops. Zero selects MinBaseFee.
	BaseFee uint32

	// Timeout bounds the validity window. After SourceAccount's clock
	// passes build-time + Timeout the transaction is no longer eligible
	// for inclusion and must be rebuilt with a fresh sequence number.
	// Zero means no expiry.
	Timeout time.Duration

	// Operations are applied in order, atomically.
	Operations []Operation
}

// DecoratedSignature pairs a signature with the hint identifying the
// public key that produced it.
type DecoratedSignature struct {
	Hint      [4]byte
	Signature []byte
}

// Transaction is a built, possibly signed transaction. Once signed it
// is immutable; retries must build a new Transaction.
type Transaction struct {
	source  [32]byte
	fee     uint32
	seq     int64
	minTime uint64
	maxTime uint64
	ops     []Operation
	sigs    []DecoratedSignature
}

// Build validates params and assembles an unsigned Transaction.
func Build(p Params) (*Transaction, error) {
	source, err := keys.DecodeAddress(p.SourceAccount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	if p.Sequence < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSequence, p.Sequence)
	}
	if len(p.Operations) == 0 {
		return nil, ErrNoOperations
	}
	if len(p.Operations) > math.MaxUint8 {
		return nil, fmt.Errorf("%w: %d", ErrTooManyOperations, len(p.Operations))
	}
	for _, op := range p.Operations {
		if err := op.validate(); err != nil {
			return nil, err
		}
	}

	tx := &Transaction{
		source: source,
		fee:    p.BaseFee,
		seq:    p.Sequence,
		ops:    p.Operations,
	}
	if tx.fee == 0 {
		tx.fee = MinBaseFee
	}
	if p.Timeout > 0 {
		tx.maxTime = uint64(time.Now().Add(p.Timeout).Unix())
	}
	return tx, nil
}

// WithFee raises the fee bid, typically after a simulation reports the
// resource fee a contract invocation needs. It fails once the
// transaction carries any signature.
func (tx *Transaction) WithFee(fee uint32) error {
	if len(tx.sigs) > 0 {
		return ErrAlreadySigned
	}
	tx.fee = fee
	return nil
}

// Fee returns the current fee bid in stroops.
func (tx *Transaction) Fee() uint32 { return tx.fee }

// Sequence returns the sequence number the transaction occupies.
func (tx *Transaction) Sequence() int64 { return tx.seq }

// SourceAccount returns the strkey address of the source account.
func (tx *Transaction) SourceAccount() string { return keys.EncodeAddress(tx.source) }

// Operations returns the ordered operation list.
func (tx *Transaction) Operations() []Operation { return tx.ops }

// Signatures returns the decorated signatures attached so far.
func (tx *Transaction) Signatures() []DecoratedSignature { return tx.sigs }

// body serializes the signable portion of the transaction.
func (tx *Transaction) body() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(tx.source[:])

	var scratch [8]byte
	binary.BigEndian.PutUint32(scratch[:4], tx.fee)
	buf.Write(scratch[:4])
	binary.BigEndian.PutUint64(scratch[:], uint64(tx.seq))
	buf.Write(scratch[:])
	binary.BigEndian.PutUint64(scratch[:], tx.minTime)
	buf.Write(scratch[:])
	binary.BigEndian.PutUint64(scratch[:], tx.maxTime)
	buf.Write(scratch[:])

	buf.WriteByte(uint8(len(tx.ops)))
	for _, op := range tx.ops {
		if err := op.encodeTo(&buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Hash returns the signature base hash for the given network
// passphrase: SHA-256 over the passphrase hash concatenated with the
// serialized body.
func (tx *Transaction) Hash(networkPassphrase string) ([32]byte, error) {
	var zero [32]byte
	if networkPassphrase == "" {
		return zero, ErrNoPassphrase
	}
	body, err := tx.body()
	if err != nil {
		return zero, err
	}
	networkID := sha256.Sum256([]byte(networkPassphrase))
	return sha256.Sum256(append(networkID[:], body...)), nil
}

// Sign appends kp's decorated signature over the transaction hash.
// The transaction is frozen from the first signature onward.
func (tx *Transaction) Sign(networkPassphrase string, kp *keys.Keypair) error {
	hash, err := tx.Hash(networkPassphrase)
	if err != nil {
		return err
	}
	tx.sigs = append(tx.sigs, DecoratedSignature{
		Hint:      kp.Hint(),
		Signature: kp.Sign(hash[:]),
	})
	return nil
}

// EnvelopeBase64 serializes the transaction and its signatures as a
// base64 envelope. Unsigned envelopes are valid input for simulation.
func (tx *Transaction) EnvelopeBase64() (string, error) {
	body, err := tx.body()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	buf.Write(body)
	buf.WriteByte(uint8(len(tx.sigs)))
	for _, sig := range tx.sigs {
		buf.Write(sig.Hint[:])
		buf.Write(sig.Signature)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

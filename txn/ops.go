package txn

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/aman-coder03/microyield-go/keys"
)

// Operation type tags in the envelope encoding.
const (
	opTypePayment        uint8 = 1
	opTypeInvokeContract uint8 = 2
)

// Operation is a single ledger operation inside a transaction. The
// ledger applies all operations of a transaction atomically, or none.
type Operation interface {
	validate() error
	encodeTo(buf *bytes.Buffer) error
}

// Payment moves a native-asset amount (in stroops) from the transaction
// source to Destination.
type Payment struct {
	Destination string
	Amount      int64
}

func (p *Payment) validate() error {
	if !keys.IsValidAddress(p.Destination) {
		return fmt.Errorf("%w: payment destination %q", ErrInvalidOperation, p.Destination)
	}
	if p.Amount <= 0 {
		return fmt.Errorf("%w: payment amount %d", ErrInvalidOperation, p.Amount)
	}
	return nil
}

func (p *Payment) encodeTo(buf *bytes.Buffer) error {
	dest, err := keys.DecodeAddress(p.Destination)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	buf.WriteByte(opTypePayment)
	buf.Write(dest[:])
	var amt [8]byte
	binary.BigEndian.PutUint64(amt[:], uint64(p.Amount))
	buf.Write(amt[:])
	return nil
}

// InvokeContract calls Function on the contract identified by
// ContractID with the given ordered arguments. Arguments are any values
// carrying their own binary form; the contract package's tagged Val
// type satisfies this.
type InvokeContract struct {
	ContractID string
	Function   string
	Args       []encoding.BinaryMarshaler
}

func (ic *InvokeContract) validate() error {
	if !keys.IsValidContractID(ic.ContractID) {
		return fmt.Errorf("%w: contract id %q", ErrInvalidOperation, ic.ContractID)
	}
	if ic.Function == "" {
		return fmt.Errorf("%w: empty contract function", ErrInvalidOperation)
	}
	if len(ic.Function) > math.MaxUint8 {
		return fmt.Errorf("%w: function name too long", ErrInvalidOperation)
	}
	if len(ic.Args) > math.MaxUint8 {
		return fmt.Errorf("%w: too many contract arguments", ErrInvalidOperation)
	}
	return nil
}

func (ic *InvokeContract) encodeTo(buf *bytes.Buffer) error {
	id, err := keys.DecodeContractID(ic.ContractID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	buf.WriteByte(opTypeInvokeContract)
	buf.Write(id[:])
	buf.WriteByte(uint8(len(ic.Function)))
	buf.WriteString(ic.Function)
	buf.WriteByte(uint8(len(ic.Args)))
	for i, arg := range ic.Args {
		raw, err := arg.MarshalBinary()
		if err != nil {
			return fmt.Errorf("%w: argument %d: %w", ErrEncodingFailed, i, err)
		}
		if len(raw) > math.MaxUint16 {
			return fmt.Errorf("%w: argument %d too large", ErrEncodingFailed, i)
		}
		var n [2]byte
		binary.BigEndian.PutUint16(n[:], uint16(len(raw)))
		buf.Write(n[:])
		buf.Write(raw)
	}
	return nil
}

// RawValue is an opaque, already-encoded contract argument. ParseEnvelope
// produces RawValue arguments; callers decode them with the contract
// package's value codec.
type RawValue []byte

// MarshalBinary returns the stored bytes unchanged.
func (r RawValue) MarshalBinary() ([]byte, error) { return r, nil }

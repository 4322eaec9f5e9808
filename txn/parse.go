package txn

import (
	"bytes"
	"encoding"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/aman-coder03/microyield-go/keys"
)

const signatureSize = 64

// ParseEnvelope decodes a base64 envelope back into a Transaction.
// Contract-invocation arguments come back as opaque RawValue bytes.
func ParseEnvelope(envelope string) (*Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	r := bytes.NewReader(raw)

	tx := &Transaction{}
	if _, err := io.ReadFull(r, tx.source[:]); err != nil {
		return nil, fmt.Errorf("%w: source: %w", ErrDecodingFailed, err)
	}

	var scratch [8]byte
	if _, err := io.ReadFull(r, scratch[:4]); err != nil {
		return nil, fmt.Errorf("%w: fee: %w", ErrDecodingFailed, err)
	}
	tx.fee = binary.BigEndian.Uint32(scratch[:4])

	if _, err := io.ReadFull(r, scratch[:]); err != nil {
		return nil, fmt.Errorf("%w: sequence: %w", ErrDecodingFailed, err)
	}
	tx.seq = int64(binary.BigEndian.Uint64(scratch[:]))

	if _, err := io.ReadFull(r, scratch[:]); err != nil {
		return nil, fmt.Errorf("%w: min time: %w", ErrDecodingFailed, err)
	}
	tx.minTime = binary.BigEndian.Uint64(scratch[:])

	if _, err := io.ReadFull(r, scratch[:]); err != nil {
		return nil, fmt.Errorf("%w: max time: %w", ErrDecodingFailed, err)
	}
	tx.maxTime = binary.BigEndian.Uint64(scratch[:])

	opCount, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: op count: %w", ErrDecodingFailed, err)
	}
	tx.ops = make([]Operation, 0, opCount)
	for i := 0; i < int(opCount); i++ {
		op, err := decodeOperation(r)
		if err != nil {
			return nil, fmt.Errorf("%w: operation %d: %w", ErrDecodingFailed, i, err)
		}
		tx.ops = append(tx.ops, op)
	}

	sigCount, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: signature count: %w", ErrDecodingFailed, err)
	}
	for i := 0; i < int(sigCount); i++ {
		var sig DecoratedSignature
		if _, err := io.ReadFull(r, sig.Hint[:]); err != nil {
			return nil, fmt.Errorf("%w: signature %d hint: %w", ErrDecodingFailed, i, err)
		}
		sig.Signature = make([]byte, signatureSize)
		if _, err := io.ReadFull(r, sig.Signature); err != nil {
			return nil, fmt.Errorf("%w: signature %d: %w", ErrDecodingFailed, i, err)
		}
		tx.sigs = append(tx.sigs, sig)
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrDecodingFailed, r.Len())
	}
	return tx, nil
}

func decodeOperation(r *bytes.Reader) (Operation, error) {
	opType, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch opType {
	case opTypePayment:
		var dest [32]byte
		if _, err := io.ReadFull(r, dest[:]); err != nil {
			return nil, err
		}
		var amt [8]byte
		if _, err := io.ReadFull(r, amt[:]); err != nil {
			return nil, err
		}
		return &Payment{
			Destination: keys.EncodeAddress(dest),
			Amount:      int64(binary.BigEndian.Uint64(amt[:])),
		}, nil

	case opTypeInvokeContract:
		var id [32]byte
		if _, err := io.ReadFull(r, id[:]); err != nil {
			return nil, err
		}
		fnLen, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		fn := make([]byte, fnLen)
		if _, err := io.ReadFull(r, fn); err != nil {
			return nil, err
		}
		argCount, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		args := make([]encoding.BinaryMarshaler, 0, argCount)
		for i := 0; i < int(argCount); i++ {
			var n [2]byte
			if _, err := io.ReadFull(r, n[:]); err != nil {
				return nil, err
			}
			arg := make(RawValue, binary.BigEndian.Uint16(n[:]))
			if _, err := io.ReadFull(r, arg); err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return &InvokeContract{
			ContractID: keys.EncodeContractID(id),
			Function:   string(fn),
			Args:       args,
		}, nil

	default:
		return nil, fmt.Errorf("unknown operation type 0x%02x", opType)
	}
}

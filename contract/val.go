package contract

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind tags the variants of a contract value.
type Kind uint8

const (
	KindVoid Kind = iota
	KindInt
	KindAddress
	KindSymbol
	KindVec
)

// Val is a tagged contract value. The contract runtime exchanges these
// in two forms: a binary encoding inside transaction envelopes and a
// JSON encoding in simulation results. Decoding is strict -- an
// unrecognized shape is ErrUnparseableValue, never a silent zero.
type Val struct {
	Kind    Kind
	Int     int64
	Address string
	Symbol  string
	Vec     []Val
}

// VoidVal returns the void value.
func VoidVal() Val { return Val{Kind: KindVoid} }

// IntVal returns an integer value in the contract's scaled unit.
func IntVal(v int64) Val { return Val{Kind: KindInt, Int: v} }

// AddressVal returns an account or contract address value.
func AddressVal(addr string) Val { return Val{Kind: KindAddress, Address: addr} }

// SymbolVal returns a short symbol value.
func SymbolVal(s string) Val { return Val{Kind: KindSymbol, Symbol: s} }

// VecVal returns an ordered vector of values.
func VecVal(items ...Val) Val { return Val{Kind: KindVec, Vec: items} }

// MarshalBinary encodes the value for a transaction envelope: a kind
// tag followed by the kind's payload. It satisfies the argument
// interface of txn.InvokeContract.
func (v Val) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encodeTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Val) encodeTo(buf *bytes.Buffer) error {
	buf.WriteByte(byte(v.Kind))
	switch v.Kind {
	case KindVoid:
		return nil
	case KindInt:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(v.Int))
		buf.Write(b[:])
		return nil
	case KindAddress:
		return writeShortString(buf, v.Address)
	case KindSymbol:
		return writeShortString(buf, v.Symbol)
	case KindVec:
		if len(v.Vec) > math.MaxUint8 {
			return fmt.Errorf("%w: vector of %d elements", ErrUnparseableValue, len(v.Vec))
		}
		buf.WriteByte(uint8(len(v.Vec)))
		for _, item := range v.Vec {
			if err := item.encodeTo(buf); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: kind %d", ErrUnparseableValue, v.Kind)
	}
}

func writeShortString(buf *bytes.Buffer, s string) error {
	if len(s) > math.MaxUint8 {
		return fmt.Errorf("%w: string of %d bytes", ErrUnparseableValue, len(s))
	}
	buf.WriteByte(uint8(len(s)))
	buf.WriteString(s)
	return nil
}

// jsonVal is the JSON wire shape of a tagged value.
type jsonVal struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// DecodeJSON decodes a simulation result into a Val. nil or empty input
// and any unknown shape return ErrUnparseableValue.
func DecodeJSON(raw json.RawMessage) (Val, error) {
	if len(raw) == 0 {
		return Val{}, fmt.Errorf("%w: empty result", ErrUnparseableValue)
	}
	var jv jsonVal
	if err := json.Unmarshal(raw, &jv); err != nil {
		return Val{}, fmt.Errorf("%w: %w", ErrUnparseableValue, err)
	}

	switch jv.Type {
	case "void":
		return VoidVal(), nil

	case "i128":
		var s string
		if err := json.Unmarshal(jv.Value, &s); err != nil {
			return Val{}, fmt.Errorf("%w: i128 payload: %w", ErrUnparseableValue, err)
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Val{}, fmt.Errorf("%w: i128 %q", ErrUnparseableValue, s)
		}
		return IntVal(n), nil

	case "address":
		var s string
		if err := json.Unmarshal(jv.Value, &s); err != nil {
			return Val{}, fmt.Errorf("%w: address payload: %w", ErrUnparseableValue, err)
		}
		return AddressVal(s), nil

	case "symbol":
		var s string
		if err := json.Unmarshal(jv.Value, &s); err != nil {
			return Val{}, fmt.Errorf("%w: symbol payload: %w", ErrUnparseableValue, err)
		}
		return SymbolVal(s), nil

	case "vec":
		var items []json.RawMessage
		if err := json.Unmarshal(jv.Value, &items); err != nil {
			return Val{}, fmt.Errorf("%w: vec payload: %w", ErrUnparseableValue, err)
		}
		vec := make([]Val, 0, len(items))
		for i, item := range items {
			decoded, err := DecodeJSON(item)
			if err != nil {
				return Val{}, fmt.Errorf("vec element %d: %w", i, err)
			}
			vec = append(vec, decoded)
		}
		return VecVal(vec...), nil

	default:
		return Val{}, fmt.Errorf("%w: unknown type %q", ErrUnparseableValue, jv.Type)
	}
}

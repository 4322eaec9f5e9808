package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestQuantizeDown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"merchant payment", "10.123456789", "10.1234567"},
		{"whole roundoff", "3", "3"},
		{"daily yield", "0.2191780821917808", "0.2191780"},
		{"user share", "0.05479450", "0.0547945"},
		{"already exact", "1.0000001", "1.0000001"},
		{"sub-stroop dust", "0.00000009", "0"},
		{"zero", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuantizeDown(dec(t, tt.in))
			assert.True(t, got.Equal(dec(t, tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

// QuantizeDown(a) <= a and the difference is below one stroop.
func TestQuantizeDownNeverRoundsUp(t *testing.T) {
	oneStroop := decimal.New(1, -Precision)
	for _, s := range []string{
		"0.99999999", "1.00000005", "123.45678999", "0.0000001", "7",
	} {
		a := dec(t, s)
		q := QuantizeDown(a)
		assert.True(t, q.LessThanOrEqual(a), "%s: quantized above input", s)
		assert.True(t, a.Sub(q).LessThan(oneStroop), "%s: lost a full stroop", s)
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("42.5")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec(t, "42.5")))

	_, err = Parse("not-a-number")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Parse("-0.01")
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestToStroops(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1", 10000000},
		{"10.1234567", 101234567},
		{"10.123456789", 101234567}, // quantized down first
		{"0.0000001", 1},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := ToStroops(dec(t, tt.in))
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ToStroops(dec(t, "-1"))
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ToStroops(dec(t, "922337203686")) // > MaxInt64 stroops
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestStroopRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, 10000000, 101234567} {
		back, err := ToStroops(FromStroops(v))
		require.NoError(t, err)
		assert.Equal(t, v, back)
	}
}

func TestContractUnitsMatchStroops(t *testing.T) {
	d := dec(t, "250")
	units, err := ToContractUnits(d)
	require.NoError(t, err)
	assert.Equal(t, int64(2500000000), units)
	assert.True(t, FromContractUnits(units).Equal(d))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "10.1234567", Format(dec(t, "10.123456789")))
	assert.Equal(t, "3.0000000", Format(dec(t, "3")))
}

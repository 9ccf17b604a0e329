package goclickhouse

import (
	"math/big"
	"testing"
)

func TestBigIntLittleEndianRoundTrip(t *testing.T) {
	testcases := []struct {
		name    string
		value   *big.Int
		byteLen int
		signed  bool
	}{
		{"Zero", big.NewInt(0), 16, false},
		{"One", big.NewInt(1), 16, false},
		{"MinusOne", big.NewInt(-1), 16, true},
		{"Large128", new(big.Int).Lsh(big.NewInt(1), 120), 16, false},
		{"Negative128", new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 120)), 16, true},
		{"Large256", new(big.Int).Lsh(big.NewInt(1), 250), 32, false},
		{"MaxSigned", new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1)), 16, true},
		{"MinSigned", new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127)), 16, true},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, ok := appendBigLE(nil, tc.value, tc.byteLen, tc.signed)
			assertTrueF(t, ok)
			assertEqualE(t, len(encoded), tc.byteLen)
			decoded := bigFromLE(encoded, tc.signed)
			assertEqualE(t, decoded.Cmp(tc.value), 0)
		})
	}
}

func TestBigIntFits(t *testing.T) {
	max128 := new(big.Int).Lsh(big.NewInt(1), 128)
	assertFalseE(t, bigFits(max128, 16, false))
	assertTrueE(t, bigFits(new(big.Int).Sub(max128, big.NewInt(1)), 16, false))

	assertFalseE(t, bigFits(big.NewInt(-1), 16, false))

	maxSigned := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	assertTrueE(t, bigFits(maxSigned, 16, true))
	assertFalseE(t, bigFits(new(big.Int).Add(maxSigned, big.NewInt(1)), 16, true))

	minSigned := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	assertTrueE(t, bigFits(minSigned, 16, true))
	assertFalseE(t, bigFits(new(big.Int).Sub(minSigned, big.NewInt(1)), 16, true))
}

func TestBigIntOverflowRejected(t *testing.T) {
	_, ok := appendBigLE(nil, new(big.Int).Lsh(big.NewInt(1), 130), 16, false)
	assertFalseE(t, ok)
	_, ok = appendBigLE(nil, big.NewInt(-1), 16, false)
	assertFalseE(t, ok)
}

func TestParseBigInt(t *testing.T) {
	v, ok := parseBigInt("340282366920938463463374607431768211455", 16, false)
	assertTrueF(t, ok)
	max128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	assertEqualE(t, v.Cmp(max128), 0)

	_, ok = parseBigInt("340282366920938463463374607431768211456", 16, false)
	assertFalseE(t, ok)

	v, ok = parseBigInt("-1", 16, true)
	assertTrueF(t, ok)
	assertEqualE(t, v.Cmp(big.NewInt(-1)), 0)

	_, ok = parseBigInt("not a number", 16, true)
	assertFalseE(t, ok)
}

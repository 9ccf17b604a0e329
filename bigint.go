// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import "math/big"

// RowBinary carries UInt128/256 and Int128/256 as fixed-width little-endian
// words, signed kinds in two's complement. math/big works big-endian and
// sign-magnitude, so both directions go through a byte reverse.

// appendBigLE appends v as a byteLen-wide little-endian integer. It reports
// false when v does not fit the width.
func appendBigLE(dst []byte, v *big.Int, byteLen int, signed bool) ([]byte, bool) {
	if !bigFits(v, byteLen, signed) {
		return dst, false
	}
	enc := v
	if v.Sign() < 0 {
		enc = new(big.Int).Add(v, bigShift(byteLen*8))
	}
	buf := make([]byte, byteLen)
	enc.FillBytes(buf)
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return append(dst, buf...), true
}

// bigFromLE decodes a byteLen-wide little-endian integer.
func bigFromLE(b []byte, signed bool) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[i] = b[len(b)-1-i]
	}
	v := new(big.Int).SetBytes(be)
	if signed && len(b) > 0 && b[len(b)-1]&0x80 != 0 {
		v.Sub(v, bigShift(len(b)*8))
	}
	return v
}

// bigFits reports whether v is representable in byteLen bytes.
func bigFits(v *big.Int, byteLen int, signed bool) bool {
	bits := byteLen * 8
	if !signed {
		return v.Sign() >= 0 && v.BitLen() <= bits
	}
	if v.Sign() >= 0 {
		return v.BitLen() <= bits-1
	}
	// the most negative representable value is -2^(bits-1)
	neg := new(big.Int).Neg(v)
	return neg.Cmp(bigShift(bits-1)) <= 0
}

func bigShift(bits int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(bits))
}

// parseBigInt parses a decimal string and checks the width.
func parseBigInt(s string, byteLen int, signed bool) (*big.Int, bool) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || !bigFits(v, byteLen, signed) {
		return nil, false
	}
	return v, true
}

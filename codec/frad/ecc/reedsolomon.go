/*
NAME
  reedsolomon.go

DESCRIPTION
  reedsolomon.go implements GF(2^8) Reed-Solomon with the generator
  polynomial 0x11D, generator element 2 and first-consecutive-root 1: a
  systematic LFSR encoder, syndrome computation, Berlekamp-Massey error
  location, Chien search, and Forney error-magnitude correction. The
  decoder corrects up to parity/2 symbol errors in a block exactly, rather
  than approximating the correction from the raw syndromes.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ecc implements the Reed-Solomon forward error correction layer
// FrAD uses to protect frame payloads, and the block-chunking wrapper the
// container format drives it through.
package ecc

import "github.com/pkg/errors"

const (
	fieldSize = 256
	prim      = 0x11d
	generator = 2
	fcr       = 1
)

var (
	gfExp [2 * fieldSize]byte
	gfLog [fieldSize]byte
)

func init() {
	x := 1
	for i := 0; i < fieldSize-1; i++ {
		gfExp[i] = byte(x)
		gfLog[x] = byte(i)
		x <<= 1
		if x&fieldSize != 0 {
			x ^= prim
		}
	}
	for i := fieldSize - 1; i < 2*fieldSize; i++ {
		gfExp[i] = gfExp[i-(fieldSize-1)]
	}
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+int(gfLog[b])]
}

func gfDiv(a, b byte) byte {
	if a == 0 {
		return 0
	}
	return gfExp[(int(gfLog[a])+255-int(gfLog[b]))%255]
}

func gfPow(x byte, power int) byte {
	if power == 0 {
		return 1
	}
	if x == 0 {
		return 0
	}
	p := power % 255
	if p < 0 {
		p += 255
	}
	return gfExp[(int(gfLog[x])*p)%255]
}

func gfInverse(x byte) byte {
	return gfExp[255-int(gfLog[x])]
}

// ErrTooManyErrors is returned by Decode when a block carries more symbol
// errors than its parity can correct.
var ErrTooManyErrors = errors.New("ecc: too many errors to correct")

// RSCodec is a Reed-Solomon codec for a fixed (dataSize, paritySize) block
// shape, generator 2, first consecutive root 1, field polynomial 0x11D.
type RSCodec struct {
	DataSize      int
	ParitySize    int
	generatorPoly []byte
}

// NewRSCodec returns a codec for blocks of dataSize data bytes protected by
// paritySize parity bytes.
func NewRSCodec(dataSize, paritySize int) *RSCodec {
	return &RSCodec{
		DataSize:      dataSize,
		ParitySize:    paritySize,
		generatorPoly: generatorPolynomial(paritySize),
	}
}

func generatorPolynomial(nsym int) []byte {
	g := []byte{1}
	for i := 0; i < nsym; i++ {
		g = polyMul(g, []byte{1, gfPow(generator, i+fcr)})
	}
	return g
}

func polyMul(p, q []byte) []byte {
	out := make([]byte, len(p)+len(q)-1)
	for i, pc := range p {
		if pc == 0 {
			continue
		}
		for j, qc := range q {
			out[i+j] ^= gfMul(pc, qc)
		}
	}
	return out
}

// Encode appends ParitySize parity bytes to data (which must hold at most
// DataSize bytes), computed by synthetic division against the generator
// polynomial.
func (c *RSCodec) Encode(data []byte) []byte {
	out := make([]byte, len(data)+c.ParitySize)
	copy(out, data)

	for i := 0; i < len(data); i++ {
		coef := out[i]
		if coef == 0 {
			continue
		}
		for j := 1; j < len(c.generatorPoly); j++ {
			out[i+j] ^= gfMul(c.generatorPoly[j], coef)
		}
	}
	copy(out, data)
	return out
}

// calcSyndromes returns ParitySize syndromes of msg (msg[0] taken as the
// coefficient of the highest power of x, the same order Encode divides in).
func (c *RSCodec) calcSyndromes(msg []byte) []byte {
	synd := make([]byte, c.ParitySize)
	for i := 0; i < c.ParitySize; i++ {
		var val byte
		for j, mj := range msg {
			if mj == 0 {
				continue
			}
			val ^= gfMul(mj, gfPow(generator, (i+fcr)*(len(msg)-1-j)))
		}
		synd[i] = val
	}
	return synd
}

// errorLocator runs the Berlekamp-Massey recursion over synd and returns
// the error locator polynomial Lambda (Lambda[0] == 1).
func errorLocator(synd []byte) []byte {
	c := []byte{1}
	b := []byte{1}
	l := 0
	m := 1
	lastDiscrepancy := byte(1)

	for n := 0; n < len(synd); n++ {
		delta := synd[n]
		for i := 1; i <= l && i < len(c); i++ {
			delta ^= gfMul(c[i], synd[n-i])
		}
		if delta == 0 {
			m++
			continue
		}

		t := append([]byte(nil), c...)
		coef := gfDiv(delta, lastDiscrepancy)
		for len(c) < len(b)+m {
			c = append(c, 0)
		}
		for i, bi := range b {
			c[i+m] ^= gfMul(coef, bi)
		}

		if 2*l <= n {
			l = n + 1 - l
			b = t
			lastDiscrepancy = delta
			m = 1
		} else {
			m++
		}
	}

	return c[:l+1]
}

// chienSearch scans the msgLen candidate positions of lambda's roots and
// returns, for each error found, its byte position within msg and the
// Chien-search index i used to find it (gen^-i is the root).
func chienSearch(lambda []byte, msgLen int) (positions, indices []int) {
	genInv := gfInverse(generator)
	for i := 0; i < msgLen; i++ {
		var eval byte
		x := gfPow(genInv, i)
		xPow := byte(1)
		for _, lc := range lambda {
			eval ^= gfMul(lc, xPow)
			xPow = gfMul(xPow, x)
		}
		if eval == 0 {
			positions = append(positions, msgLen-1-i)
			indices = append(indices, i)
		}
	}
	return positions, indices
}

// errataEvaluator computes Omega(x) = (S(x) * Lambda(x)) mod x^nsym.
func errataEvaluator(synd, lambda []byte, nsym int) []byte {
	prod := polyMul(synd, lambda)
	if len(prod) > nsym {
		prod = prod[:nsym]
	}
	return prod
}

func polyEval(p []byte, x byte) byte {
	var y byte
	xPow := byte(1)
	for _, c := range p {
		y ^= gfMul(c, xPow)
		xPow = gfMul(xPow, x)
	}
	return y
}

// formalDerivative returns the formal derivative of p over GF(2^8): terms
// of odd degree survive (their coefficient is unchanged), terms of even
// degree vanish, per the characteristic-2 derivative rule.
func formalDerivative(p []byte) []byte {
	if len(p) <= 1 {
		return nil
	}
	out := make([]byte, len(p)-1)
	for i := 1; i < len(p); i += 2 {
		out[i-1] = p[i]
	}
	return out
}

// Decode corrects up to ParitySize/2 symbol errors in msg (a full
// DataSize+ParitySize block) and returns the corrected DataSize data bytes.
func (c *RSCodec) Decode(msg []byte) ([]byte, error) {
	synd := c.calcSyndromes(msg)

	allZero := true
	for _, s := range synd {
		if s != 0 {
			allZero = false
			break
		}
	}
	n := c.DataSize
	if n > len(msg) {
		n = len(msg)
	}
	if allZero {
		return append([]byte(nil), msg[:n]...), nil
	}

	lambda := errorLocator(synd)
	errCount := len(lambda) - 1
	if errCount > c.ParitySize/2 {
		return nil, ErrTooManyErrors
	}

	positions, indices := chienSearch(lambda, len(msg))
	if len(positions) != errCount {
		return nil, ErrTooManyErrors
	}

	omega := errataEvaluator(synd, lambda, c.ParitySize)
	deriv := formalDerivative(lambda)

	corrected := append([]byte(nil), msg...)
	for k, pos := range positions {
		if pos < 0 || pos >= len(corrected) {
			continue
		}
		xInv := gfPow(gfInverse(generator), indices[k])
		numerator := polyEval(omega, xInv)
		denom := polyEval(deriv, xInv)
		if denom == 0 {
			return nil, ErrTooManyErrors
		}
		corrected[pos] ^= gfDiv(numerator, denom)
	}

	return corrected[:n], nil
}

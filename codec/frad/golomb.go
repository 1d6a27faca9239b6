/*
NAME
  golomb.go

DESCRIPTION
  golomb.go implements the exponential-Golomb-Rice coder used by profiles 1
  and 2 to pack the quantised DCT coefficients, masking thresholds and LPC
  coefficients ahead of raw-Deflate compression.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package frad

import (
	"bytes"
	"math"

	"github.com/icza/bitio"
)

// GolombEncode packs data as exponential-Golomb-Rice codewords. The first
// output byte is the Rice parameter k = ceil(log2(max|data|))) (0 if data is
// empty or all-zero); every following bit, MSB-first, is the concatenation
// of each value's codeword, zero-padded to a byte boundary.
func GolombEncode(data []int64) []byte {
	if len(data) == 0 {
		return []byte{0}
	}

	var dmax int64
	for _, n := range data {
		a := n
		if a < 0 {
			a = -a
		}
		if a > dmax {
			dmax = a
		}
	}
	var k uint8
	if dmax > 0 {
		k = uint8(math.Ceil(math.Log2(float64(dmax))))
	}

	var buf bytes.Buffer
	buf.WriteByte(k)
	w := bitio.NewWriter(&buf)
	for _, n := range data {
		var x int64
		if n > 0 {
			x = n<<1 - 1
		} else {
			x = -n << 1
		}
		x += 1 << k

		xBits := bitLen(x)
		if xBits == 0 {
			xBits = 1
		}
		totalBits := 2*xBits - (int(k) + 1)

		mask := int64(1)<<uint(totalBits) - 1
		w.WriteBits(uint64(x&mask), uint8(totalBits))
	}
	w.Close()

	return buf.Bytes()
}

// GolombDecode is the inverse of GolombEncode.
func GolombDecode(data []byte) []int64 {
	if len(data) == 0 {
		return nil
	}
	k := data[0]
	kx := int64(1) << k

	r := bitio.NewReader(bytes.NewReader(data[1:]))
	var out []int64
	for {
		m := 0
		var first uint64
		for {
			bit, err := r.ReadBits(1)
			if err != nil {
				return out
			}
			if bit == 1 {
				first = bit
				break
			}
			m++
		}

		cwlen := 2*m + int(k) + 1 // includes the m leading zeros already read.
		n := first
		for i := 0; i < cwlen-m-1; i++ {
			bit, err := r.ReadBits(1)
			if err != nil {
				return out
			}
			n = n<<1 | bit
		}

		signed := int64(n) - kx
		var value int64
		if signed&1 != 0 {
			value = (signed + 1) >> 1
		} else {
			value = -(signed >> 1)
		}
		out = append(out, value)
	}
}

func bitLen(x int64) int {
	n := 0
	for x > 0 {
		n++
		x >>= 1
	}
	return n
}

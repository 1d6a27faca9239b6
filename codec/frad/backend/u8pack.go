/*
NAME
  u8pack.go

DESCRIPTION
  u8pack.go packs/unpacks f64 sample arrays as IEEE 754 f16/f32/f64 byte
  arrays, with a "3s" truncation scheme for the 12/24/48-bit widths: pack to
  the next larger standard float width, then drop one quarter of each
  element's bits (the ones holding the low-order mantissa bits, whichever
  end of the byte/bit stream they land on for the chosen endianness).

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package backend holds the numeric and bitstream primitives shared by the
// frad transform profiles: the DCT/IDCT core, the u8pack float packer, and
// the direct-form IIR filter / FFT cross-correlation used by profile 2's TNS.
package backend

import (
	"bytes"
	"math"

	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

// ErrInvalidBitDepth is returned by Pack/Unpack for a bit depth outside
// {12, 16, 24, 32, 48, 64}.
var ErrInvalidBitDepth = errors.New("backend: invalid bit depth")

func f64ToF16(value float64) uint16 {
	f32 := float32(value)
	bits := math.Float32bits(f32)

	sign := (bits >> 31) & 0x1
	exponent := (bits >> 23) & 0xFF
	mantissa := bits & 0x7FFFFF

	if exponent == 0xFF {
		f16Mantissa := uint16(0)
		if mantissa != 0 {
			f16Mantissa = uint16(mantissa>>13) | 0x200
		}
		return uint16(sign)<<15 | 0x1F<<10 | f16Mantissa
	}

	unbiasedExp := int32(exponent) - 127
	if unbiasedExp < -14 {
		return uint16(sign) << 15
	}
	if unbiasedExp > 15 {
		return uint16(sign)<<15 | 0x1F<<10
	}

	f16Exp := uint16(unbiasedExp + 15)
	f16Mantissa := uint16(mantissa >> 13)
	return uint16(sign)<<15 | f16Exp<<10 | f16Mantissa
}

func f16ToF64(bits uint16) float64 {
	sign := (bits >> 15) & 0x1
	exponent := (bits >> 10) & 0x1F
	mantissa := bits & 0x3FF

	if exponent == 0x1F {
		if mantissa == 0 {
			if sign != 0 {
				return math.Inf(-1)
			}
			return math.Inf(1)
		}
		return math.NaN()
	}

	if exponent == 0 {
		if mantissa == 0 {
			if sign != 0 {
				return math.Copysign(0, -1)
			}
			return 0
		}
		v := math.Pow(2, -14) * (float64(mantissa) / 1024.0)
		if sign != 0 {
			v = -v
		}
		return v
	}

	unbiasedExp := int32(exponent) - 15
	f32Exp := uint32(unbiasedExp + 127)
	f32Mantissa := uint32(mantissa) << 13
	f32Bits := uint32(sign)<<31 | f32Exp<<23 | f32Mantissa
	return float64(math.Float32frombits(f32Bits))
}

func packF16(input []float64, littleEndian bool) []byte {
	out := make([]byte, 0, len(input)*2)
	for _, v := range input {
		bits := f64ToF16(v)
		if littleEndian {
			out = append(out, byte(bits), byte(bits>>8))
		} else {
			out = append(out, byte(bits>>8), byte(bits))
		}
	}
	return out
}

func packF32(input []float64, littleEndian bool) []byte {
	out := make([]byte, 0, len(input)*4)
	for _, v := range input {
		bits := math.Float32bits(float32(v))
		if littleEndian {
			out = append(out, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
		} else {
			out = append(out, byte(bits>>24), byte(bits>>16), byte(bits>>8), byte(bits))
		}
	}
	return out
}

func packF64(input []float64, littleEndian bool) []byte {
	out := make([]byte, 0, len(input)*8)
	for _, v := range input {
		bits := math.Float64bits(v)
		if littleEndian {
			for j := 0; j < 8; j++ {
				out = append(out, byte(bits>>(8*j)))
			}
		} else {
			for j := 7; j >= 0; j-- {
				out = append(out, byte(bits>>(8*j)))
			}
		}
	}
	return out
}

func unpackF16(input []byte, littleEndian bool) []float64 {
	out := make([]float64, 0, len(input)/2)
	for i := 0; i+1 < len(input); i += 2 {
		var bits uint16
		if littleEndian {
			bits = uint16(input[i]) | uint16(input[i+1])<<8
		} else {
			bits = uint16(input[i])<<8 | uint16(input[i+1])
		}
		out = append(out, f16ToF64(bits))
	}
	return out
}

func unpackF32(input []byte, littleEndian bool) []float64 {
	out := make([]float64, 0, len(input)/4)
	for i := 0; i+3 < len(input); i += 4 {
		var bits uint32
		if littleEndian {
			for j := 3; j >= 0; j-- {
				bits = bits<<8 | uint32(input[i+j])
			}
		} else {
			for j := 0; j < 4; j++ {
				bits = bits<<8 | uint32(input[i+j])
			}
		}
		out = append(out, float64(math.Float32frombits(bits)))
	}
	return out
}

func unpackF64(input []byte, littleEndian bool) []float64 {
	out := make([]float64, 0, len(input)/8)
	for i := 0; i+7 < len(input); i += 8 {
		var bits uint64
		if littleEndian {
			for j := 7; j >= 0; j-- {
				bits = bits<<8 | uint64(input[i+j])
			}
		} else {
			for j := 0; j < 8; j++ {
				bits = bits<<8 | uint64(input[i+j])
			}
		}
		out = append(out, math.Float64frombits(bits))
	}
	return out
}

// cutFloat3s removes one quarter of the bits of each packed element, turning
// a buffer of 16/32/64-bit floats into 12/24/48-bit ones.
func cutFloat3s(data []byte, bits int, littleEndian bool) []byte {
	if bits%8 != 0 {
		// The only non-byte-aligned width is 12: each element is a 16-bit
		// float (forced big-endian); keep its top 12 bits.
		var buf bytes.Buffer
		w := bitio.NewWriter(&buf)
		for i := 0; i+1 < len(data); i += 2 {
			v := uint64(data[i])<<8 | uint64(data[i+1])
			w.WriteBits(v>>4, 12)
		}
		w.Close()
		return buf.Bytes()
	}

	size := bits / 8
	chunkSize := size * 4 / 3
	skip := 0
	if littleEndian {
		skip = size / 3
	}
	out := make([]byte, 0, len(data)*size/chunkSize)
	for i := 0; i+chunkSize <= len(data); i += chunkSize {
		start := i + skip
		end := start + size
		if end > len(data) {
			end = len(data)
		}
		out = append(out, data[start:end]...)
	}
	return out
}

// padFloat3s is the inverse of cutFloat3s: it restores the dropped bits as
// zeros on the side cutFloat3s removed them from.
func padFloat3s(data []byte, bits int, littleEndian bool) []byte {
	if bits%8 != 0 {
		var buf bytes.Buffer
		w := bitio.NewWriter(&buf)
		r := bitio.NewReader(bytes.NewReader(data))
		for {
			v, err := r.ReadBits(12)
			if err != nil {
				break
			}
			w.WriteBits(v<<4, 16)
		}
		w.Close()
		return buf.Bytes()
	}

	size := bits / 8
	chunkSize := size * 4 / 3
	padBytes := chunkSize - size
	out := make([]byte, 0, len(data)/size*chunkSize)
	for i := 0; i+size <= len(data); i += size {
		if !littleEndian {
			out = append(out, data[i:i+size]...)
			out = append(out, make([]byte, padBytes)...)
		} else {
			out = append(out, make([]byte, padBytes)...)
			out = append(out, data[i:i+size]...)
		}
	}
	return out
}

// Pack encodes input as bits-wide IEEE 754 floats (12, 16, 24, 32, 48 or 64)
// in the given byte order.
func Pack(input []float64, bits uint16, littleEndian bool) ([]byte, error) {
	if bits%8 != 0 {
		littleEndian = false
	}

	var out []byte
	switch bits {
	case 12, 16:
		out = packF16(input, littleEndian)
	case 24, 32:
		out = packF32(input, littleEndian)
	case 48, 64:
		out = packF64(input, littleEndian)
	default:
		return nil, errors.Wrapf(ErrInvalidBitDepth, "bits=%d", bits)
	}

	if bits%3 == 0 {
		out = cutFloat3s(out, int(bits), littleEndian)
	}
	return out, nil
}

// Unpack decodes input, packed by Pack with the same bits and littleEndian,
// back into f64 samples.
func Unpack(input []byte, bits uint16, littleEndian bool) ([]float64, error) {
	if bits%8 != 0 {
		littleEndian = false
	}

	work := input
	if bits%3 == 0 {
		work = padFloat3s(input, int(bits), littleEndian)
	}

	switch bits {
	case 12, 16:
		return unpackF16(work, littleEndian), nil
	case 24, 32:
		return unpackF32(work, littleEndian), nil
	case 48, 64:
		return unpackF64(work, littleEndian), nil
	default:
		return nil, errors.Wrapf(ErrInvalidBitDepth, "bits=%d", bits)
	}
}

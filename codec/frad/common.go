/*
NAME
  common.go

DESCRIPTION
  common.go defines the FrAD frame/container signatures, profile-class
  predicates, and the CRC-16/ANSI and CRC-32 functions used to protect every
  frame payload.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frad implements the FrAD streaming audio codec: the Audio Stream
// Frame Header (ASFH) parser and writer, the Encoder/Decoder/Repairer
// engines, and the four transform profiles (0, 1, 2 and 4).
package frad

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrBitDepthOverflow is returned when a requested bit depth exceeds every
// entry in a profile's depth table.
var ErrBitDepthOverflow = errors.New("frad: bit depth exceeds profile's range")

// depthIndex returns the index of the narrowest entry in depths that is at
// least bitDepth wide, the convention profiles 0, 1 and 4 use to pick a
// storage width no narrower than the source PCM.
func depthIndex(depths []uint16, bitDepth uint16) (int, error) {
	for i, d := range depths {
		if d >= bitDepth {
			return i, nil
		}
	}
	return 0, ErrBitDepthOverflow
}

// Signature is the 4-byte container signature ("fRad").
var Signature = [4]byte{0x66, 0x52, 0x61, 0x64}

// FrameSignature is the 4-byte signature that introduces every ASFH.
var FrameSignature = [4]byte{0xff, 0xd0, 0xd2, 0x97}

// Profile identifies one of the four transform profiles. Profile 3 is
// reserved and never valid.
type Profile uint8

const (
	Profile0 Profile = 0 // Lossless, DCT-transformed.
	Profile1 Profile = 1 // Lossy, psychoacoustic masking.
	Profile2 Profile = 2 // Lossy, temporal noise shaping.
	Profile4 Profile = 4 // Lossless, untransformed PCM.
)

// lossless lists the profiles using per-frame CRC-32 and a free sample rate.
var lossless = [...]Profile{Profile0, Profile4}

// compact lists the profiles using per-frame CRC-16/ANSI and the restricted
// sample-rate / frame-size tables.
var compact = [...]Profile{Profile1, Profile2}

// ProfileIsLossless reports whether profile belongs to the lossless class
// (profiles 0 and 4): per-frame CRC-32, arbitrary sample rate, no overlap.
func ProfileIsLossless(profile Profile) bool {
	for _, p := range lossless {
		if p == profile {
			return true
		}
	}
	return false
}

// ProfileIsCompact reports whether profile belongs to the compact class
// (profiles 1 and 2): per-frame CRC-16, restricted sample rate and frame
// size tables, overlap enabled.
func ProfileIsCompact(profile Profile) bool {
	for _, p := range compact {
		if p == profile {
			return true
		}
	}
	return false
}

// crc16Table and crc32Table are built once, lazily, and are read-only
// thereafter; they may be shared freely across engines.
var (
	crc16Once  sync.Once
	crc16Table [256]uint16

	crc32Once  sync.Once
	crc32Table [256]uint32
)

func buildCRC16Table() {
	const poly = 0xA001
	for i := 0; i < 256; i++ {
		crc := uint16(i)
		for b := 0; b < 8; b++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ poly
			} else {
				crc >>= 1
			}
		}
		crc16Table[i] = crc
	}
}

func buildCRC32Table() {
	const poly = 0xEDB88320
	for i := 0; i < 256; i++ {
		crc := uint32(i)
		for b := 0; b < 8; b++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ poly
			} else {
				crc >>= 1
			}
		}
		crc32Table[i] = crc
	}
}

// CRC16ANSI computes the reflected CRC-16/ANSI (polynomial 0x8005, table
// built from 0xA001) of data, continuing from the seed crc. Callers wanting
// the checksum of data alone pass a seed of 0; there is no final XOR.
func CRC16ANSI(crc uint16, data []byte) uint16 {
	crc16Once.Do(buildCRC16Table)
	for _, b := range data {
		crc = (crc >> 8) ^ crc16Table[byte(crc)^b]
	}
	return crc
}

// CRC32 computes the standard reflected IEEE CRC-32 (polynomial 0xEDB88320)
// of data, continuing from the seed crc. Callers wanting the checksum of
// data alone pass a seed of 0; the function applies the init/final
// complement internally.
func CRC32(crc uint32, data []byte) uint32 {
	crc32Once.Do(buildCRC32Table)
	crc = ^crc
	for _, b := range data {
		crc = (crc >> 8) ^ crc32Table[byte(crc)^b]
	}
	return ^crc
}

/*
NAME
  profile4.go

DESCRIPTION
  profile4.go implements the lossless untransformed profile: PCM samples are
  packed directly as IEEE 754 floats at the narrowest width covering
  bitDepth, with no DCT and no masking.

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

import "github.com/ausocean/frad/codec/frad/backend"

// Profile4Depths are the storage widths profile 4 may pack PCM samples at,
// narrowest first.
var Profile4Depths = []uint16{12, 16, 24, 32, 48, 64}

// EncodeProfile4 packs pcm at the narrowest Profile4Depths entry covering
// bitDepth (16 if 0).
func EncodeProfile4(pcm []float64, bitDepth uint16, littleEndian bool) (payload []byte, bitDepthIndex uint16, err error) {
	if bitDepth == 0 {
		bitDepth = 16
	}
	idx, err := depthIndex(Profile4Depths, bitDepth)
	if err != nil {
		return nil, 0, err
	}
	payload, err = backend.Pack(pcm, Profile4Depths[idx], littleEndian)
	if err != nil {
		return nil, 0, err
	}
	return payload, uint16(idx), nil
}

// DecodeProfile4 is the inverse of EncodeProfile4. channels is accepted for
// API symmetry with the other profiles but unused: profile 4 has no
// per-channel structure to undo.
func DecodeProfile4(payload []byte, bitDepthIndex uint16, channels uint16, littleEndian bool) ([]float64, error) {
	if int(bitDepthIndex) >= len(Profile4Depths) {
		return nil, ErrBitDepthOverflow
	}
	return backend.Unpack(payload, Profile4Depths[bitDepthIndex], littleEndian)
}

/*
NAME
  profile0.go

DESCRIPTION
  profile0.go implements the lossless DCT transform profile: each channel is
  DCT-II transformed independently, the interleaved coefficients are packed
  as IEEE 754 floats at the narrowest width covering bitDepth, and CRC-32
  over the packed payload is the sole integrity check (no psychoacoustic
  masking, no frame-size restriction).

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

// Profile0Depths are the storage widths profile 0 may pack DCT coefficients
// at, narrowest first.
var Profile0Depths = []uint16{12, 16, 24, 32, 48, 64}

// EncodeProfile0 DCT-transforms pcm (interleaved by channels) and packs the
// result at the narrowest Profile0Depths entry covering bitDepth (16 if 0).
func EncodeProfile0(pcm []float64, bitDepth uint16, channels uint16, littleEndian bool) (payload []byte, bitDepthIndex uint16, err error) {
	if bitDepth == 0 {
		bitDepth = 16
	}
	idx, err := depthIndex(Profile0Depths, bitDepth)
	if err != nil {
		return nil, 0, err
	}

	freqs := transformChannels(pcm, channels, backend.DCT)

	payload, err = backend.Pack(freqs, Profile0Depths[idx], littleEndian)
	if err != nil {
		return nil, 0, err
	}
	return payload, uint16(idx), nil
}

// DecodeProfile0 is the inverse of EncodeProfile0.
func DecodeProfile0(payload []byte, bitDepthIndex uint16, channels uint16, littleEndian bool) ([]float64, error) {
	if int(bitDepthIndex) >= len(Profile0Depths) {
		return nil, ErrBitDepthOverflow
	}
	freqs, err := backend.Unpack(payload, Profile0Depths[bitDepthIndex], littleEndian)
	if err != nil {
		return nil, err
	}
	return transformChannels(freqs, channels, backend.IDCT), nil
}

// transformChannels de-interleaves samples into channels, applies transform
// to each channel independently, and interleaves the results back together.
func transformChannels(samples []float64, channels uint16, transform func([]float64) []float64) []float64 {
	if channels == 0 {
		channels = 1
	}
	n := len(samples)
	out := make([]float64, n)
	for c := 0; c < int(channels); c++ {
		chnl := make([]float64, 0, n/int(channels)+1)
		for i := c; i < n; i += int(channels) {
			chnl = append(chnl, samples[i])
		}
		res := transform(chnl)
		for i, v := range res {
			j := i*int(channels) + c
			if j < n {
				out[j] = v
			}
		}
	}
	return out
}

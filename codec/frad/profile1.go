/*
NAME
  profile1.go

DESCRIPTION
  profile1.go implements the psychoacoustic masking profile: each channel's
  DCT coefficients are divided by an Opus-derived masking threshold, the
  masked coefficients and thresholds are nonlinearly quantised and packed
  with exponential-Golomb-Rice coding, and the combined buffer is raw-Deflate
  compressed. Decoding that fails to inflate (a corrupt or truncated frame)
  yields a silent frame rather than an error, matching the profile's
  tolerance for partial data loss.

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
	"compress/flate"
	"encoding/binary"
	"io"
	"math"

	"github.com/ausocean/frad/codec/frad/backend"
	"github.com/pkg/errors"
)

// Profile1Depths are the bit depths profile 1 records as pcm_scale choices,
// narrowest first; only the index into this table is stored on the wire.
var Profile1Depths = []uint16{8, 12, 16, 24, 32, 48, 64}

func scaleFactor(bitDepth uint16) float64 {
	return math.Pow(2, float64(bitDepth)-1)
}

// EncodeProfile1 masks, quantises and compresses pcm (interleaved by
// channels), first zero-padding it up to the next valid compact frame size.
func EncodeProfile1(pcm []float64, bitDepth uint16, channels uint16, srate uint32, lossLevel float64) (payload []byte, bitDepthIndex uint16, err error) {
	if bitDepth == 0 {
		bitDepth = 16
	}
	idx, err := depthIndex(Profile1Depths, bitDepth)
	if err != nil {
		return nil, 0, err
	}
	pcmScale := scaleFactor(bitDepth)
	lossLevel = math.Max(math.Abs(lossLevel), 0.125)

	if padded := int(MinFrameSizeGE(uint32(len(pcm)/int(channels)))) * int(channels); padded > len(pcm) {
		pcm = append(append([]float64(nil), pcm...), make([]float64, padded-len(pcm))...)
	}

	n := len(pcm)
	freqsMasked := make([]int64, n)
	thresAll := make([]int64, MOSLEN*int(channels))

	samplesPerChnl := n / int(channels)
	for c := 0; c < int(channels); c++ {
		chnl := make([]float64, 0, samplesPerChnl)
		for i := c; i < n; i += int(channels) {
			chnl = append(chnl, pcm[i])
		}

		freqsChnl := backend.DCT(chnl)

		freqsScaled := make([]float64, len(freqsChnl))
		for i, v := range freqsChnl {
			freqsScaled[i] = v * pcmScale
		}

		thresChnl := maskThresMos(freqsScaled, srate, lossLevel, SpreadAlpha)

		divFactor := mappingFromOpus(thresChnl, len(freqsChnl), srate)
		for i, v := range divFactor {
			if v == 0 {
				divFactor[i] = math.Inf(1)
			}
		}

		for i, v := range freqsChnl {
			masked := v / divFactor[i]
			freqsMasked[i*int(channels)+c] = quant(masked * pcmScale)
		}

		for i := 0; i < MOSLEN && i < len(thresChnl); i++ {
			val := math.Max(1.0, thresChnl[i])
			thresAll[i*int(channels)+c] = int64(math.Round(dequant(math.Log(val) / math.Log(math.E/2.0))))
		}
	}

	freqsGol := GolombEncode(freqsMasked)
	thresGol := GolombEncode(thresAll)

	var combined bytes.Buffer
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(thresGol)))
	combined.Write(lenBuf[:])
	combined.Write(thresGol)
	combined.Write(freqsGol)

	var deflated bytes.Buffer
	w, err := flate.NewWriter(&deflated, flate.BestCompression)
	if err != nil {
		return nil, 0, errors.Wrap(err, "profile1: deflate init")
	}
	if _, err := w.Write(combined.Bytes()); err != nil {
		return nil, 0, errors.Wrap(err, "profile1: deflate write")
	}
	if err := w.Close(); err != nil {
		return nil, 0, errors.Wrap(err, "profile1: deflate close")
	}

	return deflated.Bytes(), uint16(idx), nil
}

// DecodeProfile1 is the inverse of EncodeProfile1. It returns fsize*channels
// silent samples, rather than an error, if payload fails to inflate.
func DecodeProfile1(payload []byte, bitDepthIndex uint16, channels uint16, srate, fsize uint32) ([]float64, error) {
	if int(bitDepthIndex) >= len(Profile1Depths) {
		return nil, ErrBitDepthOverflow
	}
	bitDepth := Profile1Depths[bitDepthIndex]
	pcmScale := scaleFactor(bitDepth)
	total := int(fsize) * int(channels)

	decompressed, err := inflateRaw(payload)
	if err != nil || len(decompressed) < 4 {
		return make([]float64, total), nil
	}

	thresLen := binary.BigEndian.Uint32(decompressed[:4])
	if int(thresLen) > len(decompressed)-4 {
		return make([]float64, total), nil
	}
	thresGol := decompressed[4 : 4+thresLen]
	freqsGol := decompressed[4+thresLen:]

	thresDecoded := GolombDecode(thresGol)
	freqsDecoded := GolombDecode(freqsGol)

	freqsMasked := make([]float64, total)
	for i := 0; i < total; i++ {
		if i < len(freqsDecoded) {
			freqsMasked[i] = dequant(float64(freqsDecoded[i])) / pcmScale
		}
	}

	thresCount := MOSLEN * int(channels)
	thres := make([]float64, thresCount)
	for i := 0; i < thresCount && i < len(thresDecoded); i++ {
		thres[i] = math.Pow(math.E/2.0, float64(quant(float64(thresDecoded[i]))))
	}

	pcm := make([]float64, total)
	for c := 0; c < int(channels); c++ {
		freqsMaskedChnl := make([]float64, 0, int(fsize))
		for i := c; i < total; i += int(channels) {
			freqsMaskedChnl = append(freqsMaskedChnl, freqsMasked[i])
		}
		thresChnl := make([]float64, 0, MOSLEN)
		for i := c; i < thresCount; i += int(channels) {
			thresChnl = append(thresChnl, thres[i])
		}

		mapping := mappingFromOpus(thresChnl, int(fsize), srate)
		freqsChnl := make([]float64, len(freqsMaskedChnl))
		for i := range freqsChnl {
			if i < len(mapping) {
				freqsChnl[i] = freqsMaskedChnl[i] * mapping[i]
			}
		}

		pcmChnl := backend.IDCT(freqsChnl)
		for i, v := range pcmChnl {
			if i >= int(fsize) {
				break
			}
			pcm[i*int(channels)+c] = v
		}
	}

	return pcm, nil
}

func inflateRaw(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return out, nil
}

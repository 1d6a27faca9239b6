/*
NAME
  masking.go

DESCRIPTION
  masking.go implements profile 1's psychoacoustic masking: an Opus-derived
  27-band threshold estimate (RMS energy against an absolute-threshold-of-
  hearing floor), linearly remapped back onto DCT bins, and the nonlinear
  quantiser shared by the masked coefficients and the thresholds themselves.

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
	"math"

	"gonum.org/v1/gonum/floats"
)

// MOSLEN is the number of masking bands profile 1 estimates thresholds for.
const MOSLEN = 27

// QuantAlpha is the exponent of the nonlinear quant/dequant pair shared by
// the masked frequency coefficients and the masking thresholds.
const QuantAlpha = 0.75

// SpreadAlpha is the exponent applied to each band's RMS energy before it is
// compared against the absolute threshold of hearing.
const SpreadAlpha = 0.5

// modifiedOpusSubbands are the MOSLEN+1 Hz band boundaries the masking model
// borrows from Opus's subband layout, extended with a sentinel top edge.
var modifiedOpusSubbands = [MOSLEN + 1]uint32{
	0, 200, 400, 600, 800, 1000, 1200, 1400,
	1600, 2000, 2400, 2800, 3200, 4000, 4800, 5600,
	6800, 8000, 9600, 12000, 15600, 20000, 24000, 28800,
	34400, 40800, 48000, 0xFFFFFFFF,
}

// getBinRange returns the [start, end) DCT bin range band i covers, given a
// spectrum of length n sampled at srate.
func getBinRange(n int, srate uint32, i int) (start, end int) {
	nyquist := float64(srate) / 2.0
	start = int(math.Round(float64(modifiedOpusSubbands[i]) / nyquist * float64(n)))
	end = int(math.Round(float64(modifiedOpusSubbands[i+1]) / nyquist * float64(n)))
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	return start, end
}

// maskThresMos estimates a masking threshold per band from freqs (itself
// already scaled to the PCM's integer range): the band's RMS energy raised
// to alpha, floored by the absolute threshold of hearing at the band's
// center frequency and scaled by lossLevel.
func maskThresMos(freqs []float64, srate uint32, lossLevel, alpha float64) []float64 {
	thres := make([]float64, MOSLEN)
	for i := 0; i < MOSLEN; i++ {
		start, end := getBinRange(len(freqs), srate, i)
		if start >= end {
			continue
		}

		var sumSq float64
		for _, v := range freqs[start:end] {
			sumSq += v * v
		}
		rms := math.Sqrt(sumSq / float64(end-start))

		f := (float64(modifiedOpusSubbands[i]) + float64(modifiedOpusSubbands[i+1])) / 2.0 / 1000.0
		ath := math.Pow(10.0, (3.64*math.Pow(f, -0.8)-6.5*math.Exp(-0.6*math.Pow(f-3.3, 2))+1e-3*math.Pow(f, 4))/20.0)
		sfq := math.Pow(rms, alpha)

		thres[i] = math.Max(sfq, math.Min(ath, 1.0)) * lossLevel
	}
	return thres
}

// mappingFromOpus expands the MOSLEN band thresholds back to freqLen DCT
// bins by linearly interpolating between each pair of adjacent bands.
func mappingFromOpus(thres []float64, freqLen int, srate uint32) []float64 {
	out := make([]float64, freqLen)
	for i := 0; i < MOSLEN-1; i++ {
		start, end := getBinRange(freqLen, srate, i)
		num := end - start
		if num == 0 {
			continue
		}
		spaced := linspace(thres[i], thres[i+1], num)
		for j := 0; j < num && start+j < freqLen; j++ {
			out[start+j] = spaced[j]
		}
	}
	return out
}

// linspace returns num values evenly spaced from start, stepping by
// (end-start)/num (the endpoint itself is not included), mirroring NumPy's
// linspace(..., endpoint=False). It is built on gonum's floats.Span and
// trimmed by one sample to drop the endpoint.
func linspace(start, end float64, num int) []float64 {
	if num <= 0 {
		return nil
	}
	if num == 1 {
		return []float64{start}
	}
	spanned := make([]float64, num+1)
	floats.Span(spanned, start, end)
	return spanned[:num]
}

// quant applies profile 1's nonlinear quantiser, used on both the masked
// frequency coefficients and the masking thresholds ahead of Golomb coding.
func quant(x float64) int64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	return int64(sign * math.Pow(math.Abs(x), QuantAlpha))
}

// dequant is the inverse of quant.
func dequant(y float64) float64 {
	sign := 1.0
	if y < 0 {
		sign = -1.0
	}
	return sign * math.Pow(math.Abs(y), 1.0/QuantAlpha)
}

/*
NAME
  tns.go

DESCRIPTION
  tns.go implements Temporal Noise Shaping for profile 2: a per-channel LPC
  estimated by Levinson-Durbin from the DCT coefficients' autocorrelation,
  applied as an all-pole analysis filter when the resulting prediction gain
  exceeds 5dB, and inverted by TNSSynthesis using the quantised LPC carried
  alongside the filtered coefficients.

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

	"github.com/ausocean/frad/codec/frad/backend"
)

// TNSMaxOrder is the highest LPC order TNS will estimate.
const TNSMaxOrder = 12

// tnsL and tnsQuantConst parameterise the nonlinear LPC coefficient
// quantiser: q = round(quantConst * L*|c|/(1-|c|)), sign-carried.
const (
	tnsL         = 1.5
	tnsQuantConst = 3.0
)

func calcAutocorr(freq []float64) []float64 {
	full := backend.CorrelateFull(freq, freq)
	start := len(freq) - 1
	return full[start : start+len(freq)]
}

// levinsonDurbin estimates up to TNSMaxOrder LPC coefficients from an
// autocorrelation sequence via the Levinson-Durbin recursion.
func levinsonDurbin(autocorr []float64) []float64 {
	p := TNSMaxOrder
	if len(autocorr) < p {
		p = len(autocorr)
	}
	a := make([]float64, p+1)
	aPrev := make([]float64, p+1)
	e := autocorr[0]

	for i := 1; i <= p; i++ {
		k := autocorr[i]
		for j := 1; j < i; j++ {
			k -= aPrev[j] * autocorr[i-j]
		}
		if e != 0 {
			k /= e
		}

		a[i] = k
		for j := 1; j < i; j++ {
			a[j] = aPrev[j] - k*aPrev[i-j]
		}
		e *= 1 - k*k
		copy(aPrev, a)
	}

	return append([]float64(nil), a[1:p+1]...)
}

func quantiseLPC(lpc []float64) []int64 {
	out := make([]int64, len(lpc))
	for i, v := range lpc {
		absval := math.Abs(v)
		qVal := tnsL * absval / (1.0 - absval)
		q := int64(math.Round(qVal * tnsQuantConst))
		if v < 0 {
			q = -q
		}
		out[i] = q
	}
	return out
}

func dequantiseLPC(lpcq []int64) []float64 {
	out := make([]float64, len(lpcq))
	for i, q := range lpcq {
		absq := math.Abs(float64(q) / tnsQuantConst)
		val := absq / (tnsL + absq)
		if q < 0 {
			val = -val
		}
		out[i] = val
	}
	return out
}

// predgain returns the prediction gain, in dB, of replacing orig with prc;
// 1000 stands in for a practically infinite gain at near-zero residual.
func predgain(orig, prc []float64) float64 {
	if len(orig) != len(prc) {
		return 0
	}
	var origEnergy, residualEnergy float64
	for i := range orig {
		origEnergy += orig[i] * orig[i]
		diff := orig[i] - prc[i]
		residualEnergy += diff * diff
	}
	if residualEnergy < 2.220446049250313e-16 {
		return 1000.0
	}
	return 10.0 * math.Log10(origEnergy/residualEnergy)
}

// TNSAnalysis runs per-channel LPC estimation and, where the prediction gain
// exceeds 5dB, all-pole filtering over freqs (channel-blocked, i.e.
// freqs[c*csize : (c+1)*csize] for channel c). It returns the (possibly
// filtered) coefficients in the same layout and the quantised LPC per
// channel (TNSMaxOrder zeros where TNS was not applied).
func TNSAnalysis(freqs []float64, channels int) (tnsFreqs []float64, lpcqs []int64) {
	if channels <= 0 {
		return nil, nil
	}
	csize := len(freqs) / channels
	tnsFreqs = make([]float64, len(freqs))
	lpcqs = make([]int64, 0, channels*TNSMaxOrder)

	for c := 0; c < channels; c++ {
		chanData := freqs[c*csize : (c+1)*csize]

		autocorr := calcAutocorr(chanData)
		lpc := levinsonDurbin(autocorr)

		a := make([]float64, len(lpc)+1)
		a[0] = 1.0
		for i, v := range lpc {
			a[i+1] = -v
		}
		tnsChan := backend.ImpulseFilt([]float64{1.0}, a, chanData)

		gain := predgain(chanData, tnsChan)
		if gain > 5.0 {
			copy(tnsFreqs[c*csize:(c+1)*csize], tnsChan)
			lpcqs = append(lpcqs, quantiseLPC(lpc)...)
		} else {
			copy(tnsFreqs[c*csize:(c+1)*csize], chanData)
			n := TNSMaxOrder
			if n > csize {
				n = csize
			}
			lpcqs = append(lpcqs, make([]int64, n)...)
		}
	}

	return tnsFreqs, lpcqs
}

// TNSSynthesis is the inverse of TNSAnalysis.
func TNSSynthesis(tnsFreqs []float64, lpcqs []int64, channels int) []float64 {
	if channels <= 0 {
		return nil
	}
	csize := len(tnsFreqs) / channels
	lpcPerChannel := len(lpcqs) / channels
	freqs := make([]float64, len(tnsFreqs))

	for c := 0; c < channels; c++ {
		chanLPCQ := lpcqs[c*lpcPerChannel : (c+1)*lpcPerChannel]
		chanTNS := tnsFreqs[c*csize : (c+1)*csize]

		hasTNS := false
		for _, q := range chanLPCQ {
			if q != 0 {
				hasTNS = true
				break
			}
		}

		if !hasTNS {
			copy(freqs[c*csize:(c+1)*csize], chanTNS)
			continue
		}

		lpc := dequantiseLPC(chanLPCQ)
		b := make([]float64, len(lpc)+1)
		b[0] = 1.0
		for i, v := range lpc {
			b[i+1] = -v
		}
		chanFreq := backend.ImpulseFilt(b, []float64{1.0}, chanTNS)
		copy(freqs[c*csize:(c+1)*csize], chanFreq)
	}

	return freqs
}

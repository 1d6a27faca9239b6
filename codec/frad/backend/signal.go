/*
NAME
  signal.go

DESCRIPTION
  signal.go implements the direct-form IIR filter used to apply and invert
  TNS's all-pole LPC filter, and a full-length FFT cross-correlation used to
  compute autocorrelation for Levinson-Durbin.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package backend

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// ImpulseFilt applies the direct-form difference equation
// y[i] = Σ b[j]·x_hist[j] − Σ a[j+1]·y_hist[j] to input, where x_hist/y_hist
// are the most recent len(b)/len(a)-1 samples (zero before the first sample).
func ImpulseFilt(b, a, input []float64) []float64 {
	xHist := make([]float64, len(b))
	yHist := make([]float64, len(a)-1)
	out := make([]float64, len(input))

	for i, xi := range input {
		copy(xHist[1:], xHist[:len(xHist)-1])
		xHist[0] = xi

		var y float64
		for j, bj := range b {
			y += bj * xHist[j]
		}
		for j := range yHist {
			y -= a[j+1] * yHist[j]
		}

		if len(yHist) > 0 {
			copy(yHist[1:], yHist[:len(yHist)-1])
			yHist[0] = y
		}
		out[i] = y
	}
	return out
}

// CorrelateFull computes the full linear cross-correlation of x and y (y
// reversed and convolved with x), the same FFT-based technique codec/pcm's
// fastConvolve uses for linear convolution: pad to the next power of two,
// transform, multiply in the frequency domain, and invert.
func CorrelateFull(x, y []float64) []float64 {
	n := len(x) + len(y) - 1
	if n <= 0 {
		return nil
	}
	padLen := int(math.Pow(2, math.Ceil(math.Log2(float64(n)))))

	xp := make([]float64, padLen)
	copy(xp, x)

	yp := make([]float64, padLen)
	for i, v := range y {
		yp[len(y)-1-i] = v
	}

	xFFT := fft.FFTReal(xp)
	yFFT := fft.FFTReal(yp)

	prod := make([]complex128, padLen)
	for i := range prod {
		prod[i] = xFFT[i] * yFFT[i]
	}

	inv := fft.IFFT(prod)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = real(inv[i])
	}
	return out
}

/*
NAME
  dct.go

DESCRIPTION
  dct.go implements the DCT-II/DCT-III pair used by profiles 0, 1 and 2,
  built on top of a complex FFT the way codec/pcm's fastConvolve builds
  linear convolution on top of the same FFT.

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

// DCT computes the length-N DCT-II of x: a length-2N symmetric extension
// [x, reverse(x)] is forward-FFT'd, each of the first N outputs is rotated
// by exp(-jπk/2N) and its real part kept, then scaled by 1/(2N).
func DCT(x []float64) []float64 {
	return dct2Core(x, 1.0/float64(2*len(x)))
}

// IDCT computes the length-N DCT-III (the inverse of DCT up to scale).
func IDCT(x []float64) []float64 {
	return dct3Core(x, 1.0)
}

func dct2Core(x []float64, scale float64) []float64 {
	n := len(x)
	beta := make([]complex128, 2*n)
	for i, v := range x {
		beta[i] = complex(v, 0)
	}
	for i := 0; i < n; i++ {
		beta[n+i] = complex(x[n-1-i], 0)
	}

	spec := fft.FFT(beta)

	out := make([]float64, n)
	for k := 0; k < n; k++ {
		theta := -math.Pi * float64(k) / float64(2*n)
		re := real(spec[k])*math.Cos(theta) - imag(spec[k])*math.Sin(theta)
		out[k] = re * scale
	}
	return out
}

func dct3Core(x []float64, scale float64) []float64 {
	n := len(x)
	beta := make([]complex128, 2*n)
	for i := 0; i < n; i++ {
		theta := -math.Pi * float64(i) / float64(2*n)
		beta[i] = complex(x[i]*math.Cos(theta), x[i]*math.Sin(theta))
	}
	for i := 1; i < n; i++ {
		theta := -math.Pi * float64(n-i) / float64(2*n)
		re := x[n-i] * math.Cos(theta)
		im := x[n-i] * math.Sin(theta)
		beta[n+i] = complex(re, -im)
	}

	spec := fft.FFT(beta)

	out := make([]float64, n)
	for k := 0; k < n; k++ {
		out[k] = real(spec[k]) * scale
	}
	return out
}

/*
NAME
  fade.go

DESCRIPTION
  fade.go builds the Hanning crossfade the decoder uses to blend each
  compact-profile frame's leading samples with the previous frame's overlap
  fragment, and applies that blend in place.

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

import "math"

// Fade builds a length-L crossfade such that fade[i] + fade[L-1-i] == 1 for
// every i, with a midpoint of 0.5 when L is odd.
func Fade(l int) []float64 {
	if l <= 0 {
		return nil
	}
	m := (l+1)/2 + 1

	h := make([]float64, l+1)
	for i := m; i <= l; i++ {
		h[i] = 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(l+1)))
	}

	fade := make([]float64, 0, l)
	for i := l; i >= m; i-- {
		fade = append(fade, 1-h[i])
	}
	if l%2 != 0 {
		fade = append(fade, 0.5)
	}
	for i := m; i <= l; i++ {
		fade = append(fade, h[i])
	}
	return fade
}

// OverlapAdd blends the first len(overlap)/channels samples-per-channel of
// frame with overlap, in place, using a Fade of that length: frame[i] =
// frame[i]*fade[i] + overlap[i]*fade[M-1-i], independently per channel.
func OverlapAdd(frame, overlap []float64, channels int) {
	if channels <= 0 || len(overlap) == 0 {
		return
	}
	m := len(overlap) / channels
	fade := Fade(m)
	for i := 0; i < m; i++ {
		for c := 0; c < channels; c++ {
			idx := i*channels + c
			if idx >= len(frame) {
				return
			}
			frame[idx] = frame[idx]*fade[i] + overlap[idx]*fade[m-1-i]
		}
	}
}

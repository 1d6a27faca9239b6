/*
NAME
  compact.go

DESCRIPTION
  compact.go holds the closed sample-rate and frame-size tables used by the
  compact profiles (1 and 2), and the lookups the ASFH codec and the profile
  1/2 encoders use to snap arbitrary values onto them.

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

// CompactSampleRates is the closed set of sample rates valid for a compact
// profile, in descending order.
var CompactSampleRates = [12]uint32{
	96000, 88200, 64000, 48000, 44100, 32000,
	24000, 22050, 16000, 12000, 11025, 8000,
}

// CompactFrameSizes is the closed set of valid per-channel frame sizes for a
// compact profile, in ascending order.
var CompactFrameSizes = [32]uint32{
	128, 160, 240, 256, 320, 384, 480, 512, 576,
	640, 768, 896, 960, 1024, 1152, 1280, 1536,
	1728, 1920, 2048, 2304, 2560, 3072, 3456, 3840,
	4096, 4608, 5120, 6144, 8192, 16384, 28672,
}

// CompactMaxFrameSize is the largest entry in CompactFrameSizes.
const CompactMaxFrameSize = 28672

// ValidSampleRate snaps srate onto CompactSampleRates: if it exceeds the
// table maximum, the maximum is returned; otherwise the smallest table entry
// that is >= srate is returned.
func ValidSampleRate(srate uint32) uint32 {
	if srate > CompactSampleRates[0] {
		return CompactSampleRates[0]
	}
	for i := len(CompactSampleRates) - 1; i >= 0; i-- {
		if CompactSampleRates[i] >= srate {
			return CompactSampleRates[i]
		}
	}
	return CompactSampleRates[0]
}

// SampleRateIndex returns the index into CompactSampleRates of the smallest
// entry >= srate.
func SampleRateIndex(srate uint32) int {
	v := ValidSampleRate(srate)
	for i, s := range CompactSampleRates {
		if s == v {
			return i
		}
	}
	return 0
}

// MinFrameSizeGE returns the smallest entry of CompactFrameSizes that is
// >= n, or 0 if n exceeds every entry.
func MinFrameSizeGE(n uint32) uint32 {
	for _, s := range CompactFrameSizes {
		if s >= n {
			return s
		}
	}
	return 0
}

// FrameSizeIndex returns the index of MinFrameSizeGE(n) in CompactFrameSizes,
// or 0 if n exceeds every entry.
func FrameSizeIndex(n uint32) int {
	v := MinFrameSizeGE(n)
	for i, s := range CompactFrameSizes {
		if s == v {
			return i
		}
	}
	return 0
}

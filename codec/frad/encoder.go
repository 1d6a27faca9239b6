/*
NAME
  encoder.go

DESCRIPTION
  encoder.go implements the streaming FrAD encoder: it accumulates PCM
  samples, cuts them into frames sized for the active profile, prepends the
  previous frame's overlap fragment, transforms and ECC-protects each frame,
  and emits the resulting byte stream.

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

	"github.com/pkg/errors"

	"github.com/ausocean/frad/codec/frad/ecc"
	"github.com/ausocean/frad/logging"
)

// SegmaxProfile1And2 is the largest per-channel frame size profiles 1 and 2
// accept; CompactFrameSizes tops out there regardless.
const SegmaxProfile1And2 = CompactMaxFrameSize

var (
	// ErrInvalidProfile is returned by Params.validate for an unsupported
	// profile (2, having no encoder, or anything outside 0/1/2/4).
	ErrInvalidProfile = errors.New("frad: invalid or unencodable profile")
	// ErrInvalidSampleRate is returned when a compact profile is given a
	// sample rate outside CompactSampleRates.
	ErrInvalidSampleRate = errors.New("frad: invalid sample rate for compact profile")
	// ErrZeroChannels is returned when Params.Channels is 0.
	ErrZeroChannels = errors.New("frad: channel count cannot be zero")
	// ErrInvalidBitDepth is returned when Params.BitDepth is 0 or wider than
	// every entry of the profile's depth table.
	ErrInvalidBitDepth = errors.New("frad: invalid bit depth for profile")
	// ErrInvalidFrameSize is returned when Params.FrameSize is 0 or exceeds
	// the profile's maximum.
	ErrInvalidFrameSize = errors.New("frad: invalid frame size for profile")
)

// Params configures the encoder's critical stream parameters.
type Params struct {
	Profile   Profile
	Srate     uint32
	Channels  uint16
	BitDepth  uint16
	FrameSize uint32
}

func segmax(profile Profile) uint32 {
	if ProfileIsCompact(profile) {
		return SegmaxProfile1And2
	}
	return math.MaxUint32
}

func (p Params) validate() error {
	switch p.Profile {
	case Profile0, Profile4:
	case Profile1:
	default:
		return ErrInvalidProfile
	}
	if ProfileIsCompact(p.Profile) {
		valid := false
		for _, s := range CompactSampleRates {
			if s == p.Srate {
				valid = true
				break
			}
		}
		if !valid {
			return ErrInvalidSampleRate
		}
	}
	if p.Channels == 0 {
		return ErrZeroChannels
	}
	if p.BitDepth == 0 {
		return ErrInvalidBitDepth
	}
	switch p.Profile {
	case Profile0, Profile4:
		if _, err := depthIndex(Profile0Depths, p.BitDepth); p.Profile == Profile0 && err != nil {
			return ErrInvalidBitDepth
		}
		if _, err := depthIndex(Profile4Depths, p.BitDepth); p.Profile == Profile4 && err != nil {
			return ErrInvalidBitDepth
		}
	case Profile1:
		if _, err := depthIndex(Profile1Depths, p.BitDepth); err != nil {
			return ErrInvalidBitDepth
		}
	}
	if p.FrameSize == 0 || p.FrameSize > segmax(p.Profile) {
		return ErrInvalidFrameSize
	}
	return nil
}

// EncodeResult is returned by every call to Encoder.Process or Flush.
type EncodeResult struct {
	Data    []byte
	Samples int // per-channel samples consumed from the input, across all frames.
}

// Encoder is a streaming FrAD encoder. A caller feeds it PCM samples via
// Process and drains any tail via Flush once the input is exhausted.
type Encoder struct {
	asfh            *ASFH
	buffer          []float64
	overlapFragment []float64

	srate     uint32
	channels  uint16
	bitDepth  uint16
	frameSize uint32
	lossLevel float64
	init      bool
	log       logging.Logger
}

// NewEncoder returns an Encoder configured with params. ECC is disabled,
// overlap is disabled, and loss level defaults to 0.5 until set otherwise.
// An optional Logger records non-fatal conditions (e.g. a frame a profile's
// encoder refused to produce); it defaults to logging.Discard.
func NewEncoder(params Params, log ...logging.Logger) (*Encoder, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	l := logging.Discard
	if len(log) > 0 && log[0] != nil {
		l = log[0]
	}
	enc := &Encoder{
		asfh:      NewASFH(),
		lossLevel: 0.5,
		log:       l,
	}
	enc.asfh.Profile = params.Profile
	enc.srate = params.Srate
	enc.channels = params.Channels
	enc.bitDepth = params.BitDepth
	enc.frameSize = params.FrameSize
	enc.init = true
	return enc, nil
}

// SetProfile reconfigures the encoder's critical parameters. If the channel
// count or sample rate changed, any buffered overlap is flushed (and
// discarded) first, since it can no longer be blended into the new stream.
func (e *Encoder) SetProfile(params Params) error {
	if err := params.validate(); err != nil {
		return err
	}
	if e.channels != params.Channels || e.srate != params.Srate {
		e.Flush()
	}
	e.asfh.Profile = params.Profile
	e.srate = params.Srate
	e.channels = params.Channels
	e.bitDepth = params.BitDepth
	e.frameSize = params.FrameSize
	e.init = true
	return nil
}

// Profile returns the encoder's active profile.
func (e *Encoder) Profile() Profile { return e.asfh.Profile }

// Channels returns the encoder's active channel count.
func (e *Encoder) Channels() uint16 { return e.channels }

// Srate returns the encoder's active sample rate.
func (e *Encoder) Srate() uint32 { return e.srate }

// FrameSize returns the encoder's configured per-channel frame size.
func (e *Encoder) FrameSize() uint32 { return e.frameSize }

// BitDepth returns the encoder's configured bit depth.
func (e *Encoder) BitDepth() uint16 { return e.bitDepth }

// SetECC enables or disables Reed-Solomon protection of encoded frames. A
// dataSize of 0 (or dataSize+checkSize exceeding 255) falls back to the
// default 96/24 ratio.
func (e *Encoder) SetECC(enabled bool, dataSize, checkSize uint8) {
	e.asfh.ECC = enabled
	if dataSize == 0 || int(dataSize)+int(checkSize) > 255 {
		e.asfh.ECCRatio = [2]byte{96, 24}
		return
	}
	e.asfh.ECCRatio = [2]byte{dataSize, checkSize}
}

// SetLittleEndian selects little-endian payload float encoding.
func (e *Encoder) SetLittleEndian(littleEndian bool) { e.asfh.Endian = littleEndian }

// SetLossLevel sets the profile 1 quantisation loss level. The magnitude is
// floored at 0.125.
func (e *Encoder) SetLossLevel(lossLevel float64) {
	e.lossLevel = math.Max(math.Abs(lossLevel), 0.125)
}

// SetOverlapRatio sets the compact-profile overlap ratio, clamped to 2..256
// (or 0 to disable overlap).
func (e *Encoder) SetOverlapRatio(ratio uint16) {
	if ratio != 0 {
		if ratio < 2 {
			ratio = 2
		}
		if ratio > 256 {
			ratio = 256
		}
	}
	e.asfh.OverlapRatio = ratio
}

// overlap prepends the pending overlap fragment to frame and, unless flush
// is set and the profile uses overlap, carves off the new trailing fragment
// for the next call.
func (e *Encoder) overlap(frame []float64, flush bool) []float64 {
	if len(e.overlapFragment) > 0 {
		frame = append(append([]float64(nil), e.overlapFragment...), frame...)
	}

	var next []float64
	channels := int(e.channels)
	if !flush && ProfileIsCompact(e.asfh.Profile) && e.asfh.OverlapRatio > 1 && len(frame) > 0 {
		ratio := int(e.asfh.OverlapRatio)
		cutoff := (len(frame) / channels) * (ratio - 1) / ratio
		next = append(next, frame[cutoff*channels:]...)
	}
	e.overlapFragment = next
	return frame
}

func (e *Encoder) encodeFrame(frame []float64) (payload []byte, bitDepthIndex uint16, err error) {
	switch e.asfh.Profile {
	case Profile1:
		return EncodeProfile1(frame, e.bitDepth, e.channels, e.srate, e.lossLevel)
	case Profile4:
		return EncodeProfile4(frame, e.bitDepth, e.asfh.Endian)
	default:
		return EncodeProfile0(frame, e.bitDepth, e.channels, e.asfh.Endian)
	}
}

func (e *Encoder) inner(samples []float64, flush bool) *EncodeResult {
	e.buffer = append(e.buffer, samples...)

	result := &EncodeResult{}
	if !e.init {
		return result
	}

	channels := int(e.channels)
	for {
		overlapLen := len(e.overlapFragment) / channels
		rlen := int(e.frameSize)
		if overlapLen > rlen {
			rlen = overlapLen
		}
		if ProfileIsCompact(e.asfh.Profile) {
			rlen = int(MinFrameSizeGE(uint32(rlen)))
		}
		rlen -= overlapLen
		readSamples := rlen * channels

		if len(e.buffer) < readSamples && !flush {
			break
		}

		n := readSamples
		if n > len(e.buffer) {
			n = len(e.buffer)
		}
		frame := append([]float64(nil), e.buffer[:n]...)
		e.buffer = e.buffer[n:]
		samplesInFrame := len(frame) / channels

		frame = e.overlap(frame, flush)
		if len(frame) == 0 {
			result.Data = append(result.Data, e.asfh.ForceFlush()...)
			break
		}

		result.Samples += samplesInFrame
		fsize := uint32(len(frame) / channels)

		payload, bitDepthIndex, err := e.encodeFrame(frame)
		if err != nil {
			e.log.Warning("frame encode failed, stopping", "profile", e.asfh.Profile, "err", err)
			break
		}

		if e.asfh.ECC {
			payload = ecc.Encode(payload, int(e.asfh.ECCRatio[0]), int(e.asfh.ECCRatio[1]))
		}

		e.asfh.BitDepthIndex = bitDepthIndex
		e.asfh.Channels = e.channels
		e.asfh.Fsize = fsize
		e.asfh.Srate = e.srate

		result.Data = append(result.Data, e.asfh.Write(payload)...)
		if flush {
			result.Data = append(result.Data, e.asfh.ForceFlush()...)
		}
	}

	return result
}

// Process consumes interleaved PCM samples and returns every complete
// frame they produce (any remainder stays buffered for the next call).
func (e *Encoder) Process(samples []float64) *EncodeResult {
	return e.inner(samples, false)
}

// Flush encodes every remaining buffered sample (padding the final frame
// with its carried overlap) and, for a compact profile, emits a force-flush
// frame.
func (e *Encoder) Flush() *EncodeResult {
	return e.inner(nil, true)
}

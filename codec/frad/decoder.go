/*
NAME
  decoder.go

DESCRIPTION
  decoder.go implements the streaming FrAD decoder: it resynchronises on the
  frame signature, parses each ASFH, splits and ECC-corrects the payload,
  dispatches to the matching transform profile, and blends each compact
  frame's leading edge with the previous frame's overlap via a Hanning
  crossfade.

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
	"github.com/ausocean/frad/codec/frad/ecc"
	"github.com/ausocean/frad/logging"
)

// DecodeResult is returned by every call to Decoder.Process or Flush.
type DecodeResult struct {
	PCM      []float64 // interleaved by channel.
	Channels uint16
	Srate    uint32
	Frames   int
	Crit     bool // a critical-parameter change (or a force-flush) ended this call.
}

// Decoder is a streaming FrAD decoder. It owns its input buffer, the
// overlap fragment carried between frames, and the ASFH parser state; a
// caller drives it by repeatedly appending stream bytes via Process.
type Decoder struct {
	asfh            *ASFH
	info            *ASFH
	buffer          []byte
	overlapFragment []float64
	fixError        bool
	brokenFrame     bool
	log             logging.Logger
}

// NewDecoder returns a Decoder that, when fixError is true, attempts
// Reed-Solomon repair of any frame whose CRC fails to verify. An optional
// Logger records CRC mismatches, discarded resync bytes and frames dropped
// on a decode error, without altering the decoded PCM; it defaults to
// logging.Discard.
func NewDecoder(fixError bool, log ...logging.Logger) *Decoder {
	l := logging.Discard
	if len(log) > 0 && log[0] != nil {
		l = log[0]
	}
	return &Decoder{
		asfh:     NewASFH(),
		info:     NewASFH(),
		fixError: fixError,
		log:      l,
	}
}

// ASFH returns a snapshot of the header most recently parsed (or under
// construction).
func (d *Decoder) ASFH() ASFH { return *d.asfh }

// IsEmpty reports whether the decoder holds no more than a partial frame
// signature, or its last Process call ended on a broken (truncated) frame.
func (d *Decoder) IsEmpty() bool {
	return len(d.buffer)+len(d.asfh.buffer) < 4 || d.brokenFrame
}

func (d *Decoder) applyOverlap(frame []float64) []float64 {
	channels := int(d.asfh.Channels)
	if channels == 0 {
		channels = 1
	}

	if len(d.overlapFragment) > 0 {
		overlapLen := len(d.overlapFragment) / channels
		frameSamples := len(frame) / channels
		actual := overlapLen
		if frameSamples < actual {
			actual = frameSamples
		}
		OverlapAdd(frame, d.overlapFragment[:actual*channels], channels)
	}

	var nextOverlap []float64
	if ProfileIsCompact(d.asfh.Profile) && d.asfh.OverlapRatio != 0 {
		ratio := int(d.asfh.OverlapRatio)
		cutout := (len(frame) / channels) * (ratio - 1) / ratio
		nextOverlap = append(nextOverlap, frame[cutout*channels:]...)
		frame = frame[:cutout*channels]
	}

	d.overlapFragment = nextOverlap
	return frame
}

func (d *Decoder) decodeFrame(payload []byte) ([]float64, error) {
	if d.asfh.ECC {
		var mismatch bool
		switch {
		case ProfileIsLossless(d.asfh.Profile):
			mismatch = CRC32(0, payload) != d.asfh.CRC32
		case ProfileIsCompact(d.asfh.Profile):
			mismatch = CRC16ANSI(0, payload) != d.asfh.CRC16
		}
		if mismatch {
			d.log.Debug("frame CRC mismatch", "repairing", d.fixError)
		}
		repair := d.fixError && mismatch
		payload = ecc.Decode(payload, int(d.asfh.ECCRatio[0]), int(d.asfh.ECCRatio[1]), repair)
	}

	switch d.asfh.Profile {
	case Profile1:
		return DecodeProfile1(payload, d.asfh.BitDepthIndex, d.asfh.Channels, d.asfh.Srate, d.asfh.Fsize)
	case Profile2:
		return DecodeProfile2(payload, d.asfh.BitDepthIndex, d.asfh.Channels, d.asfh.Fsize)
	case Profile4:
		return DecodeProfile4(payload, d.asfh.BitDepthIndex, d.asfh.Channels, d.asfh.Endian)
	default:
		return DecodeProfile0(payload, d.asfh.BitDepthIndex, d.asfh.Channels, d.asfh.Endian)
	}
}

// Process consumes stream (appended to the decoder's input buffer) and
// decodes every frame it can. It returns once the buffer runs dry, a
// critical-parameter change or force-flush frame is encountered (in which
// case Crit is true), or the remaining buffer is a truncated frame.
func (d *Decoder) Process(stream []byte) *DecodeResult {
	d.buffer = append(d.buffer, stream...)

	var pcm []float64
	frames := 0

	for {
		if d.asfh.AllSet() {
			d.brokenFrame = false
			if uint64(len(d.buffer)) < d.asfh.Frmbytes {
				if len(stream) == 0 {
					d.brokenFrame = true
				}
				break
			}

			payload := d.buffer[:d.asfh.Frmbytes]
			d.buffer = d.buffer[d.asfh.Frmbytes:]

			decoded, err := d.decodeFrame(payload)
			if err == nil {
				decoded = d.applyOverlap(decoded)
				pcm = append(pcm, decoded...)
				frames++
			} else {
				d.log.Warning("dropping undecodable frame", "profile", d.asfh.Profile, "err", err)
			}

			d.asfh.Clear()
			continue
		}

		var found bool
		var discarded []byte
		d.buffer, discarded, found = SeekFrameSignature(d.buffer, d.asfh)
		if len(discarded) > 0 {
			d.log.Debug("discarded resync bytes", "count", len(discarded))
		}
		if !found {
			break
		}

		var result ParseResult
		d.buffer, result = d.asfh.Fill(d.buffer)

		switch result {
		case Complete:
			if !Criteq(d.asfh, d.info) {
				oldSrate, oldChannels := d.info.Srate, d.info.Channels
				d.info.Channels, d.info.Srate = d.asfh.Channels, d.asfh.Srate

				if oldSrate != 0 || oldChannels != 0 {
					pcm = append(pcm, d.overlapFragment...)
					d.overlapFragment = nil
					return &DecodeResult{PCM: pcm, Channels: oldChannels, Srate: oldSrate, Frames: frames, Crit: true}
				}
			}
		case ForceFlush:
			pcm = append(pcm, d.overlapFragment...)
			d.overlapFragment = nil
			d.asfh.Clear()
			return &DecodeResult{PCM: pcm, Channels: d.asfh.Channels, Srate: d.asfh.Srate, Frames: frames, Crit: true}
		case Incomplete:
			return &DecodeResult{PCM: pcm, Channels: d.asfh.Channels, Srate: d.asfh.Srate, Frames: frames}
		}
	}

	return &DecodeResult{PCM: pcm, Channels: d.asfh.Channels, Srate: d.asfh.Srate, Frames: frames}
}

// Flush drains and returns the overlap fragment, clearing decoder state.
func (d *Decoder) Flush() *DecodeResult {
	result := &DecodeResult{
		PCM:      d.overlapFragment,
		Channels: d.asfh.Channels,
		Srate:    d.asfh.Srate,
		Crit:     true,
	}
	d.overlapFragment = nil
	d.asfh.Clear()
	return result
}

/*
NAME
  repairer.go

DESCRIPTION
  repairer.go implements the streaming FrAD repairer: it passes raw stream
  bytes through untouched until a frame header is found, then re-encodes
  each frame's Reed-Solomon protection under a new (data_size, check_size)
  ratio, correcting it first if its CRC no longer matches.

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

// Repairer is a streaming FrAD repairer. It re-encodes every frame's ECC
// under its own (dataSize, checkSize) ratio, leaving the decoded payload
// otherwise untouched (repaired only when a CRC mismatch demands it).
type Repairer struct {
	asfh        *ASFH
	buffer      []byte
	dataSize    byte
	checkSize   byte
	brokenFrame bool
	log         logging.Logger
}

// NewRepairer returns a Repairer that re-encodes ECC at the given ratio. A
// zero dataSize, or a ratio whose sum exceeds 255, falls back to 96/24. An
// optional Logger records the fallback and any CRC-triggered repair; it
// defaults to logging.Discard.
func NewRepairer(dataSize, checkSize byte, log ...logging.Logger) *Repairer {
	l := logging.Discard
	if len(log) > 0 && log[0] != nil {
		l = log[0]
	}
	if dataSize == 0 || int(dataSize)+int(checkSize) > 255 {
		l.Warning("invalid ecc ratio, using default", "dataSize", dataSize, "checkSize", checkSize)
		dataSize, checkSize = 96, 24
	}
	return &Repairer{
		asfh:      NewASFH(),
		dataSize:  dataSize,
		checkSize: checkSize,
		log:       l,
	}
}

// IsEmpty reports whether the repairer holds no more than a partial frame
// signature, or its last Process call ended on a broken (truncated) frame.
func (r *Repairer) IsEmpty() bool {
	return len(r.buffer)+len(r.asfh.buffer) < 4 || r.brokenFrame
}

// ASFH returns a snapshot of the header most recently parsed (or under
// construction).
func (r *Repairer) ASFH() ASFH { return *r.asfh }

// Process consumes stream (appended to the repairer's input buffer) and
// returns every byte it can now emit: pass-through bytes preceding the
// next frame signature, plus each fully re-encoded frame.
func (r *Repairer) Process(stream []byte) []byte {
	r.buffer = append(r.buffer, stream...)

	var out []byte

	for {
		if r.asfh.AllSet() {
			if uint64(len(r.buffer)) < r.asfh.Frmbytes {
				if len(stream) == 0 {
					r.brokenFrame = true
				}
				break
			}
			r.brokenFrame = false

			payload := r.buffer[:r.asfh.Frmbytes]
			r.buffer = r.buffer[r.asfh.Frmbytes:]

			if r.asfh.ECC {
				var mismatch bool
				switch {
				case ProfileIsLossless(r.asfh.Profile):
					mismatch = CRC32(0, payload) != r.asfh.CRC32
				case ProfileIsCompact(r.asfh.Profile):
					mismatch = CRC16ANSI(0, payload) != r.asfh.CRC16
				}
				if mismatch {
					r.log.Debug("frame CRC mismatch, repairing", "profile", r.asfh.Profile)
				}
				payload = ecc.Decode(payload, int(r.asfh.ECCRatio[0]), int(r.asfh.ECCRatio[1]), mismatch)
			}

			payload = ecc.Encode(payload, int(r.dataSize), int(r.checkSize))

			r.asfh.ECC = true
			r.asfh.ECCRatio = [2]byte{r.dataSize, r.checkSize}

			out = append(out, r.asfh.Write(payload)...)
			r.asfh.Clear()
			continue
		}

		var discarded []byte
		var found bool
		r.buffer, discarded, found = SeekFrameSignature(r.buffer, r.asfh)
		out = append(out, discarded...)
		if !found {
			break
		}

		var result ParseResult
		r.buffer, result = r.asfh.Fill(r.buffer)

		switch result {
		case Complete:
		case ForceFlush:
			out = append(out, r.asfh.ForceFlush()...)
			r.asfh.Clear()
			return out
		case Incomplete:
			return out
		}
	}

	return out
}

// Flush drains and returns every remaining buffered byte, verbatim.
func (r *Repairer) Flush() []byte {
	out := r.buffer
	r.buffer = nil
	return out
}

/*
NAME
  asfh.go

DESCRIPTION
  asfh.go implements the Audio Stream Frame Header: its wire layout (Write,
  ForceFlush) and the resumable, pull-based parser state machine (Fill) that
  the Decoder and Repairer drive against a rolling input buffer.

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
	"encoding/binary"
)

// ParseResult is the outcome of a single call to ASFH.Fill.
type ParseResult int

const (
	// Incomplete means more input bytes are required before the header can
	// be fully parsed; all progress made so far is retained internally.
	Incomplete ParseResult = iota
	// Complete means the header (and, for compact profiles with ECC on, its
	// CRC-16, or for lossless profiles, its CRC-32) has been fully parsed; a payload of
	// Frmbytes bytes follows in the input stream.
	Complete
	// ForceFlush means a minimal force-flush header (no payload) was parsed;
	// the caller must drain any pending overlap and move on.
	ForceFlush
)

// ASFH is the Audio Stream Frame Header, one per frame.
type ASFH struct {
	Profile       Profile
	ECC           bool
	Endian        bool // true = little-endian payload float encoding.
	BitDepthIndex uint16
	Channels      uint16
	Srate         uint32
	Fsize         uint32   // payload sample count per channel.
	Frmbytes      uint64   // payload length in bytes.
	OverlapRatio  uint16   // 0, or in 2..256.
	ECCRatio      [2]byte  // (data_size, check_size).
	CRC16         uint16   // compact profiles.
	CRC32         uint32   // lossless profiles.

	buffer []byte // header bytes accumulated so far by Fill.
	allSet bool
}

// NewASFH returns an empty ASFH ready for Fill.
func NewASFH() *ASFH {
	return &ASFH{}
}

// AllSet reports whether the header has been fully parsed (or is a
// force-flush header) and a payload of Frmbytes bytes, if any, may follow.
func (h *ASFH) AllSet() bool { return h.allSet }

// Clear resets the transient parse state (the header buffer and AllSet)
// ahead of the next frame. The last-parsed field values are left untouched
// until the next Fill overwrites them.
func (h *ASFH) Clear() {
	h.buffer = nil
	h.allSet = false
}

// HasSignature reports whether the bytes accumulated so far already begin
// with the frame signature, i.e. whether SEEK has completed.
func (h *ASFH) HasSignature() bool {
	return len(h.buffer) >= 4 && bytes.Equal(h.buffer[:4], FrameSignature[:])
}

// Criteq compares the critical parameters (channels, sample rate) of two
// headers. A change between consecutive frames forces an overlap flush.
func Criteq(a, b *ASFH) bool {
	return a.Channels == b.Channels && a.Srate == b.Srate
}

// SeekFrameSignature scans buf for the frame signature. If asfh.buffer
// already starts with the signature, buf is returned unchanged. Otherwise,
// on a match, the bytes preceding the signature are returned as discarded
// and the 4 signature bytes are consumed into asfh.buffer. If no match is
// found, all but the trailing 3 bytes of buf are returned as discarded (to
// catch a signature split across two reads) and found is false.
func SeekFrameSignature(buf []byte, asfh *ASFH) (remaining, discarded []byte, found bool) {
	if asfh.HasSignature() {
		return buf, nil, true
	}
	if idx := bytes.Index(buf, FrameSignature[:]); idx >= 0 {
		discarded = buf[:idx]
		asfh.buffer = append(asfh.buffer, buf[idx:idx+4]...)
		return buf[idx+4:], discarded, true
	}
	cut := len(buf) - 3
	if cut < 0 {
		cut = 0
	}
	return buf[cut:], buf[:cut], false
}

// pull extends asfh.buffer from buf until it holds at least total bytes,
// consuming as much of buf as needed (but never more). ok is true once
// asfh.buffer reaches total bytes.
func pull(buf []byte, asfh *ASFH, total int) (remaining []byte, ok bool) {
	need := total - len(asfh.buffer)
	if need <= 0 {
		return buf, true
	}
	if len(buf) < need {
		asfh.buffer = append(asfh.buffer, buf...)
		return buf[len(buf):], false
	}
	asfh.buffer = append(asfh.buffer, buf[:need]...)
	return buf[need:], true
}

func overlapRatioFromCode(code byte) uint16 {
	if code == 0 {
		return 0
	}
	return uint16(code) + 1
}

func overlapCodeFromRatio(r uint16) byte {
	if r == 0 {
		return 0
	}
	return byte(r - 1)
}

// Fill advances the header parser using buf as the next available input
// bytes. asfh.buffer must already contain the 4-byte frame signature (see
// SeekFrameSignature). It returns the unconsumed remainder of buf and the
// parse outcome.
func (h *ASFH) Fill(buf []byte) (remaining []byte, result ParseResult) {
	var ok bool

	buf, ok = pull(buf, h, 9) // signature(4) + frmbytes(4) + PFB(1)
	if !ok {
		return buf, Incomplete
	}
	pfb := h.buffer[8]
	profile := Profile((pfb >> 5) & 0x7)
	ecc := (pfb>>4)&1 != 0
	endian := (pfb>>3)&1 != 0
	bitDepthIndex := uint16(pfb & 0x7)

	var fixedLen int // header length before any extended frmbytes field.
	if ProfileIsCompact(profile) {
		buf, ok = pull(buf, h, 11) // + CSS(2)
		if !ok {
			return buf, Incomplete
		}
		css := binary.BigEndian.Uint16(h.buffer[9:11])
		forceFlush := css&0x1 != 0

		buf, ok = pull(buf, h, 12) // + overlap_code(1)
		if !ok {
			return buf, Incomplete
		}
		overlapCode := h.buffer[11]

		if forceFlush {
			h.Profile, h.ECC, h.Endian, h.BitDepthIndex = profile, ecc, endian, bitDepthIndex
			h.Channels = uint16((css>>10)&0x3F) + 1
			h.Frmbytes = 0
			h.OverlapRatio = overlapRatioFromCode(overlapCode)
			h.allSet = true
			return buf, ForceFlush
		}

		total := 12
		if ecc {
			total = 16
		}
		fixedLen = total
		buf, ok = pull(buf, h, total)
		if !ok {
			return buf, Incomplete
		}

		h.Profile, h.ECC, h.Endian, h.BitDepthIndex = profile, ecc, endian, bitDepthIndex
		h.Channels = uint16((css>>10)&0x3F) + 1
		srateIdx := int((css >> 6) & 0xF)
		fsizeIdx := int((css >> 1) & 0x1F)
		if srateIdx < len(CompactSampleRates) {
			h.Srate = CompactSampleRates[srateIdx]
		}
		if fsizeIdx < len(CompactFrameSizes) {
			h.Fsize = CompactFrameSizes[fsizeIdx]
		}
		h.OverlapRatio = overlapRatioFromCode(overlapCode)
		if ecc {
			h.ECCRatio[0] = h.buffer[12]
			h.ECCRatio[1] = h.buffer[13]
			h.CRC16 = binary.BigEndian.Uint16(h.buffer[14:16])
		}
	} else {
		fixedLen = 32
		buf, ok = pull(buf, h, 32)
		if !ok {
			return buf, Incomplete
		}
		h.Profile, h.ECC, h.Endian, h.BitDepthIndex = profile, ecc, endian, bitDepthIndex
		h.Channels = uint16(h.buffer[9]) + 1
		h.ECCRatio[0] = h.buffer[10]
		h.ECCRatio[1] = h.buffer[11]
		h.Srate = binary.BigEndian.Uint32(h.buffer[12:16])
		h.Fsize = binary.BigEndian.Uint32(h.buffer[24:28])
		h.CRC32 = binary.BigEndian.Uint32(h.buffer[28:32])
	}

	frmbytes := binary.BigEndian.Uint32(h.buffer[4:8])
	if frmbytes == 0xFFFFFFFF {
		buf, ok = pull(buf, h, fixedLen+8)
		if !ok {
			return buf, Incomplete
		}
		h.Frmbytes = binary.BigEndian.Uint64(h.buffer[fixedLen : fixedLen+8])
	} else {
		h.Frmbytes = uint64(frmbytes)
	}

	h.allSet = true
	return buf, Complete
}

// Write encodes the header for payload and returns the full frame (header
// followed by payload). It computes and stores the CRC-16 (compact, only
// when ECC is on) or CRC-32 (lossless) of payload.
func (h *ASFH) Write(payload []byte) []byte {
	var out bytes.Buffer
	out.Write(FrameSignature[:])

	n := uint64(len(payload))
	extended := n >= 0xFFFFFFFF
	if extended {
		binary.Write(&out, binary.BigEndian, uint32(0xFFFFFFFF))
	} else {
		binary.Write(&out, binary.BigEndian, uint32(n))
	}

	pfb := byte(h.Profile&0x7)<<5 | boolBit(h.ECC)<<4 | boolBit(h.Endian)<<3 | byte(h.BitDepthIndex&0x7)
	out.WriteByte(pfb)

	if ProfileIsCompact(h.Profile) {
		chnl := h.Channels - 1
		srateIdx := uint16(SampleRateIndex(h.Srate))
		fsizeIdx := uint16(FrameSizeIndex(h.Fsize))
		css := (chnl&0x3F)<<10 | (srateIdx&0xF)<<6 | (fsizeIdx&0x1F)<<1
		binary.Write(&out, binary.BigEndian, css)
		out.WriteByte(overlapCodeFromRatio(h.OverlapRatio))
		if h.ECC {
			h.CRC16 = CRC16ANSI(0, payload)
			out.WriteByte(h.ECCRatio[0])
			out.WriteByte(h.ECCRatio[1])
			binary.Write(&out, binary.BigEndian, h.CRC16)
		}
	} else {
		out.WriteByte(byte(h.Channels - 1))
		out.WriteByte(h.ECCRatio[0])
		out.WriteByte(h.ECCRatio[1])
		binary.Write(&out, binary.BigEndian, h.Srate)
		out.Write(make([]byte, 8))
		binary.Write(&out, binary.BigEndian, h.Fsize)
		h.CRC32 = CRC32(0, payload)
		binary.Write(&out, binary.BigEndian, h.CRC32)
	}

	if extended {
		binary.Write(&out, binary.BigEndian, n)
	}

	out.Write(payload)
	return out.Bytes()
}

// ForceFlush writes a minimal 12-byte force-flush frame for a compact
// profile, or nil for a lossless profile (which has no force-flush
// representation).
func (h *ASFH) ForceFlush() []byte {
	if !ProfileIsCompact(h.Profile) {
		return nil
	}
	var out bytes.Buffer
	out.Write(FrameSignature[:])
	binary.Write(&out, binary.BigEndian, uint32(0))
	pfb := byte(h.Profile&0x7)<<5 | boolBit(h.ECC)<<4 | boolBit(h.Endian)<<3 | byte(h.BitDepthIndex&0x7)
	out.WriteByte(pfb)
	chnl := h.Channels - 1
	srateIdx := uint16(SampleRateIndex(h.Srate))
	fsizeIdx := uint16(FrameSizeIndex(h.Fsize))
	css := (chnl&0x3F)<<10 | (srateIdx&0xF)<<6 | (fsizeIdx&0x1F)<<1 | 0x1
	binary.Write(&out, binary.BigEndian, css)
	out.WriteByte(0)
	return out.Bytes()
}

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

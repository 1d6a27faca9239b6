package frad

import "testing"

func TestASFHWriteFillRoundTripLossless(t *testing.T) {
	h := NewASFH()
	h.Profile = Profile0
	h.Endian = false
	h.BitDepthIndex = 1
	h.Channels = 2
	h.Srate = 48000
	h.Fsize = 1024
	h.ECCRatio = [2]byte{96, 24}

	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	frame := h.Write(payload)

	parser := NewASFH()
	remaining, _, found := SeekFrameSignature(frame, parser)
	if !found {
		t.Fatal("SeekFrameSignature: signature not found")
	}

	remaining, result := parser.Fill(remaining)
	if result != Complete {
		t.Fatalf("Fill result = %v, want Complete", result)
	}
	if parser.Channels != 2 || parser.Srate != 48000 || parser.Fsize != 1024 {
		t.Errorf("parsed header = %+v, want channels=2 srate=48000 fsize=1024", parser)
	}
	if parser.Frmbytes != uint64(len(payload)) {
		t.Errorf("Frmbytes = %d, want %d", parser.Frmbytes, len(payload))
	}
	if len(remaining) != len(payload) {
		t.Errorf("remaining payload length = %d, want %d", len(remaining), len(payload))
	}
}

func TestASFHWriteFillRoundTripCompact(t *testing.T) {
	h := NewASFH()
	h.Profile = Profile1
	h.BitDepthIndex = 2
	h.Channels = 2
	h.Srate = 48000
	h.Fsize = 2048
	h.OverlapRatio = 16
	h.ECC = true
	h.ECCRatio = [2]byte{96, 24}

	payload := []byte{9, 8, 7, 6}
	frame := h.Write(payload)

	parser := NewASFH()
	remaining, _, found := SeekFrameSignature(frame, parser)
	if !found {
		t.Fatal("SeekFrameSignature: signature not found")
	}
	remaining, result := parser.Fill(remaining)
	if result != Complete {
		t.Fatalf("Fill result = %v, want Complete", result)
	}
	if parser.Channels != 2 || parser.Srate != 48000 {
		t.Errorf("parsed header = %+v", parser)
	}
	if parser.OverlapRatio != 16 {
		t.Errorf("OverlapRatio = %d, want 16", parser.OverlapRatio)
	}
	if parser.CRC16 != CRC16ANSI(0, payload) {
		t.Errorf("CRC16 mismatch")
	}
	if len(remaining) != len(payload) {
		t.Errorf("remaining payload length = %d, want %d", len(remaining), len(payload))
	}
}

func TestASFHForceFlush(t *testing.T) {
	h := NewASFH()
	h.Profile = Profile1
	h.Channels = 2
	h.Srate = 48000
	h.OverlapRatio = 16

	frame := h.ForceFlush()

	parser := NewASFH()
	remaining, _, found := SeekFrameSignature(frame, parser)
	if !found {
		t.Fatal("signature not found")
	}
	_, result := parser.Fill(remaining)
	if result != ForceFlush {
		t.Fatalf("Fill result = %v, want ForceFlush", result)
	}
	if parser.Channels != 2 || parser.OverlapRatio != 0 {
		t.Errorf("parsed force-flush header = %+v", parser)
	}
}

func TestASFHIncompleteThenComplete(t *testing.T) {
	h := NewASFH()
	h.Profile = Profile0
	h.Channels = 1
	h.Srate = 44100
	h.Fsize = 512
	h.ECCRatio = [2]byte{96, 24}
	frame := h.Write([]byte{1, 2, 3})

	parser := NewASFH()
	afterSig, _, found := SeekFrameSignature(frame, parser)
	if !found {
		t.Fatal("expected signature found")
	}

	headerBytes := len(frame) - 3 - 4 // frame minus payload(3) minus signature(4)
	remaining, result := parser.Fill(afterSig[:headerBytes-2])
	if result != Incomplete {
		t.Fatalf("Fill on a short prefix = %v, want Incomplete", result)
	}

	rest := append(append([]byte(nil), afterSig[headerBytes-2:]...))
	_ = remaining
	_, result = parser.Fill(rest)
	if result != Complete {
		t.Fatalf("Fill on the remainder = %v, want Complete", result)
	}
}

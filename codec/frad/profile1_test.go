package frad

import "testing"

func TestProfile1EncodeDecodeShape(t *testing.T) {
	const channels = 2
	const fsize = 256
	pcm := make([]float64, fsize*channels)
	for i := range pcm {
		pcm[i] = 0.01 * float64(i%7-3)
	}

	payload, bitDepthIndex, err := EncodeProfile1(pcm, 16, channels, 48000, 0.5)
	if err != nil {
		t.Fatalf("EncodeProfile1: %v", err)
	}

	decoded, err := DecodeProfile1(payload, bitDepthIndex, channels, 48000, fsize)
	if err != nil {
		t.Fatalf("DecodeProfile1: %v", err)
	}
	if len(decoded) != len(pcm) {
		t.Fatalf("decoded length = %d, want %d", len(decoded), len(pcm))
	}
}

func TestProfile1SilentOnCorruptPayload(t *testing.T) {
	const channels = 1
	const fsize = 128
	decoded, err := DecodeProfile1([]byte{0xff, 0xff, 0xff, 0xff}, 2, channels, 48000, fsize)
	if err != nil {
		t.Fatalf("DecodeProfile1 on corrupt payload returned an error: %v", err)
	}
	if len(decoded) != fsize*channels {
		t.Fatalf("decoded length = %d, want %d", len(decoded), fsize*channels)
	}
	for i, v := range decoded {
		if v != 0 {
			t.Errorf("decoded[%d] = %v, want 0 (silent substitution)", i, v)
		}
	}
}

package frad

import "testing"

func TestProfile0RoundTrip(t *testing.T) {
	pcm := []float64{0.1, -0.2, 0.3, -0.4, 0.5, -0.6, 0.25, -0.75}
	const channels = 2

	payload, bitDepthIndex, err := EncodeProfile0(pcm, 32, channels, false)
	if err != nil {
		t.Fatalf("EncodeProfile0: %v", err)
	}

	decoded, err := DecodeProfile0(payload, bitDepthIndex, channels, false)
	if err != nil {
		t.Fatalf("DecodeProfile0: %v", err)
	}
	if len(decoded) != len(pcm) {
		t.Fatalf("decoded length = %d, want %d", len(decoded), len(pcm))
	}
	for i, v := range pcm {
		if diff := decoded[i] - v; diff < -1e-6 || diff > 1e-6 {
			t.Errorf("decoded[%d] = %v, want %v", i, decoded[i], v)
		}
	}
}

func TestProfile4RoundTrip(t *testing.T) {
	pcm := []float64{0.1, -0.2, 0.3, -0.4, 0.5, -0.6}

	payload, bitDepthIndex, err := EncodeProfile4(pcm, 32, false)
	if err != nil {
		t.Fatalf("EncodeProfile4: %v", err)
	}

	decoded, err := DecodeProfile4(payload, bitDepthIndex, 2, false)
	if err != nil {
		t.Fatalf("DecodeProfile4: %v", err)
	}
	if len(decoded) != len(pcm) {
		t.Fatalf("decoded length = %d, want %d", len(decoded), len(pcm))
	}
	for i, v := range pcm {
		if diff := decoded[i] - v; diff < -1e-6 || diff > 1e-6 {
			t.Errorf("decoded[%d] = %v, want %v", i, decoded[i], v)
		}
	}
}

func TestProfile0InvalidBitDepth(t *testing.T) {
	if _, _, err := EncodeProfile0([]float64{0}, 200, 1, false); err != ErrBitDepthOverflow {
		t.Errorf("err = %v, want ErrBitDepthOverflow", err)
	}
}

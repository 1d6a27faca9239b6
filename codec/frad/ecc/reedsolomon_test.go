package ecc

import (
	"bytes"
	"testing"
)

func TestRSCodecRoundTripNoErrors(t *testing.T) {
	rs := NewRSCodec(10, 6)
	data := []byte("helloworld")
	encoded := rs.Encode(data)

	decoded, err := rs.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("decoded = %q, want %q", decoded, data)
	}
}

func TestRSCodecCorrectsErrors(t *testing.T) {
	rs := NewRSCodec(10, 6)
	data := []byte("helloworld")
	encoded := rs.Encode(data)

	corrupted := append([]byte(nil), encoded...)
	corrupted[0] ^= 0xFF
	corrupted[5] ^= 0x11
	corrupted[9] ^= 0x01

	decoded, err := rs.Decode(corrupted)
	if err != nil {
		t.Fatalf("Decode with 3 errors (parity/2=3): %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("decoded = %q, want %q", decoded, data)
	}
}

func TestRSCodecTooManyErrorsDetected(t *testing.T) {
	rs := NewRSCodec(10, 4)
	data := []byte("helloworld")
	encoded := rs.Encode(data)

	corrupted := append([]byte(nil), encoded...)
	for i := 0; i < 4; i++ {
		corrupted[i] ^= byte(0x80 + i)
	}

	if _, err := rs.Decode(corrupted); err == nil {
		t.Error("Decode with 4 errors against 2-error capacity: want an error, got nil")
	}
}

func TestBlockChunkingRoundTrip(t *testing.T) {
	data := make([]byte, 250)
	for i := range data {
		data[i] = byte(i)
	}

	encoded := Encode(data, 50, 10)
	decoded := Decode(encoded, 50, 10, true)
	if !bytes.Equal(decoded, data) {
		t.Errorf("block round trip mismatch: got %d bytes, want %d", len(decoded), len(data))
	}
}

func TestBlockChunkingStripOnly(t *testing.T) {
	data := make([]byte, 120)
	for i := range data {
		data[i] = byte(i * 3)
	}
	encoded := Encode(data, 40, 8)

	decoded := Decode(encoded, 40, 8, false)
	if !bytes.Equal(decoded, data) {
		t.Errorf("strip-only decode mismatch")
	}
}

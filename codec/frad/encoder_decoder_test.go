package frad

import "testing"

func TestEncodeDecodeProfile0RoundTrip(t *testing.T) {
	enc, err := NewEncoder(Params{
		Profile:   Profile0,
		Srate:     48000,
		Channels:  1,
		BitDepth:  32,
		FrameSize: 512,
	})
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	const n = 2000
	pcm := make([]float64, n)
	for i := range pcm {
		pcm[i] = 0.1 * float64(i%11-5)
	}

	result := enc.Process(pcm)
	flushed := enc.Flush()
	stream := append(result.Data, flushed.Data...)
	if len(stream) == 0 {
		t.Fatal("encoded stream is empty")
	}

	dec := NewDecoder(false)
	decResult := dec.Process(stream)

	totalSamples := decResult.Frames
	if totalSamples == 0 {
		t.Fatal("decoder produced zero frames")
	}
	if len(decResult.PCM) == 0 {
		t.Fatal("decoder produced no PCM")
	}
	if len(decResult.PCM) != n {
		t.Fatalf("decoded %d samples, want %d", len(decResult.PCM), n)
	}
	for i, v := range pcm {
		if diff := decResult.PCM[i] - v; diff < -1e-4 || diff > 1e-4 {
			t.Errorf("decoded[%d] = %v, want %v", i, decResult.PCM[i], v)
		}
	}
}

func TestEncoderRejectsInvalidParams(t *testing.T) {
	_, err := NewEncoder(Params{Profile: Profile1, Srate: 1234, Channels: 1, BitDepth: 16, FrameSize: 2048})
	if err != ErrInvalidSampleRate {
		t.Errorf("err = %v, want ErrInvalidSampleRate", err)
	}

	_, err = NewEncoder(Params{Profile: Profile2, Srate: 48000, Channels: 1, BitDepth: 16, FrameSize: 2048})
	if err != ErrInvalidProfile {
		t.Errorf("err = %v, want ErrInvalidProfile (profile 2 has no encoder)", err)
	}

	_, err = NewEncoder(Params{Profile: Profile0, Srate: 48000, Channels: 0, BitDepth: 16, FrameSize: 2048})
	if err != ErrZeroChannels {
		t.Errorf("err = %v, want ErrZeroChannels", err)
	}
}

func TestDecoderIsEmpty(t *testing.T) {
	dec := NewDecoder(false)
	if !dec.IsEmpty() {
		t.Error("fresh decoder should be empty")
	}

	h := NewASFH()
	h.Profile = Profile0
	h.Channels = 1
	h.Srate = 48000
	h.Fsize = 4
	h.ECCRatio = [2]byte{96, 24}
	frame := h.Write([]byte{1, 2, 3, 4})

	dec.Process(frame[:6]) // signature (4) + 2 more header bytes, short of a full header
	if dec.IsEmpty() {
		t.Error("decoder holding 6 buffered bytes should not report empty")
	}
}

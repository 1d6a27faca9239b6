package frad

import "testing"

func TestCRC16ANSICheckValue(t *testing.T) {
	got := CRC16ANSI(0, []byte("123456789"))
	if want := uint16(0xBB3D); got != want {
		t.Errorf("CRC16ANSI(\"123456789\") = %#04x, want %#04x", got, want)
	}
}

func TestCRC32CheckValue(t *testing.T) {
	got := CRC32(0, []byte("123456789"))
	if want := uint32(0xCBF43926); got != want {
		t.Errorf("CRC32(\"123456789\") = %#08x, want %#08x", got, want)
	}
}

func TestDepthIndex(t *testing.T) {
	depths := []uint16{12, 16, 24, 32, 48, 64}

	idx, err := depthIndex(depths, 16)
	if err != nil || idx != 1 {
		t.Errorf("depthIndex(depths, 16) = (%d, %v), want (1, nil)", idx, err)
	}

	idx, err = depthIndex(depths, 20)
	if err != nil || idx != 2 {
		t.Errorf("depthIndex(depths, 20) = (%d, %v), want (2, nil)", idx, err)
	}

	if _, err := depthIndex(depths, 100); err != ErrBitDepthOverflow {
		t.Errorf("depthIndex(depths, 100) err = %v, want ErrBitDepthOverflow", err)
	}
}

func TestProfileGroups(t *testing.T) {
	for _, p := range []Profile{Profile0, Profile4} {
		if !ProfileIsLossless(p) {
			t.Errorf("ProfileIsLossless(%d) = false, want true", p)
		}
		if ProfileIsCompact(p) {
			t.Errorf("ProfileIsCompact(%d) = true, want false", p)
		}
	}
	for _, p := range []Profile{Profile1, Profile2} {
		if !ProfileIsCompact(p) {
			t.Errorf("ProfileIsCompact(%d) = false, want true", p)
		}
		if ProfileIsLossless(p) {
			t.Errorf("ProfileIsLossless(%d) = true, want false", p)
		}
	}
}

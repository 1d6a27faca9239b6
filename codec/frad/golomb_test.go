package frad

import (
	"reflect"
	"testing"
)

func TestGolombRoundTrip(t *testing.T) {
	cases := [][]int64{
		{0},
		{1, -1, 2, -2, 3, -3},
		{0, 0, 0, 5},
		{-1000, 1000, 0, 42, -42},
	}
	for _, data := range cases {
		encoded := GolombEncode(data)
		decoded := GolombDecode(encoded)
		if !reflect.DeepEqual(decoded, data) {
			t.Errorf("round trip of %v = %v", data, decoded)
		}
	}
}

func TestGolombEncodeEmpty(t *testing.T) {
	if got := GolombEncode(nil); !reflect.DeepEqual(got, []byte{0}) {
		t.Errorf("GolombEncode(nil) = %v, want [0]", got)
	}
	if got := GolombDecode(nil); got != nil {
		t.Errorf("GolombDecode(nil) = %v, want nil", got)
	}
}

package frad

import (
	"bytes"
	"testing"
)

func TestBuildParseRoundTrip(t *testing.T) {
	meta := []Metadata{
		{Title: "title", Data: []byte("a sample recording")},
		{Title: "artist", Data: []byte("ausocean")},
	}
	img := Image{Data: []byte{0xff, 0xd8, 0xff, 0xe0}, Itype: 3}

	header := Build(meta, img)
	parsed := Parse(header)
	if parsed == nil {
		t.Fatal("Parse returned nil")
	}

	if len(parsed.Meta) != len(meta) {
		t.Fatalf("parsed %d metadata blocks, want %d", len(parsed.Meta), len(meta))
	}
	for i, m := range meta {
		if parsed.Meta[i].Title != m.Title || !bytes.Equal(parsed.Meta[i].Data, m.Data) {
			t.Errorf("meta[%d] = %+v, want %+v", i, parsed.Meta[i], m)
		}
	}
	if !bytes.Equal(parsed.Image, img.Data) {
		t.Errorf("image data = %v, want %v", parsed.Image, img.Data)
	}
	if parsed.Itype != img.Itype {
		t.Errorf("itype = %d, want %d", parsed.Itype, img.Itype)
	}
}

func TestBuildNoMetaNoImage(t *testing.T) {
	header := Build(nil, Image{})
	parsed := Parse(header)
	if parsed == nil {
		t.Fatal("Parse returned nil")
	}
	if len(parsed.Meta) != 0 || len(parsed.Image) != 0 {
		t.Errorf("parsed = %+v, want empty", parsed)
	}
}

func TestParseStopsAtFrameSignature(t *testing.T) {
	header := Build([]Metadata{{Title: "t", Data: []byte("d")}}, Image{})
	frameSig := []byte{0xFF, 0xD0, 0xD2, 0x97}
	stream := append(append([]byte(nil), header...), frameSig...)
	stream = append(stream, 0x01, 0x02, 0x03)

	parsed := Parse(stream)
	if parsed == nil || len(parsed.Meta) != 1 {
		t.Fatalf("parsed = %+v, want 1 metadata block", parsed)
	}
}

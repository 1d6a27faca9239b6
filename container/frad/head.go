/*
NAME
  head.go

DESCRIPTION
  head.go builds and parses the FrAD container header: a fixed 64-byte
  prologue (signature, reserved bytes, total header size) followed by a
  sequence of COMMENT (0xFA 0xAA) and IMAGE (0xF5) blocks, ending wherever
  the first frame signature is encountered.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frad builds and parses the FrAD container header that precedes
// the frame stream: textual metadata comments and a single embedded cover
// image.
package frad

import (
	"bytes"
	"encoding/binary"

	codecfrad "github.com/ausocean/frad/codec/frad"
)

var (
	commentSig = [2]byte{0xfa, 0xaa}
	imageSig   = [1]byte{0xf5}
)

const (
	commentHeadLength = 12
	imageHeadLength   = 10
	prologueLength    = 64
)

// Metadata is a single title/data comment block.
type Metadata struct {
	Title string
	Data  []byte
}

// Image is a single embedded cover image, with a picture type per the
// ID3v2 APIC picture-type enumeration (0..20; anything else defaults to 3,
// "Cover (front)").
type Image struct {
	Data  []byte
	Itype uint8
}

func buildCommentBlock(m Metadata) []byte {
	var b bytes.Buffer
	b.Write(commentSig[:])

	blockLen := uint64(commentHeadLength + len(m.Title) + len(m.Data))
	var blockLenBuf [6]byte
	blockLenBuf[0] = byte(blockLen >> 40)
	blockLenBuf[1] = byte(blockLen >> 32)
	blockLenBuf[2] = byte(blockLen >> 24)
	blockLenBuf[3] = byte(blockLen >> 16)
	blockLenBuf[4] = byte(blockLen >> 8)
	blockLenBuf[5] = byte(blockLen)
	b.Write(blockLenBuf[:])

	var titleLenBuf [4]byte
	binary.BigEndian.PutUint32(titleLenBuf[:], uint32(len(m.Title)))
	b.Write(titleLenBuf[:])

	b.WriteString(m.Title)
	b.Write(m.Data)
	return b.Bytes()
}

func buildImageBlock(img Image) []byte {
	if len(img.Data) == 0 {
		return nil
	}
	itype := img.Itype
	if itype > 20 {
		itype = 3
	}

	var b bytes.Buffer
	b.Write(imageSig[:])
	b.WriteByte(0x40 | itype)

	var dataLenBuf [8]byte
	binary.BigEndian.PutUint64(dataLenBuf[:], uint64(len(img.Data)+imageHeadLength))
	b.Write(dataLenBuf[:])

	b.Write(img.Data)
	return b.Bytes()
}

// Build assembles the container header: its 64-byte prologue, one COMMENT
// block per entry of meta, and one IMAGE block for img (if non-empty).
func Build(meta []Metadata, img Image) []byte {
	var blocks bytes.Buffer
	for _, m := range meta {
		blocks.Write(buildCommentBlock(m))
	}
	if block := buildImageBlock(img); block != nil {
		blocks.Write(block)
	}

	var header bytes.Buffer
	header.Write(codecfrad.Signature[:])
	header.Write(make([]byte, 4)) // reserved

	var headerSizeBuf [8]byte
	binary.BigEndian.PutUint64(headerSizeBuf[:], uint64(prologueLength+blocks.Len()))
	header.Write(headerSizeBuf[:])

	header.Write(make([]byte, 48)) // reserved
	header.Write(blocks.Bytes())
	return header.Bytes()
}

// Parsed is the result of parsing a container header.
type Parsed struct {
	Meta  []Metadata
	Image []byte
	Itype uint8
}

// Parse reads header's COMMENT and IMAGE blocks, stopping at the first
// occurrence of the frame signature (or at malformed/truncated input).
func Parse(header []byte) *Parsed {
	if len(header) < 16 {
		return nil
	}
	result := &Parsed{}

	pos := 0
	if len(header) >= prologueLength && bytes.Equal(header[:4], codecfrad.Signature[:]) {
		pos = prologueLength
	}

	for pos < len(header) {
		if pos+2 > len(header) {
			break
		}

		switch {
		case bytes.Equal(header[pos:pos+2], commentSig[:]):
			pos += 2
			if pos+6 > len(header) {
				return result
			}
			blockLen := uint64(header[pos])<<40 | uint64(header[pos+1])<<32 | uint64(header[pos+2])<<24 |
				uint64(header[pos+3])<<16 | uint64(header[pos+4])<<8 | uint64(header[pos+5])
			pos += 6

			if pos+4 > len(header) {
				return result
			}
			titleLen := binary.BigEndian.Uint32(header[pos : pos+4])
			pos += 4

			if pos+int(titleLen) > len(header) {
				return result
			}
			title := string(header[pos : pos+int(titleLen)])
			pos += int(titleLen)

			dataLen := int(blockLen) - commentHeadLength - int(titleLen)
			if dataLen < 0 || pos+dataLen > len(header) {
				return result
			}
			data := append([]byte(nil), header[pos:pos+dataLen]...)
			pos += dataLen

			result.Meta = append(result.Meta, Metadata{Title: title, Data: data})

		case len(header) >= pos+1 && header[pos] == imageSig[0]:
			pos += 1
			if pos >= len(header) {
				return result
			}
			result.Itype = header[pos] & 0x1F
			pos++

			if pos+8 > len(header) {
				return result
			}
			dataLen := binary.BigEndian.Uint64(header[pos : pos+8])
			pos += 8

			imgLen := int64(dataLen) - imageHeadLength
			if imgLen < 0 || pos+int(imgLen) > len(header) {
				return result
			}
			result.Image = append([]byte(nil), header[pos:pos+int(imgLen)]...)
			pos += int(imgLen)

		case pos+4 <= len(header) && bytes.Equal(header[pos:pos+4], codecfrad.FrameSignature[:]):
			return result

		default:
			pos++
		}
	}

	return result
}

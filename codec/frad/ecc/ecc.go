/*
NAME
  ecc.go

DESCRIPTION
  ecc.go chunks a byte stream into fixed-size Reed-Solomon blocks for
  Encode/Decode, the way the container's per-frame ECC ratio (data_size,
  parity_size) drives the codec in reedsolomon.go.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ecc

// Encode splits data into DataSize-byte chunks (the last one possibly
// shorter) and appends ParitySize parity bytes to each.
func Encode(data []byte, dataSize, paritySize int) []byte {
	rs := NewRSCodec(dataSize, paritySize)
	out := make([]byte, 0, len(data)+(len(data)/dataSize+1)*paritySize)
	for i := 0; i < len(data); i += dataSize {
		end := i + dataSize
		if end > len(data) {
			end = len(data)
		}
		out = append(out, rs.Encode(data[i:end])...)
	}
	return out
}

// Decode reverses Encode. With repair false, it only strips the trailing
// ParitySize bytes of each block (no correction attempted). With repair
// true, every full block is Reed-Solomon decoded and corrected; a block
// that fails to correct is replaced with DataSize zero bytes, and a
// trailing short block (truncated mid-transmission) is left as a bare
// parity strip since there's nothing to correct it against.
func Decode(data []byte, dataSize, paritySize int, repair bool) []byte {
	blockSize := dataSize + paritySize
	rs := NewRSCodec(dataSize, paritySize)
	out := make([]byte, 0, len(data))

	for i := 0; i < len(data); i += blockSize {
		end := i + blockSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[i:end]

		if !repair || len(chunk) != blockSize {
			copyLen := len(chunk) - paritySize
			if copyLen < 0 {
				copyLen = len(chunk)
			}
			out = append(out, chunk[:copyLen]...)
			continue
		}

		decoded, err := rs.Decode(chunk)
		if err != nil {
			out = append(out, make([]byte, dataSize)...)
			continue
		}
		out = append(out, decoded...)
	}
	return out
}

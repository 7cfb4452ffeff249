package pcm

import "encoding/binary"

// Widen converts 8-bit signed samples to 16-bit signed little-endian samples
// with the same channel layout.
func Widen(s8 []byte) []byte {
	out := make([]byte, 2*len(s8))
	for i, b := range s8 {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(int8(b))<<8))
	}
	return out
}

// Int16s decodes 16-bit little-endian samples.
func Int16s(l16 []byte) []int16 {
	out := make([]int16, len(l16)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(l16[2*i:]))
	}
	return out
}

package proto

import "hash/crc32"

// Checksum computes CRC32 over exactly the bytes carried as payload:
// the compressed bytes for delta frames, the raw framebuffer for full
// frames. IEEE 802.3 polynomial (0xEDB88320, reflected, initial and
// final complement of 0xFFFFFFFF), table-driven via hash/crc32.
//
// Both endpoints must agree here bit for bit; a mismatch is handled
// exactly like transit corruption.
func Checksum(payload []byte) uint32 {
	return crc32.ChecksumIEEE(payload)
}

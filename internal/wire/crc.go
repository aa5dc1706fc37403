package wire

import "hash/crc32"

// ieeeTable is the standard reflected IEEE 802.3 CRC-32 polynomial table:
// reflected input, reflected output, init 0xFFFFFFFF, final XOR 0xFFFFFFFF.
// Like encoding/binary, it is deliberately left on the standard library
// rather than a third-party module (see DESIGN.md).
var ieeeTable = crc32.MakeTable(crc32.IEEE)

// CRC32 computes the IEEE 802.3 CRC over data.
func CRC32(data []byte) uint32 {
	return crc32.Checksum(data, ieeeTable)
}

package protocol

// CRC16 computes the frame trailer checksum: CCITT polynomial, reflected
// (0x8408), initial value 0xFFFF, as Klipper hosts expect it.
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc = crcStep(crc, b)
	}
	return crc
}

// crcStep folds one byte into crc without a table or a bit loop
func crcStep(crc uint16, b byte) uint16 {
	t := uint16(b^byte(crc)) & 0xFF
	t = (t ^ t<<4) & 0xFF
	return (t<<8 | crc>>8) ^ t>>4 ^ t<<3
}

// Package protocol implements the beacon telemetry wire format.
// Frames follow the Klipper block layout:
//
//	[len][0x10|seq][payload...][crc16 hi][crc16 lo][0x7E]
package protocol

// Frame layout constants
const (
	MessageMax         = 512 // Scratch output size, several frames per flush
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePayloadMax  = MessageLengthMax - MessageLengthMin
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// Message sequence masks
	MessageSeqMask = 0x0F
)

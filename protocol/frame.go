package protocol

// FrameEncoder writes framed payloads with a rolling 4-bit sequence
type FrameEncoder struct {
	seq uint8
}

// NewFrameEncoder creates an encoder starting at sequence 0
func NewFrameEncoder() *FrameEncoder {
	return &FrameEncoder{}
}

// EncodeFrame appends one frame to output. body writes the payload, which
// must not exceed MessagePayloadMax bytes.
func (e *FrameEncoder) EncodeFrame(output OutputBuffer, body func(output OutputBuffer)) {
	cursor := output.CurPosition()

	// Header: length placeholder and sequence
	output.Output([]byte{0, MessageDest | e.seq})
	body(output)

	output.Update(cursor, uint8(len(output.DataSince(cursor))+MessageTrailerSize))

	crc := CRC16(output.DataSince(cursor))
	output.Output([]byte{
		uint8(crc >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})

	e.seq = (e.seq + 1) & MessageSeqMask
}

// FrameHandler receives the sequence number and payload of a valid frame.
// The payload aliases the input buffer and is only valid during the call.
type FrameHandler func(seq uint8, payload []byte)

// FrameStats counts decoder outcomes
type FrameStats struct {
	Frames       uint32 // Valid frames delivered
	CRCErrors    uint32 // Frames dropped on checksum mismatch
	Resyncs      uint32 // Times the decoder lost framing
	SeqGaps      uint32 // Frames that skipped one or more sequence numbers
	BytesDropped uint32 // Bytes discarded while searching for sync
}

// FrameDecoder extracts frames from a byte stream, resynchronising on
// the 0x7E trailer after any corruption
type FrameDecoder struct {
	synchronized bool
	haveSeq      bool
	lastSeq      uint8
	handler      FrameHandler
	stats        FrameStats
}

// NewFrameDecoder creates a decoder that delivers frames to handler
func NewFrameDecoder(handler FrameHandler) *FrameDecoder {
	return &FrameDecoder{
		synchronized: true,
		handler:      handler,
	}
}

// Stats returns the decoder counters
func (d *FrameDecoder) Stats() FrameStats {
	return d.stats
}

// Receive consumes every complete frame in input. A trailing partial
// frame is left in the buffer for the next call.
func (d *FrameDecoder) Receive(input InputBuffer) {
	data := input.Data()

	for len(data) > 0 {
		if !d.synchronized {
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				d.stats.BytesDropped += uint32(len(data))
				data = nil
				break
			}
			d.stats.BytesDropped += uint32(syncPos)
			data = data[syncPos+1:]
			d.synchronized = true
			continue
		}

		// Skip leading sync bytes
		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}

		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			d.lostSync(&data)
			continue
		}

		seq := data[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			d.lostSync(&data)
			continue
		}

		if len(data) < msgLen {
			break
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			d.lostSync(&data)
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			d.stats.CRCErrors++
			d.lostSync(&data)
			continue
		}

		payload := data[MessageHeaderSize : msgLen-MessageTrailerSize]
		data = data[msgLen:]

		seq &= MessageSeqMask
		if d.haveSeq && seq != (d.lastSeq+1)&MessageSeqMask {
			d.stats.SeqGaps++
		}
		d.haveSeq = true
		d.lastSeq = seq
		d.stats.Frames++

		if d.handler != nil {
			d.handler(seq, payload)
		}
	}

	consumed := input.Available() - len(data)
	if consumed > 0 {
		input.Pop(consumed)
	}
}

// lostSync drops the current byte and searches for the next 0x7E
func (d *FrameDecoder) lostSync(data *[]byte) {
	d.synchronized = false
	d.stats.Resyncs++
	d.stats.BytesDropped++
	*data = (*data)[1:]
}

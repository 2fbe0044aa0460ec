package protocol

import "errors"

// Message identifiers, first VLQ of every payload
const (
	MsgBeaconEvent = 1 // kind=%c cycle=%u unit=%c clock=%u
	MsgDebugText   = 2 // text=%s
)

// DebugTextMax is the longest debug string that fits in one frame
const DebugTextMax = MessagePayloadMax - 2

var ErrUnknownMessage = errors.New("unknown message id")

// BeaconEvent is the wire form of a beacon state-machine event
type BeaconEvent struct {
	Kind  uint8
	Cycle uint32
	Unit  uint8
	Clock uint32
}

// Message is a decoded payload; exactly one field is set
type Message struct {
	ID    uint32
	Event *BeaconEvent
	Text  string
}

// EncodeBeaconEvent writes an event payload
func EncodeBeaconEvent(output OutputBuffer, evt BeaconEvent) {
	EncodeVLQUint(output, MsgBeaconEvent)
	EncodeVLQUint(output, uint32(evt.Kind))
	EncodeVLQUint(output, evt.Cycle)
	EncodeVLQUint(output, uint32(evt.Unit))
	EncodeVLQUint(output, evt.Clock)
}

// EncodeDebugText writes a debug text payload, truncated to DebugTextMax
func EncodeDebugText(output OutputBuffer, text string) {
	if len(text) > DebugTextMax {
		text = text[:DebugTextMax]
	}
	EncodeVLQUint(output, MsgDebugText)
	EncodeVLQString(output, text)
}

// DecodeMessage parses one frame payload
func DecodeMessage(payload []byte) (Message, error) {
	data := payload
	id, err := DecodeVLQUint(&data)
	if err != nil {
		return Message{}, err
	}

	switch id {
	case MsgBeaconEvent:
		evt, err := decodeBeaconEvent(&data)
		if err != nil {
			return Message{}, err
		}
		return Message{ID: id, Event: &evt}, nil
	case MsgDebugText:
		text, err := DecodeVLQString(&data)
		if err != nil {
			return Message{}, err
		}
		return Message{ID: id, Text: text}, nil
	default:
		return Message{ID: id}, ErrUnknownMessage
	}
}

func decodeBeaconEvent(data *[]byte) (BeaconEvent, error) {
	var fields [4]uint32
	for i := range fields {
		v, err := DecodeVLQUint(data)
		if err != nil {
			return BeaconEvent{}, err
		}
		fields[i] = v
	}
	return BeaconEvent{
		Kind:  uint8(fields[0]),
		Cycle: fields[1],
		Unit:  uint8(fields[2]),
		Clock: fields[3],
	}, nil
}

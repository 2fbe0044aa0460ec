package protocol

import "testing"

func TestVLQEncodeDecodeInt(t *testing.T) {
	testCases := []struct {
		value int32
		size  int
	}{
		{0, 1},
		{-32, 1},
		{95, 1},
		{96, 2},
		{-33, 2},
		{1365, 2},
		{1000000, 3},
		{-1000000, 4},
	}

	for _, tc := range testCases {
		output := NewScratchOutput()
		EncodeVLQInt(output, tc.value)
		encoded := output.Result()

		if len(encoded) != tc.size {
			t.Errorf("Value %d: expected %d bytes, got %d (%v)", tc.value, tc.size, len(encoded), encoded)
		}

		data := encoded
		decoded, err := DecodeVLQInt(&data)
		if err != nil {
			t.Errorf("Value %d: decode failed: %v", tc.value, err)
			continue
		}
		if decoded != tc.value {
			t.Errorf("Value %d: decoded as %d", tc.value, decoded)
		}
		if len(data) != 0 {
			t.Errorf("Value %d: %d bytes left over", tc.value, len(data))
		}
	}
}

func TestVLQUintLargeValues(t *testing.T) {
	for _, v := range []uint32{0, 4485, 0x7FFFFFFF, 0xFFFFFFFF} {
		output := NewScratchOutput()
		EncodeVLQUint(output, v)
		data := output.Result()

		decoded, err := DecodeVLQUint(&data)
		if err != nil || decoded != v {
			t.Errorf("Value %d: decoded %d, err %v", v, decoded, err)
		}
	}
}

func TestVLQErrors(t *testing.T) {
	var empty []byte
	if _, err := DecodeVLQInt(&empty); err != ErrBufferTooSmall {
		t.Errorf("Empty input: expected ErrBufferTooSmall, got %v", err)
	}

	truncated := []byte{0x80}
	if _, err := DecodeVLQInt(&truncated); err != ErrBufferTooSmall {
		t.Errorf("Truncated input: expected ErrBufferTooSmall, got %v", err)
	}

	overlong := []byte{0x81, 0x81, 0x81, 0x81, 0x81, 0x01}
	if _, err := DecodeVLQInt(&overlong); err != ErrInvalidVLQ {
		t.Errorf("Six-byte VLQ: expected ErrInvalidVLQ, got %v", err)
	}

	short := []byte{5, 'a', 'b'}
	if _, err := DecodeVLQString(&short); err != ErrBufferTooSmall {
		t.Errorf("Short string: expected ErrBufferTooSmall, got %v", err)
	}
}

package protocol

import "errors"

var (
	ErrInvalidVLQ     = errors.New("invalid VLQ encoding")
	ErrBufferTooSmall = errors.New("buffer too small for VLQ")
)

// EncodeVLQInt encodes a signed integer in the fewest 7-bit groups, most
// significant group first. Values in [-32, 96) take a single byte.
func EncodeVLQInt(output OutputBuffer, v int32) {
	n := 1
	for n < 5 && !vlqFits(v, n) {
		n++
	}

	var buf [5]byte
	for i := 0; i < n-1; i++ {
		buf[i] = byte((v>>uint(7*(n-1-i)))&0x7F) | 0x80
	}
	buf[n-1] = byte(v & 0x7F)
	output.Output(buf[:n])
}

// vlqFits reports whether v survives the sign extension of an n-byte
// encoding, whose leading group carries one bit of sign.
func vlqFits(v int32, n int) bool {
	bound := int32(1) << uint(7*n-2)
	return -bound <= v && v < 3*bound
}

// EncodeVLQUint encodes an unsigned integer
func EncodeVLQUint(output OutputBuffer, v uint32) {
	EncodeVLQInt(output, int32(v))
}

// DecodeVLQInt decodes a signed integer and advances data past it
func DecodeVLQInt(data *[]byte) (int32, error) {
	if len(*data) == 0 {
		return 0, ErrBufferTooSmall
	}

	c := uint32((*data)[0])
	*data = (*data)[1:]

	v := c & 0x7F
	if (c & 0x60) == 0x60 {
		// Sign extend
		v |= ^uint32(0x1F)
	}

	for n := 0; c&0x80 != 0; n++ {
		if n == 4 {
			return 0, ErrInvalidVLQ
		}
		if len(*data) == 0 {
			return 0, ErrBufferTooSmall
		}
		c = uint32((*data)[0])
		*data = (*data)[1:]
		v = (v << 7) | (c & 0x7F)
	}

	return int32(v), nil
}

// DecodeVLQUint decodes an unsigned integer and advances data past it
func DecodeVLQUint(data *[]byte) (uint32, error) {
	val, err := DecodeVLQInt(data)
	return uint32(val), err
}

// EncodeVLQString encodes a string with length prefix
func EncodeVLQString(output OutputBuffer, s string) {
	EncodeVLQUint(output, uint32(len(s)))
	output.Output([]byte(s))
}

// DecodeVLQString decodes a length-prefixed string
func DecodeVLQString(data *[]byte) (string, error) {
	length, err := DecodeVLQUint(data)
	if err != nil {
		return "", err
	}
	if len(*data) < int(length) {
		return "", ErrBufferTooSmall
	}
	s := string((*data)[:length])
	*data = (*data)[length:]
	return s, nil
}

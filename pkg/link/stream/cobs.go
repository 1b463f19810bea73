package stream

import "errors"

// ErrInvalidEncoding indicates a frame isn't valid COBS.
var ErrInvalidEncoding = errors.New("invalid COBS encoding")

// Encode applies Consistent Overhead Byte Stuffing, so the result
// contains no Delimiter.
func Encode(src []byte) []byte {
	dst := make([]byte, 1, len(src)+len(src)/254+2)
	codeAt, code := 0, byte(1)
	for _, b := range src {
		if b != 0 {
			dst = append(dst, b)
			code++
			if code != 0xff {
				continue
			}
		}
		dst[codeAt] = code
		codeAt, code = len(dst), 1
		dst = append(dst, 0)
	}
	dst[codeAt] = code
	return dst
}

// Decode reverses Encode.
func Decode(src []byte) ([]byte, error) {
	dst := make([]byte, 0, len(src))
	for i := 0; i < len(src); {
		code := int(src[i])
		if code == 0 {
			return nil, ErrInvalidEncoding
		}
		i++
		end := i + code - 1
		if end > len(src) {
			return nil, ErrInvalidEncoding
		}
		dst = append(dst, src[i:end]...)
		i = end
		if code != 0xff && i < len(src) {
			dst = append(dst, 0)
		}
	}
	return dst, nil
}

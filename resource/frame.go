package resource

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// headerSize is the length prefix size of a framed resource payload
const headerSize = 4

// ErrFrame is returned for payloads whose length prefix is missing or inconsistent
var ErrFrame = errors.New("invalid resource frame")

// Unframe strips the little endian length prefix, the declared length must cover the rest of data
func Unframe(data []byte) ([]byte, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrame, len(data))
	}
	length := binary.LittleEndian.Uint32(data)
	if uint64(length) != uint64(len(data)-headerSize) {
		return nil, fmt.Errorf("%w: declared %d, available %d", ErrFrame, length, len(data)-headerSize)
	}
	return data[headerSize:], nil
}

// Frame prefixes payload with its little endian length
func Frame(payload []byte) []byte {
	ret := make([]byte, headerSize, headerSize+len(payload))
	binary.LittleEndian.PutUint32(ret, uint32(len(payload)))
	return append(ret, payload...)
}

// Package snapshot serializes the whole database to a
// self-describing binary blob and decides when new snapshots are
// taken.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"hash/crc32"

	"github.com/linedb/linedb/internal/store"
)

// Encode serializes a database state into snapshot bytes: fixed
// header, then the codec-compressed gob payload, CRC-protected.
func Encode(state *store.DatabaseState, codec CompressionType) ([]byte, error) {
	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(state); err != nil {
		return nil, err
	}

	payload, err := compress(body.Bytes(), codec)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, headerSize, headerSize+len(payload))
	binary.LittleEndian.PutUint32(buf[0:], MagicNumber)
	binary.LittleEndian.PutUint16(buf[4:], Version)
	buf[6] = byte(codec)
	binary.LittleEndian.PutUint64(buf[8:], uint64(len(payload)))
	binary.LittleEndian.PutUint32(buf[16:], crc32.ChecksumIEEE(payload))
	return append(buf, payload...), nil
}

// Decode validates snapshot bytes and reconstructs the state. Any
// validation failure is reported as ErrCorruptFile so startup can
// refuse to serve rather than misinterpret bytes.
func Decode(data []byte) (*store.DatabaseState, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: truncated header", ErrCorruptFile)
	}
	if binary.LittleEndian.Uint32(data[0:]) != MagicNumber {
		return nil, fmt.Errorf("%w: bad magic number", ErrCorruptFile)
	}
	if v := binary.LittleEndian.Uint16(data[4:]); v != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptFile, v)
	}
	codec := CompressionType(data[6])

	length := binary.LittleEndian.Uint64(data[8:])
	payload := data[headerSize:]
	if uint64(len(payload)) != length {
		return nil, fmt.Errorf("%w: payload length mismatch", ErrCorruptFile)
	}
	if crc32.ChecksumIEEE(payload) != binary.LittleEndian.Uint32(data[16:]) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptFile)
	}

	body, err := decompress(payload, codec)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptFile, err)
	}

	state := &store.DatabaseState{}
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(state); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptFile, err)
	}
	return state, nil
}

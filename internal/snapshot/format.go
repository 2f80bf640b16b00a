package snapshot

import "errors"

const (
	// MagicNumber identifies linedb snapshot files (ASCII "LDB1")
	MagicNumber = 0x4C444231
	// Version is the current snapshot format version
	Version = 1

	// DefaultBlobName is the object/file name snapshots are stored under.
	DefaultBlobName = "snapshot.ldb"

	headerSize = 20
)

var (
	// ErrCorruptFile covers every way snapshot bytes can fail
	// validation: bad magic, unsupported version, checksum mismatch,
	// truncation, or state that violates the schema rules. Fatal at
	// startup; never silently recovered.
	ErrCorruptFile = errors.New("corrupt snapshot file")

	// ErrNotFound means no snapshot exists yet. Startup proceeds
	// with an empty database.
	ErrNotFound = errors.New("snapshot not found")
)

// Header layout, little-endian:
//
//	magic   uint32
//	version uint16
//	codec   uint8
//	pad     uint8
//	length  uint64   payload bytes
//	crc     uint32   CRC32 (IEEE) of payload
//	payload []byte   codec-compressed gob of store.DatabaseState

package snapshot

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType selects the snapshot payload codec. The chosen
// codec is recorded in the file header, so load never guesses.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0
	CompressionLZ4  CompressionType = 1
	CompressionZSTD CompressionType = 2
)

func ParseCompressionType(s string) (CompressionType, error) {
	switch s {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	}
	return 0, fmt.Errorf("unknown compression %q", s)
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compress returns the codec-encoded payload. LZ4 block compression
// falls back to the raw bytes when the input is incompressible, so
// the frame carries an uncompressed-size prefix to make that case
// unambiguous on decode.
func compress(data []byte, codec CompressionType) ([]byte, error) {
	switch codec {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			// incompressible, store raw
			return append(lz4Prefix(len(data), 0), data...), nil
		}
		return append(lz4Prefix(len(data), n), buf[:n]...), nil
	case CompressionZSTD:
		enc := getZstdEncoder()
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(data, nil), nil
	}
	return nil, fmt.Errorf("unknown compression %d", codec)
}

func decompress(data []byte, codec CompressionType) ([]byte, error) {
	switch codec {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		rawLen, compLen, body, err := splitLZ4Frame(data)
		if err != nil {
			return nil, err
		}
		if compLen == 0 {
			return body, nil
		}
		out := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, err
		}
		if n != rawLen {
			return nil, errors.New("lz4 decompressed size mismatch")
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		return dec.DecodeAll(data, nil)
	}
	return nil, fmt.Errorf("unknown compression %d", codec)
}

// lz4 frame: [rawLen uint32][compLen uint32][body]; compLen 0 means
// the body is stored uncompressed.
func lz4Prefix(rawLen, compLen int) []byte {
	return []byte{
		byte(rawLen), byte(rawLen >> 8), byte(rawLen >> 16), byte(rawLen >> 24),
		byte(compLen), byte(compLen >> 8), byte(compLen >> 16), byte(compLen >> 24),
	}
}

func splitLZ4Frame(data []byte) (rawLen, compLen int, body []byte, err error) {
	if len(data) < 8 {
		return 0, 0, nil, errors.New("lz4 frame too short")
	}
	rawLen = int(data[0]) | int(data[1])<<8 | int(data[2])<<16 | int(data[3])<<24
	compLen = int(data[4]) | int(data[5])<<8 | int(data[6])<<16 | int(data[7])<<24
	body = data[8:]
	if compLen == 0 {
		if len(body) != rawLen {
			return 0, 0, nil, errors.New("lz4 raw body size mismatch")
		}
	} else if len(body) != compLen {
		return 0, 0, nil, errors.New("lz4 compressed body size mismatch")
	}
	return rawLen, compLen, body, nil
}

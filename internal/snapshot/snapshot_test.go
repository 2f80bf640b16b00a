package snapshot_test

import (
	"strings"
	"testing"

	. "github.com/linedb/linedb/internal/snapshot"
	"github.com/linedb/linedb/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState(t *testing.T) *store.DatabaseState {
	t.Helper()
	db := store.NewDatabase()
	schema, err := store.NewSchema([]store.ColumnDefinition{
		{Name: "id", Type: store.TypeInt},
		{Name: "name", Type: store.TypeText},
	})
	require.NoError(t, err)
	table, err := db.CreateTable("users", schema)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		_, err := table.Append(store.Row{
			store.IntValue(int64(i % 7)),
			store.TextValue(strings.Repeat("user", i%5+1)),
		})
		require.NoError(t, err)
	}
	return db.State()
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codecs := []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD}
	for _, codec := range codecs {
		t.Run(codec.String(), func(t *testing.T) {
			state := testState(t)
			data, err := Encode(state, codec)
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, state, decoded)

			// rebuilt database answers index lookups identically
			db, err := store.Restore(decoded)
			require.NoError(t, err)
			table, err := db.Table("users")
			require.NoError(t, err)
			for i := int64(0); i < 7; i++ {
				assert.Equal(t, table.Scan(0, store.IntValue(i)),
					table.Lookup("id", store.IntValue(i)))
			}
		})
	}
}

func TestDecodeRejectsCorruptBytes(t *testing.T) {
	state := testState(t)
	data, err := Encode(state, CompressionZSTD)
	require.NoError(t, err)

	t.Run("truncated header", func(t *testing.T) {
		_, err := Decode(data[:10])
		assert.ErrorIs(t, err, ErrCorruptFile)
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte{}, data...)
		bad[0] ^= 0xFF
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrCorruptFile)
	})

	t.Run("future version", func(t *testing.T) {
		bad := append([]byte{}, data...)
		bad[4] = 0xFF
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrCorruptFile)
	})

	t.Run("flipped payload byte", func(t *testing.T) {
		bad := append([]byte{}, data...)
		bad[len(bad)-1] ^= 0xFF
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrCorruptFile)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, err := Decode(data[:len(data)-5])
		assert.ErrorIs(t, err, ErrCorruptFile)
	})
}

func TestParseCompressionType(t *testing.T) {
	for name, want := range map[string]CompressionType{
		"":     CompressionNone,
		"none": CompressionNone,
		"lz4":  CompressionLZ4,
		"zstd": CompressionZSTD,
	} {
		got, err := ParseCompressionType(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseCompressionType("snappy")
	assert.Error(t, err)
}

package store

import (
	"github.com/RoaringBitmap/roaring/v2"
	sorted "github.com/tobshub/go-sortedmap"
)

// IndexBucket holds every row position carrying one value of the
// indexed column. Positions live in a roaring bitmap, which keeps
// them deduplicated and iterates in ascending order.
type IndexBucket struct {
	Key  Value
	Rows *roaring.Bitmap
}

// SecondaryIndex maps the values of one column to the positions of
// the rows holding them. Buckets are kept in the natural order of
// the column's value type.
type SecondaryIndex struct {
	Column  string
	buckets *sorted.SortedMap[string, *IndexBucket]
}

func NewSecondaryIndex(column string) *SecondaryIndex {
	buckets := sorted.New[string, *IndexBucket](0, func(a, b *IndexBucket) bool {
		return a.Key.Less(b.Key)
	})
	return &SecondaryIndex{Column: column, buckets: buckets}
}

// Insert records that the row at position holds value. Existing
// positions in the value's bucket are preserved: one value may map
// to many rows.
func (ix *SecondaryIndex) Insert(value Value, position int) {
	key := value.String()
	bucket, ok := ix.buckets.Get(key)
	if !ok {
		bucket = &IndexBucket{Key: value, Rows: roaring.New()}
		ix.buckets.Insert(key, bucket)
	}
	bucket.Rows.Add(uint32(position))
}

// Lookup returns the positions of every row holding value, in
// ascending position order. Absent values yield an empty slice.
func (ix *SecondaryIndex) Lookup(value Value) []int {
	bucket, ok := ix.buckets.Get(value.String())
	if !ok {
		return []int{}
	}
	positions := make([]int, 0, bucket.Rows.GetCardinality())
	it := bucket.Rows.Iterator()
	for it.HasNext() {
		positions = append(positions, int(it.Next()))
	}
	return positions
}

// Keys returns the distinct indexed values in their natural order.
func (ix *SecondaryIndex) Keys() []Value {
	keys := make([]Value, 0, ix.buckets.Len())
	iter, err := ix.buckets.IterCh()
	if err != nil {
		return keys
	}
	for rec := range iter.Records() {
		keys = append(keys, rec.Val.Key)
	}
	return keys
}

func (ix *SecondaryIndex) Len() int { return ix.buckets.Len() }

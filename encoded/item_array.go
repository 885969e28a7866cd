package encoded

import (
	"fmt"
	"iter"

	"github.com/arloliu/dex/cursor"
	"github.com/arloliu/dex/errs"
)

// ItemArray is an ordered sequence of delta-chained items.
//
// The zero value is an empty array. An ItemArray is never modified after
// DecodeItemArray returns it.
type ItemArray[T Item] struct {
	items []T
}

// Len returns the number of items.
func (a ItemArray[T]) Len() int {
	return len(a.items)
}

// At returns the item at index i. It panics if i is out of range, like a slice index.
func (a ItemArray[T]) At(i int) T {
	return a.items[i]
}

// Items returns the decoded items. The returned slice shares storage with the array
// and must be treated as read-only.
func (a ItemArray[T]) Items() []T {
	return a.items
}

// All returns an iterator over index and item pairs in decode order.
func (a ItemArray[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range a.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// DecodeItemArray decodes count delta-chained items from data.
//
// Each item is decoded with the ID of the item before it as context; the first item
// receives 0. Items are laid out back to back, so item i starts where item i-1 ended.
// Monotonicity of the resulting IDs is not checked.
//
// Parameters:
//   - data: Source slice, starting at the first item
//   - count: Number of items to decode
//   - dec: Decoder for a single item, taking the previous absolute ID as context
//
// Returns:
//   - ItemArray[T]: The decoded items, in order
//   - int: Total bytes consumed
//   - error: errs.ErrInvalidCount for a negative count, otherwise the first error
//     reported by dec, wrapped with the failing item's index
func DecodeItemArray[T Item](data []byte, count int, dec Decoder[T, uint64]) (ItemArray[T], int, error) {
	if count < 0 {
		return ItemArray[T]{}, 0, fmt.Errorf("%w: %d", errs.ErrInvalidCount, count)
	}

	// Every item occupies at least one byte, so the input bounds how many can exist.
	items := make([]T, 0, min(count, len(data)))

	c := cursor.New(data)
	var baseline uint64
	for i := range count {
		item, err := Read(c, dec, baseline)
		if err != nil {
			return ItemArray[T]{}, 0, fmt.Errorf("decoding item %d at offset %d: %w", i, c.Pos(), err)
		}

		items = append(items, item)
		baseline = item.ID()
	}

	return ItemArray[T]{items: items}, c.Pos(), nil
}

package entity

import "iter"

// List is an insertion-ordered sequence of entities.
type List struct {
	items []*File
}

// NewList returns a List holding files in order.
func NewList(files ...*File) *List {
	return &List{items: append([]*File(nil), files...)}
}

// Add appends f.
func (l *List) Add(f *File) *List {
	l.items = append(l.items, f)
	return l
}

// Merge appends every entity of other, in order.
func (l *List) Merge(other *List) *List {
	if other != nil {
		l.items = append(l.items, other.items...)
	}
	return l
}

// Len returns the number of entities.
func (l *List) Len() int { return len(l.items) }

// At returns the i-th entity.
func (l *List) At(i int) *File { return l.items[i] }

// All iterates over the entities with their positions.
func (l *List) All() iter.Seq2[int, *File] {
	return func(yield func(int, *File) bool) {
		for i, f := range l.items {
			if !yield(i, f) {
				return
			}
		}
	}
}

// Paths returns the path of every entity, in order.
func (l *List) Paths() []string {
	paths := make([]string, len(l.items))
	for i, f := range l.items {
		paths[i] = f.Path()
	}
	return paths
}

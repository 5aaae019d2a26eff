package ordset

// Iterator traverses a Tree in ascending key order. An Iterator is
// invalidated by any mutation of the Tree it was made from; using it after
// such a mutation is undefined, mirroring spec.md's iterator-invalidation
// contract (there is no generation counter here — callers are trusted not
// to retain iterators across mutation, as intervalset.IntervalSet itself
// does not).
type Iterator[T Item[T]] struct {
	r *Tree[T]
	iterFrame[T]
	s iterStack[T]
}

// MakeIter returns a new Iterator positioned before the first element.
func (t *Tree[T]) MakeIter() Iterator[T] {
	it := Iterator[T]{r: t}
	it.Reset()
	return it
}

func (i *Iterator[T]) Reset() {
	i.node = i.r.root
	i.pos = -1
	i.s.reset()
}

func (i *Iterator[T]) Descend() {
	i.s.push(i.iterFrame)
	i.iterFrame = iterFrame[T]{node: i.node.children[i.pos], pos: 0}
}

func (i *Iterator[T]) Ascend() {
	i.iterFrame = i.s.pop()
}

// First seeks to the smallest key in the tree.
func (i *Iterator[T]) First() {
	i.Reset()
	i.pos = 0
	if i.node == nil {
		return
	}
	for !i.node.leaf {
		i.Descend()
	}
	i.pos = 0
}

// Last seeks to the largest key in the tree.
func (i *Iterator[T]) Last() {
	i.Reset()
	if i.node == nil {
		return
	}
	for !i.node.leaf {
		i.pos = i.node.count
		i.Descend()
	}
	i.pos = i.node.count - 1
}

// Next advances to the key immediately following the current position.
func (i *Iterator[T]) Next() {
	if i.node == nil {
		return
	}
	if i.node.leaf {
		i.pos++
		if i.pos < i.node.count {
			return
		}
		for i.s.len() > 0 && i.pos >= i.node.count {
			i.Ascend()
		}
		return
	}
	i.pos++
	i.Descend()
	for !i.node.leaf {
		i.pos = 0
		i.Descend()
	}
	i.pos = 0
}

// Prev retreats to the key immediately preceding the current position.
func (i *Iterator[T]) Prev() {
	if i.node == nil {
		return
	}
	if i.node.leaf {
		i.pos--
		if i.pos >= 0 {
			return
		}
		for i.s.len() > 0 && i.pos < 0 {
			i.Ascend()
			i.pos--
		}
		return
	}
	i.Descend()
	for !i.node.leaf {
		i.pos = i.node.count
		i.Descend()
	}
	i.pos = i.node.count - 1
}

// SeekGE seeks to the first key greater than or equal to key (the ordset
// analog of std::set::lower_bound).
func (i *Iterator[T]) SeekGE(key T) {
	i.Reset()
	if i.node == nil {
		return
	}
	for {
		pos, found := i.node.find(key)
		i.pos = int16(pos)
		if found {
			return
		}
		if i.node.leaf {
			// pos == count means key is past every key in this leaf. If a
			// parent frame is on the stack, the real successor is up
			// there, and Next()'s ascend loop finds it. If this leaf is
			// the root (no parent), pos == count is already the correct
			// past-end sentinel — Next() would bump it to count+1, one
			// past the sentinel that Prev() (and every other consumer of
			// "invalid means pos == count") expects.
			if i.pos == i.node.count && i.s.len() > 0 {
				i.Next()
			}
			return
		}
		i.Descend()
	}
}

// SeekGT seeks to the first key strictly greater than key (the ordset
// analog of std::set::upper_bound).
func (i *Iterator[T]) SeekGT(key T) {
	i.SeekGE(key)
	if i.Valid() && cmp(i.Key(), key) == 0 {
		i.Next()
	}
}

// Valid reports whether the Iterator is positioned at an element.
func (i *Iterator[T]) Valid() bool {
	return i.node != nil && i.pos >= 0 && i.pos < i.node.count
}

// Cur returns the key at the Iterator's current position. It is only valid
// to call when Valid reports true.
func (i *Iterator[T]) Cur() T {
	return i.node.keys[i.pos]
}

// Key is a synonym for Cur, matching the naming convention used by
// sorted-container iterators elsewhere in the teacher corpus.
func (i *Iterator[T]) Key() T {
	return i.Cur()
}

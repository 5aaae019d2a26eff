package ordset

import (
	"strings"

	"github.com/pkg/errors"
)

// Tree is a generic ordered set keyed by Item[T].Less. Write operations are
// not safe for concurrent use; read operations (iteration, Len) are safe
// from multiple goroutines provided no concurrent write occurs, matching the
// exclusive-ownership discipline the caller is expected to hold.
type Tree[T Item[T]] struct {
	root   *node[T]
	length int
}

// New returns an empty Tree.
func New[T Item[T]]() *Tree[T] {
	return &Tree[T]{}
}

// Len returns the number of items in the tree.
func (t *Tree[T]) Len() int {
	return t.length
}

// Insert adds item to the tree. It reports whether the item was freshly
// inserted; inserting an item that already compares equal under Less is a
// no-op and reports false.
func (t *Tree[T]) Insert(item T) bool {
	if t.root == nil {
		t.root = newLeafNode[T]()
	} else if t.root.count >= maxEntries {
		splitK, splitNode := t.root.split(maxEntries / 2)
		newRoot := newNode[T]()
		newRoot.count = 1
		newRoot.keys[0] = splitK
		newRoot.children[0] = t.root
		newRoot.children[1] = splitNode
		t.root = newRoot
	}
	inserted := t.root.insert(item)
	if inserted {
		t.length++
	}
	return inserted
}

// Delete removes item from the tree. It reports whether a matching item was
// found and removed.
func (t *Tree[T]) Delete(item T) bool {
	if t.root == nil || t.root.count == 0 {
		return false
	}
	removed := t.root.remove(item)
	if removed {
		t.length--
	}
	if t.root.count == 0 {
		if t.root.leaf {
			t.root = nil
		} else {
			t.root = t.root.children[0]
		}
	}
	return removed
}

// Clear empties the tree.
func (t *Tree[T]) Clear() {
	t.root = nil
	t.length = 0
}

// Swap exchanges the contents of t and other in O(1).
func (t *Tree[T]) Swap(other *Tree[T]) {
	*t, *other = *other, *t
}

// Clone returns a deep, independent copy of the tree. Unlike a
// copy-on-write B-tree this walks and reinserts every item, in O(n); see
// DESIGN.md for why COW sharing was not carried forward.
func (t *Tree[T]) Clone() *Tree[T] {
	c := New[T]()
	it := t.MakeIter()
	for it.First(); it.Valid(); it.Next() {
		c.Insert(it.Cur())
	}
	return c
}

// checkInvariants panics if the tree's structural invariants are violated.
// It is a programmer-error assertion, intended for use from this package's
// tests, not a runtime error path.
func (t *Tree[T]) checkInvariants() {
	if t.root == nil {
		if t.length != 0 {
			panic(errors.Errorf("ordset: length %d with nil root", t.length))
		}
		return
	}
	n := countKeys(t.root)
	if n != t.length {
		panic(errors.Errorf("ordset: length %d does not match counted %d", t.length, n))
	}
}

func countKeys[T Item[T]](n *node[T]) int {
	if n == nil {
		return 0
	}
	total := int(n.count)
	if !n.leaf {
		for i := int16(0); i <= n.count; i++ {
			total += countKeys(n.children[i])
		}
	}
	return total
}

// String renders the tree's keys in ascending order, space-separated. It is
// intended for debugging, not as a stable format.
func (t *Tree[T]) String() string {
	var b strings.Builder
	it := t.MakeIter()
	for it.First(); it.Valid(); it.Next() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		if s, ok := any(it.Cur()).(interface{ String() string }); ok {
			b.WriteString(s.String())
		}
	}
	return b.String()
}

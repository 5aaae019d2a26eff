package ordset

// iterStack is a stack of (node, pos) frames capturing the path an Iterator
// took descending into the tree. Small stacks live in an inline array to
// avoid allocating for the common (shallow) case.
type iterStack[T Item[T]] struct {
	a    iterStackArr[T]
	aLen int16 // -1 once s is in use
	s    []iterFrame[T]
}

const iterStackDepth = 6

type iterStackArr[T Item[T]] [iterStackDepth]iterFrame[T]

type iterFrame[T Item[T]] struct {
	node *node[T]
	pos  int16
}

func (is *iterStack[T]) push(f iterFrame[T]) {
	switch {
	case is.aLen == -1:
		is.s = append(is.s, f)
	case int(is.aLen) == len(is.a):
		is.s = make([]iterFrame[T], int(is.aLen)+1, 2*int(is.aLen))
		copy(is.s, is.a[:])
		is.s[int(is.aLen)] = f
		is.aLen = -1
	default:
		is.a[is.aLen] = f
		is.aLen++
	}
}

func (is *iterStack[T]) pop() iterFrame[T] {
	if is.aLen == -1 {
		f := is.s[len(is.s)-1]
		is.s = is.s[:len(is.s)-1]
		return f
	}
	is.aLen--
	return is.a[is.aLen]
}

func (is *iterStack[T]) len() int {
	if is.aLen == -1 {
		return len(is.s)
	}
	return int(is.aLen)
}

func (is *iterStack[T]) reset() {
	if is.aLen == -1 {
		is.s = is.s[:0]
	} else {
		is.aLen = 0
	}
}

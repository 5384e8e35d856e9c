package container

import (
	"iter"
	"unsafe"

	"github.com/leslie-fei/synptr"
)

// node of List. The links are addressing model values kept next to the
// value in segment memory, so a relocated segment carries its list along.
type node[T any, M any] struct {
	prev  M
	next  M
	value T
}

func setLink[T any, M any, PM synptr.Model[M]](link *M, n *node[T, M]) {
	PM(link).AssignFrom(unsafe.Pointer(n))
}

func follow[T any, M any, PM synptr.Model[M]](link *M) *node[T, M] {
	return (*node[T, M])(PM(link).Address())
}

// List is a doubly linked list whose nodes, sentinel included, are drawn from
// an Allocator. Only the sentinel handle lives on the Go heap.
//
// With the self-relative model the list survives relocation only if the
// List itself does not outlive it; use a segment based model for lists that
// are swapped.
type List[T any, M any, PM synptr.Model[M]] struct {
	alloc *synptr.Allocator[node[T, M], M, PM]
	root  *synptr.Ptr[node[T, M], M, PM]
	len   int
}

// NewList allocates the sentinel node from a.
func NewList[T any, M any, PM synptr.Model[M]](a *synptr.Allocator[T, M, PM]) (*List[T, M, PM], error) {
	l := &List[T, M, PM]{alloc: synptr.Rebind[node[T, M]](a)}
	root, err := synptr.New(l.alloc, nil)
	if err != nil {
		return nil, err
	}
	l.root = root
	l.Init()
	return l, nil
}

// Init empties the list without releasing its nodes.
func (l *List[T, M, PM]) Init() {
	r := l.root.Elem()
	setLink[T, M, PM](&r.next, r)
	setLink[T, M, PM](&r.prev, r)
	l.len = 0
}

func (l *List[T, M, PM]) Len() int {
	return l.len
}

func (l *List[T, M, PM]) sentinel() *node[T, M] {
	return l.root.Elem()
}

func (l *List[T, M, PM]) element(n *node[T, M]) *Element[T, M, PM] {
	if n == l.sentinel() {
		return nil
	}
	return &Element[T, M, PM]{list: l, ptr: new(synptr.Ptr[node[T, M], M, PM]).SetNative(n)}
}

func (l *List[T, M, PM]) Front() *Element[T, M, PM] {
	if l.len == 0 {
		return nil
	}
	return l.element(follow[T, M, PM](&l.sentinel().next))
}

func (l *List[T, M, PM]) Back() *Element[T, M, PM] {
	if l.len == 0 {
		return nil
	}
	return l.element(follow[T, M, PM](&l.sentinel().prev))
}

func (l *List[T, M, PM]) newNode(v T) (*node[T, M], error) {
	p, err := synptr.New(l.alloc, func(n *node[T, M]) error {
		n.value = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Elem(), nil
}

func (l *List[T, M, PM]) PushFront(v T) (*Element[T, M, PM], error) {
	n, err := l.newNode(v)
	if err != nil {
		return nil, err
	}
	return l.element(l.insert(n, l.sentinel())), nil
}

func (l *List[T, M, PM]) PushBack(v T) (*Element[T, M, PM], error) {
	n, err := l.newNode(v)
	if err != nil {
		return nil, err
	}
	return l.element(l.insert(n, follow[T, M, PM](&l.sentinel().prev))), nil
}

// Remove unlinks e and releases its node. It returns the value e held.
func (l *List[T, M, PM]) Remove(e *Element[T, M, PM]) T {
	n := e.node()
	v := n.value
	if e.list == l {
		l.remove(n)
		synptr.Delete(l.alloc, e.ptr)
	}
	return v
}

func (l *List[T, M, PM]) MoveToFront(e *Element[T, M, PM]) {
	if e.list != l || l.len == 0 {
		return
	}
	n := e.node()
	if follow[T, M, PM](&l.sentinel().next) == n {
		return
	}
	l.move(n, l.sentinel())
}

func (l *List[T, M, PM]) MoveToBack(e *Element[T, M, PM]) {
	if e.list != l || l.len == 0 {
		return
	}
	n := e.node()
	at := follow[T, M, PM](&l.sentinel().prev)
	if at == n {
		return
	}
	l.move(n, at)
}

// All yields the values front to back.
func (l *List[T, M, PM]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		r := l.sentinel()
		for n := follow[T, M, PM](&r.next); n != r; n = follow[T, M, PM](&n.next) {
			if !yield(n.value) {
				return
			}
		}
	}
}

// Values collects the values front to back.
func (l *List[T, M, PM]) Values() []T {
	values := make([]T, 0, l.len)
	for v := range l.All() {
		values = append(values, v)
	}
	return values
}

func (l *List[T, M, PM]) insert(n, at *node[T, M]) *node[T, M] {
	next := follow[T, M, PM](&at.next)
	setLink[T, M, PM](&n.prev, at)
	setLink[T, M, PM](&n.next, next)
	setLink[T, M, PM](&at.next, n)
	setLink[T, M, PM](&next.prev, n)
	l.len++
	return n
}

func (l *List[T, M, PM]) remove(n *node[T, M]) {
	prev, next := follow[T, M, PM](&n.prev), follow[T, M, PM](&n.next)
	setLink[T, M, PM](&prev.next, next)
	setLink[T, M, PM](&next.prev, prev)
	PM(&n.prev).SetNull()
	PM(&n.next).SetNull()
	l.len--
}

func (l *List[T, M, PM]) move(n, at *node[T, M]) {
	if n == at {
		return
	}
	prev, next := follow[T, M, PM](&n.prev), follow[T, M, PM](&n.next)
	setLink[T, M, PM](&prev.next, next)
	setLink[T, M, PM](&next.prev, prev)

	next = follow[T, M, PM](&at.next)
	setLink[T, M, PM](&n.prev, at)
	setLink[T, M, PM](&n.next, next)
	setLink[T, M, PM](&at.next, n)
	setLink[T, M, PM](&next.prev, n)
}

// Element is a handle to one list node. It resolves through the registry on
// every access, so it stays usable across relocation.
type Element[T any, M any, PM synptr.Model[M]] struct {
	list *List[T, M, PM]
	ptr  *synptr.Ptr[node[T, M], M, PM]
}

func (e *Element[T, M, PM]) node() *node[T, M] {
	return e.ptr.Elem()
}

func (e *Element[T, M, PM]) Value() T {
	return e.node().value
}

func (e *Element[T, M, PM]) SetValue(v T) {
	e.node().value = v
}

func (e *Element[T, M, PM]) Next() *Element[T, M, PM] {
	return e.list.element(follow[T, M, PM](&e.node().next))
}

func (e *Element[T, M, PM]) Prev() *Element[T, M, PM] {
	return e.list.element(follow[T, M, PM](&e.node().prev))
}

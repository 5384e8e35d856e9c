package container

import (
	"iter"

	"github.com/leslie-fei/synptr"
)

const minVectorCap = 8

// Vector is a growable array in segment memory. Growing allocates a new
// chunk and copies through synthetic handles; the old chunk is handed back to
// the allocator.
type Vector[T any, M any, PM synptr.Model[M]] struct {
	alloc *synptr.Allocator[T, M, PM]
	data  *synptr.Ptr[T, M, PM]
	len   int
	cap   int
}

func NewVector[T any, M any, PM synptr.Model[M]](a *synptr.Allocator[T, M, PM]) *Vector[T, M, PM] {
	return &Vector[T, M, PM]{alloc: a, data: new(synptr.Ptr[T, M, PM])}
}

func (v *Vector[T, M, PM]) Len() int {
	return v.len
}

func (v *Vector[T, M, PM]) Cap() int {
	return v.cap
}

// Reserve makes room for at least n elements.
func (v *Vector[T, M, PM]) Reserve(n int) error {
	if n <= v.cap {
		return nil
	}
	data, err := v.alloc.Allocate(n)
	if err != nil {
		return err
	}
	if v.len > 0 {
		synptr.Copy(v.Begin().Const(), v.End().Const(), data)
	}
	if !v.data.IsNil() {
		v.alloc.Deallocate(v.data, v.cap)
	}
	v.data.Set(data)
	v.cap = n
	return nil
}

func (v *Vector[T, M, PM]) Append(values ...T) error {
	if need := v.len + len(values); need > v.cap {
		if err := v.Reserve(max(need, 2*v.cap, minVectorCap)); err != nil {
			return err
		}
	}
	for _, value := range values {
		*v.data.Index(v.len) = value
		v.len++
	}
	return nil
}

// At reads element i. It panics when i is out of range.
func (v *Vector[T, M, PM]) At(i int) T {
	v.check(i)
	return *v.data.Index(i)
}

func (v *Vector[T, M, PM]) Set(i int, value T) {
	v.check(i)
	*v.data.Index(i) = value
}

func (v *Vector[T, M, PM]) check(i int) {
	if i < 0 || i >= v.len {
		panic("container: vector index out of range")
	}
}

// Begin returns a new handle to the first element.
func (v *Vector[T, M, PM]) Begin() *synptr.Ptr[T, M, PM] {
	return new(synptr.Ptr[T, M, PM]).Set(v.data)
}

// End returns a new handle one past the last element.
func (v *Vector[T, M, PM]) End() *synptr.Ptr[T, M, PM] {
	return new(synptr.Ptr[T, M, PM]).Add(v.data, v.len)
}

// Truncate drops every element from n on.
func (v *Vector[T, M, PM]) Truncate(n int) {
	if n < v.len {
		v.len = max(n, 0)
	}
}

func (v *Vector[T, M, PM]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.len; i++ {
			if !yield(i, *v.data.Index(i)) {
				return
			}
		}
	}
}

// Release hands the storage back to the allocator and empties the vector.
func (v *Vector[T, M, PM]) Release() {
	if !v.data.IsNil() {
		v.alloc.Deallocate(v.data, v.cap)
		v.data.SetNil()
	}
	v.len, v.cap = 0, 0
}

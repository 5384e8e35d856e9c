package synptr

import (
	"cmp"
	"sort"
)

// Copy copies [first, last) to the range starting at out, front to back, and
// returns a new handle one past the last element written.
func Copy[T any, M any, PM Model[M]](first, last *ConstPtr[T, M, PM], out *Ptr[T, M, PM]) *Ptr[T, M, PM] {
	n := last.Diff(first)
	for i := 0; i < n; i++ {
		*out.Index(i) = first.At(i)
	}
	return new(Ptr[T, M, PM]).Add(out, n)
}

// Mismatch returns the first position where [first1, last1) and the range
// starting at first2 differ, as a pair of new handles.
func Mismatch[T comparable, M any, PM Model[M]](first1, last1, first2 *ConstPtr[T, M, PM]) (*ConstPtr[T, M, PM], *ConstPtr[T, M, PM]) {
	n := last1.Diff(first1)
	i := 0
	for i < n && first1.At(i) == first2.At(i) {
		i++
	}
	return new(ConstPtr[T, M, PM]).Add(first1, i), new(ConstPtr[T, M, PM]).Add(first2, i)
}

// Fill stores v into every element of [first, last).
func Fill[T any, M any, PM Model[M]](first, last *Ptr[T, M, PM], v T) {
	n := last.Diff(first)
	for i := 0; i < n; i++ {
		*first.Index(i) = v
	}
}

// Sort sorts [first, last) in ascending order.
func Sort[T cmp.Ordered, M any, PM Model[M]](first, last *Ptr[T, M, PM]) {
	SortFunc(first, last, cmp.Compare[T])
}

// SortFunc sorts [first, last) by cmp. Every element access goes through
// the handle.
func SortFunc[T any, M any, PM Model[M]](first, last *Ptr[T, M, PM], cmp func(a, b T) int) {
	sort.Sort(&ptrRange[T, M, PM]{first: first, n: last.Diff(first), cmp: cmp})
}

type ptrRange[T any, M any, PM Model[M]] struct {
	first *Ptr[T, M, PM]
	n     int
	cmp   func(a, b T) int
}

func (r *ptrRange[T, M, PM]) Len() int {
	return r.n
}

func (r *ptrRange[T, M, PM]) Less(i, j int) bool {
	return r.cmp(*r.first.Index(i), *r.first.Index(j)) < 0
}

func (r *ptrRange[T, M, PM]) Swap(i, j int) {
	a, b := r.first.Index(i), r.first.Index(j)
	*a, *b = *b, *a
}

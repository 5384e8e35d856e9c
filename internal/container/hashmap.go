package container

import (
	"iter"
	"unsafe"

	"github.com/leslie-fei/synptr"
)

const (
	// MaxKeyLen is the longest key a HashMap stores, keys live inline in
	// their entry
	MaxKeyLen      = 32
	defaultBuckets = 1024
)

// bucket heads a chain of entries
type bucket[M any] struct {
	len  uint32
	head M
}

type entry[V any, M any] struct {
	next   M
	keyLen uint16
	key    [MaxKeyLen]byte
	value  V
}

func (e *entry[V, M]) Key() string {
	return string(e.key[:e.keyLen])
}

func (e *entry[V, M]) equals(key string) bool {
	return int(e.keyLen) == len(key) && string(e.key[:e.keyLen]) == key
}

func entryAt[V any, M any, PM synptr.Model[M]](link *M) *entry[V, M] {
	return (*entry[V, M])(PM(link).Address())
}

// HashMap is a fixed size, separately chained hash table in segment memory.
// The bucket array and every entry come from the Allocator; chains are
// linked with addressing model values, newest entry first.
type HashMap[V any, M any, PM synptr.Model[M]] struct {
	entries  *synptr.Allocator[entry[V, M], M, PM]
	buckets  *synptr.Ptr[bucket[M], M, PM]
	nbuckets int
	len      int
}

// NewHashMap allocates the bucket array. A non positive count picks the
// default of 1024 buckets.
func NewHashMap[V any, M any, PM synptr.Model[M]](a *synptr.Allocator[V, M, PM], buckets int) (*HashMap[V, M, PM], error) {
	if buckets <= 0 {
		buckets = defaultBuckets
	}
	ba := synptr.Rebind[bucket[M]](a)
	array, err := ba.Allocate(buckets)
	if err != nil {
		return nil, err
	}
	for i := 0; i < buckets; i++ {
		b := array.Index(i)
		b.len = 0
		PM(&b.head).SetNull()
	}
	return &HashMap[V, M, PM]{
		entries:  synptr.Rebind[entry[V, M]](a),
		buckets:  array,
		nbuckets: buckets,
	}, nil
}

func (m *HashMap[V, M, PM]) Len() int {
	return m.len
}

func (m *HashMap[V, M, PM]) bucket(key string) *bucket[M] {
	return m.buckets.Index(int(hashKey(key) % uint64(m.nbuckets)))
}

func (m *HashMap[V, M, PM]) find(b *bucket[M], key string) (prev, found *entry[V, M]) {
	link := &b.head
	for i := uint32(0); i < b.len; i++ {
		e := entryAt[V, M, PM](link)
		if e.equals(key) {
			return prev, e
		}
		prev, link = e, &e.next
	}
	return nil, nil
}

func (m *HashMap[V, M, PM]) Get(key string) (V, error) {
	_, e := m.find(m.bucket(key), key)
	if e == nil {
		var zero V
		return zero, ErrNotFound
	}
	return e.value, nil
}

func (m *HashMap[V, M, PM]) Set(key string, value V) error {
	if len(key) > MaxKeyLen {
		return ErrKeyTooLarge
	}
	b := m.bucket(key)
	if _, e := m.find(b, key); e != nil {
		e.value = value
		return nil
	}

	p, err := synptr.New(m.entries, func(e *entry[V, M]) error {
		e.keyLen = uint16(copy(e.key[:], key))
		e.value = value
		return nil
	})
	if err != nil {
		return err
	}

	// head insert
	e := p.Elem()
	PM(&e.next).Assign(&b.head)
	PM(&b.head).AssignFrom(unsafe.Pointer(e))
	b.len++
	m.len++
	return nil
}

func (m *HashMap[V, M, PM]) Del(key string) error {
	b := m.bucket(key)
	prev, e := m.find(b, key)
	if e == nil {
		return ErrNotFound
	}

	if prev == nil {
		PM(&b.head).Assign(&e.next)
	} else {
		PM(&prev.next).Assign(&e.next)
	}
	b.len--
	m.len--
	synptr.Delete(m.entries, new(synptr.Ptr[entry[V, M], M, PM]).SetNative(e))
	return nil
}

// All yields every key and value, bucket by bucket.
func (m *HashMap[V, M, PM]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for i := 0; i < m.nbuckets; i++ {
			b := m.buckets.Index(i)
			link := &b.head
			for j := uint32(0); j < b.len; j++ {
				e := entryAt[V, M, PM](link)
				if !yield(e.Key(), e.value) {
					return
				}
				link = &e.next
			}
		}
	}
}

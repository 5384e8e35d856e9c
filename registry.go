package synptr

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// SegmentTable is the read side of a segment registry, the only part the
// addressing models need to turn a segment id into a physical address.
type SegmentTable interface {
	SegmentAddress(segment uint64) unsafe.Pointer
	SegmentSize(segment uint64) uint64
	FirstSegmentIndex() uint64
	LastSegmentIndex() uint64
	MaxSegmentCount() uint64
	MaxSegmentSize() uint64
}

// SegmentStore is a SegmentTable with a lifecycle, as driven by allocation
// strategies.
type SegmentStore interface {
	SegmentTable
	InitSegments() error
	ResetSegments()
	SwapSegments()
	ClearSegments() error
	Ready() bool
	Locate(p unsafe.Pointer) (segment, offset uint64, ok bool)
}

// Registry owns a fixed table of segments. Every live segment has a primary
// buffer, which is what SegmentAddress reports, and an equally sized shadow
// buffer used by SwapSegments to relocate the segment.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	config  *Config
	logger  *slog.Logger
	primary []Memory
	shadow  []Memory
	bases   []unsafe.Pointer
	sizes   []uint64
	ready   bool
}

var _ SegmentStore = (*Registry)(nil)

// NewRegistry creates a registry without allocating any segment.
func NewRegistry(c *Config) (*Registry, error) {
	config := mergeConfig(c)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	slots := config.MaxSegments + firstSegmentIndex
	return &Registry{
		config:  config,
		logger:  config.Logger.With("component", "registry", "memory", config.MemoryType.String()),
		primary: make([]Memory, slots),
		shadow:  make([]Memory, slots),
		bases:   make([]unsafe.Pointer, slots),
		sizes:   make([]uint64, slots),
	}, nil
}

// MustNewRegistry is like NewRegistry but panics on an invalid config.
func MustNewRegistry(c *Config) *Registry {
	r, err := NewRegistry(c)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Config() Config {
	return *r.config
}

// AllocateSegment attaches zero filled primary and shadow buffers of size bytes
// to segment. Out of range ids, oversized or empty requests and live segments
// are ignored. A non-nil error only reports a backend failure, in which case
// the segment stays unallocated.
func (r *Registry) AllocateSegment(segment, size uint64) error {
	if segment < r.FirstSegmentIndex() || segment > r.LastSegmentIndex() ||
		size == 0 || size > r.config.MaxSegmentSize || r.bases[segment] != nil {
		return nil
	}

	shadow, err := r.attach(segment, roleShadow, size)
	if err != nil {
		return err
	}
	primary, err := r.attach(segment, rolePrimary, size)
	if err != nil {
		_ = shadow.Detach()
		return err
	}

	r.shadow[segment] = shadow
	r.primary[segment] = primary
	r.bases[segment] = primary.Ptr()
	r.sizes[segment] = size
	r.logger.Debug("segment allocated", "segment", segment, "size", size)
	return nil
}

func (r *Registry) attach(segment uint64, role bufferRole, size uint64) (Memory, error) {
	mem, err := newMemory(r.config, segment, role, size)
	if err != nil {
		return nil, err
	}
	if err = mem.Attach(); err != nil {
		r.logger.Error("attach segment buffer", "segment", segment, "role", string(role), "error", err)
		return nil, fmt.Errorf("synptr: attach segment %d %s buffer: %w", segment, role, err)
	}
	return mem, nil
}

// DeallocateSegment releases both buffers of segment. It is idempotent.
func (r *Registry) DeallocateSegment(segment uint64) error {
	if segment >= uint64(len(r.bases)) || r.bases[segment] == nil {
		return nil
	}

	err := errors.Join(r.primary[segment].Detach(), r.shadow[segment].Detach())
	r.primary[segment] = nil
	r.shadow[segment] = nil
	r.bases[segment] = nil
	r.sizes[segment] = 0
	if err != nil {
		r.logger.Error("detach segment", "segment", segment, "error", err)
		return fmt.Errorf("synptr: detach segment %d: %w", segment, err)
	}
	r.logger.Debug("segment deallocated", "segment", segment)
	return nil
}

// InitSegments allocates every segment at the maximum size, once.
func (r *Registry) InitSegments() error {
	if r.ready {
		return nil
	}
	for i := r.FirstSegmentIndex(); i <= r.LastSegmentIndex(); i++ {
		if err := r.AllocateSegment(i, r.config.MaxSegmentSize); err != nil {
			return err
		}
	}
	r.ready = true
	r.logger.Debug("segments ready", "count", r.MaxSegmentCount(), "size", r.config.MaxSegmentSize)
	return nil
}

// ResetSegments zero fills both buffers of every live segment.
func (r *Registry) ResetSegments() {
	for i := r.FirstSegmentIndex(); i <= r.LastSegmentIndex(); i++ {
		if r.bases[i] != nil {
			clear(r.primary[i].Bytes())
			clear(r.shadow[i].Bytes())
		}
	}
}

// SwapSegments relocates every live segment: the primary bytes are copied
// into the shadow buffer and the two buffers exchange roles. Handles that
// resolve through SegmentAddress observe the new location on their next access.
func (r *Registry) SwapSegments() {
	for i := r.FirstSegmentIndex(); i <= r.LastSegmentIndex(); i++ {
		if r.bases[i] == nil {
			continue
		}
		copy(r.shadow[i].Bytes(), r.primary[i].Bytes())
		r.primary[i], r.shadow[i] = r.shadow[i], r.primary[i]
		r.bases[i] = r.primary[i].Ptr()
		r.logger.Debug("segment relocated", "segment", i)
	}
}

// ClearSegments deallocates every segment and drops the ready flag.
func (r *Registry) ClearSegments() error {
	r.ready = false

	var errs []error
	for i := r.FirstSegmentIndex(); i <= r.LastSegmentIndex(); i++ {
		if err := r.DeallocateSegment(i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) Ready() bool {
	return r.ready
}

// SegmentAddress returns the base of segment's primary buffer, nil when the
// segment is not allocated. Ids past LastSegmentIndex panic.
func (r *Registry) SegmentAddress(segment uint64) unsafe.Pointer {
	return r.bases[segment]
}

func (r *Registry) SegmentSize(segment uint64) uint64 {
	return r.sizes[segment]
}

func (r *Registry) FirstSegmentIndex() uint64 {
	return firstSegmentIndex
}

func (r *Registry) LastSegmentIndex() uint64 {
	return r.config.MaxSegments + firstSegmentIndex - 1
}

func (r *Registry) MaxSegmentCount() uint64 {
	return r.config.MaxSegments
}

func (r *Registry) MaxSegmentSize() uint64 {
	return r.config.MaxSegmentSize
}

// Locate finds the live segment containing p.
func (r *Registry) Locate(p unsafe.Pointer) (segment, offset uint64, ok bool) {
	addr := uintptr(p)
	for i := r.FirstSegmentIndex(); i <= r.LastSegmentIndex(); i++ {
		bottom := uintptr(r.bases[i])
		if bottom == 0 {
			continue
		}
		if bottom <= addr && addr < bottom+uintptr(r.sizes[i]) {
			return i, uint64(addr - bottom), true
		}
	}
	return 0, 0, false
}

// Checksum hashes the primary buffer of segment, 0 when it is not live.
func (r *Registry) Checksum(segment uint64) uint64 {
	if segment >= uint64(len(r.bases)) || r.bases[segment] == nil {
		return 0
	}
	return xxhash.Sum64(r.primary[segment].Bytes())
}

// ShadowChecksum hashes the shadow buffer of segment, 0 when it is not live.
func (r *Registry) ShadowChecksum(segment uint64) uint64 {
	if segment >= uint64(len(r.bases)) || r.bases[segment] == nil {
		return 0
	}
	return xxhash.Sum64(r.shadow[segment].Bytes())
}

type SegmentStat struct {
	Segment  uint64 `json:"segment"`
	Size     uint64 `json:"size"`
	Base     string `json:"base"`
	Shadow   string `json:"shadow"`
	Checksum uint64 `json:"checksum"`
}

// Stats describes every live segment.
func (r *Registry) Stats() []SegmentStat {
	var stats []SegmentStat
	for i := r.FirstSegmentIndex(); i <= r.LastSegmentIndex(); i++ {
		if r.bases[i] == nil {
			continue
		}
		stats = append(stats, SegmentStat{
			Segment:  i,
			Size:     r.sizes[i],
			Base:     fmt.Sprintf("%#x", uintptr(r.bases[i])),
			Shadow:   fmt.Sprintf("%#x", uintptr(r.shadow[i].Ptr())),
			Checksum: r.Checksum(i),
		})
	}
	return stats
}

package synptr

import (
	"fmt"
	"unsafe"

	"github.com/leslie-fei/synptr/gom"
	"github.com/leslie-fei/synptr/mmap"
	"github.com/leslie-fei/synptr/shm"
)

const (
	KB = 1024
	MB = 1024 * KB
	GB = 1024 * MB
)

// Memory 内存块抽象, one buffer of a segment
type Memory interface {
	// Attach attach memory
	Attach() error
	// Detach detach memory
	Detach() error
	// Ptr first ptr, nil while detached
	Ptr() unsafe.Pointer
	// Size memory total size
	Size() uint64
	// PtrOffset offset Get ptr
	PtrOffset(offset uint64) unsafe.Pointer
	// Bytes the whole buffer, nil while detached
	Bytes() []byte
}

type bufferRole string

const (
	rolePrimary bufferRole = "primary"
	roleShadow  bufferRole = "shadow"
)

func newMemory(config *Config, segment uint64, role bufferRole, size uint64) (Memory, error) {
	switch config.MemoryType {
	case GO:
		return gom.NewMemory(size), nil
	case SHM:
		return shm.NewMemory(bufferKey(config.MemoryKey, segment, role), size, true), nil
	case MMAP:
		path := ""
		if config.MemoryKey != "" {
			path = bufferKey(config.MemoryKey, segment, role)
		}
		return mmap.NewMemory(path, size), nil
	default:
		return nil, fmt.Errorf("%w: MemoryType: %d not support", ErrInvalidConfig, config.MemoryType)
	}
}

func bufferKey(key string, segment uint64, role bufferRole) string {
	return fmt.Sprintf("%s.%d.%s", key, segment, role)
}

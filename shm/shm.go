package shm

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

var ErrUnsupported = errors.New("shm: shared memory is not supported on this platform")

func NewMemory(key string, bytes uint64, createIfNotExists bool) *Memory {
	return &Memory{
		createIfNotExists: createIfNotExists,
		shmkey:            key,
		bytes:             bytes,
	}
}

// Memory 基于操作系统共享内存实现
type Memory struct {
	createIfNotExists bool   // create shm if not exists
	shmkey            string // shared memory key
	shmid             int    // shared memory handle
	bytes             uint64 // shared memory size
	mem               []byte // attached region
}

func (m *Memory) Key() string {
	return m.shmkey
}

func (m *Memory) Handle() int {
	return m.shmid
}

func (m *Memory) Size() uint64 {
	return m.bytes
}

func (m *Memory) Bytes() []byte {
	return m.mem
}

func (m *Memory) Ptr() unsafe.Pointer {
	if m.mem == nil {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(m.mem))
}

func (m *Memory) PtrOffset(offset uint64) unsafe.Pointer {
	if offset >= m.bytes {
		panic(fmt.Errorf("offset overflow: %d > %d", offset, m.bytes))
	}
	return unsafe.Add(m.Ptr(), offset)
}

// ipcKey folds the string key into the positive int range System V expects.
func ipcKey(key string) int {
	return int(xxhash.Sum64String(key) & 0x7fffffff)
}

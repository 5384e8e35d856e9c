package mmap

import (
	"fmt"
	"os"
	"unsafe"

	mmapgo "github.com/edsrzf/mmap-go"
)

// Memory is a mapped region. An empty filepath maps anonymous memory,
// otherwise the file is created (truncated) and mapped shared.
type Memory struct {
	filepath string
	bytes    uint64
	file     *os.File
	mmap     mmapgo.MMap
	basep    unsafe.Pointer
}

func NewMemory(filepath string, bytes uint64) *Memory {
	return &Memory{filepath: filepath, bytes: bytes}
}

func (m *Memory) Attach() (err error) {
	if m.basep != nil {
		return nil
	}

	if m.filepath == "" {
		m.mmap, err = mmapgo.MapRegion(nil, int(m.bytes), mmapgo.RDWR, mmapgo.ANON, 0)
		if err != nil {
			return err
		}
		m.basep = unsafe.Pointer(unsafe.SliceData(m.mmap))
		return nil
	}

	m.file, err = os.OpenFile(m.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}

	if err = m.file.Truncate(int64(m.bytes)); err != nil {
		_ = m.file.Close()
		m.file = nil
		return err
	}

	m.mmap, err = mmapgo.MapRegion(m.file, int(m.bytes), mmapgo.RDWR, 0, 0)
	if err != nil {
		_ = m.file.Close()
		m.file = nil
		return err
	}

	m.basep = unsafe.Pointer(unsafe.SliceData(m.mmap))
	return nil
}

func (m *Memory) Detach() error {
	if m.mmap != nil {
		if err := m.mmap.Unmap(); err != nil {
			return err
		}
		m.mmap = nil
		m.basep = unsafe.Pointer(nil)
	}

	if m.file != nil {
		if err := m.file.Close(); err != nil {
			return err
		}
		m.file = nil
	}

	return nil
}

func (m *Memory) Ptr() unsafe.Pointer {
	return m.basep
}

func (m *Memory) Size() uint64 {
	return m.bytes
}

func (m *Memory) Bytes() []byte {
	return m.mmap
}

func (m *Memory) PtrOffset(offset uint64) unsafe.Pointer {
	if offset >= m.bytes {
		panic(fmt.Errorf("offset overflow: %d > %d", offset, m.bytes))
	}
	return unsafe.Add(m.basep, offset)
}

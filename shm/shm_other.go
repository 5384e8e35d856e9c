//go:build !linux

package shm

func (m *Memory) Attach() error {
	return ErrUnsupported
}

func (m *Memory) Detach() error {
	return nil
}

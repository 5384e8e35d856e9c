//go:build linux

package shm

import (
	"golang.org/x/sys/unix"
)

const shmAccess = 0o600

func (m *Memory) Attach() error {
	if m.mem != nil {
		return nil
	}

	if 0 == m.shmid {
		flag := shmAccess
		if m.createIfNotExists {
			flag |= unix.IPC_CREAT
		}

		shmid, err := unix.SysvShmGet(ipcKey(m.shmkey), int(m.bytes), flag)
		if err != nil {
			return err
		}
		m.shmid = shmid
	}

	mem, err := unix.SysvShmAttach(m.shmid, 0, 0)
	if err != nil {
		return err
	}
	if uint64(len(mem)) < m.bytes {
		_ = unix.SysvShmDetach(mem)
		return unix.EINVAL
	}

	// an existing segment may carry bytes from a previous owner
	m.mem = mem[:m.bytes:m.bytes]
	clear(m.mem)

	// removed by the kernel once the last process detaches
	if _, err = unix.SysvShmCtl(m.shmid, unix.IPC_RMID, nil); err != nil {
		_ = unix.SysvShmDetach(mem)
		m.mem = nil
		return err
	}
	return nil
}

func (m *Memory) Detach() (err error) {
	if m.mem != nil {
		err = unix.SysvShmDetach(m.mem)
		m.mem = nil
		m.shmid = 0
	}
	return
}

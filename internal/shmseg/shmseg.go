// Package shmseg creates and maps named POSIX shared-memory segments.
//
// POSIX shared memory on Linux is conventionally backed by the tmpfs
// mounted at /dev/shm, which is what shm_open(3) uses under the hood; this
// package talks to that same tmpfs directly via open(2)/ftruncate(2)/mmap(2)
// rather than cgo-wrapping shm_open, so the package stays pure Go.
package shmseg

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

const shmDir = "/dev/shm/"

// Mode reports whether Acquire created a new segment or attached to one
// that already existed.
type Mode int

const (
	Created Mode = iota
	Attached
)

func (m Mode) String() string {
	if m == Created {
		return "created"
	}
	return "attached"
}

// Segment is a mapped named shared-memory region. The zero value is not
// usable; construct one with Acquire.
type Segment struct {
	name  string
	path  string
	Data  []byte
	bytes int
}

// Name validates and normalizes a POSIX shared-memory name. A leading slash
// is accepted (and stripped) for compatibility with shm_open naming
// conventions, but no other slashes are permitted.
func Name(name string) (string, error) {
	trimmed := strings.TrimPrefix(name, "/")
	if trimmed == "" {
		return "", fmt.Errorf("shmseg: empty segment name")
	}
	if strings.Contains(trimmed, "/") {
		return "", fmt.Errorf("shmseg: segment name %q must not contain additional slashes", name)
	}
	return trimmed, nil
}

// Acquire creates a named shared-memory segment or attaches to one that
// already exists, truncates it to totalBytes (idempotent if it is already
// that size), and maps it read/write. The caller owns the returned Segment
// and must call Release when done.
func Acquire(name string, totalBytes int) (*Segment, Mode, error) {
	clean, err := Name(name)
	if err != nil {
		return nil, 0, err
	}
	path := shmDir + clean

	mode := Created
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL, 0666)
	if err != nil {
		if err != unix.EEXIST {
			return nil, 0, fmt.Errorf("shmseg: open %s: %w", path, err)
		}
		mode = Attached
		fd, err = unix.Open(path, unix.O_RDWR, 0666)
		if err != nil {
			return nil, 0, fmt.Errorf("shmseg: open existing %s: %w", path, err)
		}
	}
	// The fd can be closed immediately after mmap without invalidating the
	// mapping (mmap(2)), so we do not retain it on Segment.
	defer unix.Close(fd)

	if err := unix.Ftruncate(fd, int64(totalBytes)); err != nil {
		// ftruncate on an already-correctly-sized fd can return EINVAL on
		// some platforms; only surface other failures.
		if st, statErr := unix.Fstat(fd); statErr != nil || int(st.Size) != totalBytes {
			if mode == Created {
				unix.Unlink(path)
			}
			return nil, 0, fmt.Errorf("shmseg: ftruncate %s to %d bytes: %w", path, totalBytes, err)
		}
	}

	data, err := syscall.Mmap(fd, 0, totalBytes, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		if mode == Created {
			unix.Unlink(path)
		}
		return nil, 0, fmt.Errorf("shmseg: mmap %s: %w", path, err)
	}

	return &Segment{name: clean, path: path, Data: data, bytes: totalBytes}, mode, nil
}

// Release unmaps the segment. It never unlinks the backing name; see
// Unlink.
func (s *Segment) Release() error {
	if s == nil || s.Data == nil {
		return nil
	}
	err := syscall.Munmap(s.Data)
	s.Data = nil
	if err != nil {
		return fmt.Errorf("shmseg: munmap %s: %w", s.path, err)
	}
	return nil
}

// Unlink removes the segment's name from the system namespace. Existing
// mappings (including this one, until Release is called) remain valid.
func Unlink(name string) error {
	clean, err := Name(name)
	if err != nil {
		return err
	}
	if err := unix.Unlink(shmDir + clean); err != nil && err != unix.ENOENT {
		return fmt.Errorf("shmseg: unlink %s: %w", clean, err)
	}
	return nil
}

// exists reports whether a segment of this name is currently present,
// used only by tests to assert cleanup behavior.
func exists(name string) bool {
	clean, err := Name(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(shmDir + clean)
	return err == nil
}

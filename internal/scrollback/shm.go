package scrollback

import (
	"fmt"
	"os"
	"syscall"

	"github.com/gofrs/flock"
)

// sharedRegion is the file-backed mmap plus advisory lock that back a
// Ring shared between the pump and shell processes. A raw anonymous
// MAP_SHARED region would normally vanish across a self-re-exec (it
// replaces the process image, unlike fork), so the backing store is an
// unlinked-but-still-open temp file whose descriptor is carried across
// the re-exec via ExtraFiles — same bytes, same mapping, no re-creation.
// gofrs/flock stands in for the C original's process-shared
// pthread_mutex_t, guarding every append and read; it's keyed by a
// separate lock file since the backing file itself is unlinked.
type sharedRegion struct {
	file *os.File
	data []byte
	lock *flock.Flock
}

// createSharedRegion allocates a capacity-sized ring (plus header) backed
// by a newly created, immediately-unlinked temp file and mmap's it
// MAP_SHARED. The returned region's file descriptor is meant to be
// inherited by the pump process via ExtraFiles.
func createSharedRegion(capacity int, lockPath string) (*sharedRegion, error) {
	f, err := os.CreateTemp("", "yo-scrollback-*")
	if err != nil {
		return nil, fmt.Errorf("create scrollback backing file: %w", err)
	}
	name := f.Name()
	size := headerSize + capacity
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		os.Remove(name)
		return nil, fmt.Errorf("size scrollback backing file: %w", err)
	}
	region, err := mapSharedRegion(f, size, lockPath)
	if err != nil {
		f.Close()
		os.Remove(name)
		return nil, err
	}
	os.Remove(name) // the mapping and the inherited fd keep the data alive
	return region, nil
}

// openSharedRegion wraps an inherited file descriptor (passed to the
// pump process via ExtraFiles) as a sharedRegion.
func openSharedRegion(fd uintptr, capacity int, lockPath string) (*sharedRegion, error) {
	f := os.NewFile(fd, "yo-scrollback")
	return mapSharedRegion(f, headerSize+capacity, lockPath)
}

func mapSharedRegion(f *os.File, size int, lockPath string) (*sharedRegion, error) {
	data, err := syscall.Mmap(int(f.Fd()), 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap scrollback region: %w", err)
	}
	return &sharedRegion{
		file: f,
		data: data,
		lock: flock.New(lockPath),
	}, nil
}

func (s *sharedRegion) ring(capacity int) *Ring {
	return newRing(s.data, capacity, s.lock)
}

func (s *sharedRegion) Close() error {
	err := syscall.Munmap(s.data)
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}

//go:build unix

package scanner

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var errMmapUnsupported = errors.New("mmap unsupported")

// mapFile maps path read-only. Empty files cannot be mapped and are
// reported as unsupported so the caller streams them instead.
func mapFile(path string) ([]byte, func(), error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}
	size := stat.Size()
	if size == 0 || !stat.Mode().IsRegular() {
		file.Close()
		return nil, nil, errMmapUnsupported
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, nil, errMmapUnsupported
	}

	release := func() {
		unix.Munmap(data)
		file.Close()
	}
	return data, release, nil
}

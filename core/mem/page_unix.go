//go:build linux || darwin || freebsd

package mem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mapPages creates a private anonymous read/write mapping of n bytes.
func mapPages(n int) ([]byte, error) {
	region, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %w", ErrMapFailed, n, err)
	}
	return region, nil
}

// unmapPages releases a mapping created by mapPages.
func unmapPages(region []byte) error {
	if err := unix.Munmap(region); err != nil {
		return fmt.Errorf("%w: munmap %d bytes: %w", ErrUnmapFailed, len(region), err)
	}
	return nil
}

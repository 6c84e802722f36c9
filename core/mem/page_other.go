//go:build !linux && !darwin && !freebsd

package mem

// mapPages falls back to a GC slice where anonymous mappings are unavailable.
func mapPages(n int) ([]byte, error) {
	return make([]byte, n), nil
}

// unmapPages leaves the region to the collector.
func unmapPages([]byte) error {
	return nil
}

package hashmap

import "fmt"

// Stats describes the occupancy of a Map.
type Stats struct {
	Capacity     int
	Size         int
	Tombstones   int
	Free         int
	LongestProbe int // largest distance of an entry from its home slot
}

// LoadFactor returns Size/Capacity, or 0 for an unallocated map.
func (s Stats) LoadFactor() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Size) / float64(s.Capacity)
}

func (s Stats) String() string {
	return fmt.Sprintf("capacity=%d size=%d tombstones=%d free=%d load=%.2f longest_probe=%d",
		s.Capacity, s.Size, s.Tombstones, s.Free, s.LoadFactor(), s.LongestProbe)
}

// Stats walks the slot array and reports its occupancy.
func (m *Map[K, V]) Stats() Stats {
	capacity := len(m.flags)
	st := Stats{Capacity: capacity}
	for i, f := range m.flags {
		switch f {
		case FlagFree:
			st.Free++
		case FlagTombstone:
			st.Tombstones++
		case FlagOccupied:
			st.Size++
			dist := i - m.home(m.entries[i].key)
			if dist < 0 {
				dist += capacity
			}
			st.LongestProbe = max(st.LongestProbe, dist)
		}
	}
	return st
}

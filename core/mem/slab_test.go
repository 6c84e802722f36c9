package mem

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizeClasses_Presets(t *testing.T) {
	for _, cfg := range []SizeClassConfig{ConfigFineGrained, ConfigBalanced, ConfigCoarse} {
		t.Run(cfg.Name, func(t *testing.T) {
			require.NoError(t, cfg.Validate())
			table := newSizeClassTable(cfg)
			require.Equal(t, cfg.SmallMin, table.classSize(0))
			require.Equal(t, cfg.MediumMax, table.classSize(table.numClasses()-1))
			for i := 1; i < table.numClasses(); i++ {
				require.Greater(t, table.sizes[i], table.sizes[i-1], "classes ascend")
				require.Zero(t, table.sizes[i]%8, "classes are 8-byte aligned")
			}

			got, ok := SizeClassPreset(cfg.Name)
			require.True(t, ok)
			require.Equal(t, cfg, got)
		})
	}
}

func TestSizeClasses_ClassFor(t *testing.T) {
	table := newSizeClassTable(ConfigBalanced)

	require.Equal(t, 0, table.classFor(1))
	require.Equal(t, 0, table.classFor(8))
	require.Equal(t, 1, table.classFor(9))
	require.Equal(t, 24, table.classSize(table.classFor(24)))
	require.Equal(t, table.numClasses(), table.classFor(ConfigBalanced.MediumMax+1))

	for size := 1; size <= ConfigBalanced.MediumMax; size += 7 {
		idx := table.classFor(size)
		require.GreaterOrEqual(t, table.classSize(idx), size)
		if idx > 0 {
			require.Less(t, table.classSize(idx-1), size, "smallest fitting class")
		}
	}
}

func TestSizeClasses_Validate(t *testing.T) {
	bad := ConfigBalanced
	bad.SmallMin = 6
	require.ErrorIs(t, bad.Validate(), ErrBadSizeClasses)

	bad = ConfigBalanced
	bad.GrowthFactor = 1
	require.ErrorIs(t, bad.Validate(), ErrBadSizeClasses)

	bad = ConfigBalanced
	bad.MediumMax = 100
	require.ErrorIs(t, bad.Validate(), ErrBadSizeClasses)

	_, err := NewSlab(bad, nil)
	require.ErrorIs(t, err, ErrBadSizeClasses)
}

func TestSlab_RecyclesPerClass(t *testing.T) {
	s, err := NewSlab(ConfigBalanced, nil)
	require.NoError(t, err)

	a := s.Allocate(20)
	require.Len(t, a, 20)
	require.Equal(t, 20, cap(a), "blocks are capped at the requested size")
	a[0] = 0xAA
	s.Free(a)

	b := s.Allocate(24)
	require.Equal(t, blockPtr(a), blockPtr(b), "same class reuses the pooled block")
	require.Equal(t, byte(0), b[0], "recycled blocks are zeroed")

	c := s.Allocate(100)
	require.NotEqual(t, blockPtr(b), blockPtr(c), "other classes do not share free-lists")

	st := s.Stats()
	require.Equal(t, uint64(1), st.Hits)
	require.Equal(t, uint64(2), st.Misses)
	require.Equal(t, 2, st.Live)
	require.Equal(t, 0, st.Pooled)

	s.Free(b)
	s.Free(c)
	require.Equal(t, 2, s.Stats().Pooled)
	s.Trim()
	require.Equal(t, 0, s.Stats().Pooled)
}

func TestSlab_LargeBlocksBypassFreeLists(t *testing.T) {
	s, err := NewSlab(ConfigCoarse, nil)
	require.NoError(t, err)

	big := s.Allocate(ConfigCoarse.MediumMax + 1)
	require.Len(t, big, ConfigCoarse.MediumMax+1)
	s.Free(big)

	st := s.Stats()
	require.Equal(t, uint64(1), st.Large)
	require.Equal(t, 0, st.Pooled)
}

func TestSlab_FreeForeignBlockIsViolation(t *testing.T) {
	got := reportMode(t)
	s, err := NewSlab(ConfigBalanced, nil)
	require.NoError(t, err)

	s.Free(make([]byte, 16))
	require.Len(t, *got, 1)

	block := s.Allocate(16)
	s.Free(block)
	s.Free(block)
	require.Len(t, *got, 2, "double free is reported")
}

func TestSlab_RecordsIntoTracker(t *testing.T) {
	tr := NewTracker()
	s, err := NewSlab(ConfigBalanced, tr)
	require.NoError(t, err)

	block := s.AllocateTagged(40, Here(0))
	require.Len(t, tr.Leaks(), 1)
	s.Free(block)
	require.Empty(t, tr.Leaks())
}

func Test_Fuzz_SlabAllocFree(t *testing.T) {
	s, err := NewSlab(ConfigFineGrained, nil)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42)) // Fixed seed for reproducibility
	var live [][]byte

	for i := range 2000 {
		if rng.Intn(3) != 0 || len(live) == 0 {
			size := 1 + rng.Intn(20000)
			block := s.Allocate(size)
			require.Len(t, block, size, "step %d", i)
			for j := range block {
				if block[j] != 0 {
					t.Fatalf("step %d: byte %d of a fresh block is %#x", i, j, block[j])
				}
			}
			block[0], block[size-1] = byte(i), byte(i)
			live = append(live, block)
			continue
		}
		k := rng.Intn(len(live))
		s.Free(live[k])
		live[k] = live[len(live)-1]
		live = live[:len(live)-1]
	}

	require.Equal(t, len(live), s.Stats().Live)
	for _, b := range live {
		s.Free(b)
	}
	require.Zero(t, s.Stats().Live)
}

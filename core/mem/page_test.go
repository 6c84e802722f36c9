package mem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPage_MapUnmap(t *testing.T) {
	tr := NewTracker()
	pa := NewPage(tr)
	require.Positive(t, pa.PageSize())

	block, err := pa.Map(100, Here(0))
	require.NoError(t, err)
	require.Len(t, block, 100)
	for i := range block {
		block[i] = byte(i)
	}

	st := pa.Stats()
	require.Equal(t, 1, st.Mappings)
	require.Equal(t, pa.PageSize(), st.MappedBytes)
	require.Len(t, tr.Leaks(), 1)

	require.NoError(t, pa.Unmap(block))
	require.Equal(t, PageStats{}, pa.Stats())
	require.Empty(t, tr.Leaks())
}

func TestPage_RoundsToPages(t *testing.T) {
	pa := NewPage(nil)
	block := pa.Allocate(pa.PageSize() + 1)
	require.Equal(t, 2*pa.PageSize(), pa.Stats().MappedBytes)
	pa.Free(block)
}

func TestPage_Errors(t *testing.T) {
	pa := NewPage(nil)

	_, err := pa.Map(-1, Site{})
	require.ErrorIs(t, err, ErrNegativeSize)

	block, err := pa.Map(0, Site{})
	require.NoError(t, err)
	require.Nil(t, block)

	require.ErrorIs(t, pa.Unmap(make([]byte, 8)), ErrUnmapFailed)

	got := reportMode(t)
	pa.Free(make([]byte, 8))
	require.Len(t, *got, 1)
}

package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// withMode runs fn with the given mode and a capturing handler.
func withMode(t *testing.T, m Mode, fn func(got *[]*Failure)) {
	t.Helper()
	var got []*Failure
	prevMode := SetMode(m)
	prevHandler := SetHandler(func(f *Failure) { got = append(got, f) })
	t.Cleanup(func() {
		SetMode(prevMode)
		SetHandler(prevHandler)
	})
	fn(&got)
}

func TestThat_PassingConditionIsSilent(t *testing.T) {
	withMode(t, ModePanic, func(got *[]*Failure) {
		require.True(t, That(true, "never reported"))
		require.Empty(t, *got)
	})
}

func TestThat_PanicMode(t *testing.T) {
	withMode(t, ModePanic, func(got *[]*Failure) {
		defer func() {
			r := recover()
			require.NotNil(t, r, "ModePanic should panic")
			f, ok := r.(*Failure)
			require.True(t, ok, "panic value should be *Failure, got %T", r)
			require.Equal(t, "key already exists", f.Expression)
			require.Contains(t, f.File, "assert_test.go")
			require.Positive(t, f.Line)
			require.Len(t, *got, 1, "handler runs before the panic")
		}()
		That(false, "key already exists")
	})
}

func TestThat_ReportModeReturnsFalse(t *testing.T) {
	withMode(t, ModeReport, func(got *[]*Failure) {
		require.False(t, That(false, "index is out of range"))
		require.Len(t, *got, 1)
		require.Contains(t, (*got)[0].Function, "TestThat_ReportModeReturnsFalse")
	})
}

func TestThat_DisabledModeSkipsHandler(t *testing.T) {
	withMode(t, ModeDisabled, func(got *[]*Failure) {
		require.False(t, That(false, "ignored"))
		require.Empty(t, *got)
	})
}

func TestThatf_RendersOnlyOnFailure(t *testing.T) {
	withMode(t, ModeReport, func(got *[]*Failure) {
		Thatf(true, "slot %d", 1)
		Thatf(false, "slot %d is not occupied", 7)
		require.Len(t, *got, 1)
		require.Equal(t, "slot 7 is not occupied", (*got)[0].Expression)
	})
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModePanic, false},
		{"panic", ModePanic, false},
		{"REPORT", ModeReport, false},
		{" disabled ", ModeDisabled, false},
		{"off", ModeDisabled, false},
		{"loud", ModePanic, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Mode {
	t.Helper()
	m, err := ParseMode(s)
	require.NoError(t, err)
	return m
}

func TestFailure_Error(t *testing.T) {
	f := &Failure{Expression: "x", File: "a.go", Function: "pkg.Fn", Line: 3}
	require.Equal(t, "assertion failed: x (a.go:3 pkg.Fn)", f.Error())
}

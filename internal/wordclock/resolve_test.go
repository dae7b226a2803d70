package wordclock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maskSet(masks ...[]int) ActiveSet {
	var s ActiveSet
	for _, m := range masks {
		s.union(m)
	}
	return s
}

func TestResolveDots(t *testing.T) {
	for m := 0; m < 60; m++ {
		s, err := Resolve(10, m, Flags{})
		require.NoError(t, err)

		dots := m % 5
		assert.Equal(t, dots > 0, s.Has(106), "plus sign at minute %d", m)
		for d := 1; d <= 4; d++ {
			digit := 106 - d
			assert.Equal(t, d == dots, s.Has(digit), "digit %d at minute %d", d, m)
		}
	}
}

func TestResolveSingleBucketAndHour(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			s, err := Resolve(h, m, Flags{})
			require.NoError(t, err)

			want := maskSet(minuteMasks[m/5][:], hourMasks[HourIndex(h, m)][:])
			if d := m % 5; d > 0 {
				want.union(dotMasks[d-1][:])
			}
			require.Equal(t, want, s, "%02d:%02d", h, m)
		}
	}
}

func TestResolveCarry(t *testing.T) {
	s, err := Resolve(4, 35, Flags{})
	require.NoError(t, err)

	assert.Equal(t, 5, HourIndex(4, 35))
	assert.Equal(t, maskSet(minuteMasks[7][:], hourMasks[5][:]), s)
	// QUATRE stays dark.
	assert.False(t, s.Has(21))

	assert.Equal(t, 4, HourIndex(4, 34))
}

func TestResolveMidnightAndNoon(t *testing.T) {
	cases := []struct {
		name         string
		hour, minute int
		want         int
	}{
		{"midnight", 0, 0, 0},
		{"midnight as 24", 24, 0, 0},
		{"noon", 12, 0, 12},
		{"to midnight", 23, 55, 0},
		{"to noon", 11, 40, 12},
		{"after noon", 12, 35, 1},
		{"past 24", 24, 40, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, HourIndex(c.hour, c.minute))
			s, err := Resolve(c.hour, c.minute, Flags{})
			require.NoError(t, err)
			for _, cell := range hourMasks[c.want] {
				if cell != none {
					assert.True(t, s.Has(cell), "cell %d", cell)
				}
			}
		})
	}
}

func TestResolveMeridiem(t *testing.T) {
	f := Flags{Meridiem: true}

	am, err := Resolve(9, 10, f)
	require.NoError(t, err)
	assert.True(t, am.Has(100))
	assert.True(t, am.Has(99))
	assert.False(t, am.Has(101))

	pm, err := Resolve(21, 10, f)
	require.NoError(t, err)
	assert.True(t, pm.Has(101))
	assert.True(t, pm.Has(99))
	assert.False(t, pm.Has(100))

	// 13:40 reads "DEUX HEURES MOINS VINGT", PM from the unrounded hour.
	carry, err := Resolve(13, 40, f)
	require.NoError(t, err)
	assert.True(t, carry.Has(101))
}

func TestResolveMeridiemSuppressedAtMidnightAndNoon(t *testing.T) {
	f := Flags{Meridiem: true}
	for _, tc := range []struct{ hour, minute int }{
		{0, 0}, {12, 0}, {24, 0}, {12, 30}, {11, 45}, {23, 50}, {0, 20},
	} {
		s, err := Resolve(tc.hour, tc.minute, f)
		require.NoError(t, err)
		for _, c := range []int{99, 100, 101} {
			assert.False(t, s.Has(c), "%02d:%02d cell %d", tc.hour, tc.minute, c)
		}
	}
}

func TestResolveItIs(t *testing.T) {
	s, err := Resolve(3, 0, Flags{ItIs: true})
	require.NoError(t, err)
	assert.Equal(t, maskSet(itIsMask[:], hourMasks[3][:]), s)

	exact, err := Resolve(3, 0, Flags{})
	require.NoError(t, err)
	assert.Equal(t, maskSet(hourMasks[3][:]), exact)
}

func TestResolveIgnoresMasterFlag(t *testing.T) {
	for _, f := range []Flags{{}, {ItIs: true}, {Meridiem: true}, {ItIs: true, Meridiem: true}} {
		off, err := Resolve(17, 23, f)
		require.NoError(t, err)
		f.Active = true
		on, err := Resolve(17, 23, f)
		require.NoError(t, err)
		assert.Equal(t, off, on)
	}
}

func TestResolveInvalid(t *testing.T) {
	for _, tc := range []struct{ hour, minute int }{
		{-1, 0}, {25, 0}, {0, -1}, {0, 60}, {12, 120},
	} {
		_, err := Resolve(tc.hour, tc.minute, Flags{ItIs: true})
		assert.True(t, errors.Is(err, ErrInvalidTime), "%d:%d", tc.hour, tc.minute)
	}
}

func TestTablesUseValidCells(t *testing.T) {
	check := func(name string, m []int) {
		for _, c := range m {
			if c != none && (c < 0 || c >= CellCount) {
				t.Fatalf("%s: cell %d out of range", name, c)
			}
		}
	}
	for i := range minuteMasks {
		check("minutes", minuteMasks[i][:])
	}
	for i := range hourMasks {
		check("hours", hourMasks[i][:])
	}
	for i := range dotMasks {
		check("dots", dotMasks[i][:])
	}
	for i := range meridiemMasks {
		check("meridiem", meridiemMasks[i][:])
	}
	check("it is", itIsMask[:])
	check("wifi", wifiMask[:])
	check("time", timeMask[:])
}

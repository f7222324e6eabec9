package terrain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSynthesizer(t *testing.T, cfg Config) *Synthesizer {
	t.Helper()
	s, err := NewSynthesizer(cfg, DefaultVocabulary(), rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	return s
}

func countMarker(m MarkerGrid, marker Marker) int {
	n := 0
	for _, row := range m {
		for _, v := range row {
			if v == marker {
				n++
			}
		}
	}
	return n
}

func TestStampBlob(t *testing.T) {
	for _, tc := range []struct {
		name     string
		size     int
		r, c     int
		radius   int
		expected int
	}{
		{name: "radius zero marks only the centre", size: 5, r: 2, c: 2, radius: 0, expected: 1},
		{name: "radius one is a plus", size: 5, r: 2, c: 2, radius: 1, expected: 5},
		{name: "radius two is euclidean", size: 7, r: 3, c: 3, radius: 2, expected: 13},
		{name: "clipped at the corner", size: 5, r: 0, c: 0, radius: 1, expected: 3},
		{name: "radius four", size: 11, r: 5, c: 5, radius: 4, expected: 49},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m := newMarkerGrid(tc.size, tc.size)
			stampBlob(m, tc.r, tc.c, tc.radius, MarkerMountain, false)
			assert.Equal(t, tc.expected, countMarker(m, MarkerMountain))
			assert.Equal(t, MarkerMountain, m[tc.r][tc.c])
		})
	}
}

func TestStampBlobOnlyOnEmpty(t *testing.T) {
	m := newMarkerGrid(5, 5)
	m[2][3] = MarkerRiver

	stampBlob(m, 2, 2, 1, MarkerGrass, true)
	assert.Equal(t, MarkerRiver, m[2][3])
	assert.Equal(t, 4, countMarker(m, MarkerGrass))

	stampBlob(m, 2, 2, 1, MarkerGrass, false)
	assert.Equal(t, MarkerGrass, m[2][3])
	assert.Equal(t, 5, countMarker(m, MarkerGrass))
}

func TestAddBlobsRespectsCount(t *testing.T) {
	s := newTestSynthesizer(t, DefaultConfig(20, 20))
	m := newMarkerGrid(20, 20)

	s.addBlobs(m, MarkerRiver, BlobSpec{Count: 1, MinRadius: 0, MaxRadius: 0})
	assert.Equal(t, 1, countMarker(m, MarkerRiver))

	s.addBlobs(m, MarkerRiver, BlobSpec{Count: 0, MinRadius: 5, MaxRadius: 5})
	assert.Equal(t, 1, countMarker(m, MarkerRiver))
}

func TestAddRandomWalksSkipsWithoutStart(t *testing.T) {
	s := newTestSynthesizer(t, DefaultConfig(8, 8))
	m := newMarkerGrid(8, 8)
	for r := range m {
		for c := range m[r] {
			m[r][c] = MarkerMountain
		}
	}

	s.addRandomWalks(m, MarkerGrass, WalkSpec{Count: 3, MinLength: 5, MaxLength: 5, Over: MarkerNone})
	assert.Equal(t, 64, countMarker(m, MarkerMountain))
	assert.Equal(t, 3, s.stats.WalksSkipped)
}

func TestAddRandomWalksOnlyOverwritesOver(t *testing.T) {
	s := newTestSynthesizer(t, DefaultConfig(16, 16))
	m := newMarkerGrid(16, 16)
	for c := range m[8] {
		m[8][c] = MarkerRiver
	}

	s.addRandomWalks(m, MarkerGrass, WalkSpec{Count: 1, MinLength: 6, MaxLength: 6, Over: MarkerNone})

	assert.Equal(t, 16, countMarker(m, MarkerRiver))
	grass := countMarker(m, MarkerGrass)
	assert.GreaterOrEqual(t, grass, 1, "the start cell is always marked")
	assert.LessOrEqual(t, grass, 6)
}

func TestBetween(t *testing.T) {
	s := newTestSynthesizer(t, DefaultConfig(4, 4))

	for i := 0; i < 200; i++ {
		v := s.between(4, 3)
		assert.True(t, v == 3 || v == 4, "got %d", v)

		v = s.between(3, 6)
		assert.True(t, v >= 3 && v <= 6, "got %d", v)
	}
	assert.Equal(t, 5, s.between(5, 5))
	assert.Equal(t, 0, s.between(-2, -1))
}

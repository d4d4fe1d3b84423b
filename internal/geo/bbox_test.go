package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBBox(t *testing.T) {
	b, err := ParseBBox("40.70,-74.02,40.75,-73.96")
	require.NoError(t, err)
	assert.Equal(t, BBox{South: 40.70, West: -74.02, North: 40.75, East: -73.96}, b)
}

func TestParseBBox_Whitespace(t *testing.T) {
	b, err := ParseBBox(" 1.0 , 2.0 , 3.0 , 4.0 ")
	require.NoError(t, err)
	assert.Equal(t, BBox{South: 1, West: 2, North: 3, East: 4}, b)
}

func TestParseBBox_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too few fields", "1,2,3"},
		{"too many fields", "1,2,3,4,5"},
		{"non-numeric", "1,2,three,4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBBox(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestBBox_Round(t *testing.T) {
	b := BBox{South: 40.70312, West: -74.01987, North: 40.74966, East: -73.96201}
	got := b.Round(2)
	assert.Equal(t, BBox{South: 40.70, West: -74.02, North: 40.75, East: -73.96}, got)
}

func TestBBox_Round_Idempotent(t *testing.T) {
	b := BBox{South: 40.70312, West: -74.01987, North: 40.74966, East: -73.96201}
	once := b.Round(2)
	twice := once.Round(2)
	assert.Equal(t, once, twice)
}

func TestBBox_Round_StableKeys(t *testing.T) {
	// Two viewports that differ below 2-decimal precision must canonicalize
	// to the same textual form.
	b1 := BBox{South: 40.7012, West: -74.0189, North: 40.7501, East: -73.9603}
	b2 := BBox{South: 40.7038, West: -74.0212, North: 40.7488, East: -73.9570}
	assert.Equal(t, b1.Round(2).Format(2), b2.Round(2).Format(2))
}

func TestBBox_Format(t *testing.T) {
	b := BBox{South: 40.7, West: -74.02, North: 40.75, East: -73.96}
	assert.Equal(t, "40.70,-74.02,40.75,-73.96", b.Format(2))
}

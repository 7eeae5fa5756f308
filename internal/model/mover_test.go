package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterByMatches(t *testing.T) {
	tests := []struct {
		filter FilterBy
		price  float64
		want   bool
	}{
		{FilterAll, 0, true},
		{FilterAll, 1000000, true},
		{Filter0to10, 0, true},
		{Filter0to10, 9.99, true},
		{Filter0to10, 10, false},
		{Filter10to20, 10, true},
		{Filter10to20, 19.999, true},
		{Filter10to20, 20, false},
		{Filter60to70, 69.99, true},
		{Filter60to70, 70, false},
		{FilterAbove70, 70, true},
		{FilterAbove70, 12345.67, true},
		{FilterAbove70, 69.99, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.filter.Matches(tt.price), "filter %s price %v", tt.filter, tt.price)
	}
}

func TestFilterByValid(t *testing.T) {
	for _, f := range []FilterBy{FilterAll, Filter0to10, Filter10to20, Filter20to30, Filter30to40, Filter40to50, Filter50to60, Filter60to70, FilterAbove70} {
		assert.True(t, f.Valid(), "filter %s", f)
	}
	assert.False(t, FilterBy("0-100").Valid())
}

func TestSortByValid(t *testing.T) {
	for _, s := range []SortBy{SortByPrice, SortByChange, SortByVolume, SortByMarketCap} {
		assert.True(t, s.Valid(), "sort %s", s)
	}
	assert.False(t, SortBy("name").Valid())
}

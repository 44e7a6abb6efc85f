package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		page, size     int
		wantFrom, want int
	}{
		{page: 1, size: 10, wantFrom: 0, want: 10},
		{page: 3, size: 20, wantFrom: 40, want: 20},
		{page: 0, size: 5, wantFrom: 0, want: 5},
		{page: 2, size: 0, wantFrom: 10, want: DefaultPageSize},
		{page: 2, size: 1000, wantFrom: 10, want: DefaultPageSize},
	}
	for _, tc := range cases {
		from, limit := Calculate(tc.page, tc.size)
		require.Equal(t, tc.wantFrom, from, "page=%d size=%d", tc.page, tc.size)
		require.Equal(t, tc.want, limit, "page=%d size=%d", tc.page, tc.size)
	}
}

func TestParseIntDefault(t *testing.T) {
	require.Equal(t, 7, ParseIntDefault("", 7))
	require.Equal(t, 7, ParseIntDefault("abc", 7))
	require.Equal(t, 3, ParseIntDefault("3", 7))
}

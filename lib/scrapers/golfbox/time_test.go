package golfbox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryTimestamp(t *testing.T) {
	cases := []struct {
		date   string
		time   string
		expect string
	}{
		{date: "24.05.2025", time: "11:30", expect: "20250524T113000"},
		{date: "01.01.2024", time: "00:00", expect: "20240101T000000"},
		{date: "31.12.2025", time: "23:59", expect: "20251231T235900"},
	}
	for _, test := range cases {
		got, err := registryTimestamp(test.date, test.time)
		require.NoError(t, err)
		require.Equal(t, test.expect, got)
	}
}

func TestRegistryTimestampRejectsIsoDate(t *testing.T) {
	_, err := registryTimestamp("2025-05-24", "11:30")
	require.Error(t, err)

	_, err = registryDate("2025-05-24")
	require.Error(t, err)
}

func TestRegistryDate(t *testing.T) {
	got, err := registryDate("24.05.2025")
	require.NoError(t, err)
	require.Equal(t, "20250524T000000", got)
}

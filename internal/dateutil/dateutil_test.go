package dateutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageDisplayRoundTrip(t *testing.T) {
	cases := []struct {
		storage string
		display string
	}{
		{"2024-01-05", "2024.01.05"},
		{"2024-12-31", "2024.12.31"},
		{"1999-02-01", "1999.02.01"},
	}

	for _, tc := range cases {
		display, err := ToDisplay(tc.storage)
		require.NoError(t, err)
		assert.Equal(t, tc.display, display)

		storage, err := ToStorage(display)
		require.NoError(t, err)
		assert.Equal(t, tc.storage, storage)
	}
}

func TestParseStorageRejectsDisplayFormat(t *testing.T) {
	_, err := ParseStorage("2024.01.05")
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "2024.01.05", parseErr.Input)
	assert.Equal(t, StorageLayout, parseErr.Layout)
	assert.NotNil(t, parseErr.Unwrap())
}

func TestParseDisplayRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "not a date", "2024-01-05", "05.01.2024"} {
		_, err := ParseDisplay(input)
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr), "input %q", input)
		assert.Equal(t, DisplayLayout, parseErr.Layout)
	}
}

func TestFormatStorage(t *testing.T) {
	d := time.Date(2024, 3, 9, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-09", FormatStorage(d))
	assert.Equal(t, "2024.03.09", FormatDisplay(d))
}

func TestAddDays(t *testing.T) {
	cases := []struct {
		key  string
		n    int
		want string
	}{
		{"2024-01-05", 1, "2024-01-06"},
		{"2024-01-05", -1, "2024-01-04"},
		{"2024-01-31", 1, "2024-02-01"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2024-01-05", 0, "2024-01-05"},
	}

	for _, tc := range cases {
		got, err := AddDays(tc.key, tc.n)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestAddDaysRejectsMalformedKey(t *testing.T) {
	_, err := AddDays("2024.01.05", 1)
	require.Error(t, err)
}

func TestBefore(t *testing.T) {
	assert.True(t, Before("2024-01-04", "2024-01-05"))
	assert.True(t, Before("2023-12-31", "2024-01-01"))
	assert.False(t, Before("2024-01-05", "2024-01-05"))
	assert.False(t, Before("2024-01-06", "2024-01-05"))
}

func TestToday(t *testing.T) {
	today := Today()
	_, err := ParseStorage(today)
	require.NoError(t, err)
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateTime(t *testing.T) {
	t.Run("RFC3339 UTC", func(t *testing.T) {
		got := ParseDateTime("2024-03-01T12:30:00Z")
		assert.NotNil(t, got)
		assert.Equal(t, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), *got)
	})

	t.Run("Zoned converts to UTC", func(t *testing.T) {
		got := ParseDateTime("2024-03-01T15:30:00+03:00")
		assert.NotNil(t, got)
		assert.Equal(t, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), *got)
	})

	t.Run("Naive timestamp", func(t *testing.T) {
		got := ParseDateTime("2024-03-01T12:30:00")
		assert.NotNil(t, got)
		assert.Equal(t, 12, got.Hour())
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Nil(t, ParseDateTime(""))
	})

	t.Run("Garbage", func(t *testing.T) {
		assert.Nil(t, ParseDateTime("yesterday-ish"))
	})
}

func TestParseDate(t *testing.T) {
	t.Run("Plain date", func(t *testing.T) {
		got := ParseDate("2023-05-10")
		assert.NotNil(t, got)
		assert.Equal(t, time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC), *got)
	})

	t.Run("Bare year", func(t *testing.T) {
		got := ParseDate("2020")
		assert.NotNil(t, got)
		assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), *got)
	})

	t.Run("Year out of bounds", func(t *testing.T) {
		assert.Nil(t, ParseDate("1700"))
		assert.Nil(t, ParseDate("2200"))
	})

	t.Run("Fallback layout", func(t *testing.T) {
		got := ParseDate("Jan 2, 2019")
		assert.NotNil(t, got)
		assert.Equal(t, time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC), *got)
	})

	t.Run("Garbage", func(t *testing.T) {
		assert.Nil(t, ParseDate("not a date"))
		assert.Nil(t, ParseDate(""))
	})
}

func TestValidRating(t *testing.T) {
	assert.True(t, ValidRating(0))
	assert.True(t, ValidRating(7.8))
	assert.True(t, ValidRating(10))
	assert.False(t, ValidRating(-0.1))
	assert.False(t, ValidRating(10.1))
}

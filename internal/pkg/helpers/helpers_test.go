package helpers

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrimToNil(t *testing.T) {
	assert.Nil(t, TrimToNil(nil))
	assert.Nil(t, TrimToNil(StringPtr("   ")))
	assert.Equal(t, "asha@example.com", *TrimToNil(StringPtr("  asha@example.com ")))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDuration("5s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("later", time.Minute))
}

func TestDates(t *testing.T) {
	ts := time.Date(2024, 6, 1, 9, 30, 5, 0, time.UTC)
	assert.Equal(t, "2024-06-01", FormatDate(ts))
	assert.Equal(t, "2024-06-01 09:30:05", FormatTimestamp(ts))
	assert.True(t, IsDate("2024-02-29"))
	assert.False(t, IsDate("2023-02-29"))
	assert.False(t, IsDate("01/06/2024"))
}

func TestNullStringValue(t *testing.T) {
	assert.Equal(t, "", NullStringValue(sql.NullString{}))
	assert.Equal(t, "x", NullStringValue(sql.NullString{String: "x", Valid: true}))
	assert.Equal(t, 1, BoolToInt(true))
	assert.Equal(t, "", Deref(nil))
}

package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Hour, ParseDuration("2h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("bogus", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2001-09-11")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2001-09-11", got.Format(DateLayout))

	got, err = ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseDate("11/09/2001")
	assert.Error(t, err)
}

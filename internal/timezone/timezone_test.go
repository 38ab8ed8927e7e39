package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightfinder/internal/timezone"
)

func TestTimezoneByAirport(t *testing.T) {
	assert.Equal(t, "IST", timezone.TimezoneByAirport("blr"))
	assert.Equal(t, "GMT", timezone.TimezoneByAirport("LHR"))
	assert.Equal(t, "EST", timezone.TimezoneByAirport("JFK"))
	assert.Equal(t, "IST", timezone.TimezoneByAirport("XYZ"))
}

func TestParseDate(t *testing.T) {
	d, err := timezone.ParseDate("2024-07-01", "DEL")
	require.NoError(t, err)

	_, offset := d.Zone()
	assert.Equal(t, 5*3600+1800, offset)
	assert.Equal(t, 0, d.Hour())

	_, err = timezone.ParseDate("07/01/2024", "DEL")
	assert.Error(t, err)
}

func TestConvertToTimezone(t *testing.T) {
	utc := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 17, timezone.ConvertToTimezone(utc, "BOM").Hour())
	assert.Equal(t, 30, timezone.ConvertToTimezone(utc, "BOM").Minute())
	assert.Equal(t, 4, timezone.ConvertToTimezone(utc, "LAX").Hour())
}

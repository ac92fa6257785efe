package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	valid := []TimeString{"00:00", "09:30", "23:59", "24:00"}
	for _, v := range valid {
		assert.NoError(t, v.Validate(), v)
	}

	invalid := []TimeString{"", "9:30", "24:01", "25:00", "12:60", "noon", "10:00:00"}
	for _, v := range invalid {
		assert.ErrorIs(t, v.Validate(), ErrInvalidTimeString, v)
	}
}

func TestTimeString_Minutes(t *testing.T) {
	assert.Equal(t, 0, TimeString("00:00").Minutes())
	assert.Equal(t, 570, TimeString("09:30").Minutes())
	assert.Equal(t, 1440, TimeString("24:00").Minutes())
	assert.Equal(t, -1, TimeString("bad").Minutes())
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("09:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), got)

	got, err = TimeString("23:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), got)

	_, err = TimeString("23:30").AddMinutes(31)
	require.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.False(t, TimeString("09:30").IsBefore("09:30"))
	assert.True(t, TimeString("24:00").IsAfter("23:59"))
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)
	date := time.Date(2026, 3, 2, 17, 45, 0, 0, loc)

	assert.Equal(t, time.Date(2026, 3, 2, 9, 30, 0, 0, loc), TimeString("09:30").On(date))
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, loc), TimeString("24:00").On(date))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan("10:00:00"))
	assert.Equal(t, TimeString("10:00"), ts)

	require.NoError(t, ts.Scan([]byte("11:15")))
	assert.Equal(t, TimeString("11:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	require.Error(t, ts.Scan(42))
}

func TestTimeString_UnmarshalJSON(t *testing.T) {
	var v struct {
		Start TimeString `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"08:15"}`), &v))
	assert.Equal(t, TimeString("08:15"), v.Start)

	require.Error(t, json.Unmarshal([]byte(`{"start":"8:15"}`), &v))
}

package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseAndString(t *testing.T) {
	d, err := Parse("2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", d.String())
	assert.Equal(t, time.Monday, d.Weekday())

	_, err = Parse("04.03.2024")
	assert.Error(t, err)
}

func TestAddDaysCrossesMonthAndDST(t *testing.T) {
	d := New(2024, time.March, 30)
	assert.Equal(t, "2024-04-01", d.AddDays(2).String())
	assert.Equal(t, "2024-03-29", d.AddDays(-1).String())
}

func TestSameDayIgnoresTimeOfDay(t *testing.T) {
	a := FromTime(time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC))
	b := New(2024, time.May, 1)
	assert.True(t, a.SameDay(b))
	assert.Equal(t, 0, a.Compare(b))
	assert.Equal(t, -1, b.Compare(b.AddDays(1)))
	assert.Equal(t, 1, b.AddDays(1).Compare(b))
}

func TestMinMax(t *testing.T) {
	a := New(2024, time.May, 1)
	b := New(2024, time.May, 3)
	assert.Equal(t, a, Min(a, b))
	assert.Equal(t, b, Max(a, b))
	assert.Equal(t, b, Max(b, a))
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}
	raw, err := json.Marshal(payload{Date: New(2024, time.June, 7)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-06-07"}`, string(raw))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-06-08"}`), &decoded))
	assert.Equal(t, "2024-06-08", decoded.Date.String())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"June 8"}`), &decoded))
}

func TestYAMLDecode(t *testing.T) {
	var decoded struct {
		Date Date `yaml:"date"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("date: 2024-01-15\n"), &decoded))
	assert.Equal(t, New(2024, time.January, 15), decoded.Date)
}

func TestScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-02-29", d.String())

	require.NoError(t, d.Scan([]byte("2024-03-01T00:00:00Z")))
	assert.Equal(t, "2024-03-01", d.String())

	assert.Error(t, d.Scan(42))
}

package dstk

import (
	"errors"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooseNumbers(t *testing.T) {
	tests := []struct {
		raw       string
		wantFloat LooseFloat
		wantInt   LooseInt
	}{
		{raw: `12`, wantFloat: 12, wantInt: 12},
		{raw: `"30.05"`, wantFloat: 30.05, wantInt: 30},
		{raw: `" 7 "`, wantFloat: 7, wantInt: 7},
		{raw: `""`},
		{raw: `null`},
		{raw: `-118.5`, wantFloat: -118.5, wantInt: -118},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var f LooseFloat
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &f))
			assert.Equal(t, tt.wantFloat, f)

			var i LooseInt
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &i))
			assert.Equal(t, tt.wantInt, i)
		})
	}

	var f LooseFloat
	assert.Error(t, json.Unmarshal([]byte(`"north"`), &f))
}

func TestPlaceDecodesQuotedNumbers(t *testing.T) {
	raw := `{"matched_string":"Cairo, Egypt","code":"","start_index":"0","latitude":"30.05","type":"CITY","name":"Cairo","longitude":"31.25","end_index":"4"}`
	var p Place
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, LooseFloat(30.05), p.Latitude)
	assert.Equal(t, LooseFloat(31.25), p.Longitude)
	assert.Equal(t, LooseInt(4), p.EndIndex)
}

func TestParseCoordinates(t *testing.T) {
	got, err := ParseCoordinates(" 37.76, -122.42 ")
	require.NoError(t, err)
	assert.Equal(t, Coordinates{Latitude: 37.76, Longitude: -122.42}, got)

	for _, bad := range []string{"", "37.76", "1,2,3", "north,west", "1,east"} {
		_, err := ParseCoordinates(bad)
		assert.Error(t, err, "ParseCoordinates(%q)", bad)
	}
}

func TestCoordinatesMarshalAsPair(t *testing.T) {
	data, err := json.Marshal([]Coordinates{{Latitude: 34.5, Longitude: -118.25}})
	require.NoError(t, err)
	assert.JSONEq(t, `[[34.5,-118.25]]`, string(data))
}

func TestStatisticValue(t *testing.T) {
	number := Statistic{Value: json.RawMessage(`1742`)}
	v, ok := number.Float()
	assert.True(t, ok)
	assert.Equal(t, 1742.0, v)
	assert.Equal(t, "1742", number.String())

	text := Statistic{Value: json.RawMessage(`"Forest"`)}
	_, ok = text.Float()
	assert.False(t, ok)
	assert.Equal(t, "Forest", text.String())

	monthly := Statistic{Value: json.RawMessage(`[1, 2, 3]`)}
	assert.Equal(t, "[1, 2, 3]", monthly.String())
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("connection refused")
	unreachable := &UnreachableServerError{URL: "http://localhost:1", Err: cause}
	assert.Equal(t, `the server at "http://localhost:1" doesn't appear to be running DSTK: connection refused`, unreachable.Error())
	assert.ErrorIs(t, unreachable, cause)
	assert.Equal(t, `the server at "x" doesn't appear to be running DSTK`, (&UnreachableServerError{URL: "x"}).Error())

	incompatible := &IncompatibleServerError{URL: "http://h/info", Found: 40, Required: 50}
	assert.Equal(t, `DSTK: version 40 found at "http://h/info" but 50 is required`, incompatible.Error())

	remote := &RemoteServiceError{Endpoint: "/text2times", Status: 500, Message: "boom"}
	assert.Equal(t, "boom", remote.Error())

	malformed := &MalformedResponseError{Endpoint: "/html2text", Status: 200, Err: cause}
	assert.ErrorIs(t, malformed, cause)
	assert.Equal(t, "malformed response from /html2text (status 200): connection refused", malformed.Error())

	wrapped := fmt.Errorf("lookup: %w", remote)
	var target *RemoteServiceError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "/text2times", target.Endpoint)
}

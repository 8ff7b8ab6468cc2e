package dstk

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// VersionInfo mirrors the payload returned by /info.
type VersionInfo struct {
	Version int `json:"version"`
}

// Coordinates is a latitude/longitude pair. It travels as a two-element JSON
// array, which is what the coordinate endpoints expect.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// MarshalJSON encodes the pair as [latitude, longitude].
func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Latitude, c.Longitude})
}

// ParseCoordinates reads a "lat,lon" string such as "37.76,-122.42".
func ParseCoordinates(value string) (Coordinates, error) {
	parts := strings.Split(strings.TrimSpace(value), ",")
	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("coordinates %q: want a comma-separated pair, eg 37.76,-122.42", value)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("coordinates %q: latitude: %w", value, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("coordinates %q: longitude: %w", value, err)
	}
	return Coordinates{Latitude: lat, Longitude: lon}, nil
}

// LooseFloat decodes from a JSON number, a numeric string, an empty string
// or null. Some endpoints quote their numbers.
type LooseFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *LooseFloat) UnmarshalJSON(data []byte) error {
	v, err := parseLooseNumber(data)
	if err != nil {
		return err
	}
	*f = LooseFloat(v)
	return nil
}

// LooseInt is the integer counterpart of LooseFloat.
type LooseInt int

// UnmarshalJSON implements json.Unmarshaler.
func (i *LooseInt) UnmarshalJSON(data []byte) error {
	v, err := parseLooseNumber(data)
	if err != nil {
		return err
	}
	*i = LooseInt(int(v))
	return nil
}

func parseLooseNumber(data []byte) (float64, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, nil
	}
	raw := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return 0, err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return 0, nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %s: %w", trimmed, err)
	}
	return v, nil
}

// Location is one ip2coordinates result.
type Location struct {
	Latitude     LooseFloat `json:"latitude"`
	Longitude    LooseFloat `json:"longitude"`
	CountryCode  string     `json:"country_code"`
	CountryCode3 string     `json:"country_code3"`
	CountryName  string     `json:"country_name"`
	Region       string     `json:"region"`
	Locality     string     `json:"locality"`
	PostalCode   string     `json:"postal_code"`
	DMACode      LooseInt   `json:"dma_code"`
	AreaCode     LooseInt   `json:"area_code"`
}

// StreetLocation is one street2coordinates result.
type StreetLocation struct {
	Latitude      LooseFloat `json:"latitude"`
	Longitude     LooseFloat `json:"longitude"`
	CountryCode   string     `json:"country_code"`
	CountryCode3  string     `json:"country_code3"`
	CountryName   string     `json:"country_name"`
	Region        string     `json:"region"`
	Locality      string     `json:"locality"`
	StreetAddress string     `json:"street_address"`
	StreetNumber  string     `json:"street_number"`
	StreetName    string     `json:"street_name"`
	Confidence    LooseFloat `json:"confidence"`
	FIPSCounty    string     `json:"fips_county"`
}

// PoliticsResult lists the political areas containing one coordinate.
type PoliticsResult struct {
	Location LatLon    `json:"location"`
	Politics []Politic `json:"politics"`
}

// LatLon is the object form of a coordinate used in responses.
type LatLon struct {
	Latitude  LooseFloat `json:"latitude"`
	Longitude LooseFloat `json:"longitude"`
}

// Politic is a single political area.
type Politic struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	Type         string `json:"type"`
	FriendlyType string `json:"friendly_type"`
}

// StatisticsResult holds the requested statistics for one coordinate.
type StatisticsResult struct {
	Location   LatLon               `json:"location"`
	Statistics map[string]Statistic `json:"statistics"`
}

// Statistic is one named measurement. Value is kept raw because its type
// depends on the statistic: numbers, strings and monthly arrays all occur.
type Statistic struct {
	Value       json.RawMessage `json:"value"`
	Description string          `json:"description"`
	SourceName  string          `json:"source_name"`
	Units       string          `json:"units,omitempty"`
}

// Float returns the value as a number when it is one.
func (s Statistic) Float() (float64, bool) {
	var v float64
	if err := json.Unmarshal(s.Value, &v); err != nil {
		return 0, false
	}
	return v, true
}

// String renders the value for display: strings unquoted, everything else raw.
func (s Statistic) String() string {
	var str string
	if err := json.Unmarshal(s.Value, &str); err == nil {
		return str
	}
	return string(bytes.TrimSpace(s.Value))
}

// Place is a place mention found by text2places.
type Place struct {
	Latitude      LooseFloat `json:"latitude"`
	Longitude     LooseFloat `json:"longitude"`
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	StartIndex    LooseInt   `json:"start_index"`
	EndIndex      LooseInt   `json:"end_index"`
	MatchedString string     `json:"matched_string"`
	Code          string     `json:"code"`
}

// Person is a name found by text2people.
type Person struct {
	MatchedString string     `json:"matched_string"`
	StartIndex    int        `json:"start_index"`
	EndIndex      int        `json:"end_index"`
	FirstName     string     `json:"first_name"`
	Surnames      string     `json:"surnames"`
	Title         string     `json:"title"`
	Gender        string     `json:"gender"`
	Ethnicity     *Ethnicity `json:"ethnicity"`
}

// Ethnicity is the census breakdown attached to a surname.
type Ethnicity struct {
	PercentageOfTotal                      float64 `json:"percentage_of_total"`
	PercentageWhite                        float64 `json:"percentage_white"`
	PercentageBlack                        float64 `json:"percentage_black"`
	PercentageAsianOrPacificIslander       float64 `json:"percentage_asian_or_pacific_islander"`
	PercentageAmericanIndianOrAlaskaNative float64 `json:"percentage_american_indian_or_alaska_native"`
	PercentageTwoOrMore                    float64 `json:"percentage_two_or_more"`
	PercentageHispanic                     float64 `json:"percentage_hispanic"`
	Rank                                   int     `json:"rank"`
}

// TimeMention is a date or time found by text2times.
type TimeMention struct {
	TimeSeconds   float64 `json:"time_seconds"`
	IsRelative    bool    `json:"is_relative"`
	MatchedString string  `json:"matched_string"`
	StartIndex    int     `json:"start_index"`
	EndIndex      int     `json:"end_index"`
	TimeString    string  `json:"time_string"`
	Duration      int64   `json:"duration"`
}

// Sentences mirrors /text2sentences.
type Sentences struct {
	Sentences string `json:"sentences"`
}

// Text mirrors /html2text.
type Text struct {
	Text string `json:"text"`
}

// Story mirrors /html2story.
type Story struct {
	Story string `json:"story"`
}

// Sentiment mirrors /text2sentiment.
type Sentiment struct {
	Score float64 `json:"score"`
}

// GeocodeResponse mirrors the Google-compatible /maps/api/geocode/json payload.
type GeocodeResponse struct {
	Status  string          `json:"status"`
	Results []GeocodeResult `json:"results"`
}

// GeocodeResult is one candidate match.
type GeocodeResult struct {
	FormattedAddress  string             `json:"formatted_address"`
	AddressComponents []AddressComponent `json:"address_components"`
	Geometry          Geometry           `json:"geometry"`
	Types             []string           `json:"types"`
}

// AddressComponent is a single part of a geocoded address.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// Geometry locates a geocode result.
type Geometry struct {
	Location     LatLng   `json:"location"`
	LocationType string   `json:"location_type"`
	Viewport     Viewport `json:"viewport"`
}

// LatLng uses the Google field names.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Viewport is the recommended bounding box for a result.
type Viewport struct {
	Northeast LatLng `json:"northeast"`
	Southwest LatLng `json:"southwest"`
}

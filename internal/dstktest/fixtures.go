package dstktest

// Inputs with canned answers. Anything else maps to null.
const (
	FixtureIP      = "71.198.248.36"
	FixtureAddress = "2543 Graystone Pl, Simi Valley, CA 93065"
)

var ipFixtures = map[string]map[string]any{
	FixtureIP: {
		"area_code":     510,
		"postal_code":   "",
		"country_code3": "USA",
		"locality":      "Berkeley",
		"region":        "CA",
		"latitude":      37.878101348877,
		"country_name":  "United States",
		"dma_code":      807,
		"country_code":  "US",
		"longitude":     -122.271003723145,
	},
}

var streetFixtures = map[string]map[string]any{
	FixtureAddress: {
		"street_address": "2543 Graystone Pl",
		"street_number":  "2543",
		"street_name":    "Graystone Pl",
		"latitude":       34.280874,
		"country_code3":  "USA",
		"confidence":     1.0,
		"longitude":      -118.766282,
		"fips_county":    "06111",
		"country_name":   "United States",
		"locality":       "Simi Valley",
		"region":         "CA",
		"country_code":   "US",
	},
	"3865 21st St, Boulder, CO 80304": {
		"street_address": "3865 21st St",
		"street_number":  "3865",
		"street_name":    "21st St",
		"latitude":       40.034526,
		"country_code3":  "USA",
		"confidence":     0.913,
		"longitude":      -105.276284,
		"fips_county":    "08013",
		"country_name":   "United States",
		"locality":       "Boulder",
		"region":         "CO",
		"country_code":   "US",
	},
}

var politicsFixture = []map[string]string{
	{"code": "usa", "type": "admin2", "friendly_type": "country", "name": "United States"},
	{"code": "06_111", "type": "admin6", "friendly_type": "county", "name": "Ventura"},
	{"code": "06_72016", "type": "admin5", "friendly_type": "city", "name": "Simi Valley"},
	{"code": "us06", "type": "admin4", "friendly_type": "state", "name": "California"},
	{"code": "06_24", "type": "constituency", "friendly_type": "constituency", "name": "Twenty fourth district, CA"},
}

var statisticsFixture = map[string]map[string]any{
	"population_density": {
		"value":       1742,
		"description": "The number of inhabitants per square kilometer around this point.",
		"source_name": "NASA Socioeconomic Data and Applications Center (SEDAC)",
	},
	"land_cover": {
		"value":       "Artificial surfaces and associated areas",
		"description": "What type of environment exists around this point - urban, water, vegetation, mountains, etc",
		"source_name": "European Commission Land Resource Management Unit Global Land Cover 2000",
	},
	"elevation": {
		"value":       263,
		"description": "The height of the surface above sea level at this point.",
		"source_name": "NASA and the CGIAR Consortium for Spatial Information",
		"units":       "meters",
	},
}

// The service quotes the numeric fields of text2places results.
var placesFixture = []map[string]string{
	{
		"matched_string": "Cairo, Egypt",
		"code":           "",
		"start_index":    "0",
		"latitude":       "30.05",
		"type":           "CITY",
		"name":           "Cairo",
		"longitude":      "31.25",
		"end_index":      "4",
	},
}

var peopleFixture = []map[string]any{
	{
		"first_name":     "Samuel",
		"end_index":      16,
		"matched_string": "Samuel L Jackson",
		"surnames":       "L Jackson",
		"title":          "",
		"ethnicity": map[string]any{
			"percentage_black":                            53.02,
			"percentage_asian_or_pacific_islander":        0.31,
			"percentage_hispanic":                         1.53,
			"percentage_two_or_more":                      2.18,
			"percentage_of_total":                         0.24693,
			"percentage_american_indian_or_alaska_native": 1.04,
			"percentage_white":                            41.93,
			"rank":                                        18,
		},
		"start_index": 0,
		"gender":      "m",
	},
}

// TimesFixture is served by /text2times regardless of input.
var TimesFixture = []map[string]any{
	{"time_seconds": 1325476800.0, "is_relative": false, "matched_string": "January 1st 2000", "end_index": 19, "time_string": "Sun Jan 01 20:00:00 -0800 2012", "duration": 1, "start_index": 4},
	{"time_seconds": 1351753200.0, "is_relative": true, "matched_string": "november", "end_index": 47, "time_string": "Thu Nov 01 00:00:00 -0700 2012", "duration": 2595600, "start_index": 40},
	{"time_seconds": 1325318400.0, "is_relative": true, "matched_string": "yesterday", "end_index": 120, "time_string": "Sat Dec 31 00:00:00 -0800 2011", "duration": 86400, "start_index": 112},
}

var geocodeFixture = map[string]any{
	"status": "OK",
	"results": []map[string]any{
		{
			"formatted_address": "2543 Graystone Pl, Simi Valley, CA",
			"address_components": []map[string]any{
				{"long_name": "2543", "short_name": "2543", "types": []string{"street_number"}},
				{"long_name": "Graystone Pl", "short_name": "Graystone Pl", "types": []string{"route"}},
				{"long_name": "Simi Valley", "short_name": "Simi Valley", "types": []string{"locality", "political"}},
			},
			"geometry": map[string]any{
				"location":      map[string]float64{"lat": 34.280874, "lng": -118.766282},
				"location_type": "ROOFTOP",
				"viewport": map[string]any{
					"northeast": map[string]float64{"lat": 34.281874, "lng": -118.765282},
					"southwest": map[string]float64{"lat": 34.279874, "lng": -118.767282},
				},
			},
			"types": []string{"street_address"},
		},
	},
}

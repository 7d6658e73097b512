package providers

import "strings"

const (
	ClimateDesert             = "Desert"
	ClimatePolar              = "Polar"
	ClimateTemperateHumid     = "Temperate Humid"
	ClimateTemperateDry       = "Temperate Dry"
	ClimateSubtropicalHumid   = "Subtropical Humid"
	ClimateSubtropical        = "Subtropical"
	ClimateTropicalHumid      = "Tropical Humid"
	ClimateArid               = "Arid"
	ClimateTropicalOfAltitude = "Tropical of Altitude"
	ClimateAridTropical       = "Arid Tropical"
	ClimateTropical           = "Tropical"
)

// DetermineClimateType classifies a reading by location name, then by
// temperature band and humidity.
func DetermineClimateType(location string, temp float64, humidity int) string {
	name := strings.ToLower(location)

	switch {
	case strings.Contains(name, "desert"), strings.Contains(name, "sahara"):
		return ClimateDesert
	case strings.Contains(name, "arctic"), strings.Contains(name, "antarctica"):
		return ClimatePolar
	}

	switch {
	case temp < 0:
		return ClimatePolar
	case temp < 10:
		if humidity > 70 {
			return ClimateTemperateHumid
		}
		return ClimateTemperateDry
	case temp < 20:
		if humidity > 70 {
			return ClimateSubtropicalHumid
		}
		return ClimateSubtropical
	case temp < 25:
		if humidity > 80 {
			return ClimateTropicalHumid
		}
		if humidity < 40 {
			return ClimateArid
		}
		return ClimateTropicalOfAltitude
	default:
		if humidity > 70 {
			return ClimateTropicalHumid
		}
		if humidity < 40 {
			return ClimateAridTropical
		}
		return ClimateTropical
	}
}

var utcLocations = map[string]string{
	"UTC-12": "Baker Island",
	"UTC-11": "Pago Pago",
	"UTC-10": "Honolulu",
	"UTC-9":  "Anchorage",
	"UTC-8":  "Los Angeles",
	"UTC-7":  "Denver",
	"UTC-6":  "Chicago",
	"UTC-5":  "Bogota",
	"UTC-4":  "New York",
	"UTC-3":  "Buenos Aires",
	"UTC-2":  "South Georgia",
	"UTC-1":  "Cape Verde",
	"UTC+0":  "London",
	"UTC+1":  "Paris",
	"UTC+2":  "Cairo",
	"UTC+3":  "Moscow",
	"UTC+4":  "Dubai",
	"UTC+5":  "Karachi",
	"UTC+6":  "Dhaka",
	"UTC+7":  "Bangkok",
	"UTC+8":  "Singapore",
	"UTC+9":  "Tokyo",
	"UTC+10": "Sydney",
	"UTC+11": "Honiara",
	"UTC+12": "Auckland",
}

// QueryFor returns the provider query for a location: the city when known,
// otherwise a representative city for the UTC label.
func QueryFor(timezoneLabel, city string) string {
	if strings.TrimSpace(city) != "" {
		return city
	}
	if q, ok := utcLocations[strings.ToUpper(strings.TrimSpace(timezoneLabel))]; ok {
		return q
	}
	return "London"
}

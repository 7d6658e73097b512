package report

import "strings"

type icon struct {
	key    string
	symbol string
}

var weatherIcons = []icon{
	{"sol", "☀️"},
	{"ensolarado", "☀️"},
	{"sunny", "☀️"},
	{"chuva", "🌧️"},
	{"chuvoso", "🌧️"},
	{"rainy", "🌧️"},
	{"nuvem", "☁️"},
	{"nublado", "☁️"},
	{"encoberto", "☁️"},
	{"cloudy", "☁️"},
	{"neve", "❄️"},
	{"snowy", "❄️"},
	{"tempestade", "⛈️"},
	{"trovoada", "⛈️"},
	{"storm", "⛈️"},
	{"seco", "🏜️"},
	{"arid", "🏜️"},
	{"árido", "🏜️"},
	{"deserto", "🏜️"},
	{"úmido", "💧"},
	{"humid", "💧"},
	{"tropical", "🌴"},
	{"vento", "💨"},
	{"windy", "💨"},
	{"nevoeiro", "🌫️"},
	{"névoa", "🌫️"},
	{"foggy", "🌫️"},
}

const defaultIcon = "🌤️"

// WeatherIcon picks an emoji for a condition by the first matching keyword.
func WeatherIcon(condition string) string {
	c := strings.ToLower(condition)
	for _, i := range weatherIcons {
		if strings.Contains(c, i.key) {
			return i.symbol
		}
	}
	return defaultIcon
}

// ClimateClass maps a climate label to its CSS badge class.
func ClimateClass(climate string) string {
	c := strings.ToLower(climate)
	switch {
	case strings.Contains(c, "árido"), strings.Contains(c, "arid"):
		return "arid"
	case strings.Contains(c, "deserto"), strings.Contains(c, "desert"):
		return "desert"
	case strings.Contains(c, "tropical"):
		return "tropical"
	case strings.Contains(c, "temperado"), strings.Contains(c, "temperate"):
		return "temperate"
	case strings.Contains(c, "frio"), strings.Contains(c, "cold"), strings.Contains(c, "polar"):
		return "cold"
	default:
		return "temperate"
	}
}

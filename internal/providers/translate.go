package providers

import "strings"

type translation struct {
	en string
	pt string
}

// Order matters: substring matching returns the first entry contained in the
// input, so "partly cloudy" must precede "cloudy".
var conditionTranslations = []translation{
	{"sunny", "Ensolarado"},
	{"clear", "Limpo"},
	{"partly cloudy", "Parcialmente Nublado"},
	{"cloudy", "Nublado"},
	{"overcast", "Encoberto"},

	{"mist", "Névoa"},
	{"fog", "Nevoeiro"},
	{"freezing fog", "Nevoeiro Congelante"},

	{"patchy rain possible", "Possibilidade de Chuva"},
	{"patchy rain nearby", "Chuva Próxima"},
	{"light rain", "Chuva Leve"},
	{"moderate rain", "Chuva Moderada"},
	{"moderate rain at times", "Chuva Moderada Intermitente"},
	{"heavy rain", "Chuva Forte"},
	{"heavy rain at times", "Chuva Forte Intermitente"},
	{"light drizzle", "Chuvisco Leve"},
	{"patchy light drizzle", "Chuvisco Leve Intermitente"},
	{"light freezing rain", "Chuva Congelante Leve"},
	{"moderate or heavy freezing rain", "Chuva Congelante Moderada a Forte"},
	{"light rain shower", "Pancadas de Chuva Leve"},
	{"moderate or heavy rain shower", "Pancadas de Chuva Moderada a Forte"},
	{"torrential rain shower", "Pancadas de Chuva Torrencial"},

	{"patchy snow possible", "Possibilidade de Neve"},
	{"patchy light snow", "Neve Leve Intermitente"},
	{"light snow", "Neve Leve"},
	{"moderate snow", "Neve Moderada"},
	{"heavy snow", "Neve Forte"},
	{"patchy moderate snow", "Neve Moderada Intermitente"},
	{"patchy heavy snow", "Neve Forte Intermitente"},
	{"light snow showers", "Pancadas de Neve Leve"},
	{"moderate or heavy snow showers", "Pancadas de Neve Moderada a Forte"},
	{"blowing snow", "Nevasca"},
	{"blizzard", "Nevasca Intensa"},

	{"ice pellets", "Granizo"},
	{"light showers of ice pellets", "Pancadas Leves de Granizo"},
	{"moderate or heavy showers of ice pellets", "Pancadas Moderadas a Fortes de Granizo"},

	{"thundery outbreaks possible", "Possibilidade de Trovoadas"},
	{"patchy light rain with thunder", "Chuva Leve com Trovoadas Intermitente"},
	{"moderate or heavy rain with thunder", "Chuva Moderada a Forte com Trovoadas"},
	{"patchy light snow with thunder", "Neve Leve com Trovoadas Intermitente"},
	{"moderate or heavy snow with thunder", "Neve Moderada a Forte com Trovoadas"},
}

var exactTranslations = func() map[string]string {
	m := make(map[string]string, len(conditionTranslations))
	for _, t := range conditionTranslations {
		m[t.en] = t.pt
	}
	return m
}()

// TranslateCondition maps an English provider condition to Portuguese. Exact
// matches win; otherwise the first table key contained in the text is used.
// Unknown text is returned unchanged.
func TranslateCondition(condition string) string {
	key := strings.ToLower(strings.TrimSpace(condition))

	if pt, ok := exactTranslations[key]; ok {
		return pt
	}

	for _, t := range conditionTranslations {
		if strings.Contains(key, t.en) {
			return t.pt
		}
	}

	return condition
}

package format

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Message keys; the English source strings double as keys.
const (
	keyYears   = "%d years"
	keyMonths  = "%d months"
	keyWeeks   = "%d weeks"
	keyDays    = "%d days"
	keyHours   = "%d hours"
	keyMinutes = "%d minutes"
	keySeconds = "%d seconds"
	keyAnd     = "and"
)

var supported = []language.Tag{language.English, language.German}

var matcher = language.NewMatcher(supported)

var messages = buildCatalog()

type unitForms struct {
	key   string
	one   string
	other string
}

var translations = map[language.Tag]struct {
	and   string
	units []unitForms
}{
	language.English: {
		and: "and",
		units: []unitForms{
			{keyYears, "%d year", "%d years"},
			{keyMonths, "%d month", "%d months"},
			{keyWeeks, "%d week", "%d weeks"},
			{keyDays, "%d day", "%d days"},
			{keyHours, "%d hour", "%d hours"},
			{keyMinutes, "%d minute", "%d minutes"},
			{keySeconds, "%d second", "%d seconds"},
		},
	},
	language.German: {
		and: "und",
		units: []unitForms{
			{keyYears, "%d Jahr", "%d Jahre"},
			{keyMonths, "%d Monat", "%d Monate"},
			{keyWeeks, "%d Woche", "%d Wochen"},
			{keyDays, "%d Tag", "%d Tage"},
			{keyHours, "%d Stunde", "%d Stunden"},
			{keyMinutes, "%d Minute", "%d Minuten"},
			{keySeconds, "%d Sekunde", "%d Sekunden"},
		},
	},
}

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, tr := range translations {
		if err := b.SetString(tag, keyAnd, tr.and); err != nil {
			panic(err)
		}
		for _, u := range tr.units {
			msg := plural.Selectf(1, "%d", plural.One, u.one, plural.Other, u.other)
			if err := b.Set(tag, u.key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

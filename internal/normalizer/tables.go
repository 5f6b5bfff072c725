package normalizer

// Static folding tables. These are closed sets: lookups only, nothing is
// inferred at runtime.

// ordinalWords folds spelled-out ordinals 1st-20th onto the digit+suffix
// form. The digit forms are already canonical and pass through untouched.
var ordinalWords = map[string]string{
	"first":       "1st",
	"second":      "2nd",
	"third":       "3rd",
	"fourth":      "4th",
	"fifth":       "5th",
	"sixth":       "6th",
	"seventh":     "7th",
	"eighth":      "8th",
	"ninth":       "9th",
	"tenth":       "10th",
	"eleventh":    "11th",
	"twelfth":     "12th",
	"thirteenth":  "13th",
	"fourteenth":  "14th",
	"fifteenth":   "15th",
	"sixteenth":   "16th",
	"seventeenth": "17th",
	"eighteenth":  "18th",
	"nineteenth":  "19th",
	"twentieth":   "20th",
}

// cardinalWords folds number words 1-20 onto digits.
var cardinalWords = map[string]string{
	"one":       "1",
	"two":       "2",
	"three":     "3",
	"four":      "4",
	"five":      "5",
	"six":       "6",
	"seven":     "7",
	"eight":     "8",
	"nine":      "9",
	"ten":       "10",
	"eleven":    "11",
	"twelve":    "12",
	"thirteen":  "13",
	"fourteen":  "14",
	"fifteen":   "15",
	"sixteen":   "16",
	"seventeen": "17",
	"eighteen":  "18",
	"nineteen":  "19",
	"twenty":    "20",
}

// nameAliases maps well-known political figures' full names onto their
// surname so "donald trump" and "trump" grade identically.
var nameAliases = map[string]string{
	"donald trump":          "trump",
	"donald j trump":        "trump",
	"joe biden":             "biden",
	"joseph biden":          "biden",
	"joseph r biden":        "biden",
	"barack obama":          "obama",
	"kamala harris":         "harris",
	"george washington":     "washington",
	"abraham lincoln":       "lincoln",
	"thomas jefferson":      "jefferson",
	"benjamin franklin":     "franklin",
	"alexander hamilton":    "hamilton",
	"james madison":         "madison",
	"john roberts":          "roberts",
	"franklin roosevelt":    "roosevelt",
	"franklin d roosevelt":  "roosevelt",
	"martin luther king jr": "king",
	"martin luther king":    "king",
}

// titleAliases folds titles and common abbreviations onto one spelling.
// Multi-word keys are replaced as phrases before single tokens.
var titleAliases = map[string]string{
	"united states of america": "us",
	"united states":            "us",
	"usa":                      "us",
	"u s":                      "us",
	"scotus":                   "supreme court",
	"doctor":                   "dr",
	"mister":                   "mr",
	"misses":                   "mrs",
	"missus":                   "mrs",
	"senator":                  "sen",
	"representative":           "rep",
	"attorney general":         "ag",
	"house of representatives": "house",
}

// articles removed as standalone tokens.
var articles = map[string]bool{
	"a":   true,
	"an":  true,
	"the": true,
}

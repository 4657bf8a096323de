package identity

// DefaultAliases is the built-in institution alias table, keyed by the
// normalized full name. It currently covers California institutions, the
// population the product launched with.
func DefaultAliases() AliasRegistry {
	return AliasRegistry{
		"california institute of technology": {"caltech", "cit"},
		"stanford university":                {"stanford"},
		"university of southern california":  {"usc"},

		"harvey mudd college":       {"harvey mudd", "hmc"},
		"pomona college":            {"pomona"},
		"claremont mckenna college": {"claremont mckenna", "cmc"},
		"scripps college":           {"scripps"},
		"pitzer college":            {"pitzer"},

		"university of california berkeley":      {"uc berkeley", "ucb", "berkeley", "cal"},
		"university of california los angeles":   {"ucla", "uc los angeles"},
		"university of california san diego":     {"ucsd", "uc san diego"},
		"university of california irvine":        {"uci", "uc irvine"},
		"university of california davis":         {"ucd", "uc davis"},
		"university of california santa barbara": {"ucsb", "uc santa barbara"},
		"university of california riverside":     {"ucr", "uc riverside"},
		"university of california santa cruz":    {"ucsc", "uc santa cruz"},
		"university of california merced":        {"ucm", "uc merced"},
		"university of california san francisco": {"ucsf", "uc san francisco"},

		"california state university long beach": {"cal state long beach", "csulb"},
		"california state university los angeles": {"cal state la", "csula"},
		"california state university fullerton":  {"cal state fullerton", "csuf"},
		"california state university northridge": {"cal state northridge", "csun"},
		"san diego state university":             {"sdsu", "san diego state"},
		"california state university fresno":     {"fresno state"},
		"california state university sacramento": {"sac state", "csus"},
		"san francisco state university":         {"sf state", "sfsu"},

		"california polytechnic state university": {"cal poly", "calpoly"},
		"california polytechnic pomona":           {"cal poly pomona", "cpp"},
		"loyola marymount university":             {"lmu"},
		"pepperdine university":                   {"pepperdine"},
		"santa clara university":                  {"santa clara", "scu"},
		"university of san francisco":             {"usf"},
		"san jose state university":               {"sjsu", "san jose state"},
		"humboldt state university":               {"humboldt state", "hsu"},
	}
}

// DomainRegistry maps normalized institution names to their known primary
// domains, used by the resolver fallback before any synthesis.
type DomainRegistry map[string]string

// DefaultDomains is the built-in name-to-domain table.
func DefaultDomains() DomainRegistry {
	return DomainRegistry{
		"california institute of technology": "caltech.edu",
		"caltech":                            "caltech.edu",
		"stanford university":                "stanford.edu",
		"stanford":                           "stanford.edu",
		"university of southern california":  "usc.edu",
		"usc":                                "usc.edu",
		"harvey mudd college":                "hmc.edu",
		"harvey mudd":                        "hmc.edu",
		"pomona college":                     "pomona.edu",
		"pomona":                             "pomona.edu",
		"claremont mckenna college":          "cmc.edu",
		"claremont mckenna":                  "cmc.edu",
		"scripps college":                    "scrippscollege.edu",
		"pitzer college":                     "pitzer.edu",
		"california polytechnic state university": "calpoly.edu",
		"cal poly":                    "calpoly.edu",
		"california polytechnic pomona": "cpp.edu",
		"cal poly pomona":             "cpp.edu",
		"loyola marymount university": "lmu.edu",
		"pepperdine university":       "pepperdine.edu",
		"santa clara university":      "scu.edu",
		"university of san francisco": "usfca.edu",
		"san jose state university":   "sjsu.edu",
		"san diego state university":  "sdsu.edu",
		"san francisco state university": "sfsu.edu",
		"humboldt state university":      "humboldt.edu",
		"university of california santa cruz": "ucsc.edu",
		"uc santa cruz":                       "ucsc.edu",
	}
}

// ucCampusDomains maps University of California campus names to domains used
// when deriving candidates for inputs like "University of California, Davis".
var ucCampusDomains = map[string]string{
	"san diego":     "ucsd.edu",
	"sandiego":      "ucsd.edu",
	"los angeles":   "ucla.edu",
	"losangeles":    "ucla.edu",
	"berkeley":      "berkeley.edu",
	"davis":         "ucdavis.edu",
	"irvine":        "uci.edu",
	"santa barbara": "ucsb.edu",
	"santa cruz":    "ucsc.edu",
	"riverside":     "ucr.edu",
	"merced":        "ucmerced.edu",
	"san francisco": "ucsf.edu",
}

// genericNameWords are dropped when synthesizing candidate domains from the
// significant words of a name.
var genericNameWords = map[string]struct{}{
	"university": {}, "of": {}, "the": {}, "at": {}, "state": {},
	"college": {}, "california": {}, "institute": {}, "technology": {},
}

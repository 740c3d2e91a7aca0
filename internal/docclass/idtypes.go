package docclass

import (
	"sort"
	"strings"
)

// idTypeKeywords maps each accepted government ID type to the phrases that
// identify it in OCR text. Ordering of the map does not matter; detection
// ranks candidates by hit count.
var idTypeKeywords = map[string][]string{
	"Philippine National ID": {
		"philippine identification card",
		"philsys",
		"national id",
		"pambansang pagkakakilanlan",
		"psn",
	},
	"Passport": {
		"passport",
		"pasaporte",
		"department of foreign affairs",
	},
	"Driver's License": {
		"driver's license",
		"drivers license",
		"driver license",
		"land transportation office",
		"non-professional",
		"professional driver",
		"license no",
	},
	"UMID": {
		"umid",
		"unified multi-purpose id",
		"unified multi purpose",
	},
	"PRC ID": {
		"professional regulation commission",
		"professional identification card",
		"prc",
	},
	"Voter's ID": {
		"voter",
		"commission on elections",
		"comelec",
	},
	"Postal ID": {
		"postal id",
		"philippine postal",
		"phlpost",
		"postal identity card",
	},
	"Senior Citizen ID": {
		"senior citizen",
		"office of senior citizens affairs",
		"osca",
	},
	"PWD ID": {
		"person with disability",
		"persons with disability",
		"pwd",
	},
	"SSS ID": {
		"social security system",
		"social security card",
		"sss",
	},
	"GSIS ID": {
		"government service insurance system",
		"gsis",
		"ecard",
	},
	"PhilHealth ID": {
		"philhealth",
		"philippine health insurance",
		"health insurance card",
	},
	"Pag-IBIG ID": {
		"pag-ibig",
		"pagibig",
		"home development mutual fund",
		"hdmf",
		"loyalty card",
	},
	"TIN ID": {
		"tin id",
		"tin card",
		"taxpayer identification",
	},
	"Barangay ID": {
		"barangay id",
		"barangay identification",
	},
	"Police Clearance": {
		"police clearance",
		"philippine national police",
	},
	"NBI Clearance": {
		"nbi clearance",
		"national bureau of investigation",
	},
	"Solo Parent ID": {
		"solo parent",
	},
	"Indigenous Peoples ID": {
		"national commission on indigenous peoples",
		"indigenous cultural communities",
		"ncip",
	},
	"School ID": {
		"school id",
		"student identification",
		"office of the registrar",
	},
	"Company ID": {
		"company id",
		"employee id",
		"employee no",
	},
	"Government Office ID": {
		"government office",
		"agency id",
		"office id",
	},
	"Firearms License": {
		"license to own and possess firearms",
		"firearms and explosives",
		"ltopf",
	},
	"Seaman's Book": {
		"seafarer's identification",
		"seafarer",
		"seaman",
		"marina",
	},
	"OWWA ID": {
		"overseas workers welfare administration",
		"owwa",
	},
	"ACR I-Card": {
		"alien certificate of registration",
		"bureau of immigration",
		"i-card",
	},
}

// IDTypeMatch is the best ID-type candidate for a piece of text
type IDTypeMatch struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
}

// DetectIDType scans text against every known ID type and returns the best
// candidate, or nil when no keyword of any type appears. Candidates are
// ranked by hit count, ties broken by confidence.
func DetectIDType(text string) *IDTypeMatch {
	lower := strings.ToLower(text)

	var candidates []IDTypeMatch
	for idType, keywords := range idTypeKeywords {
		count := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		if count > 0 {
			candidates = append(candidates, IDTypeMatch{
				Type:       idType,
				Confidence: float64(count) / float64(len(keywords)),
				MatchCount: count,
			})
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].MatchCount != candidates[j].MatchCount {
			return candidates[i].MatchCount > candidates[j].MatchCount
		}
		return candidates[i].Confidence > candidates[j].Confidence
	})

	best := candidates[0]
	return &best
}

// idTypeAliases are keyword pairs that make a declared and a detected type
// compatible even when neither name contains the other, e.g. an applicant
// declaring "Driver License" against a detected "Driver's License".
var idTypeAliases = [][2]string{
	{"driver", "driver"},
	{"national", "philsys"},
	{"umid", "unified"},
	{"sss", "social security"},
	{"gsis", "government service"},
	{"pag-ibig", "hdmf"},
	{"pagibig", "pag-ibig"},
	{"tin", "taxpayer"},
	{"nbi", "national bureau"},
	{"pwd", "disability"},
	{"senior", "senior"},
	{"passport", "pasaporte"},
	{"voter", "comelec"},
	{"philhealth", "health insurance"},
	{"seaman", "seafarer"},
	{"acr", "alien certificate"},
}

// CompatibleIDTypes reports whether the declared ID type and the detected
// one refer to the same document: substring containment in either direction,
// plus the manual alias pairs above.
func CompatibleIDTypes(declared, detected string) bool {
	d1 := strings.ToLower(strings.TrimSpace(declared))
	d2 := strings.ToLower(strings.TrimSpace(detected))
	if d1 == "" || d2 == "" {
		return false
	}

	if strings.Contains(d1, d2) || strings.Contains(d2, d1) {
		return true
	}

	for _, pair := range idTypeAliases {
		if (strings.Contains(d1, pair[0]) && strings.Contains(d2, pair[1])) ||
			(strings.Contains(d1, pair[1]) && strings.Contains(d2, pair[0])) {
			return true
		}
	}
	return false
}

// IDTypes returns all accepted ID type names
func IDTypes() []string {
	out := make([]string, 0, len(idTypeKeywords))
	for t := range idTypeKeywords {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

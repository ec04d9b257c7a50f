package numbering

import "strings"

// countryCodes maps common country names (lowercased) to their two-letter
// codes for use in document number templates.
var countryCodes = map[string]string{
	"india":                "IN",
	"united states":        "US",
	"usa":                  "US",
	"united kingdom":       "UK",
	"uk":                   "UK",
	"australia":            "AU",
	"canada":               "CA",
	"germany":              "DE",
	"france":               "FR",
	"japan":                "JP",
	"china":                "CN",
	"singapore":            "SG",
	"united arab emirates": "AE",
	"uae":                  "AE",
	"saudi arabia":         "SA",
	"netherlands":          "NL",
	"switzerland":          "CH",
	"ireland":              "IE",
	"new zealand":          "NZ",
	"south africa":         "ZA",
	"brazil":               "BR",
	"mexico":               "MX",
	"italy":                "IT",
	"spain":                "ES",
	"sweden":               "SE",
	"norway":               "NO",
	"denmark":              "DK",
	"bangladesh":           "BD",
	"sri lanka":            "LK",
	"nepal":                "NP",
	"malaysia":             "MY",
	"indonesia":            "ID",
	"thailand":             "TH",
	"vietnam":              "VN",
	"south korea":          "KR",
	"hong kong":            "HK",
	"qatar":                "QA",
	"kuwait":               "KW",
	"oman":                 "OM",
	"bahrain":              "BH",
}

// CountryCode resolves a free-text country name to a short uppercase code.
// Unmapped names fall back to the first two uppercased letters.
func CountryCode(country string) string {
	name := strings.TrimSpace(country)
	if name == "" {
		return ""
	}
	if code, ok := countryCodes[strings.ToLower(name)]; ok {
		return code
	}
	if len(name) < 2 {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(name[:2])
}

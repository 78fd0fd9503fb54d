package event

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// provinceCodes lists the 13 Canadian province and territory codes
var provinceCodes = map[string]struct{}{
	"ON": {}, "QC": {}, "BC": {}, "AB": {}, "MB": {}, "SK": {}, "NS": {},
	"NB": {}, "NL": {}, "PE": {}, "YT": {}, "NT": {}, "NU": {},
}

// provinceNames maps upper-cased, unaccented full names to their codes
var provinceNames = map[string]string{
	"ONTARIO":                   "ON",
	"QUEBEC":                    "QC",
	"BRITISH COLUMBIA":          "BC",
	"ALBERTA":                   "AB",
	"MANITOBA":                  "MB",
	"SASKATCHEWAN":              "SK",
	"NOVA SCOTIA":               "NS",
	"NEW BRUNSWICK":             "NB",
	"NEWFOUNDLAND AND LABRADOR": "NL",
	"PRINCE EDWARD ISLAND":      "PE",
	"YUKON":                     "YT",
	"NORTHWEST TERRITORIES":     "NT",
	"NUNAVUT":                   "NU",
}

var locationSeparator = regexp.MustCompile(`[,/]`)

// ProvinceCodes returns the known province codes in no particular order
func ProvinceCodes() []string {
	codes := make([]string, 0, len(provinceCodes))
	for code := range provinceCodes {
		codes = append(codes, code)
	}
	return codes
}

// ProvinceNames returns the known full province names, upper-cased and unaccented
func ProvinceNames() []string {
	names := make([]string, 0, len(provinceNames))
	for name := range provinceNames {
		names = append(names, name)
	}
	return names
}

// ExtractProvince returns the province code found in a free-text location, or "".
// The location is split on commas and slashes and the parts are scanned right to left,
// since the province usually comes last. Each part must be a whole code or a whole name.
func ExtractProvince(location string) string {
	if strings.TrimSpace(location) == "" {
		return ""
	}

	parts := locationSeparator.Split(location, -1)
	for i := len(parts) - 1; i >= 0; i-- {
		up := strings.ToUpper(Unaccent(strings.TrimSpace(parts[i])))
		if _, ok := provinceCodes[up]; ok {
			return up
		}
		if code, ok := provinceNames[up]; ok {
			return code
		}
	}

	return ""
}

// IsCanadianLocation reports whether a location string looks Canadian.
// A bare city name without "Canada" or a province is rejected.
func IsCanadianLocation(location string) bool {
	if location == "" {
		return false
	}
	if strings.Contains(strings.ToLower(location), "canada") {
		return true
	}
	return ExtractProvince(location) != ""
}

// Unaccent strips diacritics, e.g. "Québec" becomes "Quebec"
func Unaccent(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

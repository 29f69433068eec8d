package operation

import (
	"net/url"
	"strings"
)

// Placeholder is a template token together with the value used when no
// request parameter supplies one.
type Placeholder struct {
	Token   string
	Default string
}

// ParamSource resolves a parameter by name, falling back to def.
type ParamSource interface {
	Resolve(key, def string) string
}

// placeholders lists, per operation, the tokens that are substituted. Tokens
// present in a template but missing here are left untouched.
var placeholders = map[Name][]Placeholder{
	GetCountryIndicator: {
		{Token: "countryCode", Default: "USA"},
		{Token: "indicatorCode", Default: "NY.GDP.MKTP.CD"},
	},
	GetRegionIndicator: {
		{Token: "regionCode", Default: "MEA"},
		{Token: "indicatorCode", Default: "SP.DYN.LE00.IN"},
	},
	GetIncomeLevelIndicator: {
		{Token: "incomeLevelCode", Default: "LIC"},
		{Token: "indicatorCode", Default: "SP.DYN.LE00.IN"},
	},
	GetCountryByCode: {
		{Token: "countryCode", Default: "USA"},
	},
	GetCountriesByRegion: {
		{Token: "regionCode", Default: "MEA"},
	},
	GetCountriesByIncomeLevel: {
		{Token: "incomeLevel", Default: "LIC"},
	},
	GetIndicatorByCode: {
		{Token: "indicatorCode", Default: "NY.GDP.MKTP.CD"},
	},
}

// Placeholders returns the substitution table entry for name, or nil when
// the operation takes no path parameters.
func Placeholders(name Name) []Placeholder {
	ps := placeholders[name]
	if len(ps) == 0 {
		return nil
	}
	out := make([]Placeholder, len(ps))
	copy(out, ps)
	return out
}

// ResolveTemplate substitutes the placeholders registered for name into tmpl
// using values from src. Values are path-escaped so a parameter can never
// introduce a new path segment.
func ResolveTemplate(name Name, tmpl Template, src ParamSource) string {
	resolved := string(tmpl)
	for _, p := range placeholders[name] {
		value := src.Resolve(p.Token, p.Default)
		resolved = strings.ReplaceAll(resolved, "{"+p.Token+"}", url.PathEscape(value))
	}
	return resolved
}

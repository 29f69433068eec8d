// Package operation maps logical gateway operations to World Bank API URL
// templates and resolves the placeholders inside them.
package operation

import (
	"sort"
)

// Name is a logical operation identifier. Matching is case-sensitive.
type Name string

// Parametrized single-entity queries.
const (
	GetCountryIndicator       Name = "GetCountryIndicator"
	GetRegionIndicator        Name = "GetRegionIndicator"
	GetIncomeLevelIndicator   Name = "GetIncomeLevelIndicator"
	GetCountryByCode          Name = "GetCountryByCode"
	GetCountriesByRegion      Name = "GetCountriesByRegion"
	GetCountriesByIncomeLevel Name = "GetCountriesByIncomeLevel"
)

// Parametrized metadata queries.
const (
	GetIndicatorByCode Name = "GetIndicatorByCode"
)

// Bulk listings.
const (
	GetAllCountries    Name = "GetAllCountries"
	GetAllRegions      Name = "GetAllRegions"
	GetAllIndicators   Name = "GetAllIndicators"
	GetAllTopics       Name = "GetAllTopics"
	GetAllSources      Name = "GetAllSources"
	GetAllLendingTypes Name = "GetAllLendingTypes"
	GetAllIncomeLevels Name = "GetAllIncomeLevels"
)

// Template is an upstream path relative to the API base URL. It may contain
// {token} placeholders.
type Template string

var defaultTemplates = map[Name]Template{
	GetCountryIndicator:       "/v2/country/{countryCode}/indicator/{indicatorCode}",
	GetRegionIndicator:        "/v2/country/{regionCode}/indicator/{indicatorCode}",
	GetIncomeLevelIndicator:   "/v2/country/{incomeLevelCode}/indicator/{indicatorCode}",
	GetCountryByCode:          "/v2/country/{countryCode}",
	GetCountriesByRegion:      "/v2/region/{regionCode}/country",
	GetCountriesByIncomeLevel: "/v2/incomelevel/{incomeLevel}/country",
	GetIndicatorByCode:        "/v2/indicator/{indicatorCode}",
	GetAllCountries:           "/v2/country",
	GetAllRegions:             "/v2/region",
	GetAllIndicators:          "/v2/indicator",
	GetAllTopics:              "/v2/topic",
	GetAllSources:             "/v2/source",
	GetAllLendingTypes:        "/v2/lendingType",
	GetAllIncomeLevels:        "/v2/incomeLevel",
}

// Registry is a read-only lookup from operation name to URL template.
// It is safe for concurrent use once constructed.
type Registry struct {
	templates map[Name]Template
	names     []string
}

// NewRegistry returns the registry of all supported World Bank operations.
func NewRegistry() *Registry {
	return NewRegistryFrom(defaultTemplates)
}

// NewRegistryFrom builds a registry from the given table. The table is copied.
func NewRegistryFrom(templates map[Name]Template) *Registry {
	r := &Registry{
		templates: make(map[Name]Template, len(templates)),
		names:     make([]string, 0, len(templates)),
	}
	for name, tmpl := range templates {
		r.templates[name] = tmpl
		r.names = append(r.names, string(name))
	}
	sort.Strings(r.names)
	return r
}

// Lookup returns the template registered for name. The second return value
// is false for unknown names; there is no fallback template.
func (r *Registry) Lookup(name Name) (Template, bool) {
	tmpl, ok := r.templates[name]
	return tmpl, ok
}

// Has reports whether name is a registered operation.
func (r *Registry) Has(name Name) bool {
	_, ok := r.templates[name]
	return ok
}

// Names returns all registered operation names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	return len(r.templates)
}

package operation

import (
	"testing"
)

type mapSource map[string]string

func (m mapSource) Resolve(key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

func TestResolveTemplate(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name   string
		op     Name
		params mapSource
		want   string
	}{
		{
			name: "country indicator defaults",
			op:   GetCountryIndicator,
			want: "/v2/country/USA/indicator/NY.GDP.MKTP.CD",
		},
		{
			name:   "country indicator supplied",
			op:     GetCountryIndicator,
			params: mapSource{"countryCode": "BRA", "indicatorCode": "SP.POP.TOTL"},
			want:   "/v2/country/BRA/indicator/SP.POP.TOTL",
		},
		{
			name: "region indicator defaults",
			op:   GetRegionIndicator,
			want: "/v2/country/MEA/indicator/SP.DYN.LE00.IN",
		},
		{
			name: "income level indicator defaults",
			op:   GetIncomeLevelIndicator,
			want: "/v2/country/LIC/indicator/SP.DYN.LE00.IN",
		},
		{
			name:   "income level indicator uses incomeLevelCode only",
			op:     GetIncomeLevelIndicator,
			params: mapSource{"incomeLevel": "HIC", "incomeLevelCode": "UMC"},
			want:   "/v2/country/UMC/indicator/SP.DYN.LE00.IN",
		},
		{
			name:   "countries by income level uses incomeLevel",
			op:     GetCountriesByIncomeLevel,
			params: mapSource{"incomeLevel": "HIC", "incomeLevelCode": "UMC"},
			want:   "/v2/incomelevel/HIC/country",
		},
		{
			name: "indicator by code default",
			op:   GetIndicatorByCode,
			want: "/v2/indicator/NY.GDP.MKTP.CD",
		},
		{
			name: "countries by region default",
			op:   GetCountriesByRegion,
			want: "/v2/region/MEA/country",
		},
		{
			name: "country by code default",
			op:   GetCountryByCode,
			want: "/v2/country/USA",
		},
		{
			name:   "bulk listing ignores parameters",
			op:     GetAllRegions,
			params: mapSource{"countryCode": "BRA"},
			want:   "/v2/region",
		},
		{
			name:   "values are path escaped",
			op:     GetCountryByCode,
			params: mapSource{"countryCode": "../admin"},
			want:   "/v2/country/..%2Fadmin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, ok := reg.Lookup(tt.op)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.op)
			}
			if got := ResolveTemplate(tt.op, tmpl, tt.params); got != tt.want {
				t.Errorf("ResolveTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveTemplate_UnlistedTokenLeftAlone(t *testing.T) {
	got := ResolveTemplate(GetAllTopics, "/v2/topic/{topicId}", mapSource{"topicId": "3"})
	if got != "/v2/topic/{topicId}" {
		t.Errorf("ResolveTemplate() = %q, want template unchanged", got)
	}
}

func TestPlaceholders_ReturnsCopy(t *testing.T) {
	ps := Placeholders(GetCountryIndicator)
	if len(ps) != 2 {
		t.Fatalf("Placeholders() len = %d, want 2", len(ps))
	}
	ps[0].Default = "XXX"
	if Placeholders(GetCountryIndicator)[0].Default != "USA" {
		t.Error("Placeholders() exposes internal table")
	}
}

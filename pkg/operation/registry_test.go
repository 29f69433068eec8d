package operation

import (
	"sort"
	"strings"
	"testing"
)

func TestNewRegistry_Categories(t *testing.T) {
	reg := NewRegistry()

	names := []Name{
		GetCountryIndicator, GetRegionIndicator, GetIncomeLevelIndicator,
		GetCountryByCode, GetCountriesByRegion, GetCountriesByIncomeLevel,
		GetIndicatorByCode,
		GetAllCountries, GetAllRegions, GetAllIndicators, GetAllTopics,
		GetAllSources, GetAllLendingTypes, GetAllIncomeLevels,
	}

	for _, name := range names {
		tmpl, ok := reg.Lookup(name)
		if !ok {
			t.Errorf("Lookup(%q) not found", name)
			continue
		}
		if !strings.HasPrefix(string(tmpl), "/v2/") {
			t.Errorf("template for %q = %q, want /v2/ prefix", name, tmpl)
		}
	}

	if reg.Len() != len(names) {
		t.Errorf("Len() = %d, want %d", reg.Len(), len(names))
	}
}

func TestRegistry_Lookup_Unknown(t *testing.T) {
	reg := NewRegistry()

	tests := []Name{"", "getAllRegions", "GETALLREGIONS", "GetAllRegions ", "Unknown"}
	for _, name := range tests {
		t.Run(string(name), func(t *testing.T) {
			tmpl, ok := reg.Lookup(name)
			if ok {
				t.Errorf("Lookup(%q) = %q, want not found", name, tmpl)
			}
			if tmpl != "" {
				t.Errorf("Lookup(%q) returned non-empty template %q", name, tmpl)
			}
		})
	}
}

func TestRegistry_BulkListingsHaveNoPlaceholders(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []Name{GetAllCountries, GetAllRegions, GetAllIndicators, GetAllTopics, GetAllSources, GetAllLendingTypes, GetAllIncomeLevels} {
		tmpl, _ := reg.Lookup(name)
		if strings.Contains(string(tmpl), "{") {
			t.Errorf("%s template %q should have no placeholders", name, tmpl)
		}
		if Placeholders(name) != nil {
			t.Errorf("%s should have no placeholder table entry", name)
		}
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistryFrom(map[Name]Template{
		"B": "/b",
		"A": "/a",
	})

	names := reg.Names()
	if !sort.StringsAreSorted(names) {
		t.Errorf("Names() not sorted: %v", names)
	}
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("Names() = %v, want [A B]", names)
	}

	// Mutating the returned slice must not affect the registry.
	names[0] = "Z"
	if reg.Names()[0] != "A" {
		t.Error("Names() exposes internal state")
	}
}

func TestNewRegistryFrom_CopiesTable(t *testing.T) {
	table := map[Name]Template{"Op": "/op"}
	reg := NewRegistryFrom(table)

	table["Op"] = "/changed"
	table["Other"] = "/other"

	if tmpl, _ := reg.Lookup("Op"); tmpl != "/op" {
		t.Errorf("Lookup(Op) = %q, want /op", tmpl)
	}
	if reg.Has("Other") {
		t.Error("registry picked up a key added after construction")
	}
}

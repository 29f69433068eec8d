package pagination

import "testing"

func TestBuildPageURL(t *testing.T) {
	mrv := "1"
	date := "2015"

	tests := []struct {
		name string
		req  Request
		page int
		want string
	}{
		{
			name: "required parameters only",
			req:  Request{BaseURL: "https://api.worldbank.org/v2/region", Format: "json", PerPage: "50"},
			page: 1,
			want: "https://api.worldbank.org/v2/region?format=json&per_page=50&page=1",
		},
		{
			name: "with mrv and date",
			req:  Request{BaseURL: "https://api.worldbank.org/v2/country/USA/indicator/X", Format: "json", PerPage: "10", MRV: &mrv, Date: &date},
			page: 4,
			want: "https://api.worldbank.org/v2/country/USA/indicator/X?format=json&per_page=10&page=4&mrv=1&date=2015",
		},
		{
			name: "base already has a query",
			req:  Request{BaseURL: "http://x/v2/topic?source=2", Format: "xml", PerPage: "5"},
			page: 2,
			want: "http://x/v2/topic?source=2&format=xml&per_page=5&page=2",
		},
		{
			name: "values are query escaped",
			req:  Request{BaseURL: "http://x/v2/region", Format: "json&x=1", PerPage: "5"},
			page: 1,
			want: "http://x/v2/region?format=json%26x%3D1&per_page=5&page=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildPageURL(tt.req, tt.page); got != tt.want {
				t.Errorf("BuildPageURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

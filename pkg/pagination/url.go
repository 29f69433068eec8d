package pagination

import (
	"net/url"
	"strconv"
	"strings"
)

// BuildPageURL appends the paging query to req.BaseURL in a fixed order:
// format, per_page, page, then mrv and date when set.
func BuildPageURL(req Request, page int) string {
	var b strings.Builder
	b.WriteString(req.BaseURL)
	if strings.Contains(req.BaseURL, "?") {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}

	b.WriteString("format=")
	b.WriteString(url.QueryEscape(req.Format))
	b.WriteString("&per_page=")
	b.WriteString(url.QueryEscape(req.PerPage))
	b.WriteString("&page=")
	b.WriteString(strconv.Itoa(page))

	if req.MRV != nil {
		b.WriteString("&mrv=")
		b.WriteString(url.QueryEscape(*req.MRV))
	}
	if req.Date != nil {
		b.WriteString("&date=")
		b.WriteString(url.QueryEscape(*req.Date))
	}

	return b.String()
}

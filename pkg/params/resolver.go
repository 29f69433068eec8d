// Package params resolves request parameters from the query string and
// header-equivalent fields with a fixed precedence: query, header, default.
package params

import (
	"net/http"
	"net/url"
	"strings"
)

// ParseQuery splits a raw query string on '&' and each pair on its first '='.
// Both sides are URL-unescaped. Pairs without '=' or with invalid escapes are
// skipped. When a key repeats, the first occurrence wins.
func ParseQuery(raw string) map[string]string {
	values := make(map[string]string)
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return values
	}

	for _, pair := range strings.Split(raw, "&") {
		rawKey, rawValue, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		key, err := url.QueryUnescape(rawKey)
		if err != nil || key == "" {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		if _, exists := values[key]; exists {
			continue
		}
		values[key] = value
	}

	return values
}

// Resolver looks parameters up in a parsed query string first and in the
// request headers second.
type Resolver struct {
	query   map[string]string
	headers http.Header
}

// NewResolver builds a Resolver from a raw query string and request headers.
// A nil header set is allowed.
func NewResolver(rawQuery string, headers http.Header) *Resolver {
	return &Resolver{
		query:   ParseQuery(rawQuery),
		headers: headers,
	}
}

// Resolve returns the query value for key when it is present and non-blank,
// otherwise the first header value for key, otherwise def.
func (r *Resolver) Resolve(key, def string) string {
	if v, ok := r.Lookup(key); ok {
		return v
	}
	return def
}

// Lookup is Resolve without a default. The boolean is false when neither
// source carries key.
func (r *Resolver) Lookup(key string) (string, bool) {
	if v, ok := r.query[key]; ok && strings.TrimSpace(v) != "" {
		return v, true
	}
	return r.header(key)
}

// Query returns the raw query value for key, blank or not.
func (r *Resolver) Query(key string) (string, bool) {
	v, ok := r.query[key]
	return v, ok
}

func (r *Resolver) header(key string) (string, bool) {
	if r.headers == nil {
		return "", false
	}
	// Hosts that build headers by hand may keep the original key casing.
	if vs, ok := r.headers[key]; ok && len(vs) > 0 {
		return vs[0], true
	}
	if vs := r.headers.Values(key); len(vs) > 0 {
		return vs[0], true
	}
	return "", false
}

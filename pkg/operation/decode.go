package operation

import (
	"encoding/base64"
	"unicode/utf8"
)

// identifierEncodings are tried in order. Hosts usually send standard
// padded base64, but URL-safe and unpadded forms show up in path segments.
var identifierEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.RawURLEncoding,
}

// DecodeIdentifier normalizes a possibly base64-encoded operation identifier.
// The decoded text is returned only when it is valid UTF-8 and names a
// registered operation; in every other case raw is returned unchanged.
// Malformed encodings are not errors.
func DecodeIdentifier(raw string, reg *Registry) string {
	if raw == "" || reg == nil {
		return raw
	}

	for _, enc := range identifierEncodings {
		decoded, err := enc.DecodeString(raw)
		if err != nil || len(decoded) == 0 {
			continue
		}
		if !utf8.Valid(decoded) {
			continue
		}
		if reg.Has(Name(decoded)) {
			return string(decoded)
		}
	}

	return raw
}

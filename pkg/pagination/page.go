package pagination

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/Jeffail/gabs/v2"
)

// parsePage splits a page body into its metadata element and result items.
// Only the outer shape is checked: at least two elements, the first an object
// and the second an array.
func parsePage(body []byte, page int) (json.RawMessage, []json.RawMessage, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil {
		return nil, nil, &StructureError{Page: page, Reason: "body is not a JSON array", Err: err}
	}
	if len(elements) < 2 {
		return nil, nil, &StructureError{
			Page:   page,
			Reason: "expected [metadata, results] but got " + strconv.Itoa(len(elements)) + " element(s)",
		}
	}

	metadata := bytes.TrimSpace(elements[0])
	if len(metadata) == 0 || metadata[0] != '{' {
		return nil, nil, &StructureError{Page: page, Reason: "first element is not an object"}
	}

	resultsRaw := bytes.TrimSpace(elements[1])
	if len(resultsRaw) == 0 || resultsRaw[0] != '[' {
		return nil, nil, &StructureError{Page: page, Reason: "second element is not an array"}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(resultsRaw, &items); err != nil {
		return nil, nil, &StructureError{Page: page, Reason: "results array is malformed", Err: err}
	}

	return json.RawMessage(metadata), items, nil
}

// totalPages reads the "pages" field of a metadata object. The API reports
// it as a number or as a numeric string. The second return value is false
// when the field is missing or not an integer.
func totalPages(metadata json.RawMessage) (int, bool) {
	container, err := gabs.ParseJSON(metadata)
	if err != nil {
		return 0, false
	}

	switch v := container.Path("pages").Data().(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

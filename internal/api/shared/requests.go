package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance for request payloads.
var Validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// DecodeJSONStrict decodes the request body while capturing the set of
// top-level keys the client actually sent. Handlers use the key set to
// enforce field allow-lists: an update carrying any unexpected key is
// rejected wholesale rather than partially applied.
func DecodeJSONStrict(r *http.Request, v interface{}) (map[string]json.RawMessage, error) {
	raw := make(map[string]json.RawMessage)
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}

	// Re-marshal the captured keys into the typed struct.
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(buf, v); err != nil {
		return nil, err
	}

	return raw, nil
}

// AllowedFields reports whether every key in the decoded body is in the
// allow-list.
func AllowedFields(body map[string]json.RawMessage, allowed ...string) bool {
	for key := range body {
		found := false
		for _, a := range allowed {
			if key == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

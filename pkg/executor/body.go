package executor

import (
	"github.com/goccy/go-json"
	"github.com/hyp3rd/ewrap"
)

// EncodeBody turns a configured payload into request bytes.
// Strings and byte slices are sent verbatim, nil means no body and anything
// else is encoded as JSON.
func EncodeBody(payload any) ([]byte, error) {
	switch value := payload.(type) {
	case nil:
		return nil, nil
	case string:
		if value == "" {
			return nil, nil
		}

		return []byte(value), nil
	case []byte:
		return value, nil
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, ewrap.Wrap(err, "failed to encode request body")
		}

		return data, nil
	}
}

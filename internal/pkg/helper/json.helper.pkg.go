package helper

import (
	"encoding/json"
	"fmt"
)

func JSONToByte(payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return b, nil
}

// BytesToStruct decodes a JSON document into a new I. An empty document is
// an error rather than a zero value.
func BytesToStruct[I any](payload []byte) (*I, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty json document")
	}
	var result I
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

package cache

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Cached values are stored as JSON so Redis and the in-process cache
// return exactly the same shapes.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

func encode(value interface{}) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("cache encode: %w", err)
	}
	return data, nil
}

func decode(data []byte, dest interface{}) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache decode: %w", err)
	}
	return nil
}

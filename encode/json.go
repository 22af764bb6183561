// Package encode writes job metadata (the recording summary) to JSON
// sidecar files alongside a conversion job's primary output.
package encode

import (
	"encoding/json"
	"os"
)

// WriteJSON serialises data as indented JSON to path, truncating any
// existing file.
func WriteJSON(path string, data any) (int, error) {
	jsn, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return 0, err
	}

	if err := os.WriteFile(path, jsn, 0o644); err != nil {
		return 0, err
	}

	return len(jsn), nil
}

// JSONDumps constructs a compact JSON string of the supplied data.
func JSONDumps(data any) (string, error) {
	jsn, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(jsn), nil
}

// JSONIndentDumps constructs a JSON string of the supplied data using
// an indentation of four spaces.
func JSONIndentDumps(data any) (string, error) {
	jsn, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return "", err
	}
	return string(jsn), nil
}

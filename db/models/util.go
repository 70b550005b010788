package models

import (
	"encoding/json"
	"fmt"
)

// decodeTracks parses the JSON array stored in the tracks column.
func decodeTracks(data string) ([]string, error) {
	tracks := []string{}
	if data == "" {
		return tracks, nil
	}
	if err := json.Unmarshal([]byte(data), &tracks); err != nil {
		return nil, fmt.Errorf("failed decoding tracks: %w", err)
	}
	if tracks == nil {
		tracks = []string{}
	}

	return tracks, nil
}

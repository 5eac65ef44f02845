package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/journal/pkg/entry"
)

// ErrInvalidJSON is returned when an import lacks the entries or questions key.
var ErrInvalidJSON = errors.New("export: invalid JSON structure")

// JSON writes data with its entries replaced by the prepared selection.
func JSON(w io.Writer, data entry.AppData, o Options) error {
	out := data
	out.Entries = Prepare(data, o)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("export: encode json: %w", err)
	}
	return nil
}

// ImportJSON reads a JSON export. Both entries and questions must be present.
func ImportJSON(r io.Reader) (entry.AppData, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return entry.AppData{}, fmt.Errorf("export: read json: %w", err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return entry.AppData{}, fmt.Errorf("export: decode json: %w", err)
	}
	for _, required := range []string{"entries", "questions"} {
		if _, ok := keys[required]; !ok {
			return entry.AppData{}, fmt.Errorf("%w: missing %s", ErrInvalidJSON, required)
		}
	}

	var data entry.AppData
	if err := json.Unmarshal(b, &data); err != nil {
		return entry.AppData{}, fmt.Errorf("export: decode json: %w", err)
	}
	if data.Entries == nil {
		data.Entries = []*entry.Entry{}
	}
	return data, nil
}

package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// settingsSchema describes the saved settings record: an object of booleans.
// Unknown keys are allowed so older or newer records still load; callers
// merge only the keys they recognise.
const settingsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "showTone":         {"type": "boolean"},
    "showIntensity":    {"type": "boolean"},
    "showNPCTooltips":  {"type": "boolean"},
    "showProtestSigns": {"type": "boolean"},
    "soundEnabled":     {"type": "boolean"}
  },
  "additionalProperties": {"type": "boolean"}
}`

var settingsValidator = jsonschema.MustCompileString("settings.schema.json", settingsSchema)

// DecodeSettings validates a raw settings record and decodes it.
func DecodeSettings(raw []byte) (map[string]bool, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	if err := settingsValidator.Validate(doc); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	var out map[string]bool
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	if out == nil {
		out = map[string]bool{}
	}
	return out, nil
}

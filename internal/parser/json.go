package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/tabclean/internal/dataset"
)

type jsonParser struct{}

func (jsonParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

// Parse accepts either a top-level array of objects or an object holding
// that array under "data". Nested values are flattened to their JSON text.
func (jsonParser) Parse(r io.Reader, _ string, _ Options) (*dataset.Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return dataset.New(nil, nil), nil
	}
	var records []map[string]any
	if raw[0] == '{' {
		var wrapper struct {
			Data []map[string]any `json:"data"`
		}
		if err := decodeNumbers(raw, &wrapper); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		records = wrapper.Data
	} else if err := decodeNumbers(raw, &records); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	for _, rec := range records {
		for k, v := range rec {
			switch v.(type) {
			case map[string]any, []any:
				b, _ := json.Marshal(v)
				rec[k] = string(b)
			}
		}
	}
	ds, err := dataset.FromRecords(nil, records)
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}
	return ds, nil
}

func decodeNumbers(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(v)
}

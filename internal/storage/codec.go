package storage

import (
	"fmt"
	"sobriety/internal/models"

	json "github.com/goccy/go-json"
)

// slots is one record in its persisted form: the cache payload with every
// slot encoded as JSON.
type slots []json.RawMessage

func encodeRecords(records []*models.Addiction) ([]slots, error) {
	out := make([]slots, 0, len(records))
	for _, a := range records {
		raw, err := models.EncodeCacheable(a.ToCacheable())
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", a.Name(), err)
		}
		out = append(out, raw)
	}
	return out, nil
}

func decodeRecord(raw slots, version int) (*models.Addiction, error) {
	c, err := models.DecodeCacheable(raw, version)
	if err != nil {
		return nil, err
	}
	return models.FromCacheable(c)
}

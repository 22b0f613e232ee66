package storage

import (
	"fmt"
	"os"
	"sobriety/internal/models"
	"sobriety/internal/providers"
	"sobriety/internal/storage/interfaces"

	json "github.com/goccy/go-json"
)

// envelope is the snapshot file layout. Files written before the version
// field existed hold a bare array of records.
type envelope struct {
	Version int     `json:"version"`
	Records []slots `json:"records"`
}

// FileStore keeps the collection in a single zstd-compressed JSON file.
type FileStore struct {
	path       string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileStore(path string, compressor interfaces.CompressorInterface, logger providers.Logger) *FileStore {
	return &FileStore{
		path:       path,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileStore) Save(records []*models.Addiction) error {
	encoded, err := encodeRecords(records)
	if err != nil {
		return err
	}
	jsonData, err := json.Marshal(envelope{Version: models.SchemaCurrent, Records: encoded})
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}

func (f *FileStore) Load() ([]*models.Addiction, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(decompressed, &env); err == nil && env.Records != nil {
		return decodeAll(env.Records, env.Version)
	}

	f.logger.Warnf(providers.TypeStore, "No schema version in %s, migrating from the unversioned format", f.path)
	var bare []slots
	if err := json.Unmarshal(decompressed, &bare); err != nil {
		f.logger.Warnf(providers.TypeStore, "Migration failed")
		return nil, fmt.Errorf("%w: unreadable snapshot: %v", models.ErrData, err)
	}
	records, err := decodeAll(bare, models.SchemaUnknown)
	if err != nil {
		f.logger.Warnf(providers.TypeStore, "Migration failed")
		return nil, err
	}
	f.logger.Warnf(providers.TypeStore, "Migration of %d records successful", len(records))
	return records, nil
}

func (f *FileStore) Close() error {
	f.compressor.Close()
	return nil
}

func decodeAll(raw []slots, version int) ([]*models.Addiction, error) {
	out := make([]*models.Addiction, 0, len(raw))
	for i, r := range raw {
		a, err := decodeRecord(r, version)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

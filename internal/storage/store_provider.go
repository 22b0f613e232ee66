package storage

import (
	"fmt"
	"sobriety/internal/providers"
	"sobriety/internal/storage/interfaces"
	"sobriety/internal/structures"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// NewStore opens the store selected by conf.Store.Driver. Only the file store
// uses the compressor; any other outcome closes it.
func NewStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (interfaces.StoreInterface, error) {
	switch conf.Store.Driver {
	case DriverFile, "":
		logger.Infof(providers.TypeStore, "Using snapshot file %s", conf.Store.Path)
		return NewFileStore(conf.Store.Path, compressor, logger), nil
	case DriverSQLite:
		compressor.Close()
		logger.Infof(providers.TypeStore, "Using SQLite database %s", conf.Store.Path)
		store, err := NewSQLiteStore(conf.Store.Path, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		compressor.Close()
		return nil, fmt.Errorf("unknown store driver %q", conf.Store.Driver)
	}
}

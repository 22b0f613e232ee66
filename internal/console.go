package internal

import (
	"sobriety/internal/providers"
	"sobriety/internal/services"
	"sobriety/internal/storage"
	"sobriety/internal/storage/interfaces"
	"sobriety/internal/structures"
)

// Console bundles what the offline commands (list, export, import) need.
type Console struct {
	Service  services.AddictionServiceInterface
	Exporter *storage.Exporter
	Conf     *structures.Config

	store  interfaces.StoreInterface
	logger providers.Logger
}

func NewConsole(service services.AddictionServiceInterface, exporter *storage.Exporter, store interfaces.StoreInterface, conf *structures.Config, logger providers.Logger) (*Console, error) {
	if err := service.Restore(); err != nil {
		_ = store.Close()
		logger.Close()
		return nil, err
	}
	return &Console{
		Service:  service,
		Exporter: exporter,
		Conf:     conf,
		store:    store,
		logger:   logger,
	}, nil
}

func (c *Console) Close() error {
	err := c.store.Close()
	c.logger.Close()
	return err
}

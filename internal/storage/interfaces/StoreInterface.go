package interfaces

import "sobriety/internal/models"

// StoreInterface persists the whole collection of records. Save replaces
// whatever was stored before and keeps the slice order.
type StoreInterface interface {
	Save(records []*models.Addiction) error
	Load() ([]*models.Addiction, error)
	Close() error
}

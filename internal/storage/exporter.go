package storage

import (
	"fmt"
	"io"
	"sobriety/internal/models"
)

// Exporter writes and reads the human-readable export file.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Export(records []*models.Addiction, w io.Writer) error {
	data, err := models.ExportDocuments(records)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func (e *Exporter) Import(r io.Reader) ([]*models.Addiction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return models.ImportDocuments(data)
}

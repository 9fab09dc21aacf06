package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/betnorm/internal/domain/services"
	"github.com/ersonp/betnorm/internal/infrastructure/parsers"
)

// ImportHandler handles importing reference data from seed files.
type ImportHandler struct {
	service *services.RefDataService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *services.RefDataService) *ImportHandler {
	return &ImportHandler{
		service: service,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun     bool                      // Validate without saving
	OnConflict services.ConflictStrategy // How to handle existing entities
}

// Handle imports teams, players and bet types from a YAML or JSON seed file.
func (h *ImportHandler) Handle(ctx context.Context, filePath string, opts ImportOptions) (*services.ImportResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	batch, err := parsers.ParseReferenceSeed(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	if len(batch) == 0 {
		return &services.ImportResult{}, nil
	}

	return h.service.Import(ctx, batch, services.ImportOptions{
		DryRun:     opts.DryRun,
		OnConflict: opts.OnConflict,
	})
}

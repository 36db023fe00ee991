package services

import (
	"context"
	"errors"
	"fmt"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/ports"
)

// NoDataMessage is shown instead of the table before the first submission.
const NoDataMessage = "Nenhum dado coletado ainda."

// TableView is the read path result. Exists is false until the first
// submission; that is an informational state, not an error.
type TableView struct {
	Exists bool
	Rows   []domain.Submission
}

// ViewTable loads the whole persisted table.
func ViewTable(ctx context.Context, repo ports.SubmissionRepository) (TableView, error) {
	if repo == nil {
		return TableView{}, errors.New("view table: repository is nil")
	}

	rows, err := repo.List(ctx)
	if errors.Is(err, ports.ErrTableNotFound) {
		return TableView{Exists: false}, nil
	}
	if err != nil {
		return TableView{}, fmt.Errorf("view table: %w", err)
	}

	return TableView{Exists: true, Rows: rows}, nil
}

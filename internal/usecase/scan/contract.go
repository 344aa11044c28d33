package scan

import (
	"context"

	"github.com/tonyispowerful/pdf-process/internal/domain"
)

// DocumentStore is the read-only corpus access contract. The store is
// an external collaborator; fetched documents are never mutated.
type DocumentStore interface {
	FetchAll(ctx context.Context) ([]domain.Document, error)
	FetchByType(ctx context.Context, t domain.DocType) ([]domain.Document, error)
	FetchByName(ctx context.Context, name string) (domain.Document, error)
	FetchByCompany(ctx context.Context, company string) ([]domain.Document, error)
}

// Comparer scores one pair of texts.
type Comparer interface {
	Compare(ctx context.Context, textA, textB string) domain.Comparison
}

package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/tonyispowerful/pdf-process/internal/db"
	"github.com/tonyispowerful/pdf-process/internal/domain"
)

const keyPrefix = "doc:"

// store is the consumer interface for documents (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Has(ctx context.Context, key string) (bool, error)
	IteratePrefix(ctx context.Context, prefix string, fn func(key string, value []byte) error) error
}

// Repo implements the scanner's DocumentStore contract over a KV store.
// Documents are keyed by file name; prefix iteration yields them in a
// stable order, which the scanner relies on for deterministic pairing.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put stores a document, replacing any previous version under the same
// file name. The ingestion pipeline calls this; scans never do.
func (r *Repo) Put(ctx context.Context, doc domain.Document) error {
	if doc.FileName == "" {
		return fmt.Errorf("document file name is required")
	}
	data, err := marshalDoc(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", doc.FileName, err)
	}
	if err := r.store.Set(ctx, docKey(doc.FileName), data); err != nil {
		return fmt.Errorf("store document %s: %w", doc.FileName, err)
	}
	return nil
}

// Exists reports whether a document with the file name is stored.
func (r *Repo) Exists(ctx context.Context, fileName string) (bool, error) {
	ok, err := r.store.Has(ctx, docKey(fileName))
	if err != nil {
		return false, fmt.Errorf("check document %s: %w", fileName, err)
	}
	return ok, nil
}

// FetchAll returns every stored document in stable key order.
func (r *Repo) FetchAll(ctx context.Context) ([]domain.Document, error) {
	return r.fetchWhere(ctx, func(domain.Document) bool { return true })
}

// FetchByType returns documents of the given type.
func (r *Repo) FetchByType(ctx context.Context, t domain.DocType) ([]domain.Document, error) {
	return r.fetchWhere(ctx, func(d domain.Document) bool { return d.Type == t })
}

// FetchByCompany returns documents submitted by the given company.
func (r *Repo) FetchByCompany(ctx context.Context, company string) ([]domain.Document, error) {
	return r.fetchWhere(ctx, func(d domain.Document) bool { return d.Company == company })
}

// FetchByName returns one document or domain.ErrDocumentNotFound.
func (r *Repo) FetchByName(ctx context.Context, fileName string) (domain.Document, error) {
	raw, err := r.store.Get(ctx, docKey(fileName))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Document{}, fmt.Errorf("%s: %w", fileName, domain.ErrDocumentNotFound)
		}
		return domain.Document{}, fmt.Errorf("get document %s: %w", fileName, err)
	}
	doc, err := unmarshalDoc(raw)
	if err != nil {
		return domain.Document{}, fmt.Errorf("decode document %s: %w", fileName, err)
	}
	return doc, nil
}

func (r *Repo) fetchWhere(ctx context.Context, keep func(domain.Document) bool) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.store.IteratePrefix(ctx, keyPrefix, func(key string, value []byte) error {
		doc, err := unmarshalDoc(value)
		if err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		if keep(doc) {
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	return docs, nil
}

func docKey(fileName string) string {
	return keyPrefix + fileName
}

package domain

import "errors"

var (
	// ErrDocumentNotFound signals a named lookup that matched nothing.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrEmptyContent signals a located document with no usable text.
	ErrEmptyContent = errors.New("document content is empty")
	// ErrInsufficientData signals a corpus too small to compare.
	ErrInsufficientData = errors.New("not enough documents to compare")
	// ErrUnknownMetric signals a metric name with no registered implementation.
	ErrUnknownMetric = errors.New("unknown metric")
	// ErrInvalidWeight signals a negative metric weight.
	ErrInvalidWeight = errors.New("invalid metric weight")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrPersist signals a report-sink write failure. The computed
	// report remains usable by the caller.
	ErrPersist = errors.New("report persist failed")
)

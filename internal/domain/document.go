package domain

// DocType classifies a bid document by its role in the tender process.
type DocType string

const (
	// TypeBidNotice is a tender announcement published by the purchaser.
	TypeBidNotice DocType = "bid-notice"
	// TypeBidResponse is a submission from a bidding company.
	TypeBidResponse DocType = "bid-response"
	// TypeUnspecified marks documents whose role could not be determined.
	TypeUnspecified DocType = "unspecified"
)

// ParseDocType maps a stored type string to a DocType, defaulting to
// TypeUnspecified for unknown values.
func ParseDocType(s string) DocType {
	switch DocType(s) {
	case TypeBidNotice, TypeBidResponse:
		return DocType(s)
	default:
		return TypeUnspecified
	}
}

// Document is one extracted bid document. The engine treats documents as
// immutable, read-only inputs for the duration of a scan; the file name
// is the identity within a corpus.
type Document struct {
	FileName  string
	Type      DocType
	Text      string
	Company   string // submitting company, optional
	Purchaser string // purchaser name, optional
}

// HasText reports whether the document carries usable extracted text.
func (d Document) HasText() bool { return d.Text != "" }

// CompanyLabel returns the best available company attribution: the
// purchaser for notices, otherwise the submitting company.
func (d Document) CompanyLabel() string {
	if d.Purchaser != "" {
		return d.Purchaser
	}
	return d.Company
}

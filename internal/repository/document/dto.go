package document

import (
	"encoding/json"

	"github.com/tonyispowerful/pdf-process/internal/domain"
)

// docDTO is the stored JSON shape. The extraction pipeline and the
// engine share this one canonical representation; there are no
// alternate content field names to branch on.
type docDTO struct {
	FileName  string `json:"file_name"`
	FileType  string `json:"file_type"`
	Text      string `json:"text"`
	Company   string `json:"company,omitempty"`
	Purchaser string `json:"purchaser,omitempty"`
}

func marshalDoc(doc domain.Document) ([]byte, error) {
	return json.Marshal(docDTO{
		FileName:  doc.FileName,
		FileType:  string(doc.Type),
		Text:      doc.Text,
		Company:   doc.Company,
		Purchaser: doc.Purchaser,
	})
}

func unmarshalDoc(data []byte) (domain.Document, error) {
	var dto docDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.Document{}, err
	}
	return domain.Document{
		FileName:  dto.FileName,
		Type:      domain.ParseDocType(dto.FileType),
		Text:      dto.Text,
		Company:   dto.Company,
		Purchaser: dto.Purchaser,
	}, nil
}

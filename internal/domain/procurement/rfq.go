package procurement

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const ManualEntryPrefix = "MANUAL ENTRY: "

type RFQ struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	RawText    string         `gorm:"column:raw_text;type:text;not null" json:"raw_text"`
	ParsedJSON datatypes.JSON `gorm:"column:parsed_json;type:jsonb;not null" json:"parsed_json"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (RFQ) TableName() string { return "rfqs" }

func (r RFQ) Document() (RFQDocument, error) {
	var doc RFQDocument
	if len(r.ParsedJSON) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(r.ParsedJSON, &doc); err != nil {
		return RFQDocument{}, fmt.Errorf("decode rfq %d document: %w", r.ID, err)
	}
	return doc, nil
}

func (r *RFQ) SetDocument(doc RFQDocument) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	r.ParsedJSON = datatypes.JSON(b)
	return nil
}

// DisplayTitle is the label shown in RFQ pickers: "<title> (#<id> - <date>)"
// when the document carries a title, "RFQ #<id> - <date time>" otherwise.
func (r RFQ) DisplayTitle() string {
	doc, err := r.Document()
	if err == nil && strings.TrimSpace(doc.Title) != "" {
		return fmt.Sprintf("%s (#%d - %s)", strings.TrimSpace(doc.Title), r.ID, r.CreatedAt.Format("2006-01-02"))
	}
	return fmt.Sprintf("RFQ #%d - %s", r.ID, r.CreatedAt.Format("2006-01-02 15:04"))
}

package procurement

import "time"

// EmailDraft is the reply email currently being worked on for an RFQ.
type EmailDraft struct {
	RFQID        uint      `json:"rfq_id"`
	Body         string    `json:"body"`
	Instructions string    `json:"instructions,omitempty"`
	Revision     int       `json:"revision"`
	UpdatedAt    time.Time `json:"updated_at"`
}

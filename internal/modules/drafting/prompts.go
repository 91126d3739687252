package drafting

import (
	"fmt"
	"strings"

	"github.com/yungbote/procuremind-backend/internal/modules/bids"
)

const draftPromptTemplate = `Act as a professional procurement officer. Write a reply to the email below, attaching the following commercial quote/proposal.

ORIGINAL EMAIL:
%s

OUR QUOTE DATA:
%s

USER SPECIFIC INSTRUCTIONS:
%s

INSTRUCTIONS:
1. Be polite and professional.
2. Acknowledge the original request.
3. Structure the email body with these sections:
   - 1. Commercial Offer: summarize the proposal and total, and refer to the attachment.
   - 2. Scope & Terms: outline delivery, payment or validity terms (use standard defaults or the user context).
   - 3. Remarks (optional): any extra notes.
4. Do NOT include the full quote table.
5. Write in PLAIN TEXT (no markdown tables).`

const refinePromptTemplate = `Act as a professional procurement officer.
Refine the following email draft based strictly on the user's feedback.

CURRENT DRAFT:
%s

USER FEEDBACK / INSTRUCTIONS:
%s

INSTRUCTIONS:
1. Rewrite the email incorporating the feedback.
2. Keep the structure: Commercial Offer, Scope & Terms, Remarks.
3. Output ONLY the new email body (plain text).`

func draftPrompt(original, quoteTable, instructions string) string {
	return fmt.Sprintf(draftPromptTemplate, original, quoteTable, instructions)
}

func refinePrompt(current, feedback string) string {
	return fmt.Sprintf(refinePromptTemplate, current, feedback)
}

// markdownTable renders the recap for the model, in export column order.
func markdownTable(recap bids.Recap) string {
	var b strings.Builder
	writeRow(&b, bids.Columns)
	sep := make([]string, len(bids.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&b, sep)
	for _, r := range recap.Rows {
		writeRow(&b, r.Record())
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		c = strings.ReplaceAll(c, "|", `\|`)
		c = strings.Join(strings.Fields(c), " ")
		b.WriteString(" ")
		b.WriteString(c)
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

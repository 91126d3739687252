package rfqs

import "fmt"

const parsePromptTemplate = `Act as a procurement expert. Parse the following RFQ email text into a structured JSON format.
1. Generate a short, descriptive TITLE for this RFQ (for example "RFQ from [Company] - [Date]" or "Request for [Item Categories]").
2. Extract each item with ALL available details: item code, quantity, unit of measure (UOM), name, description, brand and specs.

RFQ TEXT:
%s

RESPONSE FORMAT (JSON ONLY):
{
  "title": "string",
  "items": [
    {
      "item_code": "string (or null if missing)",
      "description": "string (full description)",
      "quantity": "number (or null)",
      "uom": "string (e.g. Each, Pail, Box)",
      "name": "string (short name)",
      "brand": "string",
      "specs": "string"
    }
  ]
}`

func parsePrompt(text string) string {
	return fmt.Sprintf(parsePromptTemplate, text)
}

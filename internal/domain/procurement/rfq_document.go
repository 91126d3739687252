package procurement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Field is one JSON member kept verbatim.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Fields keeps unknown members of a JSON object in input order.
type Fields []Field

func (f Fields) Get(key string) (json.RawMessage, bool) {
	for _, fld := range f {
		if fld.Key == key {
			return fld.Value, true
		}
	}
	return nil, false
}

func (f *Fields) Set(key string, v json.RawMessage) {
	for i := range *f {
		if (*f)[i].Key == key {
			(*f)[i].Value = v
			return
		}
	}
	*f = append(*f, Field{Key: key, Value: v})
}

// NullString tells an absent key from an explicit null from a value.
type NullString struct {
	String  string
	Valid   bool
	Present bool

	// literal JSON for non-string scalars, re-emitted as long as String is untouched
	lit json.RawMessage
}

func Str(s string) NullString {
	return NullString{String: s, Valid: true, Present: true}
}

// Text returns the value, or "" when absent or null.
func (n NullString) Text() string {
	if n.Valid {
		return n.String
	}
	return ""
}

func (n NullString) raw() (json.RawMessage, error) {
	if !n.Valid {
		return json.RawMessage("null"), nil
	}
	if len(n.lit) > 0 && string(n.lit) == n.String {
		return n.lit, nil
	}
	return json.Marshal(n.String)
}

func decodeText(raw json.RawMessage) NullString {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return NullString{Present: true}
	}
	if t[0] == '"' {
		var s string
		if err := json.Unmarshal(t, &s); err == nil {
			return Str(s)
		}
	}
	lit := append(json.RawMessage(nil), t...)
	return NullString{String: string(lit), Valid: true, Present: true, lit: lit}
}

// Quantity keeps the quantity token exactly as received.
type Quantity struct {
	raw json.RawMessage
}

func QuantityOf(d decimal.Decimal) Quantity {
	return Quantity{raw: json.RawMessage(d.String())}
}

func QuantityFromRaw(raw json.RawMessage) Quantity {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 {
		return Quantity{}
	}
	return Quantity{raw: append(json.RawMessage(nil), t...)}
}

func (q Quantity) Present() bool { return len(q.raw) > 0 }

func (q Quantity) Raw() json.RawMessage { return q.raw }

// Value parses numbers and numeric strings. Null, absent and anything else is not ok.
func (q Quantity) Value() (decimal.Decimal, bool) {
	if len(q.raw) == 0 || bytes.Equal(q.raw, []byte("null")) {
		return decimal.Zero, false
	}
	s := string(q.raw)
	if q.raw[0] == '"' {
		if err := json.Unmarshal(q.raw, &s); err != nil {
			return decimal.Zero, false
		}
		s = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// String is the display form of the token.
func (q Quantity) String() string {
	if len(q.raw) == 0 || bytes.Equal(q.raw, []byte("null")) {
		return ""
	}
	if q.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(q.raw, &s); err == nil {
			return s
		}
	}
	return string(q.raw)
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if len(q.raw) == 0 {
		return []byte("null"), nil
	}
	return q.raw, nil
}

func (q *Quantity) UnmarshalJSON(b []byte) error {
	if !json.Valid(b) {
		return fmt.Errorf("invalid quantity token")
	}
	*q = QuantityFromRaw(b)
	return nil
}

// RFQItem is one requested line. Items have no identity beyond their position.
type RFQItem struct {
	ItemCode    NullString
	Description NullString
	Quantity    Quantity
	UOM         NullString
	Name        NullString
	Brand       NullString
	Specs       NullString
	Extra       Fields
}

// Column returns the text of a known column by its JSON key.
func (it RFQItem) Column(key string) (string, bool) {
	switch key {
	case "item_code":
		return it.ItemCode.Text(), true
	case "description":
		return it.Description.Text(), true
	case "quantity":
		return it.Quantity.String(), true
	case "uom":
		return it.UOM.Text(), true
	case "name":
		return it.Name.Text(), true
	case "brand":
		return it.Brand.Text(), true
	case "specs":
		return it.Specs.Text(), true
	}
	return "", false
}

func (it *RFQItem) text(key string) *NullString {
	switch key {
	case "item_code":
		return &it.ItemCode
	case "description":
		return &it.Description
	case "uom":
		return &it.UOM
	case "name":
		return &it.Name
	case "brand":
		return &it.Brand
	case "specs":
		return &it.Specs
	}
	return nil
}

func (it *RFQItem) UnmarshalJSON(b []byte) error {
	*it = RFQItem{}
	return walkObject(b, func(key string, val json.RawMessage) error {
		if key == "quantity" {
			it.Quantity = QuantityFromRaw(val)
			return nil
		}
		if dst := it.text(key); dst != nil {
			*dst = decodeText(val)
			return nil
		}
		it.Extra.Set(key, val)
		return nil
	})
}

func (it RFQItem) MarshalJSON() ([]byte, error) {
	w := objectWriter{}
	for _, k := range []string{"item_code", "description", "quantity", "uom", "name", "brand", "specs"} {
		if k == "quantity" {
			if it.Quantity.Present() {
				w.member(k, it.Quantity.raw)
			}
			continue
		}
		ns := it.text(k)
		if !ns.Present {
			continue
		}
		raw, err := ns.raw()
		if err != nil {
			return nil, err
		}
		w.member(k, raw)
	}
	for _, f := range it.Extra {
		w.member(f.Key, f.Value)
	}
	return w.close()
}

// RFQDocument is the structured form of a request for quotation.
type RFQDocument struct {
	Title string
	Items []RFQItem
	Extra Fields
}

func (d *RFQDocument) UnmarshalJSON(b []byte) error {
	*d = RFQDocument{}
	return walkObject(b, func(key string, val json.RawMessage) error {
		switch key {
		case "title":
			d.Title = decodeText(val).Text()
		case "items":
			if bytes.Equal(bytes.TrimSpace(val), []byte("null")) {
				d.Items = nil
				return nil
			}
			var items []RFQItem
			if err := json.Unmarshal(val, &items); err != nil {
				return fmt.Errorf("items: %w", err)
			}
			d.Items = items
		default:
			d.Extra.Set(key, val)
		}
		return nil
	})
}

func (d RFQDocument) MarshalJSON() ([]byte, error) {
	w := objectWriter{}
	title, err := json.Marshal(d.Title)
	if err != nil {
		return nil, err
	}
	w.member("title", title)
	items := d.Items
	if items == nil {
		items = []RFQItem{}
	}
	rawItems, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	w.member("items", rawItems)
	for _, f := range d.Extra {
		w.member(f.Key, f.Value)
	}
	return w.close()
}

// walkObject calls fn for each member of a JSON object in input order.
func walkObject(b []byte, fn func(key string, val json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key")
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := fn(key, val); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

type objectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func (w *objectWriter) member(key string, val json.RawMessage) {
	if w.err != nil {
		return
	}
	if w.n == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}
	k, err := json.Marshal(key)
	if err != nil {
		w.err = err
		return
	}
	w.buf.Write(k)
	w.buf.WriteByte(':')
	if len(val) == 0 {
		val = json.RawMessage("null")
	}
	w.buf.Write(val)
	w.n++
}

func (w *objectWriter) close() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.n == 0 {
		return []byte("{}"), nil
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}

package rfqs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/yungbote/procuremind-backend/internal/data/repos/catalog"
	types "github.com/yungbote/procuremind-backend/internal/domain"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
	"github.com/yungbote/procuremind-backend/internal/platform/llm"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 100
)

type UsecasesDeps struct {
	Store catalog.Store
	LLM   llm.Provider
	Log   *logger.Logger
}

type Usecases struct {
	deps UsecasesDeps
	log  *logger.Logger
	now  func() time.Time
}

func New(deps UsecasesDeps) *Usecases {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &Usecases{deps: deps, log: deps.Log.With("service", "RFQUsecases"), now: time.Now}
}

// ParseText asks the language model to structure a free-text RFQ. Nothing is stored.
func (u *Usecases) ParseText(ctx context.Context, text string) (types.RFQDocument, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.RFQDocument{}, apierr.Validation("rfq text is required")
	}
	out, err := u.deps.LLM.Generate(ctx, parsePrompt(text))
	if err != nil {
		return types.RFQDocument{}, err
	}

	var doc types.RFQDocument
	if err := json.Unmarshal([]byte(llm.StripCodeFence(out)), &doc); err != nil {
		u.log.Warn("RFQ parse output is not a document", "error", err.Error(), "output_len", len(out))
		return types.RFQDocument{}, apierr.Provider(err)
	}
	if len(doc.Items) == 0 {
		return types.RFQDocument{}, apierr.Provider(errNoItems)
	}
	if strings.TrimSpace(doc.Title) == "" {
		doc.Title = "RFQ - " + u.now().Format("2006-01-02")
	}
	u.log.Info("RFQ parsed", "items", len(doc.Items))
	return doc, nil
}

var errNoItems = errors.New("model returned no rfq items")

// SaveParsed stores a parsed document together with the text it came from.
// A non-empty title replaces the parsed one.
func (u *Usecases) SaveParsed(ctx context.Context, rawText string, doc types.RFQDocument, title string) (*types.RFQ, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, apierr.Validation("raw_text is required")
	}
	if t := strings.TrimSpace(title); t != "" {
		doc.Title = t
	}
	return u.create(ctx, rawText, doc)
}

// SaveManual stores a hand-entered RFQ. Blank rows are dropped; at least one item must remain.
func (u *Usecases) SaveManual(ctx context.Context, title string, items []types.RFQItem) (*types.RFQ, error) {
	kept := nonBlank(items)
	if len(kept) == 0 {
		return nil, apierr.Validation("please add at least one item")
	}
	title = strings.TrimSpace(title)
	doc := types.RFQDocument{Title: title, Items: kept}
	return u.create(ctx, types.ManualEntryPrefix+title, doc)
}

func (u *Usecases) create(ctx context.Context, rawText string, doc types.RFQDocument) (*types.RFQ, error) {
	r := &types.RFQ{RawText: rawText}
	if err := r.SetDocument(doc); err != nil {
		return nil, apierr.Validation("rfq document: %v", err)
	}
	created, err := u.deps.Store.CreateRFQ(ctx, r)
	if err != nil {
		return nil, err
	}
	u.log.Info("RFQ saved", "rfq_id", created.ID, "items", len(doc.Items))
	return created, nil
}

type UpdateInput struct {
	ID    uint
	Title *string
	Items []types.RFQItem
}

// Update replaces the title and item list of a stored document. Other
// top-level keys survive. Concurrent updates are last-write-wins.
func (u *Usecases) Update(ctx context.Context, in UpdateInput) (*types.RFQ, error) {
	current, err := u.deps.Store.GetRFQ(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	doc, err := current.Document()
	if err != nil {
		return nil, apierr.Validation("rfq %d has an unreadable document: %v", in.ID, err)
	}
	if in.Title != nil {
		doc.Title = strings.TrimSpace(*in.Title)
	}
	if in.Items != nil {
		doc.Items = nonBlank(in.Items)
	}
	return u.deps.Store.UpdateRFQ(ctx, in.ID, doc)
}

func (u *Usecases) Delete(ctx context.Context, id uint) error {
	if err := u.deps.Store.DeleteRFQ(ctx, id); err != nil {
		return err
	}
	u.log.Info("RFQ deleted", "rfq_id", id)
	return nil
}

func (u *Usecases) Get(ctx context.Context, id uint) (*types.RFQ, error) {
	return u.deps.Store.GetRFQ(ctx, id)
}

// List returns the newest RFQs. limit is clamped to [1, MaxListLimit].
func (u *Usecases) List(ctx context.Context, limit int) ([]*types.RFQ, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return u.deps.Store.ListRFQs(ctx, limit)
}

func nonBlank(items []types.RFQItem) []types.RFQItem {
	out := make([]types.RFQItem, 0, len(items))
	for _, it := range items {
		if isBlank(it) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func isBlank(it types.RFQItem) bool {
	for _, key := range []string{"item_code", "description", "quantity", "uom", "name", "brand", "specs"} {
		if v, _ := it.Column(key); strings.TrimSpace(v) != "" {
			return false
		}
	}
	for _, f := range it.Extra {
		v := bytes.TrimSpace(f.Value)
		if len(v) == 0 || string(v) == "null" || string(v) == `""` {
			continue
		}
		return false
	}
	return true
}

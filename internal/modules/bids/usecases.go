package bids

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/procuremind-backend/internal/data/repos/catalog"
	types "github.com/yungbote/procuremind-backend/internal/domain"
	"github.com/yungbote/procuremind-backend/internal/observability"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

const defaultMatchConcurrency = 4

type UsecasesDeps struct {
	Store catalog.Store
	Log   *logger.Logger

	// Archive is optional; exports are only returned to the caller without it.
	Archive Archiver
	// MatchConcurrency bounds the per-item lookups of one finalization.
	MatchConcurrency int
}

type Usecases struct {
	deps    UsecasesDeps
	log     *logger.Logger
	matcher *Matcher
}

func New(deps UsecasesDeps) *Usecases {
	if deps.MatchConcurrency <= 0 {
		deps.MatchConcurrency = defaultMatchConcurrency
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &Usecases{
		deps:    deps,
		log:     deps.Log.With("service", "BidsUsecases"),
		matcher: NewMatcher(deps.Store),
	}
}

type FinalizeInput struct {
	RFQID      uint
	Selections Selections
	// AutoPick selects the cheapest quote for every item left unselected.
	AutoPick bool
}

type FinalizeOutput struct {
	RFQID      uint          `json:"rfq_id"`
	Title      string        `json:"title"`
	Selections Selections    `json:"selections"`
	Matches    []MatchResult `json:"matches"`
	Recap      Recap         `json:"recap"`
}

// Finalize loads the RFQ, matches every item and builds the recap.
func (u *Usecases) Finalize(ctx context.Context, in FinalizeInput) (out *FinalizeOutput, err error) {
	ctx, span := observability.StartSpan(ctx, "bids.finalize",
		attribute.Int64("rfq.id", int64(in.RFQID)),
		attribute.Bool("bids.auto_pick", in.AutoPick),
	)
	defer func() { observability.EndSpan(span, err) }()
	start := time.Now()

	rfq, doc, err := u.loadDocument(ctx, in.RFQID)
	if err != nil {
		return nil, err
	}
	matches, err := u.matchItems(ctx, doc.Items)
	if err != nil {
		return nil, err
	}

	sel := in.Selections
	if sel == nil {
		sel = Selections{}
	}
	if in.AutoPick {
		sel = AutoPickCheapest(matches, sel)
	}
	recap, err := Build(doc, matches, sel)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("rfq.items", len(doc.Items)))

	u.log.Info("RFQ finalized",
		"rfq_id", rfq.ID,
		"items", len(doc.Items),
		"mixed_currencies", recap.MixedCurrencies,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &FinalizeOutput{
		RFQID:      rfq.ID,
		Title:      rfq.DisplayTitle(),
		Selections: sel,
		Matches:    matches,
		Recap:      recap,
	}, nil
}

type AnalyzeInput struct {
	RFQID     uint
	ItemIndex int
}

// AnalyzeItem compares the quotes available for one item.
func (u *Usecases) AnalyzeItem(ctx context.Context, in AnalyzeInput) (out *ItemAnalysis, err error) {
	ctx, span := observability.StartSpan(ctx, "bids.analyze_item",
		attribute.Int64("rfq.id", int64(in.RFQID)),
		attribute.Int("rfq.item_index", in.ItemIndex),
	)
	defer func() { observability.EndSpan(span, err) }()

	_, doc, err := u.loadDocument(ctx, in.RFQID)
	if err != nil {
		return nil, err
	}
	if in.ItemIndex < 0 || in.ItemIndex >= len(doc.Items) {
		return nil, apierr.NotFound("item %d not found in rfq %d", in.ItemIndex, in.RFQID)
	}
	item := doc.Items[in.ItemIndex]
	m, err := u.matcher.FindQuotesForItem(ctx, item.Name.Text())
	if err != nil {
		return nil, err
	}
	a := Analyze(in.ItemIndex, item, m)
	return &a, nil
}

type FilterInput struct {
	RFQID  uint
	Column string
	Value  string
}

type FilterOutput struct {
	Indices []int `json:"indices"`
	// Values are the choices for Column; empty when no column is given.
	Values []string `json:"values"`
}

// FilterItems narrows the item picker of an RFQ by one column.
func (u *Usecases) FilterItems(ctx context.Context, in FilterInput) (*FilterOutput, error) {
	_, doc, err := u.loadDocument(ctx, in.RFQID)
	if err != nil {
		return nil, err
	}
	column := strings.TrimSpace(in.Column)
	idx, err := FilterItems(doc.Items, column, in.Value)
	if err != nil {
		return nil, err
	}
	out := &FilterOutput{Indices: idx, Values: []string{}}
	if column != "" {
		if out.Values, err = FilterValues(doc.Items, column); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type ExportInput struct {
	FinalizeInput
	Format string
}

type ExportOutput struct {
	FileName    string
	ContentType string
	Body        []byte
	// ArchivedAt is empty when no archive is configured or archiving failed.
	ArchivedAt string
}

// Export finalizes the RFQ and renders the recap as a downloadable file.
func (u *Usecases) Export(ctx context.Context, in ExportInput) (*ExportOutput, error) {
	format, err := ParseFormat(in.Format)
	if err != nil {
		return nil, err
	}
	fin, err := u.Finalize(ctx, in.FinalizeInput)
	if err != nil {
		return nil, err
	}
	body, err := Render(fin.Recap, format)
	if err != nil {
		return nil, err
	}
	out := &ExportOutput{
		FileName:    ExportFileName(fin.RFQID, format),
		ContentType: ContentType(format),
		Body:        body,
	}
	if u.deps.Archive != nil {
		loc, aerr := u.deps.Archive.Put(ctx, out.FileName, out.ContentType, body)
		if aerr != nil {
			u.log.Warn("Export archive failed", "rfq_id", fin.RFQID, "file", out.FileName, "error", aerr.Error())
		} else {
			out.ArchivedAt = loc
		}
	}
	return out, nil
}

func (u *Usecases) loadDocument(ctx context.Context, rfqID uint) (*types.RFQ, types.RFQDocument, error) {
	rfq, err := u.deps.Store.GetRFQ(ctx, rfqID)
	if err != nil {
		return nil, types.RFQDocument{}, err
	}
	doc, err := rfq.Document()
	if err != nil {
		return nil, types.RFQDocument{}, apierr.Validation("rfq %d has an unreadable document: %v", rfqID, err)
	}
	return rfq, doc, nil
}

// matchItems looks up every item concurrently; results keep item order.
func (u *Usecases) matchItems(ctx context.Context, items []types.RFQItem) ([]MatchResult, error) {
	out := make([]MatchResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.deps.MatchConcurrency)
	for i := range items {
		i := i
		name := items[i].Name.Text()
		g.Go(func() error {
			m, err := u.matcher.FindQuotesForItem(gctx, name)
			if err != nil {
				return err
			}
			// cheapest first, ties in quote id order
			m.Candidates = Rank(m.Candidates)
			out[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

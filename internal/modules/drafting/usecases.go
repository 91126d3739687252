package drafting

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/procuremind-backend/internal/data/repos/catalog"
	types "github.com/yungbote/procuremind-backend/internal/domain"
	"github.com/yungbote/procuremind-backend/internal/modules/bids"
	"github.com/yungbote/procuremind-backend/internal/observability"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
	"github.com/yungbote/procuremind-backend/internal/platform/llm"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

type Finalizer interface {
	Finalize(ctx context.Context, in bids.FinalizeInput) (*bids.FinalizeOutput, error)
}

type UsecasesDeps struct {
	Store  catalog.Store
	Bids   Finalizer
	LLM    llm.Provider
	Drafts DraftStore
	Log    *logger.Logger
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
	if deps.Drafts == nil {
		deps.Drafts = NewMemoryStore()
	}
	return &Usecases{deps: deps, log: deps.Log.With("service", "DraftingUsecases"), now: time.Now}
}

type DraftInput struct {
	RFQID        uint
	Instructions string
	Selections   bids.Selections
	AutoPick     bool
}

// Draft writes a reply email for the finalized recap of an RFQ and makes it
// the current draft.
func (u *Usecases) Draft(ctx context.Context, in DraftInput) (out *types.EmailDraft, err error) {
	ctx, span := observability.StartSpan(ctx, "drafting.draft", attribute.Int64("rfq.id", int64(in.RFQID)))
	defer func() { observability.EndSpan(span, err) }()

	rfq, err := u.deps.Store.GetRFQ(ctx, in.RFQID)
	if err != nil {
		return nil, err
	}
	fin, err := u.deps.Bids.Finalize(ctx, bids.FinalizeInput{RFQID: in.RFQID, Selections: in.Selections, AutoPick: in.AutoPick})
	if err != nil {
		return nil, err
	}

	instructions := strings.TrimSpace(in.Instructions)
	body, err := u.deps.LLM.Generate(ctx, draftPrompt(rfq.RawText, markdownTable(fin.Recap), instructions))
	if err != nil {
		return nil, err
	}

	d := types.EmailDraft{
		RFQID:        in.RFQID,
		Body:         strings.TrimSpace(body),
		Instructions: instructions,
		Revision:     1,
		UpdatedAt:    u.now().UTC(),
	}
	if err := u.save(ctx, d); err != nil {
		return nil, err
	}
	u.log.Info("Email drafted", "rfq_id", in.RFQID, "body_len", len(d.Body))
	return &d, nil
}

// Refine rewrites the current draft following the feedback.
func (u *Usecases) Refine(ctx context.Context, rfqID uint, feedback string) (out *types.EmailDraft, err error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, apierr.Validation("please enter some feedback instructions first")
	}
	ctx, span := observability.StartSpan(ctx, "drafting.refine", attribute.Int64("rfq.id", int64(rfqID)))
	defer func() { observability.EndSpan(span, err) }()

	cur, err := u.Current(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	body, err := u.deps.LLM.Generate(ctx, refinePrompt(cur.Body, feedback))
	if err != nil {
		return nil, err
	}

	next := *cur
	next.Body = strings.TrimSpace(body)
	next.Revision++
	next.UpdatedAt = u.now().UTC()
	if err := u.save(ctx, next); err != nil {
		return nil, err
	}
	u.log.Info("Email refined", "rfq_id", rfqID, "revision", next.Revision)
	return &next, nil
}

// Current returns the draft last produced for the RFQ.
func (u *Usecases) Current(ctx context.Context, rfqID uint) (*types.EmailDraft, error) {
	d, err := u.deps.Drafts.Get(ctx, rfqID)
	if err != nil {
		return nil, u.storeErr(err)
	}
	if d == nil {
		return nil, apierr.NotFound("no draft for rfq %d", rfqID)
	}
	return d, nil
}

func (u *Usecases) save(ctx context.Context, d types.EmailDraft) error {
	if err := u.deps.Drafts.Put(ctx, d); err != nil {
		return u.storeErr(err)
	}
	return nil
}

func (u *Usecases) storeErr(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if _, ok := apierr.As(err); ok {
		return err
	}
	return apierr.StoreUnavailable(err)
}

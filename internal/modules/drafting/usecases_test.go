package drafting

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yungbote/procuremind-backend/internal/data/repos/catalog"
	types "github.com/yungbote/procuremind-backend/internal/domain"
	"github.com/yungbote/procuremind-backend/internal/modules/bids"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
)

type rfqStore struct {
	catalog.Store
	rfq *types.RFQ
}

func (s rfqStore) GetRFQ(_ context.Context, id uint) (*types.RFQ, error) {
	if s.rfq == nil || s.rfq.ID != id {
		return nil, apierr.NotFound("rfq %d not found", id)
	}
	return s.rfq, nil
}

type fixedFinalizer struct {
	got bids.FinalizeInput
}

func (f *fixedFinalizer) Finalize(_ context.Context, in bids.FinalizeInput) (*bids.FinalizeOutput, error) {
	f.got = in
	return &bids.FinalizeOutput{RFQID: in.RFQID, Recap: bids.Recap{Rows: []bids.Row{{
		ItemCode: "A|1", Name: "Pump", Qty: "2", UOM: "-", Specs: "-", Brand: "-", Description: "-",
		Winner: "Acme", Priced: true, Currency: "USD",
		UnitPrice: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(20),
	}}}}, nil
}

type scriptedLLM struct {
	prompts []string
	replies []string
	err     error
}

func (s *scriptedLLM) Embed(context.Context, string) ([]float32, error) { return nil, nil }

func (s *scriptedLLM) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func newTestUsecases(gen *scriptedLLM, fin *fixedFinalizer) *Usecases {
	return New(UsecasesDeps{
		Store: rfqStore{rfq: &types.RFQ{ID: 3, RawText: "Please quote 2 pumps"}},
		Bids:  fin,
		LLM:   gen,
	})
}

func TestDraftThenRefine(t *testing.T) {
	gen := &scriptedLLM{replies: []string{"  Dear buyer, offer attached.  ", "Dear buyer, formal offer attached."}}
	fin := &fixedFinalizer{}
	u := newTestUsecases(gen, fin)
	ctx := context.Background()

	d, err := u.Draft(ctx, DraftInput{RFQID: 3, Instructions: "5% discount", AutoPick: true})
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if d.Body != "Dear buyer, offer attached." || d.Revision != 1 {
		t.Fatalf("draft: %+v", d)
	}
	if !fin.got.AutoPick {
		t.Fatalf("auto pick not forwarded")
	}
	p := gen.prompts[0]
	for _, want := range []string{"Please quote 2 pumps", "5% discount", "| A\\|1 | Pump |", "| Item Code | Name | Qty |"} {
		if !strings.Contains(p, want) {
			t.Fatalf("draft prompt missing %q:\n%s", want, p)
		}
	}

	r, err := u.Refine(ctx, 3, "more formal")
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if r.Revision != 2 || r.Body != "Dear buyer, formal offer attached." {
		t.Fatalf("refined: %+v", r)
	}
	if !strings.Contains(gen.prompts[1], "Dear buyer, offer attached.") || !strings.Contains(gen.prompts[1], "more formal") {
		t.Fatalf("refine prompt: %s", gen.prompts[1])
	}

	cur, err := u.Current(ctx, 3)
	if err != nil || cur.Revision != 2 {
		t.Fatalf("current: %+v %v", cur, err)
	}
}

func TestRefineRequiresFeedbackAndDraft(t *testing.T) {
	u := newTestUsecases(&scriptedLLM{}, &fixedFinalizer{})
	ctx := context.Background()

	if _, err := u.Refine(ctx, 3, "   "); !errors.Is(err, apierr.ErrValidation) {
		t.Fatalf("empty feedback: want validation error, got %v", err)
	}
	if _, err := u.Refine(ctx, 3, "shorter"); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("no draft: want not found, got %v", err)
	}
}

func TestDraftProviderFailureKeepsPreviousDraft(t *testing.T) {
	gen := &scriptedLLM{replies: []string{"first"}}
	u := newTestUsecases(gen, &fixedFinalizer{})
	ctx := context.Background()
	if _, err := u.Draft(ctx, DraftInput{RFQID: 3}); err != nil {
		t.Fatalf("Draft: %v", err)
	}

	gen.err = apierr.Provider(errors.New("timeout"))
	if _, err := u.Refine(ctx, 3, "again"); !errors.Is(err, apierr.ErrProvider) {
		t.Fatalf("want provider error, got %v", err)
	}
	cur, _ := u.Current(ctx, 3)
	if cur.Body != "first" {
		t.Fatalf("draft changed after failure: %q", cur.Body)
	}
}

func TestDraftUnknownRFQ(t *testing.T) {
	u := newTestUsecases(&scriptedLLM{}, &fixedFinalizer{})
	if _, err := u.Draft(context.Background(), DraftInput{RFQID: 99}); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

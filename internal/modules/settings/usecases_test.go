package settings

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

type buildRecorder struct {
	builds atomic.Int32
	closes atomic.Int32
	fail   error
	last   Settings
}

func (b *buildRecorder) build(_ context.Context, s Settings) (*Runtime, error) {
	if b.fail != nil {
		return nil, b.fail
	}
	b.builds.Add(1)
	b.last = s
	return &Runtime{Close: func() error {
		b.closes.Add(1)
		return nil
	}}, nil
}

func newTestUsecases(t *testing.T, defaults Settings) (*Usecases, *buildRecorder) {
	t.Helper()
	rec := &buildRecorder{}
	u, err := New(context.Background(), UsecasesDeps{
		Log:      logger.Nop(),
		Build:    rec.build,
		Defaults: defaults,
	})
	require.NoError(t, err)
	return u, rec
}

func strPtr(s string) *string { return &s }

func TestNewBuildsInitialRuntime(t *testing.T) {
	u, rec := newTestUsecases(t, Settings{GeminiKey: "AIzaDEFAULT123"})

	rt := u.Current()
	require.NotNil(t, rt)
	assert.Equal(t, 1, rt.Revision)
	assert.Equal(t, "gemini", rt.Settings.LLMProvider)
	assert.False(t, rt.BuiltAt.IsZero())
	assert.EqualValues(t, 1, rec.builds.Load())

	st := u.Status()
	assert.Equal(t, SourceSystem, st.AI)
	assert.Equal(t, SourceSQLite, st.Database)
	assert.Equal(t, "****T123", st.AIKeyHint)
}

func TestApplyRejectsBadGeminiKey(t *testing.T) {
	u, rec := newTestUsecases(t, Settings{})

	_, err := u.Apply(context.Background(), Update{GeminiKey: strPtr("sk-not-gemini")})
	require.Error(t, err)
	assert.ErrorIs(t, err, apierr.ErrValidation)
	assert.Equal(t, 1, u.Current().Revision)
	assert.EqualValues(t, 1, rec.builds.Load())
}

func TestApplyRejectsNonPostgresURL(t *testing.T) {
	u, _ := newTestUsecases(t, Settings{})

	_, err := u.Apply(context.Background(), Update{DatabaseURL: strPtr("mysql://u:p@h/db")})
	assert.ErrorIs(t, err, apierr.ErrValidation)
}

func TestApplySwapsRuntimeAndClosesPrevious(t *testing.T) {
	u, rec := newTestUsecases(t, Settings{})
	before := u.Current()

	st, err := u.Apply(context.Background(), Update{
		GeminiKey:   strPtr("AIzaSESSIONKEY9"),
		DatabaseURL: strPtr("postgresql://postgres:pw@db.example.co:5432/postgres"),
	})
	require.NoError(t, err)

	after := u.Current()
	assert.NotSame(t, before, after)
	assert.Equal(t, 2, after.Revision)
	assert.Equal(t, "AIzaSESSIONKEY9", rec.last.GeminiKey)
	assert.Equal(t, SourceSession, st.AI)
	assert.Equal(t, SourceSession, st.Database)
	assert.EqualValues(t, 1, rec.closes.Load())
}

func TestApplyUnchangedKeepsRuntime(t *testing.T) {
	u, rec := newTestUsecases(t, Settings{GeminiKey: "AIzaDEFAULT123"})
	before := u.Current()

	_, err := u.Apply(context.Background(), Update{GeminiKey: strPtr("AIzaDEFAULT123")})
	require.NoError(t, err)
	assert.Same(t, before, u.Current())
	assert.EqualValues(t, 1, rec.builds.Load())
}

func TestApplyEmptyResetsToDefault(t *testing.T) {
	u, _ := newTestUsecases(t, Settings{GeminiKey: "AIzaDEFAULT123"})

	_, err := u.Apply(context.Background(), Update{GeminiKey: strPtr("AIzaOTHER4567")})
	require.NoError(t, err)
	st, err := u.Apply(context.Background(), Update{GeminiKey: strPtr("")})
	require.NoError(t, err)

	assert.Equal(t, "AIzaDEFAULT123", u.Current().Settings.GeminiKey)
	assert.Equal(t, SourceSystem, st.AI)
	assert.Equal(t, 3, st.Revision)
}

func TestApplyBuildFailureKeepsCurrent(t *testing.T) {
	u, rec := newTestUsecases(t, Settings{})
	before := u.Current()
	rec.fail = apierr.StoreUnavailable(errors.New("dial tcp: refused"))

	_, err := u.Apply(context.Background(), Update{DatabaseURL: strPtr("postgres://h/db")})
	assert.ErrorIs(t, err, apierr.ErrStoreUnavailable)
	assert.Same(t, before, u.Current())
	assert.EqualValues(t, 0, rec.closes.Load())
}

func TestApplyUnknownProvider(t *testing.T) {
	u, _ := newTestUsecases(t, Settings{})

	_, err := u.Apply(context.Background(), Update{LLMProvider: strPtr("claude")})
	assert.ErrorIs(t, err, apierr.ErrValidation)

	st, err := u.Apply(context.Background(), Update{LLMProvider: strPtr("OpenAI"), OpenAIKey: strPtr("sk-abcdefgh1234")})
	require.NoError(t, err)
	assert.Equal(t, "openai", st.LLMProvider)
	assert.Equal(t, SourceSession, st.AI)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "", MaskKey("  "))
	assert.Equal(t, "****", MaskKey("short"))
	assert.Equal(t, "****wxyz", MaskKey("AIzaSyabcdwxyz"))
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/procuremind-backend/internal/modules/settings"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
)

type fakeSettings struct {
	status settings.Status
	got    settings.Update
	err    error
}

func (f *fakeSettings) Status() settings.Status { return f.status }

func (f *fakeSettings) Apply(_ context.Context, upd settings.Update) (settings.Status, error) {
	f.got = upd
	if f.err != nil {
		return settings.Status{}, f.err
	}
	f.status.Revision++
	if upd.LLMProvider != nil {
		f.status.LLMProvider = *upd.LLMProvider
	}
	return f.status, nil
}

func settingsEngine(svc SettingsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSettingsHandlerWithDeps(SettingsHandlerDeps{Settings: svc})
	r := gin.New()
	r.GET("/api/settings", h.Get)
	r.PUT("/api/settings", h.Put)
	return r
}

func TestSettingsGetAndPut(t *testing.T) {
	svc := &fakeSettings{status: settings.Status{Revision: 1, LLMProvider: "gemini", AI: settings.SourceSystem}}
	r := settingsEngine(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ai":"system"`)

	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBufferString(`{"llm_provider":"openai","openai_api_key":"sk-test"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Settings settings.Status `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Settings.Revision)
	assert.Equal(t, "openai", out.Settings.LLMProvider)
	require.NotNil(t, svc.got.OpenAIKey)
	assert.Equal(t, "sk-test", *svc.got.OpenAIKey)
	assert.Nil(t, svc.got.GeminiKey)
}

func TestSettingsPutValidationError(t *testing.T) {
	svc := &fakeSettings{err: apierr.Validation("gemini api key must start with AIza")}
	r := settingsEngine(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBufferString(`{"gemini_api_key":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "AIza")

	req = httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBufferString(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_request")
}

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/http/dto"
	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
)

func TestReminderHandler_DefaultIsDisabled(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodGet, "/api/v1/reminder", "")

	requireStatus(t, w, http.StatusOK)
	resp := decode[ReminderResponse](t, w)
	assert.False(t, resp.Enabled)
	assert.Equal(t, "09:00", resp.Time)
	assert.Nil(t, resp.NextRun)
}

func TestReminderHandler_Enable(t *testing.T) {
	f := newAPIFixture(t)
	require.NoError(t, f.state.SetLanguage(context.Background(), domain.LanguageEnglish))
	f.source.EXPECT().GetRandomQuote(mock.Anything).
		Return(&domain.Quote{ID: 9, Quote: "I will restore my clan", Category: "Genin"}, nil)

	w := f.do(http.MethodPut, "/api/v1/reminder", `{"hour":7,"minute":30}`)

	requireStatus(t, w, http.StatusOK)
	resp := decode[ReminderResponse](t, w)
	assert.True(t, resp.Enabled)
	assert.Equal(t, "07:30", resp.Time)
	assert.Equal(t, "Sasuke Quote", resp.Title)
	assert.Equal(t, "I will restore my clan", resp.Body)
	require.NotNil(t, resp.NextRun)
	assert.Equal(t, 7, resp.NextRun.UTC().Hour())
	assert.Equal(t, 30, resp.NextRun.UTC().Minute())

	scheduled := f.scheduler.Scheduled()
	require.Len(t, scheduled, 1)
	assert.Equal(t, "9", scheduled[0].Notification.Data["quoteId"])
}

func TestReminderHandler_EnableReplacesPrevious(t *testing.T) {
	f := newAPIFixture(t)
	f.source.EXPECT().GetRandomQuote(mock.Anything).Return(nil, domain.ErrUnavailable).Twice()

	requireStatus(t, f.do(http.MethodPut, "/api/v1/reminder", `{"hour":7,"minute":0}`), http.StatusOK)
	requireStatus(t, f.do(http.MethodPut, "/api/v1/reminder", `{"hour":21,"minute":15}`), http.StatusOK)

	scheduled := f.scheduler.Scheduled()
	require.Len(t, scheduled, 1)
	assert.Equal(t, 21, scheduled[0].Trigger.Hour)
	assert.Equal(t, domain.FallbackQuote().Quote, scheduled[0].Notification.Body)
}

func TestReminderHandler_EnableValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "missing minute", body: `{"hour":9}`, wantField: "minute"},
		{name: "hour out of range", body: `{"hour":24,"minute":0}`, wantField: "hour"},
		{name: "minute out of range", body: `{"hour":9,"minute":60}`, wantField: "minute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)

			w := f.do(http.MethodPut, "/api/v1/reminder", tt.body)

			requireStatus(t, w, http.StatusBadRequest)
			assert.Contains(t, decode[dto.ErrorResponse](t, w).Error.Details, tt.wantField)
			assert.Empty(t, f.scheduler.Scheduled())
		})
	}
}

func TestReminderHandler_PermissionDenied(t *testing.T) {
	f := newAPIFixture(t)
	f.scheduler.SetPermitted(false)
	f.source.EXPECT().GetRandomQuote(mock.Anything).Return(&domain.Quote{ID: 1, Quote: "q"}, nil)

	w := f.do(http.MethodPut, "/api/v1/reminder", `{"hour":9,"minute":0}`)

	requireStatus(t, w, http.StatusForbidden)
	resp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, dto.ErrorCodeForbidden, resp.Error.Code)
	assert.Equal(t, "Permissão de notificações negada.", resp.Error.Message)
	assert.False(t, decode[ReminderResponse](t, f.do(http.MethodGet, "/api/v1/reminder", "")).Enabled)
}

func TestReminderHandler_Disable(t *testing.T) {
	f := newAPIFixture(t)
	f.source.EXPECT().GetRandomQuote(mock.Anything).Return(&domain.Quote{ID: 1, Quote: "q"}, nil)
	requireStatus(t, f.do(http.MethodPut, "/api/v1/reminder", `{"hour":9,"minute":0}`), http.StatusOK)

	requireStatus(t, f.do(http.MethodDelete, "/api/v1/reminder", ""), http.StatusNoContent)

	assert.Empty(t, f.scheduler.Scheduled())
	resp := decode[ReminderResponse](t, f.do(http.MethodGet, "/api/v1/reminder", ""))
	assert.False(t, resp.Enabled)
	assert.Equal(t, "09:00", resp.Time)
}

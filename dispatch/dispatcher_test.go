package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pestaway/voiceagent/types"
)

func TestDispatch_EndCall(t *testing.T) {
	d := NewDispatcher("", "", time.Second)
	defer d.Close()

	result := d.Dispatch(context.Background(), types.MessageToolCall{
		ID:   "call_1",
		Name: NameEndCall,
		Args: json.RawMessage(`{"reason":"caller said goodbye"}`),
	})

	assert.False(t, result.Failed())
	assert.Equal(t, FunctionEndCall, result.Function)
	assert.Equal(t, "call_1", result.CallID)
	assert.True(t, result.Success)
	assert.Equal(t, "caller said goodbye", result.Reason)
}

func TestDispatch_EndCall_MalformedArgs(t *testing.T) {
	d := NewDispatcher("", "", time.Second)
	defer d.Close()

	// End-call never fails on bad arguments; the reason is simply absent.
	result := d.Dispatch(context.Background(), types.MessageToolCall{
		ID:   "call_1",
		Name: NameEndCall,
		Args: json.RawMessage(`{"reason": 42}`),
	})

	assert.False(t, result.Failed())
	assert.Empty(t, result.Reason)
}

func TestDispatch_UnknownFunction(t *testing.T) {
	d := NewDispatcher("", "", time.Second)
	defer d.Close()

	result := d.Dispatch(context.Background(), types.MessageToolCall{
		ID:   "call_1",
		Name: "transfer-to-human",
		Args: json.RawMessage(`{}`),
	})

	require.True(t, result.Failed())
	assert.Equal(t, FunctionUnknown, result.Function)
	assert.Equal(t, "unknown function", result.Err.Error)
	assert.Equal(t, "transfer-to-human", result.Err.Details)
}

func TestDispatch_CheckAvailability(t *testing.T) {
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req webhookRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, NameCheckAvailability, req.FunctionName)

		_, err := time.Parse(time.RFC3339, req.Timestamp)
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"available": false,
			"message": "That time is booked.",
			"suggested_times": ["Tuesday at 10am", "Wednesday at 3pm"]
		}`))
	}))
	defer webhook.Close()

	d := NewDispatcher(webhook.URL, "", time.Second)
	defer d.Close()

	result := d.Dispatch(context.Background(), types.MessageToolCall{
		ID:   "call_1",
		Name: NameCheckAvailability,
		Args: json.RawMessage(`{"requested_datetime":"2026-09-01T14:00:00"}`),
	})

	require.False(t, result.Failed())
	assert.False(t, result.Available)
	assert.Equal(t, "That time is booked.", result.Message)
	assert.Equal(t, []string{"Tuesday at 10am", "Wednesday at 3pm"}, result.SuggestedTimes)
}

func TestDispatch_LookupContact(t *testing.T) {
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req webhookRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, NameLookupContact, req.FunctionName)
		assert.JSONEq(t, `{"phone_number":"+15550100"}`, string(req.Parameters))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "message": "I found your account."}`))
	}))
	defer webhook.Close()

	d := NewDispatcher("", webhook.URL, time.Second)
	defer d.Close()

	result := d.Dispatch(context.Background(), types.MessageToolCall{
		ID:   "call_1",
		Name: NameLookupContact,
		Args: json.RawMessage(`{"phone_number":"+15550100"}`),
	})

	require.False(t, result.Failed())
	assert.True(t, result.Success)
	assert.Equal(t, "I found your account.", result.Message)
}

func TestDispatch_FailureModes(t *testing.T) {
	badStatus := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer badStatus.Close()

	badBody := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer badBody.Close()

	refused := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	refused.Close() // deliberately closed to force a transport error

	validArgs := json.RawMessage(`{"requested_datetime":"2026-09-01T14:00:00"}`)

	tests := []struct {
		name      string
		url       string
		args      json.RawMessage
		wantError string
	}{
		{
			name:      "missing required argument",
			url:       badStatus.URL,
			args:      json.RawMessage(`{"service_type":"termite"}`),
			wantError: "invalid arguments",
		},
		{
			name:      "non-2xx status",
			url:       badStatus.URL,
			args:      validArgs,
			wantError: "dispatch failed",
		},
		{
			name:      "non-JSON body",
			url:       badBody.URL,
			args:      validArgs,
			wantError: "dispatch failed",
		},
		{
			name:      "transport error",
			url:       refused.URL,
			args:      validArgs,
			wantError: "dispatch failed",
		},
		{
			name:      "no webhook configured",
			url:       "",
			args:      validArgs,
			wantError: "dispatch failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(tt.url, "", time.Second)
			defer d.Close()

			result := d.Dispatch(context.Background(), types.MessageToolCall{
				ID:   "call_1",
				Name: NameCheckAvailability,
				Args: tt.args,
			})

			require.True(t, result.Failed())
			assert.Equal(t, tt.wantError, result.Err.Error)
			assert.NotEmpty(t, result.Err.Details)
		})
	}
}

func TestDispatch_MalformedWebhookResponse(t *testing.T) {
	// Valid JSON that doesn't match the expected shape still decodes; only
	// type mismatches fail.
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"available": "yes"}`))
	}))
	defer webhook.Close()

	d := NewDispatcher(webhook.URL, "", time.Second)
	defer d.Close()

	result := d.Dispatch(context.Background(), types.MessageToolCall{
		ID:   "call_1",
		Name: NameCheckAvailability,
		Args: json.RawMessage(`{"requested_datetime":"2026-09-01T14:00:00"}`),
	})

	require.True(t, result.Failed())
	assert.Equal(t, "malformed response", result.Err.Error)
}

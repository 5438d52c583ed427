package dispatch

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolDefs(t *testing.T) {
	defs := ToolDefs()
	require.Len(t, defs, 3)

	names := make(map[string]bool)
	for _, def := range defs {
		names[def.Name] = true
		assert.NotEmpty(t, def.Description)
		assert.True(t, json.Valid(def.InputSchema), "schema for %s must be valid JSON", def.Name)
	}

	assert.True(t, names[NameEndCall])
	assert.True(t, names[NameCheckAvailability])
	assert.True(t, names[NameLookupContact])
}

func TestArgsValidator(t *testing.T) {
	v := NewArgsValidator()

	tests := []struct {
		name     string
		function Function
		args     string
		wantErr  bool
	}{
		{
			name:     "availability with required field",
			function: FunctionCheckAvailability,
			args:     `{"requested_datetime":"2026-09-01T14:00:00"}`,
		},
		{
			name:     "availability with optional service type",
			function: FunctionCheckAvailability,
			args:     `{"requested_datetime":"2026-09-01T14:00:00","service_type":"termite inspection"}`,
		},
		{
			name:     "availability missing required field",
			function: FunctionCheckAvailability,
			args:     `{"service_type":"termite inspection"}`,
			wantErr:  true,
		},
		{
			name:     "availability wrong type",
			function: FunctionCheckAvailability,
			args:     `{"requested_datetime": 1234}`,
			wantErr:  true,
		},
		{
			name:     "lookup with phone number",
			function: FunctionLookupContact,
			args:     `{"phone_number":"+15550100"}`,
		},
		{
			name:     "lookup missing phone number",
			function: FunctionLookupContact,
			args:     `{"email":"robert@example.com"}`,
			wantErr:  true,
		},
		{
			name:     "end call with no arguments",
			function: FunctionEndCall,
			args:     `{}`,
		},
		{
			name:     "end call with reason",
			function: FunctionEndCall,
			args:     `{"reason":"caller done"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.function, json.RawMessage(tt.args))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestArgsValidator_UnknownFunction(t *testing.T) {
	v := NewArgsValidator()
	err := v.Validate(FunctionUnknown, json.RawMessage(`{}`))
	assert.Error(t, err)
}

func TestArgsValidator_ConcurrentSessions(t *testing.T) {
	// One validator is shared by every call session; concurrent validation
	// must be safe.
	v := NewArgsValidator()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.NoError(t, v.Validate(FunctionCheckAvailability,
					json.RawMessage(`{"requested_datetime":"2026-09-01T14:00:00"}`)))
				assert.NoError(t, v.Validate(FunctionLookupContact,
					json.RawMessage(`{"phone_number":"+15550100"}`)))
				assert.NoError(t, v.Validate(FunctionEndCall, json.RawMessage(`{}`)))
			}
		}()
	}
	wg.Wait()
}

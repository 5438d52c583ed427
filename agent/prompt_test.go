package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pestaway/voiceagent/types"
)

func TestBuildMessages_Ordering(t *testing.T) {
	transcript := []types.Utterance{
		{Role: types.SpeakerAgent, Content: "Hi there!"},
		{Role: types.SpeakerUser, Content: "I think I have termites."},
	}

	messages := BuildMessages("Name: Robert Chen", transcript, nil, false)

	require.Len(t, messages, 4)
	assert.Equal(t, types.RoleSystem, messages[0].Role)
	assert.Equal(t, personaPrompt, messages[0].Content)
	assert.Equal(t, types.RoleSystem, messages[1].Role)
	assert.Equal(t, "Caller record on file:\nName: Robert Chen", messages[1].Content)
	assert.Equal(t, types.RoleAssistant, messages[2].Role)
	assert.Equal(t, "Hi there!", messages[2].Content)
	assert.Equal(t, types.RoleUser, messages[3].Role)
	assert.Equal(t, "I think I have termites.", messages[3].Content)
}

func TestBuildMessages_Count(t *testing.T) {
	transcript := []types.Utterance{
		{Role: types.SpeakerUser, Content: "Can you check Tuesday at 2pm?"},
	}
	resume := &FunctionOutcome{
		Call: types.MessageToolCall{
			ID:   "call_1",
			Name: "calendar-availability-check",
			Args: json.RawMessage(`{"requested_datetime":"2026-09-01T14:00:00"}`),
		},
		Result: "Great news! That slot is open.",
	}

	tests := []struct {
		name    string
		summary string
		resume  *FunctionOutcome
		rem     bool
		want    int
	}{
		{name: "base", want: 2},
		{name: "with summary", summary: "Name: Dana", want: 3},
		{name: "with resume", resume: resume, want: 4},
		{name: "with reminder", rem: true, want: 3},
		{name: "everything", summary: "Name: Dana", resume: resume, rem: true, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := BuildMessages(tt.summary, transcript, tt.resume, tt.rem)
			assert.Len(t, messages, tt.want)
		})
	}
}

func TestBuildMessages_Resume(t *testing.T) {
	call := types.MessageToolCall{
		ID:   "call_42",
		Name: "crm-lookup",
		Args: json.RawMessage(`{"phone_number":"+15550100"}`),
	}
	messages := BuildMessages("", nil, &FunctionOutcome{Call: call, Result: "Found the account."}, false)

	require.Len(t, messages, 3)

	assistant := messages[1]
	assert.Equal(t, types.RoleAssistant, assistant.Role)
	require.Len(t, assistant.ToolCalls, 1)
	assert.Equal(t, "call_42", assistant.ToolCalls[0].ID)

	tool := messages[2]
	assert.Equal(t, types.RoleTool, tool.Role)
	assert.Equal(t, "Found the account.", tool.Content)
	require.NotNil(t, tool.ToolResult)
	assert.Equal(t, "call_42", tool.ToolResult.ID)
	assert.Equal(t, "crm-lookup", tool.ToolResult.Name)
}

func TestBuildMessages_ReminderIsLast(t *testing.T) {
	transcript := []types.Utterance{
		{Role: types.SpeakerUser, Content: "..."},
	}
	messages := BuildMessages("Name: Dana", transcript, nil, true)

	last := messages[len(messages)-1]
	assert.Equal(t, types.RoleUser, last.Role)
	assert.Equal(t, reminderPrompt, last.Content)
}

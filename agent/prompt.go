package agent

import (
	"github.com/pestaway/voiceagent/types"
)

// TurnRequest describes one inbound turn to be handled.
type TurnRequest struct {
	// ResponseID is the channel's turn-identifying sequence number. Every
	// outbound event for this turn echoes it.
	ResponseID int

	// Transcript is the full turn history, ordered, read-only.
	Transcript []types.Utterance

	// Reminder marks a reminder-type request: the caller has been silent and
	// the agent should speak next without new caller input.
	Reminder bool
}

// FunctionOutcome pairs a dispatched function call with its resolved spoken
// result, so the following turn's prompt can carry the exchange.
type FunctionOutcome struct {
	Call   types.MessageToolCall
	Result string
}

// BuildMessages assembles the ordered message list for one turn:
// persona instructions, the session's contact summary when non-empty, the
// transcript in received order, the previous function call and its result
// when resuming after a dispatch, and the silence prompt for reminder turns.
//
// The assembler is a total function over its inputs: it has no failure modes
// and never reorders or truncates history.
func BuildMessages(summary string, transcript []types.Utterance, resume *FunctionOutcome, reminder bool) []types.Message {
	messages := make([]types.Message, 0, len(transcript)+4)

	messages = append(messages, types.Message{
		Role:    types.RoleSystem,
		Content: personaPrompt,
	})

	if summary != "" {
		messages = append(messages, types.Message{
			Role:    types.RoleSystem,
			Content: "Caller record on file:\n" + summary,
		})
	}

	for _, u := range transcript {
		role := types.RoleUser
		if u.Role == types.SpeakerAgent {
			role = types.RoleAssistant
		}
		messages = append(messages, types.Message{
			Role:    role,
			Content: u.Content,
		})
	}

	if resume != nil {
		messages = append(messages,
			types.Message{
				Role:      types.RoleAssistant,
				ToolCalls: []types.MessageToolCall{resume.Call},
			},
			types.Message{
				Role:    types.RoleTool,
				Content: resume.Result,
				ToolResult: &types.MessageToolResult{
					ID:      resume.Call.ID,
					Name:    resume.Call.Name,
					Content: resume.Result,
				},
			},
		)
	}

	if reminder {
		messages = append(messages, types.Message{
			Role:    types.RoleUser,
			Content: reminderPrompt,
		})
	}

	return messages
}

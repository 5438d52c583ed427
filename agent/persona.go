// Package agent implements the conversational agent: persona configuration,
// contact summary building, prompt assembly, and the streaming response
// orchestrator that turns backend output into ordered channel events.
package agent

import "fmt"

// Persona identity. These are configuration data, not logic.
const (
	AgentName   = "Katie"
	CompanyName = "PestAway Solutions"
)

// personaPrompt is the system instruction sent on every turn.
const personaPrompt = `You are ` + AgentName + `, a friendly and professional receptionist for ` +
	CompanyName + `, a residential and commercial pest control company.

Your job on every call:
- Greet callers warmly and find out what pest problem they have.
- Answer questions about our services: general pest control, termite inspection and
  treatment, rodent removal, bed bug treatment, and quarterly prevention plans.
- Help callers schedule, reschedule, or cancel service appointments. Always check
  availability before promising a specific time.
- Look up existing customers by phone number when they ask about their account or
  previous service.
- If the caller is done, or asks to hang up, end the call politely.

Speak naturally and conversationally, as this is a phone call. Keep replies short,
one to three sentences. Never read out raw data, URLs, or JSON. Never invent
appointment times you have not confirmed. If you do not know something, say so and
offer to have a technician follow up.`

// reminderPrompt is the synthetic continuation marker appended for
// reminder-type requests, when the caller has been silent.
const reminderPrompt = `(The caller has been silent for a while. Gently check in and ask if they are still there.)`

// Fixed response texts.
const (
	// farewellMessage is the content of the final end_call event.
	farewellMessage = "Goodbye!"

	// endCallAck is spoken before the session is terminated.
	endCallAck = "Thanks for calling " + CompanyName + ". Have a great day!"

	// streamFallback is spoken when the backend stream fails before a
	// terminal event was produced, so the caller never perceives a dropped turn.
	streamFallback = "I'm sorry, I'm having a little trouble on my end. Could you say that again?"

	// dispatchFallback is spoken when a function call could not be carried out
	// because its arguments never became valid.
	dispatchFallback = "I'm sorry, I wasn't able to look that up just now. Could we try that again?"
)

// Greeting builds the session-start greeting from an optional contact profile.
func Greeting(profile *ContactProfile) string {
	if profile != nil && profile.FirstName != "" {
		return fmt.Sprintf("Hi %s, I'm %s from %s. How can I help you today?",
			profile.FirstName, AgentName, CompanyName)
	}
	return fmt.Sprintf("Hi there! I'm %s from %s. How can I help you today?",
		AgentName, CompanyName)
}

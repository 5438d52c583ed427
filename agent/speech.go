package agent

import (
	"strings"

	"github.com/pestaway/voiceagent/dispatch"
)

// SpeakResult maps a dispatch result to the spoken completion message.
// The mapping is a fixed policy:
//   - an availability result with available=true yields an affirmative message
//     plus any alternate times,
//   - a successful CRM lookup passes the provider-supplied message through,
//   - an end-call yields the acknowledgement,
//   - everything else, including structured dispatch failures, yields the
//     apologetic "not available" message plus any alternate times.
func SpeakResult(r dispatch.Result) string {
	if r.Failed() {
		return speakNotAvailable(r.SuggestedTimes)
	}

	switch r.Function {
	case dispatch.FunctionCheckAvailability:
		if r.Available {
			return speakAvailable(r.Message, r.SuggestedTimes)
		}
		return speakNotAvailable(r.SuggestedTimes)

	case dispatch.FunctionLookupContact:
		if r.Success && r.Message != "" {
			return r.Message
		}
		return speakNotAvailable(nil)

	case dispatch.FunctionEndCall:
		return endCallAck

	default:
		return speakNotAvailable(r.SuggestedTimes)
	}
}

func speakAvailable(message string, times []string) string {
	var b strings.Builder
	b.WriteString("Great news! ")
	if message != "" {
		b.WriteString(message)
	} else {
		b.WriteString("That time is available.")
	}
	if len(times) > 0 {
		b.WriteString(" We also have openings at " + joinTimes(times) + ".")
	}
	return b.String()
}

func speakNotAvailable(times []string) string {
	msg := "I'm sorry, that doesn't look available right now."
	if len(times) > 0 {
		msg += " We could do " + joinTimes(times) + " instead."
	}
	return msg
}

func joinTimes(times []string) string {
	if len(times) == 1 {
		return times[0]
	}
	return strings.Join(times[:len(times)-1], ", ") + " or " + times[len(times)-1]
}

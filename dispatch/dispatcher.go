package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pestaway/voiceagent/logger"
	metrics "github.com/pestaway/voiceagent/metrics/prometheus"
	"github.com/pestaway/voiceagent/types"
)

// Dispatcher maps recognized functions to their invocation strategies.
type Dispatcher struct {
	invoker     *WebhookInvoker
	validator   *ArgsValidator
	calendarURL string
	crmURL      string
}

// NewDispatcher creates a dispatcher for the configured webhook endpoints.
func NewDispatcher(calendarURL, crmURL string, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		invoker:     NewWebhookInvoker(timeout),
		validator:   NewArgsValidator(),
		calendarURL: calendarURL,
		crmURL:      crmURL,
	}
}

// Dispatch executes the function call and returns its structured result.
// It never returns a Go error: every failure mode is folded into Result.Err
// so the turn always completes.
func (d *Dispatcher) Dispatch(ctx context.Context, call types.MessageToolCall) Result {
	f := FunctionFromName(call.Name)
	result := Result{Function: f, CallID: call.ID}
	start := time.Now()

	logger.DispatchCall(call.Name, call.ID)

	switch f {
	case FunctionEndCall:
		result = d.dispatchEndCall(call)
	case FunctionCheckAvailability:
		result = d.dispatchWebhook(ctx, f, call, d.calendarURL)
	case FunctionLookupContact:
		result = d.dispatchWebhook(ctx, f, call, d.crmURL)
	case FunctionUnknown:
		result.Err = &ResultError{
			Error:   "unknown function",
			Details: call.Name,
		}
	}

	status := "success"
	if result.Failed() {
		status = "error"
	}
	metrics.RecordDispatch(f.Name(), status)
	logger.DispatchResult(call.Name, call.ID, result.Failed(), time.Since(start).Milliseconds())

	return result
}

// dispatchEndCall synthesizes a success result locally; no external call is made.
func (d *Dispatcher) dispatchEndCall(call types.MessageToolCall) Result {
	result := Result{Function: FunctionEndCall, CallID: call.ID, Success: true}

	var args struct {
		Reason string `json:"reason"`
	}
	// The reason is optional; a malformed buffer just leaves it empty.
	if len(call.Args) > 0 {
		_ = json.Unmarshal(call.Args, &args)
	}
	result.Reason = args.Reason

	return result
}

// dispatchWebhook validates arguments and forwards the call to its webhook.
func (d *Dispatcher) dispatchWebhook(ctx context.Context, f Function, call types.MessageToolCall, url string) Result {
	result := Result{Function: f, CallID: call.ID}

	args := call.Args
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	if err := d.validator.Validate(f, args); err != nil {
		result.Err = &ResultError{
			Error:   "invalid arguments",
			Details: err.Error(),
		}
		return result
	}

	respBody, err := d.invoker.Invoke(ctx, url, f.Name(), args)
	if err != nil {
		result.Err = &ResultError{
			Error:   "dispatch failed",
			Details: err.Error(),
		}
		return result
	}

	switch f {
	case FunctionCheckAvailability:
		var resp struct {
			Available      bool     `json:"available"`
			Message        string   `json:"message"`
			SuggestedTimes []string `json:"suggested_times"`
		}
		if err := json.Unmarshal(respBody, &resp); err != nil {
			result.Err = &ResultError{
				Error:   "malformed response",
				Details: err.Error(),
			}
			return result
		}
		result.Available = resp.Available
		result.Message = resp.Message
		result.SuggestedTimes = resp.SuggestedTimes

	case FunctionLookupContact:
		var resp struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBody, &resp); err != nil {
			result.Err = &ResultError{
				Error:   "malformed response",
				Details: err.Error(),
			}
			return result
		}
		result.Success = resp.Success
		result.Message = resp.Message
	}

	return result
}

// Close releases the underlying HTTP resources.
func (d *Dispatcher) Close() error {
	return d.invoker.Close()
}

package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/pestaway/voiceagent/types"
)

// Static input schemas for the recognized functions (JSON Schema Draft-07).
var (
	endCallSchema = json.RawMessage(`{
		"type": "object",
		"properties": {
			"reason": {
				"type": "string",
				"description": "Short reason for ending the call."
			}
		}
	}`)

	checkAvailabilitySchema = json.RawMessage(`{
		"type": "object",
		"properties": {
			"requested_datetime": {
				"type": "string",
				"description": "Requested appointment date and time in ISO 8601 format."
			},
			"service_type": {
				"type": "string",
				"description": "Type of pest control service requested."
			}
		},
		"required": ["requested_datetime"]
	}`)

	lookupContactSchema = json.RawMessage(`{
		"type": "object",
		"properties": {
			"phone_number": {
				"type": "string",
				"description": "Caller phone number to look up."
			},
			"email": {
				"type": "string",
				"description": "Caller email address, if known."
			}
		},
		"required": ["phone_number"]
	}`)
)

// ToolDefs returns the function definitions declared to the backend.
// The returned slice is freshly allocated on each call.
func ToolDefs() []types.ToolDef {
	return []types.ToolDef{
		{
			Name: NameCheckAvailability,
			Description: "Check whether a requested appointment slot is available. " +
				"Call this before promising the caller any specific time.",
			InputSchema: checkAvailabilitySchema,
		},
		{
			Name: NameLookupContact,
			Description: "Look up the caller's customer record by phone number " +
				"to retrieve service history and account details.",
			InputSchema: lookupContactSchema,
		},
		{
			Name: NameEndCall,
			Description: "End the call politely once the caller's needs are met " +
				"or the caller asks to hang up.",
			InputSchema: endCallSchema,
		},
	}
}

// schemaFor returns the input schema for a recognized function.
func schemaFor(f Function) json.RawMessage {
	switch f {
	case FunctionEndCall:
		return endCallSchema
	case FunctionCheckAvailability:
		return checkAvailabilitySchema
	case FunctionLookupContact:
		return lookupContactSchema
	default:
		return nil
	}
}

// ArgsValidator validates parsed function arguments against the static input
// schemas before dispatch. The function set is closed, so all schemas are
// compiled up front and the map is never written after construction, making
// the validator safe for concurrent use across sessions.
type ArgsValidator struct {
	schemas map[Function]*gojsonschema.Schema
}

// NewArgsValidator creates a validator with all input schemas compiled.
// The schemas are static package constants; a compile failure is a
// programming error and panics at startup rather than at dispatch time.
func NewArgsValidator() *ArgsValidator {
	schemas := make(map[Function]*gojsonschema.Schema, 3)
	for _, f := range []Function{FunctionEndCall, FunctionCheckAvailability, FunctionLookupContact} {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaFor(f)))
		if err != nil {
			panic(fmt.Sprintf("invalid input schema for %s: %v", f.Name(), err))
		}
		schemas[f] = schema
	}
	return &ArgsValidator{schemas: schemas}
}

// Validate checks args against the input schema for f.
func (v *ArgsValidator) Validate(f Function, args json.RawMessage) error {
	schema, exists := v.schemas[f]
	if !exists {
		return fmt.Errorf("no schema for function %s", f.Name())
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(args))
	if err != nil {
		return fmt.Errorf("validation error for %s: %w", f.Name(), err)
	}

	if !result.Valid() {
		details := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			details[i] = desc.String()
		}
		return fmt.Errorf("argument validation failed for %s: %v", f.Name(), details)
	}

	return nil
}

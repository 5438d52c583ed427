package dispatch

import "testing"

func TestFunctionFromName(t *testing.T) {
	tests := []struct {
		name string
		want Function
	}{
		{"end-call", FunctionEndCall},
		{"calendar-availability-check", FunctionCheckAvailability},
		{"crm-lookup", FunctionLookupContact},
		{"end_call", FunctionUnknown},
		{"transfer-to-human", FunctionUnknown},
		{"", FunctionUnknown},
	}

	for _, tt := range tests {
		if got := FunctionFromName(tt.name); got != tt.want {
			t.Errorf("FunctionFromName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFunctionName_RoundTrip(t *testing.T) {
	for _, f := range []Function{FunctionEndCall, FunctionCheckAvailability, FunctionLookupContact} {
		if got := FunctionFromName(f.Name()); got != f {
			t.Errorf("FunctionFromName(%q) = %v, want %v", f.Name(), got, f)
		}
	}
	if FunctionUnknown.Name() != "unknown" {
		t.Errorf("FunctionUnknown.Name() = %q, want %q", FunctionUnknown.Name(), "unknown")
	}
}

func TestResultFailed(t *testing.T) {
	if (Result{}).Failed() {
		t.Error("zero Result must not report failure")
	}
	if !(Result{Err: &ResultError{Error: "dispatch failed"}}).Failed() {
		t.Error("Result with Err must report failure")
	}
}

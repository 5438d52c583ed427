package agent

import (
	"strings"
	"testing"
)

func TestParseProfile(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantNil bool
		want    string // expected FirstName when parsed
	}{
		{
			name:    "plain object",
			payload: `{"firstName":"Robert","lastName":"Chen"}`,
			want:    "Robert",
		},
		{
			name:    "double-encoded object",
			payload: `"{\"firstName\":\"Dana\"}"`,
			want:    "Dana",
		},
		{
			name:    "empty payload",
			payload: "",
			wantNil: true,
		},
		{
			name:    "malformed payload",
			payload: `{"firstName": `,
			wantNil: true,
		},
		{
			name:    "double-encoded garbage",
			payload: `"not json at all"`,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseProfile([]byte(tt.payload))
			if tt.wantNil {
				if got != nil {
					t.Fatalf("ParseProfile() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ParseProfile() = nil, want profile")
			}
			if got.FirstName != tt.want {
				t.Errorf("FirstName = %q, want %q", got.FirstName, tt.want)
			}
		})
	}
}

func TestBuildContactSummary(t *testing.T) {
	profile := &ContactProfile{
		FirstName:       "Robert",
		LastName:        "Chen",
		CompanyName:     "Chen Imports",
		Phone:           "+1 555 0100",
		Email:           "robert@example.com",
		Street:          "12 Oak St",
		City:            "Springfield",
		State:           "IL",
		Zip:             "62704",
		LastServiceDate: "2026-05-12",
		LastServiceType: "quarterly prevention",
		Tags:            []string{"vip", "none", "", "termite-plan"},
	}

	got := BuildContactSummary(profile)
	want := strings.Join([]string{
		"Name: Robert Chen",
		"Company: Chen Imports",
		"Phone: +1 555 0100",
		"Email: robert@example.com",
		"Address: 12 Oak St, Springfield, IL 62704",
		"Last service date: 2026-05-12",
		"Last service type: quarterly prevention",
		"Tags: vip, termite-plan",
	}, "\n")

	if got != want {
		t.Errorf("BuildContactSummary() =\n%s\nwant\n%s", got, want)
	}

	// Identical input always yields identical output.
	if again := BuildContactSummary(profile); again != got {
		t.Errorf("BuildContactSummary() is not deterministic:\n%s\nvs\n%s", got, again)
	}
}

func TestBuildContactSummary_SparseProfiles(t *testing.T) {
	tests := []struct {
		name    string
		profile *ContactProfile
		want    string
	}{
		{
			name:    "nil profile",
			profile: nil,
			want:    "",
		},
		{
			name:    "empty profile",
			profile: &ContactProfile{},
			want:    "",
		},
		{
			name:    "only sentinel tags",
			profile: &ContactProfile{Tags: []string{"none", "N/A", "-"}},
			want:    "",
		},
		{
			name:    "first name only",
			profile: &ContactProfile{FirstName: "Dana"},
			want:    "Name: Dana",
		},
		{
			name:    "city without street",
			profile: &ContactProfile{City: "Springfield", Zip: "62704"},
			want:    "Address: Springfield, 62704",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildContactSummary(tt.profile); got != tt.want {
				t.Errorf("BuildContactSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}

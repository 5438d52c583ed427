package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pestaway/voiceagent/logger"
)

// ContactProfile is the structured caller record supplied by the channel.
// Absent fields are normal and never synthesized.
type ContactProfile struct {
	FirstName       string            `json:"firstName"`
	LastName        string            `json:"lastName"`
	CompanyName     string            `json:"companyName"`
	Phone           string            `json:"phone"`
	Email           string            `json:"email"`
	Street          string            `json:"street"`
	City            string            `json:"city"`
	State           string            `json:"state"`
	Zip             string            `json:"zip"`
	LastServiceDate string            `json:"lastServiceDate"`
	LastServiceType string            `json:"lastServiceType"`
	Tags            []string          `json:"tags"`
	Custom          map[string]string `json:"customFields"`
}

// tagSentinels are placeholder tag values that carry no information and are
// filtered out of summaries.
var tagSentinels = map[string]bool{
	"":     true,
	"none": true,
	"n/a":  true,
	"null": true,
	"-":    true,
}

// ParseProfile decodes a profile payload. The payload may be a JSON object or
// a JSON string containing an encoded object. A missing, empty, or malformed
// payload yields nil; malformed profile data must never block the turn.
func ParseProfile(payload []byte) *ContactProfile {
	if len(payload) == 0 {
		return nil
	}

	data := payload

	// Some channels double-encode the profile as a JSON string.
	var inner string
	if err := json.Unmarshal(payload, &inner); err == nil {
		data = []byte(inner)
	}

	var profile ContactProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		logger.Debug("ignoring unparsable contact profile", "error", err)
		return nil
	}

	return &profile
}

// BuildContactSummary renders a profile into a short text digest with a fixed
// field order: name, company, phone, email, address, last service, tags.
// Absent fields are omitted. A nil or empty profile yields the empty string.
// The function is pure; identical profiles always produce identical output.
func BuildContactSummary(profile *ContactProfile) string {
	if profile == nil {
		return ""
	}

	var lines []string

	name := strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	if name != "" {
		lines = append(lines, "Name: "+name)
	}
	if profile.CompanyName != "" {
		lines = append(lines, "Company: "+profile.CompanyName)
	}
	if profile.Phone != "" {
		lines = append(lines, "Phone: "+profile.Phone)
	}
	if profile.Email != "" {
		lines = append(lines, "Email: "+profile.Email)
	}
	if addr := formatAddress(profile); addr != "" {
		lines = append(lines, "Address: "+addr)
	}
	if profile.LastServiceDate != "" {
		lines = append(lines, "Last service date: "+profile.LastServiceDate)
	}
	if profile.LastServiceType != "" {
		lines = append(lines, "Last service type: "+profile.LastServiceType)
	}
	if tags := filterTags(profile.Tags); len(tags) > 0 {
		lines = append(lines, "Tags: "+strings.Join(tags, ", "))
	}

	return strings.Join(lines, "\n")
}

// formatAddress joins present address parts in street, city, state zip order.
func formatAddress(profile *ContactProfile) string {
	var parts []string
	if profile.Street != "" {
		parts = append(parts, profile.Street)
	}
	if profile.City != "" {
		parts = append(parts, profile.City)
	}
	switch {
	case profile.State != "" && profile.Zip != "":
		parts = append(parts, fmt.Sprintf("%s %s", profile.State, profile.Zip))
	case profile.State != "":
		parts = append(parts, profile.State)
	case profile.Zip != "":
		parts = append(parts, profile.Zip)
	}
	return strings.Join(parts, ", ")
}

// filterTags drops blank and sentinel placeholder values.
func filterTags(tags []string) []string {
	var kept []string
	for _, tag := range tags {
		if tagSentinels[strings.ToLower(strings.TrimSpace(tag))] {
			continue
		}
		kept = append(kept, tag)
	}
	return kept
}

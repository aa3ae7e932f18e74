package registry

import (
	"encoding/json"
	"fmt"
)

// submissionsPayload is the slice of the registry submissions feed we need
type submissionsPayload struct {
	Filings struct {
		Recent recentFilings `json:"recent"`
	} `json:"filings"`
}

// recentFilings is a column-oriented listing: index i across the arrays
// describes one filing
type recentFilings struct {
	AccessionNumber []string `json:"accessionNumber"`
	Form            []string `json:"form"`
	FilingDate      []string `json:"filingDate"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// latestFilingRef finds the most recent filing of the given form and
// returns its accession number and primary document name
func latestFilingRef(raw []byte, form string) (string, string, error) {
	var payload submissionsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", "", fmt.Errorf("parse submissions: %w", err)
	}

	recent := payload.Filings.Recent
	for i, f := range recent.Form {
		if f != form {
			continue
		}
		if i >= len(recent.AccessionNumber) || i >= len(recent.PrimaryDocument) {
			break
		}
		return recent.AccessionNumber[i], recent.PrimaryDocument[i], nil
	}
	return "", "", fmt.Errorf("no %s filing found in submissions feed", form)
}

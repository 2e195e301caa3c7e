package entity

import "fmt"

// SecurityReport is a read-only summary of an account's security posture.
type SecurityReport struct {
	Score           int      `json:"score"`
	Recommendations []string `json:"recommendations"`
	Vulnerabilities []string `json:"vulnerabilities"`
	Summary         string   `json:"summary"`
}

// NewSecurityReport builds the report for an identity.
// The content is static apart from the score and the email in the summary.
func NewSecurityReport(i *Identity) *SecurityReport {
	score := i.SecurityScore
	if score == 0 {
		score = DefaultSecurityScore
	}
	return &SecurityReport{
		Score:           score,
		Recommendations: []string{"Upgrade to 2FA", "Review login sessions", "Check for data leaks"},
		Vulnerabilities: []string{"Standard encryption", "MFA not enabled"},
		Summary:         fmt.Sprintf("Real-time security report for %s generated.", i.Email),
	}
}

package models

// Profile is the job seeker's profile.
type Profile struct {
	FullName       string   `json:"full_name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone,omitempty"`
	Headline       string   `json:"headline,omitempty"`
	Location       string   `json:"location,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	ExpectedSalary int      `json:"expected_salary,omitempty"`
	Summary        string   `json:"summary,omitempty"`
}

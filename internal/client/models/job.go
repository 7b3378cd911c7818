package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Job is a scraped job listing.
type Job struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	Category       string    `json:"category,omitempty"`
	EmploymentType string    `json:"employment_type,omitempty"`
	SalaryMin      int       `json:"salary_min,omitempty"`
	SalaryMax      int       `json:"salary_max,omitempty"`
	Currency       string    `json:"currency,omitempty"`
	Description    string    `json:"description,omitempty"`
	URL            string    `json:"url,omitempty"`
	Source         string    `json:"source,omitempty"`
	PostedAt       time.Time `json:"posted_at"`
	Saved          bool      `json:"saved,omitempty"`
}

// Salary renders the salary band, e.g. "HKD 20000-30000".
func (j Job) Salary() string {
	cur := j.Currency
	if cur == "" {
		cur = "HKD"
	}
	switch {
	case j.SalaryMin > 0 && j.SalaryMax > 0:
		return fmt.Sprintf("%s %d-%d", cur, j.SalaryMin, j.SalaryMax)
	case j.SalaryMin > 0:
		return fmt.Sprintf("%s %d+", cur, j.SalaryMin)
	case j.SalaryMax > 0:
		return fmt.Sprintf("up to %s %d", cur, j.SalaryMax)
	default:
		return "negotiable"
	}
}

func (j Job) String() string {
	return fmt.Sprintf("[%s] %s @ %s (%s, %s)", j.ID, j.Title, j.Company, j.Location, j.Salary())
}

// JobFilter narrows GET /jobs.
type JobFilter struct {
	Query          string
	Location       string
	Category       string
	EmploymentType string
	SalaryMin      int
	Page           int
	Limit          int
}

// Values encodes the filter as query parameters, omitting zero fields.
func (f JobFilter) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val = strings.TrimSpace(val); val != "" {
			v.Set(k, val)
		}
	}
	set("q", f.Query)
	set("location", f.Location)
	set("category", f.Category)
	set("employment_type", f.EmploymentType)
	if f.SalaryMin > 0 {
		v.Set("salary_min", strconv.Itoa(f.SalaryMin))
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

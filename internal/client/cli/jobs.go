package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/hkjobs/internal/client/models"
)

// Jobs searches listings. All arguments form the free-text query; the
// location and salary filters are asked for interactively when the query is
// empty.
func (a *App) Jobs(ctx context.Context, args []string) error {
	f := models.JobFilter{Query: strings.Join(args, " "), Page: 1}

	if f.Query == "" {
		var err error
		if f.Query, err = getSimpleText(a.reader, "Keywords (optional)", a.out); err != nil {
			return err
		}
		if f.Location, err = getSimpleText(a.reader, "Location (optional)", a.out); err != nil {
			return err
		}
		minSalary, err := getSimpleText(a.reader, "Minimum monthly salary in HKD (optional)", a.out)
		if err != nil {
			return err
		}
		if f.SalaryMin, err = parseOptionalInt(minSalary, 0); err != nil {
			return err
		}
	}

	return a.search(ctx, f)
}

// More shows the next page of the previous search.
func (a *App) More(ctx context.Context, _ []string) error {
	a.mu.Lock()
	last := a.lastSearch
	a.mu.Unlock()

	if last == nil {
		a.println("No previous search. Use: jobs [keywords]")
		return nil
	}
	f := *last
	f.Page++
	return a.search(ctx, f)
}

func (a *App) search(ctx context.Context, f models.JobFilter) error {
	page, err := a.jobs.Search(ctx, f)
	if err != nil {
		return err
	}

	if len(page.Items) == 0 {
		a.println("No jobs found.")
	}
	for _, j := range page.Items {
		a.println(j.String())
	}

	if page.HasMore() {
		a.printf("Page %d, %d jobs in total. Type 'more' for the next page.\n", page.Page, page.Total)
		a.mu.Lock()
		a.lastSearch = &f
		a.mu.Unlock()
	} else {
		a.mu.Lock()
		a.lastSearch = nil
		a.mu.Unlock()
	}
	return nil
}

// Job shows one listing in full.
func (a *App) Job(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage{"job", "<id>"}
	}
	j, err := a.jobs.Get(ctx, args[0])
	if err != nil {
		return err
	}

	a.println(j.Title)
	a.printf("Company:  %s\n", j.Company)
	a.printf("Location: %s\n", j.Location)
	a.printf("Salary:   %s\n", j.Salary())
	if j.EmploymentType != "" {
		a.printf("Type:     %s\n", j.EmploymentType)
	}
	if !j.PostedAt.IsZero() {
		a.printf("Posted:   %s\n", j.PostedAt.Local().Format("2006-01-02"))
	}
	if j.URL != "" {
		a.printf("Link:     %s\n", j.URL)
	}
	if j.Saved {
		a.println("(saved)")
	}
	if j.Description != "" {
		a.println()
		a.println(j.Description)
	}
	return nil
}

func (a *App) Save(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage{"save", "<job id>"}
	}
	if err := a.jobs.Save(ctx, args[0]); err != nil {
		return err
	}
	a.println("Saved.")
	return nil
}

func (a *App) Unsave(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage{"unsave", "<job id>"}
	}
	if err := a.jobs.Unsave(ctx, args[0]); err != nil {
		return err
	}
	a.println("Removed from saved jobs.")
	return nil
}

func (a *App) Saved(ctx context.Context, _ []string) error {
	jobs, err := a.jobs.Saved(ctx)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		a.println("No saved jobs.")
	}
	for _, j := range jobs {
		a.println(j.String())
	}
	return nil
}

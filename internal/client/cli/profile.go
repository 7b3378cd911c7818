package cli

import (
	"context"
	"strconv"
	"strings"
)

func (a *App) Profile(ctx context.Context, _ []string) error {
	p, err := a.profile.Get(ctx)
	if err != nil {
		return err
	}

	a.printf("%s <%s>\n", p.FullName, p.Email)
	if p.Headline != "" {
		a.println(p.Headline)
	}
	if p.Phone != "" {
		a.printf("Phone:           %s\n", p.Phone)
	}
	if p.Location != "" {
		a.printf("Location:        %s\n", p.Location)
	}
	if p.ExpectedSalary > 0 {
		a.printf("Expected salary: HKD %d\n", p.ExpectedSalary)
	}
	if len(p.Skills) > 0 {
		a.printf("Skills:          %s\n", strings.Join(p.Skills, ", "))
	}
	if p.Summary != "" {
		a.println()
		a.println(p.Summary)
	}
	return nil
}

// EditProfile walks through every field, keeping the current value when the
// user just presses Enter.
func (a *App) EditProfile(ctx context.Context, _ []string) error {
	p, err := a.profile.Get(ctx)
	if err != nil {
		return err
	}
	cur := *p

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Full name", &cur.FullName},
		{"Email", &cur.Email},
		{"Phone", &cur.Phone},
		{"Headline", &cur.Headline},
		{"Location", &cur.Location},
	}
	for _, f := range fields {
		if *f.dst, err = getTextOrDefault(a.reader, f.prompt, *f.dst, a.out); err != nil {
			return err
		}
	}

	skills, err := getTextOrDefault(a.reader, "Skills (comma separated)", strings.Join(cur.Skills, ", "), a.out)
	if err != nil {
		return err
	}
	cur.Skills = strings.Split(skills, ",")

	salary := ""
	if cur.ExpectedSalary > 0 {
		salary = strconv.Itoa(cur.ExpectedSalary)
	}
	salary, err = getTextOrDefault(a.reader, "Expected monthly salary (HKD)", salary, a.out)
	if err != nil {
		return err
	}
	if cur.ExpectedSalary, err = parseOptionalInt(salary, 0); err != nil {
		return err
	}

	summary, err := GetMultiline(a.reader, "Summary (leave empty to keep the current one)", a.out)
	if err != nil {
		return err
	}
	if summary != "" {
		cur.Summary = summary
	}

	if _, err := a.profile.Update(ctx, cur); err != nil {
		return err
	}
	a.println("Profile updated.")
	return nil
}

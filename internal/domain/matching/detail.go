package matching

import (
	"fmt"
	"strings"
)

// buildDetail derives the human-readable explanation from the component
// scores and display fields. It never influences the numeric score.
func buildDetail(job Job, candidate Candidate, experiences []Experience, components Components) Detail {
	strongFit := make([]string, 0, 4)
	gaps := make([]string, 0, 3)

	if components.Seniority >= 0.7 {
		strongFit = append(strongFit, fmt.Sprintf(
			"Strong seniority match: %s candidate for %s position.",
			displayOr(candidate.Seniority, "experienced"),
			displayOr(job.JobLevel, "role"),
		))
	}

	// Skill blurbs look only at titles, a narrower corpus than scoring uses:
	// a skill buried in a description is a weaker talking point.
	titleCorpus := titlesCorpus(candidate, experiences)

	if components.Skills >= 0.7 {
		matched := filterSkills(job.Requirements.MustHaveSkills, titleCorpus, true)
		if len(matched) > 0 {
			strongFit = append(strongFit, fmt.Sprintf(
				"Strong skills match: %s experience found.",
				strings.Join(matched, ", "),
			))
		}
	}

	if components.Industry >= 0.7 {
		strongFit = append(strongFit, fmt.Sprintf(
			"Strong industry fit: %s experience aligns with job requirements.",
			displayOr(candidate.Industry, "relevant industry"),
		))
	}

	if components.LocationLanguage >= 0.8 {
		strongFit = append(strongFit, fmt.Sprintf(
			"Location and language alignment: %s matches preferences.",
			displayOr(candidate.Country, "location"),
		))
	}

	if components.Skills < 0.5 {
		missing := filterSkills(job.Requirements.MustHaveSkills, titleCorpus, false)
		if len(missing) > 0 {
			gaps = append(gaps, fmt.Sprintf("Missing key skills: %s.", strings.Join(missing, ", ")))
		}
	}

	if components.Industry < 0.5 && len(job.Requirements.Industries) > 0 {
		gaps = append(gaps, fmt.Sprintf(
			"Limited experience in required industries: %s.",
			strings.Join(job.Requirements.Industries, ", "),
		))
	}

	if components.Seniority < 0.5 {
		gaps = append(gaps, fmt.Sprintf(
			"Seniority mismatch: candidate level may not align with %s position.",
			displayOr(job.JobLevel, "required"),
		))
	}

	return Detail{
		Summary:    summarize(job, candidate, components),
		Components: components,
		StrongFit:  strongFit,
		Gaps:       gaps,
	}
}

func summarize(job Job, candidate Candidate, components Components) string {
	total := weightedTotal(components)

	switch {
	case total >= 0.7:
		return fmt.Sprintf(
			"Strong match: %s has relevant experience and aligns well with %s at %s.",
			candidate.FullName, job.JobTitle, job.CompanyName,
		)
	case total >= 0.5:
		return fmt.Sprintf(
			"Moderate match: %s has some relevant experience but may have gaps in specific requirements.",
			candidate.FullName,
		)
	default:
		return fmt.Sprintf(
			"Weak match: %s has limited alignment with the job requirements.",
			candidate.FullName,
		)
	}
}

func titlesCorpus(candidate Candidate, experiences []Experience) string {
	parts := make([]string, 0, 1+len(experiences))
	parts = append(parts, normalize(candidate.CurrentJobTitle))
	for _, exp := range experiences {
		parts = append(parts, normalize(exp.RoleTitle))
	}
	return strings.Join(parts, " ")
}

func filterSkills(skills []string, corpus string, found bool) []string {
	tokens := tokenize(corpus)
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		if matchesSkill(corpus, tokens, skill) == found {
			out = append(out, skill)
		}
	}
	return out
}

func displayOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

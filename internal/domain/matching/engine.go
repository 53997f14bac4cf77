package matching

import (
	"math"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Component weights. Must sum to 1.0.
const (
	WeightSeniority        = 0.25
	WeightSkills           = 0.35
	WeightIndustry         = 0.20
	WeightLocationLanguage = 0.20
)

// Requirements mirrors the requirements_json column on jobs.
type Requirements struct {
	Seniority          string   `json:"seniority"`
	MustHaveSkills     []string `json:"must_have_skills"`
	NiceToHaveSkills   []string `json:"nice_to_have_skills"`
	Industries         []string `json:"industries"`
	LocationPreference []string `json:"location_preference"`
	Languages          []string `json:"languages"`
}

type Job struct {
	ID           uuid.UUID
	CompanyName  string
	JobTitle     string
	JobLevel     string
	RemoteOK     bool
	Requirements Requirements
}

type Candidate struct {
	ID              uuid.UUID
	FullName        string
	CurrentJobTitle string
	CurrentCompany  string
	Industry        string
	Seniority       string
	Country         string
}

// Experience entries are passed most recent first; aside from the location
// lookup the engine treats them as unordered evidence.
type Experience struct {
	CompanyName string
	RoleTitle   string
	Location    string
	Description string
}

type Components struct {
	Seniority        float64 `json:"seniority"`
	Skills           float64 `json:"skills"`
	Industry         float64 `json:"industry"`
	LocationLanguage float64 `json:"location_language"`
}

type Detail struct {
	Summary    string     `json:"summary"`
	Components Components `json:"components"`
	StrongFit  []string   `json:"strong_fit"`
	Gaps       []string   `json:"gaps"`
}

type Result struct {
	Score  float64
	Detail Detail
}

// Compute scores one (job, candidate) pair on a 0-100 scale. It is a pure
// function: missing fields degrade to neutral defaults, never errors.
func Compute(job Job, candidate Candidate, experiences []Experience) Result {
	components := Components{
		Seniority:        seniorityScore(targetSeniority(job), candidate.Seniority, experiences),
		Skills:           skillsScore(job.Requirements, candidate, experiences),
		Industry:         industryScore(job.Requirements.Industries, candidate, experiences),
		LocationLanguage: locationLanguageScore(job, candidate, experiences),
	}

	total := weightedTotal(components)
	score := math.Round(total*100*100) / 100

	return Result{
		Score:  score,
		Detail: buildDetail(job, candidate, experiences, components),
	}
}

func weightedTotal(c Components) float64 {
	return c.Seniority*WeightSeniority +
		c.Skills*WeightSkills +
		c.Industry*WeightIndustry +
		c.LocationLanguage*WeightLocationLanguage
}

// targetSeniority prefers the job_level column, falling back to the
// seniority declared inside requirements_json.
func targetSeniority(job Job) string {
	if strings.TrimSpace(job.JobLevel) != "" {
		return job.JobLevel
	}
	return job.Requirements.Seniority
}

func seniorityScore(jobSeniority, candidateSeniority string, experiences []Experience) float64 {
	jobLevel := normalize(jobSeniority)
	candidateLevel := normalize(candidateSeniority)

	if jobLevel != "" && candidateLevel != "" && jobLevel == candidateLevel {
		return 1.0
	}

	if jobLevel != "" && candidateLevel != "" {
		diff := math.Abs(seniorityLevel(jobLevel) - seniorityLevel(candidateLevel))
		switch {
		case diff == 0:
			return 1.0
		case diff == 0.5:
			return 0.8
		case diff == 1:
			return 0.6
		case diff == 2:
			return 0.4
		default:
			return 0.2
		}
	}

	// Candidate declared nothing; infer from role titles.
	if jobLevel != "" && candidateLevel == "" && len(experiences) > 0 {
		titles := make([]string, 0, len(experiences))
		for _, exp := range experiences {
			titles = append(titles, normalize(exp.RoleTitle))
		}
		joined := strings.Join(titles, " ")

		hasSenior := strings.Contains(joined, "senior") ||
			strings.Contains(joined, "lead") ||
			strings.Contains(joined, "principal")
		hasMid := strings.Contains(joined, "mid")
		hasJunior := strings.Contains(joined, "junior") || strings.Contains(joined, "intern")

		switch {
		case strings.Contains(jobLevel, "senior") && hasSenior:
			return 0.8
		case strings.Contains(jobLevel, "senior") && hasMid:
			return 0.5
		case strings.Contains(jobLevel, "mid") && hasMid:
			return 0.8
		case strings.Contains(jobLevel, "junior") && hasJunior:
			return 0.8
		}

		// Crude proxy: two years per experience entry.
		years := len(experiences) * 2
		if strings.Contains(jobLevel, "senior") && years >= 5 {
			return 0.7
		}
		if strings.Contains(jobLevel, "mid") && years >= 2 {
			return 0.7
		}
	}

	return 0.5
}

func seniorityLevel(label string) float64 {
	if lvl, ok := seniorityLevels[label]; ok {
		return lvl
	}
	return defaultSeniorityLevel
}

func skillsScore(reqs Requirements, candidate Candidate, experiences []Experience) float64 {
	mustHave := reqs.MustHaveSkills
	niceToHave := reqs.NiceToHaveSkills

	if len(mustHave) == 0 && len(niceToHave) == 0 {
		return 0.5
	}

	corpus := skillsCorpus(candidate, experiences)
	tokens := tokenize(corpus)

	mustHaveMatches := 0
	for _, skill := range mustHave {
		if matchesSkill(corpus, tokens, skill) {
			mustHaveMatches++
		}
	}
	niceToHaveMatches := 0
	for _, skill := range niceToHave {
		if matchesSkill(corpus, tokens, skill) {
			niceToHaveMatches++
		}
	}

	const (
		mustHaveWeight   = 0.7
		niceToHaveWeight = 0.3
	)

	mustHaveScore := 0.0
	if len(mustHave) > 0 {
		mustHaveScore = float64(mustHaveMatches) / float64(len(mustHave))
	}
	niceToHaveScore := 0.0
	if len(niceToHave) > 0 {
		niceToHaveScore = float64(niceToHaveMatches) / float64(len(niceToHave))
	}

	baseScore := mustHaveScore*mustHaveWeight + niceToHaveScore*niceToHaveWeight

	// Required skills with zero hits outweigh any nice-to-have credit.
	if len(mustHave) > 0 && mustHaveMatches == 0 {
		return baseScore * 0.3
	}

	return math.Min(1.0, baseScore)
}

func skillsCorpus(candidate Candidate, experiences []Experience) string {
	parts := make([]string, 0, 2+3*len(experiences))
	parts = append(parts, normalize(candidate.CurrentJobTitle), normalize(candidate.Industry))
	for _, exp := range experiences {
		parts = append(parts, normalize(exp.RoleTitle))
	}
	for _, exp := range experiences {
		parts = append(parts, normalize(exp.Description))
	}
	for _, exp := range experiences {
		parts = append(parts, normalize(exp.CompanyName))
	}
	return strings.Join(parts, " ")
}

func industryScore(jobIndustries []string, candidate Candidate, experiences []Experience) float64 {
	if len(jobIndustries) == 0 {
		return 0.5
	}

	parts := make([]string, 0, 1+3*len(experiences))
	parts = append(parts, normalize(candidate.Industry))
	for _, exp := range experiences {
		parts = append(parts, normalize(exp.CompanyName))
	}
	for _, exp := range experiences {
		parts = append(parts, normalize(exp.RoleTitle))
	}
	for _, exp := range experiences {
		parts = append(parts, normalize(exp.Description))
	}
	corpus := strings.Join(parts, " ")

	matches := 0
	for _, industry := range jobIndustries {
		keywords, ok := industryKeywords[normalize(industry)]
		if !ok {
			keywords = []string{industry}
		}
		if containsAnyKeyword(corpus, keywords) {
			matches++
		}
	}

	if matches == len(jobIndustries) {
		return 1.0
	}
	if matches > 0 {
		return 0.6 + (float64(matches)/float64(len(jobIndustries)))*0.3
	}

	// Partial credit for being tech/product adjacent at all.
	if containsAnyKeyword(corpus, techKeywords) {
		return 0.4
	}
	return 0.2
}

func locationLanguageScore(job Job, candidate Candidate, experiences []Experience) float64 {
	prefs := job.Requirements.LocationPreference
	langs := job.Requirements.Languages

	locationScore := 0.5
	languageScore := 0.5

	candidateCountry := normalize(candidate.Country)

	if len(prefs) > 0 && candidateCountry != "" {
		candidateLocation := ""
		for _, exp := range experiences {
			if normalize(exp.Location) != "" {
				candidateLocation = normalize(exp.Location)
				break
			}
		}

		for _, pref := range prefs {
			p := normalize(pref)
			if p == "" {
				continue
			}
			if strings.Contains(candidateCountry, p) ||
				strings.Contains(p, candidateCountry) ||
				(candidateLocation != "" && strings.Contains(candidateLocation, p)) {
				locationScore = 1.0
				break
			}

			// "Latam" preferences match the region, slightly below an exact
			// country hit; a later preference can still upgrade to 1.0.
			if (strings.Contains(p, "latam") || strings.Contains(p, "latin")) &&
				containsAnyKeyword(candidateCountry, latamCountries) {
				locationScore = 0.9
			}
		}

		if job.RemoteOK && locationScore <= 0.5 {
			locationScore = 0.6
		}
	} else if job.RemoteOK {
		locationScore = 1.0
	}

	if len(langs) > 0 {
		if candidateCountry != "" && containsAnyKeyword(candidateCountry, latamCountries) {
			if anyLanguageContains(langs, "spanish") {
				languageScore += 0.3
			}
			if anyLanguageContains(langs, "english") {
				languageScore += 0.2
			}
		}

		if len(langs) == 1 && strings.Contains(normalize(langs[0]), "english") &&
			candidateCountry != "" && containsAnyKeyword(candidateCountry, englishSpeakingCountries) {
			languageScore = 1.0
		}

		languageScore = math.Min(1.0, languageScore)
	} else {
		languageScore = 1.0
	}

	return (locationScore + languageScore) / 2
}

func anyLanguageContains(langs []string, needle string) bool {
	for _, lang := range langs {
		if strings.Contains(normalize(lang), needle) {
			return true
		}
	}
	return false
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// matchesSkill reports whether the corpus mentions the skill, either as a raw
// substring or token by token, where close word variants ("management" vs
// "manager") count via a shared-prefix comparison.
func matchesSkill(corpus string, corpusTokens map[string]bool, skill string) bool {
	kw := normalize(skill)
	if kw == "" {
		return false
	}
	if strings.Contains(corpus, kw) {
		return true
	}

	parts := strings.Fields(kw)
	if len(parts) == 0 {
		return false
	}
	for _, part := range parts {
		if !tokenMatches(corpusTokens, part) {
			return false
		}
	}
	return true
}

const stemPrefixLen = 6

func tokenMatches(tokens map[string]bool, part string) bool {
	if tokens[part] {
		return true
	}
	if len(part) < stemPrefixLen {
		return false
	}
	prefix := part[:stemPrefixLen]
	for tok := range tokens {
		if len(tok) >= stemPrefixLen && tok[:stemPrefixLen] == prefix {
			return true
		}
	}
	return false
}

// tokenize splits normalized text into word tokens, keeping tech-name runes
// like "c++", "c#" and "node.js" intact.
func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if w != "" {
			tokens[w] = true
		}
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func containsKeyword(corpus, keyword string) bool {
	kw := normalize(keyword)
	return kw != "" && strings.Contains(corpus, kw)
}

func containsAnyKeyword(corpus string, keywords []string) bool {
	for _, kw := range keywords {
		if containsKeyword(corpus, kw) {
			return true
		}
	}
	return false
}

package planning

import "math"

// SectionScore reports how filled one template section is.
type SectionScore struct {
	Name          string   `json:"name"`
	Score         int      `json:"score"`
	MissingFields []string `json:"missingFields"`
}

// Report summarizes how complete the collected PRD data is against a
// template.
type Report struct {
	OverallScore int            `json:"overallScore"`
	Sections     []SectionScore `json:"sections"`
	CriticalGaps []string       `json:"criticalGaps"`
}

// MissingField identifies an unfilled high priority template slot.
type MissingField struct {
	Section string
	Field   string
	Hint    string
}

func fieldFilled(data map[string]interface{}, key string) bool {
	v, ok := data[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case []interface{}:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	}
	return true
}

// CheckCompleteness scores each section as the rounded percentage of
// filled fields and the overall score as the rounded mean of section
// scores. Critical gaps list unfilled high priority fields as
// "section - hint".
func CheckCompleteness(data map[string]interface{}, tpl Template) Report {
	report := Report{}
	total := 0
	for _, section := range tpl.Sections {
		filled := 0
		var missing []string
		for _, f := range section.Fields {
			if fieldFilled(data, f.Key) {
				filled++
			} else {
				missing = append(missing, f.Key)
				if f.Priority == PriorityHigh {
					report.CriticalGaps = append(report.CriticalGaps, section.Name+" - "+f.Hint)
				}
			}
		}
		score := 0
		if len(section.Fields) > 0 {
			score = int(math.Round(float64(filled) / float64(len(section.Fields)) * 100))
		}
		report.Sections = append(report.Sections, SectionScore{
			Name:          section.Name,
			Score:         score,
			MissingFields: missing,
		})
		total += score
	}
	if len(report.Sections) > 0 {
		report.OverallScore = int(math.Round(float64(total) / float64(len(report.Sections))))
	}
	return report
}

// NextSection returns the least complete section name, or "" when all
// sections are full.
func NextSection(report Report) string {
	best := ""
	bestScore := 100
	for _, s := range report.Sections {
		if s.Score < 100 && s.Score < bestScore {
			best = s.Name
			bestScore = s.Score
		}
	}
	return best
}

// MissingHighPriorityFields lists every unfilled high priority field.
func MissingHighPriorityFields(data map[string]interface{}, tpl Template) []MissingField {
	var missing []MissingField
	for _, section := range tpl.Sections {
		for _, f := range section.Fields {
			if f.Priority == PriorityHigh && !fieldFilled(data, f.Key) {
				missing = append(missing, MissingField{
					Section: section.Name,
					Field:   f.Key,
					Hint:    f.Hint,
				})
			}
		}
	}
	return missing
}

// IsCompleteEnough decides whether the questionnaire can stop asking.
func IsCompleteEnough(report Report, questionCount, maxQuestions int) bool {
	if questionCount >= maxQuestions {
		return true
	}
	if report.OverallScore >= 90 {
		return true
	}
	progress := float64(questionCount) / float64(maxQuestions) * 100
	if progress >= 80 && report.OverallScore >= 70 {
		return true
	}
	if len(report.CriticalGaps) == 0 && report.OverallScore >= 80 {
		return true
	}
	return false
}

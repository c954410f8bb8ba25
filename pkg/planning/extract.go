package planning

import (
	"regexp"
	"strings"
)

// QuestionType classifies how a question expects to be answered.
type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
)

// Question is a dynamically generated interview question.
type Question struct {
	Question      string       `json:"question"`
	Type          QuestionType `json:"type"`
	TargetSection string       `json:"targetSection"`
	Rationale     string       `json:"rationale,omitempty"`
}

// Option is one answer choice for a choice question.
type Option struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// Answer records one processed question/answer pair.
type Answer struct {
	QuestionID string `json:"questionId"`
	Question   string `json:"question"`
	Text       string `json:"text"`
	Section    string `json:"section"`
}

type extractKind int

const (
	asText extractKind = iota
	asList
	asKeyValue
)

// extractRule maps question keywords to the PRD field an answer fills.
// The first rule whose keyword appears in the question wins; a rule
// with no keywords is the section default.
type extractRule struct {
	keywords []string
	field    string
	kind     extractKind
}

var extractionRules = map[string][]extractRule{
	"제품 개요": {
		{keywords: []string{"제품명", "이름"}, field: "productName"},
		{keywords: []string{"한 줄", "요약"}, field: "productOneLine"},
		{keywords: []string{"비전"}, field: "productVision"},
		{keywords: []string{"목표"}, field: "productGoals"},
		{keywords: []string{"미션"}, field: "productMission"},
		{field: "productOneLine"},
	},
	"문제 정의": {
		{keywords: []string{"핵심", "주요"}, field: "coreProblem"},
		{keywords: []string{"영향", "impact"}, field: "problemImpact", kind: asList},
		{keywords: []string{"시장", "규모"}, field: "marketSize"},
		{field: "coreProblem"},
	},
	"타겟 사용자": {
		{keywords: []string{"주 페르소나"}, field: "personaPrimary"},
		{keywords: []string{"부 페르소나"}, field: "personaSecondary"},
		{keywords: []string{"상세", "구체"}, field: "targetUserDetail"},
		{field: "targetUsers", kind: asList},
	},
	"기존 해결 방법": {
		{keywords: []string{"한계", "문제"}, field: "solutionLimitations", kind: asList},
		{field: "existingSolution"},
	},
	"경쟁 분석": {
		{keywords: []string{"경쟁사", "competitor"}, field: "competitors", kind: asList},
		{keywords: []string{"우위", "차별"}, field: "competitiveAdvantage"},
		{field: "competitors", kind: asList},
	},
	"핵심 가치 제안": {
		{keywords: []string{"value proposition", "가치 제안"}, field: "valueProposition"},
		{field: "coreValue", kind: asList},
	},
	"비즈니스 모델": {
		{keywords: []string{"수익 예측", "revenue"}, field: "revenueProjection"},
		{keywords: []string{"수익"}, field: "businessModel"},
		{keywords: []string{"무료", "free tier"}, field: "freeTier"},
		{keywords: []string{"가격", "pricing"}, field: "pricing"},
		{keywords: []string{"전환", "conversion"}, field: "conversionStrategy"},
		{keywords: []string{"ltv", "cac", "단위 경제"}, field: "unitEconomics"},
		{field: "businessModel"},
	},
	"핵심 기능": {
		{keywords: []string{"상세", "설명"}, field: "functionDescriptions", kind: asKeyValue},
		{keywords: []string{"우선순위", "phase"}, field: "functionPriority"},
		{keywords: []string{"예외"}, field: "exceptionHandling"},
		{field: "coreFunctions", kind: asList},
	},
	"사용자 플로우": {
		{keywords: []string{"온보딩", "onboarding"}, field: "onboarding"},
		{field: "userFlow"},
	},
	"MVP 범위": {
		{keywords: []string{"기능", "상세"}, field: "mvpFeatures"},
		{field: "mvpScope"},
	},
	"성공 지표 (KPI)": {
		{keywords: []string{"목표", "수치"}, field: "metricTargets", kind: asKeyValue},
		{keywords: []string{"퍼널", "funnel"}, field: "conversionFunnel"},
		{field: "successMetrics", kind: asList},
	},
	"출시 계획": {
		{keywords: []string{"마일스톤", "milestone"}, field: "milestones"},
		{keywords: []string{"gtm", "go to market", "마케팅"}, field: "goToMarket"},
		{field: "launchTimeline"},
	},
	"리스크 및 대응": {
		{keywords: []string{"대응", "mitigation"}, field: "mitigation"},
		{field: "risks", kind: asList},
	},
}

// sectionAliases fold alternate section names onto canonical rule keys.
var sectionAliases = map[string]string{
	"기존 솔루션 분석": "기존 해결 방법",
	"성공 지표":     "성공 지표 (KPI)",
}

var (
	listSplitRe = regexp.MustCompile(`[,;]`)
	ordinalRe   = regexp.MustCompile(`^(\d+)$`)
	kvLineRe    = regexp.MustCompile(`(.+?):\s*(.+)`)
)

// ResolveChoice expands an ordinal answer ("2") into the matching
// option text. Non-ordinal answers pass through unchanged.
func ResolveChoice(answer string, options []Option) string {
	if len(options) == 0 {
		return answer
	}
	m := ordinalRe.FindStringSubmatch(strings.TrimSpace(answer))
	if m == nil {
		return answer
	}
	idx := 0
	for _, c := range m[1] {
		idx = idx*10 + int(c-'0')
	}
	idx--
	if idx < 0 || idx >= len(options) {
		return answer
	}
	opt := options[idx]
	if opt.Description != "" {
		return opt.Label + " - " + opt.Description
	}
	return opt.Label
}

func splitList(answer string) []interface{} {
	parts := listSplitRe.Split(answer, -1)
	out := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseKeyValues(answer string) map[string]interface{} {
	out := map[string]interface{}{}
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := kvLineRe.FindStringSubmatch(line); m != nil {
			out[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
		}
	}
	return out
}

func snakeField(section string) string {
	return strings.ToLower(strings.Join(strings.Fields(section), "_"))
}

// ExtractAnswer maps an answer onto PRD fields using the rule table
// for the question's target section. Ordinal answers to choice
// questions are resolved against the options first. Unknown sections
// store the answer under a snake_case field named after the section.
func ExtractAnswer(section, question, answer string, options []Option) map[string]interface{} {
	processed := ResolveChoice(answer, options)

	key := section
	if canonical, ok := sectionAliases[key]; ok {
		key = canonical
	}
	rules, ok := extractionRules[key]
	if !ok {
		return map[string]interface{}{snakeField(section): processed}
	}

	lowerQ := strings.ToLower(question)
	for _, rule := range rules {
		if len(rule.keywords) > 0 && !matchesAny(question, lowerQ, rule.keywords) {
			continue
		}
		switch rule.kind {
		case asList:
			return map[string]interface{}{rule.field: splitList(processed)}
		case asKeyValue:
			return map[string]interface{}{rule.field: parseKeyValues(processed)}
		default:
			return map[string]interface{}{rule.field: processed}
		}
	}
	return map[string]interface{}{snakeField(section): processed}
}

func matchesAny(question, lowerQuestion string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(question, kw) || strings.Contains(lowerQuestion, kw) {
			return true
		}
	}
	return false
}

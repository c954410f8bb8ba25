package planning

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"ai-planner-be/pkg/llm"
	"ai-planner-be/pkg/utils"
)

// Generator produces interview questions, answer options, follow-ups,
// and the final PRD with an LLM backend.
type Generator struct {
	provider llm.LLMProvider
}

func NewGenerator(provider llm.LLMProvider) *Generator {
	return &Generator{provider: provider}
}

// QuestionInput carries everything the question prompt needs.
type QuestionInput struct {
	QuestionCount  int
	MaxQuestions   int
	Phase          Phase
	Report         Report
	CriticalGaps   []MissingField
	Context        map[string]interface{}
	AskedQuestions []string
}

// FallbackQuestion is asked when the model output cannot be parsed.
func FallbackQuestion() Question {
	return Question{
		Question:      "제품의 핵심 가치는 무엇인가요?",
		Type:          QuestionText,
		TargetSection: "핵심 가치 제안",
		Rationale:     "fallback question after a parse failure",
	}
}

func fallbackOptions() []Option {
	return []Option{
		{Label: "네", Value: "yes", Description: "진행합니다"},
		{Label: "아니오", Value: "no", Description: "다른 방향으로"},
		{Label: "기타", Value: "other", Description: "직접 입력하겠습니다"},
	}
}

// FormatConversationContext renders the collected context block for
// prompt injection.
func FormatConversationContext(ctx map[string]interface{}) string {
	originalIdea, _ := ctx["originalIdea"].(string)
	product, _ := ctx["product"].(string)
	if originalIdea == "" && product == "" {
		return "아직 수집된 정보가 없습니다. 제품 개요부터 시작하세요."
	}

	idea := originalIdea
	if idea == "" {
		idea = product
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**⚠️ 사용자가 처음 설명한 제품 아이디어 (가장 중요!)**: %s\n", idea)
	if product != "" && product != idea {
		fmt.Fprintf(&b, "**현재 제품 정보**: %s\n", product)
	}
	fmt.Fprintf(&b, "**문제**: %s\n", stringOr(ctx, "problem", "미정의"))
	fmt.Fprintf(&b, "**타겟**: %s\n", stringOr(ctx, "target", "미정의"))

	values := "미정의"
	switch v := ctx["values"].(type) {
	case []string:
		if len(v) > 0 {
			values = strings.Join(v, ", ")
		}
	case []interface{}:
		var parts []string
		for _, e := range v {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			values = strings.Join(parts, ", ")
		}
	}
	fmt.Fprintf(&b, "**핵심 가치**: %s", values)
	return b.String()
}

func stringOr(m map[string]interface{}, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func (in QuestionInput) promptValues() map[string]string {
	sectionScores := make([]string, 0, len(in.Report.Sections))
	for _, s := range in.Report.Sections {
		sectionScores = append(sectionScores, fmt.Sprintf("- %s: %d%%", s.Name, s.Score))
	}

	gaps := "없음 (모든 high priority 필드 채워짐)"
	if len(in.CriticalGaps) > 0 {
		lines := make([]string, 0, len(in.CriticalGaps))
		for _, g := range in.CriticalGaps {
			lines = append(lines, fmt.Sprintf("- %s: %s", g.Section, g.Hint))
		}
		gaps = strings.Join(lines, "\n")
	}

	asked := "아직 질문한 내용이 없습니다 (첫 질문)."
	if len(in.AskedQuestions) > 0 {
		lines := make([]string, 0, len(in.AskedQuestions))
		for i, q := range in.AskedQuestions {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, q))
		}
		asked = strings.Join(lines, "\n")
	}

	mindset := Mindset(stringOr(in.Context, "userMindset", string(MindsetBalanced)))

	return map[string]string{
		"currentQuestion":     strconv.Itoa(in.QuestionCount),
		"maxQuestions":        strconv.Itoa(in.MaxQuestions),
		"progress":            strconv.Itoa(ProgressPercent(in.QuestionCount, in.MaxQuestions)),
		"remaining":           strconv.Itoa(RemainingQuestions(in.QuestionCount, in.MaxQuestions)),
		"phase":               string(in.Phase),
		"phaseStrategy":       PhaseStrategy(in.Phase),
		"focusAreas":          strings.Join(PhaseFocusAreas(in.Phase), ", "),
		"completenessScore":   strconv.Itoa(in.Report.OverallScore),
		"sectionScores":       strings.Join(sectionScores, "\n"),
		"criticalGaps":        gaps,
		"askedQuestions":      asked,
		"conversationContext": FormatConversationContext(in.Context),
		"userMindset":         string(mindset),
		"mindsetDescription":  MindsetDescription(mindset),
	}
}

// GenerateQuestion asks the model for the next question. Parse
// failures fall back to a safe default rather than failing the run.
func (g *Generator) GenerateQuestion(ctx context.Context, in QuestionInput) (Question, error) {
	prompt := fillPrompt(questionGenerationPrompt, in.promptValues())

	response, err := g.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: questionSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return Question{}, fmt.Errorf("question generation: %w", err)
	}

	var q Question
	if err := utils.DecodeJSONObject(response, &q); err != nil || q.Question == "" {
		return FallbackQuestion(), nil
	}
	if q.Type == "" {
		q.Type = QuestionText
	}
	return q, nil
}

// GenerateOptions asks the model for answer choices for a choice
// question. The "기타" escape option is always present in the result.
func (g *Generator) GenerateOptions(ctx context.Context, q Question, conversationContext map[string]interface{}) []Option {
	mindset := Mindset(stringOr(conversationContext, "userMindset", string(MindsetBalanced)))
	prompt := fillPrompt(optionGenerationPrompt, map[string]string{
		"question":            q.Question,
		"targetSection":       q.TargetSection,
		"conversationContext": FormatConversationContext(conversationContext),
		"userMindset":         string(mindset),
		"mindsetDescription":  MindsetDescription(mindset),
	})

	response, err := g.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: optionSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return fallbackOptions()
	}

	options, ok := decodeOptions(response)
	if !ok || len(options) == 0 {
		return fallbackOptions()
	}
	return EnsureOtherOption(options)
}

func decodeOptions(text string) ([]Option, bool) {
	trimmed := strings.TrimSpace(text)
	// strip a fenced block if present
	if idx := strings.Index(trimmed, "["); idx >= 0 {
		if end := strings.LastIndex(trimmed, "]"); end > idx {
			trimmed = trimmed[idx : end+1]
		}
	}
	var options []Option
	if err := json.Unmarshal([]byte(trimmed), &options); err != nil {
		return nil, false
	}
	return options, true
}

// EnsureOtherOption appends the free-input escape option when absent.
func EnsureOtherOption(options []Option) []Option {
	for _, opt := range options {
		if opt.Value == "other" || strings.Contains(opt.Label, "기타") {
			return options
		}
	}
	return append(options, Option{Label: "기타", Value: "other", Description: "직접 입력하겠습니다"})
}

// GenerateFollowup produces a one-sentence probing question for a thin
// answer.
func (g *Generator) GenerateFollowup(ctx context.Context, question, answer string, prdData map[string]interface{}) (string, error) {
	dataJSON, err := json.MarshalIndent(prdData, "", "  ")
	if err != nil {
		dataJSON = []byte("{}")
	}
	prompt := fillPrompt(followupUserPrompt, map[string]string{
		"question": question,
		"answer":   answer,
		"prdData":  string(dataJSON),
	})

	response, err := g.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: followupSystemPrompt},
		{Role: "user", Content: prompt},
	}, llm.WithTemperature(0.4))
	if err != nil {
		return "", fmt.Errorf("followup generation: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// GenerateFinalPRD produces the polished document from all collected
// data plus revenue calculation hints.
func (g *Generator) GenerateFinalPRD(ctx context.Context, data map[string]interface{}, answers []Answer) (string, error) {
	pricing := ExtractPricing(dataString(data, "pricing"))
	conversionRate := ExtractConversionRate(data)

	enriched := map[string]interface{}{}
	for k, v := range data {
		enriched[k] = v
	}
	enriched["_calculations"] = map[string]interface{}{
		"pricing_monthly": pricing,
		"conversion_rate": conversionRate,
		"calculation_note": fmt.Sprintf(
			"MRR = (DAU × %d%% × %d원)", conversionRate, pricing),
	}

	dataJSON, err := json.MarshalIndent(enriched, "", "  ")
	if err != nil {
		return "", fmt.Errorf("final prd: %w", err)
	}

	var answerLines []string
	for _, a := range answers {
		answerLines = append(answerLines, fmt.Sprintf("Q: %s\nA: %s", a.QuestionID, a.Text))
	}
	allData := string(dataJSON) + "\n\n답변 내역:\n" + strings.Join(answerLines, "\n\n")

	prompt := fillPrompt(finalPRDPrompt, map[string]string{"all_data": allData})
	response, err := g.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: finalPRDSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("final prd: %w", err)
	}
	return response, nil
}

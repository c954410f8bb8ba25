package planning

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-planner-be/pkg/llm"
)

type cannedProvider struct {
	response string
	err      error
	lastHist []llm.Message
}

func (p *cannedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	p.lastHist = history
	return p.response, p.err
}

func (p *cannedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.response, p.err
}

func TestGenerateQuestionParsesFencedJSON(t *testing.T) {
	provider := &cannedProvider{response: "```json\n{\"question\": \"타겟은 누구인가요?\", \"type\": \"text\", \"targetSection\": \"타겟 사용자\"}\n```"}
	gen := NewGenerator(provider)

	q, err := gen.GenerateQuestion(context.Background(), QuestionInput{MaxQuestions: 30})
	if err != nil {
		t.Fatalf("GenerateQuestion: %v", err)
	}
	if q.Question != "타겟은 누구인가요?" || q.TargetSection != "타겟 사용자" {
		t.Errorf("parsed question = %+v", q)
	}
}

func TestGenerateQuestionFallsBackOnGarbage(t *testing.T) {
	gen := NewGenerator(&cannedProvider{response: "JSON이 아닌 장황한 설명"})
	q, err := gen.GenerateQuestion(context.Background(), QuestionInput{MaxQuestions: 30})
	if err != nil {
		t.Fatalf("GenerateQuestion: %v", err)
	}
	if q != FallbackQuestion() {
		t.Errorf("expected fallback, got %+v", q)
	}
}

func TestGenerateQuestionDefaultsTypeToText(t *testing.T) {
	gen := NewGenerator(&cannedProvider{response: `{"question": "문제는?", "targetSection": "문제 정의"}`})
	q, err := gen.GenerateQuestion(context.Background(), QuestionInput{MaxQuestions: 30})
	if err != nil {
		t.Fatalf("GenerateQuestion: %v", err)
	}
	if q.Type != QuestionText {
		t.Errorf("type = %q, want text", q.Type)
	}
}

func TestGenerateQuestionPromptListsAskedQuestions(t *testing.T) {
	provider := &cannedProvider{response: questionJSON("다음 질문입니다", "text", "핵심 기능")}
	gen := NewGenerator(provider)

	_, err := gen.GenerateQuestion(context.Background(), QuestionInput{
		MaxQuestions:   30,
		AskedQuestions: []string{"핵심 문제는 무엇인가요?", "타겟은 누구인가요?"},
	})
	if err != nil {
		t.Fatalf("GenerateQuestion: %v", err)
	}

	prompt := provider.lastHist[len(provider.lastHist)-1].Content
	if strings.Contains(prompt, "{askedQuestions}") {
		t.Error("askedQuestions placeholder left unfilled")
	}
	for _, want := range []string{"1. 핵심 문제는 무엇인가요?", "2. 타겟은 누구인가요?"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing asked question %q", want)
		}
	}

	// A first question carries the no-history marker instead.
	if _, err := gen.GenerateQuestion(context.Background(), QuestionInput{MaxQuestions: 30}); err != nil {
		t.Fatalf("GenerateQuestion: %v", err)
	}
	prompt = provider.lastHist[len(provider.lastHist)-1].Content
	if !strings.Contains(prompt, "아직 질문한 내용이 없습니다") {
		t.Error("prompt missing first-question marker")
	}
}

func TestGenerateQuestionPropagatesProviderError(t *testing.T) {
	gen := NewGenerator(&cannedProvider{err: errors.New("connection refused")})
	if _, err := gen.GenerateQuestion(context.Background(), QuestionInput{MaxQuestions: 30}); err == nil {
		t.Fatal("expected error from provider")
	}
}

func TestGenerateOptionsFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		provider *cannedProvider
	}{
		{"provider error", &cannedProvider{err: errors.New("timeout")}},
		{"bad json", &cannedProvider{response: "선택지를 드릴 수 없습니다"}},
		{"empty array", &cannedProvider{response: "[]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewGenerator(tt.provider)
			opts := gen.GenerateOptions(context.Background(), Question{Question: "q"}, nil)
			if len(opts) != 3 || opts[0].Label != "네" {
				t.Errorf("expected fallback options, got %+v", opts)
			}
		})
	}
}

func TestGenerateOptionsAppendsEscape(t *testing.T) {
	gen := NewGenerator(&cannedProvider{
		response: `선택지입니다: [{"label": "구독", "value": "subscription"}]`,
	})
	opts := gen.GenerateOptions(context.Background(), Question{Question: "q"}, nil)
	if len(opts) != 2 || opts[1].Value != "other" {
		t.Errorf("escape option missing: %+v", opts)
	}
}

func TestFormatConversationContext(t *testing.T) {
	if got := FormatConversationContext(nil); !strings.Contains(got, "아직 수집된 정보가 없습니다") {
		t.Errorf("empty context = %q", got)
	}

	got := FormatConversationContext(map[string]interface{}{
		"originalIdea": "밥 친구 매칭 앱",
		"product":      "밥친구: 동네 밥 친구 매칭",
		"problem":      "혼밥이 외롭다",
		"values":       []interface{}{"빠른 매칭", "안전"},
	})
	for _, want := range []string{
		"밥 친구 매칭 앱",
		"**현재 제품 정보**: 밥친구: 동네 밥 친구 매칭",
		"혼밥이 외롭다",
		"**타겟**: 미정의",
		"빠른 매칭, 안전",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context block missing %q in %q", want, got)
		}
	}
}

func TestGenerateFinalPRDEnrichesCalculations(t *testing.T) {
	provider := &cannedProvider{response: "# 최종 PRD"}
	gen := NewGenerator(provider)

	data := map[string]interface{}{
		"pricing":       "월 9,900원",
		"metricTargets": map[string]interface{}{"유료 전환율": "8%"},
	}
	out, err := gen.GenerateFinalPRD(context.Background(), data, []Answer{
		{QuestionID: "q1_비즈니스_모델", Text: "구독"},
	})
	if err != nil {
		t.Fatalf("GenerateFinalPRD: %v", err)
	}
	if out != "# 최종 PRD" {
		t.Errorf("final PRD = %q", out)
	}

	prompt := provider.lastHist[len(provider.lastHist)-1].Content
	for _, want := range []string{
		"MRR = (DAU × 8% × 9900원)",
		"q1_비즈니스_모델",
		"답변 내역:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("final prompt missing %q", want)
		}
	}
}

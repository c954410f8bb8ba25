package userflow

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"ai-planner-be/pkg/llm"
	"ai-planner-be/pkg/workflow"
)

// stubProvider dispatches on the system prompt to answer each prompt
// family with a canned response.
type stubProvider struct {
	question string
	analysis string
	final    string
	err      error
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	system := history[0].Content
	switch {
	case strings.Contains(system, "질문을 생성"):
		return s.question, nil
	case strings.Contains(system, "핵심 정보를 추출"):
		return s.analysis, nil
	default:
		return s.final, nil
	}
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func newTestGraph(t *testing.T, provider llm.LLMProvider) *Graph {
	t.Helper()
	g, err := NewGraph(Config{
		Provider: provider,
		Now:      func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

func lastAIMessage(t *testing.T, state workflow.State) workflow.Message {
	t.Helper()
	msg, ok := workflow.LastOfRole(state.Messages(KeyMessages), workflow.RoleAI)
	if !ok {
		t.Fatal("no assistant message in state")
	}
	return msg
}

func TestGraphOnboardingShowsPRDSummary(t *testing.T) {
	provider := &stubProvider{
		question: `{"questionText": "화면 개수는 몇 개인가요?", "choices": ["A) 3-5개", "B) 6-8개"]}`,
	}
	g := newTestGraph(t, provider)

	state, err := g.Resume(context.Background(), g.NewSession(samplePRD, "user-1", "project-1"), "")
	if err != nil {
		t.Fatalf("initial resume: %v", err)
	}

	msgs := state.Messages(KeyMessages)
	if len(msgs) != 2 {
		t.Fatalf("expected greeting + first question, got %d messages", len(msgs))
	}
	if !strings.Contains(msgs[0].Content, "밥친구의 PRD를 확인했습니다") {
		t.Errorf("greeting = %q", msgs[0].Content)
	}
	if !strings.Contains(msgs[1].Content, "**질문 1/20** - 1단계: 전체 화면 구조") {
		t.Errorf("first question header = %q", msgs[1].Content)
	}
	if !strings.Contains(msgs[1].Content, "D) 직접 입력") {
		t.Error("choice questions must offer free input")
	}
	if !state.Bool(KeyAwaitingAnswer) {
		t.Error("graph should pause for the first answer")
	}
	if !strings.Contains(state.String(KeyFlowContent), "# 유저 플로우 문서") {
		t.Error("empty flow template not seeded")
	}
}

func TestGraphProcessAnswerUpdatesContext(t *testing.T) {
	provider := &stubProvider{
		question: `{"questionText": "어떤 화면들이 있나요?"}`,
		analysis: `{"extractedInfo": {"screens": ["메인 화면", "설정 화면"]}, "needsFollowUp": false, "completenessScore": 60}`,
	}
	g := newTestGraph(t, provider)
	ctx := context.Background()

	state, err := g.Resume(ctx, g.NewSession(samplePRD, "user-1", "project-1"), "")
	if err != nil {
		t.Fatalf("initial resume: %v", err)
	}
	state, err = g.Resume(ctx, state, "메인 화면이랑 설정 화면이 있어요")
	if err != nil {
		t.Fatalf("answer resume: %v", err)
	}

	flowCtx := contextFromState(state)
	if len(flowCtx.ScreenList) != 2 || flowCtx.ScreenList[0].Name != "메인 화면" {
		t.Errorf("screen list not extracted: %+v", flowCtx)
	}

	// Score accrues as analysis score divided by the budget.
	if got := state.Float(KeyScore); got != 3 {
		t.Errorf("score = %v, want 60/20 = 3", got)
	}

	answers := answersFromState(state)
	if len(answers) != 1 || answers[0].QuestionID != "uf_q1" {
		t.Errorf("answer record = %+v", answers)
	}

	if !strings.Contains(state.String(KeyFlowContent), "1. **메인 화면**") {
		t.Error("draft screen list not patched")
	}
	if got := state.Int(KeyQuestionCount); got != 2 {
		t.Errorf("questionCount = %d, want 2", got)
	}
}

func TestGraphFollowupFlow(t *testing.T) {
	provider := &stubProvider{
		question: `{"questionText": "메인 화면에는 어떤 버튼이 있나요?"}`,
		analysis: `{"extractedInfo": {}, "needsFollowUp": true, "followUpReason": "동작이 불명확", "completenessScore": 30}`,
	}
	g := newTestGraph(t, provider)
	ctx := context.Background()

	state, _ := g.Resume(ctx, g.NewSession(samplePRD, "", ""), "")
	state, err := g.Resume(ctx, state, "추가 버튼이 있어요")
	if err != nil {
		t.Fatalf("answer resume: %v", err)
	}

	last := lastAIMessage(t, state)
	if !strings.Contains(last.Content, "꼬리 질문") || !strings.Contains(last.Content, "추가 버튼") {
		t.Errorf("followup = %q", last.Content)
	}
	if got := state.Int(KeyQuestionCount); got != 2 {
		t.Errorf("followups must consume budget, count = %d", got)
	}
	latest := latestFromState(state)
	if latest == nil || !latest.IsFollowUp {
		t.Errorf("latest question should be the followup: %+v", latest)
	}
	if state.Bool(KeyNeedsFollowup) {
		t.Error("needsFollowup must reset once the followup is asked")
	}
}

func TestGraphCompletesAtBudget(t *testing.T) {
	provider := &stubProvider{
		question: `{"questionText": "다음 화면 흐름을 설명해주세요"}`,
		analysis: `{"extractedInfo": {"screens": ["메인", "설정"]}, "needsFollowUp": false, "completenessScore": 40}`,
		final:    `{"textFlow": "# 최종 플로우", "asciiScreens": "# ASCII", "mermaidDiagram": "# Mermaid"}`,
	}
	g := newTestGraph(t, provider)
	ctx := context.Background()

	state, err := g.Resume(ctx, g.NewSession(samplePRD, "user-1", "project-1"), "")
	if err != nil {
		t.Fatalf("initial resume: %v", err)
	}

	for i := 0; i < 25 && !state.Bool(KeyIsComplete); i++ {
		state, err = g.Resume(ctx, state, fmt.Sprintf("답변 %d 입니다", i+1))
		if err != nil {
			t.Fatalf("resume %d: %v", i, err)
		}
		if got := state.Int(KeyQuestionCount); got > DefaultMaxQuestions {
			t.Fatalf("budget exceeded: %d", got)
		}
	}

	if !state.Bool(KeyIsComplete) {
		t.Fatal("interview never completed")
	}
	if got := state.String(KeyTextFlow); got != "# 최종 플로우" {
		t.Errorf("textFlow = %q", got)
	}
	if got := state.String(KeyASCIIScreens); got != "# ASCII" {
		t.Errorf("asciiScreens = %q", got)
	}
	if got := state.String(KeyMermaidDiagram); got != "# Mermaid" {
		t.Errorf("mermaidDiagram = %q", got)
	}
	if got := state.Float(KeyScore); got != 100 {
		t.Errorf("final score = %v, want 100", got)
	}
	if !strings.Contains(lastAIMessage(t, state).Content, "유저 플로우 작성이 완료되었습니다") {
		t.Error("missing completion message")
	}
}

func TestGraphFinalFlowFallback(t *testing.T) {
	provider := &stubProvider{
		question: `{"questionText": "어떤 화면들이 있나요?"}`,
		analysis: `{"extractedInfo": {"screens": ["메인", "설정"]}, "needsFollowUp": false, "completenessScore": 100}`,
		final:    "JSON이 아닌 응답",
	}
	g := newTestGraph(t, provider)
	ctx := context.Background()

	state, _ := g.Resume(ctx, g.NewSession(samplePRD, "", ""), "")
	var err error
	for i := 0; i < 25 && !state.Bool(KeyIsComplete); i++ {
		state, err = g.Resume(ctx, state, "화면 이야기입니다")
		if err != nil {
			t.Fatalf("resume %d: %v", i, err)
		}
	}

	if !state.Bool(KeyIsComplete) {
		t.Fatal("interview never completed")
	}
	if !strings.Contains(state.String(KeyTextFlow), "# 유저 플로우 문서") {
		t.Error("fallback text flow not generated")
	}
	if !strings.Contains(state.String(KeyMermaidDiagram), "graph TD") {
		t.Error("fallback mermaid not generated")
	}
	if got := state.Float(KeyScore); got != 80 {
		t.Errorf("fallback score = %v, want 80", got)
	}
}

func TestGraphSnapshotResume(t *testing.T) {
	provider := &stubProvider{
		question: `{"questionText": "어떤 화면들이 있나요?"}`,
		analysis: `{"extractedInfo": {"screens": ["메인"]}, "needsFollowUp": false, "completenessScore": 50}`,
	}
	g := newTestGraph(t, provider)
	ctx := context.Background()

	state, _ := g.Resume(ctx, g.NewSession(samplePRD, "user-1", "project-1"), "")
	state, err := g.Resume(ctx, state, "메인 화면이 있어요")
	if err != nil {
		t.Fatalf("answer resume: %v", err)
	}

	encoded, err := Capture(state).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	snapshot, err := DecodeSnapshot(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	restored := snapshot.Restore()

	// The restored session keeps answering where it left off.
	resumed, err := g.Resume(ctx, restored, "설정 화면도 있어요")
	if err != nil {
		t.Fatalf("restored resume: %v", err)
	}
	if got := len(answersFromState(resumed)); got != 2 {
		t.Errorf("answers after restore = %d, want 2", got)
	}
	if got := resumed.Int(KeyQuestionCount); got != 3 {
		t.Errorf("questionCount after restore = %d, want 3", got)
	}
}

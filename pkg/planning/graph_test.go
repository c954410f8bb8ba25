package planning

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"ai-planner-be/pkg/llm"
	"ai-planner-be/pkg/workflow"
)

// stubProvider answers each prompt family with a canned response,
// dispatching on the system message.
type stubProvider struct {
	mu        sync.Mutex
	questions []string
	qIndex    int
	options   string
	followup  string
	finalPRD  string
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	system := history[0].Content
	switch {
	case strings.Contains(system, "선택지"):
		return s.options, nil
	case strings.Contains(system, "꼬리질문"):
		return s.followup, nil
	case strings.Contains(system, "완벽한 PRD"):
		return s.finalPRD, nil
	default:
		q := s.questions[s.qIndex%len(s.questions)]
		s.qIndex++
		return q, nil
	}
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func questionJSON(text, qtype, section string) string {
	return fmt.Sprintf(`{"question": %q, "type": %q, "targetSection": %q}`, text, qtype, section)
}

func newTestGraph(t *testing.T, provider llm.LLMProvider) *Graph {
	t.Helper()
	g, err := NewGraph(Config{
		Provider: provider,
		Now:      func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) },
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

func TestGraphOnboardingFlow(t *testing.T) {
	provider := &stubProvider{
		questions: []string{questionJSON("핵심 문제는 무엇인가요?", "text", "문제 정의")},
	}
	g := newTestGraph(t, provider)
	ctx := context.Background()

	// Empty session: the graph greets and asks for the idea.
	state, err := g.Resume(ctx, g.NewSession("user-1", "project-1"), "")
	if err != nil {
		t.Fatalf("initial resume: %v", err)
	}
	if !strings.Contains(lastAIMessage(t, state).Content, "어떤 제품 아이디어") {
		t.Errorf("expected idea prompt, got %q", lastAIMessage(t, state).Content)
	}
	if !state.Bool(KeyAwaitingAnswer) {
		t.Error("graph should pause for the idea")
	}

	// The idea lands in context and the template menu appears.
	state, err = g.Resume(ctx, state, "혼밥족을 위한 밥 친구 매칭 앱")
	if err != nil {
		t.Fatalf("idea resume: %v", err)
	}
	if got := state.Map(KeyContext)["originalIdea"]; got != "혼밥족을 위한 밥 친구 매칭 앱" {
		t.Errorf("originalIdea = %v", got)
	}
	if !strings.Contains(lastAIMessage(t, state).Content, "숫자를 입력해주세요") {
		t.Errorf("expected template menu, got %q", lastAIMessage(t, state).Content)
	}

	// Picking a level sets the budget and asks the first question in
	// the same turn.
	state, err = g.Resume(ctx, state, "2")
	if err != nil {
		t.Fatalf("level resume: %v", err)
	}
	if got := state.String(KeyTemplateLevel); got != LevelStandard {
		t.Errorf("templateLevel = %q", got)
	}
	if got := state.Int(KeyMaxQuestions); got != 30 {
		t.Errorf("maxQuestions = %d", got)
	}
	if got := state.Int(KeyQuestionCount); got != 1 {
		t.Errorf("questionCount = %d, want 1", got)
	}
	last := lastAIMessage(t, state)
	if !strings.Contains(last.Content, "**질문 1/30**") || !strings.Contains(last.Content, "핵심 문제는 무엇인가요?") {
		t.Errorf("expected first question, got %q", last.Content)
	}
	if pendingFromState(state) == nil {
		t.Error("pending question not recorded")
	}
}

func TestGraphAnswerExtractionAndDraft(t *testing.T) {
	provider := &stubProvider{
		questions: []string{questionJSON("핵심 문제는 무엇인가요?", "text", "문제 정의")},
	}
	g := newTestGraph(t, provider)
	ctx := context.Background()

	state := g.NewSession("user-1", "project-1")
	for _, msg := range []string{"", "혼밥족을 위한 밥 친구 매칭 앱", "2"} {
		var err error
		state, err = g.Resume(ctx, state, msg)
		if err != nil {
			t.Fatalf("resume(%q): %v", msg, err)
		}
	}

	answer := "혼자 사는 직장인들이 저녁 시간에 함께 식사할 상대를 찾기 어려워 끼니를 대충 때우는 문제입니다"
	state, err := g.Resume(ctx, state, answer)
	if err != nil {
		t.Fatalf("answer resume: %v", err)
	}

	if got := state.Map(KeyPRDData)["coreProblem"]; got != answer {
		t.Errorf("coreProblem = %v", got)
	}
	answers := answersFromState(state)
	if len(answers) != 1 {
		t.Fatalf("expected 1 recorded answer, got %d", len(answers))
	}
	if answers[0].QuestionID != "q1_문제_정의" {
		t.Errorf("questionID = %q", answers[0].QuestionID)
	}
	if !strings.Contains(state.String(KeyPRDContent), "혼자 사는 직장인들이") {
		t.Error("draft PRD not refreshed with the answer")
	}
	// The run pauses on the next question.
	if got := state.Int(KeyQuestionCount); got != 2 {
		t.Errorf("questionCount = %d, want 2", got)
	}
	if !state.Bool(KeyAwaitingAnswer) {
		t.Error("graph should pause for the next answer")
	}
}

func TestGraphFollowupOnThinAnswer(t *testing.T) {
	provider := &stubProvider{
		questions: []string{questionJSON("핵심 문제는 무엇인가요?", "text", "문제 정의")},
		followup:  "구체적으로 어떤 상황에서 그 문제를 느끼시나요?",
	}
	g := newTestGraph(t, provider)
	ctx := context.Background()

	state := g.NewSession("user-1", "project-1")
	for _, msg := range []string{"", "혼밥족을 위한 밥 친구 매칭 앱", "2"} {
		var err error
		state, _ = g.Resume(ctx, state, msg)
		_ = err
	}

	state, err := g.Resume(ctx, state, "글쎄요 잘 모르겠어요")
	if err != nil {
		t.Fatalf("thin answer resume: %v", err)
	}

	last := lastAIMessage(t, state)
	if !strings.Contains(last.Content, "꼬리 질문") {
		t.Errorf("expected followup marker, got %q", last.Content)
	}
	// Follow-ups consume budget and keep the pending question alive.
	if got := state.Int(KeyQuestionCount); got != 2 {
		t.Errorf("questionCount = %d, want 2", got)
	}
	pending := pendingFromState(state)
	if pending == nil || pending.Question.TargetSection != "문제 정의" {
		t.Errorf("pending question dropped during followup: %v", pending)
	}
	if state.Bool(KeyNeedsFollowup) {
		t.Error("needsFollowup must reset after the followup is asked")
	}

	// A real answer after the followup resolves the original question.
	answer := "퇴근 후 저녁마다 혼자 식사를 해결해야 하는 1인 가구 직장인들이 배달 음식으로 대충 때우는 문제입니다"
	state, err = g.Resume(ctx, state, answer)
	if err != nil {
		t.Fatalf("real answer resume: %v", err)
	}
	if got := state.Map(KeyPRDData)["coreProblem"]; got != answer {
		t.Errorf("coreProblem = %v", got)
	}
}

func TestGraphChoiceQuestionOptions(t *testing.T) {
	provider := &stubProvider{
		questions: []string{questionJSON("수익 모델을 선택해주세요", "single_choice", "비즈니스 모델")},
		options:   `[{"label": "구독", "value": "subscription", "description": "월 정기 결제"}, {"label": "광고", "value": "ads"}]`,
	}
	g := newTestGraph(t, provider)
	ctx := context.Background()

	state := g.NewSession("user-1", "project-1")
	for _, msg := range []string{"", "혼밥족을 위한 밥 친구 매칭 앱", "2"} {
		state, _ = g.Resume(ctx, state, msg)
	}

	last := lastAIMessage(t, state)
	if !strings.Contains(last.Content, "1. **구독**") || !strings.Contains(last.Content, "기타") {
		t.Errorf("choice question missing numbered options: %q", last.Content)
	}

	// An ordinal answer resolves to the option text. Choice answers
	// never trigger follow-ups even when short.
	state, err := g.Resume(ctx, state, "1")
	if err != nil {
		t.Fatalf("ordinal resume: %v", err)
	}
	if got := state.Map(KeyPRDData)["businessModel"]; got != "구독 - 월 정기 결제" {
		t.Errorf("businessModel = %v", got)
	}
}

func TestGraphCompletesAtBudget(t *testing.T) {
	sections := []string{"제품 개요", "문제 정의", "타겟 사용자", "핵심 기능"}
	var questions []string
	for i, s := range sections {
		questions = append(questions, questionJSON(fmt.Sprintf("질문 %d", i+1), "text", s))
	}
	provider := &stubProvider{
		questions: questions,
		finalPRD:  "# 최종 PRD\n\n완성된 문서입니다.",
	}

	recorder := &countingRecorder{}
	g, err := NewGraph(Config{Provider: provider, Recorder: recorder})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	ctx := context.Background()

	state := g.NewSession("user-1", "project-1")
	for _, msg := range []string{"", "혼밥족을 위한 밥 친구 매칭 앱", "1"} {
		state, _ = g.Resume(ctx, state, msg)
	}
	if got := state.Int(KeyMaxQuestions); got != 15 {
		t.Fatalf("simple budget = %d, want 15", got)
	}

	answer := "이 질문에 대한 충분히 길고 구체적인 답변을 드리겠습니다 상세한 내용이 여기 들어갑니다"
	for i := 0; i < 20 && !state.Bool(KeyIsComplete); i++ {
		var err error
		state, err = g.Resume(ctx, state, answer)
		if err != nil {
			t.Fatalf("resume %d: %v", i, err)
		}
		if got := state.Int(KeyQuestionCount); got > 15 {
			t.Fatalf("question budget exceeded: %d", got)
		}
	}

	if !state.Bool(KeyIsComplete) {
		t.Fatal("interview never completed")
	}
	if got := state.String(KeyPRDContent); got != "# 최종 PRD\n\n완성된 문서입니다." {
		t.Errorf("final PRD = %q", got)
	}
	if got := state.Int(KeyScore); got != 100 {
		t.Errorf("final score = %d, want 100", got)
	}
	if !strings.Contains(lastAIMessage(t, state).Content, "사용자 플로우") {
		t.Error("missing transition message to the flow stage")
	}
	if recorder.documents == 0 || recorder.turns == 0 {
		t.Errorf("recorder not exercised: %+v", recorder)
	}
}

func TestGraphBudgetCapsEndlessFollowups(t *testing.T) {
	provider := &stubProvider{
		questions: []string{questionJSON("핵심 문제는 무엇인가요?", "text", "문제 정의")},
		followup:  "조금만 더 구체적으로 말씀해주시겠어요?",
		finalPRD:  "# 최종 PRD\n\n미완성 답변 기반 문서입니다.",
	}
	g := newTestGraph(t, provider)
	ctx := context.Background()

	state := g.NewSession("user-1", "project-1")
	for _, msg := range []string{"", "혼밥족을 위한 밥 친구 매칭 앱", "1"} {
		state, _ = g.Resume(ctx, state, msg)
	}
	max := state.Int(KeyMaxQuestions)
	if max != 15 {
		t.Fatalf("simple budget = %d, want 15", max)
	}

	// Every answer is thin, so each turn routes through the follow-up
	// path. The budget still has to end the interview.
	for i := 0; i < 25 && !state.Bool(KeyIsComplete); i++ {
		var err error
		state, err = g.Resume(ctx, state, "글쎄요 잘 모르겠어요")
		if err != nil {
			t.Fatalf("resume %d: %v", i, err)
		}
		if got := state.Int(KeyQuestionCount); got > max+1 {
			t.Fatalf("question budget exceeded on followups: %d", got)
		}
	}

	if !state.Bool(KeyIsComplete) {
		t.Fatal("all-followup interview never completed")
	}
	if got := state.Int(KeyQuestionCount); got > max+1 {
		t.Errorf("questionCount = %d, want at most %d", got, max+1)
	}
}

type countingRecorder struct {
	mu        sync.Mutex
	turns     int
	events    int
	documents int
}

func (r *countingRecorder) RecordTurn(context.Context, string, int, string, string, string) {
	r.mu.Lock()
	r.turns++
	r.mu.Unlock()
}

func (r *countingRecorder) RecordEvent(context.Context, string, string, string, map[string]interface{}) {
	r.mu.Lock()
	r.events++
	r.mu.Unlock()
}

func (r *countingRecorder) SaveDocument(context.Context, string, string, int) {
	r.mu.Lock()
	r.documents++
	r.mu.Unlock()
}

func TestGraphFallbackQuestionOnBadModelOutput(t *testing.T) {
	provider := &stubProvider{questions: []string{"모델이 JSON을 무시하고 떠드는 응답"}}
	g := newTestGraph(t, provider)

	state := g.NewSession("", "")
	var err error
	for _, msg := range []string{"", "아이디어", "2"} {
		state, err = g.Resume(context.Background(), state, msg)
		if err != nil {
			t.Fatalf("resume: %v", err)
		}
	}

	fallback := FallbackQuestion()
	if !strings.Contains(lastAIMessage(t, state).Content, fallback.Question) {
		t.Errorf("expected fallback question, got %q", lastAIMessage(t, state).Content)
	}
}

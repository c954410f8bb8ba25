package planning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-planner-be/pkg/llm"
	"ai-planner-be/pkg/workflow"
)

// Graph node names.
const (
	NodeRouteStart    = "route_start"
	NodeAskOnboarding = "ask_onboarding"
	NodeGenerateQ     = "generate_question"
	NodeProcessAnswer = "process_answer"
	NodeUpdatePRD     = "update_prd"
	NodeFinalPRD      = "generate_final_prd"
)

// Recorder receives persistence side effects from the graph. Failures
// are the implementation's problem; the interview never stops for a
// missed analytics row.
type Recorder interface {
	RecordTurn(ctx context.Context, projectID string, questionNumber int, question, answer, section string)
	RecordEvent(ctx context.Context, userID, projectID, event string, payload map[string]interface{})
	SaveDocument(ctx context.Context, projectID, content string, progress int)
}

// NoopRecorder discards all side effects, for tests and dry runs.
type NoopRecorder struct{}

func (NoopRecorder) RecordTurn(context.Context, string, int, string, string, string)   {}
func (NoopRecorder) RecordEvent(context.Context, string, string, string, map[string]interface{}) {}
func (NoopRecorder) SaveDocument(context.Context, string, string, int)                 {}

// Config wires the planning graph's collaborators.
type Config struct {
	Provider llm.LLMProvider
	Recorder Recorder
	Now      func() time.Time
}

// Graph drives the PRD interview: onboarding, budgeted dynamic
// questions, answer extraction, progressive drafts, and the final
// document.
type Graph struct {
	gen      *Generator
	recorder Recorder
	now      func() time.Time
	wf       *workflow.Graph
}

// NewGraph compiles the planning workflow.
func NewGraph(cfg Config) (*Graph, error) {
	g := &Graph{
		gen:      NewGenerator(cfg.Provider),
		recorder: cfg.Recorder,
		now:      cfg.Now,
	}
	if g.recorder == nil {
		g.recorder = NoopRecorder{}
	}
	if g.now == nil {
		g.now = time.Now
	}

	wf, err := workflow.NewBuilder(StateSchema()).
		AddNode(NodeRouteStart, g.routeStart).
		AddNode(NodeAskOnboarding, g.askOnboarding).
		AddNode(NodeGenerateQ, g.generateQuestion).
		AddNode(NodeProcessAnswer, g.processAnswer).
		AddNode(NodeUpdatePRD, g.updatePRD).
		AddNode(NodeFinalPRD, g.generateFinalPRD).
		AddConditionalEdges(NodeRouteStart, map[string]string{
			"onboarding": NodeAskOnboarding,
			"answer":     NodeProcessAnswer,
			"ask":        NodeGenerateQ,
		}).
		AddConditionalEdges(NodeAskOnboarding, map[string]string{
			"await":    workflow.End,
			"selected": NodeGenerateQ,
		}).
		AddConditionalEdges(NodeGenerateQ, map[string]string{
			"await":    workflow.End,
			"complete": NodeFinalPRD,
		}).
		AddConditionalEdges(NodeProcessAnswer, map[string]string{
			"followup":  NodeGenerateQ,
			"extracted": NodeUpdatePRD,
			"ask":       NodeGenerateQ,
		}).
		AddEdge(NodeUpdatePRD, NodeGenerateQ).
		AddEdge(NodeFinalPRD, workflow.End).
		SetEntry(NodeRouteStart).
		Compile()
	if err != nil {
		return nil, err
	}
	g.wf = wf
	return g, nil
}

// Workflow exposes the compiled graph for direct stepping.
func (g *Graph) Workflow() *workflow.Graph {
	return g.wf
}

// NewSession seeds state for a fresh interview.
func (g *Graph) NewSession(userID, projectID string) workflow.State {
	state := workflow.NewState(StateSchema())
	state[KeyUserID] = userID
	state[KeyProjectID] = projectID
	return state
}

// Resume appends the user's message and runs the graph until it pauses
// for the next answer or finishes the document.
func (g *Graph) Resume(ctx context.Context, state workflow.State, userMessage string) (workflow.State, error) {
	if userMessage != "" {
		state.Apply(StateSchema(), workflow.Update{
			KeyMessages: []interface{}{workflow.Human(userMessage)},
		})
	}
	return g.wf.Invoke(ctx, state)
}

func (g *Graph) routeStart(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	if state.String(KeyTemplateLevel) == "" {
		return nil, workflow.RouteTo("onboarding"), nil
	}
	msgs := state.Messages(KeyMessages)
	if state.Bool(KeyAwaitingAnswer) && len(msgs) > 0 && msgs[len(msgs)-1].Role == workflow.RoleHuman {
		return nil, workflow.RouteTo("answer"), nil
	}
	return nil, workflow.RouteTo("ask"), nil
}

const welcomeMessage = `안녕하세요! 😊

저는 여러분의 제품 아이디어를 체계적인 PRD(Product Requirements Document)로 만들어드리는 AI 기획자입니다.

대화를 통해 질문을 드리고, 답변하실 때마다 PRD가 실시간으로 완성됩니다.

먼저, 어떤 제품 아이디어를 구체화하고 싶으신가요? 한두 문장으로 설명해주세요.`

func templateMenuMessage() string {
	var b strings.Builder
	b.WriteString("좋은 아이디어네요! 이제 얼마나 디테일하게 PRD를 작성할지 선택해주세요:\n")
	for i, opt := range LevelOptions() {
		fmt.Fprintf(&b, "\n%d️⃣ **%s**\n   - %s\n", i+1, opt.Label, opt.Description)
	}
	b.WriteString("\n숫자를 입력해주세요 (1, 2, 3):")
	return b.String()
}

func (g *Graph) askOnboarding(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	msgs := state.Messages(KeyMessages)
	last, hasHuman := workflow.LastOfRole(msgs, workflow.RoleHuman)

	if !hasHuman {
		return workflow.Update{
			KeyMessages:       []interface{}{workflow.AI(welcomeMessage)},
			KeyAwaitingAnswer: true,
		}, workflow.RouteTo("await"), nil
	}

	conversationCtx := state.Map(KeyContext)
	if _, captured := conversationCtx["originalIdea"]; !captured {
		return workflow.Update{
			KeyContext:        map[string]interface{}{"originalIdea": strings.TrimSpace(last.Content)},
			KeyMessages:       []interface{}{workflow.AI(templateMenuMessage())},
			KeyAwaitingAnswer: true,
		}, workflow.RouteTo("await"), nil
	}

	level := ResolveLevelChoice(strings.TrimSpace(last.Content))
	tpl := TemplateByLevel(level)

	label := tpl.Name
	for _, opt := range LevelOptions() {
		if opt.Value == level {
			label = opt.Label
		}
	}
	confirmation := fmt.Sprintf(
		"좋습니다! %s로 진행하겠습니다.\n\n%d개 질문 내외로 PRD를 작성해드리겠습니다. 첫 질문을 시작하겠습니다! 🚀",
		label, tpl.MaxQuestions)

	return workflow.Update{
		KeyTemplateLevel:  level,
		KeyMaxQuestions:   tpl.MaxQuestions,
		KeyPRDContent:     EmptyTemplateMarkdown(tpl, g.now()),
		KeyMessages:       []interface{}{workflow.AI(confirmation)},
		KeyAwaitingAnswer: false,
	}, workflow.RouteTo("selected"), nil
}

func askedQuestions(state workflow.State) []string {
	var asked []string
	for _, a := range answersFromState(state) {
		asked = append(asked, a.Question)
	}
	if p := pendingFromState(state); p != nil {
		asked = append(asked, p.Question.Question)
	}
	return asked
}

func (g *Graph) generateQuestion(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	count := state.Int(KeyQuestionCount)
	max := state.Int(KeyMaxQuestions)
	tpl := TemplateByLevel(state.String(KeyTemplateLevel))
	if max <= 0 {
		max = tpl.MaxQuestions
	}

	// The budget check runs before any follow-up so a run of thin
	// answers cannot push the interview past maxQuestions.
	data := state.Map(KeyPRDData)
	report := CheckCompleteness(data, tpl)
	if IsCompleteEnough(report, count, max) {
		return workflow.Update{KeyIsComplete: true}, workflow.RouteTo("complete"), nil
	}

	// A thin answer keeps the pending question and emits a probing
	// follow-up instead of a new question. Follow-ups count against
	// the budget.
	if state.Bool(KeyNeedsFollowup) && state.String(KeyFollowupText) != "" {
		text := fmt.Sprintf("💡 **꼬리 질문** (%d/%d)\n\n%s",
			count+1, max, state.String(KeyFollowupText))
		return workflow.Update{
			KeyMessages:       []interface{}{workflow.AI(text)},
			KeyQuestionCount:  count + 1,
			KeyNeedsFollowup:  false,
			KeyFollowupText:   "",
			KeyAwaitingAnswer: true,
			KeyMaxQuestions:   max,
		}, workflow.RouteTo("await"), nil
	}

	conversationCtx := AnalyzeContext(data, state.Map(KeyContext))
	phase := CurrentPhase(count, max)

	question, err := g.gen.GenerateQuestion(ctx, QuestionInput{
		QuestionCount:  count,
		MaxQuestions:   max,
		Phase:          phase,
		Report:         report,
		CriticalGaps:   MissingHighPriorityFields(data, tpl),
		Context:        conversationCtx,
		AskedQuestions: askedQuestions(state),
	})
	if err != nil {
		return nil, workflow.Stay, err
	}

	var options []Option
	if question.Type == QuestionSingleChoice || question.Type == QuestionMultipleChoice {
		options = g.gen.GenerateOptions(ctx, question, conversationCtx)
	}

	text := fmt.Sprintf("**질문 %d/%d** (진행률: %d%%)\n\n%s",
		count+1, max, ProgressPercent(count, max), question.Question)
	if len(options) > 0 {
		text += "\n\n💡 아래 번호를 선택하거나, 직접 입력하세요\n\n" + FormatOptions(options)
	}

	return workflow.Update{
		KeyMessages: []interface{}{workflow.AIWithMeta(text, map[string]interface{}{
			"question": question,
			"options":  options,
		})},
		KeyQuestionCount:   count + 1,
		KeyContext:         conversationCtx,
		KeyScore:           report.OverallScore,
		KeyNeedsFollowup:   false,
		KeyAwaitingAnswer:  true,
		KeyPendingQuestion: &PendingQuestion{Question: question, Options: options},
		KeyMaxQuestions:    max,
	}, workflow.RouteTo("await"), nil
}

func (g *Graph) processAnswer(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	msgs := state.Messages(KeyMessages)
	if len(msgs) == 0 || msgs[len(msgs)-1].Role != workflow.RoleHuman {
		return nil, workflow.Stay, fmt.Errorf("last message must be from the user")
	}
	answerText := msgs[len(msgs)-1].Content

	pending := pendingFromState(state)
	if pending == nil {
		// Nothing to resolve the answer against; ask the next question.
		return workflow.Update{KeyAwaitingAnswer: false}, workflow.RouteTo("ask"), nil
	}

	if pending.Question.Type == QuestionText && NeedsFollowup(answerText) {
		followup, err := g.gen.GenerateFollowup(ctx, pending.Question.Question, answerText, state.Map(KeyPRDData))
		if err != nil {
			return nil, workflow.Stay, err
		}
		return workflow.Update{
			KeyAwaitingAnswer: true,
			KeyNeedsFollowup:  true,
			KeyFollowupText:   followup,
		}, workflow.RouteTo("followup"), nil
	}

	count := state.Int(KeyQuestionCount)
	section := pending.Question.TargetSection
	answer := Answer{
		QuestionID: fmt.Sprintf("q%d_%s", count, strings.Join(strings.Fields(section), "_")),
		Question:   pending.Question.Question,
		Text:       answerText,
		Section:    section,
	}

	dataUpdate := ExtractAnswer(section, pending.Question.Question, answerText, pending.Options)

	merged := map[string]interface{}{}
	for k, v := range state.Map(KeyPRDData) {
		merged[k] = v
	}
	for k, v := range dataUpdate {
		merged[k] = v
	}
	conversationCtx := AnalyzeContext(merged, state.Map(KeyContext))

	projectID := state.String(KeyProjectID)
	if projectID != "" {
		g.recorder.RecordTurn(ctx, projectID, count, pending.Question.Question, answerText, section)
		g.recorder.RecordEvent(ctx, state.String(KeyUserID), projectID, "question_answered", map[string]interface{}{
			"questionNumber": count,
			"targetSection":  section,
		})
	}

	return workflow.Update{
		KeyAwaitingAnswer:  false,
		KeyNeedsFollowup:   false,
		KeyAnswers:         []interface{}{answer},
		KeyPRDData:         dataUpdate,
		KeyContext:         conversationCtx,
		KeyPendingQuestion: (*PendingQuestion)(nil),
	}, workflow.RouteTo("extracted"), nil
}

func (g *Graph) updatePRD(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	progress := state.Int(KeyScore)
	content := ProgressivePRD(state.Map(KeyPRDData), progress, g.now())

	if projectID := state.String(KeyProjectID); projectID != "" {
		g.recorder.SaveDocument(ctx, projectID, content, progress)
	}

	return workflow.Update{KeyPRDContent: content}, workflow.Stay, nil
}

func (g *Graph) generateFinalPRD(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	data := state.Map(KeyPRDData)
	answers := answersFromState(state)

	content, err := g.gen.GenerateFinalPRD(ctx, data, answers)
	if err != nil {
		return nil, workflow.Stay, err
	}

	projectID := state.String(KeyProjectID)
	if projectID != "" {
		g.recorder.SaveDocument(ctx, projectID, content, 100)
		g.recorder.RecordEvent(ctx, state.String(KeyUserID), projectID, "prd_completed", map[string]interface{}{
			"totalQuestions": len(answers),
			"completedAt":    g.now().Format(time.RFC3339),
		})
	}

	completion := fmt.Sprintf(
		"✅ PRD 작성이 완료되었습니다!\n\n완성된 PRD 문서를 확인하실 수 있습니다.\n\n총 %d개의 질문에 답변해주셔서 감사합니다. 이 PRD를 기반으로 제품 개발을 시작하실 수 있습니다.",
		len(answers))
	transition := "이제 사용자 플로우를 작성하겠습니다. PRD 내용을 바탕으로 화면 구성과 사용자 흐름을 파악하기 위한 질문을 드릴게요! 🚀"

	return workflow.Update{
		KeyPRDContent: content,
		KeyMessages:   []interface{}{workflow.AI(completion), workflow.AI(transition)},
		KeyIsComplete: true,
		KeyScore:      100,
	}, workflow.Stay, nil
}

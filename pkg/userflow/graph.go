package userflow

import (
	"context"
	"fmt"
	"math"
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
	NodeFinalFlow     = "generate_final_flow"
)

// Recorder receives persistence side effects from the graph.
type Recorder interface {
	RecordTurn(ctx context.Context, projectID string, questionNumber int, question, answer, section string)
	RecordEvent(ctx context.Context, userID, projectID, event string, payload map[string]interface{})
	SaveDocument(ctx context.Context, projectID, content string, progress int)
}

// NoopRecorder discards all side effects.
type NoopRecorder struct{}

func (NoopRecorder) RecordTurn(context.Context, string, int, string, string, string)   {}
func (NoopRecorder) RecordEvent(context.Context, string, string, string, map[string]interface{}) {}
func (NoopRecorder) SaveDocument(context.Context, string, string, int)                 {}

// Config wires the flow graph's collaborators.
type Config struct {
	Provider llm.LLMProvider
	Recorder Recorder
	Now      func() time.Time
}

// Graph drives the user-flow interview: PRD confirmation, staged
// screen/flow questions, progressive drafts, and the final document in
// three formats.
type Graph struct {
	gen      *Generator
	recorder Recorder
	now      func() time.Time
	wf       *workflow.Graph
}

// NewGraph compiles the user-flow workflow.
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
		AddNode(NodeFinalFlow, g.generateFinalFlow).
		AddConditionalEdges(NodeRouteStart, map[string]string{
			"onboarding": NodeAskOnboarding,
			"answer":     NodeProcessAnswer,
			"ask":        NodeGenerateQ,
		}).
		AddEdge(NodeAskOnboarding, NodeGenerateQ).
		AddConditionalEdges(NodeGenerateQ, map[string]string{
			"await":    workflow.End,
			"complete": NodeFinalFlow,
		}).
		AddConditionalEdges(NodeProcessAnswer, map[string]string{
			"ask":      NodeGenerateQ,
			"complete": NodeFinalFlow,
		}).
		AddEdge(NodeFinalFlow, workflow.End).
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

// NewSession seeds state for a fresh interview over a finished PRD.
func (g *Graph) NewSession(prdContent, userID, projectID string) workflow.State {
	state := workflow.NewState(StateSchema())
	state[KeyPRDContent] = prdContent
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
	msgs := state.Messages(KeyMessages)
	if len(msgs) == 0 {
		return nil, workflow.RouteTo("onboarding"), nil
	}
	if state.Bool(KeyAwaitingAnswer) && msgs[len(msgs)-1].Role == workflow.RoleHuman {
		return nil, workflow.RouteTo("answer"), nil
	}
	return nil, workflow.RouteTo("ask"), nil
}

func (g *Graph) askOnboarding(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	prdContent := state.String(KeyPRDContent)
	greeting := fmt.Sprintf(`안녕하세요! %s의 PRD를 확인했습니다.

이미 파악한 정보:
%s

이제 사용자가 어떤 화면들을 보고, 어떤 흐름으로 서비스를 이용하는지 질문하겠습니다.
각 질문마다 선택지를 드릴 테니 선택하시거나 직접 입력해주세요.

📌 답변에 따라 다음 질문이 달라질 수 있습니다.

첫 질문을 시작하겠습니다! 🚀`,
		ExtractProductName(prdContent), ExtractPRDSummary(prdContent))

	return workflow.Update{
		KeyMessages:       []interface{}{workflow.AI(greeting)},
		KeyAwaitingAnswer: false,
		KeyFlowContent:    EmptyTextFlowMarkdown(g.now()),
	}, workflow.Stay, nil
}

func (g *Graph) generateQuestion(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	count := state.Int(KeyQuestionCount)
	max := state.Int(KeyMaxQuestions)
	if max <= 0 {
		max = DefaultMaxQuestions
	}

	if count >= max || state.Float(KeyScore) >= 95 {
		return workflow.Update{KeyIsComplete: true}, workflow.RouteTo("complete"), nil
	}

	// Follow-up: reuse the probing question instead of generating a
	// new one. Follow-ups count against the budget.
	if followup := state.String(KeyCustomQuestion); state.Bool(KeyNeedsFollowup) && followup != "" {
		text := fmt.Sprintf("💡 **꼬리 질문** (%d/%d)\n\n%s", count+1, max, followup)
		return workflow.Update{
			KeyMessages:       []interface{}{workflow.AI(text)},
			KeyAwaitingAnswer: true,
			KeyQuestionCount:  count + 1,
			KeyNeedsFollowup:  false,
			KeyCustomQuestion: "",
			KeyLatestQuestion: &DynamicQuestion{
				ID:           fmt.Sprintf("uf_q%d", count+1),
				QuestionText: followup,
				IsFollowUp:   true,
			},
		}, workflow.RouteTo("await"), nil
	}

	stage := StageFor(count)
	contextText := ContextSummary(contextFromState(state), answersFromState(state))

	question, err := g.gen.GenerateQuestion(ctx, stage, contextText)
	if err != nil {
		// Degrade to a stage prompt so the interview keeps moving.
		fallback := fmt.Sprintf("질문 %d/%d\n\n%s에 대해 설명해주세요.", count+1, max, stage.Name)
		return workflow.Update{
			KeyMessages:       []interface{}{workflow.AI(fallback)},
			KeyAwaitingAnswer: true,
			KeyQuestionCount:  count + 1,
			KeyLatestQuestion: &DynamicQuestion{
				ID:           fmt.Sprintf("uf_q%d", count+1),
				QuestionText: fallback,
				Context:      stage.Name,
			},
		}, workflow.RouteTo("await"), nil
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("**질문 %d/%d** - %s\n", count+1, max, stage.Name))
	parts = append(parts, question.QuestionText)
	if len(question.Choices) > 0 {
		parts = append(parts, "")
		parts = append(parts, question.Choices...)
		parts = append(parts, "\nD) 직접 입력")
	}

	return workflow.Update{
		KeyMessages:       []interface{}{workflow.AI(strings.Join(parts, "\n"))},
		KeyAwaitingAnswer: true,
		KeyQuestionCount:  count + 1,
		KeyLatestQuestion: &DynamicQuestion{
			ID:           fmt.Sprintf("uf_q%d", count+1),
			QuestionText: question.QuestionText,
			Choices:      question.Choices,
			Context:      stage.Name,
			IsFollowUp:   question.IsFollowUp,
		},
	}, workflow.RouteTo("await"), nil
}

func (g *Graph) processAnswer(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	msgs := state.Messages(KeyMessages)
	if len(msgs) == 0 || msgs[len(msgs)-1].Role != workflow.RoleHuman {
		return workflow.Update{KeyAwaitingAnswer: false}, workflow.RouteTo("ask"), nil
	}
	userAnswer := msgs[len(msgs)-1].Content

	latest := latestFromState(state)
	questionText := "질문"
	questionID := fmt.Sprintf("q%d", len(answersFromState(state))+1)
	if latest != nil {
		questionText = latest.QuestionText
		questionID = latest.ID
	}

	answer := Answer{
		QuestionID:   questionID,
		QuestionText: questionText,
		Answer:       userAnswer,
		AnsweredAt:   g.now(),
	}

	max := state.Int(KeyMaxQuestions)
	if max <= 0 {
		max = DefaultMaxQuestions
	}

	analysis, err := g.gen.AnalyzeAnswer(ctx, questionText, userAnswer)
	if err != nil {
		// Keep the answer and a nominal score bump when analysis is
		// unavailable.
		return workflow.Update{
			KeyAnswers:        []interface{}{answer},
			KeyScore:          math.Min(100, state.Float(KeyScore)+5),
			KeyAwaitingAnswer: false,
		}, workflow.RouteTo("ask"), nil
	}

	flowCtx := contextFromState(state).Merge(
		ContextFromAnswer(analysis.ExtractedInfo, questionText, userAnswer))

	score := math.Min(100, state.Float(KeyScore)+analysis.CompletenessScore/float64(max))

	customQuestion := ""
	if analysis.NeedsFollowUp {
		customQuestion = FollowupQuestion(userAnswer)
	}

	content := state.String(KeyFlowContent)
	content = PatchScreenList(content, flowCtx.ScreenList)
	content = PatchProgress(content, score)

	projectID := state.String(KeyProjectID)
	if projectID != "" {
		questionNumber := state.Int(KeyQuestionCount)
		g.recorder.RecordTurn(ctx, projectID, questionNumber, questionText, userAnswer, "userflow")
		g.recorder.SaveDocument(ctx, projectID, content, int(math.Round(score)))
	}

	return workflow.Update{
		KeyAnswers:        []interface{}{answer},
		KeyContext:        flowCtx,
		KeyScore:          score,
		KeyNeedsFollowup:  analysis.NeedsFollowUp,
		KeyCustomQuestion: customQuestion,
		KeyAwaitingAnswer: false,
		KeyFlowContent:    content,
	}, workflow.RouteTo("ask"), nil
}

func (g *Graph) generateFinalFlow(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	flowCtx := contextFromState(state)
	answers := answersFromState(state)

	docs, err := g.gen.GenerateFinalFlow(ctx, state.String(KeyPRDContent), answers, flowCtx)
	score := float64(100)
	message := `✅ 유저 플로우 작성이 완료되었습니다!

3가지 포맷으로 생성되었습니다:
1. **텍스트 플로우** - 사용자 시나리오와 주요 플로우
2. **ASCII 화면** - 각 화면의 텍스트 목업
3. **Mermaid 다이어그램** - 화면 전환 흐름도

우측 캔버스에서 탭을 전환하며 확인해보세요! 🎉`
	if err != nil {
		docs = FlowDocuments{
			TextFlow:       FallbackTextFlow(flowCtx, g.now()),
			ASCIIScreens:   FallbackASCII(flowCtx, g.now()),
			MermaidDiagram: FallbackMermaid(flowCtx, g.now()),
		}
		score = 80
		message = "유저 플로우 생성 중 오류가 발생했습니다. 수집된 정보를 바탕으로 기본 플로우를 생성합니다."
	}

	projectID := state.String(KeyProjectID)
	if projectID != "" {
		g.recorder.SaveDocument(ctx, projectID, docs.TextFlow, int(score))
		g.recorder.RecordEvent(ctx, state.String(KeyUserID), projectID, "userflow_completed", map[string]interface{}{
			"totalQuestions": len(answers),
			"completedAt":    g.now().Format(time.RFC3339),
		})
	}

	return workflow.Update{
		KeyMessages:       []interface{}{workflow.AI(message)},
		KeyTextFlow:       docs.TextFlow,
		KeyASCIIScreens:   docs.ASCIIScreens,
		KeyMermaidDiagram: docs.MermaidDiagram,
		KeyFlowContent:    docs.TextFlow,
		KeyScore:          score,
		KeyIsComplete:     true,
	}, workflow.Stay, nil
}

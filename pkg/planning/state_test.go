package planning

import (
	"testing"

	"ai-planner-be/pkg/workflow"
)

func TestStateSchemaMergePolicies(t *testing.T) {
	schema := StateSchema()
	state := workflow.NewState(schema)

	state.Apply(schema, workflow.Update{
		KeyMessages:      []interface{}{workflow.Human("안녕하세요")},
		KeyTemplateLevel: LevelStandard,
		KeyMaxQuestions:  30,
		KeyContext:       map[string]interface{}{"originalIdea": "아이디어"},
	})
	state.Apply(schema, workflow.Update{
		KeyMessages:      []interface{}{workflow.AI("첫 질문입니다")},
		KeyTemplateLevel: LevelSimple,
		KeyMaxQuestions:  15,
		KeyContext:       map[string]interface{}{"product": "밥친구"},
	})

	if msgs := state.Messages(KeyMessages); len(msgs) != 2 {
		t.Errorf("messages should append, got %d", len(msgs))
	}
	if got := state.String(KeyTemplateLevel); got != LevelStandard {
		t.Errorf("templateLevel should keep first value, got %q", got)
	}
	if got := state.Int(KeyMaxQuestions); got != 30 {
		t.Errorf("maxQuestions should keep first value, got %d", got)
	}

	ctx := state.Map(KeyContext)
	if ctx["originalIdea"] != "아이디어" || ctx["product"] != "밥친구" {
		t.Errorf("context should shallow merge, got %v", ctx)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	schema := StateSchema()
	state := workflow.NewState(schema)
	state.Apply(schema, workflow.Update{
		KeyMessages:      []interface{}{workflow.Human("시작"), workflow.AI("질문")},
		KeyTemplateLevel: LevelStandard,
		KeyMaxQuestions:  30,
		KeyQuestionCount: 3,
		KeyScore:         27,
		KeyAnswers: []interface{}{
			Answer{QuestionID: "q1_제품_개요", Question: "제품명?", Text: "밥친구", Section: "제품 개요"},
		},
		KeyPRDData:        map[string]interface{}{"productName": "밥친구"},
		KeyAwaitingAnswer: true,
		KeyPendingQuestion: &PendingQuestion{
			Question: Question{Question: "다음 질문", Type: QuestionText, TargetSection: "문제 정의"},
		},
	})

	encoded, err := Capture(state).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeSnapshot(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	restored := decoded.Restore()

	if got := restored.Int(KeyQuestionCount); got != 3 {
		t.Errorf("questionCount = %d, want 3", got)
	}
	if got := restored.String(KeyTemplateLevel); got != LevelStandard {
		t.Errorf("templateLevel = %q", got)
	}
	if msgs := restored.Messages(KeyMessages); len(msgs) != 2 || msgs[0].Content != "시작" {
		t.Errorf("messages lost in round trip: %v", msgs)
	}
	answers := answersFromState(restored)
	if len(answers) != 1 || answers[0].QuestionID != "q1_제품_개요" {
		t.Errorf("answers lost in round trip: %v", answers)
	}
	pending := pendingFromState(restored)
	if pending == nil || pending.Question.TargetSection != "문제 정의" {
		t.Errorf("pending question lost in round trip: %v", pending)
	}
	if !restored.Bool(KeyAwaitingAnswer) {
		t.Error("awaitingAnswer lost in round trip")
	}
}

func TestPendingFromStateHandlesNil(t *testing.T) {
	state := workflow.NewState(StateSchema())
	if pendingFromState(state) != nil {
		t.Error("fresh state should have no pending question")
	}
	state[KeyPendingQuestion] = (*PendingQuestion)(nil)
	if pendingFromState(state) != nil {
		t.Error("typed nil pointer should read as no pending question")
	}
}

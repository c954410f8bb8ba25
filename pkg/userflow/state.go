package userflow

import (
	"encoding/json"

	"ai-planner-be/pkg/workflow"
)

// State field keys.
const (
	KeyMessages       = "messages"
	KeyPRDContent     = "prdContent"
	KeyMaxQuestions   = "maxQuestions"
	KeyQuestionCount  = "currentQuestionCount"
	KeyContext        = "userFlowContext"
	KeyScore          = "completenessScore"
	KeyAnswers        = "answers"
	KeyFlowContent    = "userFlowContent"
	KeyTextFlow       = "textFlow"
	KeyASCIIScreens   = "asciiScreens"
	KeyMermaidDiagram = "mermaidDiagram"
	KeyAwaitingAnswer = "awaitingAnswer"
	KeyNeedsFollowup  = "needsFollowup"
	KeyCustomQuestion = "customQuestionText"
	KeyLatestQuestion = "latestDynamicQuestion"
	KeyIsComplete     = "isComplete"
	KeyUserID         = "userId"
	KeyProjectID      = "projectId"
)

// DefaultMaxQuestions is the flow interview budget.
const DefaultMaxQuestions = 20

// DynamicQuestion is the most recently asked question.
type DynamicQuestion struct {
	ID           string   `json:"id"`
	QuestionText string   `json:"questionText"`
	Choices      []string `json:"choices,omitempty"`
	Context      string   `json:"context,omitempty"`
	IsFollowUp   bool     `json:"isFollowUp,omitempty"`
}

func mergeContext(prev, update interface{}) interface{} {
	p, _ := prev.(Context)
	u, ok := update.(Context)
	if !ok {
		return prev
	}
	return p.Merge(u)
}

// StateSchema declares the flow interview state and its merge rules.
func StateSchema() workflow.Schema {
	return workflow.Schema{
		KeyMessages:       {Default: func() interface{} { return nil }, Merge: workflow.Append},
		KeyPRDContent:     {Default: func() interface{} { return "" }, Merge: workflow.KeepExisting},
		KeyMaxQuestions:   {Default: func() interface{} { return DefaultMaxQuestions }, Merge: workflow.KeepExisting},
		KeyQuestionCount:  {Default: func() interface{} { return 0 }, Merge: workflow.Replace},
		KeyContext:        {Default: func() interface{} { return Context{} }, Merge: mergeContext},
		KeyScore:          {Default: func() interface{} { return float64(0) }, Merge: workflow.Replace},
		KeyAnswers:        {Default: func() interface{} { return nil }, Merge: workflow.Append},
		KeyFlowContent:    {Default: func() interface{} { return "" }, Merge: workflow.Replace},
		KeyTextFlow:       {Default: func() interface{} { return "" }, Merge: workflow.Replace},
		KeyASCIIScreens:   {Default: func() interface{} { return "" }, Merge: workflow.Replace},
		KeyMermaidDiagram: {Default: func() interface{} { return "" }, Merge: workflow.Replace},
		KeyAwaitingAnswer: {Default: func() interface{} { return false }, Merge: workflow.Replace},
		KeyNeedsFollowup:  {Default: func() interface{} { return false }, Merge: workflow.Replace},
		KeyCustomQuestion: {Default: func() interface{} { return "" }, Merge: workflow.Replace},
		KeyLatestQuestion: {Default: func() interface{} { return (*DynamicQuestion)(nil) }, Merge: workflow.Replace},
		KeyIsComplete:     {Default: func() interface{} { return false }, Merge: workflow.Replace},
		KeyUserID:         {Default: func() interface{} { return "" }, Merge: workflow.KeepExisting},
		KeyProjectID:      {Default: func() interface{} { return "" }, Merge: workflow.KeepExisting},
	}
}

func contextFromState(state workflow.State) Context {
	if c, ok := state[KeyContext].(Context); ok {
		return c
	}
	return Context{}
}

func latestFromState(state workflow.State) *DynamicQuestion {
	if q, ok := state[KeyLatestQuestion].(*DynamicQuestion); ok {
		return q
	}
	return nil
}

func answersFromState(state workflow.State) []Answer {
	switch v := state[KeyAnswers].(type) {
	case []Answer:
		return v
	case []interface{}:
		out := make([]Answer, 0, len(v))
		for _, e := range v {
			if a, ok := e.(Answer); ok {
				out = append(out, a)
			}
		}
		return out
	}
	return nil
}

// Snapshot is the JSON-stable form of flow interview state.
type Snapshot struct {
	Messages       []workflow.Message `json:"messages"`
	PRDContent     string             `json:"prdContent"`
	MaxQuestions   int                `json:"maxQuestions"`
	QuestionCount  int                `json:"currentQuestionCount"`
	Context        Context            `json:"userFlowContext"`
	Score          float64            `json:"completenessScore"`
	Answers        []Answer           `json:"answers"`
	FlowContent    string             `json:"userFlowContent"`
	TextFlow       string             `json:"textFlow,omitempty"`
	ASCIIScreens   string             `json:"asciiScreens,omitempty"`
	MermaidDiagram string             `json:"mermaidDiagram,omitempty"`
	AwaitingAnswer bool               `json:"awaitingAnswer"`
	NeedsFollowup  bool               `json:"needsFollowup"`
	CustomQuestion string             `json:"customQuestionText,omitempty"`
	LatestQuestion *DynamicQuestion   `json:"latestDynamicQuestion,omitempty"`
	IsComplete     bool               `json:"isComplete"`
	UserID         string             `json:"userId,omitempty"`
	ProjectID      string             `json:"projectId,omitempty"`
}

// Capture converts live graph state into its snapshot form.
func Capture(state workflow.State) Snapshot {
	return Snapshot{
		Messages:       state.Messages(KeyMessages),
		PRDContent:     state.String(KeyPRDContent),
		MaxQuestions:   state.Int(KeyMaxQuestions),
		QuestionCount:  state.Int(KeyQuestionCount),
		Context:        contextFromState(state),
		Score:          state.Float(KeyScore),
		Answers:        answersFromState(state),
		FlowContent:    state.String(KeyFlowContent),
		TextFlow:       state.String(KeyTextFlow),
		ASCIIScreens:   state.String(KeyASCIIScreens),
		MermaidDiagram: state.String(KeyMermaidDiagram),
		AwaitingAnswer: state.Bool(KeyAwaitingAnswer),
		NeedsFollowup:  state.Bool(KeyNeedsFollowup),
		CustomQuestion: state.String(KeyCustomQuestion),
		LatestQuestion: latestFromState(state),
		IsComplete:     state.Bool(KeyIsComplete),
		UserID:         state.String(KeyUserID),
		ProjectID:      state.String(KeyProjectID),
	}
}

// Restore rebuilds live graph state from a snapshot.
func (s Snapshot) Restore() workflow.State {
	state := workflow.NewState(StateSchema())
	messages := make([]interface{}, 0, len(s.Messages))
	for _, m := range s.Messages {
		messages = append(messages, m)
	}
	answers := make([]interface{}, 0, len(s.Answers))
	for _, a := range s.Answers {
		answers = append(answers, a)
	}
	state[KeyMessages] = messages
	state[KeyPRDContent] = s.PRDContent
	state[KeyMaxQuestions] = s.MaxQuestions
	state[KeyQuestionCount] = s.QuestionCount
	state[KeyContext] = s.Context
	state[KeyScore] = s.Score
	state[KeyAnswers] = answers
	state[KeyFlowContent] = s.FlowContent
	state[KeyTextFlow] = s.TextFlow
	state[KeyASCIIScreens] = s.ASCIIScreens
	state[KeyMermaidDiagram] = s.MermaidDiagram
	state[KeyAwaitingAnswer] = s.AwaitingAnswer
	state[KeyNeedsFollowup] = s.NeedsFollowup
	state[KeyCustomQuestion] = s.CustomQuestion
	state[KeyLatestQuestion] = s.LatestQuestion
	state[KeyIsComplete] = s.IsComplete
	state[KeyUserID] = s.UserID
	state[KeyProjectID] = s.ProjectID
	return state
}

// Encode marshals the snapshot for storage.
func (s Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot unmarshals a stored snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	err := json.Unmarshal(data, &s)
	return s, err
}

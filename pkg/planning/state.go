package planning

import (
	"encoding/json"

	"ai-planner-be/pkg/workflow"
)

// State field names for the planning graph.
const (
	KeyMessages        = "messages"
	KeyTemplateLevel   = "templateLevel"
	KeyMaxQuestions    = "maxQuestions"
	KeyQuestionCount   = "currentQuestionCount"
	KeyContext         = "conversationContext"
	KeyScore           = "completenessScore"
	KeyAnswers         = "answers"
	KeyPRDData         = "prdData"
	KeyPRDContent      = "prdContent"
	KeyAwaitingAnswer  = "awaitingAnswer"
	KeyNeedsFollowup   = "needsFollowup"
	KeyFollowupText    = "followupText"
	KeyPendingQuestion = "pendingQuestion"
	KeyIsComplete      = "isComplete"
	KeyUserID          = "userId"
	KeyProjectID       = "projectId"
)

// PendingQuestion is the question currently awaiting a user answer,
// kept in state so answer processing can resolve choices and target
// the right PRD fields.
type PendingQuestion struct {
	Question Question `json:"question"`
	Options  []Option `json:"options,omitempty"`
}

// StateSchema declares the merge policy for every planning state
// field. Conversation history and answers accumulate; identity fields
// stick once set; everything else is replaced by the latest node.
func StateSchema() workflow.Schema {
	return workflow.Schema{
		KeyMessages:        {Default: func() interface{} { return []interface{}{} }, Merge: workflow.Append},
		KeyTemplateLevel:   {Default: func() interface{} { return "" }, Merge: workflow.KeepExisting},
		KeyMaxQuestions:    {Default: func() interface{} { return 0 }, Merge: workflow.KeepExisting},
		KeyQuestionCount:   {Default: func() interface{} { return 0 }, Merge: workflow.Replace},
		KeyContext:         {Default: func() interface{} { return map[string]interface{}{} }, Merge: workflow.ShallowMerge},
		KeyScore:           {Default: func() interface{} { return 0 }, Merge: workflow.Replace},
		KeyAnswers:         {Default: func() interface{} { return []interface{}{} }, Merge: workflow.Append},
		KeyPRDData:         {Default: func() interface{} { return map[string]interface{}{} }, Merge: workflow.ShallowMerge},
		KeyPRDContent:      {Default: func() interface{} { return "" }, Merge: workflow.Replace},
		KeyAwaitingAnswer:  {Default: func() interface{} { return false }, Merge: workflow.Replace},
		KeyNeedsFollowup:   {Default: func() interface{} { return false }, Merge: workflow.Replace},
		KeyFollowupText:    {Default: func() interface{} { return "" }, Merge: workflow.Replace},
		KeyPendingQuestion: {Default: func() interface{} { return (*PendingQuestion)(nil) }, Merge: workflow.Replace},
		KeyIsComplete:      {Default: func() interface{} { return false }, Merge: workflow.Replace},
		KeyUserID:          {Default: func() interface{} { return "" }, Merge: workflow.KeepExisting},
		KeyProjectID:       {Default: func() interface{} { return "" }, Merge: workflow.KeepExisting},
	}
}

func pendingFromState(state workflow.State) *PendingQuestion {
	if p, ok := state[KeyPendingQuestion].(*PendingQuestion); ok {
		return p
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

// Snapshot is the JSON-stable form of planning state, persisted on the
// session row so paused runs survive restarts.
type Snapshot struct {
	Messages        []workflow.Message     `json:"messages"`
	TemplateLevel   string                 `json:"templateLevel"`
	MaxQuestions    int                    `json:"maxQuestions"`
	QuestionCount   int                    `json:"currentQuestionCount"`
	Context         map[string]interface{} `json:"conversationContext"`
	Score           int                    `json:"completenessScore"`
	Answers         []Answer               `json:"answers"`
	PRDData         map[string]interface{} `json:"prdData"`
	PRDContent      string                 `json:"prdContent"`
	AwaitingAnswer  bool                   `json:"awaitingAnswer"`
	NeedsFollowup   bool                   `json:"needsFollowup"`
	FollowupText    string                 `json:"followupText,omitempty"`
	PendingQuestion *PendingQuestion       `json:"pendingQuestion,omitempty"`
	IsComplete      bool                   `json:"isComplete"`
	UserID          string                 `json:"userId,omitempty"`
	ProjectID       string                 `json:"projectId,omitempty"`
}

// Capture converts live graph state into its snapshot form.
func Capture(state workflow.State) Snapshot {
	return Snapshot{
		Messages:        state.Messages(KeyMessages),
		TemplateLevel:   state.String(KeyTemplateLevel),
		MaxQuestions:    state.Int(KeyMaxQuestions),
		QuestionCount:   state.Int(KeyQuestionCount),
		Context:         state.Map(KeyContext),
		Score:           state.Int(KeyScore),
		Answers:         answersFromState(state),
		PRDData:         state.Map(KeyPRDData),
		PRDContent:      state.String(KeyPRDContent),
		AwaitingAnswer:  state.Bool(KeyAwaitingAnswer),
		NeedsFollowup:   state.Bool(KeyNeedsFollowup),
		FollowupText:    state.String(KeyFollowupText),
		PendingQuestion: pendingFromState(state),
		IsComplete:      state.Bool(KeyIsComplete),
		UserID:          state.String(KeyUserID),
		ProjectID:       state.String(KeyProjectID),
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
	state[KeyTemplateLevel] = s.TemplateLevel
	state[KeyMaxQuestions] = s.MaxQuestions
	state[KeyQuestionCount] = s.QuestionCount
	if s.Context != nil {
		state[KeyContext] = s.Context
	}
	state[KeyScore] = s.Score
	state[KeyAnswers] = answers
	if s.PRDData != nil {
		state[KeyPRDData] = s.PRDData
	}
	state[KeyPRDContent] = s.PRDContent
	state[KeyAwaitingAnswer] = s.AwaitingAnswer
	state[KeyNeedsFollowup] = s.NeedsFollowup
	state[KeyFollowupText] = s.FollowupText
	state[KeyPendingQuestion] = s.PendingQuestion
	state[KeyIsComplete] = s.IsComplete
	state[KeyUserID] = s.UserID
	state[KeyProjectID] = s.ProjectID
	return state
}

// Encode serializes the snapshot for storage.
func (s Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot parses a stored snapshot.
func DecodeSnapshot(raw []byte) (Snapshot, error) {
	var s Snapshot
	err := json.Unmarshal(raw, &s)
	return s, err
}

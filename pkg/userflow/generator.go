package userflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-planner-be/pkg/llm"
	"ai-planner-be/pkg/utils"
)

const questionSystemPrompt = "당신은 UX 설계 전문가입니다. 사용자 플로우를 파악하기 위한 질문을 생성합니다."

const analysisSystemPrompt = "당신은 UX 전문가입니다. 사용자 답변에서 핵심 정보를 추출하고 꼬리 질문이 필요한지 판단합니다."

const finalFlowSystemPrompt = "당신은 UX 전문가입니다. PRD와 질문-답변을 바탕으로 완전한 유저 플로우 문서를 3가지 포맷으로 생성합니다."

const questionPrompt = `사용자 플로우 질문지를 진행 중입니다.

## 현재 단계
{questionStage}

## 지금까지 수집한 정보
{context}

위 단계에 맞는 다음 질문 하나를 JSON으로만 출력하세요:
{
  "questionText": "질문 내용",
  "choices": ["A) 선택지 1", "B) 선택지 2", "C) 선택지 3"],
  "isFollowUp": false
}

- 선택지는 A), B), C) 형식으로 2~4개, 선택지가 어울리지 않는 질문이면 빈 배열
- 이미 답변된 내용은 다시 묻지 마세요`

const analysisPrompt = `다음 질문과 답변을 분석하세요.

질문: {question}
답변: {answer}

JSON으로만 출력하세요:
{
  "extractedInfo": {
    "screens": ["언급된 화면 이름"],
    "features": ["언급된 기능"],
    "interactions": ["언급된 상호작용"]
  },
  "needsFollowUp": false,
  "followUpReason": "",
  "completenessScore": 50
}

- needsFollowUp은 답변이 모호하거나 중요한 세부 정보가 빠졌을 때만 true
- completenessScore는 이 답변이 유저 플로우 이해에 기여한 정도 (0-100)`

const finalFlowPrompt = `다음 PRD와 질문-답변 내역을 바탕으로 완전한 유저 플로우 문서를 생성하세요.

## PRD
{prdContent}

## 질문-답변 내역
{allAnswers}

## 수집된 컨텍스트
{userFlowContext}

3가지 포맷을 JSON으로만 출력하세요:
{
  "textFlow": "# 유저 플로우 문서\n... (시나리오 중심 마크다운)",
  "asciiScreens": "# 화면 구성 (ASCII)\n... (화면별 ASCII 목업)",
  "mermaidDiagram": "# 화면 흐름도 (Mermaid)\n... (mermaid graph TD 블록)"
}

- 각 문서 상단에 **작성 진행도**: 100% 와 **작성일** 표기
- 모든 화면과 플로우를 빠짐없이 포함`

// QuestionData is the model's next-question payload.
type QuestionData struct {
	QuestionText string   `json:"questionText"`
	Choices      []string `json:"choices"`
	IsFollowUp   bool     `json:"isFollowUp"`
}

// ExtractedInfo is the structured part of an answer analysis.
type ExtractedInfo struct {
	Screens      []string `json:"screens"`
	Features     []string `json:"features"`
	Interactions []string `json:"interactions"`
}

// Analysis is the model's judgment of one answer.
type Analysis struct {
	ExtractedInfo     ExtractedInfo `json:"extractedInfo"`
	NeedsFollowUp     bool          `json:"needsFollowUp"`
	FollowUpReason    string        `json:"followUpReason"`
	CompletenessScore float64       `json:"completenessScore"`
}

// FlowDocuments holds the three final output formats.
type FlowDocuments struct {
	TextFlow       string `json:"textFlow"`
	ASCIIScreens   string `json:"asciiScreens"`
	MermaidDiagram string `json:"mermaidDiagram"`
}

// Generator produces flow questions, answer analyses, and the final
// three-format document with an LLM backend.
type Generator struct {
	provider llm.LLMProvider
}

func NewGenerator(provider llm.LLMProvider) *Generator {
	return &Generator{provider: provider}
}

func fill(template string, values map[string]string) string {
	out := template
	for key, value := range values {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}
	return out
}

// GenerateQuestion asks the model for the next stage-appropriate
// question. Unparseable output is used verbatim as an open question.
func (g *Generator) GenerateQuestion(ctx context.Context, stage Stage, contextText string) (QuestionData, error) {
	prompt := fill(questionPrompt, map[string]string{
		"questionStage": stage.Description,
		"context":       contextText,
	})

	response, err := g.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: questionSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return QuestionData{}, fmt.Errorf("flow question generation: %w", err)
	}

	var q QuestionData
	if err := utils.DecodeJSONObject(response, &q); err != nil || q.QuestionText == "" {
		return QuestionData{QuestionText: strings.TrimSpace(response)}, nil
	}
	return q, nil
}

// AnalyzeAnswer extracts structure from one answer. Unparseable model
// output degrades to a neutral analysis rather than an error.
func (g *Generator) AnalyzeAnswer(ctx context.Context, questionText, answer string) (Analysis, error) {
	prompt := fill(analysisPrompt, map[string]string{
		"question": questionText,
		"answer":   answer,
	})

	response, err := g.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("answer analysis: %w", err)
	}

	var analysis Analysis
	if err := utils.DecodeJSONObject(response, &analysis); err != nil {
		return Analysis{CompletenessScore: 50}, nil
	}
	return analysis, nil
}

// GenerateFinalFlow produces the three final documents. Callers fall
// back to the template generators when the model output is unusable.
func (g *Generator) GenerateFinalFlow(ctx context.Context, prdContent string, answers []Answer, flowCtx Context) (FlowDocuments, error) {
	var answerLines []string
	for i, a := range answers {
		answerLines = append(answerLines, fmt.Sprintf("Q%d: %s\nA%d: %s", i+1, a.QuestionText, i+1, a.Answer))
	}

	ctxJSON, err := json.MarshalIndent(flowCtx, "", "  ")
	if err != nil {
		ctxJSON = []byte("{}")
	}

	prd := prdContent
	if prd == "" {
		prd = "PRD 없음"
	}
	prompt := fill(finalFlowPrompt, map[string]string{
		"prdContent":      prd,
		"allAnswers":      strings.Join(answerLines, "\n\n"),
		"userFlowContext": string(ctxJSON),
	})

	response, err := g.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: finalFlowSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return FlowDocuments{}, fmt.Errorf("final flow generation: %w", err)
	}

	var docs FlowDocuments
	if err := utils.DecodeJSONObject(response, &docs); err != nil || docs.TextFlow == "" {
		return FlowDocuments{}, fmt.Errorf("final flow generation: unusable model output")
	}
	return docs, nil
}

package userflow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Screen is one app screen collected during the interview.
type Screen struct {
	Name    string `json:"name"`
	Purpose string `json:"purpose,omitempty"`
}

// Context accumulates what the interview has learned about the app's
// screens and flows.
type Context struct {
	TotalScreens     int      `json:"totalScreens,omitempty"`
	ScreenList       []Screen `json:"screenList,omitempty"`
	Features         []string `json:"features,omitempty"`
	Interactions     []string `json:"interactions,omitempty"`
	LoginMethod      string   `json:"loginMethod,omitempty"`
	MainScreenLayout string   `json:"mainScreenLayout,omitempty"`
	SplashDuration   string   `json:"splashDuration,omitempty"`
	HasFreemium      bool     `json:"hasFreemium,omitempty"`
	PricingInfo      string   `json:"pricingInfo,omitempty"`
}

// Merge overlays non-empty fields of update onto c and returns the
// result.
func (c Context) Merge(update Context) Context {
	out := c
	if update.TotalScreens > 0 {
		out.TotalScreens = update.TotalScreens
	}
	if len(update.ScreenList) > 0 {
		out.ScreenList = update.ScreenList
	}
	if len(update.Features) > 0 {
		out.Features = update.Features
	}
	if len(update.Interactions) > 0 {
		out.Interactions = update.Interactions
	}
	if update.LoginMethod != "" {
		out.LoginMethod = update.LoginMethod
	}
	if update.MainScreenLayout != "" {
		out.MainScreenLayout = update.MainScreenLayout
	}
	if update.SplashDuration != "" {
		out.SplashDuration = update.SplashDuration
	}
	if update.HasFreemium {
		out.HasFreemium = true
	}
	if update.PricingInfo != "" {
		out.PricingInfo = update.PricingInfo
	}
	return out
}

var screenCountRe = regexp.MustCompile(`(\d+)`)

// ParseScreenCount pulls the first number out of a free-text answer.
func ParseScreenCount(answer string) int {
	if m := screenCountRe.FindStringSubmatch(answer); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}

// ContextFromAnswer derives a context delta from the model's analysis
// of one answer, plus keyword patterns in the question itself.
func ContextFromAnswer(extracted ExtractedInfo, questionText, answer string) Context {
	var delta Context

	if len(extracted.Screens) > 0 {
		if strings.Contains(questionText, "화면 개수") {
			delta.TotalScreens = len(extracted.Screens)
			if n := ParseScreenCount(answer); n > 0 {
				delta.TotalScreens = n
			}
		} else {
			screens := make([]Screen, 0, len(extracted.Screens))
			for _, name := range extracted.Screens {
				screens = append(screens, Screen{Name: name})
			}
			delta.ScreenList = screens
		}
	}

	delta.Features = extracted.Features
	delta.Interactions = extracted.Interactions

	if strings.Contains(questionText, "로그인") {
		delta.LoginMethod = answer
	}
	if strings.Contains(questionText, "메인 화면") && strings.Contains(questionText, "레이아웃") {
		delta.MainScreenLayout = answer
	}
	if strings.Contains(questionText, "스플래시") {
		delta.SplashDuration = answer
	}
	if strings.Contains(questionText, "결제") || strings.Contains(questionText, "유료") {
		delta.HasFreemium = true
		delta.PricingInfo = answer
	}

	return delta
}

// uiElementRes match UI elements a user mentions in passing, for
// follow-up targeting.
var uiElementRes = []*regexp.Regexp{
	regexp.MustCompile(`[가-힣]+\s*버튼`),
	regexp.MustCompile(`[가-힣]+\s*아이콘`),
	regexp.MustCompile(`[가-힣]+\s*화면`),
	regexp.MustCompile(`[가-힣]+\s*모달`),
	regexp.MustCompile(`[가-힣]+\s*탭`),
}

// MentionedElements lists UI elements referenced in an answer.
func MentionedElements(answer string) []string {
	var elements []string
	for _, re := range uiElementRes {
		elements = append(elements, re.FindAllString(answer, -1)...)
	}
	return elements
}

// FollowupQuestion builds a probing question around the first UI
// element the previous answer mentioned.
func FollowupQuestion(previousAnswer string) string {
	if elements := MentionedElements(previousAnswer); len(elements) > 0 {
		return fmt.Sprintf(
			"%q에 대해 좀 더 자세히 설명해주시겠어요? (예: 어떻게 작동하나요? 어디로 이동하나요?)",
			elements[0])
	}
	return "방금 답변하신 내용에 대해 조금 더 구체적으로 설명해주실 수 있나요?"
}

// ContextSummary renders the collected context plus the most recent
// answers for prompt injection.
func ContextSummary(ctx Context, answers []Answer) string {
	var lines []string

	if ctx.TotalScreens > 0 {
		lines = append(lines, fmt.Sprintf("화면 개수: %d개", ctx.TotalScreens))
	}
	if len(ctx.ScreenList) > 0 {
		names := make([]string, 0, len(ctx.ScreenList))
		for _, s := range ctx.ScreenList {
			names = append(names, s.Name)
		}
		lines = append(lines, "화면 목록: "+strings.Join(names, ", "))
	}
	if ctx.MainScreenLayout != "" {
		lines = append(lines, "메인 화면 레이아웃: "+ctx.MainScreenLayout)
	}
	if ctx.LoginMethod != "" {
		lines = append(lines, "로그인 방식: "+ctx.LoginMethod)
	}

	if len(answers) > 0 {
		recent := answers
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		lines = append(lines, "\n최근 답변:")
		for _, a := range recent {
			lines = append(lines, "Q: "+a.QuestionText, "A: "+a.Answer)
		}
	}

	if len(lines) == 0 {
		return "아직 수집된 정보가 없습니다."
	}
	return strings.Join(lines, "\n")
}

// Answer records one question/answer pair from the interview.
type Answer struct {
	QuestionID   string    `json:"questionId"`
	QuestionText string    `json:"questionText"`
	Answer       string    `json:"answer"`
	AnsweredAt   time.Time `json:"answeredAt"`
}

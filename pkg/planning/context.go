package planning

import "strings"

// Mindset is the planning orientation inferred from answers.
type Mindset string

const (
	MindsetGrowth   Mindset = "growth_focused"
	MindsetProfit   Mindset = "profit_focused"
	MindsetQuality  Mindset = "quality_focused"
	MindsetBalanced Mindset = "balanced"
)

func dataString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func dataStrings(data map[string]interface{}, key string) []string {
	switch v := data[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// AnalyzeContext derives the conversation summary used for question
// generation from the PRD data collected so far. Keys already present
// in prev (notably originalIdea from onboarding) are preserved.
func AnalyzeContext(data map[string]interface{}, prev map[string]interface{}) map[string]interface{} {
	ctx := map[string]interface{}{}
	for k, v := range prev {
		ctx[k] = v
	}

	name := dataString(data, "productName")
	oneLine := dataString(data, "productOneLine")
	switch {
	case name != "":
		ctx["product"] = name + ": " + oneLine
	case oneLine != "":
		ctx["product"] = oneLine
	}

	if p := dataString(data, "coreProblem"); p != "" {
		ctx["problem"] = p
	}

	if targets := dataStrings(data, "targetUsers"); len(targets) > 0 {
		ctx["target"] = strings.Join(targets, ", ")
	} else if detail := dataString(data, "targetUserDetail"); detail != "" {
		ctx["target"] = detail
	}

	if values := dataStrings(data, "coreValue"); len(values) > 0 {
		ctx["values"] = values
	}

	ctx["userMindset"] = string(InferMindset(data))
	return ctx
}

// InferMindset scores growth, profit, and quality signals in the
// collected data and returns the dominant one, or balanced on a tie.
func InferMindset(data map[string]interface{}) Mindset {
	var growth, profit, quality int

	model := dataString(data, "businessModel")
	if strings.Contains(model, "무료") {
		growth += 2
	}
	if strings.Contains(model, "프리미엄") {
		profit += 2
	}

	pricing := strings.ToLower(dataString(data, "pricing"))
	if strings.Contains(pricing, "저가") || strings.Contains(pricing, "무료") {
		growth += 2
	}
	if strings.Contains(pricing, "프리미엄") || strings.Contains(pricing, "고가") {
		profit++
		quality++
	}

	conversion := strings.ToLower(dataString(data, "conversionStrategy"))
	if strings.Contains(conversion, "빠르") || strings.Contains(conversion, "즉시") {
		growth++
	}
	if strings.Contains(conversion, "가치") || strings.Contains(conversion, "경험") {
		quality++
	}

	for _, value := range dataStrings(data, "coreValue") {
		v := strings.ToLower(value)
		if strings.Contains(v, "빠른") || strings.Contains(v, "간편") {
			growth++
		}
		if strings.Contains(v, "정확") || strings.Contains(v, "품질") {
			quality++
		}
		if strings.Contains(v, "수익") || strings.Contains(v, "효율") {
			profit++
		}
	}

	for _, metric := range dataStrings(data, "successMetrics") {
		m := strings.ToLower(metric)
		if strings.Contains(m, "성장") || strings.Contains(m, "사용자") {
			growth++
		}
		if strings.Contains(m, "수익") || strings.Contains(m, "매출") {
			profit++
		}
		if strings.Contains(m, "만족") || strings.Contains(m, "품질") {
			quality++
		}
	}

	max := growth
	if profit > max {
		max = profit
	}
	if quality > max {
		max = quality
	}
	if max == 0 {
		return MindsetBalanced
	}
	atMax := 0
	for _, s := range []int{growth, profit, quality} {
		if s == max {
			atMax++
		}
	}
	if atMax >= 2 {
		return MindsetBalanced
	}
	switch max {
	case growth:
		return MindsetGrowth
	case profit:
		return MindsetProfit
	default:
		return MindsetQuality
	}
}

// MindsetDescription returns the prompt text describing a mindset.
func MindsetDescription(m Mindset) string {
	switch m {
	case MindsetGrowth:
		return "사용자는 빠른 성장과 시장 점유율 확대에 집중하고 있습니다. 사용자 획득, 바이럴 성장, 네트워크 효과에 관심이 많습니다."
	case MindsetProfit:
		return "사용자는 수익성과 비즈니스 효율성에 집중하고 있습니다. 수익 모델, LTV/CAC, 단위 경제성에 관심이 많습니다."
	case MindsetQuality:
		return "사용자는 제품 품질과 사용자 경험에 집중하고 있습니다. 완성도, 만족도, 장기적 가치에 관심이 많습니다."
	default:
		return "사용자는 성장, 수익, 품질을 균형있게 고려하고 있습니다."
	}
}

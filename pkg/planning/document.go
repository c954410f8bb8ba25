package planning

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var numberRe = regexp.MustCompile(`(\d+,?\d*)`)

// ExtractPricing pulls a monthly price from free text such as
// "14,900원/월". Falls back to 15000 when no number is present.
func ExtractPricing(pricing string) int {
	m := numberRe.FindStringSubmatch(pricing)
	if m == nil {
		return 15000
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 15000
	}
	return n
}

// ExtractConversionRate finds a conversion percentage in the metric
// targets. Defaults to 12 when none is recorded.
func ExtractConversionRate(data map[string]interface{}) int {
	targets, ok := data["metricTargets"].(map[string]interface{})
	if !ok {
		return 12
	}
	for key, value := range targets {
		if !strings.Contains(key, "전환") && !strings.Contains(strings.ToLower(key), "conversion") {
			continue
		}
		text, ok := value.(string)
		if !ok {
			continue
		}
		if m := regexp.MustCompile(`(\d+)`).FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}
	return 12
}

// EmptyTemplateMarkdown renders the blank PRD scaffold shown before
// any answers are collected.
func EmptyTemplateMarkdown(tpl Template, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 프로젝트 요구사항 (PRD)\n\n")
	fmt.Fprintf(&b, "**템플릿 레벨**: %s\n", tpl.Name)
	fmt.Fprintf(&b, "**작성 진행도**: 0%%\n")
	fmt.Fprintf(&b, "**작성일**: %s\n\n---\n\n", now.Format("2006-01-02"))

	for i, section := range tpl.Sections {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, section.Name)
		for _, f := range section.Fields {
			fmt.Fprintf(&b, "### %s\n\n_작성 중..._\n\n", f.Hint)
		}
		b.WriteByte('\n')
	}

	b.WriteString("---\n\n**다음 단계**: 채팅을 통해 질문에 답변하시면 이 템플릿이 자동으로 채워집니다.\n")
	return b.String()
}

// ProgressivePRD renders the draft document from whatever data has
// been collected so far. Sections with no data are omitted.
func ProgressivePRD(data map[string]interface{}, progress int, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Product Requirements Document (PRD)\n\n")
	fmt.Fprintf(&b, "**작성 진행도**: %d%%\n\n", progress)
	fmt.Fprintf(&b, "**작성일**: %s\n\n---\n\n", now.Format("2006-01-02"))

	if v := dataString(data, "productOneLine"); v != "" {
		b.WriteString("## 1. 제품 개요\n\n")
		fmt.Fprintf(&b, "### 1.1 제품 비전\n%s\n\n", v)
	}

	coreProblem := dataString(data, "coreProblem")
	impacts := dataStrings(data, "problemImpact")
	if coreProblem != "" || len(impacts) > 0 {
		b.WriteString("## 2. 문제 정의\n\n")
		if coreProblem != "" {
			fmt.Fprintf(&b, "### 2.1 핵심 문제\n**%s**\n\n", coreProblem)
		}
		if len(impacts) > 0 {
			b.WriteString("### 2.2 문제의 영향\n\n| 문제 | 영향 |\n|------|------|\n")
			for _, impact := range impacts {
				fmt.Fprintf(&b, "| **%s** | 사용자 경험 저하 |\n", impact)
			}
			b.WriteByte('\n')
		}
	}

	targets := dataStrings(data, "targetUsers")
	targetDetail := dataString(data, "targetUserDetail")
	if len(targets) > 0 || targetDetail != "" {
		b.WriteString("## 3. 타겟 사용자\n\n")
		if len(targets) > 0 {
			b.WriteString("### 3.1 사용자 그룹\n")
			for _, t := range targets {
				fmt.Fprintf(&b, "- %s\n", t)
			}
			b.WriteByte('\n')
		}
		if targetDetail != "" {
			fmt.Fprintf(&b, "### 3.2 상세 프로필\n%s\n\n", targetDetail)
		}
	}

	existing := dataString(data, "existingSolution")
	limitations := dataStrings(data, "solutionLimitations")
	if existing != "" || len(limitations) > 0 {
		b.WriteString("## 4. 기존 솔루션 분석\n\n")
		if existing != "" {
			fmt.Fprintf(&b, "### 4.1 현재 해결 방법\n%s\n\n", existing)
		}
		if len(limitations) > 0 {
			b.WriteString("### 4.2 기존 솔루션의 한계\n\n| 솔루션 | 한계 |\n|--------|------|\n")
			for _, limit := range limitations {
				fmt.Fprintf(&b, "| 기존 방법 | %s |\n", limit)
			}
			b.WriteByte('\n')
		}
	}

	if values := dataStrings(data, "coreValue"); len(values) > 0 {
		b.WriteString("## 5. 핵심 가치 제안\n\n### 5.1 차별화 포인트\n")
		for _, v := range values {
			fmt.Fprintf(&b, "- %s\n", v)
		}
		b.WriteByte('\n')
	}

	model := dataString(data, "businessModel")
	freeTier := dataString(data, "freeTier")
	pricing := dataString(data, "pricing")
	conversion := dataString(data, "conversionStrategy")
	if model != "" || freeTier != "" || pricing != "" || conversion != "" {
		b.WriteString("## 6. 비즈니스 모델\n\n")
		if model != "" {
			fmt.Fprintf(&b, "### 6.1 수익 모델\n**%s**\n\n", model)
		}
		if freeTier != "" && pricing != "" {
			b.WriteString("### 6.2 요금제\n\n| 구분 | 무료 | 유료 |\n|------|------|------|\n")
			fmt.Fprintf(&b, "| 기능 | %s | %s (전체 기능) |\n\n", freeTier, pricing)
		} else {
			if freeTier != "" {
				fmt.Fprintf(&b, "### 6.2 무료 티어\n%s\n\n", freeTier)
			}
			if pricing != "" {
				fmt.Fprintf(&b, "### 6.3 가격 정책\n**%s**\n\n", pricing)
			}
		}
		if conversion != "" {
			fmt.Fprintf(&b, "### 6.4 전환 전략\n- **타이밍**: %s\n\n", conversion)
		}
	}

	functions := dataStrings(data, "coreFunctions")
	descriptions, _ := data["functionDescriptions"].(map[string]interface{})
	if len(functions) > 0 {
		b.WriteString("## 7. 핵심 기능\n\n### 7.1 주요 기능 목록\n")
		for i, fn := range functions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, fn)
			if desc, ok := descriptions[fn].(string); ok && desc != "" {
				fmt.Fprintf(&b, "   - %s\n", desc)
			}
		}
		b.WriteByte('\n')
	}

	if scope := dataString(data, "mvpScope"); scope != "" {
		fmt.Fprintf(&b, "## 8. MVP 범위\n\n%s\n\n", scope)
	}

	metrics := dataStrings(data, "successMetrics")
	metricTargets, _ := data["metricTargets"].(map[string]interface{})
	if len(metrics) > 0 || len(metricTargets) > 0 {
		b.WriteString("## 9. 성공 지표 (KPI)\n\n")
		if len(metrics) > 0 {
			b.WriteString("### 9.1 핵심 지표\n")
			for _, m := range metrics {
				fmt.Fprintf(&b, "- %s\n", m)
			}
			b.WriteByte('\n')
		}
		if len(metricTargets) > 0 {
			b.WriteString("### 9.2 목표 수치 (3개월)\n\n| 지표 | 목표 |\n|------|------|\n")
			for metric, target := range metricTargets {
				fmt.Fprintf(&b, "| %s | %v |\n", metric, target)
			}
			b.WriteByte('\n')
		}
	}

	if timeline := dataString(data, "launchTimeline"); timeline != "" {
		fmt.Fprintf(&b, "## 10. 출시 계획\n\n**타임라인**: %s\n\n", timeline)
	}

	if risks := dataStrings(data, "risks"); len(risks) > 0 {
		b.WriteString("## 11. 리스크 및 대응\n\n| 리스크 | 확률 | 영향 | 대응 |\n|--------|------|------|------|\n")
		for _, risk := range risks {
			fmt.Fprintf(&b, "| %s | 중 | 중 | 대응 방안 검토 중 |\n", risk)
		}
		b.WriteByte('\n')
	}

	b.WriteString("---\n\n*이 문서는 AI 대화를 통해 자동 생성되었습니다.*\n")
	fmt.Fprintf(&b, "*진행도: %d%%*\n", progress)
	return b.String()
}

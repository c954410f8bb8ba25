package userflow

import (
	"regexp"
	"strings"
)

var (
	productNameRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:제품명|Product Name|프로젝트명):\s*\*?\*?([^\n*]+)\*?\*?`),
		regexp.MustCompile(`(?m)^#\s+([^\n]+)`),
	}

	prdOneLinerRe  = regexp.MustCompile(`(?i)(?:한 줄 요약|한줄 설명|One-liner):\s*([^\n]+)`)
	prdTargetRe    = regexp.MustCompile(`(?i)(?:타겟 사용자|Target Users?|대상 사용자):\s*([^\n]+)`)
	prdFeaturesRe  = regexp.MustCompile(`(?i)(?:핵심 기능|Core Features?|주요 기능):\s*([^\n]+(?:\n-[^\n]+)*)`)
	prdBusinessRe  = regexp.MustCompile(`(?i)(?:비즈니스 모델|Business Model|수익 모델):\s*([^\n]+)`)
	featureItemRe  = regexp.MustCompile(`^\d+\.`)
)

// ExtractProductName pulls the product name out of a PRD, falling back
// to the first H1 heading, then a generic label.
func ExtractProductName(prdContent string) string {
	for _, re := range productNameRes {
		if m := re.FindStringSubmatch(prdContent); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return name
			}
		}
	}
	return "이 제품"
}

// ExtractPRDSummary condenses a PRD into the checklist shown during
// onboarding.
func ExtractPRDSummary(prdContent string) string {
	var points []string

	if m := prdOneLinerRe.FindStringSubmatch(prdContent); m != nil {
		points = append(points, "✅ "+strings.TrimSpace(m[1]))
	}
	if m := prdTargetRe.FindStringSubmatch(prdContent); m != nil {
		points = append(points, "✅ 타겟: "+strings.TrimSpace(m[1]))
	}
	if m := prdFeaturesRe.FindStringSubmatch(prdContent); m != nil {
		var features []string
		for _, line := range strings.Split(m[1], "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "-") && !featureItemRe.MatchString(line) {
				continue
			}
			line = strings.TrimSpace(strings.TrimLeft(line, "-0123456789. "))
			if line != "" {
				features = append(features, line)
			}
			if len(features) == 3 {
				break
			}
		}
		if len(features) > 0 {
			points = append(points, "✅ 핵심 기능: "+strings.Join(features, ", "))
		}
	}
	if m := prdBusinessRe.FindStringSubmatch(prdContent); m != nil {
		points = append(points, "✅ "+strings.TrimSpace(m[1]))
	}

	if len(points) == 0 {
		return "✅ PRD 내용을 바탕으로 진행합니다"
	}
	return strings.Join(points, "\n")
}

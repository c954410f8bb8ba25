package planning

// Priority ranks how important a field is for a usable PRD.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Field is one slot in a PRD template that answers can fill.
type Field struct {
	Key      string
	Hint     string
	Priority Priority
}

// Section groups related PRD fields under a document heading.
type Section struct {
	Name   string
	Fields []Field
}

// Template defines the depth of a PRD questionnaire.
type Template struct {
	Level        string
	Name         string
	Description  string
	MinQuestions int
	MaxQuestions int
	Sections     []Section
}

const (
	LevelSimple   = "simple"
	LevelStandard = "standard"
	LevelDetailed = "detailed"
)

// Templates holds the three questionnaire depths. The data is exported
// so alternative template sets can be swapped in.
var Templates = map[string]Template{
	LevelSimple: {
		Level:        LevelSimple,
		Name:         "빠르게",
		Description:  "핵심만 담은 간단한 PRD",
		MinQuestions: 10,
		MaxQuestions: 15,
		Sections: []Section{
			{Name: "제품 개요", Fields: []Field{
				{Key: "productName", Hint: "제품명", Priority: PriorityHigh},
				{Key: "productOneLine", Hint: "한 줄 설명", Priority: PriorityHigh},
				{Key: "productGoals", Hint: "제품 목표", Priority: PriorityMedium},
			}},
			{Name: "문제 정의", Fields: []Field{
				{Key: "coreProblem", Hint: "핵심 문제", Priority: PriorityHigh},
				{Key: "problemImpact", Hint: "문제 영향", Priority: PriorityMedium},
			}},
			{Name: "타겟 사용자", Fields: []Field{
				{Key: "targetUsers", Hint: "타겟 그룹", Priority: PriorityHigh},
				{Key: "targetUserDetail", Hint: "타겟 상세", Priority: PriorityMedium},
			}},
			{Name: "핵심 가치 제안", Fields: []Field{
				{Key: "coreValue", Hint: "차별화 포인트", Priority: PriorityHigh},
			}},
			{Name: "핵심 기능", Fields: []Field{
				{Key: "coreFunctions", Hint: "핵심 기능 3개", Priority: PriorityHigh},
			}},
			{Name: "MVP 범위", Fields: []Field{
				{Key: "mvpScope", Hint: "MVP 범위", Priority: PriorityMedium},
			}},
		},
	},

	LevelStandard: {
		Level:        LevelStandard,
		Name:         "표준",
		Description:  "실무용 완전한 PRD",
		MinQuestions: 20,
		MaxQuestions: 30,
		Sections: []Section{
			{Name: "제품 개요", Fields: []Field{
				{Key: "productName", Hint: "제품명", Priority: PriorityHigh},
				{Key: "productOneLine", Hint: "한 줄 설명", Priority: PriorityHigh},
				{Key: "productVision", Hint: "제품 비전", Priority: PriorityMedium},
				{Key: "productGoals", Hint: "제품 목표 (수치 포함)", Priority: PriorityHigh},
			}},
			{Name: "문제 정의", Fields: []Field{
				{Key: "coreProblem", Hint: "핵심 문제", Priority: PriorityHigh},
				{Key: "problemImpact", Hint: "문제 영향", Priority: PriorityHigh},
				{Key: "existingSolution", Hint: "기존 해결 방법", Priority: PriorityMedium},
				{Key: "solutionLimitations", Hint: "기존 솔루션 한계", Priority: PriorityMedium},
			}},
			{Name: "타겟 사용자", Fields: []Field{
				{Key: "targetUsers", Hint: "타겟 그룹", Priority: PriorityHigh},
				{Key: "targetUserDetail", Hint: "타겟 상세 프로필", Priority: PriorityHigh},
			}},
			{Name: "핵심 가치 제안", Fields: []Field{
				{Key: "coreValue", Hint: "차별화 포인트", Priority: PriorityHigh},
			}},
			{Name: "비즈니스 모델", Fields: []Field{
				{Key: "businessModel", Hint: "수익 모델", Priority: PriorityHigh},
				{Key: "freeTier", Hint: "무료/유료 구분", Priority: PriorityMedium},
				{Key: "pricing", Hint: "가격 정책", Priority: PriorityHigh},
				{Key: "conversionStrategy", Hint: "전환 전략", Priority: PriorityMedium},
			}},
			{Name: "핵심 기능", Fields: []Field{
				{Key: "coreFunctions", Hint: "핵심 기능 3개", Priority: PriorityHigh},
				{Key: "functionDescriptions", Hint: "기능별 설명", Priority: PriorityMedium},
			}},
			{Name: "MVP 범위", Fields: []Field{
				{Key: "mvpScope", Hint: "MVP 범위", Priority: PriorityHigh},
			}},
			{Name: "성공 지표 (KPI)", Fields: []Field{
				{Key: "successMetrics", Hint: "핵심 지표", Priority: PriorityHigh},
				{Key: "metricTargets", Hint: "목표 수치", Priority: PriorityMedium},
			}},
			{Name: "출시 계획", Fields: []Field{
				{Key: "launchTimeline", Hint: "출시 일정", Priority: PriorityMedium},
			}},
			{Name: "리스크 및 대응", Fields: []Field{
				{Key: "risks", Hint: "주요 리스크", Priority: PriorityMedium},
			}},
		},
	},

	LevelDetailed: {
		Level:        LevelDetailed,
		Name:         "디테일하게",
		Description:  "투자 제안용 완벽한 PRD",
		MinQuestions: 40,
		MaxQuestions: 50,
		Sections: []Section{
			{Name: "제품 개요", Fields: []Field{
				{Key: "productName", Hint: "제품명", Priority: PriorityHigh},
				{Key: "productOneLine", Hint: "한 줄 설명", Priority: PriorityHigh},
				{Key: "productVision", Hint: "제품 비전", Priority: PriorityHigh},
				{Key: "productGoals", Hint: "제품 목표 (구체적 수치)", Priority: PriorityHigh},
				{Key: "productMission", Hint: "미션", Priority: PriorityLow},
			}},
			{Name: "문제 정의", Fields: []Field{
				{Key: "coreProblem", Hint: "핵심 문제", Priority: PriorityHigh},
				{Key: "problemImpact", Hint: "문제 영향 (구체적 수치)", Priority: PriorityHigh},
				{Key: "existingSolution", Hint: "기존 해결 방법", Priority: PriorityHigh},
				{Key: "solutionLimitations", Hint: "기존 솔루션 한계", Priority: PriorityHigh},
				{Key: "marketSize", Hint: "시장 규모", Priority: PriorityMedium},
			}},
			{Name: "타겟 사용자", Fields: []Field{
				{Key: "targetUsers", Hint: "타겟 그룹", Priority: PriorityHigh},
				{Key: "targetUserDetail", Hint: "타겟 상세 프로필", Priority: PriorityHigh},
				{Key: "personaPrimary", Hint: "주 페르소나", Priority: PriorityHigh},
				{Key: "personaSecondary", Hint: "부 페르소나", Priority: PriorityMedium},
			}},
			{Name: "경쟁 분석", Fields: []Field{
				{Key: "competitors", Hint: "경쟁 서비스 3개", Priority: PriorityHigh},
				{Key: "competitiveAdvantage", Hint: "경쟁 우위", Priority: PriorityHigh},
			}},
			{Name: "핵심 가치 제안", Fields: []Field{
				{Key: "valueProposition", Hint: "Value Proposition", Priority: PriorityHigh},
				{Key: "coreValue", Hint: "차별화 포인트", Priority: PriorityHigh},
			}},
			{Name: "비즈니스 모델", Fields: []Field{
				{Key: "businessModel", Hint: "수익 모델", Priority: PriorityHigh},
				{Key: "freeTier", Hint: "무료/유료 구분", Priority: PriorityHigh},
				{Key: "pricing", Hint: "가격 정책", Priority: PriorityHigh},
				{Key: "conversionStrategy", Hint: "전환 전략 (타이밍/트리거)", Priority: PriorityHigh},
				{Key: "revenueProjection", Hint: "수익 예측", Priority: PriorityMedium},
				{Key: "unitEconomics", Hint: "LTV/CAC", Priority: PriorityMedium},
			}},
			{Name: "핵심 기능", Fields: []Field{
				{Key: "coreFunctions", Hint: "핵심 기능 3-5개", Priority: PriorityHigh},
				{Key: "functionDescriptions", Hint: "기능별 상세 설명", Priority: PriorityHigh},
				{Key: "functionPriority", Hint: "Phase별 기능 우선순위", Priority: PriorityMedium},
				{Key: "exceptionHandling", Hint: "예외 처리", Priority: PriorityLow},
			}},
			{Name: "사용자 플로우", Fields: []Field{
				{Key: "userFlow", Hint: "사용자 플로우 단계", Priority: PriorityHigh},
				{Key: "onboarding", Hint: "온보딩 플로우", Priority: PriorityMedium},
			}},
			{Name: "MVP 범위", Fields: []Field{
				{Key: "mvpScope", Hint: "MVP 범위", Priority: PriorityHigh},
				{Key: "mvpFeatures", Hint: "MVP 기능 상세", Priority: PriorityMedium},
			}},
			{Name: "성공 지표 (KPI)", Fields: []Field{
				{Key: "successMetrics", Hint: "핵심 지표", Priority: PriorityHigh},
				{Key: "metricTargets", Hint: "목표 수치 (1개월/3개월/6개월)", Priority: PriorityHigh},
				{Key: "conversionFunnel", Hint: "전환 퍼널", Priority: PriorityMedium},
			}},
			{Name: "출시 계획", Fields: []Field{
				{Key: "launchTimeline", Hint: "출시 일정", Priority: PriorityHigh},
				{Key: "milestones", Hint: "마일스톤", Priority: PriorityMedium},
				{Key: "goToMarket", Hint: "GTM 전략", Priority: PriorityMedium},
			}},
			{Name: "리스크 및 대응", Fields: []Field{
				{Key: "risks", Hint: "주요 리스크 5개", Priority: PriorityHigh},
				{Key: "mitigation", Hint: "리스크 대응 방안", Priority: PriorityMedium},
			}},
		},
	},
}

// TemplateByLevel returns the template for a level, falling back to
// standard for unknown levels.
func TemplateByLevel(level string) Template {
	if t, ok := Templates[level]; ok {
		return t
	}
	return Templates[LevelStandard]
}

// ResolveLevelChoice maps the onboarding selection ("1", "2", "3") to a
// template level. Anything else selects standard.
func ResolveLevelChoice(input string) string {
	switch input {
	case "1":
		return LevelSimple
	case "3":
		return LevelDetailed
	default:
		return LevelStandard
	}
}

// LevelOption is one row of the onboarding template menu.
type LevelOption struct {
	Label       string
	Value       string
	Description string
}

// LevelOptions lists the template menu shown during onboarding.
func LevelOptions() []LevelOption {
	return []LevelOption{
		{Label: "빠르게 (10-15개 질문)", Value: LevelSimple, Description: Templates[LevelSimple].Description},
		{Label: "표준 (20-30개 질문) ⭐ 추천", Value: LevelStandard, Description: Templates[LevelStandard].Description},
		{Label: "디테일하게 (40-50개 질문)", Value: LevelDetailed, Description: Templates[LevelDetailed].Description},
	}
}

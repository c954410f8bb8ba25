package constant

// Conversation message roles persisted to the transcript.
const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// Session phases. A session moves through them in order; the design
// phase is driven by the external design service.
const (
	PhasePlanning = "planning"
	PhaseUserflow = "userflow"
	PhaseDesign   = "design"
	PhaseDone     = "done"
)

// Document kinds stored in planning_documents.
const (
	DocumentKindPRD      = "prd"
	DocumentKindUserflow = "userflow"
)

// Logger module names.
const (
	ModulePlanner      = "planner_service"
	ModuleOrchestrator = "orchestrator_service"
	ModuleAnalytics    = "analytics_service"
	ModuleRecorder     = "session_recorder"
)

// Watermill topic carrying analytics events from the conversation
// graphs to the persistence consumer.
const TopicAnalyticsEvents = "analytics.events"

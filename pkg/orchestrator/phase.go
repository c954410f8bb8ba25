package orchestrator

import (
	"fmt"
	"math"
	"time"
)

// designTotalEstimate is the assumed end-to-end duration of a design
// job, used for the linear time-remaining estimate.
const designTotalEstimate = 40 * time.Minute

var phaseDescriptions = map[string]string{
	"extract_screens":     "Extracting screens from PRD...",
	"generate_options":    "Generating layout options...",
	"create_ascii_ui":     "Creating ASCII UI mockups...",
	"refine_design":       "Refining design with user feedback...",
	"build_design_system": "Building design system...",
	"generate_ai_prompts": "Generating AI Studio prompts...",
	"validate_code":       "Validating generated code...",
	"generate_documents":  "Generating documentation...",
	"package_for_dev":     "Packaging deliverables...",
}

// PhaseDescription maps a design phase name to a user-facing
// description of what the design service is doing.
func PhaseDescription(phaseName string) string {
	if desc, ok := phaseDescriptions[phaseName]; ok {
		return desc
	}
	return fmt.Sprintf("Working on %s...", phaseName)
}

// EstimateSecondsLeft projects the remaining seconds of a design job
// from its reported progress.
func EstimateSecondsLeft(progressPercent int) int {
	remaining := float64(100-progressPercent) / 100
	return int(math.Round(designTotalEstimate.Seconds() * remaining))
}

package domain

type RecommendationType string

const (
	RecommendationSchedule RecommendationType = "schedule"
	RecommendationHabit    RecommendationType = "habit"
	RecommendationRecovery RecommendationType = "recovery"
	RecommendationFocus    RecommendationType = "focus"
)

type Recommendation struct {
	Type        RecommendationType `json:"type"`
	Priority    Priority           `json:"priority"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Action      string             `json:"action,omitempty"`
}

type OptimizationResult struct {
	Recommendations      []Recommendation `json:"recommendations"`
	OptimalFocusTime     string           `json:"optimalFocusTime"`
	SuggestedSleepTarget float64          `json:"suggestedSleepTarget"`
	RiskFactors          []string         `json:"riskFactors"`
}

package domain

// SLABucket aggregates one SLA dimension (first response or resolution).
// Compliance counts statuses that explicitly matched a compliance keyword;
// statuses matching neither keyword set contribute to Total only, so
// Violations+Compliance may be less than Total.
type SLABucket struct {
	Total                int
	Violations           int
	Compliance           int
	CompliancePercentage string
	ViolationPercentage  string
}

// GroupStats aggregates tickets and SLA outcomes under one discovered key
// (category or priority). Violations combines both SLA dimensions.
type GroupStats struct {
	Total                int
	Violations           int
	Compliance           int
	CompliancePercentage string
}

// AgentStats aggregates per-agent ticket counts and SLA outcomes.
type AgentStats struct {
	Total                int
	ResponseViolations   int
	ResolutionViolations int
	TotalViolations      int
	ComplianceRate       string
	TopCategory          string
}

// TimeBucket counts tickets and violations for one calendar grouping.
type TimeBucket struct {
	Total      int
	Violations int
}

// AgentStanding is one entry of an agent ranking.
type AgentStanding struct {
	Agent          string
	Total          int
	ComplianceRate string
}

// CategoryStanding is one entry of a category compliance ranking.
type CategoryStanding struct {
	Category             string
	Total                int
	CompliancePercentage string
}

// WeekdayStanding is one entry of the weekday violation-rate ranking.
// Weekday follows time.Weekday numbering: 0 is Sunday.
type WeekdayStanding struct {
	Weekday       int
	Total         int
	Violations    int
	ViolationRate string
}

// Insights is the derived interpretation layer on top of the raw counts.
type Insights struct {
	TopPerformers         []AgentStanding
	ImprovementAreas      []AgentStanding
	CategoryRanking       []CategoryStanding
	WeekdayViolationRates []WeekdayStanding
	Recommendations       []string
}

// SLAAnalysis is the full aggregate over one cleaned dataset. It holds only
// derived counts, never references back into the rows it was computed from.
type SLAAnalysis struct {
	TotalTickets int

	FirstResponseSLA SLABucket
	ResolutionSLA    SLABucket

	Agents     map[string]*AgentStats
	Categories map[string]*GroupStats
	Priorities map[string]*GroupStats

	ByDate    map[string]*TimeBucket
	ByWeekday [7]TimeBucket
	ByMonth   map[string]*TimeBucket

	Insights Insights
}

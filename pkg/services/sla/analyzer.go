package sla

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/clearops/ticketlens/pkg/models/domain"
)

// Candidate column names resolved in order; the first column present in a row
// with a non-null value wins. Presence is key-based, so a valid-but-falsy
// value like 0 or "0" is still a hit.
var (
	agentColumns    = []string{"Agent", "Resolved by", "Assignee"}
	categoryColumns = []string{"Category", "Sub-Category", "Type"}
	priorityColumns = []string{"Priority", "Urgency"}
	createdColumns  = []string{"Created", "Created Date", "Created At", "Date", "Opened"}

	firstResponseColumns = []string{"First Response Status", "First Response SLA", "Response SLA", "FR Status"}
	resolutionColumns    = []string{"Resolution Status", "Resolution SLA", "Resolved Status", "SLA Status"}
)

// Status text classification is substring-based on the lower-cased value.
// Violation keywords are checked first. A status matching neither set counts
// toward the bucket total only.
var (
	violationKeywords  = []string{"violated", "breach", "missed", "overdue", "fail"}
	complianceKeywords = []string{"within", "met", "compliant", "achieved", "success"}
)

const (
	defaultAgent    = "Unknown"
	defaultCategory = "Unknown"
	defaultPriority = "Medium"
)

// Insight thresholds, in percentage points.
const (
	agentComplianceTarget    = 90.0
	responseComplianceTarget = 95.0
	resolutionTarget         = 90.0
	agentSpreadLimit         = 20.0
)

type statusClass int

const (
	statusUnrecognized statusClass = iota
	statusViolation
	statusCompliant
)

// Analyzer computes SLA aggregates over cleaned rows. The clock is injected
// so the created-date fallback is testable.
type Analyzer struct {
	now func() time.Time
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{now: time.Now}
}

// Analyze aggregates compliance and violation counts for the first-response
// and resolution SLA dimensions, grouped globally, by agent, category,
// priority, and calendar buckets, and derives the insights layer. It never
// fails: missing columns simply leave the affected bucket totals at zero.
// Returns nil for an empty row set.
func (a *Analyzer) Analyze(rows []domain.Record) *domain.SLAAnalysis {
	if len(rows) == 0 {
		return nil
	}

	analysis := &domain.SLAAnalysis{
		TotalTickets: len(rows),
		Agents:       make(map[string]*domain.AgentStats),
		Categories:   make(map[string]*domain.GroupStats),
		Priorities:   make(map[string]*domain.GroupStats),
		ByDate:       make(map[string]*domain.TimeBucket),
		ByMonth:      make(map[string]*domain.TimeBucket),
	}
	agents := make(map[string]*agentAcc)

	for _, row := range rows {
		agent := lookupString(row, agentColumns, defaultAgent)
		category := lookupString(row, categoryColumns, defaultCategory)
		priority := lookupString(row, priorityColumns, defaultPriority)
		created := a.resolveCreated(row)

		dayKey := created.Format("2006-01-02")
		weekday := int(created.Weekday())
		monthKey := created.Format("2006-01")

		aa := agents[agent]
		if aa == nil {
			aa = &agentAcc{categories: make(map[string]int)}
			agents[agent] = aa
		}
		aa.total++
		aa.categories[category]++

		cat := ensureGroup(analysis.Categories, category)
		cat.Total++
		pri := ensureGroup(analysis.Priorities, priority)
		pri.Total++

		day := ensureBucket(analysis.ByDate, dayKey)
		day.Total++
		analysis.ByWeekday[weekday].Total++
		month := ensureBucket(analysis.ByMonth, monthKey)
		month.Total++

		if status, ok := lookupStatus(row, firstResponseColumns); ok {
			analysis.FirstResponseSLA.Total++
			switch classify(status) {
			case statusViolation:
				analysis.FirstResponseSLA.Violations++
				aa.responseViolations++
				cat.Violations++
				pri.Violations++
				day.Violations++
				analysis.ByWeekday[weekday].Violations++
				month.Violations++
			case statusCompliant:
				analysis.FirstResponseSLA.Compliance++
				cat.Compliance++
				pri.Compliance++
			}
		}

		if status, ok := lookupStatus(row, resolutionColumns); ok {
			analysis.ResolutionSLA.Total++
			switch classify(status) {
			case statusViolation:
				analysis.ResolutionSLA.Violations++
				aa.resolutionViolations++
				cat.Violations++
				pri.Violations++
				day.Violations++
				analysis.ByWeekday[weekday].Violations++
				month.Violations++
			case statusCompliant:
				analysis.ResolutionSLA.Compliance++
				cat.Compliance++
				pri.Compliance++
			}
		}
	}

	finalizeBucket(&analysis.FirstResponseSLA)
	finalizeBucket(&analysis.ResolutionSLA)
	for _, g := range analysis.Categories {
		finalizeGroup(g)
	}
	for _, g := range analysis.Priorities {
		finalizeGroup(g)
	}

	rates := finalizeAgents(analysis, agents)
	analysis.Insights = deriveInsights(analysis, rates)
	return analysis
}

type agentAcc struct {
	total                int
	responseViolations   int
	resolutionViolations int
	categories           map[string]int
}

type agentRate struct {
	name  string
	total int
	rate  float64
}

// lookup returns the first candidate column present in the row with a
// non-null value.
func lookup(row domain.Record, candidates []string) (any, bool) {
	for _, col := range candidates {
		if v, ok := row[col]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func lookupString(row domain.Record, candidates []string, fallback string) string {
	v, ok := lookup(row, candidates)
	if !ok {
		return fallback
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return fallback
	}
	return s
}

func lookupStatus(row domain.Record, candidates []string) (string, bool) {
	v, ok := lookup(row, candidates)
	if !ok {
		return "", false
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	return s, s != ""
}

// resolveCreated reads the row's creation timestamp. Cleaned rows carry
// recognized dates as RFC 3339 strings; anything else falls back to the
// current time.
func (a *Analyzer) resolveCreated(row domain.Record) time.Time {
	v, ok := lookup(row, createdColumns)
	if !ok {
		return a.now()
	}
	if t, err := time.Parse(time.RFC3339, fmt.Sprint(v)); err == nil {
		return t
	}
	return a.now()
}

func classify(status string) statusClass {
	s := strings.ToLower(status)
	for _, kw := range violationKeywords {
		if strings.Contains(s, kw) {
			return statusViolation
		}
	}
	for _, kw := range complianceKeywords {
		if strings.Contains(s, kw) {
			return statusCompliant
		}
	}
	return statusUnrecognized
}

func ensureGroup(m map[string]*domain.GroupStats, key string) *domain.GroupStats {
	g := m[key]
	if g == nil {
		g = &domain.GroupStats{}
		m[key] = g
	}
	return g
}

func ensureBucket(m map[string]*domain.TimeBucket, key string) *domain.TimeBucket {
	b := m[key]
	if b == nil {
		b = &domain.TimeBucket{}
		m[key] = b
	}
	return b
}

func finalizeBucket(b *domain.SLABucket) {
	b.CompliancePercentage = domain.FormatPercent(float64(b.Total-b.Violations), float64(b.Total))
	b.ViolationPercentage = domain.FormatPercent(float64(b.Violations), float64(b.Total))
}

// finalizeGroup computes the compliance percentage for a category or
// priority. Violations combine both SLA dimensions, so a single ticket can
// contribute two of them; the percentage is floored at zero.
func finalizeGroup(g *domain.GroupStats) {
	if g.Total == 0 {
		g.CompliancePercentage = "0"
		return
	}
	rate := float64(g.Total-g.Violations) / float64(g.Total) * 100
	if rate < 0 {
		rate = 0
	}
	g.CompliancePercentage = formatRate(rate)
}

func finalizeAgents(analysis *domain.SLAAnalysis, agents map[string]*agentAcc) []agentRate {
	rates := make([]agentRate, 0, len(agents))
	for name, acc := range agents {
		totalViolations := acc.responseViolations + acc.resolutionViolations
		rate := 100.0
		if acc.total > 0 {
			rate = float64(acc.total-totalViolations) / float64(acc.total) * 100
			if rate < 0 {
				rate = 0
			}
		}
		analysis.Agents[name] = &domain.AgentStats{
			Total:                acc.total,
			ResponseViolations:   acc.responseViolations,
			ResolutionViolations: acc.resolutionViolations,
			TotalViolations:      totalViolations,
			ComplianceRate:       formatRate(rate),
			TopCategory:          topCategory(acc.categories),
		}
		rates = append(rates, agentRate{name: name, total: acc.total, rate: rate})
	}
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].rate != rates[j].rate {
			return rates[i].rate > rates[j].rate
		}
		return rates[i].name < rates[j].name
	})
	return rates
}

func topCategory(counts map[string]int) string {
	best := ""
	bestCount := -1
	for cat, n := range counts {
		if n > bestCount || (n == bestCount && cat < best) {
			best = cat
			bestCount = n
		}
	}
	return best
}

func deriveInsights(analysis *domain.SLAAnalysis, rates []agentRate) domain.Insights {
	var in domain.Insights

	for i, r := range rates {
		if i == 3 {
			break
		}
		in.TopPerformers = append(in.TopPerformers, standing(r))
	}

	// Worst compliance first for improvement areas.
	for i := len(rates) - 1; i >= 0 && len(in.ImprovementAreas) < 3; i-- {
		if rates[i].rate < agentComplianceTarget {
			in.ImprovementAreas = append(in.ImprovementAreas, standing(rates[i]))
		}
	}

	type catRank struct {
		name string
		g    *domain.GroupStats
		rate float64
	}
	cats := make([]catRank, 0, len(analysis.Categories))
	for name, g := range analysis.Categories {
		rate := 100.0
		if g.Total > 0 {
			rate = float64(g.Total-g.Violations) / float64(g.Total) * 100
			if rate < 0 {
				rate = 0
			}
		}
		cats = append(cats, catRank{name: name, g: g, rate: rate})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].rate != cats[j].rate {
			return cats[i].rate < cats[j].rate
		}
		return cats[i].name < cats[j].name
	})
	for _, c := range cats {
		in.CategoryRanking = append(in.CategoryRanking, domain.CategoryStanding{
			Category:             c.name,
			Total:                c.g.Total,
			CompliancePercentage: c.g.CompliancePercentage,
		})
	}

	type dayRank struct {
		weekday int
		b       domain.TimeBucket
		rate    float64
	}
	var days []dayRank
	for wd, b := range analysis.ByWeekday {
		if b.Total == 0 {
			continue
		}
		days = append(days, dayRank{
			weekday: wd,
			b:       b,
			rate:    float64(b.Violations) / float64(b.Total) * 100,
		})
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].rate != days[j].rate {
			return days[i].rate > days[j].rate
		}
		return days[i].weekday < days[j].weekday
	})
	for _, d := range days {
		in.WeekdayViolationRates = append(in.WeekdayViolationRates, domain.WeekdayStanding{
			Weekday:       d.weekday,
			Total:         d.b.Total,
			Violations:    d.b.Violations,
			ViolationRate: formatRate(d.rate),
		})
	}

	in.Recommendations = recommendations(analysis, rates)
	return in
}

func recommendations(analysis *domain.SLAAnalysis, rates []agentRate) []string {
	var recs []string

	fr := analysis.FirstResponseSLA
	if fr.Total > 0 {
		rate := float64(fr.Total-fr.Violations) / float64(fr.Total) * 100
		if rate < responseComplianceTarget {
			recs = append(recs, fmt.Sprintf(
				"First response compliance is at %s%%; review triage staffing and initial response workflows",
				fr.CompliancePercentage))
		}
	}

	res := analysis.ResolutionSLA
	if res.Total > 0 {
		rate := float64(res.Total-res.Violations) / float64(res.Total) * 100
		if rate < resolutionTarget {
			recs = append(recs, fmt.Sprintf(
				"Resolution compliance is at %s%%; review escalation paths for long-running tickets",
				res.CompliancePercentage))
		}
	}

	if len(rates) >= 2 {
		spread := rates[0].rate - rates[len(rates)-1].rate
		if spread > agentSpreadLimit {
			recs = append(recs, fmt.Sprintf(
				"Agent compliance varies by %.1f percentage points; consider workload balancing or targeted coaching",
				spread))
		}
	}
	return recs
}

func standing(r agentRate) domain.AgentStanding {
	return domain.AgentStanding{
		Agent:          r.name,
		Total:          r.total,
		ComplianceRate: formatRate(r.rate),
	}
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 1, 64)
}

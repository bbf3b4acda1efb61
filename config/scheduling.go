package config

// SchedulingConfig carries the scheduling defaults shared by the schedule
// package and the handlers.
type SchedulingConfig struct {
	Timezone                string // civil calendar all dates are exchanged in
	DefaultFloatingDuration int    // minutes, applied when a floating task has no duration
	DefaultPriority         int
	MinPriority             int // 1 = highest urgency
	MaxPriority             int // 5 = lowest urgency
	MaxRangeDays            int // hard cap on a single calendar query
}

var Scheduling = SchedulingConfig{
	Timezone:                "Europe/London",
	DefaultFloatingDuration: 25,
	DefaultPriority:         3,
	MinPriority:             1,
	MaxPriority:             5,
	MaxRangeDays:            366,
}

// Mutation scopes accepted by the move/delete/complete endpoints.
const (
	ScopeParamSingle = "single"
	ScopeParamSeries = "series"
)

package domain

type GoalScale string

const (
	GoalDaily   GoalScale = "daily"
	GoalWeekly  GoalScale = "weekly"
	GoalMonthly GoalScale = "monthly"
	GoalYearly  GoalScale = "yearly"
)

// ValidGoalScales is the canonical set of accepted goal scale strings.
var ValidGoalScales = map[GoalScale]bool{
	GoalDaily: true, GoalWeekly: true, GoalMonthly: true, GoalYearly: true,
}

// DefaultColor is assigned to activities created without a color.
const DefaultColor = "#3b82f6"

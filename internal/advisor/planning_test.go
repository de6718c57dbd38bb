package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanGoalAchievable(t *testing.T) {
	resp, err := PlanGoal(GoalPlanRequest{
		GoalName:          "Scooter",
		TargetPrice:       120000,
		TimeHorizonMonths: 12,
		CurrentSaved:      60000,
		MonthlyIncome:     50000,
		MonthlyExpenses:   30000,
	})
	require.NoError(t, err)

	assert.InDelta(t, 5000, resp.MonthlySavingTarget, 0.01)
	assert.InDelta(t, 50, resp.CurrentProgressPct, 0.01)
	assert.InDelta(t, 3, resp.ProjectedCompletionMonths, 0.01)
	// Target fits inside the 20% savings slice, so the 60/20/20 split holds.
	assert.InDelta(t, 30000, resp.AdjustedBudgetPlan["needs"], 0.01)
	assert.InDelta(t, 10000, resp.AdjustedBudgetPlan["wants"], 0.01)
	assert.InDelta(t, 10000, resp.AdjustedBudgetPlan["savings_goal"], 0.01)
	require.Len(t, resp.Notes, 2)
	assert.Contains(t, resp.Notes[0], "achievable")
	assert.Contains(t, resp.Notes[1], "50%")
}

func TestPlanGoalStretchedBudget(t *testing.T) {
	resp, err := PlanGoal(GoalPlanRequest{
		GoalName:          "House deposit",
		TargetPrice:       600000,
		TimeHorizonMonths: 12,
		MonthlyIncome:     100000,
		MonthlyExpenses:   95000,
	})
	require.NoError(t, err)

	// Monthly target 50000 exceeds the 20000 base savings slice by 30000.
	assert.InDelta(t, 50000, resp.MonthlySavingTarget, 0.01)
	assert.InDelta(t, 60000-30000*0.35, resp.AdjustedBudgetPlan["needs"], 0.01)
	assert.InDelta(t, 20000-30000*0.65, resp.AdjustedBudgetPlan["wants"], 0.01)
	assert.InDelta(t, 50000, resp.AdjustedBudgetPlan["savings_goal"], 0.01)
	assert.Contains(t, resp.Notes[0], "surplus is lower")
}

func TestPlanGoalNoSurplus(t *testing.T) {
	resp, err := PlanGoal(GoalPlanRequest{
		GoalName:          "Emergency fund",
		TargetPrice:       100000,
		TimeHorizonMonths: 10,
		MonthlyIncome:     20000,
		MonthlyExpenses:   20000,
	})
	require.NoError(t, err)

	assert.InDelta(t, 14, resp.ProjectedCompletionMonths, 0.01)
}

func TestPlanGoalValidation(t *testing.T) {
	_, err := PlanGoal(GoalPlanRequest{GoalName: "x", TargetPrice: 100, TimeHorizonMonths: 1, MonthlyIncome: 100})
	assert.Error(t, err)

	_, err = PlanGoal(GoalPlanRequest{GoalName: "ok", TargetPrice: 0, TimeHorizonMonths: 1, MonthlyIncome: 100})
	assert.Error(t, err)

	_, err = PlanGoal(GoalPlanRequest{GoalName: "ok", TargetPrice: 100, TimeHorizonMonths: 0, MonthlyIncome: 100})
	assert.Error(t, err)
}

package advisor

import (
	"errors"
	"math"
	"strings"
)

type GoalPlanRequest struct {
	GoalName          string  `json:"goal_name"`
	TargetPrice       float64 `json:"target_price"`
	TimeHorizonMonths int     `json:"time_horizon_months"`
	CurrentSaved      float64 `json:"current_saved"`
	MonthlyIncome     float64 `json:"monthly_income"`
	MonthlyExpenses   float64 `json:"monthly_expenses"`
}

type GoalPlanResponse struct {
	GoalName                  string             `json:"goal_name"`
	MonthlySavingTarget       float64            `json:"monthly_saving_target"`
	CurrentProgressPct        float64            `json:"current_progress_pct"`
	ProjectedCompletionMonths float64            `json:"projected_completion_months"`
	AdjustedBudgetPlan        map[string]float64 `json:"adjusted_budget_plan"`
	Notes                     []string           `json:"notes"`
}

func (r GoalPlanRequest) Validate() error {
	switch {
	case len(strings.TrimSpace(r.GoalName)) < 2:
		return errors.New("goal_name is required")
	case r.TargetPrice <= 0:
		return errors.New("target_price must be positive")
	case r.TimeHorizonMonths < 1:
		return errors.New("time_horizon_months must be at least 1")
	case r.CurrentSaved < 0 || r.MonthlyExpenses < 0:
		return errors.New("saved and expense values cannot be negative")
	case r.MonthlyIncome <= 0:
		return errors.New("monthly_income must be positive")
	}
	return nil
}

// PlanGoal derives a monthly saving target and reshapes a 60/20/20 budget
// around it. Extra saving need is taken mostly from wants, partly from needs.
func PlanGoal(req GoalPlanRequest) (GoalPlanResponse, error) {
	if err := req.Validate(); err != nil {
		return GoalPlanResponse{}, err
	}

	remaining := math.Max(req.TargetPrice-req.CurrentSaved, 0)
	monthlyTarget := remaining / float64(req.TimeHorizonMonths)
	surplus := math.Max(req.MonthlyIncome-req.MonthlyExpenses, 0)
	progress := req.CurrentSaved / req.TargetPrice * 100

	var projectedCompletion float64
	switch {
	case surplus > 0 && remaining > 0:
		projectedCompletion = remaining / surplus
	case surplus > 0:
		projectedCompletion = 0
	default:
		projectedCompletion = float64(req.TimeHorizonMonths) * 1.4
	}

	baseNeeds := req.MonthlyIncome * 0.6
	baseWants := req.MonthlyIncome * 0.2
	baseSavings := req.MonthlyIncome * 0.2
	extraRequired := math.Max(monthlyTarget-baseSavings, 0)

	budget := map[string]float64{
		"needs":        roundTo2(math.Max(baseNeeds-extraRequired*0.35, 0)),
		"wants":        roundTo2(math.Max(baseWants-extraRequired*0.65, 0)),
		"savings_goal": roundTo2(baseSavings + extraRequired),
	}

	var notes []string
	if monthlyTarget > surplus {
		notes = append(notes, "Current surplus is lower than required monthly target; reduce discretionary spending or extend timeline.")
	} else {
		notes = append(notes, "Target is achievable within current cash flow if savings discipline is maintained.")
	}
	if progress >= 50 {
		notes = append(notes, "You are already past 50% progress. Keep contribution frequency consistent.")
	}

	return GoalPlanResponse{
		GoalName:                  req.GoalName,
		MonthlySavingTarget:       roundTo2(monthlyTarget),
		CurrentProgressPct:        roundTo2(progress),
		ProjectedCompletionMonths: roundTo2(projectedCompletion),
		AdjustedBudgetPlan:        budget,
		Notes:                     notes,
	}, nil
}

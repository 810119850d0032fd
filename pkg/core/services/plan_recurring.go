package services

import (
	"context"
	"fmt"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/timeutil"
)

// RecurringPlan describes a repeating shift to expand into dated candidates,
// e.g. every Monday, Wednesday and Friday night for a quarter
type RecurringPlan struct {
	CarerID   string          `yaml:"carerID" validate:"required"`
	PackageID string          `yaml:"packageID" validate:"required"`
	ShiftType model.ShiftType `yaml:"shiftType" validate:"required,oneof=DAY NIGHT"`
	StartTime string          `yaml:"startTime" validate:"required"`
	EndTime   string          `yaml:"endTime" validate:"required"`

	// RRule is an RFC 5545 recurrence rule, e.g. "FREQ=WEEKLY;BYDAY=MO,WE,FR"
	RRule string `yaml:"rrule" validate:"required"`

	// From and Until bound the expansion, inclusive, as "2006-01-02" dates
	From  string `yaml:"from" validate:"required,datetime=2006-01-02"`
	Until string `yaml:"until" validate:"required,datetime=2006-01-02"`

	CreatedBy string `yaml:"createdBy,omitempty"`
}

// ExpandPlan turns a recurring plan into dated candidate entries
func ExpandPlan(plan RecurringPlan) ([]model.ShiftEntry, error) {
	if err := validate.Struct(&plan); err != nil {
		return nil, fmt.Errorf("invalid recurring plan: %w", err)
	}

	from, err := timeutil.ParseDate(plan.From)
	if err != nil {
		return nil, err
	}
	until, err := timeutil.ParseDate(plan.Until)
	if err != nil {
		return nil, err
	}

	rule, err := rrule.StrToRRule(plan.RRule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", plan.RRule, err)
	}
	rule.DTStart(from)

	dates := rule.Between(from, until, true)
	if len(dates) == 0 {
		return nil, fmt.Errorf("rrule %q produces no dates between %s and %s", plan.RRule, plan.From, plan.Until)
	}

	candidates := make([]model.ShiftEntry, 0, len(dates))
	for _, d := range dates {
		candidates = append(candidates, model.ShiftEntry{
			CarerID:   plan.CarerID,
			PackageID: plan.PackageID,
			Date:      timeutil.FormatDate(d),
			ShiftType: plan.ShiftType,
			StartTime: plan.StartTime,
			EndTime:   plan.EndTime,
			CreatedBy: plan.CreatedBy,
		})
	}

	return candidates, nil
}

// PlanRecurring expands a recurring plan and runs the result through the
// strict-batch coordinator, so a plan either schedules completely or not at
// all
func PlanRecurring(ctx context.Context, store ImportShiftsStore, shiftValidator ShiftValidator, logger *zap.Logger, plan RecurringPlan, validateOnly bool) (*ImportShiftsResult, error) {
	candidates, err := ExpandPlan(plan)
	if err != nil {
		return nil, err
	}

	logger.Info("recurring plan expanded",
		zap.String("carerID", plan.CarerID),
		zap.String("packageID", plan.PackageID),
		zap.String("rrule", plan.RRule),
		zap.Int("candidates", len(candidates)))

	return ImportShifts(ctx, store, shiftValidator, logger, candidates, validateOnly)
}

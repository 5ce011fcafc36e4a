package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/xavierca1/funnel-agent/internal/entity"
)

type MealPlanRepository struct {
	DB *sql.DB
}

func NewMealPlanRepository(db *sql.DB) *MealPlanRepository {
	return &MealPlanRepository{DB: db}
}

func (r *MealPlanRepository) Save(ctx context.Context, p *entity.MealPlan) error {
	if p.PlanType == "" {
		p.PlanType = entity.PlanTypeFree
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO meal_plans (lead_id, plan_type, plan_data, created_at)
		 VALUES (?, ?, ?, ?)`,
		p.LeadID, p.PlanType, p.PlanData, p.CreatedAt,
	)
	if err != nil {
		return err
	}

	p.ID, err = res.LastInsertId()
	return err
}

func (r *MealPlanRepository) MarkSent(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE meal_plans SET sent_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

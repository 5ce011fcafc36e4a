package entity

import "time"

const (
	PlanTypeFree    = "free"
	PlanTypePremium = "premium"
)

type MealPlan struct {
	ID        int64      `json:"id"`
	LeadID    int64      `json:"lead_id"`
	PlanType  string     `json:"plan_type"` // free, premium
	PlanData  string     `json:"plan_data"` // free: markdown plan; premium: JSON {full_plan, shopping_list}
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

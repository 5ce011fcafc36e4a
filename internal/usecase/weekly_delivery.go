package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/xavierca1/funnel-agent/internal/entity"
	"github.com/xavierca1/funnel-agent/internal/funnel"
)

const premiumPlanDays = 7

// WeeklyDelivery sends every premium subscriber a fresh 7-day plan. It also
// delivers the first plan right after activation, both for the queue worker
// and for the inline fallback.
type WeeklyDelivery struct {
	LeadRepo  entity.LeadRepositoryInterface
	PlanRepo  MealPlanRepositoryInterface
	Email     EmailSender
	Generator *MealPlanGenerator
	Logger    *log.Logger
}

// SendWeeklyPlans generates and emails plans for all premium leads. One
// failing subscriber does not stop the batch.
func (uc *WeeklyDelivery) SendWeeklyPlans(ctx context.Context) error {
	leads, err := uc.LeadRepo.ListPremium(ctx)
	if err != nil {
		return &TechnicalError{Code: "DB_ERROR", Message: fmt.Sprintf("list premium leads: %v", err)}
	}
	if len(leads) == 0 {
		uc.Logger.Info("no premium subscribers, nothing to deliver")
		return nil
	}

	sent, failed := 0, 0
	for _, lead := range leads {
		if err := uc.deliver(ctx, lead); err != nil {
			uc.Logger.Error("weekly delivery failed", "lead_id", lead.ID, "email", lead.Email, "error", err)
			failed++
			continue
		}
		sent++
	}

	uc.Logger.Info("weekly delivery done", "sent", sent, "failed", failed)
	if sent == 0 && failed > 0 {
		return &TechnicalError{Code: "DELIVERY_ERROR", Message: fmt.Sprintf("all %d weekly deliveries failed", failed)}
	}
	return nil
}

// DeliverPremium sends one subscriber their plan, looked up by id.
func (uc *WeeklyDelivery) DeliverPremium(ctx context.Context, leadID int64) error {
	lead, err := uc.LeadRepo.GetByID(ctx, leadID)
	if err != nil {
		return fmt.Errorf("load lead %d: %w", leadID, err)
	}
	return uc.deliver(ctx, lead)
}

// premiumPlanPayload is what the meal_plans row stores for premium
// deliveries: the full plan plus the carved-out shopping list.
type premiumPlanPayload struct {
	FullPlan     string `json:"full_plan"`
	ShoppingList string `json:"shopping_list"`
}

func (uc *WeeklyDelivery) deliver(ctx context.Context, lead *entity.Lead) error {
	data := decodePreferences(lead.Preferences)

	plan, err := uc.Generator.Generate(ctx, data.Goal, data.Allergies, data.MealCount, premiumPlanDays, true)
	if err != nil {
		return err
	}
	shoppingList := ExtractShoppingList(plan)

	payload, err := json.Marshal(premiumPlanPayload{FullPlan: plan, ShoppingList: shoppingList})
	if err != nil {
		return fmt.Errorf("encode premium plan: %w", err)
	}

	record := &entity.MealPlan{
		LeadID:   lead.ID,
		PlanType: entity.PlanTypePremium,
		PlanData: string(payload),
	}
	if err := uc.PlanRepo.Save(ctx, record); err != nil {
		return fmt.Errorf("save premium plan: %w", err)
	}

	if err := uc.Email.SendPremiumPlan(lead.Email, lead.Name, plan, shoppingList, lead.SubscriptionStart); err != nil {
		return err
	}
	if err := uc.PlanRepo.MarkSent(ctx, record.ID); err != nil {
		uc.Logger.Error("mark plan sent failed", "plan_id", record.ID, "error", err)
	}

	uc.Logger.Info("premium plan sent", "lead_id", lead.ID, "email", lead.Email)
	return nil
}

// decodePreferences tolerates leads captured outside the chat funnel, whose
// preferences column is empty or not JSON.
func decodePreferences(prefs string) funnel.UserData {
	var data funnel.UserData
	if prefs != "" {
		json.Unmarshal([]byte(prefs), &data)
	}
	return data
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"travelbuddy_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// PlanStore reads plans and applies roster mutations as atomic
// conditional updates. AppendBuddy is a compare-and-set on the current
// roster length; RemoveBuddy is guarded on the element still holding
// the expected user. Both return ErrConditionFailed when the roster
// moved underneath the caller.
type PlanStore interface {
	Get(ctx context.Context, planID string) (models.Plan, error)
	AppendBuddy(ctx context.Context, planID, userID string, priorLen int) error
	RemoveBuddy(ctx context.Context, planID, userID string, index int) error
}

// PlanService enforces the plan roster contract: capacity-bounded,
// no duplicates, creator always a member.
type PlanService struct {
	Store  PlanStore
	Logger *zap.SugaredLogger
}

func NewPlanService(store PlanStore, logger *zap.SugaredLogger) *PlanService {
	return &PlanService{Store: store, Logger: logger}
}

// rosterAttempts bounds the read/check/CAS loop under contention.
const rosterAttempts = 3

// Join adds userID to the plan's buddy roster and returns the updated
// plan.
func (s *PlanService) Join(ctx context.Context, planID, userID string) (models.Plan, error) {
	for attempt := 0; attempt < rosterAttempts; attempt++ {
		p, err := s.Store.Get(ctx, planID)
		if err != nil {
			return models.Plan{}, err
		}

		roster := Roster{CreatorID: p.UserID, Capacity: p.MaxBuddies}
		updated, err := roster.Join(p.CurrentBuddies, userID)
		if err != nil {
			return models.Plan{}, err
		}

		err = s.Store.AppendBuddy(ctx, planID, userID, len(p.CurrentBuddies))
		if errors.Is(err, ErrConditionFailed) {
			continue // roster changed concurrently, re-derive the outcome
		}
		if err != nil {
			return models.Plan{}, err
		}

		p.CurrentBuddies = updated
		s.Logger.Infow("buddy joined plan", "planId", planID, "userId", userID)
		return p, nil
	}
	return models.Plan{}, fmt.Errorf("%w: plan roster is contended", ErrConflict)
}

// Leave removes userID from the plan's buddy roster and returns the
// updated plan.
func (s *PlanService) Leave(ctx context.Context, planID, userID string) (models.Plan, error) {
	for attempt := 0; attempt < rosterAttempts; attempt++ {
		p, err := s.Store.Get(ctx, planID)
		if err != nil {
			return models.Plan{}, err
		}

		roster := Roster{CreatorID: p.UserID, Capacity: p.MaxBuddies}
		updated, err := roster.Leave(p.CurrentBuddies, userID)
		if err != nil {
			return models.Plan{}, err
		}

		err = s.Store.RemoveBuddy(ctx, planID, userID, indexOfMember(p.CurrentBuddies, userID))
		if errors.Is(err, ErrConditionFailed) {
			continue
		}
		if err != nil {
			return models.Plan{}, err
		}

		p.CurrentBuddies = updated
		s.Logger.Infow("buddy left plan", "planId", planID, "userId", userID)
		return p, nil
	}
	return models.Plan{}, fmt.Errorf("%w: plan roster is contended", ErrConflict)
}

// DynamoPlanStore persists plans in the Plans table.
type DynamoPlanStore struct {
	Dynamo *DynamoService
}

func (st *DynamoPlanStore) Get(ctx context.Context, planID string) (models.Plan, error) {
	key := map[string]types.AttributeValue{
		"planId": &types.AttributeValueMemberS{Value: planID},
	}
	item, err := st.Dynamo.GetItem(ctx, models.PlansTable, key)
	if err != nil {
		return models.Plan{}, err
	}

	var p models.Plan
	if err := attributevalue.UnmarshalMap(item, &p); err != nil {
		return models.Plan{}, fmt.Errorf("failed to parse plan: %w", err)
	}
	return p, nil
}

func (st *DynamoPlanStore) AppendBuddy(ctx context.Context, planID, userID string, priorLen int) error {
	key := map[string]types.AttributeValue{
		"planId": &types.AttributeValueMemberS{Value: planID},
	}
	updateExpression := "SET currentBuddies = list_append(currentBuddies, :u)"
	conditionExpression := "size(currentBuddies) = :n"
	expressionValues := map[string]types.AttributeValue{
		":u": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: userID},
		}},
		":n": &types.AttributeValueMemberN{Value: strconv.Itoa(priorLen)},
	}

	_, err := st.Dynamo.UpdateItemConditional(ctx, models.PlansTable, updateExpression, key, conditionExpression, expressionValues, nil)
	return err
}

func (st *DynamoPlanStore) RemoveBuddy(ctx context.Context, planID, userID string, index int) error {
	key := map[string]types.AttributeValue{
		"planId": &types.AttributeValueMemberS{Value: planID},
	}
	updateExpression := fmt.Sprintf("REMOVE currentBuddies[%d]", index)
	conditionExpression := fmt.Sprintf("currentBuddies[%d] = :uid", index)
	expressionValues := map[string]types.AttributeValue{
		":uid": &types.AttributeValueMemberS{Value: userID},
	}

	_, err := st.Dynamo.UpdateItemConditional(ctx, models.PlansTable, updateExpression, key, conditionExpression, expressionValues, nil)
	return err
}

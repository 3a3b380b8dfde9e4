package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"travelbuddy_server/models"
	"travelbuddy_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BuddyRequestStore persists buddy requests. Insert must reject a
// duplicate (from, to, plan) triple with ErrConflict regardless of the
// existing request's status. Resolve must transition Pending requests
// only, reporting ErrInvalidState otherwise.
type BuddyRequestStore interface {
	Insert(ctx context.Context, r models.BuddyRequest) error
	GetByID(ctx context.Context, requestID string) (models.BuddyRequest, error)
	Resolve(ctx context.Context, requestKey, status string) (models.BuddyRequest, error)
	ListFrom(ctx context.Context, userID string) ([]models.BuddyRequest, error)
	ListTo(ctx context.Context, userID string) ([]models.BuddyRequest, error)
}

// UserStore supplies the candidate snapshot for buddy discovery.
type UserStore interface {
	ListProfiles(ctx context.Context, excludeUserID string) ([]models.UserProfile, error)
}

// BuddyService runs the buddy-request lifecycle
// (Pending -> Accepted | Rejected) and buddy discovery.
type BuddyService struct {
	Store  BuddyRequestStore
	Users  UserStore
	Plans  *PlanService
	Logger *zap.SugaredLogger

	now func() time.Time
}

func NewBuddyService(store BuddyRequestStore, users UserStore, plans *PlanService, logger *zap.SugaredLogger) *BuddyService {
	return &BuddyService{Store: store, Users: users, Plans: plans, Logger: logger, now: time.Now}
}

// Create stores a new Pending request. Self-requests fail with
// ErrInvalidRequest; a request for an already-used (from, to, plan)
// triple fails with ErrConflict even when the earlier request was
// resolved.
func (s *BuddyService) Create(ctx context.Context, fromUser, toUser, planID, message string) (models.BuddyRequest, error) {
	if toUser == "" {
		return models.BuddyRequest{}, fmt.Errorf("%w: toUser is required", ErrInvalidRequest)
	}
	if fromUser == toUser {
		return models.BuddyRequest{}, fmt.Errorf("%w: cannot send a buddy request to yourself", ErrInvalidRequest)
	}

	r := models.BuddyRequest{
		RequestKey: models.RequestKey(fromUser, toUser, planID),
		RequestID:  uuid.New().String(),
		FromUser:   fromUser,
		ToUser:     toUser,
		PlanID:     planID,
		Message:    message,
		Status:     models.StatusPending,
		CreatedAt:  s.now().UTC().Format(models.TimeLayout),
	}

	if err := s.Store.Insert(ctx, r); err != nil {
		if errors.Is(err, ErrConflict) {
			return models.BuddyRequest{}, fmt.Errorf("%w: request already sent", ErrConflict)
		}
		return models.BuddyRequest{}, err
	}

	s.Logger.Infow("buddy request created", "requestId", r.RequestID, "fromUser", fromUser, "toUser", toUser)
	return r, nil
}

// Resolve transitions a Pending request exactly once. Only the
// recipient may resolve. Accepting a plan-scoped request also tries to
// add the sender to the plan roster; a full roster or existing
// membership is absorbed and the request still becomes Accepted.
func (s *BuddyService) Resolve(ctx context.Context, requestID, actingUser, decision string) (models.BuddyRequest, error) {
	if decision != models.StatusAccepted && decision != models.StatusRejected {
		return models.BuddyRequest{}, fmt.Errorf("%w: decision must be %s or %s", ErrInvalidRequest, models.StatusAccepted, models.StatusRejected)
	}

	r, err := s.Store.GetByID(ctx, requestID)
	if err != nil {
		return models.BuddyRequest{}, err
	}
	if r.ToUser != actingUser {
		return models.BuddyRequest{}, fmt.Errorf("%w: only the recipient can resolve a request", ErrForbidden)
	}
	if r.Status != models.StatusPending {
		return models.BuddyRequest{}, fmt.Errorf("%w: status is %s", ErrInvalidState, r.Status)
	}

	resolved, err := s.Store.Resolve(ctx, r.RequestKey, decision)
	if err != nil {
		return models.BuddyRequest{}, err
	}

	if decision == models.StatusAccepted && resolved.PlanID != "" {
		// Best-effort coupling, not a two-phase transaction: the
		// acceptance stands even when the roster add is a no-op.
		if _, err := s.Plans.Join(ctx, resolved.PlanID, resolved.FromUser); err != nil {
			s.Logger.Infow("request accepted without roster update",
				"requestId", resolved.RequestID, "planId", resolved.PlanID, "reason", err)
		}
	}

	return resolved, nil
}

// ListFor returns the user's requests for the given direction, newest
// first.
func (s *BuddyService) ListFor(ctx context.Context, userID, direction string) ([]models.BuddyRequest, error) {
	var requests []models.BuddyRequest

	if direction == models.DirectionSent || direction == models.DirectionBoth || direction == "" {
		sent, err := s.Store.ListFrom(ctx, userID)
		if err != nil {
			return nil, err
		}
		requests = append(requests, sent...)
	}
	if direction == models.DirectionReceived || direction == models.DirectionBoth || direction == "" {
		received, err := s.Store.ListTo(ctx, userID)
		if err != nil {
			return nil, err
		}
		requests = append(requests, received...)
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt > requests[j].CreatedAt
	})
	return requests, nil
}

// Nearby returns up to 20 users within maxDistanceKm of the origin,
// closest first. The caller never appears in their own results.
func (s *BuddyService) Nearby(ctx context.Context, callerID string, origin GeoPoint, maxDistanceKm float64) ([]models.NearbyUser, error) {
	profiles, err := s.Users.ListProfiles(ctx, callerID)
	if err != nil {
		return nil, err
	}

	candidates := make([]Locatable, 0, len(profiles))
	for _, p := range profiles {
		candidates = append(candidates, p)
	}

	found := FindWithin(origin, callerID, candidates, maxDistanceKm, 20)

	nearby := make([]models.NearbyUser, 0, len(found))
	for _, n := range found {
		nearby = append(nearby, models.NearbyUser{
			UserProfile: n.Entity.(models.UserProfile),
			DistanceKm:  n.DistanceKm,
		})
	}
	return nearby, nil
}

// DynamoBuddyRequestStore persists buddy requests in the BuddyRequests
// table (request key partition, requestId/fromUser/toUser GSIs).
type DynamoBuddyRequestStore struct {
	Dynamo *DynamoService
}

func (st *DynamoBuddyRequestStore) Insert(ctx context.Context, r models.BuddyRequest) error {
	err := st.Dynamo.PutItemIfAbsent(ctx, models.BuddyRequestsTable, r, "requestKey")
	if errors.Is(err, ErrConditionFailed) {
		return ErrConflict
	}
	return err
}

func (st *DynamoBuddyRequestStore) GetByID(ctx context.Context, requestID string) (models.BuddyRequest, error) {
	keyCondition := "requestId = :id"
	expressionValues := map[string]types.AttributeValue{
		":id": &types.AttributeValueMemberS{Value: requestID},
	}

	items, err := st.Dynamo.QueryItemsWithIndex(ctx, models.BuddyRequestsTable, "requestId-index", keyCondition, expressionValues, nil, 1)
	if err != nil {
		return models.BuddyRequest{}, err
	}
	if len(items) == 0 {
		return models.BuddyRequest{}, ErrNotFound
	}

	var r models.BuddyRequest
	if err := attributevalue.UnmarshalMap(items[0], &r); err != nil {
		return models.BuddyRequest{}, fmt.Errorf("failed to parse buddy request: %w", err)
	}
	return r, nil
}

func (st *DynamoBuddyRequestStore) Resolve(ctx context.Context, requestKey, status string) (models.BuddyRequest, error) {
	key := map[string]types.AttributeValue{
		"requestKey": &types.AttributeValueMemberS{Value: requestKey},
	}
	updateExpression := "SET #status = :status"
	conditionExpression := "#status = :pending"
	expressionValues := map[string]types.AttributeValue{
		":status":  &types.AttributeValueMemberS{Value: status},
		":pending": &types.AttributeValueMemberS{Value: models.StatusPending},
	}
	expressionNames := map[string]string{
		"#status": "status",
	}

	attrs, err := st.Dynamo.UpdateItemConditional(ctx, models.BuddyRequestsTable, updateExpression, key, conditionExpression, expressionValues, expressionNames)
	if errors.Is(err, ErrConditionFailed) {
		return models.BuddyRequest{}, fmt.Errorf("%w: request is no longer pending", ErrInvalidState)
	}
	if err != nil {
		return models.BuddyRequest{}, err
	}

	var r models.BuddyRequest
	if err := attributevalue.UnmarshalMap(attrs, &r); err != nil {
		return models.BuddyRequest{}, fmt.Errorf("failed to parse buddy request: %w", err)
	}
	return r, nil
}

func (st *DynamoBuddyRequestStore) ListFrom(ctx context.Context, userID string) ([]models.BuddyRequest, error) {
	return st.listByIndex(ctx, "fromUser-index", "fromUser", userID)
}

func (st *DynamoBuddyRequestStore) ListTo(ctx context.Context, userID string) ([]models.BuddyRequest, error) {
	return st.listByIndex(ctx, "toUser-index", "toUser", userID)
}

func (st *DynamoBuddyRequestStore) listByIndex(ctx context.Context, index, attr, userID string) ([]models.BuddyRequest, error) {
	keyCondition := fmt.Sprintf("%s = :u", attr)
	expressionValues := map[string]types.AttributeValue{
		":u": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := st.Dynamo.QueryItemsWithIndex(ctx, models.BuddyRequestsTable, index, keyCondition, expressionValues, nil, 100)
	if err != nil {
		return nil, err
	}

	var requests []models.BuddyRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to parse buddy requests: %w", err)
	}
	return requests, nil
}

// DynamoUserStore reads user profiles for buddy discovery. Profiles
// are owned by the auth subsystem; this store never writes them.
type DynamoUserStore struct {
	Dynamo *DynamoService
}

func (st *DynamoUserStore) ListProfiles(ctx context.Context, excludeUserID string) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := st.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "userId") != excludeUserID
	}, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user profiles: %w", err)
	}
	return profiles, nil
}

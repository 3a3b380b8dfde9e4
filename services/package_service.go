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

// PackageStore mirrors PlanStore for the uncapped package roster.
type PackageStore interface {
	Get(ctx context.Context, packageID string) (models.Package, error)
	AppendParticipant(ctx context.Context, packageID, userID string, priorLen int) error
	RemoveParticipant(ctx context.Context, packageID, userID string, index int) error
}

// PackageService enforces the package roster contract. Packages have
// no capacity bound, but the creator and no-duplicate rules still
// apply.
type PackageService struct {
	Store  PackageStore
	Logger *zap.SugaredLogger
}

func NewPackageService(store PackageStore, logger *zap.SugaredLogger) *PackageService {
	return &PackageService{Store: store, Logger: logger}
}

// Join adds userID to the package's participant roster.
func (s *PackageService) Join(ctx context.Context, packageID, userID string) (models.Package, error) {
	for attempt := 0; attempt < rosterAttempts; attempt++ {
		pkg, err := s.Store.Get(ctx, packageID)
		if err != nil {
			return models.Package{}, err
		}

		roster := Roster{CreatorID: pkg.UserID}
		updated, err := roster.Join(pkg.Participants, userID)
		if err != nil {
			return models.Package{}, err
		}

		err = s.Store.AppendParticipant(ctx, packageID, userID, len(pkg.Participants))
		if errors.Is(err, ErrConditionFailed) {
			continue
		}
		if err != nil {
			return models.Package{}, err
		}

		pkg.Participants = updated
		s.Logger.Infow("participant joined package", "packageId", packageID, "userId", userID)
		return pkg, nil
	}
	return models.Package{}, fmt.Errorf("%w: package roster is contended", ErrConflict)
}

// Leave removes userID from the package's participant roster.
func (s *PackageService) Leave(ctx context.Context, packageID, userID string) (models.Package, error) {
	for attempt := 0; attempt < rosterAttempts; attempt++ {
		pkg, err := s.Store.Get(ctx, packageID)
		if err != nil {
			return models.Package{}, err
		}

		roster := Roster{CreatorID: pkg.UserID}
		updated, err := roster.Leave(pkg.Participants, userID)
		if err != nil {
			return models.Package{}, err
		}

		err = s.Store.RemoveParticipant(ctx, packageID, userID, indexOfMember(pkg.Participants, userID))
		if errors.Is(err, ErrConditionFailed) {
			continue
		}
		if err != nil {
			return models.Package{}, err
		}

		pkg.Participants = updated
		s.Logger.Infow("participant left package", "packageId", packageID, "userId", userID)
		return pkg, nil
	}
	return models.Package{}, fmt.Errorf("%w: package roster is contended", ErrConflict)
}

// DynamoPackageStore persists packages in the Packages table.
type DynamoPackageStore struct {
	Dynamo *DynamoService
}

func (st *DynamoPackageStore) Get(ctx context.Context, packageID string) (models.Package, error) {
	key := map[string]types.AttributeValue{
		"packageId": &types.AttributeValueMemberS{Value: packageID},
	}
	item, err := st.Dynamo.GetItem(ctx, models.PackagesTable, key)
	if err != nil {
		return models.Package{}, err
	}

	var pkg models.Package
	if err := attributevalue.UnmarshalMap(item, &pkg); err != nil {
		return models.Package{}, fmt.Errorf("failed to parse package: %w", err)
	}
	return pkg, nil
}

func (st *DynamoPackageStore) AppendParticipant(ctx context.Context, packageID, userID string, priorLen int) error {
	key := map[string]types.AttributeValue{
		"packageId": &types.AttributeValueMemberS{Value: packageID},
	}
	updateExpression := "SET participants = list_append(participants, :u)"
	conditionExpression := "size(participants) = :n"
	expressionValues := map[string]types.AttributeValue{
		":u": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: userID},
		}},
		":n": &types.AttributeValueMemberN{Value: strconv.Itoa(priorLen)},
	}

	_, err := st.Dynamo.UpdateItemConditional(ctx, models.PackagesTable, updateExpression, key, conditionExpression, expressionValues, nil)
	return err
}

func (st *DynamoPackageStore) RemoveParticipant(ctx context.Context, packageID, userID string, index int) error {
	key := map[string]types.AttributeValue{
		"packageId": &types.AttributeValueMemberS{Value: packageID},
	}
	updateExpression := fmt.Sprintf("REMOVE participants[%d]", index)
	conditionExpression := fmt.Sprintf("participants[%d] = :uid", index)
	expressionValues := map[string]types.AttributeValue{
		":uid": &types.AttributeValueMemberS{Value: userID},
	}

	_, err := st.Dynamo.UpdateItemConditional(ctx, models.PackagesTable, updateExpression, key, conditionExpression, expressionValues, nil)
	return err
}

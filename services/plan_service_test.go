package services

import (
	"context"
	"testing"

	"travelbuddy_server/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPlanFixture(t *testing.T) (*PlanService, *fakePlanStore) {
	t.Helper()
	store := newFakePlanStore()
	return NewPlanService(store, zap.NewNop().Sugar()), store
}

func seedPlan(store *fakePlanStore, maxBuddies int, buddies ...string) {
	store.plans["plan-1"] = models.Plan{
		PlanID: "plan-1", UserID: "carol", MaxBuddies: maxBuddies, CurrentBuddies: buddies,
	}
}

func TestPlanJoinAppendsBuddy(t *testing.T) {
	svc, store := newPlanFixture(t)
	seedPlan(store, 3)

	p, err := svc.Join(context.Background(), "plan-1", "dave")
	require.NoError(t, err)
	require.Equal(t, []string{"dave"}, p.CurrentBuddies)
	require.Equal(t, []string{"dave"}, store.plans["plan-1"].CurrentBuddies)
}

func TestPlanJoinUnknownPlan(t *testing.T) {
	svc, _ := newPlanFixture(t)

	_, err := svc.Join(context.Background(), "missing", "dave")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPlanJoinCreatorConflicts(t *testing.T) {
	svc, store := newPlanFixture(t)
	seedPlan(store, 3)

	_, err := svc.Join(context.Background(), "plan-1", "carol")
	require.ErrorIs(t, err, ErrConflict)
}

func TestPlanJoinTwiceConflicts(t *testing.T) {
	svc, store := newPlanFixture(t)
	seedPlan(store, 3)
	ctx := context.Background()

	_, err := svc.Join(ctx, "plan-1", "dave")
	require.NoError(t, err)
	_, err = svc.Join(ctx, "plan-1", "dave")
	require.ErrorIs(t, err, ErrConflict)
}

func TestPlanJoinFull(t *testing.T) {
	svc, store := newPlanFixture(t)
	seedPlan(store, 2, "dave", "erin")

	_, err := svc.Join(context.Background(), "plan-1", "frank")
	require.ErrorIs(t, err, ErrFull)
	require.Len(t, store.plans["plan-1"].CurrentBuddies, 2)
}

func TestPlanJoinRetriesAfterLostRace(t *testing.T) {
	svc, store := newPlanFixture(t)
	seedPlan(store, 3)

	// First conditional append loses; the retry re-reads and succeeds.
	store.appendHook = func() error { return ErrConditionFailed }

	p, err := svc.Join(context.Background(), "plan-1", "dave")
	require.NoError(t, err)
	require.Equal(t, []string{"dave"}, p.CurrentBuddies)
}

func TestPlanJoinLostRaceToLastSlot(t *testing.T) {
	svc, store := newPlanFixture(t)
	seedPlan(store, 1)

	// A concurrent join takes the last slot between our read and the
	// conditional append; the retry must surface Full.
	store.appendHook = func() error {
		p := store.plans["plan-1"]
		p.CurrentBuddies = append(p.CurrentBuddies, "erin")
		store.plans["plan-1"] = p
		return ErrConditionFailed
	}

	_, err := svc.Join(context.Background(), "plan-1", "dave")
	require.ErrorIs(t, err, ErrFull)
	require.Equal(t, []string{"erin"}, store.plans["plan-1"].CurrentBuddies)
}

func TestPlanLeaveRemovesBuddy(t *testing.T) {
	svc, store := newPlanFixture(t)
	seedPlan(store, 3, "dave", "erin")

	p, err := svc.Leave(context.Background(), "plan-1", "dave")
	require.NoError(t, err)
	require.Equal(t, []string{"erin"}, p.CurrentBuddies)
}

func TestPlanLeaveCreatorForbidden(t *testing.T) {
	svc, store := newPlanFixture(t)
	seedPlan(store, 3, "dave")

	_, err := svc.Leave(context.Background(), "plan-1", "carol")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestPlanLeaveNonMember(t *testing.T) {
	svc, store := newPlanFixture(t)
	seedPlan(store, 3, "dave")

	_, err := svc.Leave(context.Background(), "plan-1", "erin")
	require.ErrorIs(t, err, ErrNotMember)
}

package services

import (
	"context"
	"fmt"

	"travelbuddy_server/models"
)

// In-memory stores honoring the conditional-write contracts of the
// Dynamo-backed implementations.

type fakeConversationStore struct {
	byPair   map[string]models.Conversation
	messages map[string][]models.Message

	// getByPairMisses forces the first N GetByPair calls to miss, to
	// exercise the first-contact race path.
	getByPairMisses int
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{
		byPair:   make(map[string]models.Conversation),
		messages: make(map[string][]models.Message),
	}
}

func (f *fakeConversationStore) Insert(_ context.Context, c models.Conversation) error {
	if _, ok := f.byPair[c.PairID]; ok {
		return ErrConflict
	}
	f.byPair[c.PairID] = c
	return nil
}

func (f *fakeConversationStore) GetByPair(_ context.Context, pairID string) (models.Conversation, error) {
	if f.getByPairMisses > 0 {
		f.getByPairMisses--
		return models.Conversation{}, ErrNotFound
	}
	c, ok := f.byPair[pairID]
	if !ok {
		return models.Conversation{}, ErrNotFound
	}
	return c, nil
}

func (f *fakeConversationStore) GetByID(_ context.Context, conversationID string) (models.Conversation, error) {
	for _, c := range f.byPair {
		if c.ConversationID == conversationID {
			return c, nil
		}
	}
	return models.Conversation{}, ErrNotFound
}

func (f *fakeConversationStore) ListByParticipant(_ context.Context, userID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	for _, c := range f.byPair {
		if c.HasParticipant(userID) {
			convs = append(convs, c)
		}
	}
	return convs, nil
}

func (f *fakeConversationStore) AppendMessage(_ context.Context, m models.Message) error {
	f.messages[m.ConversationID] = append(f.messages[m.ConversationID], m)
	return nil
}

func (f *fakeConversationStore) SetLastMessage(_ context.Context, pairID, text, at string) error {
	c, ok := f.byPair[pairID]
	if !ok {
		return ErrNotFound
	}
	c.LastMessage = text
	c.LastMessageTime = at
	f.byPair[pairID] = c
	return nil
}

func (f *fakeConversationStore) ListMessages(_ context.Context, conversationID string, limit int) ([]models.Message, error) {
	msgs := f.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

type fakeBuddyRequestStore struct {
	byKey map[string]models.BuddyRequest
}

func newFakeBuddyRequestStore() *fakeBuddyRequestStore {
	return &fakeBuddyRequestStore{byKey: make(map[string]models.BuddyRequest)}
}

func (f *fakeBuddyRequestStore) Insert(_ context.Context, r models.BuddyRequest) error {
	if _, ok := f.byKey[r.RequestKey]; ok {
		return ErrConflict
	}
	f.byKey[r.RequestKey] = r
	return nil
}

func (f *fakeBuddyRequestStore) GetByID(_ context.Context, requestID string) (models.BuddyRequest, error) {
	for _, r := range f.byKey {
		if r.RequestID == requestID {
			return r, nil
		}
	}
	return models.BuddyRequest{}, ErrNotFound
}

func (f *fakeBuddyRequestStore) Resolve(_ context.Context, requestKey, status string) (models.BuddyRequest, error) {
	r, ok := f.byKey[requestKey]
	if !ok {
		return models.BuddyRequest{}, ErrNotFound
	}
	if r.Status != models.StatusPending {
		return models.BuddyRequest{}, fmt.Errorf("%w: request is no longer pending", ErrInvalidState)
	}
	r.Status = status
	f.byKey[requestKey] = r
	return r, nil
}

func (f *fakeBuddyRequestStore) ListFrom(_ context.Context, userID string) ([]models.BuddyRequest, error) {
	var out []models.BuddyRequest
	for _, r := range f.byKey {
		if r.FromUser == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeBuddyRequestStore) ListTo(_ context.Context, userID string) ([]models.BuddyRequest, error) {
	var out []models.BuddyRequest
	for _, r := range f.byKey {
		if r.ToUser == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakePlanStore struct {
	plans map[string]models.Plan

	// appendHook, when set, intercepts the next AppendBuddy call.
	appendHook func() error
}

func newFakePlanStore() *fakePlanStore {
	return &fakePlanStore{plans: make(map[string]models.Plan)}
}

func (f *fakePlanStore) Get(_ context.Context, planID string) (models.Plan, error) {
	p, ok := f.plans[planID]
	if !ok {
		return models.Plan{}, ErrNotFound
	}
	return p, nil
}

func (f *fakePlanStore) AppendBuddy(_ context.Context, planID, userID string, priorLen int) error {
	if f.appendHook != nil {
		hook := f.appendHook
		f.appendHook = nil
		if err := hook(); err != nil {
			return err
		}
	}
	p, ok := f.plans[planID]
	if !ok {
		return ErrNotFound
	}
	if len(p.CurrentBuddies) != priorLen {
		return ErrConditionFailed
	}
	p.CurrentBuddies = append(p.CurrentBuddies, userID)
	f.plans[planID] = p
	return nil
}

func (f *fakePlanStore) RemoveBuddy(_ context.Context, planID, userID string, index int) error {
	p, ok := f.plans[planID]
	if !ok {
		return ErrNotFound
	}
	if index < 0 || index >= len(p.CurrentBuddies) || p.CurrentBuddies[index] != userID {
		return ErrConditionFailed
	}
	p.CurrentBuddies = append(p.CurrentBuddies[:index], p.CurrentBuddies[index+1:]...)
	f.plans[planID] = p
	return nil
}

type fakePackageStore struct {
	packages map[string]models.Package
}

func newFakePackageStore() *fakePackageStore {
	return &fakePackageStore{packages: make(map[string]models.Package)}
}

func (f *fakePackageStore) Get(_ context.Context, packageID string) (models.Package, error) {
	p, ok := f.packages[packageID]
	if !ok {
		return models.Package{}, ErrNotFound
	}
	return p, nil
}

func (f *fakePackageStore) AppendParticipant(_ context.Context, packageID, userID string, priorLen int) error {
	p, ok := f.packages[packageID]
	if !ok {
		return ErrNotFound
	}
	if len(p.Participants) != priorLen {
		return ErrConditionFailed
	}
	p.Participants = append(p.Participants, userID)
	f.packages[packageID] = p
	return nil
}

func (f *fakePackageStore) RemoveParticipant(_ context.Context, packageID, userID string, index int) error {
	p, ok := f.packages[packageID]
	if !ok {
		return ErrNotFound
	}
	if index < 0 || index >= len(p.Participants) || p.Participants[index] != userID {
		return ErrConditionFailed
	}
	p.Participants = append(p.Participants[:index], p.Participants[index+1:]...)
	f.packages[packageID] = p
	return nil
}

type fakeUserStore struct {
	profiles []models.UserProfile
}

func (f *fakeUserStore) ListProfiles(_ context.Context, excludeUserID string) ([]models.UserProfile, error) {
	var out []models.UserProfile
	for _, p := range f.profiles {
		if p.UserID != excludeUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

package internal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore mirrors the real store's behavior in memory: one convocation
// per match, responses keyed on (convocation, player).
type fakeStore struct {
	roster       []Profile
	convocations map[uuid.UUID]Convocation // keyed by match id
	responses    map[uuid.UUID]map[uuid.UUID]ConvocationResponse
}

func newFakeStore(roster ...Profile) *fakeStore {
	return &fakeStore{
		roster:       roster,
		convocations: map[uuid.UUID]Convocation{},
		responses:    map[uuid.UUID]map[uuid.UUID]ConvocationResponse{},
	}
}

func (s *fakeStore) Reset(_ context.Context, matchID uuid.UUID, capacity int) (Convocation, error) {
	cv, ok := s.convocations[matchID]
	if !ok {
		cv = Convocation{ID: uuid.New(), MatchID: matchID}
	}
	now := time.Now()
	cv.Status = "open"
	cv.Capacity = capacity
	cv.ResetAt = &now
	s.convocations[matchID] = cv

	fresh := map[uuid.UUID]ConvocationResponse{}
	for _, p := range s.roster {
		fresh[p.ID] = ConvocationResponse{
			ID:            uuid.New(),
			ConvocationID: cv.ID,
			UserID:        p.ID,
			Status:        StatusPending,
			UpdatedAt:     now,
		}
	}
	s.responses[cv.ID] = fresh
	return cv, nil
}

func (s *fakeStore) Upsert(_ context.Context, convocationID, userID uuid.UUID, status string) (ConvocationResponse, error) {
	byUser, ok := s.responses[convocationID]
	if !ok {
		byUser = map[uuid.UUID]ConvocationResponse{}
		s.responses[convocationID] = byUser
	}
	r, ok := byUser[userID]
	if !ok {
		r = ConvocationResponse{ID: uuid.New(), ConvocationID: convocationID, UserID: userID}
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	byUser[userID] = r
	return r, nil
}

func TestOpenConvocationSeedsPendingForRoster(t *testing.T) {
	roster := []Profile{player(1, "pau"), player(2, "quim"), player(3, "ruben")}
	store := newFakeStore(roster...)
	engine := NewEngine(store)

	cv, err := engine.OpenConvocation(context.Background(), uuid.New(), 10)
	require.NoError(t, err)

	assert.Equal(t, "open", cv.Status)
	assert.Equal(t, 10, cv.Capacity)
	require.NotNil(t, cv.ResetAt)

	require.Len(t, store.responses[cv.ID], len(roster))
	for _, r := range store.responses[cv.ID] {
		assert.Equal(t, StatusPending, r.Status)
	}
}

func TestOpenConvocationEmptyRoster(t *testing.T) {
	engine := NewEngine(newFakeStore())

	cv, err := engine.OpenConvocation(context.Background(), uuid.New(), 10)
	require.NoError(t, err)
	assert.Equal(t, "open", cv.Status)
}

func TestReopenDiscardsResponses(t *testing.T) {
	roster := []Profile{player(1, "sergi"), player(2, "toni")}
	store := newFakeStore(roster...)
	engine := NewEngine(store)
	ctx := context.Background()
	matchID := uuid.New()

	cv, err := engine.OpenConvocation(ctx, matchID, 10)
	require.NoError(t, err)

	_, err = engine.RecordResponse(ctx, cv.ID, roster[0].ID, StatusYes)
	require.NoError(t, err)

	cv2, err := engine.OpenConvocation(ctx, matchID, 8)
	require.NoError(t, err)

	// same convocation row, fresh state
	assert.Equal(t, cv.ID, cv2.ID)
	assert.Equal(t, 8, cv2.Capacity)
	require.Len(t, store.responses[cv2.ID], len(roster))
	for _, r := range store.responses[cv2.ID] {
		assert.Equal(t, StatusPending, r.Status)
	}
}

func TestRecordResponseOverwrites(t *testing.T) {
	roster := []Profile{player(1, "unai")}
	store := newFakeStore(roster...)
	engine := NewEngine(store)
	ctx := context.Background()

	cv, err := engine.OpenConvocation(ctx, uuid.New(), 10)
	require.NoError(t, err)

	r1, err := engine.RecordResponse(ctx, cv.ID, roster[0].ID, StatusYes)
	require.NoError(t, err)
	assert.Equal(t, StatusYes, r1.Status)

	r2, err := engine.RecordResponse(ctx, cv.ID, roster[0].ID, StatusMaybe)
	require.NoError(t, err)
	assert.Equal(t, StatusMaybe, r2.Status)

	// still one row for the pair
	assert.Equal(t, r1.ID, r2.ID)
	assert.Len(t, store.responses[cv.ID], 1)
}

func TestRecordResponseRejectsBadStatus(t *testing.T) {
	roster := []Profile{player(1, "victor")}
	store := newFakeStore(roster...)
	engine := NewEngine(store)
	ctx := context.Background()

	cv, err := engine.OpenConvocation(ctx, uuid.New(), 10)
	require.NoError(t, err)

	for _, bad := range []string{"", "pending", "si", "YES"} {
		_, err := engine.RecordResponse(ctx, cv.ID, roster[0].ID, bad)
		assert.ErrorIs(t, err, ErrBadStatus, "status %q", bad)
	}

	// nothing moved off pending
	for _, r := range store.responses[cv.ID] {
		assert.Equal(t, StatusPending, r.Status)
	}
}

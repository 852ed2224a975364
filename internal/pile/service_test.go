// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package pile

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanfield/compostly/internal/platform/apperr"
	"github.com/rowanfield/compostly/pkg/pointer"
)

// # Test Doubles

type memoryPileRepository struct {
	mu     sync.Mutex
	nextID int64
	piles  map[int64]*CompostPile
}

func newMemoryPileRepository() *memoryPileRepository {
	return &memoryPileRepository{nextID: 1, piles: make(map[int64]*CompostPile)}
}

func (repo *memoryPileRepository) Create(_ context.Context, pile *CompostPile) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	pile.PileID = repo.nextID
	pile.CreatedAt = time.Now()
	repo.nextID++

	clone := *pile
	repo.piles[pile.PileID] = &clone
	return nil
}

func (repo *memoryPileRepository) ListByOwner(_ context.Context, username string) ([]*CompostPile, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var owned []*CompostPile
	for _, pile := range repo.piles {
		if pile.Username == username {
			clone := *pile
			owned = append(owned, &clone)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].PileID > owned[j].PileID })
	return owned, nil
}

func (repo *memoryPileRepository) FindOwned(_ context.Context, pileID int64, username string) (*CompostPile, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	pile, ok := repo.piles[pileID]
	if !ok || pile.Username != username {
		return nil, apperr.NotFound("Compost pile")
	}
	clone := *pile
	return &clone, nil
}

type memoryHealthRepository struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64][]*HealthRecord
}

func newMemoryHealthRepository() *memoryHealthRepository {
	return &memoryHealthRepository{nextID: 1, records: make(map[int64][]*HealthRecord)}
}

func (repo *memoryHealthRepository) Create(_ context.Context, record *HealthRecord) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	record.RecordID = repo.nextID
	record.Timestamp = time.Now()
	repo.nextID++

	clone := *record
	repo.records[record.PileID] = append([]*HealthRecord{&clone}, repo.records[record.PileID]...)
	return nil
}

func (repo *memoryHealthRepository) ListByPile(_ context.Context, pileID int64) ([]*HealthRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	return append([]*HealthRecord(nil), repo.records[pileID]...), nil
}

type recordingNotifier struct {
	alerts []string
}

func (notifier *recordingNotifier) PileAlert(_ context.Context, _ int64, title, _, _ string, _ int16) error {
	notifier.alerts = append(notifier.alerts, title)
	return nil
}

func newTestService() (*Service, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return NewService(newMemoryPileRepository(), newMemoryHealthRepository(), notifier), notifier
}

func createTestPile(t *testing.T, service *Service, owner, name string) *CompostPile {
	t.Helper()

	pile, err := service.CreatePile(context.Background(), owner, CreatePileInput{Name: name})
	require.NoError(t, err)
	return pile
}

// # Pile Management

func TestService_CreatePile(t *testing.T) {
	t.Run("owner comes from the caller, never the payload", func(t *testing.T) {
		service, _ := newTestService()

		pile := createTestPile(t, service, "worm_farmer", "Backyard heap")

		assert.Equal(t, "worm_farmer", pile.Username)
		assert.NotZero(t, pile.PileID)
		assert.False(t, pile.CreatedAt.IsZero())
	})
}

func TestService_ListMine(t *testing.T) {
	t.Run("returns only the caller's piles", func(t *testing.T) {
		service, _ := newTestService()
		createTestPile(t, service, "worm_farmer", "Backyard heap")
		createTestPile(t, service, "worm_farmer", "Tumbler")
		createTestPile(t, service, "leaf_collector", "Leaf mould bin")

		piles, err := service.ListMine(context.Background(), "worm_farmer")
		require.NoError(t, err)

		require.Len(t, piles, 2)
		for _, pile := range piles {
			assert.Equal(t, "worm_farmer", pile.Username)
		}
	})

	t.Run("no piles is an empty slice, not nil", func(t *testing.T) {
		service, _ := newTestService()

		piles, err := service.ListMine(context.Background(), "worm_farmer")
		require.NoError(t, err)

		assert.NotNil(t, piles)
		assert.Empty(t, piles)
	})
}

// # Health Records

func TestService_RecordHealth(t *testing.T) {
	t.Run("scores and persists a snapshot for an owned pile", func(t *testing.T) {
		service, _ := newTestService()
		pile := createTestPile(t, service, "worm_farmer", "Backyard heap")

		record, err := service.RecordHealth(context.Background(), "worm_farmer", pile.PileID, RecordHealthInput{
			Temperature: pointer.To(55.0),
			Moisture:    pointer.To(50.0),
		})
		require.NoError(t, err)

		assert.Equal(t, int16(100), record.HealthScore)
		assert.Equal(t, StatusHealthy, record.Status)
		assert.NotZero(t, record.RecordID)

		timeline, err := service.ListHealth(context.Background(), "worm_farmer", pile.PileID)
		require.NoError(t, err)
		require.Len(t, timeline, 1)
	})

	t.Run("someone else's pile is indistinguishable from a missing one", func(t *testing.T) {
		service, _ := newTestService()
		pile := createTestPile(t, service, "leaf_collector", "Leaf mould bin")

		_, foreignErr := service.RecordHealth(context.Background(), "worm_farmer", pile.PileID, RecordHealthInput{})
		_, missingErr := service.RecordHealth(context.Background(), "worm_farmer", 9999, RecordHealthInput{})

		require.Error(t, foreignErr)
		require.Error(t, missingErr)
		assert.Equal(t, missingErr.Error(), foreignErr.Error())
		assert.Equal(t, 404, apperr.As(foreignErr).HTTPStatus)
	})

	t.Run("critical snapshot raises an alert", func(t *testing.T) {
		service, notifier := newTestService()
		pile := createTestPile(t, service, "worm_farmer", "Backyard heap")

		_, err := service.RecordHealth(context.Background(), "worm_farmer", pile.PileID, RecordHealthInput{
			Temperature: pointer.To(2.0),
			Moisture:    pointer.To(5.0),
		})
		require.NoError(t, err)

		require.Len(t, notifier.alerts, 1)
		assert.Contains(t, notifier.alerts[0], "Backyard heap")
	})

	t.Run("healthy snapshot raises no alert", func(t *testing.T) {
		service, notifier := newTestService()
		pile := createTestPile(t, service, "worm_farmer", "Backyard heap")

		_, err := service.RecordHealth(context.Background(), "worm_farmer", pile.PileID, RecordHealthInput{
			Temperature: pointer.To(55.0),
		})
		require.NoError(t, err)

		assert.Empty(t, notifier.alerts)
	})
}

func TestService_ListHealth(t *testing.T) {
	t.Run("applies the same ownership rule as recording", func(t *testing.T) {
		service, _ := newTestService()
		pile := createTestPile(t, service, "leaf_collector", "Leaf mould bin")

		_, err := service.ListHealth(context.Background(), "worm_farmer", pile.PileID)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("empty timeline is an empty slice", func(t *testing.T) {
		service, _ := newTestService()
		pile := createTestPile(t, service, "worm_farmer", "Backyard heap")

		records, err := service.ListHealth(context.Background(), "worm_farmer", pile.PileID)
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})
}

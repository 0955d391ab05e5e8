package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/transcript-gwa/internal/apperrors"
	"github.com/insightdelivered/transcript-gwa/internal/metrics"
	"github.com/insightdelivered/transcript-gwa/internal/models"
)

func computation(code string) *models.Computation {
	return &models.Computation{Records: []models.CourseRecord{{Code: code, Units: 3, Grade: 1}}}
}

func TestStore_SaveAndGet(t *testing.T) {
	s := NewStore(time.Hour)

	id := s.Save("", computation("IT 101"))
	_, err := uuid.Parse(id)
	require.NoError(t, err, "generated ID must be a UUID")

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "IT 101", got.Records[0].Code)
}

func TestStore_SaveRotatesID(t *testing.T) {
	s := NewStore(time.Hour)

	id := s.Save("", computation("IT 101"))
	next := s.Save(id, computation("CS 21"))
	assert.NotEqual(t, id, next)

	_, err := s.Get(id)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound, "previous session must be dropped")

	got, err := s.Get(next)
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "CS 21", got.Records[0].Code)
	assert.Equal(t, 1, s.Len())
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s := NewStore(time.Hour)

	alice := s.Save("", computation("IT 101"))
	bob := s.Save("", computation("CS 21"))
	require.NotEqual(t, alice, bob)

	got, err := s.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, "IT 101", got.Records[0].Code)
}

func TestStore_ClientChosenIDNotAdopted(t *testing.T) {
	s := NewStore(time.Hour)
	chosen := "11111111-2222-4333-8444-555555555555"

	for _, previous := range []string{"not-a-uuid", chosen} {
		id := s.Save(previous, computation("IT 101"))
		assert.NotEqual(t, previous, id)
	}

	_, err := s.Get(chosen)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestStore_GetMissing(t *testing.T) {
	s := NewStore(time.Hour)

	_, err := s.Get(uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	_, err = s.Get("")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestStore_ExpiryAndSweep(t *testing.T) {
	s := NewStore(time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	old := s.Save("", computation("IT 101"))
	now = now.Add(30 * time.Second)
	fresh := s.Save("", computation("CS 21"))

	now = now.Add(45 * time.Second)
	_, err := s.Get(old)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	_, err = s.Get(fresh)
	assert.NoError(t, err)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore(time.Hour)

	var wg sync.WaitGroup
	ids := make([]string, 50)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = s.Save("", computation("IT 101"))
			_, _ = s.Get(ids[i])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}

func TestSweeper_RunNow(t *testing.T) {
	s := NewStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }
	s.Save("", computation("IT 101"))
	s.Save("", computation("CS 21"))

	m := metrics.New()
	sw := NewSweeper(s, "@every 1m", m)

	now = now.Add(2 * time.Minute)
	sw.RunNow()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestSweeper_StartRejectsBadSchedule(t *testing.T) {
	sw := NewSweeper(NewStore(time.Minute), "not a schedule", nil)
	assert.Error(t, sw.Start())
}

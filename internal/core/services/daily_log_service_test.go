package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/lifeos/internal/adapters/repository"
	"github.com/comitanigiacomo/lifeos/internal/core/domain"
	"github.com/comitanigiacomo/lifeos/internal/core/services"
)

func TestDailyLogService_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Second write only overwrites supplied fields", func(t *testing.T) {
		repo := repository.NewInMemoryDailyLogRepository()
		queue := &recordingQueue{}
		svc := services.NewDailyLogService(repo, nil, queue, discardLogger())

		first, err := svc.Upsert(ctx, services.UpsertDailyLogInput{
			UserID:      "u1",
			Date:        "2024-03-10",
			SleepHours:  ptr(7.5),
			Mood:        ptr("good"),
			EnergyLevel: ptr("high"),
		})
		require.NoError(t, err)

		second, err := svc.Upsert(ctx, services.UpsertDailyLogInput{
			UserID:     "u1",
			Date:       "2024-03-10",
			StudyHours: ptr(4.0),
			Mood:       ptr("Bad"),
		})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 7.5, *second.SleepHours)
		assert.Equal(t, 4.0, *second.StudyHours)
		assert.Equal(t, domain.MoodBad, *second.Mood)
		assert.Equal(t, domain.EnergyHigh, *second.EnergyLevel)

		all, err := svc.Range(ctx, "u1", "", "")
		require.NoError(t, err)
		assert.Len(t, all, 1)
		assert.Len(t, queue.calls, 2)
	})

	t.Run("Success: Empty energy level is treated as not supplied", func(t *testing.T) {
		svc := services.NewDailyLogService(repository.NewInMemoryDailyLogRepository(), nil, nil, discardLogger())

		_, err := svc.Upsert(ctx, services.UpsertDailyLogInput{UserID: "u1", Date: "2024-03-10", EnergyLevel: ptr("low")})
		require.NoError(t, err)
		log, err := svc.Upsert(ctx, services.UpsertDailyLogInput{UserID: "u1", Date: "2024-03-10", EnergyLevel: ptr("")})
		require.NoError(t, err)

		assert.Equal(t, domain.EnergyLow, *log.EnergyLevel)
	})

	t.Run("Error: Rejected before reaching the store", func(t *testing.T) {
		repo := new(MockLogRepo)
		svc := services.NewDailyLogService(repo, nil, nil, discardLogger())

		cases := []struct {
			name  string
			input services.UpsertDailyLogInput
			want  error
		}{
			{"bad format", services.UpsertDailyLogInput{UserID: "u1", Date: "10/03/2024"}, domain.ErrInvalidDate},
			{"impossible date", services.UpsertDailyLogInput{UserID: "u1", Date: "2024-02-30"}, domain.ErrInvalidDate},
			{"mood", services.UpsertDailyLogInput{UserID: "u1", Date: "2024-03-10", Mood: ptr("meh")}, domain.ErrInvalidMood},
			{"energy", services.UpsertDailyLogInput{UserID: "u1", Date: "2024-03-10", EnergyLevel: ptr("extreme")}, domain.ErrInvalidEnergy},
			{"hours", services.UpsertDailyLogInput{UserID: "u1", Date: "2024-03-10", SleepHours: ptr(-1.0)}, domain.ErrInvalidHours},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Upsert(ctx, tc.input)
				assert.ErrorIs(t, err, tc.want)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			})
		}

		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Fail: Store error propagates", func(t *testing.T) {
		repo := new(MockLogRepo)
		dbErr := errors.New("timeout")
		repo.On("Upsert", ctx, "u1", "2024-03-10", mock.Anything).Return(nil, dbErr)

		svc := services.NewDailyLogService(repo, nil, nil, discardLogger())
		_, err := svc.Upsert(ctx, services.UpsertDailyLogInput{UserID: "u1", Date: "2024-03-10"})

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestDailyLogService_GetAndRange(t *testing.T) {
	ctx := context.Background()
	svc := services.NewDailyLogService(repository.NewInMemoryDailyLogRepository(), nil, nil, discardLogger())

	for _, d := range []string{"2024-03-12", "2024-03-08", "2024-03-10"} {
		_, err := svc.Upsert(ctx, services.UpsertDailyLogInput{UserID: "u1", Date: d, SleepHours: ptr(8.0)})
		require.NoError(t, err)
	}

	t.Run("Success: Get by date", func(t *testing.T) {
		log, err := svc.Get(ctx, "u1", "2024-03-10")
		require.NoError(t, err)
		assert.Equal(t, "2024-03-10", log.Date)
	})

	t.Run("Error: Missing log", func(t *testing.T) {
		_, err := svc.Get(ctx, "u1", "2024-03-11")
		assert.ErrorIs(t, err, domain.ErrLogNotFound)
	})

	t.Run("Success: Range ascending and inclusive", func(t *testing.T) {
		logs, err := svc.Range(ctx, "u1", "2024-03-08", "2024-03-10")
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "2024-03-08", logs[0].Date)
		assert.Equal(t, "2024-03-10", logs[1].Date)
	})

	t.Run("Success: A single bound is ignored", func(t *testing.T) {
		logs, err := svc.Range(ctx, "u1", "2024-03-11", "")
		require.NoError(t, err)
		assert.Len(t, logs, 3)
	})

	t.Run("Error: Malformed bound", func(t *testing.T) {
		_, err := svc.Range(ctx, "u1", "2024-3-1", "2024-03-10")
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})
}

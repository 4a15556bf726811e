package services

import (
	"testing"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(n int) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.CatalogItem{
			ItemID:          uuid.New(),
			OrdinalPosition: i,
			Title:           "Lesson",
		})
	}
	return items
}

func testPlanner(t *testing.T, cfg RotationPlannerConfig) *RotationPlanner {
	t.Helper()
	return NewRotationPlanner(cfg, domain.AccessPolicy{FreeThreshold: 2})
}

func TestRotationPlanner_Plan(t *testing.T) {
	now := time.Date(2026, time.March, 10, 11, 30, 0, 0, time.UTC)

	t.Run("concrete rotation scenario", func(t *testing.T) {
		// 5-item catalog, cursor 0, 3 slots/day, 30 days: 90 sessions,
		// each item used for exactly 18, cursor back at 0.
		planner := testPlanner(t, RotationPlannerConfig{MinCycleLength: 1})
		catalog := testCatalog(5)
		class := domain.NewLiveClass(uuid.New())

		plan, err := planner.Plan(PlanRequest{
			Class:   class,
			Catalog: catalog,
			Now:     now,
		})
		require.NoError(t, err)
		require.NotNil(t, plan)

		assert.Len(t, plan.Sessions, 90)
		assert.Equal(t, 5, plan.CycleLength)
		assert.Equal(t, 0, plan.NewCursor)

		perItem := make(map[uuid.UUID]int)
		for _, s := range plan.Sessions {
			perItem[s.ContentItemRef()]++
		}
		require.Len(t, perItem, 5)
		for _, item := range catalog {
			assert.Equal(t, 18, perItem[item.ItemID], "6 days x 3 slots per item")
		}
	})

	t.Run("cyclic coverage resumes from the cursor", func(t *testing.T) {
		planner := testPlanner(t, RotationPlannerConfig{MinCycleLength: 1, ExtensionDays: 7})
		catalog := testCatalog(5)
		class := domain.RehydrateLiveClass(uuid.New(), uuid.New(), 3, true, now, now)

		plan, err := planner.Plan(PlanRequest{Class: class, Catalog: catalog, Now: now})
		require.NoError(t, err)
		require.NotNil(t, plan)

		// Day d uses item (3+d) mod 5.
		slots := planner.SlotsPerDay()
		for day := 0; day < 7; day++ {
			want := catalog[(3+day)%5].ItemID
			for i := 0; i < slots; i++ {
				assert.Equal(t, want, plan.Sessions[day*slots+i].ContentItemRef())
			}
		}
		assert.Equal(t, (3+7)%5, plan.NewCursor)
	})

	t.Run("contiguity: no day gaps, no duplicate day-slot pairs", func(t *testing.T) {
		planner := testPlanner(t, RotationPlannerConfig{MinCycleLength: 1})
		class := domain.NewLiveClass(uuid.New())

		plan, err := planner.Plan(PlanRequest{Class: class, Catalog: testCatalog(4), Now: now})
		require.NoError(t, err)
		require.NotNil(t, plan)

		seen := make(map[string]bool)
		days := make(map[string]bool)
		for _, s := range plan.Sessions {
			key := s.ScheduledAt().Format("2006-01-02") + "/" + string(s.Slot())
			assert.False(t, seen[key], "duplicate (day, slot) %s", key)
			seen[key] = true
			days[s.ScheduledAt().Format("2006-01-02")] = true
		}

		require.Len(t, days, 30)
		for day := 0; day < 30; day++ {
			date := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day)
			assert.True(t, days[date.Format("2006-01-02")], "missing day %s", date)
		}
	})

	t.Run("free flag follows ordinal threshold", func(t *testing.T) {
		planner := testPlanner(t, RotationPlannerConfig{MinCycleLength: 1})
		catalog := testCatalog(5)
		class := domain.NewLiveClass(uuid.New())

		plan, err := planner.Plan(PlanRequest{Class: class, Catalog: catalog, Now: now})
		require.NoError(t, err)

		freeItems := map[uuid.UUID]bool{
			catalog[0].ItemID: true,
			catalog[1].ItemID: true,
		}
		for _, s := range plan.Sessions {
			assert.Equal(t, freeItems[s.ContentItemRef()], s.IsFree())
		}
	})

	t.Run("skips when the calendar is already full", func(t *testing.T) {
		planner := testPlanner(t, RotationPlannerConfig{MinCycleLength: 1, LowWaterMarkDays: 7})
		class := domain.NewLiveClass(uuid.New())

		// 21 future sessions at 3 slots/day is exactly 7 buffered days.
		plan, err := planner.Plan(PlanRequest{
			Class:       class,
			Catalog:     testCatalog(5),
			FutureCount: 21,
			Now:         now,
		})
		require.NoError(t, err)
		assert.Nil(t, plan)
	})

	t.Run("extends when under the low-water mark", func(t *testing.T) {
		planner := testPlanner(t, RotationPlannerConfig{MinCycleLength: 1, LowWaterMarkDays: 7})
		class := domain.NewLiveClass(uuid.New())

		plan, err := planner.Plan(PlanRequest{
			Class:       class,
			Catalog:     testCatalog(5),
			FutureCount: 20,
			Now:         now,
		})
		require.NoError(t, err)
		assert.NotNil(t, plan)
	})

	t.Run("starts tomorrow when no future sessions exist", func(t *testing.T) {
		planner := testPlanner(t, RotationPlannerConfig{MinCycleLength: 1})
		class := domain.NewLiveClass(uuid.New())

		plan, err := planner.Plan(PlanRequest{Class: class, Catalog: testCatalog(3), Now: now})
		require.NoError(t, err)

		first := plan.Sessions[0].ScheduledAt()
		assert.Equal(t, time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC), first)
	})

	t.Run("starts the day after the latest future session", func(t *testing.T) {
		planner := testPlanner(t, RotationPlannerConfig{MinCycleLength: 1})
		class := domain.NewLiveClass(uuid.New())
		last := time.Date(2026, time.March, 20, 19, 0, 0, 0, time.UTC)

		plan, err := planner.Plan(PlanRequest{
			Class:         class,
			Catalog:       testCatalog(3),
			FutureCount:   3,
			LastScheduled: &last,
			Now:           now,
		})
		require.NoError(t, err)

		first := plan.Sessions[0].ScheduledAt()
		assert.Equal(t, time.Date(2026, time.March, 21, 9, 0, 0, 0, time.UTC), first)
	})

	t.Run("never starts in the past", func(t *testing.T) {
		planner := testPlanner(t, RotationPlannerConfig{MinCycleLength: 1})
		class := domain.NewLiveClass(uuid.New())
		// A "future" session later today still yields a tomorrow start.
		last := time.Date(2026, time.March, 10, 19, 0, 0, 0, time.UTC)

		plan, err := planner.Plan(PlanRequest{
			Class:         class,
			Catalog:       testCatalog(3),
			FutureCount:   1,
			LastScheduled: &last,
			Now:           now,
		})
		require.NoError(t, err)

		first := plan.Sessions[0].ScheduledAt()
		assert.Equal(t, time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC), first)
	})

	t.Run("empty catalog fails the class", func(t *testing.T) {
		planner := testPlanner(t, RotationPlannerConfig{})
		class := domain.NewLiveClass(uuid.New())

		_, err := planner.Plan(PlanRequest{Class: class, Catalog: nil, Now: now})
		assert.ErrorIs(t, err, domain.ErrEmptyCatalog)
	})

	t.Run("inactive classes are never planned", func(t *testing.T) {
		planner := testPlanner(t, RotationPlannerConfig{})
		class := domain.NewLiveClass(uuid.New())
		class.Deactivate()

		_, err := planner.Plan(PlanRequest{Class: class, Catalog: testCatalog(3), Now: now})
		assert.ErrorIs(t, err, domain.ErrClassInactive)
	})

	t.Run("sessions carry the default capacity", func(t *testing.T) {
		planner := testPlanner(t, RotationPlannerConfig{MinCycleLength: 1, DefaultCapacity: 50})
		class := domain.NewLiveClass(uuid.New())

		plan, err := planner.Plan(PlanRequest{Class: class, Catalog: testCatalog(3), Now: now})
		require.NoError(t, err)

		for _, s := range plan.Sessions {
			require.NotNil(t, s.Capacity())
			assert.Equal(t, 50, *s.Capacity())
			require.NotNil(t, s.Remaining())
			assert.Equal(t, 50, *s.Remaining())
		}
	})
}

func TestRotationPlanner_CycleLength(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

	t.Run("short standalone catalogs pad up to the minimum", func(t *testing.T) {
		planner := testPlanner(t, RotationPlannerConfig{MinCycleLength: 7, ExtensionDays: 14})
		catalog := testCatalog(3)
		class := domain.NewLiveClass(uuid.New())

		plan, err := planner.Plan(PlanRequest{Class: class, Catalog: catalog, Now: now})
		require.NoError(t, err)

		assert.Equal(t, 7, plan.CycleLength)
		assert.Equal(t, (0+14)%7, plan.NewCursor)

		// Padded rotation positions wrap back onto real items.
		slots := planner.SlotsPerDay()
		for day := 0; day < 14; day++ {
			want := catalog[(day%7)%3].ItemID
			assert.Equal(t, want, plan.Sessions[day*slots].ContentItemRef())
		}
	})

	t.Run("long course catalogs are capped at the maximum", func(t *testing.T) {
		planner := testPlanner(t, RotationPlannerConfig{MaxCycleLength: 10, ExtensionDays: 12})
		catalog := testCatalog(40)
		class := domain.NewLiveClass(uuid.New())

		plan, err := planner.Plan(PlanRequest{Class: class, Catalog: catalog, Now: now})
		require.NoError(t, err)

		assert.Equal(t, 10, plan.CycleLength)
		assert.Equal(t, (0+12)%10, plan.NewCursor)

		// Only the first ten items of the course are exposed per rotation.
		used := make(map[uuid.UUID]bool)
		for _, s := range plan.Sessions {
			used[s.ContentItemRef()] = true
		}
		assert.Len(t, used, 10)
	})
}

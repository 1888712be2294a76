//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"fitbook/internal/domain/schedule"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTemplate(t *testing.T, mutate func(*schedule.TemplateParams)) *schedule.Template {
	t.Helper()
	p := schedule.TemplateParams{
		Name: "Evening Yoga",
		Slots: []schedule.WeeklySlot{
			{Weekday: time.Monday, Hour: 18, Minute: 0},
		},
		Duration:  time.Hour,
		Active:    true,
		ValidFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		TimeZone:  "America/New_York",
	}
	if mutate != nil {
		mutate(&p)
	}
	tmpl, err := schedule.NewTemplate(p)
	require.NoError(t, err)
	return tmpl
}

func TestNewTemplateValidation(t *testing.T) {
	base := func() schedule.TemplateParams {
		return schedule.TemplateParams{
			Name:      "t",
			Slots:     []schedule.WeeklySlot{{Weekday: time.Monday, Hour: 10}},
			Duration:  time.Hour,
			ValidFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			ValidTo:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			TimeZone:  "UTC",
		}
	}

	t.Run("empty pattern", func(t *testing.T) {
		p := base()
		p.Slots = nil
		_, err := schedule.NewTemplate(p)
		assert.ErrorIs(t, err, schedule.ErrEmptyPattern)
	})

	t.Run("bad slot time", func(t *testing.T) {
		p := base()
		p.Slots = []schedule.WeeklySlot{{Weekday: time.Monday, Hour: 24}}
		_, err := schedule.NewTemplate(p)
		assert.ErrorIs(t, err, schedule.ErrBadSlot)
	})

	t.Run("window wider than a year", func(t *testing.T) {
		p := base()
		p.ValidTo = p.ValidFrom.AddDate(0, 0, schedule.MaxWindowDays+1)
		_, err := schedule.NewTemplate(p)
		assert.ErrorIs(t, err, schedule.ErrWindowTooWide)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		p := base()
		p.TimeZone = "Mars/Olympus"
		_, err := schedule.NewTemplate(p)
		assert.Error(t, err)
	})
}

func TestOccurrencesWithin(t *testing.T) {
	t.Run("mon wed fri over 14 days", func(t *testing.T) {
		tmpl := newTemplate(t, func(p *schedule.TemplateParams) {
			p.TimeZone = "UTC"
			p.Slots = []schedule.WeeklySlot{
				{Weekday: time.Monday, Hour: 10},
				{Weekday: time.Wednesday, Hour: 10},
				{Weekday: time.Friday, Hour: 10},
			}
		})

		// 2026-03-02 is a Monday. Days 0..14 inclusive contain Mondays on
		// day 0, 7, 14, Wednesdays on 2, 9 and Fridays on 4, 11.
		from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		occs, err := tmpl.OccurrencesWithin(from, 14)
		require.NoError(t, err)
		assert.Len(t, occs, 7)
		for _, occ := range occs {
			assert.Equal(t, time.Hour, occ.EndsAt.Sub(occ.StartsAt))
		}
	})

	t.Run("preserves wall clock across spring DST transition", func(t *testing.T) {
		tmpl := newTemplate(t, func(p *schedule.TemplateParams) {
			p.Slots = []schedule.WeeklySlot{{Weekday: time.Sunday, Hour: 18, Minute: 0}}
		})
		ny, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)

		// US DST starts 2026-03-08. The Sunday before is EST (UTC-5), the
		// Sunday itself is EDT (UTC-4): 18:00 local maps to 23:00Z then 22:00Z.
		from := time.Date(2026, 3, 1, 0, 0, 0, 0, ny)
		occs, err := tmpl.OccurrencesWithin(from, 8)
		require.NoError(t, err)
		require.Len(t, occs, 2)

		assert.Equal(t, time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC), occs[0].StartsAt)
		assert.Equal(t, time.Date(2026, 3, 8, 22, 0, 0, 0, time.UTC), occs[1].StartsAt)
		for _, occ := range occs {
			local := occ.StartsAt.In(ny)
			assert.Equal(t, 18, local.Hour())
		}
	})

	t.Run("skip dates drop matching days", func(t *testing.T) {
		tmpl := newTemplate(t, func(p *schedule.TemplateParams) {
			p.TimeZone = "UTC"
			p.Slots = []schedule.WeeklySlot{{Weekday: time.Monday, Hour: 10}}
			p.SkipDates = []time.Time{time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)}
		})

		from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		occs, err := tmpl.OccurrencesWithin(from, 14)
		require.NoError(t, err)
		require.Len(t, occs, 2)
		assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), occs[0].StartsAt)
		assert.Equal(t, time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC), occs[1].StartsAt)
	})

	t.Run("inactive template yields nothing", func(t *testing.T) {
		tmpl := newTemplate(t, func(p *schedule.TemplateParams) { p.Active = false })
		occs, err := tmpl.OccurrencesWithin(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), 30)
		require.NoError(t, err)
		assert.Empty(t, occs)
	})

	t.Run("validity window bounds the expansion", func(t *testing.T) {
		tmpl := newTemplate(t, func(p *schedule.TemplateParams) {
			p.TimeZone = "UTC"
			p.Slots = []schedule.WeeklySlot{{Weekday: time.Monday, Hour: 10}}
			p.ValidFrom = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
			p.ValidTo = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
		})

		from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		occs, err := tmpl.OccurrencesWithin(from, 28)
		require.NoError(t, err)
		require.Len(t, occs, 2)
		assert.Equal(t, time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC), occs[0].StartsAt)
		assert.Equal(t, time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC), occs[1].StartsAt)
	})

	t.Run("same window enumerates identically", func(t *testing.T) {
		tmpl := newTemplate(t, nil)
		from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		first, err := tmpl.OccurrencesWithin(from, 60)
		require.NoError(t, err)
		second, err := tmpl.OccurrencesWithin(from, 60)
		require.NoError(t, err)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("occurrence set mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("occurrences carry the template id", func(t *testing.T) {
		id := uuid.New()
		tmpl := newTemplate(t, func(p *schedule.TemplateParams) {
			p.ID = id
			p.TimeZone = "UTC"
		})
		occs, err := tmpl.OccurrencesWithin(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), 7)
		require.NoError(t, err)
		require.NotEmpty(t, occs)
		for _, occ := range occs {
			assert.Equal(t, id, occ.TemplateID)
		}
	})
}

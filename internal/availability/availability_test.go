package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storesite/internal/model"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		offered bool
		open    bool
		status  model.Status
		want    State
	}{
		{"offered and open", true, true, model.StatusActive, Available},
		{"offered and closed", true, false, model.StatusActive, AvailableButClosed},
		{"empty status treated as active", true, true, "", Available},
		{"coming soon while open", true, true, model.StatusComingSoon, ComingSoon},
		{"coming soon while closed", true, false, model.StatusComingSoon, ComingSoon},
		{"inactive", true, true, model.StatusInactive, Unavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.offered, tt.open, tt.status))
		})
	}
}

func TestResolve_NotOfferedIsAlwaysUnavailable(t *testing.T) {
	for _, open := range []bool{true, false} {
		for _, status := range []model.Status{"", model.StatusActive, model.StatusComingSoon, model.StatusInactive} {
			assert.Equal(t, Unavailable, Resolve(false, open, status), "open=%v status=%q", open, status)
		}
	}
}

var route7 = model.Location{
	ID:       "loc-7",
	Timezone: "America/New_York",
	Status:   model.LocationOpen,
	Hours: []model.DayHours{
		{Day: "monday", Open: "05:00", Close: "23:00"},
		{Day: "friday", Open: "05:00", Close: "01:00"},
		{Day: "Saturday", Open: "06:00", Close: "01:00"},
		{Day: "sunday", Closed: true},
	},
	MenuItemIDs: []string{"coffee"},
}

func nyc(t *testing.T, s string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	ts, err := time.ParseInLocation("2006-01-02 15:04", s, loc)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func TestIsOpen(t *testing.T) {
	// 2026-10-19 is a Monday.
	tests := []struct {
		name string
		at   string
		want bool
	}{
		{"monday morning", "2026-10-19 08:00", true},
		{"monday before opening", "2026-10-19 04:59", false},
		{"monday at closing", "2026-10-19 23:00", false},
		{"tuesday has no hours", "2026-10-20 12:00", false},
		{"friday late night", "2026-10-23 23:30", true},
		{"saturday after midnight spill from friday", "2026-10-24 00:30", true},
		{"saturday after spill ends", "2026-10-24 01:00", false},
		{"sunday after midnight spill from saturday", "2026-10-25 00:15", true},
		{"sunday closed", "2026-10-25 12:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOpen(route7, nyc(t, tt.at)))
		})
	}
}

func TestIsOpen_UsesLocationTimezone(t *testing.T) {
	// 12:30 UTC on a Monday is 08:30 in New York (EDT).
	at := time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)
	if _, err := time.LoadLocation("America/New_York"); err != nil {
		t.Skip("tzdata unavailable")
	}
	assert.True(t, IsOpen(route7, at))

	// 03:30 UTC Monday is 23:30 Sunday in New York, and Sunday is closed.
	assert.False(t, IsOpen(route7, time.Date(2026, 10, 19, 3, 30, 0, 0, time.UTC)))
}

func TestIsOpen_StatusAndAllDay(t *testing.T) {
	at := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)

	assert.True(t, IsOpen(model.Location{Open24Hours: true}, at))
	assert.False(t, IsOpen(model.Location{Open24Hours: true, Status: model.LocationComingSoon}, at))
	assert.False(t, IsOpen(model.Location{Open24Hours: true, Status: model.LocationClosed}, at))
	assert.False(t, IsOpen(model.Location{}, at))

	badHours := model.Location{Hours: []model.DayHours{{Day: "monday", Open: "late", Close: "later"}}}
	assert.False(t, IsOpen(badHours, at))

	untilMidnight := model.Location{Hours: []model.DayHours{{Day: "monday", Open: "00:00", Close: "24:00"}}}
	assert.True(t, IsOpen(untilMidnight, time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)))
}

func TestForMenuItemAndService(t *testing.T) {
	open := nyc(t, "2026-10-19 08:00")
	closed := nyc(t, "2026-10-19 23:30")

	coffee := model.MenuItem{ID: "coffee", Status: model.StatusActive}
	chicken := model.MenuItem{ID: "chicken", Status: model.StatusActive, LocationIDs: []string{"loc-7"}}
	pizza := model.MenuItem{ID: "pizza", Status: model.StatusActive}

	assert.Equal(t, Available, ForMenuItem(coffee, route7, open))
	assert.Equal(t, AvailableButClosed, ForMenuItem(coffee, route7, closed))
	assert.Equal(t, Available, ForMenuItem(chicken, route7, open))
	assert.Equal(t, Unavailable, ForMenuItem(pizza, route7, open))
	assert.Equal(t, Unavailable, ForMenuItem(pizza, route7, closed))

	ev := model.Service{ID: "ev", Status: model.StatusComingSoon, LocationIDs: []string{"loc-7"}}
	atm := model.Service{ID: "atm"}
	assert.Equal(t, ComingSoon, ForService(ev, route7, open))
	assert.Equal(t, Unavailable, ForService(atm, route7, open))
}

func TestBoardFor(t *testing.T) {
	at := nyc(t, "2026-10-19 08:00")
	cat := &model.Catalog{
		Menu:     []model.MenuItem{{ID: "coffee", Slug: "coffee", Name: "Coffee"}, {ID: "pizza", Slug: "pizza", Name: "Pizza"}},
		Services: []model.Service{{ID: "atm", Slug: "atm", Name: "ATM", LocationIDs: []string{"loc-7"}}},
	}
	loc := route7
	loc.Slug = "route-7"

	b := BoardFor(cat, loc, at)

	assert.Equal(t, "route-7", b.Location)
	assert.True(t, b.Open)
	assert.Equal(t, Available, b.Menu[0].State)
	assert.Equal(t, Unavailable, b.Menu[1].State)
	assert.Equal(t, "service", b.Services[0].Kind)
	assert.Equal(t, Available, b.Services[0].State)
}

// Package availability resolves whether a menu item or service can be bought
// at a store right now.
package availability

import (
	"slices"
	"strings"
	"time"

	"storesite/internal/model"
)

// State is the availability of an offering at one location.
type State string

const (
	Available          State = "available"
	AvailableButClosed State = "available_but_closed"
	ComingSoon         State = "coming_soon"
	Unavailable        State = "unavailable"
)

// Resolve applies the availability decision table. An offering that the
// location does not carry is unavailable whatever the store hours say.
func Resolve(offered, open bool, status model.Status) State {
	if !offered {
		return Unavailable
	}
	switch status {
	case model.StatusComingSoon:
		return ComingSoon
	case model.StatusInactive:
		return Unavailable
	}
	if open {
		return Available
	}
	return AvailableButClosed
}

// OffersMenuItem reports whether loc carries item. Either side may list the other.
func OffersMenuItem(item model.MenuItem, loc model.Location) bool {
	return slices.Contains(item.LocationIDs, loc.ID) || slices.Contains(loc.MenuItemIDs, item.ID)
}

// OffersService reports whether loc provides svc.
func OffersService(svc model.Service, loc model.Location) bool {
	return slices.Contains(svc.LocationIDs, loc.ID) || slices.Contains(loc.ServiceIDs, svc.ID)
}

// ForMenuItem resolves a menu item at loc at time t.
func ForMenuItem(item model.MenuItem, loc model.Location, t time.Time) State {
	return Resolve(OffersMenuItem(item, loc), IsOpen(loc, t), item.Status)
}

// ForService resolves a service at loc at time t.
func ForService(svc model.Service, loc model.Location, t time.Time) State {
	return Resolve(OffersService(svc, loc), IsOpen(loc, t), svc.Status)
}

// IsOpen reports whether loc is trading at t, evaluated in the store's
// timezone (UTC when unknown). Stores that are closed or not yet open are
// never open.
func IsOpen(loc model.Location, t time.Time) bool {
	switch loc.Status {
	case model.LocationComingSoon, model.LocationClosed:
		return false
	}
	if loc.Open24Hours {
		return true
	}

	t = t.In(timezone(loc.Timezone))
	minute := t.Hour()*60 + t.Minute()

	// Today's window, or yesterday's window spilling past midnight.
	if open, close, ok := window(loc.Hours, t.Weekday()); ok {
		if close > open && minute >= open && minute < close {
			return true
		}
		if close <= open && minute >= open {
			return true
		}
	}
	if open, close, ok := window(loc.Hours, (t.Weekday()+6)%7); ok {
		if close <= open && minute < close {
			return true
		}
	}
	return false
}

func timezone(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func window(hours []model.DayHours, day time.Weekday) (open, close int, ok bool) {
	for _, h := range hours {
		if !strings.EqualFold(h.Day, day.String()) || h.Closed {
			continue
		}
		o, okOpen := parseClock(h.Open)
		c, okClose := parseClock(h.Close)
		if !okOpen || !okClose {
			return 0, 0, false
		}
		return o, c, true
	}
	return 0, 0, false
}

// parseClock converts "HH:MM" to minutes after midnight. "24:00" is accepted
// as the end of the day.
func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err == nil {
		return t.Hour()*60 + t.Minute(), true
	}
	if s == "24:00" {
		return 24 * 60, true
	}
	return 0, false
}

// Entry is the availability of one offering at a location.
type Entry struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	State State  `json:"state"`
}

// Board is the availability of the whole catalog at one location.
type Board struct {
	Location string    `json:"location"`
	Open     bool      `json:"open"`
	At       time.Time `json:"at"`
	Menu     []Entry   `json:"menu"`
	Services []Entry   `json:"services"`
}

// BoardFor builds the availability board of loc at t.
func BoardFor(cat *model.Catalog, loc model.Location, t time.Time) Board {
	b := Board{
		Location: loc.Slug,
		Open:     IsOpen(loc, t),
		At:       t,
		Menu:     make([]Entry, 0, len(cat.Menu)),
		Services: make([]Entry, 0, len(cat.Services)),
	}
	for _, it := range cat.Menu {
		b.Menu = append(b.Menu, Entry{ID: it.ID, Slug: it.Slug, Name: it.Name, Kind: "menu_item", State: ForMenuItem(it, loc, t)})
	}
	for _, s := range cat.Services {
		b.Services = append(b.Services, Entry{ID: s.ID, Slug: s.Slug, Name: s.Name, Kind: "service", State: ForService(s, loc, t)})
	}
	return b
}

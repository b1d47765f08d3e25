package validation

import (
	"strconv"
	"strings"

	"github.com/adam2504/devevent/internal/domain/event"
)

// EventChanges says which derived fields must be recomputed on this commit.
type EventChanges struct {
	// TitleChanged is also set for records that have never been stored.
	TitleChanged bool
	DateChanged  bool
	TimeChanged  bool
}

// NewEventChanges is the change set for a record that has never been stored.
func NewEventChanges() EventChanges {
	return EventChanges{TitleChanged: true, DateChanged: true, TimeChanged: true}
}

// DiffEvent compares a stored record with its replacement. Values are compared after trimming,
// so whitespace-only edits do not count as changes.
func DiffEvent(current, next event.Event) EventChanges {
	same := func(a, b string) bool { return strings.TrimSpace(a) == strings.TrimSpace(b) }

	return EventChanges{
		TitleChanged: !same(current.Title, next.Title),
		DateChanged:  !same(current.Date, next.Date),
		TimeChanged:  !same(current.Time, next.Time),
	}
}

// ValidateAndNormalizeEvent checks candidate and derives slug, date and time as requested by
// changes. The returned record is a copy; candidate is never modified. On failure the error is
// an Errors value and the returned record is zero.
func ValidateAndNormalizeEvent(candidate event.Event, changes EventChanges) (event.Event, error) {
	out := candidate
	var errs Errors

	scalars := []struct {
		field string
		value *string
	}{
		{"title", &out.Title},
		{"description", &out.Description},
		{"overview", &out.Overview},
		{"image", &out.Image},
		{"venue", &out.Venue},
		{"location", &out.Location},
		{"date", &out.Date},
		{"time", &out.Time},
		{"audience", &out.Audience},
		{"organizer", &out.Organizer},
	}

	for _, s := range scalars {
		v, err := requiredString(*s.value)
		if err != nil {
			errs.add(s.field, err)
			continue
		}
		*s.value = v
	}

	mode, err := requiredString(string(out.Mode))
	switch {
	case err != nil:
		errs.add("mode", err)
	case !event.Mode(mode).Valid():
		errs.add("mode", ErrInvalidEnumValue)
	default:
		out.Mode = event.Mode(mode)
	}

	out.Agenda = collection("agenda", candidate.Agenda, false, &errs)
	out.Tags = collection("tags", candidate.Tags, true, &errs)

	if len(errs) > 0 {
		return event.Event{}, errs
	}

	if changes.TitleChanged {
		slug := Slugify(out.Title)
		if slug == "" {
			// nothing slug-safe left in the title
			return event.Event{}, fieldFailure("title", ErrFieldEmpty)
		}
		out.Slug = slug
	} else {
		out.Slug = strings.TrimSpace(out.Slug)
	}

	if changes.DateChanged {
		d, err := NormalizeDate(out.Date)
		if err != nil {
			return event.Event{}, fieldFailure("date", err)
		}
		out.Date = d
	}

	if changes.TimeChanged {
		t, err := NormalizeTime(out.Time)
		if err != nil {
			return event.Event{}, fieldFailure("time", err)
		}
		out.Time = t
	}

	return out, nil
}

func requiredString(v string) (string, error) {
	if v == "" {
		return "", ErrFieldRequired
	}

	t := strings.TrimSpace(v)
	if t == "" {
		return "", ErrFieldEmpty
	}

	return t, nil
}

// collection trims every item into a fresh slice. With unique set, repeated items keep their
// first position only.
func collection(field string, items []string, unique bool, errs *Errors) []string {
	if items == nil {
		errs.add(field, ErrFieldRequired)
		return nil
	}

	if len(items) == 0 {
		errs.add(field, ErrEmptyCollection)
		return nil
	}

	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	failed := false

	for i, item := range items {
		v := strings.TrimSpace(item)
		if v == "" {
			errs.add(field+"["+strconv.Itoa(i)+"]", ErrFieldEmpty)
			failed = true
			continue
		}

		if unique {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
		}

		out = append(out, v)
	}

	if failed {
		return nil
	}

	return out
}

package outline

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Page is a named outline. Journal pages carry a DateKey unique among journals.
type Page struct {
	Name    string    `json:"name"`
	Journal bool      `json:"journal,omitempty"`
	DateKey int       `json:"dateKey,omitempty"`
	Created Timestamp `json:"created"`
	Updated Timestamp `json:"updated"`
}

// NewJournal returns the journal page for the day containing t.
func NewJournal(t time.Time) *Page {
	return &Page{
		Name:    JournalName(t),
		Journal: true,
		DateKey: DateKey(t),
	}
}

func (p *Page) String() string {
	if p.Journal {
		return fmt.Sprintf("%s (%d)", p.Name, p.DateKey)
	}
	return p.Name
}

const (
	layoutUSDay  = "January 2, 2006"
	layoutDayKey = "20060102"
)

var dayNamePattern = regexp.MustCompile(`^[A-Za-z]+ \d{1,2}, \d{4}$`)

// DateKey converts t to the ordered integer form yyyymmdd.
func DateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// ParseDateKey converts a yyyymmdd key back to midnight local time.
func ParseDateKey(key int) (time.Time, error) {
	t, err := time.ParseInLocation(layoutDayKey, strconv.Itoa(key), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("outline: invalid date key %d: %w", key, err)
	}
	return t, nil
}

// JournalName formats t as a journal page name, e.g. "October 11, 2025".
func JournalName(t time.Time) string {
	return t.Format(layoutUSDay)
}

// IsJournalName reports whether name looks like "October 11, 2025".
func IsJournalName(name string) bool {
	if !dayNamePattern.MatchString(name) {
		return false
	}
	_, err := time.Parse(layoutUSDay, name)
	return err == nil
}

// ParseJournalName returns the day a journal page name refers to.
func ParseJournalName(name string) (time.Time, error) {
	return time.ParseInLocation(layoutUSDay, name, time.Local)
}

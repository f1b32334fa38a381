package change

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Created identifies the journal page announced by a batch.
type Created struct {
	Page    string
	DateKey int
}

// Classify reports whether b records the creation of a journal page. The
// store reports every edit through the same channel, so a page counts as
// new only when its updatedAt and createdAt are set to the same instant in
// the batch that also flags it as a journal.
func Classify(b Batch) (Created, bool) {
	for _, entity := range journalEntities(b) {
		if c, ok := classifyEntity(b, entity); ok {
			return c, true
		}
	}
	return Created{}, false
}

func classifyEntity(b Batch, entity string) (Created, bool) {
	var created, updated int64
	var haveCreated, haveUpdated bool
	for _, d := range b.Records {
		if d.Entity != entity || !d.Added {
			continue
		}
		switch d.Attr {
		case AttrCreatedAt:
			if !haveCreated {
				created, haveCreated = asInt(d.Value)
			}
		case AttrUpdatedAt:
			if !haveUpdated {
				updated, haveUpdated = asInt(d.Value)
			}
		}
	}
	if !haveCreated || !haveUpdated || created != updated {
		return Created{}, false
	}

	c := Created{}
	for _, t := range b.Touched {
		if t.ID == entity {
			c.Page = t.Page
			c.DateKey = t.DateKey
			break
		}
	}
	for _, d := range b.Records {
		if d.Entity != entity || !d.Added {
			continue
		}
		switch d.Attr {
		case AttrName:
			if c.Page == "" {
				if s, ok := d.Value.(string); ok {
					c.Page = s
				}
			}
		case AttrJournalDay:
			if c.DateKey == 0 {
				if v, ok := asInt(d.Value); ok {
					c.DateKey = int(v)
				}
			}
		}
	}
	if c.Page == "" || c.DateKey == 0 {
		return Created{}, false
	}
	return c, true
}

// journalEntities returns every entity whose journal flag is set true, in
// record order.
func journalEntities(b Batch) []string {
	var out []string
	seen := map[string]bool{}
	for _, d := range b.Records {
		if d.Attr == AttrJournal && d.Added && isTrue(d.Value) && !seen[d.Entity] {
			seen[d.Entity] = true
			out = append(out, d.Entity)
		}
	}
	return out
}

func isTrue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	default:
		return false
	}
}

func asInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		i, err := t.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

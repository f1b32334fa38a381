// Package change describes the mutation batches a store emits and decides
// which of them announce a freshly created journal page.
package change

import (
	"bytes"
	"encoding/json"
	"time"
)

// Attributes carried by change records.
const (
	AttrCreatedAt  = "createdAt"
	AttrUpdatedAt  = "updatedAt"
	AttrJournal    = "journal?"
	AttrJournalDay = "journalDay"
	AttrName       = "name"
	AttrContent    = "content"
	AttrParent     = "parent"
	AttrLeft       = "left"
	AttrPage       = "page"
)

// Datom is a single attribute assertion (Added) or retraction on an entity.
type Datom struct {
	Entity string `json:"e"`
	Attr   string `json:"a"`
	Value  any    `json:"v"`
	Added  bool   `json:"added"`
}

// Touched summarizes an entity affected by a batch. Pages set Page to their
// own name.
type Touched struct {
	ID      string `json:"id"`
	Page    string `json:"page,omitempty"`
	Journal bool   `json:"journal,omitempty"`
	DateKey int    `json:"dateKey,omitempty"`
}

// Batch groups the records produced by one store transaction.
type Batch struct {
	Seq     uint64    `json:"seq"`
	At      time.Time `json:"at"`
	Records []Datom   `json:"records"`
	Touched []Touched `json:"touched,omitempty"`
}

// Set appends an added datom.
func (b *Batch) Set(entity, attr string, value any) {
	b.Records = append(b.Records, Datom{Entity: entity, Attr: attr, Value: value, Added: true})
}

// Retract appends a retraction datom.
func (b *Batch) Retract(entity, attr string, value any) {
	b.Records = append(b.Records, Datom{Entity: entity, Attr: attr, Value: value})
}

// Touch records an affected entity once.
func (b *Batch) Touch(t Touched) {
	for _, existing := range b.Touched {
		if existing.ID == t.ID {
			return
		}
	}
	b.Touched = append(b.Touched, t)
}

// Empty reports whether the batch has nothing to deliver.
func (b Batch) Empty() bool {
	return len(b.Records) == 0
}

// Encode marshals the batch for the on-disk feed.
func (b Batch) Encode() ([]byte, error) {
	return json.Marshal(b)
}

// Decode reads a batch written by Encode.
func Decode(data []byte) (Batch, error) {
	var b Batch
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&b); err != nil {
		return Batch{}, err
	}
	return b, nil
}

package item

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Item bundles the formats of one logical message. Items are immutable; the
// With* helpers and Merge return copies.
type Item struct {
	order   []string
	formats map[string]Format
	id      string
	prevID  string
}

// New builds an item. When two formats share a name the later one wins.
func New(formats ...Format) *Item {
	it := &Item{formats: make(map[string]Format, len(formats))}
	for _, f := range formats {
		it.put(f)
	}
	return it
}

// NewID returns a random identifier suitable for Item.WithID.
func NewID() string {
	return uuid.NewString()
}

func (it *Item) put(f Format) {
	if f == nil {
		return
	}
	name := f.Name()
	if _, ok := it.formats[name]; !ok {
		it.order = append(it.order, name)
	}
	it.formats[name] = f
}

func (it *Item) clone() *Item {
	out := &Item{
		order:   append([]string(nil), it.order...),
		formats: make(map[string]Format, len(it.formats)),
		id:      it.id,
		prevID:  it.prevID,
	}
	for k, v := range it.formats {
		out.formats[k] = v
	}
	return out
}

// WithID returns a copy carrying id.
func (it *Item) WithID(id string) *Item {
	out := it.clone()
	out.id = id
	return out
}

// WithPrevID returns a copy carrying the id of the preceding item.
func (it *Item) WithPrevID(prevID string) *Item {
	out := it.clone()
	out.prevID = prevID
	return out
}

func (it *Item) ID() string     { return it.id }
func (it *Item) PrevID() string { return it.prevID }
func (it *Item) Len() int       { return len(it.order) }

// Format returns the format registered under name.
func (it *Item) Format(name string) (Format, bool) {
	f, ok := it.formats[name]
	return f, ok
}

// Formats lists formats in first-insertion order.
func (it *Item) Formats() []Format {
	out := make([]Format, 0, len(it.order))
	for _, name := range it.order {
		out = append(out, it.formats[name])
	}
	return out
}

// Merge returns the union of both items. Formats of the same kind and
// non-empty ids from other overwrite those of it.
func (it *Item) Merge(other *Item) *Item {
	out := it.clone()
	if other == nil {
		return out
	}
	for _, f := range other.Formats() {
		out.put(f)
	}
	if other.id != "" {
		out.id = other.id
	}
	if other.prevID != "" {
		out.prevID = other.prevID
	}
	return out
}

// Export returns the item in the shape expected by publish endpoints.
func (it *Item) Export() map[string]any {
	out := make(map[string]any, len(it.order)+2)
	for _, name := range it.order {
		out[name] = it.formats[name].Export()
	}
	if it.id != "" {
		out["id"] = it.id
	}
	if it.prevID != "" {
		out["prev-id"] = it.prevID
	}
	return out
}

func (it *Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(it.Export())
}

package match

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/hyperifyio/goexpediente/internal/checklist"
)

// Entry is one logical item and whether any of its variants was found.
type Entry struct {
	Key     string
	Present bool
}

// Logical is the variant-folded view of a checklist, in checklist order.
type Logical []Entry

// Reduce folds r into logical items. A group is keyed by its first label and
// is present when any member is; labels outside every group stand alone. The
// result has one entry per group plus one per ungrouped label.
func Reduce(labels []string, groups [][]string, r Result) Logical {
	owner := map[string]int{}
	for gi, g := range groups {
		for _, l := range g {
			owner[l] = gi
		}
	}
	emitted := map[int]bool{}
	out := make(Logical, 0, len(labels))
	for _, l := range labels {
		gi, grouped := owner[l]
		if !grouped {
			out = append(out, Entry{Key: l, Present: r[l]})
			continue
		}
		if emitted[gi] {
			continue
		}
		emitted[gi] = true
		found := false
		for _, m := range groups[gi] {
			if r[m] {
				found = true
				break
			}
		}
		out = append(out, Entry{Key: groups[gi][0], Present: found})
	}
	return out
}

// List matches and reduces a catalog list against normalized text.
func List(text string, l checklist.List) Logical {
	labels := l.Labels()
	return Reduce(labels, l.Groups(), Find(text, labels))
}

// Count returns the number of present items.
func (lg Logical) Count() int {
	n := 0
	for _, e := range lg {
		if e.Present {
			n++
		}
	}
	return n
}

// Missing returns the keys of absent items in order.
func (lg Logical) Missing() []string {
	out := []string{}
	for _, e := range lg {
		if !e.Present {
			out = append(out, e.Key)
		}
	}
	return out
}

// Has reports whether key is present; ok is false when key is not an item.
func (lg Logical) Has(key string) (present, ok bool) {
	for _, e := range lg {
		if e.Key == key {
			return e.Present, true
		}
	}
	return false, false
}

// Mark returns a copy with key marked present, appending it when the list
// does not contain it yet.
func (lg Logical) Mark(key string) Logical {
	out := make(Logical, len(lg), len(lg)+1)
	copy(out, lg)
	for i := range out {
		if out[i].Key == key {
			out[i].Present = true
			return out
		}
	}
	return append(out, Entry{Key: key, Present: true})
}

// MarshalJSON writes the items as one object whose keys keep checklist order.
func (lg Logical) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, e := range lg {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.WriteString(strconv.FormatBool(e.Present))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

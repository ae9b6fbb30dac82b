package cleanup

import (
	"maps"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// singleWordRE matches word tokens checked against the proper-noun lookup.
// Multi-word nouns (like "New York") are handled separately.
var singleWordRE = regexp.MustCompile(`\b[A-Za-z][A-Za-z'-]*\b`)

// Registry maps lowercase triggers to their canonical casing. It starts with
// the built-in dictionaries and can be extended at runtime with user-defined
// nouns. Lookups read an immutable snapshot, so Capitalize never blocks
// behind AddNouns and a cleanup pass always sees one consistent noun set.
type Registry struct {
	mu     sync.Mutex
	custom map[string]string
	snap   atomic.Pointer[nounSnapshot]
}

type nounSnapshot struct {
	single map[string]string
	multi  []multiNoun
}

type multiNoun struct {
	re    *regexp.Regexp
	cased string
}

// NewRegistry returns a registry preloaded with the built-in dictionaries:
// days, months, common first names, brand names, and geographic names.
func NewRegistry() *Registry {
	r := &Registry{custom: make(map[string]string)}
	r.snap.Store(buildSnapshot(r.custom))
	return r
}

// AddNouns registers user-defined proper nouns. Keys are lowercase triggers,
// values the desired casing, e.g. {"acme corp": "AcmeCorp"}. The lookup is
// rebuilt eagerly so the next Capitalize call sees the new entries.
func (r *Registry) AddNouns(nouns map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range nouns {
		r.custom[strings.ToLower(k)] = v
	}
	r.snap.Store(buildSnapshot(r.custom))
}

// CustomNouns returns the cased forms of all user-defined nouns, sorted for
// deterministic output. Used to seed vocabulary matching and initial prompts.
func (r *Registry) CustomNouns() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.custom))
	for _, cased := range r.custom {
		out = append(out, cased)
	}
	sort.Strings(out)
	return out
}

// Capitalize replaces known proper nouns with their correct casing.
// Multi-word nouns are substituted first, longest trigger first, then the
// remaining single-word tokens are fixed in one scan.
func (r *Registry) Capitalize(text string) string {
	snap := r.snap.Load()
	for _, m := range snap.multi {
		text = m.re.ReplaceAllLiteralString(text, m.cased)
	}
	return singleWordRE.ReplaceAllStringFunc(text, func(word string) string {
		if cased, ok := snap.single[strings.ToLower(word)]; ok {
			return cased
		}
		return word
	})
}

func buildSnapshot(custom map[string]string) *nounSnapshot {
	all := make(map[string]string, 512)
	for _, name := range daysOfWeek {
		all[strings.ToLower(name)] = name
	}
	for _, name := range months {
		all[strings.ToLower(name)] = name
	}
	for _, name := range commonFirstNames {
		all[strings.ToLower(name)] = name
	}
	for _, place := range countriesAndCities {
		all[strings.ToLower(place)] = place
	}
	maps.Copy(all, brandNames)
	maps.Copy(all, custom)

	snap := &nounSnapshot{single: make(map[string]string, len(all))}
	for lc, cased := range all {
		if strings.Contains(lc, " ") {
			snap.multi = append(snap.multi, multiNoun{
				re:    regexp.MustCompile(`(?i)` + regexp.QuoteMeta(lc)),
				cased: cased,
			})
		} else {
			snap.single[lc] = cased
		}
	}
	sort.Slice(snap.multi, func(i, j int) bool {
		a, b := snap.multi[i].re.String(), snap.multi[j].re.String()
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return snap
}

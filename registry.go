package bizmanager

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// itCollator compares names the way the original registries were sorted:
// Italian locale, ignoring case and accents.
var itCollator = collate.New(language.Italian, collate.Loose)

// Anagrafiche are the deduplicated, locale-sorted registries of client and
// supplier names. Append-only via upsert.
type Anagrafiche struct {
	Clienti   []string
	Fornitori []string
}

// UpsertCliente adds a client name to the registry, keeping it deduplicated
// and sorted. Empty names are ignored.
func (a *Anagrafiche) UpsertCliente(name string) {
	a.Clienti = upsertName(a.Clienti, name)
}

// UpsertFornitore adds a supplier name to the registry, keeping it
// deduplicated and sorted. Empty names are ignored.
func (a *Anagrafiche) UpsertFornitore(name string) {
	a.Fornitori = upsertName(a.Fornitori, name)
}

func upsertName(names []string, name string) []string {
	name = trimmed(name)
	if name == "" {
		return names
	}
	return normalizeNames(append(names, name))
}

// normalizeNames trims, drops empties and exact duplicates, and sorts with
// the Italian collator. Near-duplicates differing in case or accents are
// kept, matching the original registry behavior.
func normalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = trimmed(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	slices.SortStableFunc(out, itCollator.CompareString)
	return out
}

func (a Anagrafiche) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("clienti", emptyIfNil(a.Clienti))
	w.Append("fornitori", emptyIfNil(a.Fornitori))
	return w.MarshalJSON()
}

// ABOUTME: Loads actor alias vocabularies from CSV or the relational entity table
// ABOUTME: Applies the allow/deny-list and generic short-code rules before handing aliases to the matcher

package actorvocab

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Entry is a single actor and its ordered, deduplicated alias list. The
// first alias is always the actor's primary English name.
type Entry struct {
	ActorCode string
	Aliases   []string
}

// allowedShortCodes are ambiguous-looking short codes that are nonetheless
// kept because they unambiguously identify a strategic actor.
var allowedShortCodes = map[string]bool{
	"US": true, "USA": true, "U.S.": true, "U.S.A.": true,
	"UK": true, "U.K.": true, "UAE": true, "U.A.E.": true,
	"UN": true, "EU": true, "NATO": true, "WHO": true, "IMF": true,
	"WTO": true, "OECD": true, "OPEC": true, "BRICS": true, "ASEAN": true,
	"G7": true, "G20": true, "ICC": true,
}

// deniedAliases are common-word aliases that generate too many false
// positives to keep despite originating from a legitimate entity record.
var deniedAliases = map[string]bool{
	"china":  true,
	"america": true,
	"states": true,
}

// LoadFromCSV loads actor aliases from a CSV file with columns
// actor_code,name_en,aliases_en,aliases_es,aliases_fr,aliases_ru,aliases_zh,
// where each aliases_* column is a semicolon-separated list.
func LoadFromCSV(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening actor vocabulary csv %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading actor vocabulary csv header: %w", err)
	}
	columnIndex := make(map[string]int, len(header))
	for i, col := range header {
		columnIndex[strings.TrimSpace(col)] = i
	}

	var entries []Entry
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading actor vocabulary csv row: %w", err)
		}

		actorCode := fieldAt(record, columnIndex, "actor_code")
		if actorCode == "" {
			continue
		}

		var rawAliases []string
		if nameEN := fieldAt(record, columnIndex, "name_en"); nameEN != "" {
			rawAliases = append(rawAliases, nameEN)
		}
		for _, col := range []string{"aliases_en", "aliases_es", "aliases_fr", "aliases_ru", "aliases_zh"} {
			if v := fieldAt(record, columnIndex, col); v != "" {
				rawAliases = append(rawAliases, strings.Split(v, ";")...)
			}
		}

		entries = append(entries, Entry{
			ActorCode: actorCode,
			Aliases:   buildAliasList(rawAliases),
		})
	}

	return entries, nil
}

// LoadFromDB loads actor aliases from a data_entities table keyed by
// entity_type IN ('COUNTRY','ORG','CAPITAL','PERSON'): one row per entity
// with name_en and one semicolon-separated aliases_* text column per language.
func LoadFromDB(ctx context.Context, db *sql.DB) ([]Entry, error) {
	const query = `
		SELECT entity_id, name_en,
		       COALESCE(aliases_en, ''), COALESCE(aliases_es, ''),
		       COALESCE(aliases_fr, ''), COALESCE(aliases_ru, ''),
		       COALESCE(aliases_zh, '')
		FROM data_entities
		WHERE entity_type IN ('COUNTRY', 'ORG', 'CAPITAL', 'PERSON')
		ORDER BY entity_id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying data_entities: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var actorCode, nameEN, aliasesEN, aliasesES, aliasesFR, aliasesRU, aliasesZH string
		if err := rows.Scan(&actorCode, &nameEN, &aliasesEN, &aliasesES, &aliasesFR, &aliasesRU, &aliasesZH); err != nil {
			return nil, fmt.Errorf("scanning data_entities row: %w", err)
		}

		rawAliases := []string{nameEN}
		for _, csvField := range []string{aliasesEN, aliasesES, aliasesFR, aliasesRU, aliasesZH} {
			if csvField != "" {
				rawAliases = append(rawAliases, strings.Split(csvField, ";")...)
			}
		}

		entries = append(entries, Entry{
			ActorCode: actorCode,
			Aliases:   buildAliasList(rawAliases),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating data_entities rows: %w", err)
	}

	return entries, nil
}

// buildAliasList dedups aliases case-insensitively while preserving the
// order the primary name was supplied in, then drops ambiguous short codes.
func buildAliasList(raw []string) []string {
	seen := make(map[string]bool)
	var ordered []string

	for _, alias := range raw {
		alias = strings.TrimSpace(alias)
		if alias == "" || !isUsableAlias(alias) {
			continue
		}
		key := strings.ToLower(alias)
		if seen[key] {
			continue
		}
		seen[key] = true
		ordered = append(ordered, alias)
	}

	return ordered
}

// isUsableAlias applies the allow/deny-list and the generic short-code
// heuristics: drop <=3-char all-uppercase alpha codes and <=2-char
// all-lowercase alpha codes unless explicitly allow-listed.
func isUsableAlias(alias string) bool {
	if deniedAliases[strings.ToLower(alias)] {
		return false
	}
	if allowedShortCodes[alias] {
		return true
	}
	if isAllAlpha(alias) {
		if len(alias) <= 3 && alias == strings.ToUpper(alias) {
			return false
		}
		if len(alias) <= 2 && alias == strings.ToLower(alias) {
			return false
		}
	}
	return true
}

func isAllAlpha(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '.') {
			return false
		}
	}
	return true
}

func fieldAt(record []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// SortedByActorCode returns entries sorted by actor code, useful for
// deterministic test fixtures and diff-friendly CSV round trips.
func SortedByActorCode(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ActorCode < sorted[j].ActorCode })
	return sorted
}

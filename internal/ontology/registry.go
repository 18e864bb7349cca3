// Package ontology is the canonical sensor catalog: synonyms (multilingual),
// units, physical ranges, and descriptions. It is read-mostly; writes
// (discovered synonyms) are serialized behind a mutex.
package ontology

import (
	"fmt"
	"strings"
	"sync"

	"github.com/haasonsaas/agrisense/pkg/models"
)

const (
	confidenceExact   = 0.95
	confidencePartial = 0.6
	confidenceContext = 0.4

	minPartialTokenLen = 3
)

type synonymEntry struct {
	normalized string
	locale     string
	sensorType string
	seq        int
}

// Registry is the Ontology Registry (C1).
type Registry struct {
	mu      sync.RWMutex
	byType  map[string]*models.SensorDescriptor
	entries []synonymEntry
	seq     int
}

// NewRegistry builds a Registry from a seed catalog. Use LoadSeed to obtain
// the embedded default catalog.
func NewRegistry(seed []models.SensorDescriptor) *Registry {
	r := &Registry{byType: make(map[string]*models.SensorDescriptor, len(seed))}
	for i := range seed {
		d := seed[i]
		r.byType[d.Type] = &d
		for locale, phrases := range d.Synonyms {
			for _, phrase := range phrases {
				r.addEntryLocked(phrase, d.Type, locale)
			}
		}
	}
	return r
}

// LoadSeed returns a fresh Registry built from the embedded default catalog.
func LoadSeed() *Registry {
	return NewRegistry(loadSeed())
}

func (r *Registry) addEntryLocked(phrase, sensorType, locale string) {
	norm := normalizePhrase(phrase)
	if norm == "" {
		return
	}
	r.entries = append(r.entries, synonymEntry{
		normalized: norm,
		locale:     locale,
		sensorType: sensorType,
		seq:        r.seq,
	})
	r.seq++
}

// LookupSynonym resolves phrase to a canonical sensor type, trying in order:
// exact match within locale, exact match within en, word-level partial
// match, then context keyword groups. It returns ok=false when none of
// these registry-local steps resolve the phrase; the caller (the Semantic
// Translator) is then responsible for the LLM-assisted fallback and for
// persisting any new synonym it discovers via RegisterSynonym.
func (r *Registry) LookupSynonym(phrase, locale string) (models.SynonymMatch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	normalized := normalizePhrase(phrase)
	if normalized == "" {
		return models.SynonymMatch{}, false
	}

	if sensorType, ok := r.longestSubstringMatch(normalized, locale); ok {
		return models.SynonymMatch{Type: sensorType, MappingT: models.MappingExact, Confidence: confidenceExact}, true
	}
	if locale != "en" {
		if sensorType, ok := r.longestSubstringMatch(normalized, "en"); ok {
			return models.SynonymMatch{Type: sensorType, MappingT: models.MappingExact, Confidence: confidenceExact}, true
		}
	}
	if sensorType, ok := r.partialTokenMatch(normalized); ok {
		return models.SynonymMatch{Type: sensorType, MappingT: models.MappingPartial, Confidence: confidencePartial}, true
	}
	if types, _ := contextKeywordTypes(normalized); len(types) > 0 {
		return models.SynonymMatch{Type: types[0], MappingT: models.MappingContext, Confidence: confidenceContext}, true
	}
	return models.SynonymMatch{}, false
}

// longestSubstringMatch finds the longest registered synonym phrase in the
// given locale that occurs as a substring of normalized. Ties are broken by
// earliest registration order.
func (r *Registry) longestSubstringMatch(normalized, locale string) (string, bool) {
	bestLen := -1
	bestSeq := int(^uint(0) >> 1)
	bestType := ""
	found := false
	for _, e := range r.entries {
		if e.locale != locale {
			continue
		}
		if !strings.Contains(normalized, e.normalized) {
			continue
		}
		if len(e.normalized) > bestLen || (len(e.normalized) == bestLen && e.seq < bestSeq) {
			bestLen = len(e.normalized)
			bestSeq = e.seq
			bestType = e.sensorType
			found = true
		}
	}
	return bestType, found
}

// partialTokenMatch matches individual whitespace tokens (length >= 3)
// shared between the phrase and any registered synonym, in either locale.
func (r *Registry) partialTokenMatch(normalized string) (string, bool) {
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		if len([]rune(tok)) >= minPartialTokenLen {
			tokens[tok] = true
		}
	}
	if len(tokens) == 0 {
		return "", false
	}

	bestLen := -1
	bestSeq := int(^uint(0) >> 1)
	bestType := ""
	found := false
	for _, e := range r.entries {
		for _, tok := range strings.Fields(e.normalized) {
			if len([]rune(tok)) < minPartialTokenLen || !tokens[tok] {
				continue
			}
			if len(tok) > bestLen || (len(tok) == bestLen && e.seq < bestSeq) {
				bestLen = len(tok)
				bestSeq = e.seq
				bestType = e.sensorType
				found = true
			}
		}
	}
	return bestType, found
}

// CanonicalUnit returns the canonical unit for a sensor type.
func (r *Registry) CanonicalUnit(sensorType string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byType[sensorType]
	if !ok {
		return "", false
	}
	return d.Unit, true
}

// PlausibleRange returns the plausible value range for a sensor type.
func (r *Registry) PlausibleRange(sensorType string) (models.Range, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byType[sensorType]
	if !ok {
		return models.Range{}, false
	}
	return d.Range, true
}

// Exists reports whether sensorType is a registered canonical type.
func (r *Registry) Exists(sensorType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byType[sensorType]
	return ok
}

// Descriptor returns a copy of the descriptor for sensorType.
func (r *Registry) Descriptor(sensorType string) (models.SensorDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byType[sensorType]
	if !ok {
		return models.SensorDescriptor{}, false
	}
	return *d, true
}

// ContextGroupTypes returns the full set of sensor types implied by a
// context keyword found in phrase (e.g. "irrigation" -> {soil_moisture,
// water_usage, humidity, temperature}), for callers building a compound
// Entity rather than taking lookup_synonym's single best type.
func (r *Registry) ContextGroupTypes(phrase string) ([]string, bool) {
	types, _ := contextKeywordTypes(normalizePhrase(phrase))
	return types, len(types) > 0
}

// CanonicalTypes returns every registered canonical sensor type.
func (r *Registry) CanonicalTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byType))
	for t := range r.byType {
		out = append(out, t)
	}
	return out
}

// RegisterSynonym persists a new synonym phrase discovered by the Semantic
// Translator. Writes are serialized.
func (r *Registry) RegisterSynonym(phrase, sensorType, locale string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byType[sensorType]
	if !ok {
		return fmt.Errorf("ontology: unknown sensor type %q", sensorType)
	}
	if d.Synonyms == nil {
		d.Synonyms = map[string][]string{}
	}
	d.Synonyms[locale] = append(d.Synonyms[locale], phrase)
	r.addEntryLocked(phrase, sensorType, locale)
	return nil
}

// Package record defines the normalized per-page summary persisted by the
// crawler and enriched by the translation tool.
package record

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Sentinel values written when an extraction chain produces nothing. They are
// distinct from absent fields: a sentinel means "attempted, no data".
const (
	NoTitle       = "No Title"
	NoDescription = "No description available"
	UnknownSource = "Unknown Source"
)

// DefaultTags is applied when no domain classification matches.
var DefaultTags = []string{"general"}

const translatedPrefix = "translated_"

// Record is one page's extracted summary. Translations holds additive
// machine-translated fields keyed by "<field>_<langCode>"; on the wire they
// appear as flat "translated_<field>_<langCode>" keys alongside the core
// fields, matching the persisted collection format.
type Record struct {
	URL          string            `json:"url"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Image        string            `json:"image"`
	Tags         []string          `json:"tags"`
	Source       string            `json:"source,omitempty"`
	Approved     bool              `json:"approved"`
	Timestamp    string            `json:"timestamp"`
	Translations map[string]string `json:"-"`
}

// NewTimestamp formats t as the ISO-8601 UTC string stored on a Record. The
// timestamp is set once at creation and never revised on merge.
func NewTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Normalize fills sentinel values for empty fields so a Record never leaves
// the extractor with an empty title, description, or tag list.
func (r *Record) Normalize() {
	if strings.TrimSpace(r.Title) == "" {
		r.Title = NoTitle
	}
	if strings.TrimSpace(r.Description) == "" {
		r.Description = NoDescription
	}
	if len(r.Tags) == 0 {
		r.Tags = append([]string(nil), DefaultTags...)
	}
	if strings.TrimSpace(r.Source) == "" {
		r.Source = UnknownSource
	}
}

// SetTranslation stores a translated field value under the flat wire key
// "translated_<field>_<langCode>". It never touches the original fields.
func (r *Record) SetTranslation(field, langCode, value string) {
	if r.Translations == nil {
		r.Translations = make(map[string]string)
	}
	r.Translations[field+"_"+langCode] = value
}

// Translation returns the translated value for field/langCode, if present.
func (r *Record) Translation(field, langCode string) (string, bool) {
	v, ok := r.Translations[field+"_"+langCode]
	return v, ok
}

// MarshalJSON flattens Translations into top-level translated_* keys.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	base, err := json.Marshal(plain(r))
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	if len(r.Translations) == 0 {
		return base, nil
	}
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(base, &flat); err != nil {
		return nil, fmt.Errorf("flatten record: %w", err)
	}
	for key, value := range r.Translations {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal translation %s: %w", key, err)
		}
		flat[translatedPrefix+key] = encoded
	}
	return json.Marshal(flat)
}

// UnmarshalJSON restores core fields and collects translated_* keys back
// into the Translations map.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	*r = Record(p)

	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("scan record keys: %w", err)
	}
	for key, raw := range flat {
		if !strings.HasPrefix(key, translatedPrefix) {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("unmarshal translation %s: %w", key, err)
		}
		if r.Translations == nil {
			r.Translations = make(map[string]string)
		}
		r.Translations[strings.TrimPrefix(key, translatedPrefix)] = value
	}
	return nil
}

// Clone returns a deep copy so enrichment can mutate without aliasing the
// caller's tags or translations.
func (r Record) Clone() Record {
	out := r
	out.Tags = append([]string(nil), r.Tags...)
	if r.Translations != nil {
		out.Translations = make(map[string]string, len(r.Translations))
		for k, v := range r.Translations {
			out.Translations[k] = v
		}
	}
	return out
}

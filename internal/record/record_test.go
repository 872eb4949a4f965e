package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsSentinels(t *testing.T) {
	t.Parallel()
	r := Record{URL: "https://example.org/a"}
	r.Normalize()
	if r.Title != NoTitle {
		t.Fatalf("title = %q, want sentinel", r.Title)
	}
	if r.Description != NoDescription {
		t.Fatalf("description = %q, want sentinel", r.Description)
	}
	if r.Source != UnknownSource {
		t.Fatalf("source = %q, want sentinel", r.Source)
	}
	if len(r.Tags) != 1 || r.Tags[0] != "general" {
		t.Fatalf("tags = %v, want [general]", r.Tags)
	}
}

func TestNormalizeKeepsExistingFields(t *testing.T) {
	t.Parallel()
	r := Record{
		Title:       "Flood Update",
		Description: "Rivers are rising.",
		Tags:        []string{"news", "bangladesh"},
		Source:      "The Daily Star",
	}
	r.Normalize()
	if r.Title != "Flood Update" || r.Description != "Rivers are rising." {
		t.Fatalf("normalize mutated populated fields: %+v", r)
	}
	if len(r.Tags) != 2 {
		t.Fatalf("tags = %v", r.Tags)
	}
}

func TestMarshalFlattensTranslations(t *testing.T) {
	t.Parallel()
	r := Record{
		URL:       "https://www.thedailystar.net/",
		Title:     "Flood Update",
		Tags:      []string{"news", "bangladesh"},
		Timestamp: NewTimestamp(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	}
	r.SetTranslation("title", "bn", "বন্যা আপডেট")

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	require.Equal(t, "বন্যা আপডেট", flat["translated_title_bn"])
	require.Equal(t, "Flood Update", flat["title"])
	require.NotContains(t, flat, "Translations")
}

func TestUnmarshalCollectsTranslatedKeys(t *testing.T) {
	t.Parallel()
	raw := `{
		"url": "https://www.bbc.com/news/x",
		"title": "Headline",
		"description": "Body",
		"image": "https://cdn.example/x.jpg",
		"tags": ["news", "global"],
		"approved": false,
		"timestamp": "2025-06-01T12:00:00Z",
		"translated_title_bn": "শিরোনাম",
		"translated_description_bn": "বিবরণ"
	}`
	var r Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	require.Equal(t, "Headline", r.Title)

	title, ok := r.Translation("title", "bn")
	require.True(t, ok)
	require.Equal(t, "শিরোনাম", title)
	desc, ok := r.Translation("description", "bn")
	require.True(t, ok)
	require.Equal(t, "বিবরণ", desc)
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()
	r := Record{
		URL:         "https://www.reuters.com/markets",
		Title:       "Markets open",
		Description: "Stocks rallied.",
		Image:       "https://cdn.example/m.jpg",
		Tags:        []string{"news", "finance"},
		Source:      "Reuters",
		Timestamp:   "2025-06-01T12:00:00Z",
	}
	r.SetTranslation("description", "es", "Las acciones subieron.")

	data, err := json.Marshal(r)
	require.NoError(t, err)
	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, r, back)
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()
	r := Record{Tags: []string{"news"}}
	r.SetTranslation("title", "bn", "x")
	c := r.Clone()
	c.Tags[0] = "mutated"
	c.SetTranslation("title", "bn", "y")
	if r.Tags[0] != "news" {
		t.Fatalf("clone shares tags slice")
	}
	if v, _ := r.Translation("title", "bn"); v != "x" {
		t.Fatalf("clone shares translations map")
	}
}

// Package catalog is the read-only knowledge base of government welfare
// schemes. The default store is an embedded JSON catalog; a Postgres-backed
// store exists for deployments that manage the catalog centrally.
package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/uptrace/bun"
)

var ErrSchemeNotFound = errors.New("scheme not found")

// Rules are the eligibility criteria of one scheme. Zero values mean the
// criterion does not apply.
type Rules struct {
	AgeMin     int      `json:"age_min,omitempty"`
	AgeMax     int      `json:"age_max,omitempty"`
	IncomeMax  float64  `json:"income_max,omitempty"`
	Gender     string   `json:"gender,omitempty"`
	Categories []string `json:"categories,omitempty"`
	BPL        bool     `json:"bpl,omitempty"`
	Disability bool     `json:"disability,omitempty"`
	Area       string   `json:"area,omitempty"`
	Occupation string   `json:"occupation,omitempty"`
}

// Scheme is one welfare program record.
type Scheme struct {
	bun.BaseModel `bun:"table:schemes,alias:s" json:"-"`

	ID             string            `bun:"id,pk" json:"id"`
	Name           map[string]string `bun:"name,type:jsonb" json:"name"`
	Category       string            `bun:"category" json:"category"`
	Description    map[string]string `bun:"description,type:jsonb" json:"description"`
	Benefit        map[string]string `bun:"benefit,type:jsonb" json:"benefit"`
	Eligibility    Rules             `bun:"eligibility,type:jsonb" json:"eligibility"`
	Documents      []string          `bun:"documents,array" json:"documents"`
	ApplicationURL string            `bun:"application_url" json:"application_url"`
	Helpline       string            `bun:"helpline" json:"helpline"`
	Tags           []string          `bun:"tags,array" json:"tags"`
}

// LocalName returns the scheme name in lang, falling back to English then
// the id.
func (s Scheme) LocalName(lang string) string {
	if v, ok := s.Name[lang]; ok && v != "" {
		return v
	}
	if v, ok := s.Name["en"]; ok && v != "" {
		return v
	}
	return s.ID
}

func (s Scheme) LocalDescription(lang string) string {
	if v, ok := s.Description[lang]; ok && v != "" {
		return v
	}
	return s.Description["en"]
}

func (s Scheme) LocalBenefit(lang string) string {
	if v, ok := s.Benefit[lang]; ok && v != "" {
		return v
	}
	return s.Benefit["en"]
}

// Store is the read-only lookup contract the core needs.
type Store interface {
	All(ctx context.Context) ([]Scheme, error)
	ByID(ctx context.Context, id string) (Scheme, error)
	Search(ctx context.Context, query string) ([]Scheme, error)
	ByCategory(ctx context.Context, category string) ([]Scheme, error)
}

// rank scores a scheme against a free-text query: name hits weigh most,
// then tags, then category.
func rank(s Scheme, query string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	score := 0
	for _, name := range s.Name {
		if strings.Contains(strings.ToLower(name), q) {
			score += 10
		}
	}
	for _, tag := range s.Tags {
		t := strings.ToLower(tag)
		if t != "" && (strings.Contains(q, t) || strings.Contains(t, q)) {
			score += 5
		}
	}
	if strings.Contains(strings.ToLower(s.Category), q) {
		score += 3
	}
	return score
}

func searchIn(schemes []Scheme, query string) []Scheme {
	type scored struct {
		score  int
		scheme Scheme
	}
	var hits []scored
	for _, s := range schemes {
		if sc := rank(s, query); sc > 0 {
			hits = append(hits, scored{score: sc, scheme: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	out := make([]Scheme, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.scheme)
	}
	return out
}

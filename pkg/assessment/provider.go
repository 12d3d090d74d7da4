// Package assessment scores submitted ideas and produces the canned
// assistant content shown next to the idea and project pages. Every source
// of randomness is injected so callers and tests stay deterministic.
package assessment

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
)

// ErrEmptyIdea is returned when an idea has no title.
var ErrEmptyIdea = errors.New("assessment: idea title is required")

// Idea is the input to an assessment.
type Idea struct {
	Title       string
	Description string
	Impact      string
}

// Result scores an idea. Scores range over [0, 100].
type Result struct {
	Novelty         float64 `json:"novelty"`
	MarketRelevance float64 `json:"marketRelevance"`
	Feasibility     float64 `json:"feasibility"`
	IsExisting      bool    `json:"isExisting"`
}

// Provider assesses ideas.
type Provider interface {
	Assess(ctx context.Context, idea Idea) (Result, error)
}

// StaticProvider always returns the same result.
type StaticProvider struct {
	Result Result
}

// Assess implements Provider.
func (p StaticProvider) Assess(ctx context.Context, idea Idea) (Result, error) {
	if err := check(ctx, idea); err != nil {
		return Result{}, err
	}
	return p.Result, nil
}

// ExistingChance is the probability RandomProvider flags an idea as existing.
const ExistingChance = 0.3

// RandomProvider draws uniform scores from a seeded source.
type RandomProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomProvider returns a provider seeded with seed.
func NewRandomProvider(seed uint64) *RandomProvider {
	return &RandomProvider{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Assess implements Provider.
func (p *RandomProvider) Assess(ctx context.Context, idea Idea) (Result, error) {
	if err := check(ctx, idea); err != nil {
		return Result{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return Result{
		Novelty:         p.rng.Float64() * 100,
		MarketRelevance: p.rng.Float64() * 100,
		Feasibility:     p.rng.Float64() * 100,
		IsExisting:      p.rng.Float64() > 1-ExistingChance,
	}, nil
}

func check(ctx context.Context, idea Idea) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(idea.Title) == "" {
		return ErrEmptyIdea
	}
	return nil
}

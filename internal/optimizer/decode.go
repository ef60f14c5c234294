package optimizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/deliverai/deliverai/internal/campaign"
)

// payload mirrors campaign.OptimizationResult with pointers so absent fields
// can be told apart from zero values.
type payload struct {
	OptimizedSubject    *string   `json:"optimizedSubject"`
	OptimizedBody       *string   `json:"optimizedBody"`
	DeliverabilityScore *float64  `json:"deliverabilityScore"`
	SpamFlags           *[]string `json:"spamFlags"`
	Suggestions         *[]string `json:"suggestions"`
}

// Decode parses a model response into an OptimizationResult.
//
// The text may be wrapped in a Markdown code fence. All five fields must be
// present, the score must lie in [0,100] and is rounded to the nearest
// integer. Unknown fields are ignored.
func Decode(text string) (*campaign.OptimizationResult, error) {
	text = stripFence(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var p payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, errors.Join(ErrMalformedResponse, err)
	}

	var missing []string
	if p.OptimizedSubject == nil {
		missing = append(missing, "optimizedSubject")
	}
	if p.OptimizedBody == nil {
		missing = append(missing, "optimizedBody")
	}
	if p.DeliverabilityScore == nil {
		missing = append(missing, "deliverabilityScore")
	}
	if p.SpamFlags == nil {
		missing = append(missing, "spamFlags")
	}
	if p.Suggestions == nil {
		missing = append(missing, "suggestions")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, strings.Join(missing, ", "))
	}

	score := *p.DeliverabilityScore
	if math.IsNaN(score) || score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: deliverabilityScore %v out of range", ErrMalformedResponse, score)
	}

	return &campaign.OptimizationResult{
		OptimizedSubject:    *p.OptimizedSubject,
		OptimizedBody:       *p.OptimizedBody,
		DeliverabilityScore: int(math.Round(score)),
		SpamFlags:           nonNil(*p.SpamFlags),
		Suggestions:         nonNil(*p.Suggestions),
	}, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

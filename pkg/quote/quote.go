// Package quote asks a hosted vision model for a manufacturing quote and
// validates the structured reply.
package quote

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidQuote is wrapped by every reply that is not a well-formed quote
var ErrInvalidQuote = errors.New("invalid quote")

// Quote is the price breakdown returned by the model
type Quote struct {
	PriceTotalUSD    float64 `json:"price_total_usd"`
	OverallReasoning string  `json:"overall_reasoning"`
	Bodies           []Body  `json:"bodies"`
}

// Body is the estimate for one detected body
type Body struct {
	Name           string     `json:"name"`
	DimensionsMM   [3]float64 `json:"dimensions_mm"`
	VolumeMM3      float64    `json:"volume_mm3"`
	Operations     []string   `json:"operations"`
	MachineTimeMin float64    `json:"machine_time_min"`
	PriceUSD       float64    `json:"price_usd"`
	Reasoning      string     `json:"reasoning"`
}

// The wire shapes use pointers so absent fields can be told apart from zero.
type rawQuote struct {
	PriceTotalUSD    *float64  `json:"price_total_usd"`
	OverallReasoning *string   `json:"overall_reasoning"`
	Bodies           []rawBody `json:"bodies"`
}

type rawBody struct {
	Name           *string   `json:"name"`
	DimensionsMM   []float64 `json:"dimensions_mm"`
	VolumeMM3      *float64  `json:"volume_mm3"`
	Operations     []string  `json:"operations"`
	MachineTimeMin *float64  `json:"machine_time_min"`
	PriceUSD       *float64  `json:"price_usd"`
	Reasoning      *string   `json:"reasoning"`
}

// ParseQuote decodes and validates a model reply. The text must be a bare
// JSON object; fenced or otherwise wrapped replies are rejected.
func ParseQuote(text string) (*Quote, error) {
	var raw rawQuote
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: reply is not a JSON object of the expected shape: %v", ErrInvalidQuote, err)
	}

	switch {
	case raw.PriceTotalUSD == nil:
		return nil, missing("price_total_usd")
	case raw.OverallReasoning == nil:
		return nil, missing("overall_reasoning")
	case raw.Bodies == nil:
		return nil, missing("bodies")
	}

	q := &Quote{
		PriceTotalUSD:    *raw.PriceTotalUSD,
		OverallReasoning: *raw.OverallReasoning,
		Bodies:           make([]Body, 0, len(raw.Bodies)),
	}
	for i, rb := range raw.Bodies {
		b, err := rb.validate()
		if err != nil {
			return nil, fmt.Errorf("bodies[%d]: %w", i, err)
		}
		q.Bodies = append(q.Bodies, b)
	}
	return q, nil
}

func (rb rawBody) validate() (Body, error) {
	switch {
	case rb.Name == nil:
		return Body{}, missing("name")
	case rb.DimensionsMM == nil:
		return Body{}, missing("dimensions_mm")
	case len(rb.DimensionsMM) != 3:
		return Body{}, fmt.Errorf("%w: dimensions_mm has %d values, want 3", ErrInvalidQuote, len(rb.DimensionsMM))
	case rb.VolumeMM3 == nil:
		return Body{}, missing("volume_mm3")
	case rb.Operations == nil:
		return Body{}, missing("operations")
	case rb.MachineTimeMin == nil:
		return Body{}, missing("machine_time_min")
	case rb.PriceUSD == nil:
		return Body{}, missing("price_usd")
	case rb.Reasoning == nil:
		return Body{}, missing("reasoning")
	}
	return Body{
		Name:           *rb.Name,
		DimensionsMM:   [3]float64{rb.DimensionsMM[0], rb.DimensionsMM[1], rb.DimensionsMM[2]},
		VolumeMM3:      *rb.VolumeMM3,
		Operations:     rb.Operations,
		MachineTimeMin: *rb.MachineTimeMin,
		PriceUSD:       *rb.PriceUSD,
		Reasoning:      *rb.Reasoning,
	}, nil
}

func missing(field string) error {
	return fmt.Errorf("%w: missing field %q", ErrInvalidQuote, field)
}

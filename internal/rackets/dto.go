package rackets

import (
	"racket-backend/internal/catalog"
	"racket-backend/internal/recommend"
)

// recommendRequest is the POST /recommend body. Pointers distinguish a missing field from an
// empty string or zero budget.
type recommendRequest struct {
	Level     *string `json:"level" binding:"required"`
	Style     *string `json:"style" binding:"required"`
	Stiffness *string `json:"stiffness" binding:"required"`
	Budget    *int    `json:"budget" binding:"required"`
}

func (r recommendRequest) query() recommend.Query {
	return recommend.Query{
		Level:     *r.Level,
		Style:     *r.Style,
		Stiffness: *r.Stiffness,
		Budget:    *r.Budget,
	}
}

// Envelope is the POST /recommend response.
type Envelope struct {
	Recommendations []catalog.Racket `json:"recommendations"`
	Explanation     string           `json:"explanation"`
}

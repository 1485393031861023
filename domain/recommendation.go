package domain

import (
	"github.com/goccy/go-json"
)

// CREATE TABLE public.recommendations (
//     id                   BIGSERIAL PRIMARY KEY,
//     product_id           BIGINT NOT NULL,
//     customer_id          BIGINT NOT NULL,
//     recommend_type       VARCHAR(63) NOT NULL,
//     recommend_product_id BIGINT NOT NULL,
//     rec_success          BIGINT NOT NULL DEFAULT 0
// );

type Recommendation struct {
	ID                 uint64 `gorm:"primaryKey;autoIncrement"`
	ProductID          int64  `gorm:"column:product_id;not null;index"`
	CustomerID         int64  `gorm:"column:customer_id;not null;index"`
	RecommendType      string `gorm:"column:recommend_type;type:varchar(63);not null;index"`
	RecommendProductID int64  `gorm:"column:recommend_product_id;not null"`
	RecSuccess         int64  `gorm:"column:rec_success;not null;default:0"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}

// RecommendationWire is the JSON shape of a recommendation. ID is null until
// the row has been saved.
type RecommendationWire struct {
	ID                 *uint64 `json:"id"`
	ProductID          int64   `json:"product_id"`
	CustomerID         int64   `json:"customer_id"`
	RecommendType      string  `json:"recommend_type"`
	RecommendProductID int64   `json:"recommend_product_id"`
	RecSuccess         int64   `json:"rec_success"`
}

func (r Recommendation) ToWire() RecommendationWire {
	w := RecommendationWire{
		ProductID:          r.ProductID,
		CustomerID:         r.CustomerID,
		RecommendType:      r.RecommendType,
		RecommendProductID: r.RecommendProductID,
		RecSuccess:         r.RecSuccess,
	}
	if r.ID != 0 {
		id := r.ID
		w.ID = &id
	}

	return w
}

func (r Recommendation) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToWire())
}

// NewRecommendation builds an unsaved recommendation from validated input.
// The id is left for the store and the success counter starts at zero.
func NewRecommendation(in RecommendationInput) Recommendation {
	var r Recommendation
	r.ApplyInput(in)

	return r
}

// ApplyInput overwrites every client-managed field. ID and RecSuccess are
// server-managed and never touched.
func (r *Recommendation) ApplyInput(in RecommendationInput) {
	if in.ProductID != nil {
		r.ProductID = *in.ProductID
	}
	if in.CustomerID != nil {
		r.CustomerID = *in.CustomerID
	}
	if in.RecommendType != nil {
		r.RecommendType = *in.RecommendType
	}
	if in.RecommendProductID != nil {
		r.RecommendProductID = *in.RecommendProductID
	}
}

// RecommendationFilter is a conjunction of optional predicates; unset fields
// do not restrict the result.
type RecommendationFilter struct {
	ProductID     *int64
	CustomerID    *int64
	RecommendType string
}

func (f RecommendationFilter) IsEmpty() bool {
	return f.ProductID == nil && f.CustomerID == nil && f.RecommendType == ""
}

func (f RecommendationFilter) Matches(r Recommendation) bool {
	if f.ProductID != nil && r.ProductID != *f.ProductID {
		return false
	}
	if f.CustomerID != nil && r.CustomerID != *f.CustomerID {
		return false
	}
	if f.RecommendType != "" && r.RecommendType != f.RecommendType {
		return false
	}

	return true
}

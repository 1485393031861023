package domain

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const MaxRecommendTypeLength = 63

// RecommendationInput is the request body accepted on create and update.
// id and rec_success are not part of it; both are server-managed.
type RecommendationInput struct {
	ProductID          *int64  `json:"product_id" validate:"required,gte=0"`
	CustomerID         *int64  `json:"customer_id" validate:"required,gte=0"`
	RecommendType      *string `json:"recommend_type" validate:"required,min=1,max=63"`
	RecommendProductID *int64  `json:"recommend_product_id" validate:"required,gte=0"`
}

var inputFieldOrder = []string{"product_id", "customer_id", "recommend_type", "recommend_product_id"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// DecodeRecommendationInput parses a raw request body.
func DecodeRecommendationInput(body []byte) (RecommendationInput, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return RecommendationInput{}, NewValidationError("body", "contained bad or no data")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return RecommendationInput{}, NewValidationError("body", "must be a JSON object")
	}

	return ParseRecommendationInput(raw)
}

// ParseRecommendationInput type-checks and validates every field of a decoded
// JSON object in one pass. A nil map means the request carried no data.
func ParseRecommendationInput(raw map[string]json.RawMessage) (RecommendationInput, error) {
	var in RecommendationInput
	if raw == nil {
		return in, NewValidationError("body", "contained bad or no data")
	}

	failed := make(map[string]string)

	in.ProductID = decodeInt64(raw, "product_id", failed)
	in.CustomerID = decodeInt64(raw, "customer_id", failed)
	in.RecommendType = decodeString(raw, "recommend_type", failed)
	in.RecommendProductID = decodeInt64(raw, "recommend_product_id", failed)

	return in, collectFailures(in, failed)
}

// Validate checks an already-typed input, e.g. one built in code rather than
// decoded from a request.
func (in RecommendationInput) Validate() error {
	return collectFailures(in, make(map[string]string))
}

func collectFailures(in RecommendationInput, failed map[string]string) error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			if _, seen := failed[fe.Field()]; !seen {
				failed[fe.Field()] = ruleMessage(fe)
			}
		}
	}

	if len(failed) == 0 {
		return nil
	}

	verr := &ValidationError{}
	for _, name := range inputFieldOrder {
		if msg, ok := failed[name]; ok {
			verr.Add(name, msg)
		}
	}

	return verr
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// decodeInt64 accepts only a JSON integer literal: no fractions, exponents or
// quoted numbers.
func decodeInt64(raw map[string]json.RawMessage, name string, failed map[string]string) *int64 {
	val, ok := raw[name]
	if !ok || isNull(val) {
		failed[name] = "is required"
		return nil
	}

	n, err := strconv.ParseInt(string(bytes.TrimSpace(val)), 10, 64)
	if err != nil {
		failed[name] = "must be an integer"
		return nil
	}

	return &n
}

func decodeString(raw map[string]json.RawMessage, name string, failed map[string]string) *string {
	val, ok := raw[name]
	if !ok || isNull(val) {
		failed[name] = "is required"
		return nil
	}

	trimmed := bytes.TrimSpace(val)
	var s string
	if len(trimmed) == 0 || trimmed[0] != '"' || json.Unmarshal(trimmed, &s) != nil {
		failed[name] = "must be a string"
		return nil
	}

	return &s
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "min":
		if fe.Param() == "1" {
			return "cannot be empty"
		}
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

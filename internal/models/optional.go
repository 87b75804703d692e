package models

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OptionalUUID distinguishes an absent JSON field from an explicit null.
type OptionalUUID struct {
	Set   bool
	Value *uuid.UUID
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return NewValidationError("invalid UUID: " + string(data))
	}
	o.Value = &id
	return nil
}

// OptionalDecimal distinguishes an absent price from an explicit null, which
// clears it.
type OptionalDecimal struct {
	Set   bool
	Value decimal.NullDecimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalDecimal) UnmarshalJSON(data []byte) error {
	o.Set = true
	if err := o.Value.UnmarshalJSON(data); err != nil {
		return NewValidationError("invalid price: " + string(data))
	}
	if o.Value.Valid && o.Value.Decimal.IsNegative() {
		return NewValidationError("price cannot be negative")
	}
	return nil
}

// Ptr returns nil when the field was absent.
func (o OptionalDecimal) Ptr() *decimal.NullDecimal {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

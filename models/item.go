package models

import (
	"bytes"
	"encoding/json"
)

// Item is a single furniture record. Fields other than code, category and
// price are kept in Attributes and passed through untouched.
type Item struct {
	ID         string         `json:"_id,omitempty" bson:"_id,omitempty"`
	Code       int64          `json:"code" bson:"code"`
	Category   string         `json:"category" bson:"category"`
	Price      float64        `json:"price" bson:"price"`
	Attributes map[string]any `json:"-" bson:",inline"`
}

// itemKeys are the JSON keys with a dedicated field on Item.
var itemKeys = []string{"_id", "code", "category", "price"}

type itemFields struct {
	ID       string  `json:"_id,omitempty"`
	Code     int64   `json:"code"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

func (i Item) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(i.Attributes)+4)
	for k, v := range i.Attributes {
		out[k] = v
	}
	if i.ID != "" {
		out["_id"] = i.ID
	}
	out["code"] = i.Code
	out["category"] = i.Category
	out["price"] = i.Price
	return json.Marshal(out)
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var f itemFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	attrs, err := splitAttributes(data, itemKeys...)
	if err != nil {
		return err
	}
	*i = Item{ID: f.ID, Code: f.Code, Category: f.Category, Price: f.Price, Attributes: attrs}
	return nil
}

// CreateItemRequest is the body of POST /items. Only presence of the key
// fields is checked.
type CreateItemRequest struct {
	Code       *int64         `json:"code" validate:"required"`
	Category   string         `json:"category" validate:"required,notblank"`
	Price      *float64       `json:"price" validate:"required"`
	Attributes map[string]any `json:"-"`
}

type createItemFields struct {
	Code     *int64   `json:"code"`
	Category string   `json:"category"`
	Price    *float64 `json:"price"`
}

func (r *CreateItemRequest) UnmarshalJSON(data []byte) error {
	var f createItemFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	attrs, err := splitAttributes(data, itemKeys...)
	if err != nil {
		return err
	}
	*r = CreateItemRequest{Code: f.Code, Category: f.Category, Price: f.Price, Attributes: attrs}
	return nil
}

// Item builds the record to insert. Callers validate first.
func (r *CreateItemRequest) Item() *Item {
	item := &Item{Category: r.Category, Attributes: r.Attributes}
	if r.Code != nil {
		item.Code = *r.Code
	}
	if r.Price != nil {
		item.Price = *r.Price
	}
	return item
}

// UpdateItemRequest is the body of PUT /items/:code. Absent fields are left
// untouched on the stored record.
type UpdateItemRequest struct {
	Code       *int64         `json:"code,omitempty"`
	Category   *string        `json:"category,omitempty" validate:"omitempty,notblank"`
	Price      *float64       `json:"price,omitempty"`
	Attributes map[string]any `json:"-"`
}

type updateItemFields struct {
	Code     *int64   `json:"code"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price"`
}

func (r *UpdateItemRequest) UnmarshalJSON(data []byte) error {
	var f updateItemFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	attrs, err := splitAttributes(data, itemKeys...)
	if err != nil {
		return err
	}
	*r = UpdateItemRequest{Code: f.Code, Category: f.Category, Price: f.Price, Attributes: attrs}
	return nil
}

// Fields returns the supplied fields keyed by stored name, suitable for a
// shallow $set.
func (r *UpdateItemRequest) Fields() map[string]any {
	fields := make(map[string]any, len(r.Attributes)+3)
	for k, v := range r.Attributes {
		fields[k] = v
	}
	if r.Code != nil {
		fields["code"] = *r.Code
	}
	if r.Category != nil {
		fields["category"] = *r.Category
	}
	if r.Price != nil {
		fields["price"] = *r.Price
	}
	return fields
}

// Empty reports whether the request carries no fields at all.
func (r *UpdateItemRequest) Empty() bool {
	return r.Code == nil && r.Category == nil && r.Price == nil && len(r.Attributes) == 0
}

// ApplyTo merges the supplied fields into item.
func (r *UpdateItemRequest) ApplyTo(item *Item) {
	if r.Code != nil {
		item.Code = *r.Code
	}
	if r.Category != nil {
		item.Category = *r.Category
	}
	if r.Price != nil {
		item.Price = *r.Price
	}
	if len(r.Attributes) == 0 {
		return
	}
	if item.Attributes == nil {
		item.Attributes = make(map[string]any, len(r.Attributes))
	}
	for k, v := range r.Attributes {
		item.Attributes[k] = v
	}
}

// splitAttributes returns every top-level key of a JSON object except the
// known ones. Returns nil when nothing is left. Integral numbers decode as
// int64 so large values survive a round trip.
func splitAttributes(data []byte, known ...string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var all map[string]any
	if err := dec.Decode(&all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	for k, v := range all {
		all[k] = normalizeNumbers(v)
	}
	return all, nil
}

// normalizeNumbers replaces json.Number values, at any depth, with int64 when
// integral and float64 otherwise.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t
	case map[string]any:
		for k, x := range t {
			t[k] = normalizeNumbers(x)
		}
		return t
	case []any:
		for i, x := range t {
			t[i] = normalizeNumbers(x)
		}
		return t
	}
	return v
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported JSON column type")
	}
}

// JSONMap is a schemaless JSON object column (shipping addresses, payment details).
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src interface{}) error { return scanJSON(src, m) }

// Question is one survey question stored inside the survey's JSON payload.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Type     string   `json:"type"` // text, single_choice, multiple_choice, rating
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
}

type QuestionList []Question

func (q QuestionList) Value() (driver.Value, error) { return json.Marshal(q) }
func (q *QuestionList) Scan(src interface{}) error  { return scanJSON(src, q) }

// Answer is one submitted answer keyed by question id.
type Answer struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

type AnswerList []Answer

func (a AnswerList) Value() (driver.Value, error) { return json.Marshal(a) }
func (a *AnswerList) Scan(src interface{}) error  { return scanJSON(src, a) }

// ProductSnapshot freezes the product data an order item was bought with.
type ProductSnapshot struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (s ProductSnapshot) Value() (driver.Value, error) { return json.Marshal(s) }
func (s *ProductSnapshot) Scan(src interface{}) error  { return scanJSON(src, s) }

// Dimensions are product dimensions in centimeters, used for volumetric shipping.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (d Dimensions) Value() (driver.Value, error) { return json.Marshal(d) }
func (d *Dimensions) Scan(src interface{}) error  { return scanJSON(src, d) }

// VolumeM3 returns the volume of a single unit in cubic meters.
func (d Dimensions) VolumeM3() float64 {
	return d.Length * d.Width * d.Height / 1_000_000
}

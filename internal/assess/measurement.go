// Package assess evaluates batches of child measurements against the growth
// standard and summarizes them per band and per child.
package assess

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elharel648/CalmParentApp-sub000/pkg/growth"
)

// DateLayout is the calendar date format used in batch files.
const DateLayout = "2006-01-02"

// daysPerMonth is the mean Gregorian month length.
const daysPerMonth = 30.4375

var (
	// ErrNoMeasurements is returned when a batch holds no records.
	ErrNoMeasurements = errors.New("no measurements")
	// ErrInvalidRecord marks a record that cannot be assessed.
	ErrInvalidRecord = errors.New("invalid measurement record")
)

// Measurement is one raw record from a batch file. Age comes from AgeMonths
// when set, otherwise from BirthDate and MeasuredOn, falling back to the
// current time when MeasuredOn is empty.
type Measurement struct {
	ID         string   `json:"id,omitempty" yaml:"id"`
	ChildID    string   `json:"child_id,omitempty" yaml:"child_id"`
	Sex        string   `json:"sex" yaml:"sex"`
	Metric     string   `json:"metric" yaml:"metric"`
	Value      float64  `json:"value" yaml:"value"`
	AgeMonths  *float64 `json:"age_months,omitempty" yaml:"age_months"`
	BirthDate  string   `json:"birth_date,omitempty" yaml:"birth_date"`
	MeasuredOn string   `json:"measured_on,omitempty" yaml:"measured_on"`

	// decodeErrs holds fields the loader could not decode. Such a record is
	// rejected with these errors alone.
	decodeErrs []error
}

// normalized is a record that passed validation.
type normalized struct {
	id        string
	childID   string
	sex       growth.Sex
	metric    growth.Metric
	value     float64
	ageMonths float64
}

// AgeInMonths returns the age at `at` for a child born on `birth`, in
// fractional months of 30.4375 days. A measurement before birth is an error.
func AgeInMonths(birth, at time.Time) (float64, error) {
	if at.Before(birth) {
		return 0, fmt.Errorf("measured on %s before birth on %s",
			at.Format(DateLayout), birth.Format(DateLayout))
	}
	days := at.Sub(birth).Hours() / 24
	return days / daysPerMonth, nil
}

// normalize validates m and resolves its enums and age. now supplies the
// measurement date when only a birth date is given.
func (m Measurement) normalize(now time.Time) (normalized, error) {
	if len(m.decodeErrs) > 0 {
		return normalized{}, fmt.Errorf("%w %s: %w", ErrInvalidRecord, m.label(), errors.Join(m.decodeErrs...))
	}

	var errs []error

	sex, err := growth.ParseSex(m.Sex)
	if err != nil {
		errs = append(errs, err)
	}
	metric, err := growth.ParseMetric(m.Metric)
	if err != nil {
		errs = append(errs, err)
	}
	if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) || m.Value <= 0 {
		errs = append(errs, fmt.Errorf("value %v must be a positive number", m.Value))
	}
	age, err := m.age(now)
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return normalized{}, fmt.Errorf("%w %s: %w", ErrInvalidRecord, m.label(), errors.Join(errs...))
	}

	id := m.ID
	if id == "" {
		id = uuid.NewString()
	}
	childID := m.ChildID
	if childID == "" {
		childID = id
	}

	return normalized{
		id:        id,
		childID:   childID,
		sex:       sex,
		metric:    metric,
		value:     m.Value,
		ageMonths: age,
	}, nil
}

func (m Measurement) age(now time.Time) (float64, error) {
	if m.AgeMonths != nil {
		a := *m.AgeMonths
		// Ages outside 0-24 are clamped by the calculator, not rejected.
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return 0, fmt.Errorf("age_months %v must be a finite number", a)
		}
		return a, nil
	}
	if m.BirthDate == "" {
		return 0, errors.New("age_months or birth_date is required")
	}
	birth, err := time.Parse(DateLayout, strings.TrimSpace(m.BirthDate))
	if err != nil {
		return 0, fmt.Errorf("birth_date: %w", err)
	}
	at := now
	if m.MeasuredOn != "" {
		at, err = time.Parse(DateLayout, strings.TrimSpace(m.MeasuredOn))
		if err != nil {
			return 0, fmt.Errorf("measured_on: %w", err)
		}
	}
	return AgeInMonths(birth, at)
}

// UsesClock reports whether the record's age depends on the current time.
func (m Measurement) UsesClock() bool {
	return m.AgeMonths == nil && m.BirthDate != "" && m.MeasuredOn == ""
}

func (m Measurement) label() string {
	if m.ID != "" {
		return fmt.Sprintf("%q", m.ID)
	}
	return "(no id)"
}

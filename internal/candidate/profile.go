package candidate

import (
	"fmt"
	"strconv"
)

// Profile holds the validated candidate fields. A nil pointer means the field
// is not collected yet. Fields are written only through ValidateAndSave.
type Profile struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	YearsExperience *int    `json:"years_experience"`
	DesiredPosition *string `json:"desired_position"`
	Location        *string `json:"location"`
	TechStack       *string `json:"tech_stack"`
}

// ValidateAndSave normalizes raw and stores it at field. On rejection the
// profile is left untouched and false is returned along with the reason.
func (p *Profile) ValidateAndSave(field Field, raw string) (bool, error) {
	normalized, err := Normalize(field, raw)
	if err != nil {
		return false, err
	}

	if err := p.set(field, normalized); err != nil {
		return false, err
	}

	return true, nil
}

func (p *Profile) set(field Field, value string) error {
	switch field {
	case FieldName:
		p.Name = &value
	case FieldEmail:
		p.Email = &value
	case FieldPhone:
		p.Phone = &value
	case FieldYearsExperience:
		years, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, ErrInvalidYears)
		}
		p.YearsExperience = &years
	case FieldDesiredPosition:
		p.DesiredPosition = &value
	case FieldLocation:
		p.Location = &value
	case FieldTechStack:
		p.TechStack = &value
	default:
		return fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
	return nil
}

// Get returns the stored value rendered as text and whether the field is set.
func (p *Profile) Get(field Field) (string, bool) {
	if p == nil {
		return "", false
	}

	var ptr *string
	switch field {
	case FieldName:
		ptr = p.Name
	case FieldEmail:
		ptr = p.Email
	case FieldPhone:
		ptr = p.Phone
	case FieldYearsExperience:
		if p.YearsExperience == nil {
			return "", false
		}
		return strconv.Itoa(*p.YearsExperience), true
	case FieldDesiredPosition:
		ptr = p.DesiredPosition
	case FieldLocation:
		ptr = p.Location
	case FieldTechStack:
		ptr = p.TechStack
	}

	if ptr == nil {
		return "", false
	}
	return *ptr, true
}

// IsSet reports whether the field holds a validated value.
func (p *Profile) IsSet(field Field) bool {
	_, ok := p.Get(field)
	return ok
}

// NextUnset returns the first field in FieldOrder that is not collected yet.
func (p *Profile) NextUnset() (Field, bool) {
	for _, f := range FieldOrder {
		if !p.IsSet(f) {
			return f, true
		}
	}
	return "", false
}

// CountSet returns how many fields are collected.
func (p *Profile) CountSet() int {
	n := 0
	for _, f := range FieldOrder {
		if p.IsSet(f) {
			n++
		}
	}
	return n
}

// Complete reports whether every field is collected.
func (p *Profile) Complete() bool {
	return p.CountSet() == len(FieldOrder)
}

// Clone returns a deep copy, used for export snapshots.
func (p *Profile) Clone() Profile {
	var out Profile
	if p == nil {
		return out
	}
	for _, f := range FieldOrder {
		if v, ok := p.Get(f); ok {
			_ = out.set(f, v)
		}
	}
	return out
}

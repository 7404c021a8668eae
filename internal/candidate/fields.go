package candidate

import "strings"

// Field names one of the attributes collected from the candidate.
type Field string

const (
	FieldName            Field = "name"
	FieldEmail           Field = "email"
	FieldPhone           Field = "phone"
	FieldYearsExperience Field = "years_experience"
	FieldDesiredPosition Field = "desired_position"
	FieldLocation        Field = "location"
	FieldTechStack       Field = "tech_stack"
)

// FieldOrder is the order in which fields are collected.
var FieldOrder = []Field{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldYearsExperience,
	FieldDesiredPosition,
	FieldLocation,
	FieldTechStack,
}

// ParseField resolves a field name, tolerating case, surrounding spaces and
// spaces instead of underscores.
func ParseField(s string) (Field, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	for _, f := range FieldOrder {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

func (f Field) String() string { return string(f) }

// Label returns the field name in words, e.g. "years experience".
func (f Field) Label() string {
	return strings.ReplaceAll(string(f), "_", " ")
}

// Title returns the field name in title case, e.g. "Years Experience".
func (f Field) Title() string {
	words := strings.Fields(f.Label())
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

package criteria

import (
	"fmt"
	"slices"
	"sort"
)

const (
	FieldScore       = "score"
	FieldExplanation = "explanation"
)

// RequiredFields is the sub-field set every criterion of a jury response must carry.
var RequiredFields = []string{FieldExplanation, FieldScore}

// Spec names one grading dimension and the sub-fields a judge must return for it.
type Spec struct {
	Name           string   `json:"criterion_name" yaml:"name"`
	RequiredFields []string `json:"required_fields" yaml:"required_fields"`
}

// NewSpec returns a Spec that requires the standard score and explanation fields.
func NewSpec(name string) Spec {
	return Spec{Name: name, RequiredFields: slices.Clone(RequiredFields)}
}

// Schema is the full set of criteria a judge response is validated against.
// It is read-only once built.
type Schema struct {
	specs []Spec
}

func NewSchema(specs ...Spec) (Schema, error) {
	s := Schema{specs: make([]Spec, 0, len(specs))}
	for _, spec := range specs {
		fields := slices.Clone(spec.RequiredFields)
		sort.Strings(fields)
		s.specs = append(s.specs, Spec{Name: spec.Name, RequiredFields: fields})
	}
	sort.Slice(s.specs, func(i, j int) bool { return s.specs[i].Name < s.specs[j].Name })

	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// MustSchema is NewSchema for package-level tables that are known to be valid.
func MustSchema(specs ...Spec) Schema {
	s, err := NewSchema(specs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks that the schema is non-empty, has unique names, and that every
// criterion requires exactly the score and explanation fields.
func (s Schema) Validate() error {
	if len(s.specs) == 0 {
		return fmt.Errorf("criteria schema is empty")
	}

	seen := make(map[string]bool, len(s.specs))
	for _, spec := range s.specs {
		if spec.Name == "" {
			return fmt.Errorf("criterion name is required")
		}
		if seen[spec.Name] {
			return fmt.Errorf("duplicate criterion %q", spec.Name)
		}
		seen[spec.Name] = true

		fields := slices.Clone(spec.RequiredFields)
		sort.Strings(fields)
		if !slices.Equal(fields, RequiredFields) {
			return fmt.Errorf("criterion %q must require exactly %v, got %v", spec.Name, RequiredFields, spec.RequiredFields)
		}
	}
	return nil
}

// Specs returns the criteria sorted by name.
func (s Schema) Specs() []Spec {
	return slices.Clone(s.specs)
}

func (s Schema) Names() []string {
	names := make([]string, 0, len(s.specs))
	for _, spec := range s.specs {
		names = append(names, spec.Name)
	}
	return names
}

func (s Schema) Has(name string) bool {
	for _, spec := range s.specs {
		if spec.Name == name {
			return true
		}
	}
	return false
}

func (s Schema) Len() int {
	return len(s.specs)
}

package forms

// ChangeFunc observes value changes on a control. It receives the normalized
// (not raw) value, the live control, and the owning form — the only mechanism
// for cross-field reactive behavior. Callbacks may fire more than once for
// the same net value and must be idempotent.
type ChangeFunc func(value interface{}, control *Control, form *Form)

// FieldConfig describes one field in a declarative form. A config with Fields
// set is a container: it is expanded recursively and produces no control of
// its own.
type FieldConfig struct {
	// ID is optional; fields without one get a generated identifier from the
	// form's allocator.
	ID    string
	Name  string
	Kind  FieldKind
	Label string

	// Value is the initial value. For KindBinary a numeric value is rendered
	// as a human size string for display.
	Value interface{}

	// Optional constraints, applied in a fixed order when present.
	Required       bool
	RequiredIf     func(form *Form) bool
	Min            *float64
	Max            *float64
	MinLength      *int
	MaxLength      *int
	Pattern        string
	PatternKind    PatternKind
	Validator      Validator
	AsyncValidator AsyncValidator

	OnChange ChangeFunc

	Fields []FieldConfig
}

// ButtonConfig describes a form action button.
type ButtonConfig struct {
	Name   string
	Label  string
	Submit bool
}

// FormConfig is the root of a declarative form description.
type FormConfig struct {
	Fields  []FieldConfig
	Buttons []ButtonConfig
}

// Float is a convenience for the pointer-valued constraint fields.
func Float(v float64) *float64 { return &v }

// Int is a convenience for the pointer-valued constraint fields.
func Int(v int) *int { return &v }

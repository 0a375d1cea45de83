/*
 * Copyright 2025 CoralStor, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package forms builds live validated forms from a declarative configuration
// tree.
package forms

import (
	"context"
	"fmt"
)

// Form is a built declarative form.
type Form struct {
	cfg       FormConfig
	controls  []*Control
	byName    map[string]*Control
	built     bool
	submitted bool
	closers   []func()
}

// Build interprets the configuration tree into a live form. The field tree is
// flattened depth-first: only leaf fields produce controls, containers are
// expanded recursively. Fields without an ID get one from alloc.
func Build(cfg FormConfig, alloc *IDAllocator) (*Form, error) {
	if alloc == nil {
		alloc = NewIDAllocator()
	}

	form := &Form{
		cfg:    cfg,
		byName: map[string]*Control{},
	}

	if err := form.addFields(cfg.Fields, alloc); err != nil {
		return nil, err
	}

	form.built = true

	// Initial validation so required-but-empty fields are invalid from the
	// start.
	for _, control := range form.controls {
		control.validate()
	}

	return form, nil
}

func (f *Form) addFields(fields []FieldConfig, alloc *IDAllocator) error {
	for i := range fields {
		field := fields[i]

		if field.Kind == KindContainer || len(field.Fields) > 0 {
			if err := f.addFields(field.Fields, alloc); err != nil {
				return err
			}

			continue
		}

		if field.Name == "" {
			return fmt.Errorf("leaf field without a name (label %q)", field.Label)
		}

		if _, exists := f.byName[field.Name]; exists {
			return fmt.Errorf("duplicate field name %q", field.Name)
		}

		id := field.ID
		if id == "" {
			id = alloc.Next()
		}

		validators, err := buildValidators(&field)
		if err != nil {
			return err
		}

		control := &Control{
			form:       f,
			cfg:        field,
			id:         id,
			value:      field.Kind.Denormalize(field.Value),
			errs:       map[string]string{},
			validators: validators,
			observers:  map[int]ChangeFunc{},
		}

		if field.OnChange != nil {
			f.closers = append(f.closers, control.OnChange(field.OnChange))
		}

		f.controls = append(f.controls, control)
		f.byName[field.Name] = control
	}

	return nil
}

// Controls returns the flattened control list in declaration order.
func (f *Form) Controls() []*Control { return f.controls }

// Control looks a control up by field name.
func (f *Form) Control(name string) *Control { return f.byName[name] }

// Buttons returns the configured action buttons.
func (f *Form) Buttons() []ButtonConfig { return f.cfg.Buttons }

// Valid reports overall validity. A form that has not been built is invalid.
func (f *Form) Valid() bool {
	if f == nil || !f.built {
		return false
	}

	for _, control := range f.controls {
		if control.Invalid() {
			return false
		}
	}

	return true
}

// Values returns the normalized value snapshot. Values that fail to normalize
// are returned raw; the corresponding control carries a format error.
func (f *Form) Values() map[string]interface{} {
	out := make(map[string]interface{}, len(f.controls))

	for _, control := range f.controls {
		normalized, err := control.Normalized()
		if err != nil {
			out[control.Name()] = control.Value()
			continue
		}

		out[control.Name()] = normalized
	}

	return out
}

// Patch overwrites named fields' values. With markDirty the patched controls
// also become eligible for error display, as if the user had edited them.
// Unknown names are rejected before anything is written.
func (f *Form) Patch(values map[string]interface{}, markDirty bool) error {
	for name := range values {
		if _, ok := f.byName[name]; !ok {
			return fmt.Errorf("unknown field %q", name)
		}
	}

	for name, value := range values {
		control := f.byName[name]
		control.setValueQuiet(control.cfg.Kind.Denormalize(value), markDirty)
	}

	return nil
}

// Submit marks the form submitted, making validation errors visible on all
// controls regardless of touch state.
func (f *Form) Submit() {
	f.submitted = true
}

func (f *Form) Submitted() bool { return f.submitted }

// ShowError reports whether an error should be displayed for the named field:
// only when the control was touched (user-edited) or the form was submitted,
// and the control is invalid (code "") or carries the named error code.
func (f *Form) ShowError(name, code string) bool {
	control := f.byName[name]
	if control == nil {
		return false
	}

	if !control.touched && !f.submitted {
		return false
	}

	if code == "" {
		return control.Invalid()
	}

	return control.HasError(code)
}

// ValidateAsync runs every control's async validator, merging failures into
// the per-control error state.
func (f *Form) ValidateAsync(ctx context.Context) {
	for _, control := range f.controls {
		control.validateAsync(ctx)
	}
}

// Close releases all change observers registered from the configuration.
func (f *Form) Close() {
	for _, release := range f.closers {
		release()
	}

	f.closers = nil

	for _, control := range f.controls {
		control.observers = map[int]ChangeFunc{}
	}
}

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

package forms

import "context"

// ErrCodeFormat marks a value that cannot be normalized at all (e.g. an
// unparsable size string on a binary field).
const ErrCodeFormat = "format"

// Control is the live, validatable state bound to one leaf field.
type Control struct {
	form *Form
	cfg  FieldConfig
	id   string

	value   interface{}
	touched bool
	dirty   bool
	errs    map[string]string

	validators []Validator
	observers  map[int]ChangeFunc
	nextObs    int
}

func (c *Control) Name() string { return c.cfg.Name }

func (c *Control) ID() string { return c.id }

func (c *Control) Kind() FieldKind { return c.cfg.Kind }

func (c *Control) Label() string { return c.cfg.Label }

// Value returns the raw display value.
func (c *Control) Value() interface{} { return c.value }

// Normalized returns the canonical value per the control's kind.
func (c *Control) Normalized() (interface{}, error) {
	return c.cfg.Kind.Normalize(c.value)
}

// SetValue updates the display value, marks the control touched, revalidates,
// and notifies observers with the normalized value.
func (c *Control) SetValue(value interface{}) {
	c.value = value
	c.touched = true
	c.validate()
	c.notify()
}

// setValueQuiet is Patch's path: no touched mark unless asked, observers
// still notified.
func (c *Control) setValueQuiet(value interface{}, markDirty bool) {
	c.value = value

	if markDirty {
		c.dirty = true
		c.touched = true
	}

	c.validate()
	c.notify()
}

func (c *Control) Touched() bool { return c.touched }

func (c *Control) Dirty() bool { return c.dirty }

// Invalid reports whether the control currently carries any error.
func (c *Control) Invalid() bool { return len(c.errs) > 0 }

// HasError reports whether the named error code is set.
func (c *Control) HasError(code string) bool {
	_, ok := c.errs[code]
	return ok
}

// Errors returns the current error codes mapped to their messages.
func (c *Control) Errors() map[string]string {
	out := make(map[string]string, len(c.errs))
	for code, msg := range c.errs {
		out[code] = msg
	}

	return out
}

// OnChange registers an observer and returns its unsubscribe handle. All
// handles are released when the form closes.
func (c *Control) OnChange(fn ChangeFunc) (unsubscribe func()) {
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn

	return func() {
		delete(c.observers, id)
	}
}

func (c *Control) validate() {
	c.errs = map[string]string{}

	normalized, err := c.cfg.Kind.Normalize(c.value)
	if err != nil {
		c.errs[ErrCodeFormat] = err.Error()
		return
	}

	for _, validator := range c.validators {
		if fieldErr := validator(c.form, normalized); fieldErr != nil {
			if _, exists := c.errs[fieldErr.Code]; !exists {
				c.errs[fieldErr.Code] = fieldErr.Message
			}
		}
	}
}

func (c *Control) validateAsync(ctx context.Context) {
	if c.cfg.AsyncValidator == nil {
		return
	}

	normalized, err := c.cfg.Kind.Normalize(c.value)
	if err != nil {
		return // the sync pass already flagged the format error
	}

	if fieldErr := c.cfg.AsyncValidator(ctx, c.form, normalized); fieldErr != nil {
		c.errs[fieldErr.Code] = fieldErr.Message
	}
}

func (c *Control) notify() {
	if len(c.observers) == 0 {
		return
	}

	normalized, err := c.cfg.Kind.Normalize(c.value)
	if err != nil {
		return
	}

	for _, fn := range c.observers {
		fn(normalized, c, c.form)
	}
}

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

import (
	"context"
	"fmt"
	"regexp"
)

// Error codes set by the built-in validators.
const (
	ErrCodeMin       = "min"
	ErrCodeMax       = "max"
	ErrCodeMinLength = "minLength"
	ErrCodeMaxLength = "maxLength"
	ErrCodeRequired  = "required"
	ErrCodePattern   = "pattern"
)

// FieldError is one validation failure on a control.
type FieldError struct {
	Code    string
	Message string
}

// Validator inspects a control's normalized value. A nil return means valid.
type Validator func(form *Form, value interface{}) *FieldError

// AsyncValidator is a context-aware validator, typically backed by an API
// call (e.g. name-already-taken checks).
type AsyncValidator func(ctx context.Context, form *Form, value interface{}) *FieldError

// PatternKind names a predefined pattern so configs don't repeat regexes.
type PatternKind int

const (
	PatternNone PatternKind = iota
	PatternServiceName
	PatternHostname
	PatternUUID
)

var namedPatterns = map[PatternKind]*regexp.Regexp{
	PatternServiceName: regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`),
	PatternHostname:    regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?)*$`),
	PatternUUID:        regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`),
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	default:
		return false
	}
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// buildValidators assembles the validator chain for one field. The order is
// fixed for determinism; only configured constraints contribute.
func buildValidators(cfg *FieldConfig) ([]Validator, error) {
	var chain []Validator

	if cfg.Min != nil {
		minimum := *cfg.Min

		chain = append(chain, func(_ *Form, value interface{}) *FieldError {
			if n, ok := toFloat(value); ok && n < minimum {
				return &FieldError{ErrCodeMin, fmt.Sprintf("must be at least %v", minimum)}
			}

			return nil
		})
	}

	if cfg.Max != nil {
		maximum := *cfg.Max

		chain = append(chain, func(_ *Form, value interface{}) *FieldError {
			if n, ok := toFloat(value); ok && n > maximum {
				return &FieldError{ErrCodeMax, fmt.Sprintf("must be at most %v", maximum)}
			}

			return nil
		})
	}

	if cfg.MinLength != nil {
		length := *cfg.MinLength

		chain = append(chain, func(_ *Form, value interface{}) *FieldError {
			if s, ok := value.(string); ok && s != "" && len(s) < length {
				return &FieldError{ErrCodeMinLength, fmt.Sprintf("must be at least %d characters", length)}
			}

			return nil
		})
	}

	if cfg.MaxLength != nil {
		length := *cfg.MaxLength

		chain = append(chain, func(_ *Form, value interface{}) *FieldError {
			if s, ok := value.(string); ok && len(s) > length {
				return &FieldError{ErrCodeMaxLength, fmt.Sprintf("must be at most %d characters", length)}
			}

			return nil
		})
	}

	if cfg.Required {
		chain = append(chain, func(_ *Form, value interface{}) *FieldError {
			if isEmpty(value) {
				return &FieldError{ErrCodeRequired, "is required"}
			}

			return nil
		})
	}

	if cfg.RequiredIf != nil {
		condition := cfg.RequiredIf

		chain = append(chain, func(form *Form, value interface{}) *FieldError {
			if condition(form) && isEmpty(value) {
				return &FieldError{ErrCodeRequired, "is required"}
			}

			return nil
		})
	}

	pattern, err := compilePattern(cfg)
	if err != nil {
		return nil, err
	}

	if pattern != nil {
		chain = append(chain, func(_ *Form, value interface{}) *FieldError {
			if s, ok := value.(string); ok && s != "" && !pattern.MatchString(s) {
				return &FieldError{ErrCodePattern, fmt.Sprintf("must match %s", pattern)}
			}

			return nil
		})
	}

	if cfg.Validator != nil {
		chain = append(chain, cfg.Validator)
	}

	return chain, nil
}

func compilePattern(cfg *FieldConfig) (*regexp.Regexp, error) {
	if cfg.PatternKind != PatternNone {
		pattern, ok := namedPatterns[cfg.PatternKind]
		if !ok {
			return nil, fmt.Errorf("field %q: unknown pattern kind %d", cfg.Name, cfg.PatternKind)
		}

		return pattern, nil
	}

	if cfg.Pattern == "" {
		return nil, nil
	}

	pattern, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return nil, fmt.Errorf("field %q: invalid pattern: %w", cfg.Name, err)
	}

	return pattern, nil
}

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
	"fmt"
	"strconv"
)

// FieldKind is the closed set of field behaviors. Each kind owns its own
// display/storage conversion; KindBinary is the one domain-specific case,
// converting between human size strings and byte counts.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumber
	KindBinary
	KindSelect
	KindCheckbox
	KindHidden
	KindContainer
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBinary:
		return "binary"
	case KindSelect:
		return "select"
	case KindCheckbox:
		return "checkbox"
	case KindHidden:
		return "hidden"
	case KindContainer:
		return "container"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Normalize converts a display value to its canonical storage representation.
func (k FieldKind) Normalize(value interface{}) (interface{}, error) {
	switch k {
	case KindBinary:
		switch v := value.(type) {
		case string:
			if v == "" {
				return nil, nil
			}

			return ParseBytes(v)
		case uint64:
			return v, nil
		case int:
			if v < 0 {
				return nil, fmt.Errorf("size cannot be negative: %d", v)
			}

			return uint64(v), nil
		case int64:
			if v < 0 {
				return nil, fmt.Errorf("size cannot be negative: %d", v)
			}

			return uint64(v), nil
		case float64:
			if v < 0 {
				return nil, fmt.Errorf("size cannot be negative: %v", v)
			}

			return uint64(v), nil
		case nil:
			return nil, nil
		default:
			return nil, fmt.Errorf("cannot normalize %T as a size", value)
		}
	case KindNumber:
		if s, ok := value.(string); ok {
			if s == "" {
				return nil, nil
			}

			parsed, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("not a number: %q", s)
			}

			return parsed, nil
		}

		return value, nil
	case KindCheckbox:
		if s, ok := value.(string); ok {
			return s == "true" || s == "1" || s == "yes", nil
		}

		return value, nil
	default:
		return value, nil
	}
}

// Denormalize converts a canonical value to its display representation.
func (k FieldKind) Denormalize(value interface{}) interface{} {
	if k != KindBinary {
		return value
	}

	switch v := value.(type) {
	case uint64:
		return FormatBytes(v)
	case int:
		if v < 0 {
			return value
		}

		return FormatBytes(uint64(v))
	case int64:
		if v < 0 {
			return value
		}

		return FormatBytes(uint64(v))
	case float64:
		if v < 0 {
			return value
		}

		return FormatBytes(uint64(v))
	default:
		return value
	}
}

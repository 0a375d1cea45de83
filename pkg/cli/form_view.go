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

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/coralstor/console/pkg/forms"
	"github.com/coralstor/console/pkg/models"
)

const (
	maxServiceNameLength = 63
	minReplicas          = 1
	maxReplicas          = 10
	defaultServiceSize   = uint64(10 << 30)
	defaultReplicas      = "3"
)

var serviceTypes = []string{"block", "file", "object"}

// buildCreateForm declares the service-creation form. The object type needs a
// backend pool, the others pick one automatically.
func buildCreateForm(alloc *forms.IDAllocator) (*forms.Form, error) {
	return forms.Build(forms.FormConfig{
		Fields: []forms.FieldConfig{
			{
				Name:        "name",
				Kind:        forms.KindText,
				Label:       "Name",
				Required:    true,
				MaxLength:   forms.Int(maxServiceNameLength),
				PatternKind: forms.PatternServiceName,
			},
			{
				Name:     "type",
				Kind:     forms.KindSelect,
				Label:    "Type",
				Required: true,
				Value:    serviceTypes[0],
				Validator: func(_ *forms.Form, value interface{}) *forms.FieldError {
					s, _ := value.(string)
					for _, t := range serviceTypes {
						if s == t {
							return nil
						}
					}

					return &forms.FieldError{
						Code:    "type",
						Message: fmt.Sprintf("must be one of %s", strings.Join(serviceTypes, ", ")),
					}
				},
			},
			{
				Kind: forms.KindContainer,
				Fields: []forms.FieldConfig{
					{
						Name:     "size",
						Kind:     forms.KindBinary,
						Label:    "Size",
						Required: true,
						Value:    defaultServiceSize,
					},
					{
						Name:  "replicas",
						Kind:  forms.KindNumber,
						Label: "Replicas",
						Min:   forms.Float(minReplicas),
						Max:   forms.Float(maxReplicas),
						Value: defaultReplicas,
					},
				},
			},
			{
				Name:  "backend",
				Kind:  forms.KindText,
				Label: "Backend pool",
				RequiredIf: func(f *forms.Form) bool {
					return f.Control("type").Value() == "object"
				},
			},
		},
		Buttons: []forms.ButtonConfig{
			{Label: "Create", Submit: true},
		},
	}, alloc)
}

// specFromForm converts the form's normalized values to a create request.
// The form must already be valid.
func specFromForm(form *forms.Form) (*models.ServiceSpec, error) {
	values := form.Values()

	size, ok := values["size"].(uint64)
	if !ok {
		return nil, fmt.Errorf("size %v is not a byte count", values["size"])
	}

	spec := &models.ServiceSpec{
		Name: values["name"].(string),
		Type: values["type"].(string),
		Size: size,
	}

	if replicas, ok := values["replicas"].(float64); ok {
		spec.ReplicaCount = int(replicas)
	}

	if backend, ok := values["backend"].(string); ok {
		spec.Backend = backend
	}

	return spec, nil
}

func newCreateView(alloc *forms.IDAllocator) (*createView, error) {
	form, err := buildCreateForm(alloc)
	if err != nil {
		return nil, err
	}

	controls := form.Controls()
	inputs := make([]textinput.Model, len(controls))

	for i, control := range controls {
		input := textinput.New()
		input.Width = 32
		input.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaCyan))
		input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaForeground))
		input.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment))

		if value := control.Value(); value != nil {
			input.SetValue(fmt.Sprint(value))
		}

		inputs[i] = input
	}

	if len(inputs) > 0 {
		inputs[0].Focus()
	}

	return &createView{form: form, inputs: inputs}, nil
}

// syncFocused pushes the focused input's text into its form control so
// validation and change callbacks track every keystroke.
func (c *createView) syncFocused() {
	if c.focus < 0 || c.focus >= len(c.inputs) {
		return
	}

	c.form.Controls()[c.focus].SetValue(c.inputs[c.focus].Value())
}

// advance moves focus by delta, wrapping around.
func (c *createView) advance(delta int) {
	if len(c.inputs) == 0 {
		return
	}

	c.inputs[c.focus].Blur()
	c.focus = (c.focus + delta + len(c.inputs)) % len(c.inputs)
	c.inputs[c.focus].Focus()
}

func (c *createView) render(s *styles) string {
	var content strings.Builder

	controls := c.form.Controls()

	for i, control := range controls {
		label := control.Label()
		if label == "" {
			label = control.Name()
		}

		content.WriteString(s.label.Render(label+":") + "\n")
		content.WriteString(c.inputs[i].View() + "\n")

		if c.form.ShowError(control.Name(), "") {
			for _, message := range control.Errors() {
				content.WriteString(s.fieldErr.Render("  "+message) + "\n")
				break
			}
		}

		content.WriteString("\n")
	}

	for _, button := range c.form.Buttons() {
		content.WriteString(s.hint.Render("[ "+button.Label+" ]") + "  ")
	}

	content.WriteString("\n\n")
	content.WriteString(s.help.Render("Enter submit | Tab next field | Esc back"))

	return content.String()
}

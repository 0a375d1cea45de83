package forms

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Notification is the transient toast shown after a clipboard action.
// Clipboard failures surface here, never as an error return.
type Notification struct {
	OK      bool
	Message string
}

// CopyToClipboard copies the named field's raw current value to the system
// clipboard.
func (f *Form) CopyToClipboard(name string) Notification {
	control := f.byName[name]
	if control == nil {
		return Notification{OK: false, Message: fmt.Sprintf("Unknown field %q", name)}
	}

	text := ""
	if control.Value() != nil {
		text = fmt.Sprint(control.Value())
	}

	if err := clipboard.WriteAll(text); err != nil {
		return Notification{OK: false, Message: "Failed to copy to clipboard"}
	}

	label := control.Label()
	if label == "" {
		label = control.Name()
	}

	return Notification{OK: true, Message: fmt.Sprintf("%s copied to clipboard!", label)}
}

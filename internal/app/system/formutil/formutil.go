// internal/app/system/formutil/formutil.go
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/system/viewdata"
)

// Base carries the shared fields every form page needs: the common view
// model plus an optional validation error shown above the form.
//
// Embed it in a feature's page data and call SetBase before rendering.
type Base struct {
	viewdata.BaseVM
	Error template.HTML
}

// SetBase populates the embedded view model for a form page.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(r, title, backDefault)
}

// SetError records a validation message for display. The message is
// escaped here so templates can print it without re-escaping.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

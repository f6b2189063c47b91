// Package page defines the handles a form flow uses to drive the screen it
// runs on, in place of looking up page elements by ID.
package page

// SubmitControl is the button that submits a form.
type SubmitControl interface {
	Label() string
	SetLabel(label string)
	Enabled() bool
	SetEnabled(enabled bool)
}

// ProgressIndicator is a blocking "please wait" display.
type ProgressIndicator interface {
	Show()
	Hide()
}

type Navigator interface {
	// Path of the current page, e.g. "/".
	Path() string
	// Navigate replaces the current page with target, a server relative URL.
	Navigate(target string)
}

// Alerter shows a message that the user must acknowledge.
type Alerter interface {
	Alert(message string)
}

// ShowLoading disables the control and sets its busy label. The returned
// function restores the control to the state it had before the call.
func ShowLoading(c SubmitControl, busyLabel string) (reset func()) {
	original := c.Label()
	c.SetEnabled(false)
	c.SetLabel(busyLabel)
	return func() {
		c.SetEnabled(true)
		c.SetLabel(original)
	}
}

package page

import (
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/muesli/reflow/wordwrap"
)

func NewConsole(w io.Writer, baseURL, path, label string) *Console {
	return &Console{
		w:       w,
		baseURL: baseURL,
		path:    path,
		label:   label,
		enabled: true,
		Width:   80,
	}
}

// Console implements the page handles for a non-interactive terminal.
// Navigation prints the absolute target URL instead of loading it.
type Console struct {
	m        sync.Mutex
	w        io.Writer
	baseURL  string
	path     string
	label    string
	enabled  bool
	visible  bool
	location string
	alerts   []string
	Width    int
}

func (c *Console) Label() string {
	c.m.Lock()
	defer c.m.Unlock()
	return c.label
}

func (c *Console) SetLabel(label string) {
	c.m.Lock()
	defer c.m.Unlock()
	c.label = label
}

func (c *Console) Enabled() bool {
	c.m.Lock()
	defer c.m.Unlock()
	return c.enabled
}

func (c *Console) SetEnabled(enabled bool) {
	c.m.Lock()
	defer c.m.Unlock()
	c.enabled = enabled
}

// Show prints the control label, which is the busy label while a form is
// being submitted.
func (c *Console) Show() {
	c.m.Lock()
	defer c.m.Unlock()
	if c.visible {
		return
	}
	c.visible = true
	fmt.Fprintln(c.w, c.label)
}

func (c *Console) Hide() {
	c.m.Lock()
	defer c.m.Unlock()
	c.visible = false
}

// Visible reports whether the progress indicator is shown.
func (c *Console) Visible() bool {
	c.m.Lock()
	defer c.m.Unlock()
	return c.visible
}

func (c *Console) Path() string {
	return c.path
}

func (c *Console) Navigate(target string) {
	c.m.Lock()
	defer c.m.Unlock()
	location, err := ResolveURL(c.baseURL, target)
	if err != nil {
		location = target
	}
	c.location = location
	fmt.Fprintln(c.w, location)
}

// Location is the last navigation target, or empty if the page was never
// left.
func (c *Console) Location() string {
	c.m.Lock()
	defer c.m.Unlock()
	return c.location
}

func (c *Console) Alert(message string) {
	c.m.Lock()
	defer c.m.Unlock()
	c.alerts = append(c.alerts, message)
	fmt.Fprintln(c.w, wordwrap.String("error: "+message, c.Width))
}

func (c *Console) Alerts() []string {
	c.m.Lock()
	defer c.m.Unlock()
	return append([]string(nil), c.alerts...)
}

// ResolveURL resolves a server relative target such as
// "/login?next=%2F" against baseURL.
func ResolveURL(baseURL, target string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse baseURL: %w", err)
	}
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("failed to parse target: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

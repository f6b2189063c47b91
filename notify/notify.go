// Package notify shows transient notifications that dismiss themselves.
package notify

import (
	"sync"
	"time"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultDelay is how long a notification stays visible.
const DefaultDelay = 5 * time.Second

type Notification struct {
	Kind    Kind
	Message string
}

// AfterFunc schedules f to run after d and returns a function that cancels
// it. It matches the behaviour of time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func timeAfterFunc(d time.Duration, f func()) (stop func() bool) {
	return time.AfterFunc(d, f).Stop
}

func New(onChange func(n Notification, visible bool)) *Notifier {
	if onChange == nil {
		onChange = func(Notification, bool) {}
	}
	return &Notifier{
		Delay:     DefaultDelay,
		AfterFunc: timeAfterFunc,
		onChange:  onChange,
	}
}

// Notifier displays at most one notification at a time. Showing a new
// notification replaces the current one and restarts the dismiss timer.
type Notifier struct {
	Delay     time.Duration
	AfterFunc AfterFunc

	m          sync.Mutex
	onChange   func(n Notification, visible bool)
	current    Notification
	visible    bool
	generation int
	stop       func() bool
}

func (n *Notifier) Success(message string) {
	n.Show(KindSuccess, message)
}

func (n *Notifier) Error(message string) {
	n.Show(KindError, message)
}

func (n *Notifier) Show(kind Kind, message string) {
	n.m.Lock()
	if n.stop != nil {
		n.stop()
	}
	n.generation++
	generation := n.generation
	n.current = Notification{Kind: kind, Message: message}
	n.visible = true
	n.stop = n.AfterFunc(n.Delay, func() {
		n.dismiss(generation)
	})
	current := n.current
	n.m.Unlock()
	n.onChange(current, true)
}

// Dismiss hides the current notification immediately.
func (n *Notifier) Dismiss() {
	n.m.Lock()
	generation := n.generation
	n.m.Unlock()
	n.dismiss(generation)
}

func (n *Notifier) dismiss(generation int) {
	n.m.Lock()
	if generation != n.generation || !n.visible {
		n.m.Unlock()
		return
	}
	n.visible = false
	if n.stop != nil {
		n.stop()
		n.stop = nil
	}
	current := n.current
	n.m.Unlock()
	n.onChange(current, false)
}

// Current returns the visible notification, if any.
func (n *Notifier) Current() (notification Notification, ok bool) {
	n.m.Lock()
	defer n.m.Unlock()
	return n.current, n.visible
}

// Package queue tracks notifications through their lifecycle: waiting
// to be shown, displayed on screen, and closed into history. The queue
// is confined to the main loop and carries no locks.
package queue

import (
	"sort"
	"time"

	"github.com/jmylchreest/notui/internal/config"
	"github.com/jmylchreest/notui/internal/notification"
)

// CloseReason matches the NotificationClosed signal codes from the
// desktop notifications spec.
type CloseReason uint32

const (
	ReasonExpired   CloseReason = 1
	ReasonDismissed CloseReason = 2
	ReasonRequested CloseReason = 3
)

// Closed pairs a notification with why it left the screen.
type Closed struct {
	N      *notification.Notification
	Reason CloseReason
}

// Queue owns the waiting, displayed and history lists.
type Queue struct {
	settings  *config.Settings
	waiting   []*notification.Notification
	displayed []*notification.Notification
	history   []*notification.Notification
}

// New creates an empty queue driven by the given settings.
func New(settings *config.Settings) *Queue {
	return &Queue{settings: settings}
}

// Reconfigure swaps the live settings on config reload.
func (q *Queue) Reconfigure(settings *config.Settings) {
	q.settings = settings
	q.trimHistory()
}

// Push accepts an incoming notification. A matching live D-Bus ID or
// stack tag replaces the existing card in place; an exact duplicate
// folds into the existing card's count when duplicate stacking is on.
func (q *Queue) Push(n *notification.Notification, now time.Time) {
	if n.ID != 0 && q.replaceByID(n, now) {
		return
	}
	if n.StackTag != "" && q.replaceByTag(n, now) {
		return
	}
	if q.settings.Display.StackDuplicates && q.foldDuplicate(n) {
		return
	}
	q.waiting = append(q.waiting, n)
}

// Update promotes waiting notifications onto the screen up to the
// geometry height and keeps the displayed list in urgency order.
func (q *Queue) Update(now time.Time) {
	limit := q.settings.ParsedGeometry().Height
	for len(q.waiting) > 0 && (limit == 0 || len(q.displayed) < limit) {
		n := q.waiting[0]
		q.waiting = q.waiting[1:]
		n.ShownAt = now
		q.displayed = append(q.displayed, n)
	}

	if q.settings.Display.Sort {
		sort.SliceStable(q.displayed, func(i, j int) bool {
			return q.displayed[i].Urgency > q.displayed[j].Urgency
		})
	}
}

// Sweep removes expired notifications from the screen, returning what
// closed. Cards with timeout 0 stay until dismissed.
func (q *Queue) Sweep(now time.Time) []Closed {
	var closed []Closed
	kept := q.displayed[:0]
	for _, n := range q.displayed {
		timeout := q.effectiveTimeout(n)
		if timeout > 0 && now.Sub(n.ShownAt) >= timeout {
			q.appendHistory(n)
			closed = append(closed, Closed{N: n, Reason: ReasonExpired})
			continue
		}
		kept = append(kept, n)
	}
	q.displayed = kept
	return closed
}

// Close removes the notification with the given D-Bus ID from the
// screen or the waiting line. Returns nil when the ID is not live.
func (q *Queue) Close(id uint32) *notification.Notification {
	if i := indexByID(q.displayed, id); i >= 0 {
		n := q.displayed[i]
		q.displayed = append(q.displayed[:i], q.displayed[i+1:]...)
		q.appendHistory(n)
		return n
	}
	if i := indexByID(q.waiting, id); i >= 0 {
		n := q.waiting[i]
		q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
		q.appendHistory(n)
		return n
	}
	return nil
}

// CloseByKey removes the notification with the given record key, used
// for click dismissal where the D-Bus ID may already be reused.
func (q *Queue) CloseByKey(key string) *notification.Notification {
	for i, n := range q.displayed {
		if n.Key == key {
			q.displayed = append(q.displayed[:i], q.displayed[i+1:]...)
			q.appendHistory(n)
			return n
		}
	}
	for i, n := range q.waiting {
		if n.Key == key {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			q.appendHistory(n)
			return n
		}
	}
	return nil
}

// CloseAll clears the screen and the waiting line into history.
func (q *Queue) CloseAll() []*notification.Notification {
	closed := make([]*notification.Notification, 0, len(q.displayed)+len(q.waiting))
	for _, n := range q.displayed {
		q.appendHistory(n)
		closed = append(closed, n)
	}
	for _, n := range q.waiting {
		q.appendHistory(n)
		closed = append(closed, n)
	}
	q.displayed = nil
	q.waiting = nil
	return closed
}

// SeedHistory installs persisted history, trimming to the configured
// length.
func (q *Queue) SeedHistory(list []*notification.Notification) {
	q.history = list
	q.trimHistory()
}

// Displayed returns the on-screen notifications in paint order.
func (q *Queue) Displayed() []*notification.Notification {
	return q.displayed
}

// Hidden returns how many notifications are waiting off screen.
func (q *Queue) Hidden() int {
	return len(q.waiting)
}

// History returns the closed notifications, oldest first.
func (q *Queue) History() []*notification.Notification {
	return q.history
}

func (q *Queue) replaceByID(n *notification.Notification, now time.Time) bool {
	if i := indexByID(q.displayed, n.ID); i >= 0 {
		n.Key = q.displayed[i].Key
		n.ShownAt = now
		q.displayed[i] = n
		return true
	}
	if i := indexByID(q.waiting, n.ID); i >= 0 {
		n.Key = q.waiting[i].Key
		q.waiting[i] = n
		return true
	}
	return false
}

func (q *Queue) replaceByTag(n *notification.Notification, now time.Time) bool {
	match := func(e *notification.Notification) bool {
		return e.StackTag == n.StackTag && e.AppName == n.AppName
	}
	for i, e := range q.displayed {
		if match(e) {
			n.Key = e.Key
			n.ShownAt = now
			q.displayed[i] = n
			return true
		}
	}
	for i, e := range q.waiting {
		if match(e) {
			n.Key = e.Key
			q.waiting[i] = n
			return true
		}
	}
	return false
}

func (q *Queue) foldDuplicate(n *notification.Notification) bool {
	if d := findDuplicate(q.displayed, n); d != nil {
		d.DupCount++
		return true
	}
	if d := findDuplicate(q.waiting, n); d != nil {
		d.DupCount++
		return true
	}
	return false
}

func findDuplicate(list []*notification.Notification, n *notification.Notification) *notification.Notification {
	for _, e := range list {
		if e.AppName == n.AppName && e.Summary == n.Summary && e.Body == n.Body &&
			e.Icon == n.Icon && e.Urgency == n.Urgency {
			return e
		}
	}
	return nil
}

func (q *Queue) effectiveTimeout(n *notification.Notification) time.Duration {
	if n.Timeout >= 0 {
		return n.Timeout
	}
	return q.settings.TimeoutForUrgency(n.Urgency)
}

func (q *Queue) appendHistory(n *notification.Notification) {
	if n.Transient {
		return
	}
	q.history = append(q.history, n)
	q.trimHistory()
}

func (q *Queue) trimHistory() {
	limit := q.settings.History.Length
	if limit > 0 && len(q.history) > limit {
		q.history = q.history[len(q.history)-limit:]
	}
}

func indexByID(list []*notification.Notification, id uint32) int {
	for i, n := range list {
		if n.ID == id {
			return i
		}
	}
	return -1
}

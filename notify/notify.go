// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package notify is the single surface user-visible failures and successes
// are reported through.
package notify

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/utils/logging"
)

var (
	_ Notifier = (*logNotifier)(nil)
	_ Notifier = (*Recorder)(nil)
)

type Notifier interface {
	ShowError(title string, message string)
	ShowSuccess(message string)
}

type logNotifier struct {
	log logging.Logger
}

// NewLogNotifier reports notifications through [log].
func NewLogNotifier(log logging.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) ShowError(title string, message string) {
	n.log.Warn(title,
		zap.String("message", message),
	)
}

func (n *logNotifier) ShowSuccess(message string) {
	n.log.Info(message)
}

type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
)

type Notification struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// Recorder keeps every notification it receives and forwards it to the
// optional next notifier.
type Recorder struct {
	next Notifier

	lock          sync.Mutex
	notifications []Notification
}

func NewRecorder(next Notifier) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) ShowError(title string, message string) {
	r.record(Notification{
		Kind:    KindError,
		Title:   title,
		Message: message,
	})
	if r.next != nil {
		r.next.ShowError(title, message)
	}
}

func (r *Recorder) ShowSuccess(message string) {
	r.record(Notification{
		Kind:    KindSuccess,
		Message: message,
	})
	if r.next != nil {
		r.next.ShowSuccess(message)
	}
}

func (r *Recorder) record(n Notification) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.notifications = append(r.notifications, n)
}

// Notifications returns everything recorded so far, oldest first.
func (r *Recorder) Notifications() []Notification {
	r.lock.Lock()
	defer r.lock.Unlock()

	return slices.Clone(r.notifications)
}

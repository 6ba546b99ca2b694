// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/utils/logging"
)

// AllNamespaces subscribes a listener to every namespace.
const AllNamespaces caip.Namespace = ""

var (
	_ Store = (*store)(nil)

	ErrUnknownNamespace      = errors.New("unknown namespace")
	ErrNamespaceExists       = errors.New("namespace already exists")
	ErrActiveNotRequested    = errors.New("active network is not a requested network")
	ErrNamespaceReassigned   = errors.New("commit changed the namespace of the state")
	ErrNetworkWrongNamespace = errors.New("network belongs to another namespace")
)

// Listener is called once per committed transition with a snapshot of the
// namespace state and its machine state.
type Listener func(NamespaceState, MachineState)

// Store holds the state of every configured namespace. All mutations go
// through Commit, which validates the result, applies it atomically, and then
// synchronously notifies listeners.
type Store interface {
	fmt.Stringer

	// Create registers [namespace] with its initial state.
	// Returns ErrNamespaceExists if it is already registered.
	Create(initial NamespaceState) error

	// Commit applies [update] to a copy of the state of [namespace]. If the
	// result violates an invariant, nothing is applied and the error is
	// returned. If the result equals the current state, nothing is applied and
	// listeners are not notified. [update] must not call back into the store.
	//
	// Listeners see commits in the order they were applied. If no other
	// goroutine is notifying, the listeners have run by the time Commit
	// returns. Otherwise the notifying goroutine delivers this commit after
	// the ones before it.
	Commit(namespace caip.Namespace, update func(*NamespaceState)) error

	// Publish is Commit, except that listeners are notified even if the
	// result equals the current state.
	Publish(namespace caip.Namespace, update func(*NamespaceState)) error

	// Get returns a snapshot of the state of [namespace].
	Get(namespace caip.Namespace) (NamespaceState, bool)

	// Namespaces returns the registered namespaces in registration order.
	Namespaces() []caip.Namespace

	// ActiveNamespace returns the globally active namespace, or "" if none is.
	ActiveNamespace() caip.Namespace

	// SetActiveNamespace activates [namespace]. Global listeners are notified
	// with the state of the newly active namespace.
	SetActiveNamespace(namespace caip.Namespace) error

	// SwitchingNamespace reports whether a network switch into another
	// namespace is in flight.
	SwitchingNamespace() bool
	SetSwitchingNamespace(switching bool)

	// Subscribe registers [listener] for [namespace], or for every namespace
	// if [namespace] is AllNamespaces. The returned func unsubscribes.
	Subscribe(namespace caip.Namespace, listener Listener) func()
}

// NewStore returns a new, empty store
func NewStore(log logging.Logger) Store {
	return &store{
		log:        log,
		namespaces: make(map[caip.Namespace]*NamespaceState),
		listeners:  make(map[caip.Namespace]map[uint64]Listener),
	}
}

type notification struct {
	namespace caip.Namespace
	// only global listeners are called
	activated bool
	snapshot  NamespaceState
}

type store struct {
	log logging.Logger

	lock sync.RWMutex
	// Key: namespace
	// Value: the committed state of the namespace
	namespaces         map[caip.Namespace]*NamespaceState
	order              []caip.Namespace
	active             caip.Namespace
	switchingNamespace bool

	// notifications waiting to be delivered, in commit order
	pending []notification
	// true while a goroutine is delivering [pending]
	draining bool

	listenersLock  sync.RWMutex
	nextListenerID uint64
	// Key: namespace, or AllNamespaces
	listeners map[caip.Namespace]map[uint64]Listener
}

func (s *store) Create(initial NamespaceState) error {
	if err := initial.Namespace.Verify(); err != nil {
		return err
	}
	if err := verify(&initial); err != nil {
		return err
	}

	s.lock.Lock()
	if _, ok := s.namespaces[initial.Namespace]; ok {
		s.lock.Unlock()
		return fmt.Errorf("%w: %s", ErrNamespaceExists, initial.Namespace)
	}
	snapshot := initial.Clone()
	s.namespaces[initial.Namespace] = &snapshot
	s.order = append(s.order, initial.Namespace)
	shouldDrain := s.enqueue(notification{
		namespace: initial.Namespace,
		snapshot:  snapshot.Clone(),
	})
	s.lock.Unlock()

	s.log.Debug("namespace created",
		zap.Stringer("namespace", initial.Namespace),
	)
	if shouldDrain {
		s.drain()
	}
	return nil
}

func (s *store) Commit(namespace caip.Namespace, update func(*NamespaceState)) error {
	return s.commit(namespace, update, false)
}

func (s *store) Publish(namespace caip.Namespace, update func(*NamespaceState)) error {
	return s.commit(namespace, update, true)
}

func (s *store) commit(namespace caip.Namespace, update func(*NamespaceState), always bool) error {
	s.lock.Lock()
	current, ok := s.namespaces[namespace]
	if !ok {
		s.lock.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownNamespace, namespace)
	}

	next := current.Clone()
	update(&next)
	if next.ApprovedCaipNetworkIDs == nil {
		next.ApprovedCaipNetworkIDs = []caip.NetworkID{}
	}
	if next.Namespace != namespace {
		s.lock.Unlock()
		return fmt.Errorf("%w: %s became %s", ErrNamespaceReassigned, namespace, next.Namespace)
	}
	if err := verify(&next); err != nil {
		s.lock.Unlock()
		return err
	}
	if !always && reflect.DeepEqual(*current, next) {
		s.lock.Unlock()
		return nil
	}

	*current = next
	shouldDrain := s.enqueue(notification{
		namespace: namespace,
		snapshot:  next.Clone(),
	})
	s.lock.Unlock()

	s.log.Verbo("state committed",
		zap.Stringer("namespace", namespace),
		zap.Stringer("machine", next.Machine),
		zap.String("status", string(next.Account.Status)),
	)
	if shouldDrain {
		s.drain()
	}
	return nil
}

func (s *store) Get(namespace caip.Namespace) (NamespaceState, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	current, ok := s.namespaces[namespace]
	if !ok {
		return NamespaceState{}, false
	}
	return current.Clone(), true
}

func (s *store) Namespaces() []caip.Namespace {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return slices.Clone(s.order)
}

func (s *store) ActiveNamespace() caip.Namespace {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.active
}

func (s *store) SetActiveNamespace(namespace caip.Namespace) error {
	s.lock.Lock()
	if namespace == "" {
		s.active = ""
		s.lock.Unlock()
		return nil
	}
	current, ok := s.namespaces[namespace]
	if !ok {
		s.lock.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownNamespace, namespace)
	}
	if s.active == namespace {
		s.lock.Unlock()
		return nil
	}
	s.active = namespace
	shouldDrain := s.enqueue(notification{
		namespace: namespace,
		activated: true,
		snapshot:  current.Clone(),
	})
	s.lock.Unlock()

	s.log.Debug("active namespace changed",
		zap.Stringer("namespace", namespace),
	)
	if shouldDrain {
		s.drain()
	}
	return nil
}

func (s *store) SwitchingNamespace() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.switchingNamespace
}

func (s *store) SetSwitchingNamespace(switching bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.switchingNamespace = switching
}

func (s *store) Subscribe(namespace caip.Namespace, listener Listener) func() {
	s.listenersLock.Lock()
	defer s.listenersLock.Unlock()

	id := s.nextListenerID
	s.nextListenerID++

	listeners, ok := s.listeners[namespace]
	if !ok {
		listeners = make(map[uint64]Listener)
		s.listeners[namespace] = listeners
	}
	listeners[id] = listener

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersLock.Lock()
			defer s.listenersLock.Unlock()

			delete(s.listeners[namespace], id)
			if len(s.listeners[namespace]) == 0 {
				delete(s.listeners, namespace)
			}
		})
	}
}

func (s *store) String() string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("Namespace Store: (Size = %d, Active = %q)",
		len(s.order),
		s.active,
	))
	for _, namespace := range s.order {
		ns := s.namespaces[namespace]
		sb.WriteString(fmt.Sprintf(
			"\n    Namespace[%s]: machine=%s status=%s network=%s",
			namespace,
			ns.Machine,
			ns.Account.Status,
			ns.ActiveNetworkID(),
		))
	}
	return sb.String()
}

// enqueue queues [n] behind every earlier notification and reports whether
// the caller must drain the queue.
//
// Assumes [s.lock] is held.
func (s *store) enqueue(n notification) bool {
	s.pending = append(s.pending, n)
	if s.draining {
		return false
	}
	s.draining = true
	return true
}

// drain delivers pending notifications until the queue is empty. Must be
// called without [s.lock] held so that listeners may commit. Commits made by
// listeners are queued and delivered by this same loop.
func (s *store) drain() {
	for {
		s.lock.Lock()
		if len(s.pending) == 0 {
			s.draining = false
			s.lock.Unlock()
			return
		}
		n := s.pending[0]
		s.pending[0] = notification{}
		s.pending = s.pending[1:]
		s.lock.Unlock()

		s.notify(n)
	}
}

// notify calls the listeners of the namespace and then the global listeners.
// Activations only reach the global listeners.
func (s *store) notify(n notification) {
	listeners := s.listenersFor(AllNamespaces)
	if !n.activated {
		listeners = append(s.listenersFor(n.namespace), listeners...)
	}
	s.notifyListeners(listeners, n.snapshot)
}

func (*store) notifyListeners(listeners []Listener, snapshot NamespaceState) {
	for _, listener := range listeners {
		listener(snapshot.Clone(), snapshot.Machine)
	}
}

func (s *store) listenersFor(namespace caip.Namespace) []Listener {
	s.listenersLock.RLock()
	defer s.listenersLock.RUnlock()

	registered := s.listeners[namespace]
	ids := make([]uint64, 0, len(registered))
	for id := range registered {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	listeners := make([]Listener, len(ids))
	for i, id := range ids {
		listeners[i] = registered[id]
	}
	return listeners
}

func verify(s *NamespaceState) error {
	for _, network := range s.RequestedCaipNetworks {
		if network.Namespace != s.Namespace {
			return fmt.Errorf("%w: %s in %s", ErrNetworkWrongNamespace, network.CaipNetworkID(), s.Namespace)
		}
	}
	if s.ActiveCaipNetwork != nil && !s.IsRequested(s.ActiveCaipNetwork.CaipNetworkID()) {
		return fmt.Errorf("%w: %s", ErrActiveNotRequested, s.ActiveCaipNetwork.CaipNetworkID())
	}
	return nil
}

// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package connectors tracks the wallet connectors available in each
// namespace and which of them currently holds a connection.
package connectors

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/adapter"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/storage"
	"github.com/ava-labs/walletkit/utils/logging"
)

var errMissingID = errors.New("connector is missing an id")

// ProviderState is the provider a namespace is currently connected through.
type ProviderState struct {
	Provider adapter.Provider
	Type     Type
}

// Registry holds at most one connector per (id, namespace). It is safe for
// concurrent use.
type Registry struct {
	log     logging.Logger
	storage *storage.Storage

	lock sync.RWMutex
	// Connectors in the order they were first added
	connectors []*Connector
	index      map[key]*Connector
	// Restricts listings to a single namespace while a connect flow runs.
	// "" means no restriction.
	filter caip.Namespace
	// nil enables every namespace
	enabled   map[caip.Namespace]bool
	activeIDs map[caip.Namespace]string
	providers map[caip.Namespace]ProviderState
}

func New(log logging.Logger, storage *storage.Storage) *Registry {
	return &Registry{
		log:       log,
		storage:   storage,
		index:     make(map[key]*Connector),
		activeIDs: make(map[caip.Namespace]string),
		providers: make(map[caip.Namespace]ProviderState),
	}
}

// Initialize restores the connector ids persisted for [namespaces].
func (r *Registry) Initialize(namespaces []caip.Namespace) error {
	for _, namespace := range namespaces {
		id, err := r.storage.ConnectedConnectorID(namespace)
		if err != nil {
			return fmt.Errorf("failed to restore connector of %s: %w", namespace, err)
		}
		if id == "" {
			continue
		}

		r.lock.Lock()
		r.activeIDs[namespace] = id
		r.lock.Unlock()

		r.log.Debug("restored connector",
			zap.Stringer("namespace", namespace),
			zap.String("connectorID", id),
		)
	}
	return nil
}

// Add registers [c]. If a connector with the same id already exists in the
// same namespace, it is reused: its provider handle is refreshed and the
// existing connector is returned with false.
func (r *Registry) Add(c Connector) (Connector, bool, error) {
	if c.ID == "" {
		return Connector{}, false, errMissingID
	}
	if err := c.Namespace.Verify(); err != nil {
		return Connector{}, false, err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if existing, ok := r.index[c.key()]; ok {
		if c.Provider != nil {
			existing.Provider = c.Provider
		}
		return *existing, false, nil
	}

	added := c
	r.connectors = append(r.connectors, &added)
	r.index[c.key()] = &added
	r.log.Debug("connector added",
		zap.String("connectorID", c.ID),
		zap.Stringer("namespace", c.Namespace),
		zap.String("type", string(c.Type)),
	)
	return added, true, nil
}

// SetConnectors adds every connector in [cs]. Connectors that are already
// registered are reused.
func (r *Registry) SetConnectors(cs []Connector) error {
	for _, c := range cs {
		if _, _, err := r.Add(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Remove(id string, namespace caip.Namespace) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	k := key{id: id, namespace: namespace}
	c, ok := r.index[k]
	if !ok {
		return false
	}
	delete(r.index, k)
	for i, existing := range r.connectors {
		if existing == c {
			r.connectors = append(r.connectors[:i], r.connectors[i+1:]...)
			break
		}
	}
	return true
}

func (r *Registry) Get(id string, namespace caip.Namespace) (Connector, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	c, ok := r.index[key{id: id, namespace: namespace}]
	if !ok {
		return Connector{}, false
	}
	return *c, true
}

// SetFilterByNamespace restricts connector listings to [namespace]. Passing ""
// clears the restriction.
func (r *Registry) SetFilterByNamespace(namespace caip.Namespace) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.filter = namespace
}

func (r *Registry) FilterByNamespace() caip.Namespace {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.filter
}

// FilterByNamespaces enables exactly [namespaces].
func (r *Registry) FilterByNamespaces(namespaces []caip.Namespace) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.enabled = make(map[caip.Namespace]bool, len(namespaces))
	for _, namespace := range namespaces {
		r.enabled[namespace] = true
	}
}

func (r *Registry) EnableNamespace(namespace caip.Namespace, enabled bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.enabled == nil {
		if enabled {
			return
		}
		r.enabled = make(map[caip.Namespace]bool)
		for _, c := range r.connectors {
			r.enabled[c.Namespace] = true
		}
	}
	r.enabled[namespace] = enabled
}

// EnabledNamespaces returns nil if every namespace is enabled.
func (r *Registry) EnabledNamespaces() map[caip.Namespace]bool {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.enabled == nil {
		return nil
	}
	enabled := make(map[caip.Namespace]bool, len(r.enabled))
	for namespace, ok := range r.enabled {
		enabled[namespace] = ok
	}
	return enabled
}

// Connectors lists the connectors of every enabled namespace that pass the
// namespace filter.
func (r *Registry) Connectors() []Connector {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.listed("")
}

// ByNamespace lists the connectors of [namespace] that pass the namespace
// filter.
func (r *Registry) ByNamespace(namespace caip.Namespace) []Connector {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.listed(namespace)
}

// Grouped lists the connectors like Connectors, but merges connectors of the
// same wallet across namespaces into one group.
func (r *Registry) Grouped() []Group {
	r.lock.RLock()
	defer r.lock.RUnlock()

	var (
		groups []Group
		byName = make(map[string]int)
	)
	for _, c := range r.listed("") {
		name := displayName(c.Name)
		if name == "" {
			continue
		}
		i, ok := byName[name]
		if !ok {
			byName[name] = len(groups)
			groups = append(groups, Group{
				Name:       name,
				ImageURL:   c.ImageURL,
				Connectors: []Connector{c},
			})
			continue
		}
		groups[i].Connectors = append(groups[i].Connectors, c)
	}
	return groups
}

// AuthConnector returns the auth connector of [namespace] regardless of the
// namespace filter. An empty [namespace] returns the first auth connector.
func (r *Registry) AuthConnector(namespace caip.Namespace) (Connector, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, c := range r.connectors {
		if c.Type != Auth {
			continue
		}
		if namespace == "" || c.Namespace == namespace {
			return *c, true
		}
	}
	return Connector{}, false
}

// FindByExplorerID returns the connector of [namespace] with the given
// explorer id or RDNS.
func (r *Registry) FindByExplorerID(namespace caip.Namespace, explorerID string, rdns string) (Connector, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, c := range r.connectors {
		if c.Namespace != namespace {
			continue
		}
		if (explorerID != "" && c.ExplorerID == explorerID) || (rdns != "" && c.RDNS == rdns) {
			return *c, true
		}
	}
	return Connector{}, false
}

// SetConnectorID records that [namespace] is connected through the connector
// [id] and persists it.
func (r *Registry) SetConnectorID(namespace caip.Namespace, id string) error {
	r.lock.Lock()
	r.activeIDs[namespace] = id
	r.lock.Unlock()

	return r.storage.SetConnectedConnectorID(namespace, id)
}

// ConnectorID returns "" if [namespace] is not connected.
func (r *Registry) ConnectorID(namespace caip.Namespace) string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.activeIDs[namespace]
}

func (r *Registry) RemoveConnectorID(namespace caip.Namespace) error {
	r.lock.Lock()
	delete(r.activeIDs, namespace)
	r.lock.Unlock()

	return r.storage.DeleteConnectedConnectorID(namespace)
}

func (r *Registry) IsConnected(namespace caip.Namespace) bool {
	return r.ConnectorID(namespace) != ""
}

func (r *Registry) SetProvider(namespace caip.Namespace, provider adapter.Provider, providerType Type) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.providers[namespace] = ProviderState{
		Provider: provider,
		Type:     providerType,
	}
}

func (r *Registry) Provider(namespace caip.Namespace) (ProviderState, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	p, ok := r.providers[namespace]
	return p, ok
}

func (r *Registry) ResetProvider(namespace caip.Namespace) {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.providers, namespace)
}

// listed must be called with [r.lock] held.
func (r *Registry) listed(namespace caip.Namespace) []Connector {
	listed := make([]Connector, 0, len(r.connectors))
	for _, c := range r.connectors {
		switch {
		case namespace != "" && c.Namespace != namespace:
		case r.filter != "" && c.Namespace != r.filter:
		case r.enabled != nil && !r.enabled[c.Namespace]:
		default:
			listed = append(listed, *c)
		}
	}
	return listed
}

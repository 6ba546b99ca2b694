// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package storage persists the part of the wallet kit state that must survive
// a restart, so that a prior session can be restored without prompting the
// wallet again.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/database"
	"github.com/ava-labs/walletkit/database/prefixdb"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/utils/logging"
	"github.com/ava-labs/walletkit/utils/set"
	"github.com/ava-labs/walletkit/utils/timer/mockable"
)

const (
	// DefaultPrefix is prepended to every key written by the wallet kit.
	DefaultPrefix = "@appkit/"

	// MaxRecentWallets is the number of recently used wallets that are kept.
	MaxRecentWallets = 2
)

var (
	activeNamespaceKey       = []byte("active_namespace")
	activeCaipNetworkIDKey   = []byte("active_caip_network_id")
	connectionStatusKey      = []byte("connection_status")
	connectedNamespacesKey   = []byte("connected_namespaces")
	recentWalletsKey         = []byte("recent_wallets")
	preferredAccountTypesKey = []byte("preferred_account_types")
	authSessionTokenKey      = []byte("auth_session_token")
	connectorIDSuffix        = []byte(":connected_connector_id")
)

// Wallet is a recently used wallet.
type Wallet struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Storage is the typed view over the persisted key-value contract.
type Storage struct {
	log   logging.Logger
	clock *mockable.Clock
	db    database.Database

	// serializes read-modify-write of list values
	lock sync.Mutex
}

// New returns a Storage that writes every key under [prefix] in [db].
func New(log logging.Logger, db database.Database, prefix string) *Storage {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Storage{
		log:   log,
		clock: &mockable.Clock{},
		db:    prefixdb.New([]byte(prefix), db),
	}
}

// Clock returns the clock used to check auth session expiry.
func (s *Storage) Clock() *mockable.Clock {
	return s.clock
}

func connectorIDKey(namespace caip.Namespace) []byte {
	return prefixdb.PrefixKey([]byte(namespace), connectorIDSuffix)
}

func (s *Storage) SetConnectedConnectorID(namespace caip.Namespace, connectorID string) error {
	return database.PutString(s.db, connectorIDKey(namespace), connectorID)
}

// ConnectedConnectorID returns "" if no connector is stored for [namespace].
func (s *Storage) ConnectedConnectorID(namespace caip.Namespace) (string, error) {
	return database.WithDefault(database.GetString, s.db, connectorIDKey(namespace), "")
}

func (s *Storage) DeleteConnectedConnectorID(namespace caip.Namespace) error {
	return s.db.Delete(connectorIDKey(namespace))
}

func (s *Storage) SetActiveNamespace(namespace caip.Namespace) error {
	if namespace == "" {
		return s.db.Delete(activeNamespaceKey)
	}
	return database.PutString(s.db, activeNamespaceKey, namespace.String())
}

func (s *Storage) ActiveNamespace() (caip.Namespace, error) {
	namespace, err := database.WithDefault(database.GetString, s.db, activeNamespaceKey, "")
	return caip.Namespace(namespace), err
}

func (s *Storage) SetActiveCaipNetworkID(id caip.NetworkID) error {
	if id == "" {
		return s.db.Delete(activeCaipNetworkIDKey)
	}
	return database.PutString(s.db, activeCaipNetworkIDKey, id.String())
}

func (s *Storage) ActiveCaipNetworkID() (caip.NetworkID, error) {
	id, err := database.WithDefault(database.GetString, s.db, activeCaipNetworkIDKey, "")
	return caip.NetworkID(id), err
}

func (s *Storage) SetConnectionStatus(status state.Status) error {
	return database.PutString(s.db, connectionStatusKey, string(status))
}

func (s *Storage) ConnectionStatus() (state.Status, error) {
	status, err := database.WithDefault(database.GetString, s.db, connectionStatusKey, string(state.StatusDisconnected))
	return state.Status(status), err
}

// AddConnectedNamespace records that [namespace] holds a connection.
func (s *Storage) AddConnectedNamespace(namespace caip.Namespace) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	namespaces, err := s.connectedNamespaces()
	if err != nil {
		return err
	}
	if slices.Contains(namespaces, namespace) {
		return nil
	}
	return s.putJSON(connectedNamespacesKey, append(namespaces, namespace))
}

func (s *Storage) RemoveConnectedNamespace(namespace caip.Namespace) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	namespaces, err := s.connectedNamespaces()
	if err != nil {
		return err
	}
	remaining := slices.DeleteFunc(namespaces, func(ns caip.Namespace) bool {
		return ns == namespace
	})
	return s.putJSON(connectedNamespacesKey, remaining)
}

// ConnectedNamespaces returns the connected namespaces in the order they
// connected.
func (s *Storage) ConnectedNamespaces() ([]caip.Namespace, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.connectedNamespaces()
}

func (s *Storage) connectedNamespaces() ([]caip.Namespace, error) {
	namespaces := []caip.Namespace{}
	if err := s.getJSON(connectedNamespacesKey, &namespaces); err != nil {
		return nil, err
	}
	return namespaces, nil
}

// AddRecentWallet puts [wallet] first in the recent wallets. Wallets that are
// already listed are left where they are.
func (s *Storage) AddRecentWallet(wallet Wallet) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	wallets, err := s.recentWallets()
	if err != nil {
		return err
	}
	if slices.ContainsFunc(wallets, func(w Wallet) bool { return w.ID == wallet.ID }) {
		return nil
	}
	wallets = append([]Wallet{wallet}, wallets...)
	if len(wallets) > MaxRecentWallets {
		wallets = wallets[:MaxRecentWallets]
	}
	return s.putJSON(recentWalletsKey, wallets)
}

func (s *Storage) RecentWallets() ([]Wallet, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.recentWallets()
}

func (s *Storage) recentWallets() ([]Wallet, error) {
	wallets := []Wallet{}
	if err := s.getJSON(recentWalletsKey, &wallets); err != nil {
		return nil, err
	}
	return wallets, nil
}

// SetPreferredAccountType records the account type to use in [namespace].
func (s *Storage) SetPreferredAccountType(namespace caip.Namespace, accountType string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	types, err := s.preferredAccountTypes()
	if err != nil {
		return err
	}
	types[namespace] = accountType
	return s.putJSON(preferredAccountTypesKey, types)
}

func (s *Storage) PreferredAccountTypes() (map[caip.Namespace]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.preferredAccountTypes()
}

func (s *Storage) preferredAccountTypes() (map[caip.Namespace]string, error) {
	types := map[caip.Namespace]string{}
	if err := s.getJSON(preferredAccountTypesKey, &types); err != nil {
		return nil, err
	}
	if types == nil {
		types = map[caip.Namespace]string{}
	}
	return types, nil
}

// Dump returns every stored key and value, for diagnostics.
func (s *Storage) Dump() (map[string]string, error) {
	it := s.db.NewIteratorWithPrefix(nil)
	defer it.Release()

	values := make(map[string]string)
	for it.Next() {
		values[string(it.Key())] = string(it.Value())
	}
	return values, it.Error()
}

// Namespaces returns every namespace that has any namespaced key stored.
func (s *Storage) Namespaces() (set.Set[caip.Namespace], error) {
	connected, err := s.ConnectedNamespaces()
	if err != nil {
		return nil, err
	}
	namespaces := set.Of(connected...)
	active, err := s.ActiveNamespace()
	if err != nil {
		return nil, err
	}
	if active != "" {
		namespaces.Add(active)
	}
	return namespaces, nil
}

func (s *Storage) putJSON(key []byte, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return s.db.Put(key, b)
}

// getJSON leaves [value] untouched when [key] is missing. Corrupt values are
// logged and treated as missing.
func (s *Storage) getJSON(key []byte, value any) error {
	b, err := s.db.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, value); err != nil {
		s.log.Warn("dropping corrupt stored value",
			zap.ByteString("key", key),
			zap.Error(err),
		)
		return s.db.Delete(key)
	}
	return nil
}

// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pubsub streams the state of the wallet kit over websockets.
package pubsub

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/utils/logging"
	"github.com/ava-labs/walletkit/utils/set"
)

const (
	// Size of the ws read buffer
	readBufferSize = 1024

	// Size of the ws write buffer
	writeBufferSize = 1024

	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 10 * 1024 // bytes

	// Maximum number of pending messages to send to a peer.
	maxPendingMessages = 1024 // messages

	// Endpoint is the path the server is served on.
	Endpoint = "/ext/pubsub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  readBufferSize,
	WriteBufferSize: writeBufferSize,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Server maintains the set of active clients and sends them the changes of
// the namespaces they follow.
type Server struct {
	log   logging.Logger
	store state.Store

	lock        sync.RWMutex
	conns       set.Set[*connection]
	unsubscribe func()

	connections prometheus.Gauge
	dropped     prometheus.Counter
}

// New returns a server publishing every change committed to [store].
func New(log logging.Logger, store state.Store, registerer prometheus.Registerer) (*Server, error) {
	s := &Server{
		log:   log,
		store: store,
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "walletkit_pubsub",
			Name:      "connections",
			Help:      "Number of open websocket connections",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "walletkit_pubsub",
			Name:      "dropped_messages",
			Help:      "Number of messages dropped because a subscriber was too slow",
		}),
	}
	if err := registerer.Register(s.connections); err != nil {
		return nil, err
	}
	if err := registerer.Register(s.dropped); err != nil {
		return nil, err
	}
	s.unsubscribe = store.Subscribe(state.AllNamespaces, s.publish)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	conn := &connection{
		s:    s,
		conn: wsConn,
		send: make(chan interface{}, maxPendingMessages),
	}
	conn.active.Store(true)
	s.addConnection(conn)
}

// publish sends [ns] to every connection following its namespace.
func (s *Server) publish(ns state.NamespaceState, machine state.MachineState) {
	snapshot := &Snapshot{
		Namespace: ns.Namespace,
		Machine:   machine,
		State:     ns,
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	for conn := range s.conns {
		if !conn.Follows(snapshot) {
			continue
		}
		if !conn.Send(snapshot) {
			s.dropped.Inc()
			s.log.Verbo("dropping message to subscribed connection due to too many pending messages",
				zap.Stringer("namespace", ns.Namespace),
			)
		}
	}
}

// sendSnapshots sends the current state of [namespaces], or of every
// namespace if none are given, to [conn].
func (s *Server) sendSnapshots(conn *connection, namespaces []caip.Namespace) {
	if len(namespaces) == 0 {
		namespaces = s.store.Namespaces()
	}
	snapshots := make([]*Snapshot, 0, len(namespaces))
	for _, namespace := range namespaces {
		ns, ok := s.store.Get(namespace)
		if !ok {
			continue
		}
		snapshots = append(snapshots, &Snapshot{
			Namespace: namespace,
			Machine:   ns.Machine,
			State:     ns,
		})
	}

	// The lock keeps the send channel open while sending.
	s.lock.RLock()
	defer s.lock.RUnlock()

	for _, snapshot := range snapshots {
		if !conn.Send(snapshot) {
			s.dropped.Inc()
		}
	}
}

func (s *Server) addConnection(conn *connection) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.conns.Add(conn)
	s.connections.Set(float64(s.conns.Len()))

	go conn.writePump()
	go conn.readPump()
}

func (s *Server) removeConnection(conn *connection) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.conns.Contains(conn) {
		return
	}
	s.conns.Remove(conn)
	s.connections.Set(float64(s.conns.Len()))
	close(conn.send)
}

// Close stops publishing and closes every connection.
func (s *Server) Close() {
	s.unsubscribe()

	s.lock.Lock()
	defer s.lock.Unlock()

	for conn := range s.conns {
		conn.active.Store(false)
		close(conn.send)
	}
	s.conns = nil
	s.connections.Set(0)
}

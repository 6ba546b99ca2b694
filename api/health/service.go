// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/utils/logging"
)

const (
	ServiceName = "health"
	Endpoint    = "/ext/health"

	// NamespaceQueryParam filters the checks reported to GET requests. It may
	// be repeated.
	NamespaceQueryParam = "namespace"
)

// Service serves a [Reporter] over JSON-RPC 2.0.
type Service struct {
	log    logging.Logger
	health Reporter
}

// APIArgs restricts a report to the checks of [Namespaces] and the checks
// concerning every namespace. Empty reports every check.
type APIArgs struct {
	Namespaces []caip.Namespace `json:"namespaces"`
}

// APIReply is the response for Readiness, Health, and Liveness.
type APIReply struct {
	Checks  map[string]Result `json:"checks"`
	Healthy bool              `json:"healthy"`
}

func (s *Service) Readiness(_ *http.Request, args *APIArgs, reply *APIReply) error {
	s.called("readiness", args)
	reply.Checks, reply.Healthy = s.health.Readiness(args.Namespaces...)
	return nil
}

func (s *Service) Health(_ *http.Request, args *APIArgs, reply *APIReply) error {
	s.called("health", args)
	reply.Checks, reply.Healthy = s.health.Health(args.Namespaces...)
	return nil
}

func (s *Service) Liveness(_ *http.Request, args *APIArgs, reply *APIReply) error {
	s.called("liveness", args)
	reply.Checks, reply.Healthy = s.health.Liveness(args.Namespaces...)
	return nil
}

func (s *Service) called(method string, args *APIArgs) {
	s.log.Debug("API called",
		zap.String("service", ServiceName),
		zap.String("method", method),
		zap.Stringers("namespaces", args.Namespaces),
	)
}

// NewGetAndPostHandler answers GET requests with the health of [reporter]
// and forwards every other request to the JSON-RPC service.
func NewGetAndPostHandler(log logging.Logger, reporter Reporter) (http.Handler, error) {
	server := rpc.NewServer()
	codec := json2.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")

	err := server.RegisterService(
		&Service{
			log:    log,
			health: reporter,
		},
		ServiceName,
	)
	if err != nil {
		return nil, err
	}

	getHandler := NewGetHandler(reporter.Health)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			getHandler.ServeHTTP(w, r)
			return
		}
		server.ServeHTTP(w, r)
	}), nil
}

// NewGetHandler writes the results of [reporter] for the namespaces named in
// the query, with status 200 when they pass and 503 otherwise.
func NewGetHandler(reporter func(...caip.Namespace) (map[string]Result, bool)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()[NamespaceQueryParam]
		namespaces := make([]caip.Namespace, len(query))
		for i, namespace := range query {
			namespaces[i] = caip.Namespace(namespace)
		}

		w.Header().Set("Content-Type", "application/json")
		checks, healthy := reporter(namespaces...)
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(APIReply{
			Checks:  checks,
			Healthy: healthy,
		})
	})
}

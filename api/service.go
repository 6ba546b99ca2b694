// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/appkit"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/connectors"
	"github.com/ava-labs/walletkit/orchestrator"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/utils/logging"
	"github.com/ava-labs/walletkit/utils/metric"
)

// ServiceName is the name requests are sent to, as in "walletkit.getAccount".
const ServiceName = "walletkit"

var errUnknownNamespace = errors.New("unknown namespace")

// Service exposes a wallet kit over JSON-RPC 2.0.
type Service struct {
	log logging.Logger
	kit *appkit.Kit
}

// NewService returns the JSON-RPC handler of [kit]. Request metrics are
// registered with [registerer].
func NewService(log logging.Logger, kit *appkit.Kit, registerer prometheus.Registerer) (http.Handler, error) {
	interceptor, err := metric.NewAPIInterceptor("walletkit_api", registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register api metrics: %w", err)
	}

	server := rpc.NewServer()
	codec := json2.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	server.RegisterInterceptFunc(interceptor.InterceptRequest)
	server.RegisterAfterFunc(interceptor.AfterRequest)
	if err := server.RegisterService(&Service{
		log: log,
		kit: kit,
	}, ServiceName); err != nil {
		return nil, err
	}
	return server, nil
}

func (s *Service) GetAccount(_ *http.Request, args *NamespaceArgs, reply *appkit.Account) error {
	s.log.Debug("API called",
		zap.String("service", ServiceName),
		zap.String("method", "getAccount"),
		zap.Stringer("namespace", args.Namespace),
	)

	account, ok := s.kit.GetAccount(args.Namespace)
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownNamespace, args.Namespace)
	}
	*reply = account
	return nil
}

func (s *Service) GetNamespaceState(_ *http.Request, args *NamespaceArgs, reply *state.NamespaceState) error {
	s.log.Debug("API called",
		zap.String("service", ServiceName),
		zap.String("method", "getNamespaceState"),
		zap.Stringer("namespace", args.Namespace),
	)

	ns, ok := s.kit.Store.Get(s.resolve(args.Namespace))
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownNamespace, args.Namespace)
	}
	*reply = ns
	return nil
}

func (s *Service) GetActiveNamespace(_ *http.Request, _ *struct{}, reply *NamespaceReply) error {
	s.log.Debug("API called",
		zap.String("service", ServiceName),
		zap.String("method", "getActiveNamespace"),
	)

	reply.Namespace = s.kit.Store.ActiveNamespace()
	return nil
}

func (s *Service) SetActiveNamespace(_ *http.Request, args *NamespaceArgs, _ *EmptyReply) error {
	s.log.Info("API called",
		zap.String("service", ServiceName),
		zap.String("method", "setActiveNamespace"),
		zap.Stringer("namespace", args.Namespace),
	)

	if _, ok := s.kit.Store.Get(args.Namespace); !ok {
		return fmt.Errorf("%w: %q", errUnknownNamespace, args.Namespace)
	}
	return s.kit.Orchestrator.SetActiveNamespace(args.Namespace)
}

type SwitchNetworkArgs struct {
	Namespace caip.Namespace `json:"namespace"`
	// ChainID is the chain reference, such as "1" for Ethereum.
	ChainID string `json:"chainId"`
}

// SwitchNetwork moves [args.Namespace] to the chain [args.ChainID]. Unlike
// the in-process call, a wallet refusing the switch is reported as an error.
func (s *Service) SwitchNetwork(r *http.Request, args *SwitchNetworkArgs, reply *state.NamespaceState) error {
	s.log.Info("API called",
		zap.String("service", ServiceName),
		zap.String("method", "switchNetwork"),
		zap.Stringer("namespace", args.Namespace),
		zap.String("chainID", args.ChainID),
	)

	namespace := s.resolve(args.Namespace)
	network, ok := s.kit.Orchestrator.GetCaipNetworkByID(args.ChainID, namespace)
	if !ok {
		network = caip.Network{
			ID:        args.ChainID,
			Namespace: namespace,
		}
	}
	err := s.kit.Orchestrator.SwitchActiveNetwork(r.Context(), network, orchestrator.WithThrowOnFailure())
	if err != nil {
		return err
	}
	ns, ok := s.kit.Store.Get(network.Namespace)
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownNamespace, network.Namespace)
	}
	*reply = ns
	return nil
}

func (s *Service) GetApprovedNetworks(_ *http.Request, args *NamespaceArgs, reply *orchestrator.ApprovedNetworks) error {
	s.log.Debug("API called",
		zap.String("service", ServiceName),
		zap.String("method", "getApprovedNetworks"),
		zap.Stringer("namespace", args.Namespace),
	)

	*reply = s.kit.Orchestrator.GetApprovedCaipNetworksData(s.resolve(args.Namespace))
	return nil
}

type GetConnectorsReply struct {
	Connectors []connectors.Connector `json:"connectors"`
}

// GetConnectors lists the connectors of [args.Namespace], or every listed
// connector if no namespace is given.
func (s *Service) GetConnectors(_ *http.Request, args *NamespaceArgs, reply *GetConnectorsReply) error {
	s.log.Debug("API called",
		zap.String("service", ServiceName),
		zap.String("method", "getConnectors"),
		zap.Stringer("namespace", args.Namespace),
	)

	if args.Namespace == "" {
		reply.Connectors = s.kit.Registry.Connectors()
	} else {
		reply.Connectors = s.kit.Registry.ByNamespace(args.Namespace)
	}
	if reply.Connectors == nil {
		reply.Connectors = []connectors.Connector{}
	}
	return nil
}

type ConnectArgs struct {
	Namespace   caip.Namespace `json:"namespace"`
	ConnectorID string         `json:"connectorId"`
}

func (s *Service) Connect(r *http.Request, args *ConnectArgs, reply *appkit.Account) error {
	s.log.Info("API called",
		zap.String("service", ServiceName),
		zap.String("method", "connect"),
		zap.Stringer("namespace", args.Namespace),
		zap.String("connectorID", args.ConnectorID),
	)

	namespace := s.resolve(args.Namespace)
	if err := s.kit.Connect(r.Context(), namespace, args.ConnectorID); err != nil {
		return err
	}
	account, ok := s.kit.GetAccount(namespace)
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownNamespace, namespace)
	}
	*reply = account
	return nil
}

type FetchBalanceReply struct {
	Balances []state.Balance `json:"balances"`
	// Error is set when the balances could not be fetched.
	Error string `json:"error,omitempty"`
}

func (s *Service) FetchBalance(r *http.Request, args *NamespaceArgs, reply *FetchBalanceReply) error {
	s.log.Debug("API called",
		zap.String("service", ServiceName),
		zap.String("method", "fetchBalance"),
		zap.Stringer("namespace", args.Namespace),
	)

	reply.Balances = s.kit.Accounts.FetchTokenBalance(r.Context(), args.Namespace, func(err error) {
		reply.Error = err.Error()
	})
	return nil
}

func (s *Service) Disconnect(r *http.Request, args *NamespaceArgs, _ *EmptyReply) error {
	s.log.Info("API called",
		zap.String("service", ServiceName),
		zap.String("method", "disconnect"),
		zap.Stringer("namespace", args.Namespace),
	)

	return s.kit.Disconnect(r.Context(), args.Namespace)
}

func (s *Service) resolve(namespace caip.Namespace) caip.Namespace {
	if namespace == "" {
		return s.kit.Store.ActiveNamespace()
	}
	return namespace
}

// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package adapter

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/trace"
)

var _ Adapter = (*tracedAdapter)(nil)

type tracedAdapter struct {
	a             Adapter
	connect       string
	disconnect    string
	switchNetwork string
	getAccounts   string
	tracer        trace.Tracer
}

func Trace(a Adapter, name string, tracer trace.Tracer) Adapter {
	return &tracedAdapter{
		a:             a,
		connect:       fmt.Sprintf("%s.Connect", name),
		disconnect:    fmt.Sprintf("%s.Disconnect", name),
		switchNetwork: fmt.Sprintf("%s.SwitchNetwork", name),
		getAccounts:   fmt.Sprintf("%s.GetAccounts", name),
		tracer:        tracer,
	}
}

// TraceTable wraps every adapter in [t], naming each span after its
// namespace.
func TraceTable(t Table, tracer trace.Tracer) Table {
	traced := make(Table, len(t))
	for namespace, a := range t {
		traced[namespace] = Trace(a, namespace.String(), tracer)
	}
	return traced
}

func (a *tracedAdapter) Connect(ctx context.Context, params ConnectParams) (ConnectResult, error) {
	ctx, span := a.tracer.Start(ctx, a.connect, oteltrace.WithAttributes(
		attribute.String("connectorID", params.ID),
		attribute.String("connectorType", params.Type),
		attribute.String("chainID", params.ChainID),
	))
	defer span.End()

	result, err := a.a.Connect(ctx, params)
	if err != nil {
		span.RecordError(err)
	}
	return result, err
}

func (a *tracedAdapter) Disconnect(ctx context.Context, params DisconnectParams) error {
	ctx, span := a.tracer.Start(ctx, a.disconnect, oteltrace.WithAttributes(
		attribute.String("providerType", params.ProviderType),
	))
	defer span.End()

	err := a.a.Disconnect(ctx, params)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (a *tracedAdapter) SwitchNetwork(ctx context.Context, network caip.Network) error {
	ctx, span := a.tracer.Start(ctx, a.switchNetwork, oteltrace.WithAttributes(
		attribute.Stringer("network", network.CaipNetworkID()),
	))
	defer span.End()

	err := a.a.SwitchNetwork(ctx, network)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (a *tracedAdapter) GetAccounts(ctx context.Context) ([]state.Account, error) {
	ctx, span := a.tracer.Start(ctx, a.getAccounts)
	defer span.End()

	accounts, err := a.a.GetAccounts(ctx)
	if err != nil {
		span.RecordError(err)
	}
	span.SetAttributes(attribute.Int("numAccounts", len(accounts)))
	return accounts, err
}

// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/account"
	"github.com/ava-labs/walletkit/adapter"
	"github.com/ava-labs/walletkit/adapter/static"
	"github.com/ava-labs/walletkit/api"
	"github.com/ava-labs/walletkit/api/health"
	"github.com/ava-labs/walletkit/api/metrics"
	"github.com/ava-labs/walletkit/api/server"
	"github.com/ava-labs/walletkit/appkit"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/config"
	"github.com/ava-labs/walletkit/connectors"
	"github.com/ava-labs/walletkit/database"
	"github.com/ava-labs/walletkit/database/leveldb"
	"github.com/ava-labs/walletkit/database/memdb"
	"github.com/ava-labs/walletkit/pubsub"
	"github.com/ava-labs/walletkit/trace"
	"github.com/ava-labs/walletkit/utils/logging"
	"github.com/ava-labs/walletkit/utils/wrappers"
	"github.com/ava-labs/walletkit/version"
)

// StaticConnectorID is the connector of the built-in wallet.
const StaticConnectorID = "static"

var _ App = (*walletKit)(nil)

type walletKit struct {
	config     config.Config
	logFactory logging.Factory
	log        logging.Logger

	db     database.Database
	tracer trace.Tracer
	kit    *appkit.Kit
	health health.Health
	pubsub *pubsub.Server
	server *server.Server

	// set once the kit restored its persisted sessions
	initialized atomic.Bool

	// closed once the server stops serving
	done     chan struct{}
	exitCode int
	stopOnce sync.Once
}

// New builds the wallet kit described by [config] and the API server exposing
// it. Nothing is started until Start is called.
func New(config config.Config) (App, error) {
	logFactory := logging.NewFactory(config.LoggingConfig)
	log, err := logFactory.Make("main")
	if err != nil {
		logFactory.Close()
		return nil, fmt.Errorf("failed to initialize log: %w", err)
	}

	a := &walletKit{
		config:     config,
		logFactory: logFactory,
		log:        log,
		done:       make(chan struct{}),
	}
	if err := a.initialize(); err != nil {
		log.Error("failed to initialize the wallet kit",
			zap.Error(err),
		)
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *walletKit) initialize() error {
	a.log.Info("initializing wallet kit",
		zap.String("version", version.String()),
		zap.String("dbType", a.config.DBType),
	)

	var err error
	switch a.config.DBType {
	case config.LevelDB:
		a.db, err = leveldb.New(a.config.DBPath, a.log.With(zap.String("component", "leveldb")))
		if err != nil {
			return fmt.Errorf("couldn't create leveldb at %s: %w", a.config.DBPath, err)
		}
	default:
		a.db = memdb.New()
	}

	a.tracer, err = trace.New(a.config.TraceConfig)
	if err != nil {
		return fmt.Errorf("couldn't initialize tracer: %w", err)
	}

	registry, metricsHandler := metrics.NewService()

	wallets := staticWallets(a.config.StaticAccounts)
	a.kit, err = appkit.New(appkit.Config{
		Log:                 a.log,
		DB:                  a.db,
		StoragePrefix:       a.config.StoragePrefix,
		Networks:            a.config.Networks,
		Adapters:            wallets.adapters,
		Connectors:          wallets.connectors,
		BalanceSources:      wallets.balances,
		DefaultAccountTypes: a.config.DefaultAccountTypes,
		Tracer:              a.tracer,
		Registerer:          registry,
		BalanceCooldown:     a.config.BalanceCooldown,
		BalanceCacheTTL:     a.config.BalanceCacheTTL,
		SwitchTimeout:       a.config.SwitchNetworkTimeout,
	})
	if err != nil {
		return err
	}

	apiHandler, err := api.NewService(a.log.With(zap.String("component", "api")), a.kit, registry)
	if err != nil {
		return err
	}
	a.pubsub, err = pubsub.New(a.log.With(zap.String("component", "pubsub")), a.kit.Store, registry)
	if err != nil {
		return err
	}

	healthLog := a.log.With(zap.String("component", "health"))
	a.health, err = health.New(healthLog, registry)
	if err != nil {
		return fmt.Errorf("couldn't initialize health: %w", err)
	}
	if err := a.registerHealthChecks(a.health); err != nil {
		return err
	}
	healthHandler, err := health.NewGetAndPostHandler(healthLog, a.health)
	if err != nil {
		return err
	}

	httpLog, err := a.logFactory.Make("http")
	if err != nil {
		return fmt.Errorf("failed to initialize http log: %w", err)
	}
	a.server = server.New(a.log.With(zap.String("component", "server")), httpLog, a.config.HTTPConfig)

	errs := wrappers.Errs{}
	errs.Add(
		a.server.AddRoute(apiHandler, "walletkit", ""),
		a.server.AddAliases("walletkit", "appkit"),
		a.server.AddRoute(metricsHandler, "metrics", ""),
		a.server.AddRoute(healthHandler, "health", ""),
		a.server.AddRoute(a.pubsub, "pubsub", ""),
	)
	return errs.Err
}

type builtinWallets struct {
	adapters   adapter.Table
	balances   map[caip.Namespace]account.BalanceSource
	connectors []connectors.Connector
}

// staticWallets returns a built-in wallet per namespace of [accounts]. Each
// wallet also serves the balances of its namespace.
func staticWallets(accounts map[caip.Namespace][]string) builtinWallets {
	namespaces := make([]caip.Namespace, 0, len(accounts))
	for namespace := range accounts {
		namespaces = append(namespaces, namespace)
	}
	sort.Slice(namespaces, func(i, j int) bool {
		return namespaces[i] < namespaces[j]
	})

	wallets := builtinWallets{
		adapters:   make(adapter.Table, len(accounts)),
		balances:   make(map[caip.Namespace]account.BalanceSource, len(accounts)),
		connectors: make([]connectors.Connector, 0, len(accounts)),
	}
	for _, namespace := range namespaces {
		wallet := static.New(namespace, accounts[namespace]...)
		wallets.adapters[namespace] = wallet
		wallets.balances[namespace] = wallet
		wallets.connectors = append(wallets.connectors, connectors.Connector{
			ID:        StaticConnectorID,
			Name:      "Built-in Wallet",
			Namespace: namespace,
			Type:      connectors.Injected,
		})
	}
	return wallets
}

func (a *walletKit) Start() error {
	if err := a.kit.Initialize(context.Background()); err != nil {
		a.log.Error("failed to restore the wallet kit",
			zap.Error(err),
		)
		a.close()
		return err
	}
	a.initialized.Store(true)
	a.health.Start(a.config.HealthCheckFreq)

	go func() {
		defer close(a.done)

		err := a.server.Dispatch()
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		a.log.Error("API server dispatch failed",
			zap.Error(err),
		)
		a.exitCode = 1
	}()
	return nil
}

// Stop disconnects every namespace first when configured to, so that
// subscribers observe the teardown before the server goes away.
func (a *walletKit) Stop() error {
	a.stopOnce.Do(func() {
		a.log.Info("shutting down the wallet kit",
			zap.Bool("disconnect", a.config.DisconnectOnShutdown),
		)
		if a.config.DisconnectOnShutdown {
			a.disconnectAll()
		}
		if err := a.server.Shutdown(); err != nil {
			a.log.Debug("failed to shutdown the API server",
				zap.Error(err),
			)
		}
	})
	return nil
}

func (a *walletKit) disconnectAll() {
	timeout := a.config.HTTPConfig.ShutdownTimeout
	if timeout <= 0 {
		timeout = server.DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.kit.Disconnector.DisconnectAll(ctx); err != nil {
		a.log.Warn("failed to disconnect on shutdown",
			zap.Error(err),
		)
	}
}

func (a *walletKit) ExitCode() (int, error) {
	<-a.done
	a.close()
	return a.exitCode, nil
}

// close releases everything initialize acquired. Fields that were never set
// are skipped.
func (a *walletKit) close() {
	if a.health != nil {
		a.health.Stop()
	}
	if a.pubsub != nil {
		a.pubsub.Close()
	}
	if a.tracer != nil {
		if err := a.tracer.Close(); err != nil {
			a.log.Warn("failed to close the tracer",
				zap.Error(err),
			)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("failed to close the database",
				zap.Error(err),
			)
		}
	}
	a.log.Info("finished shutting down")
	a.logFactory.Close()
}

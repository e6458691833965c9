//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"datascout-backend/application/ports"
	querybus "datascout-backend/application/queries/bus"
	"datascout-backend/application/recommendations"
	"datascout-backend/domain/services"
	"datascout-backend/infrastructure/config"
	"datascout-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Store       ports.DatasetStore
	Interpreter *services.Interpreter
	Engine      *recommendations.Engine
	QueryBus    *querybus.QueryBus
	Cache       ports.Cache
	Metrics     *observability.Metrics
	Tracer      *observability.Tracer
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideCloudWatchClient,
	ProvideDatasetStore,
	ProvideMetrics,
	ProvideTracer,
	ProvideInterpreter,
	ProvideEngine,
	ProvideInMemoryCache,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}

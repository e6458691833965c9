package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"

	"datascout-backend/application/ports"
	"datascout-backend/application/queries"
	querybus "datascout-backend/application/queries/bus"
	"datascout-backend/application/recommendations"
	"datascout-backend/domain/services"
	"datascout-backend/infrastructure/config"
	"datascout-backend/infrastructure/persistence/dynamodb"
	"datascout-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration. With tracing enabled every SDK
// call emits an X-Ray subsegment.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}

	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}

	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideDatasetStore creates the DynamoDB-backed dataset store
func ProvideDatasetStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.DatasetStore {
	return dynamodb.NewDatasetStore(
		client,
		cfg.DynamoDBTable,
		cfg.AgencyIndex,
		cfg.UpdatedIndex,
		logger,
	)
}

// ProvideMetrics creates a metrics sink. Metrics disabled by config means a
// no-op sink, keeping call sites unconditional.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return observability.NewMetrics("", nil)
	}
	namespace := fmt.Sprintf("DataScout/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client)
}

// ProvideTracer creates a tracer instance
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer("datascout-backend")
}

// ProvideInterpreter creates the query interpreter
func ProvideInterpreter() *services.Interpreter {
	return services.NewInterpreter()
}

// ProvideEngine creates the recommendation engine
func ProvideEngine(store ports.DatasetStore, cfg *config.Config, logger *zap.Logger) *recommendations.Engine {
	return recommendations.NewEngine(store, logger, cfg.StrategyTimeout)
}

// ProvideInMemoryCache creates a simple in-memory cache
// In production, this would be Redis or similar
func ProvideInMemoryCache(logger *zap.Logger) ports.Cache {
	return NewInMemoryCache(logger)
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// metricsAdapter adapts observability.Metrics to the bus metrics interface
type metricsAdapter struct {
	metrics *observability.Metrics
}

func (a *metricsAdapter) StartTimer(metric, label string) querybus.Timer {
	return a.metrics.StartTimer(metric, label)
}

func (a *metricsAdapter) Increment(metric, label string) {
	a.metrics.Increment(metric, label)
}

// ProvideQueryBus creates a query bus with registered handlers. Search
// results are cached at the bus boundary; the scoring pipeline itself stays
// cache-free.
func ProvideQueryBus(
	store ports.DatasetStore,
	interpreter *services.Interpreter,
	engine *recommendations.Engine,
	cache ports.Cache,
	metrics *observability.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	metricsMw := querybus.NewMetricsMiddleware(&metricsAdapter{metrics: metrics})
	cachingMw := querybus.NewCachingMiddleware(cache, cfg.CacheTTLSeconds)

	// Register SearchDatasetsQuery handler
	searchHandler := queries.NewSearchDatasetsHandler(interpreter, store, logger)
	queryBus.Register(queries.SearchDatasetsQuery{}, metricsMw.Wrap(cachingMw.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			searchQuery, ok := query.(queries.SearchDatasetsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return searchHandler.Handle(ctx, searchQuery)
		},
	})))

	// Register GetDatasetQuery handler
	getHandler := queries.NewGetDatasetHandler(store, logger)
	queryBus.Register(queries.GetDatasetQuery{}, metricsMw.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetDatasetQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getHandler.Handle(ctx, getQuery)
		},
	}))

	// Register RecommendDatasetsQuery handler
	recommendHandler := queries.NewRecommendDatasetsHandler(engine, interpreter, logger)
	queryBus.Register(queries.RecommendDatasetsQuery{}, metricsMw.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			recQuery, ok := query.(queries.RecommendDatasetsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return recommendHandler.Handle(ctx, recQuery)
		},
	}))

	return queryBus
}

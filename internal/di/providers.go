package di

import (
	"context"
	"fmt"
	"time"

	"SmartBank/internal/domain/repository"
	"SmartBank/internal/handler/api"
	"SmartBank/internal/handler/ws"
	internalrepo "SmartBank/internal/repository"
	"SmartBank/internal/service/ratelimit"
	"SmartBank/internal/services/generator"
	"SmartBank/internal/services/timeseries"
	"SmartBank/internal/usecase"
	"SmartBank/pkg/cache"
	pkgch "SmartBank/pkg/clickhouse"
	"SmartBank/pkg/config"
	xhttp "SmartBank/pkg/http"
	pkgkafka "SmartBank/pkg/kafka"
	applogger "SmartBank/pkg/logger"
	"SmartBank/pkg/metrics"
	pkgpg "SmartBank/pkg/postgres"
	"SmartBank/pkg/queue"
	"SmartBank/pkg/server"

	"github.com/redis/go-redis/v9"
)

const initTimeout = 10 * time.Second

// ProvideLogger creates the application logger from the logging section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvidePostgresClient connects to Postgres. No URL means the in-memory
// stores are used and the client is nil.
func ProvidePostgresClient(cfg *config.Config, l *applogger.Logger) (*pkgpg.Client, func(), error) {
	if cfg.Postgres.URL == "" {
		l.Warn("postgres disabled, using in-memory stores")
		return nil, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	client, err := pkgpg.NewClient(ctx,
		pkgpg.WithURL(cfg.Postgres.URL),
		pkgpg.WithPoolSize(cfg.Postgres.MaxConns, cfg.Postgres.MinConns),
		pkgpg.WithConnectTimeout(cfg.Postgres.ConnectTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideClickHouseClient creates a ClickHouse client when enabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideRedisClient connects to Redis when enabled.
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, _, err := cache.NewRedisClient(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
		cache.WithRedisPool(cfg.Redis.PoolSize, cfg.Redis.MinIdleConns, cfg.Redis.PoolTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideCache layers an in-process LRU over Redis, or uses the LRU alone.
func ProvideCache(cfg *config.Config, rc *redis.Client) (cache.Service, func()) {
	if rc != nil {
		// the Redis client is closed by its own provider
		lc := cache.NewLayeredCache(
			cache.NewRedisCacheFromClient(rc, cfg.Redis.Prefix+":cache"),
			cache.WithLayeredMemorySize(cfg.Series.CacheSize),
			cache.WithLayeredMemoryTTL(cfg.Series.CacheTTL/2),
			cache.WithLayeredInvalidation(cfg.Redis.Prefix+":cache:invalidate"),
		)
		return lc, func() { _ = lc.Close() }
	}
	mc := cache.NewMemoryCache(
		cache.WithMemoryMaxSize(cfg.Series.CacheSize),
		cache.WithMemoryDefaultTTL(cfg.Series.CacheTTL),
	)
	return mc, func() { _ = mc.Close() }
}

// ProvideSeriesStore picks ClickHouse when configured and memory otherwise.
func ProvideSeriesStore(ch *pkgch.Client, l *applogger.Logger) (repository.SeriesStore, error) {
	if ch == nil {
		return internalrepo.NewMemorySeriesStore(), nil
	}
	store := internalrepo.NewCHSeriesStore(ch)
	store.SetLogger(l)
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

func ProvideGenerator(cfg *config.Config) *generator.Generator {
	return generator.New(cfg.Series.GeneratorSeed, nil)
}

// ProvideSeriesSource chains the store, the remote API and the generator.
func ProvideSeriesSource(cfg *config.Config, store repository.SeriesStore, gen *generator.Generator, m repository.Metrics, l *applogger.Logger) repository.SeriesSource {
	sources := []repository.SeriesSource{store}
	if cfg.Series.RemoteURL != "" {
		remote := internalrepo.NewHTTPSeriesSource(xhttp.NewClient(xhttp.WithTimeout(cfg.Series.RemoteTimeout)), cfg.Series.RemoteURL)
		remote.SetLogger(l)
		sources = append(sources, remote)
	}
	if cfg.Series.Generator {
		sources = append(sources, gen)
	}
	chain := internalrepo.NewChainSource(sources...)
	chain.SetLogger(l)
	chain.SetMetrics(m)
	return chain
}

// ProvideFilter builds the selection pipeline with the configured empty
// result policy and timezone.
func ProvideFilter(cfg *config.Config) (*timeseries.Filter, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	policy, err := timeseries.ParseEmptyResultPolicy(cfg.Series.OnEmptyResult, timeseries.ShowAll)
	if err != nil {
		return nil, err
	}
	return timeseries.NewFilter(timeseries.NewResolver(timeseries.WithLocation(loc)), policy), nil
}

// ProvideNotificationStore returns the Postgres store, or an in-memory one
// when Postgres is not configured. The same holds for the upload and trade
// stores below.
func ProvideNotificationStore(pg *pkgpg.Client, l *applogger.Logger) (repository.NotificationStore, error) {
	if pg == nil {
		return internalrepo.NewMemoryNotificationStore(), nil
	}
	s := internalrepo.NewPGNotificationStore(pg)
	s.SetLogger(l)
	return s, initSchema(s)
}

func ProvideUploadStore(pg *pkgpg.Client, l *applogger.Logger) (repository.UploadStore, error) {
	if pg == nil {
		return internalrepo.NewMemoryUploadStore(), nil
	}
	s := internalrepo.NewPGUploadStore(pg)
	s.SetLogger(l)
	return s, initSchema(s)
}

func ProvideTradeStore(pg *pkgpg.Client, l *applogger.Logger) (repository.TradeStore, error) {
	if pg == nil {
		return internalrepo.NewMemoryTradeStore(), nil
	}
	s := internalrepo.NewPGTradeStore(pg)
	s.SetLogger(l)
	return s, initSchema(s)
}

func initSchema(s repository.SchemaInitializer) error {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	if err := s.Init(ctx); err != nil {
		return fmt.Errorf("postgres schema: %w", err)
	}
	return nil
}

func ProvideHub(cfg *config.Config, l *applogger.Logger) *ws.Hub {
	return ws.NewHub(l, cfg.Server.CORSOrigins...)
}

func ProvideNotifier(hub *ws.Hub) repository.Notifier {
	return hub
}

// ProvideKafkaProducer creates a Kafka producer when Kafka carries events.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, func(), error) {
	if cfg.Events.Backend != "kafka" {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvideKafkaConsumer creates a Kafka consumer when Kafka carries events.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if cfg.Events.Backend != "kafka" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.SetLogger(l)
	consumer.WithConsumerHook(pkgkafka.NewHookChain(pkgkafka.EventIDHook(), pkgkafka.RejectEmpty()))
	return consumer, nil
}

// ProvideRedisQueue creates the Redis queue when Redis carries events.
func ProvideRedisQueue(cfg *config.Config, rc *redis.Client, l *applogger.Logger) *queue.RedisQueue {
	if cfg.Events.Backend != "redis" || rc == nil {
		return nil
	}
	return queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    cfg.Events.QueueWorkers,
		RetryLimit: 3,
		RetryDelay: 5 * time.Second,
		PollWait:   2 * time.Second,
	}, rc, queue.ModeProducerConsumer, queue.WithKeyPrefix(cfg.Events.QueueName))
}

// ProvideEventPublisher selects the event backend. Without one, events are
// handled in-process.
func ProvideEventPublisher(cfg *config.Config, producer *pkgkafka.Producer, q *queue.RedisQueue, n *usecase.NotificationUseCase) repository.EventPublisher {
	switch {
	case producer != nil:
		return internalrepo.NewKafkaEventPublisher(producer, cfg.Events.Topic)
	case q != nil:
		return internalrepo.NewQueueEventPublisher(q)
	case n != nil:
		return usecase.NewLocalEventPublisher(n)
	default:
		return internalrepo.NoopEventPublisher{}
	}
}

// ProvideLogPublisher returns the sink of the error log collector, if any.
func ProvideLogPublisher(producer *pkgkafka.Producer, q *queue.RedisQueue) applogger.Publisher {
	if producer != nil {
		return producer
	}
	if q != nil {
		return q
	}
	return nil
}

func ProvideSeriesUseCase(cfg *config.Config, source repository.SeriesSource, store repository.SeriesStore, c cache.Service, filter *timeseries.Filter, m repository.Metrics, l *applogger.Logger) *usecase.SeriesUseCase {
	return usecase.NewSeriesUseCase(source, store, c, filter, m, l, cfg.Series.CacheTTL)
}

func ProvideNotificationUseCase(cfg *config.Config, store repository.NotificationStore, notifier repository.Notifier, l *applogger.Logger) *usecase.NotificationUseCase {
	return usecase.NewNotificationUseCase(store, notifier, l, cfg.Upload.NotificationLimit)
}

func ProvideUploadUseCase(store repository.UploadStore, series *usecase.SeriesUseCase, pub repository.EventPublisher, m repository.Metrics, l *applogger.Logger) *usecase.UploadUseCase {
	return usecase.NewUploadUseCase(store, series, pub, m, l)
}

func ProvideTradeUseCase(store repository.TradeStore, gen *generator.Generator, l *applogger.Logger) *usecase.TradeUseCase {
	return usecase.NewTradeUseCase(store, gen, l)
}

// ProvideHealthUseCase checks only the stores that are actually configured.
func ProvideHealthUseCase(pg *pkgpg.Client, ch *pkgch.Client, store repository.SeriesStore) *usecase.HealthUseCase {
	var checkers []repository.HealthChecker
	if pg != nil {
		checkers = append(checkers, pg)
	}
	if ch != nil {
		if hc, ok := store.(repository.HealthChecker); ok {
			checkers = append(checkers, hc)
		}
	}
	return usecase.NewHealthUseCase(checkers...)
}

func ProvideUploadEventHandler(cfg *config.Config, n *usecase.NotificationUseCase, m repository.Metrics) *usecase.UploadEventHandler {
	return usecase.NewUploadEventHandler(cfg.Events.Topic, n, m)
}

func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Upload.RateCapacity, cfg.Upload.RateRefillPerSec)
}

// ProvideHTTPHandler registers every route of the API.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	series *usecase.SeriesUseCase,
	dashboard *usecase.DashboardUseCase,
	uploads *usecase.UploadUseCase,
	notifications *usecase.NotificationUseCase,
	trades *usecase.TradeUseCase,
	health *usecase.HealthUseCase,
	limiter *ratelimit.Limiter,
	hub *ws.Hub,
) xhttp.Handler {
	return xhttp.Handlers{
		api.NewHealthEchoHandler(health),
		api.NewSeriesEchoHandler(l, series, dashboard),
		api.NewUploadEchoHandler(l, uploads, limiter, cfg.Upload.MaxBytes),
		api.NewNotificationEchoHandler(l, notifications),
		api.NewTradeEchoHandler(l, trades),
		hub,
	}
}

func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h xhttp.Handler) *xhttp.Server {
	path := ""
	if cfg.Metrics.Enabled {
		path = cfg.Metrics.Path
	}
	return xhttp.NewServer(h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(true, cfg.Server.CORSOrigins...),
		xhttp.WithMetrics(path, cfg.Metrics.SlowThreshold),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	hub *ws.Hub,
	trades *usecase.TradeUseCase,
	events *usecase.UploadEventHandler,
	consumer *pkgkafka.Consumer,
	q *queue.RedisQueue,
	limiter *ratelimit.Limiter,
	logPub applogger.Publisher,
) *server.App {
	return server.New(cfg, l, httpServer, server.Components{
		Hub:          hub,
		Trades:       trades,
		UploadEvents: events,
		Consumer:     consumer,
		Queue:        q,
		Limiter:      limiter,
		LogPublisher: logPub,
	})
}

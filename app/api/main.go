package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/base/database/mongoclient"
	"github.com/craftbid/goapi/base/database/redisclient"
	"github.com/craftbid/goapi/base/keyed"
	"github.com/craftbid/goapi/base/log"
	"github.com/craftbid/goapi/base/metrics"
	bValidator "github.com/craftbid/goapi/base/validator"
	mmiddleware "github.com/craftbid/goapi/middleware"
	"github.com/craftbid/goapi/service/courier"
	"github.com/craftbid/goapi/service/query"
	"github.com/craftbid/goapi/service/redis"
	collectible_broadcaster "github.com/craftbid/goapi/stores/collectible/broadcaster"
	collectible_delivery "github.com/craftbid/goapi/stores/collectible/delivery/http"
	collectible_ws "github.com/craftbid/goapi/stores/collectible/delivery/ws"
	collectible_repository "github.com/craftbid/goapi/stores/collectible/repository"
	collectible_usecase "github.com/craftbid/goapi/stores/collectible/usecase"
	collectible_worker "github.com/craftbid/goapi/stores/collectible/worker"
	collector_delivery "github.com/craftbid/goapi/stores/collector/delivery/http"
	collector_repository "github.com/craftbid/goapi/stores/collector/repository"
	collector_usecase "github.com/craftbid/goapi/stores/collector/usecase"
	hc_delivery "github.com/craftbid/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/craftbid/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/craftbid/goapi/stores/healthcheck/usecase"
)

func init() {
	configFile := pflag.String("config", "infra/configs/config.yaml", "path to config file")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), redisCachePool)

	courierClient := courier.NewClient(&courier.ClientCfg{
		HttpClient: http.Client{},
		Endpoint:   viper.GetString("courier.endpoint"),
		Timeout:    viper.GetDuration("courier.timeout"),
		Apikey:     viper.GetString("courier.apikey"),
	}, metrics.New("courier"))

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	collectibleRepo := collectible_repository.New(q)
	collectorRepo := collector_repository.New(q, redisCache)

	broadcaster := collectible_broadcaster.New(redisCache)

	// every mutation of one auction funnels through the same keyed lock,
	// shared by handlers and the background workers
	auctionLocks := keyed.NewMutex()

	hc := hc_usecase.New(hcRepo)
	collectibleUC := collectible_usecase.New(&collectible_usecase.CollectibleUseCaseCfg{
		CollectibleRepo: collectibleRepo,
		CollectorRepo:   collectorRepo,
		Query:           q,
		Locks:           auctionLocks,
		Broadcaster:     broadcaster,
		Courier:         courierClient,
		Metrics:         metrics.New("collectible"),
	})
	collectorUC := collector_usecase.New(&collector_usecase.CollectorUseCaseCfg{
		CollectorRepo: collectorRepo,
	})

	hc_delivery.New(e, hc)
	collectible_delivery.New(e, collectibleUC)
	collector_delivery.New(e, collectorUC)

	// realtime hub + background workers
	workerCtx, cancelWorkers := ctx.WithCancel(context)

	hub := collectible_ws.NewHub(redisCache)
	go hub.Run(workerCtx)
	collectible_ws.New(e, hub)

	sweeper := collectible_worker.NewSweeper(&collectible_worker.SweeperCfg{
		Collectible: collectibleUC,
		Interval:    viper.GetDuration("worker.sweepInterval"),
	})
	sweeper.Start(workerCtx)

	countdown := collectible_worker.NewCountdown(&collectible_worker.CountdownCfg{
		Collectible: collectibleUC,
		Broadcaster: broadcaster,
		Redis:       redisCache,
		Interval:    viper.GetDuration("worker.countdownInterval"),
	})
	countdown.Start(workerCtx)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")

	cancelWorkers()
	sweeper.Wait()
	countdown.Wait()

	shutdownCtx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}

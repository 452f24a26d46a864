package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	config "readafrik-checkout/configs"
	database "readafrik-checkout/internal/pkg/db"
	"readafrik-checkout/internal/pkg/logger"
	"readafrik-checkout/internal/pkg/mailer"
	"readafrik-checkout/internal/pkg/paystack"
	"readafrik-checkout/internal/pkg/rabbitmq"
	"readafrik-checkout/internal/pkg/redis"
	s3aws "readafrik-checkout/internal/pkg/storage/s3"
	"readafrik-checkout/internal/pkg/validation"
	serverApp "readafrik-checkout/internal/server"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	logger.Setup()

	env, err := config.GetEnv()
	if err != nil {
		logger.Error.Println("Error getting environment", err)
		panic(err)
	}

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	// Setup Redis
	redisClient, err := setupRedis(ctx, env)
	if err != nil {
		logger.Error.Println("Error setting up Redis", err)
		cancel()
		return
	}

	// Setup RabbitMQ
	rabbit, err := setupRabbitMQ(ctx, env)
	if err != nil {
		logger.Error.Println("Error setting up RabbitMQ", err)
		cancel()
		return
	}

	// Setup Database
	db, err := setupDB(env, redisClient)
	if err != nil {
		logger.Error.Println("Error setting up Database", err)
		cancel()
		return
	}

	dto := &config.SetupServerDto{
		Rds:      redisClient,
		Env:      env,
		Ctx:      &ctx,
		Cancel:   cancel,
		Db:       db,
		Wg:       &wg,
		Rb:       rabbit,
		Paystack: setupPaystack(env),
	}

	// Setup S3 receipt archive (optional)
	if env.AWSBucketName != "" {
		s3, err := setupS3(ctx, env, redisClient)
		if err != nil {
			logger.Warning.Println("Receipt archive disabled:", err)
		} else {
			dto.S3 = s3
		}
	}

	setupServer(dto)
}

func setupRedis(ctx context.Context, env *config.Config) (*redis.Client, error) {
	if env.RedisHost == "" {
		return nil, nil
	}
	return redis.Setup(ctx, &redis.Config{
		Host:     env.RedisHost,
		Username: env.RedisUser,
		Port:     env.RedisPort,
		Password: env.RedisPass,
		DB:       env.RedisDB,
		PoolSize: env.RedisPoolSize,
	})
}

func setupRabbitMQ(ctx context.Context, env *config.Config) (*rabbitmq.ConnectionManager, error) {
	if env.RabbitHost == "" {
		return nil, nil
	}
	return rabbitmq.NewConnectionManager(ctx, &rabbitmq.Config{
		Username: env.RabbitUser,
		Password: env.RabbitPass,
		Host:     env.RabbitHost,
		Port:     env.RabbitPort,
		VHost:    env.RabbitVHost,
	})
}

func setupDB(env *config.Config, rds *redis.Client) (*database.Database, error) {
	if env.DBHost == "" {
		return nil, nil
	}
	return database.Setup(&database.Config{
		Host:      env.DBHost,
		Port:      env.DBPort,
		User:      env.DBUser,
		Password:  env.DBPass,
		Database:  env.DBName,
		SSLMode:   env.DBSSLMode,
		Driver:    database.DriverEnum(env.DBDriver),
		Cache:     env.DBCache,
		Rds:       rds,
		CacheTime: time.Duration(env.DBCacheTTLSeconds) * time.Second,
	})
}

func setupPaystack(env *config.Config) *paystack.Client {
	if env.PaystackSecretKey == "" {
		logger.Warning.Println("PAYSTACK_SECRET_KEY is not set, payment requests will fail")
	}
	return paystack.Setup(&paystack.Config{
		SecretKey: env.PaystackSecretKey,
		PublicKey: env.PaystackPublicKey,
		BaseURL:   env.PaystackBaseURL,
		Timeout:   time.Duration(env.PaystackTimeoutSeconds) * time.Second,
	})
}

func setupS3(ctx context.Context, env *config.Config, rds *redis.Client) (s3aws.Is3, error) {
	cfg := s3aws.S3Config{
		AWSRegion:          env.AWSRegion,
		AWSAccessKeyID:     env.AWSAccessKeyID,
		AWSSecretAccessKey: env.AWSSecretAccessKey,
		Endpoint:           env.AWSEndpoint,
	}
	if rds == nil {
		return s3aws.NewS3Client(ctx, cfg, env.AWSBucketName, nil)
	}
	return s3aws.NewS3Client(ctx, cfg, env.AWSBucketName, rds)
}

func mailerConfig(env *config.Config) *mailer.Config {
	return &mailer.Config{
		Service:      env.EmailService,
		From:         env.EmailFrom,
		ResendAPIKey: env.ResendAPIKey,
		SMTPHost:     env.SMTPHost,
		SMTPPort:     env.SMTPPort,
		SMTPUser:     env.SMTPUser,
		SMTPPass:     env.SMTPPass,
		SMTPSecure:   env.SMTPSecure,
		Timeout:      30 * time.Second,
	}
}

func setupServer(payload *config.SetupServerDto) {
	rds := payload.Rds
	env := payload.Env
	ctx := payload.Ctx
	cancel := payload.Cancel
	wg := payload.Wg
	rb := payload.Rb
	db := payload.Db

	defer func() {
		cancel()
		wg.Wait()
		if rb != nil {
			_ = rb.Close()
		}
		if rds != nil {
			_ = rds.Close()
		}
		if db != nil {
			_ = db.Close()
		}
	}()

	err := validation.Setup()
	if err != nil {
		logger.Error.Println("Failed to setup validation")
		panic(err)
	}

	if env.AppEnv.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}
	e := gin.New()
	e.Use(gin.Logger(), gin.Recovery())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", env.AppPort),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	notifier, backend, err := serverApp.NewNotifier(*ctx, mailerConfig(env), env.EmailQueueEnabled, rb)
	if err != nil {
		logger.Error.Println("Failed to setup email backend")
		panic(err)
	}

	if err := serverApp.Setup(e, payload, notifier); err != nil {
		logger.Error.Println("Failed to setup server")
		panic(err)
	}
	if env.EmailQueueEnabled {
		if err := serverApp.InitWorker(*ctx, wg, rb, backend); err != nil {
			logger.Error.Println("Failed to start workers", err)
		}
	}

	go func() {
		logger.HTTP.Println("========= Server Started =========")
		logger.HTTP.Println("=========", env.AppPort, "=========")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error.Println("Server error:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
	logger.HTTP.Println("========= Server Shutting Down =========")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}

package serverApp

import (
	"context"
	"fmt"
	"net/http"
	config "readafrik-checkout/configs"
	"readafrik-checkout/frontend"
	"readafrik-checkout/internal/pkg/jwt"
	"readafrik-checkout/internal/pkg/logger"
	"readafrik-checkout/internal/pkg/mailer"
	"readafrik-checkout/internal/pkg/middleware"
	"readafrik-checkout/internal/repository"
	engagementRepo "readafrik-checkout/internal/repository/engagement"
	notificationRepo "readafrik-checkout/internal/repository/notification"
	orderRepo "readafrik-checkout/internal/repository/order"
	"time"

	engagementHandler "readafrik-checkout/internal/handler/engagement"
	paymentHandler "readafrik-checkout/internal/handler/payment"
	callbackService "readafrik-checkout/internal/service/callback"
	engagementService "readafrik-checkout/internal/service/engagement"
	"readafrik-checkout/internal/service/notification"
	paymentService "readafrik-checkout/internal/service/payment"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Setup initializes the HTTP server with middleware and routes
func Setup(engine *gin.Engine, payload *config.SetupServerDto, notifier mailer.Notifier) error {
	InitMiddleware(engine, payload.Env.CorsOrigins())

	tmpl, err := frontend.Templates()
	if err != nil {
		return fmt.Errorf("failed to load page templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/health", healthHandler(payload))

	e := engine.Group(BasePath(), middleware.RateLimit(float64(payload.Env.RateLimitRPS), payload.Env.RateLimitBurst))
	return InitRoutes(e, engine, payload, notifier)
}

// BasePath returns the base API path
func BasePath() string {
	return "/api"
}

// InitMiddleware initializes global middleware
func InitMiddleware(e *gin.Engine, corsOrigins []string) {
	e.Use(middleware.CorsMiddleware(corsOrigins...))
	e.Use(middleware.RequestInit())
	e.Use(middleware.ResponseInit())
}

func InitRoutes(e *gin.RouterGroup, engine *gin.Engine, payload *config.SetupServerDto, notifier mailer.Notifier) error {
	ctx := *payload.Ctx
	env := payload.Env

	rp := NewRepository(payload)

	composer, err := notification.NewComposer(env.AppBaseURL)
	if err != nil {
		return err
	}

	// === Payment ===
	PaymentService := paymentService.NewService(rp, payload.Paystack, notifier, composer, payload.S3, &paymentService.Config{
		AppBaseURL: env.AppBaseURL,
		Currency:   env.PaymentCurrency,
		AdminEmail: env.AdminEmail,

		SideEffectTimeout: time.Duration(env.SideEffectTimeoutSec) * time.Second,
	})
	CallbackService := callbackService.NewService(PaymentService)
	tokens := jwt.New(env.JWTSecret, time.Duration(env.JWTExpiryHours)*time.Hour)

	PaymentHandler := paymentHandler.NewHandler(ctx, PaymentService, CallbackService, tokens)
	PaymentHandler.NewRoutes(e)
	PaymentHandler.NewPageRoutes(engine)

	// === Subscriptions & events ===
	EngagementService := engagementService.NewService(rp, notifier, composer, env.AdminEmail)
	EngagementHandler := engagementHandler.NewHandler(ctx, EngagementService)
	EngagementHandler.NewRoutes(e)

	return nil
}

// NewRepository picks the gorm stores when a database is connected and the
// in-process ones otherwise.
func NewRepository(payload *config.SetupServerDto) repository.IRepository {
	var rp repository.IRepository
	if payload.Db != nil {
		rp.Order = orderRepo.NewRepo(payload.Db)
		rp.Engagement = engagementRepo.NewRepo(payload.Db)
	} else {
		logger.Warning.Println("No database configured, orders and subscribers are kept in memory")
		rp.Order = orderRepo.NewMemoryRepo()
		rp.Engagement = engagementRepo.NewMemoryRepo()
	}

	rp.Notification = newGuard(payload, rp.Order)
	return rp
}

// newGuard puts the order's notified_at stamp behind a redis or in-process
// claim when deduplication is on.
func newGuard(payload *config.SetupServerDto, orders orderRepo.IRepository) notificationRepo.IGuard {
	env := payload.Env
	if !env.NotifyDedupe {
		return notificationRepo.Unguarded{}
	}

	ttl := time.Duration(env.NotifyDedupeTTLHours) * time.Hour
	if payload.Rds != nil {
		return notificationRepo.NewLedgerGuard(notificationRepo.NewRedisGuard(payload.Rds, ttl), orders)
	}

	logger.Warning.Println("No redis configured, concurrent duplicate notifications are only suppressed within this process")
	return notificationRepo.NewLedgerGuard(notificationRepo.NewMemoryGuard(ttl), orders)
}

const (
	healthy   = "healthy"
	unhealthy = "unhealthy"
	disabled  = "disabled"
)

func healthHandler(payload *config.SetupServerDto) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		databaseHealth, redisHealth, rabbitmqHealth := disabled, disabled, disabled

		// checks report through their own variable and never fail the group
		g, gctx := errgroup.WithContext(ctx)
		if payload.Db != nil {
			g.Go(func() error {
				databaseHealth = unhealthy
				if payload.Db.Ping(gctx) == nil {
					databaseHealth = healthy
				}
				return nil
			})
		}
		if payload.Rds != nil {
			g.Go(func() error {
				redisHealth = unhealthy
				if payload.Rds.Ping(gctx) == nil {
					redisHealth = healthy
				}
				return nil
			})
		}
		if payload.Rb != nil {
			g.Go(func() error {
				rabbitmqHealth = unhealthy
				if !payload.Rb.IsClosed() {
					rabbitmqHealth = healthy
				}
				return nil
			})
		}
		_ = g.Wait()

		paystackHealth := "unconfigured"
		if payload.Paystack != nil && payload.Paystack.Configured() {
			paystackHealth = "configured"
		}

		c.JSON(http.StatusOK, gin.H{
			"status": http.StatusOK,
			"service": gin.H{
				"rabbitmq": gin.H{"status": rabbitmqHealth},
				"redis":    gin.H{"status": redisHealth},
				"database": gin.H{"status": databaseHealth},
				"paystack": gin.H{"status": paystackHealth},
			},
		})
	}
}

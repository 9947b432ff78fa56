package main

import (
	"context"
	"log"
	"time"

	"github.com/ShatadruDhar/tekshila/docsgen"
	"github.com/ShatadruDhar/tekshila/github"
	"github.com/ShatadruDhar/tekshila/github/githubinfra"
	"github.com/ShatadruDhar/tekshila/iam/auth"
	"github.com/ShatadruDhar/tekshila/pkg/config"
	"github.com/ShatadruDhar/tekshila/publish"
	"github.com/ShatadruDhar/tekshila/publish/publishapi"
	"github.com/ShatadruDhar/tekshila/publish/publishinfra"
	"github.com/ShatadruDhar/tekshila/publish/publishsrv"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"
)

// Container contains all application dependencies
type Container struct {
	// =================================================================
	// CONFIGURATION & INFRASTRUCTURE
	// =================================================================
	Config      *config.Config
	DB          *sqlx.DB
	RedisClient *redis.Client

	// =================================================================
	// AUTH
	// =================================================================
	TokenService   auth.TokenService
	OAuthService   auth.OAuthService
	AuthHandlers   *auth.AuthHandlers
	AuthMiddleware *auth.AuthMiddleware

	// =================================================================
	// GITHUB
	// =================================================================
	GitHubClient github.Client

	// =================================================================
	// PUBLISH
	// =================================================================
	AuditRepo      publish.AuditRepository
	Pipeline       *publishsrv.Pipeline
	PublishHandler *publishapi.Handler

	// =================================================================
	// DOCSGEN
	// =================================================================
	DocsGenerator  docsgen.Generator
	DocsGenHandler *docsgen.Handler

	// =================================================================
	// MAINTENANCE
	// =================================================================
	Scheduler *cron.Cron
}

// NewContainer creates a new dependency container
func NewContainer(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client) (*Container, error) {
	c := &Container{
		Config:      cfg,
		DB:          db,
		RedisClient: redisClient,
	}

	// Initialize dependencies in the correct order
	log.Println("📦 Initializing dependency container...")

	c.initGitHubClient()
	c.initAuthServices()
	if err := c.initPublishComponents(); err != nil {
		return nil, err
	}
	c.initDocsGenComponents()
	c.initScheduler()

	log.Println("✅ Dependency container initialized successfully")

	return c, nil
}

// =================================================================
// GITHUB INITIALIZATION
// =================================================================

func (c *Container) initGitHubClient() {
	log.Println("  🐙 Initializing GitHub client...")

	client := githubinfra.NewRESTClient()
	c.GitHubClient = client

	if c.RedisClient != nil {
		c.GitHubClient = githubinfra.NewCachedClient(client, c.RedisClient, c.Config.Redis.CacheTTL)
		log.Println("    ✅ Listing cache enabled")
	} else {
		log.Println("    ⚠️  Redis not configured, listing cache disabled")
	}
}

// =================================================================
// AUTH INITIALIZATION
// =================================================================

func (c *Container) initAuthServices() {
	log.Println("  🔐 Initializing auth services...")

	c.TokenService = auth.NewJWTService(
		c.Config.Auth.JWT.SecretKey,
		c.Config.Auth.JWT.SessionTTL,
		c.Config.Auth.JWT.Issuer,
	)

	c.OAuthService = auth.NewGitHubOAuthService(c.Config.Auth.OAuth)

	c.AuthHandlers = auth.NewAuthHandlers(
		c.OAuthService,
		c.TokenService,
		c.GitHubClient,
		c.Config.Auth,
	)

	c.AuthMiddleware = auth.NewAuthMiddleware(c.TokenService)
}

// =================================================================
// PUBLISH INITIALIZATION
// =================================================================

func (c *Container) initPublishComponents() error {
	log.Println("  🚀 Initializing publish components...")

	if c.DB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := publishinfra.EnsureSchema(ctx, c.DB); err != nil {
			return err
		}
		c.AuditRepo = publishinfra.NewPostgresAuditRepository(c.DB)
		log.Println("    ✅ Publish audit trail enabled")
	} else {
		c.AuditRepo = publishinfra.NewNoopAuditRepository()
		log.Println("    ⚠️  Database not configured, publish audit trail disabled")
	}

	c.Pipeline = publishsrv.NewPipeline(c.GitHubClient, c.AuditRepo)
	c.PublishHandler = publishapi.NewHandler(c.GitHubClient, c.Pipeline)

	return nil
}

// =================================================================
// DOCSGEN INITIALIZATION
// =================================================================

func (c *Container) initDocsGenComponents() {
	log.Println("  📝 Initializing documentation generator...")

	c.DocsGenerator = docsgen.NewMockGenerator()
	c.DocsGenHandler = docsgen.NewHandler(c.DocsGenerator)
}

// =================================================================
// MAINTENANCE SCHEDULER
// =================================================================

func (c *Container) initScheduler() {
	if c.DB == nil {
		return
	}

	log.Println("  ⏰ Initializing audit retention scheduler...")

	c.Scheduler = cron.New()
	_, err := c.Scheduler.AddFunc(c.Config.Audit.PurgeSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := time.Now().Add(-c.Config.Audit.Retention)
		purged, err := c.AuditRepo.PurgeOlderThan(ctx, cutoff)
		if err != nil {
			log.Printf("  ⚠️  Audit purge failed: %v", err)
			return
		}
		if purged > 0 {
			log.Printf("  🧹 Purged %d audit records older than %s", purged, cutoff.Format(time.RFC3339))
		}
	})
	if err != nil {
		log.Printf("  ⚠️  Invalid purge schedule %q: %v", c.Config.Audit.PurgeSchedule, err)
		c.Scheduler = nil
		return
	}

	c.Scheduler.Start()
}

// =================================================================
// UTILITY METHODS
// =================================================================

func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.Scheduler != nil {
		log.Println("  ⏰ Stopping audit retention scheduler...")
		c.Scheduler.Stop()
	}

	if c.DB != nil {
		log.Println("  🗄️  Closing database connections...")
		c.DB.Close()
	}

	if c.RedisClient != nil {
		log.Println("  🔴 Closing Redis connections...")
		c.RedisClient.Close()
	}

	log.Println("✅ Container cleanup complete")
}

func (c *Container) HealthCheck() map[string]bool {
	health := make(map[string]bool)

	if c.DB != nil {
		err := c.DB.Ping()
		health["database"] = err == nil
	}

	if c.RedisClient != nil {
		err := c.RedisClient.Ping(c.RedisClient.Context()).Err()
		health["redis"] = err == nil
	}

	health["github_client"] = c.GitHubClient != nil
	health["pipeline"] = c.Pipeline != nil
	health["oauth_configured"] = c.Config.Auth.OAuth.IsEnabled()

	return health
}

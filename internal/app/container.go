// Package app wires configuration, storage, messaging and handlers together.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/coursecast/coursecast/internal/liveclass/application/commands"
	"github.com/coursecast/coursecast/internal/liveclass/application/queries"
	"github.com/coursecast/coursecast/internal/liveclass/application/services"
	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/coursecast/coursecast/internal/liveclass/infrastructure/catalog"
	"github.com/coursecast/coursecast/internal/liveclass/infrastructure/grants"
	"github.com/coursecast/coursecast/internal/liveclass/infrastructure/notify"
	"github.com/coursecast/coursecast/internal/liveclass/infrastructure/persistence"
	sharedApplication "github.com/coursecast/coursecast/internal/shared/application"
	"github.com/coursecast/coursecast/internal/shared/infrastructure/migrations"
	sharedPersistence "github.com/coursecast/coursecast/internal/shared/infrastructure/persistence"
	"github.com/coursecast/coursecast/internal/shared/infrastructure/runlock"
	"github.com/coursecast/coursecast/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database (exactly one backend is set)
	Pool     *pgxpool.Pool
	SQLiteDB *sql.DB

	// Redis
	RedisClient *redis.Client
	RunLock     runlock.RunLock

	// Repositories
	ClassRepo    domain.LiveClassRepository
	SessionRepo  domain.SessionRepository
	ReminderRepo domain.ReminderRepository
	Catalog      domain.CatalogReader
	Grants       domain.GrantReader

	// Messaging
	Sender       domain.NotificationSender
	senderCloser interface{ Close() error }

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Handlers
	CreateHandler    *commands.CreateClassHandler
	ExtendHandler    *commands.ExtendSchedulesHandler
	ScanHandler      *commands.ScanRemindersHandler
	UpcomingSessions *queries.UpcomingSessionsHandler
	AccessPreview    *queries.AccessPreviewHandler
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.connectDatabase(ctx); err != nil {
		return nil, err
	}

	if err := c.connectRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.connectSender(); err != nil {
		c.Close()
		return nil, err
	}

	c.wireHandlers()

	return c, nil
}

func (c *Container) connectDatabase(ctx context.Context) error {
	cfg := c.Config

	if cfg.UsesPostgres() {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		c.Pool = pool
		c.ClassRepo = persistence.NewPostgresLiveClassRepository(pool)
		c.SessionRepo = persistence.NewPostgresSessionRepository(pool)
		c.ReminderRepo = persistence.NewPostgresReminderRepository(pool)
		c.Catalog = catalog.NewPostgresReader(pool)
		c.Grants = grants.NewPostgresReader(pool)
		c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)
		c.Logger.Info("connected to database", "backend", "postgres")
		return nil
	}

	db, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// modernc.org/sqlite allows one writer; serializing through a single
	// connection avoids SQLITE_BUSY under concurrent triggers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.SQLiteDB = db
	c.ClassRepo = persistence.NewSQLiteLiveClassRepository(db)
	c.SessionRepo = persistence.NewSQLiteSessionRepository(db)
	c.ReminderRepo = persistence.NewSQLiteReminderRepository(db)
	c.Catalog = catalog.NewSQLiteReader(db)
	c.Grants = grants.NewSQLiteReader(db)
	c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)
	c.Logger.Info("connected to database", "backend", "sqlite", "path", cfg.SQLitePath)
	return nil
}

// connectRedis sets up the advisory run lock. Redis is optional: without it
// the noop lock is used and storage constraints alone guard concurrency.
func (c *Container) connectRedis(ctx context.Context) error {
	cfg := c.Config

	if cfg.RedisURL == "" {
		c.RunLock = runlock.NewNoopLock()
		return nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, run lock disabled", "error", err)
		c.RunLock = runlock.NewNoopLock()
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, run lock disabled", "error", err)
		c.RunLock = runlock.NewNoopLock()
		return nil
	}

	c.RedisClient = client
	c.RunLock = runlock.NewRedisLock(client, c.Logger)
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) connectSender() error {
	cfg := c.Config

	if cfg.RabbitMQURL == "" {
		c.Logger.Warn("no RabbitMQ URL configured, reminders are logged only")
		c.Sender = notify.NewNoopSender(c.Logger)
		return nil
	}

	sender, err := notify.NewAMQPSender(cfg.RabbitMQURL, c.Logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			return err
		}
		c.Logger.Warn("RabbitMQ not available, reminders are logged only", "error", err)
		c.Sender = notify.NewNoopSender(c.Logger)
		return nil
	}

	c.senderCloser = sender
	c.Sender = notify.NewBreakerSender(sender, notify.DefaultBreakerConfig(), c.Logger)
	return nil
}

func (c *Container) wireHandlers() {
	cfg := c.Config

	slotTimes := domain.DefaultSlotTimes()
	for slot, raw := range map[domain.SessionSlot]string{
		domain.SlotMorning:   cfg.MorningSlot,
		domain.SlotAfternoon: cfg.AfternoonSlot,
		domain.SlotEvening:   cfg.EveningSlot,
	} {
		hour, minute, err := config.ParseSlotTime(raw)
		if err != nil {
			c.Logger.Warn("invalid slot time, using default", "slot", slot, "value", raw)
			continue
		}
		slotTimes[slot] = domain.SlotTime{Hour: hour, Minute: minute}
	}

	policy := domain.AccessPolicy{FreeThreshold: cfg.FreeThreshold}
	planner := services.NewRotationPlanner(services.RotationPlannerConfig{
		Slots:            domain.AllSlots(),
		SlotTimes:        slotTimes,
		LowWaterMarkDays: cfg.LowWaterMarkDays,
		ExtensionDays:    cfg.ExtensionDays,
		MinCycleLength:   cfg.MinCycleLength,
		MaxCycleLength:   cfg.MaxCycleLength,
		DefaultCapacity:  cfg.DefaultCapacity,
		Location:         cfg.Location(),
	}, policy)

	c.CreateHandler = commands.NewCreateClassHandler(
		c.ClassRepo,
		c.SessionRepo,
		c.Catalog,
		planner,
		c.UnitOfWork,
		c.Logger,
	)

	c.ExtendHandler = commands.NewExtendSchedulesHandler(
		c.ClassRepo,
		c.SessionRepo,
		c.Catalog,
		planner,
		c.UnitOfWork,
		c.Logger,
	)

	c.ScanHandler = commands.NewScanRemindersHandler(
		c.SessionRepo,
		c.ReminderRepo,
		c.Grants,
		c.Sender,
		commands.ScanRemindersConfig{
			Kinds:            domain.AllReminderKinds(),
			Tolerance:        cfg.ScanTolerance,
			LookaheadHorizon: cfg.LookaheadHorizon,
		},
		c.Logger,
	)

	c.UpcomingSessions = queries.NewUpcomingSessionsHandler(c.SessionRepo)
	c.AccessPreview = queries.NewAccessPreviewHandler(c.ClassRepo, c.Catalog, policy)
}

// Close releases all held resources.
func (c *Container) Close() {
	if c.senderCloser != nil {
		if err := c.senderCloser.Close(); err != nil {
			c.Logger.Warn("error closing sender", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis client", "error", err)
		}
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("error closing sqlite database", "error", err)
		}
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}

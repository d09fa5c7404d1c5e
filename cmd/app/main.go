package main

import (
	"context"
	"time"

	dbadapter "reelprofile/internal/adapters/database"
	"reelprofile/internal/adapters/eventbroker"
	"reelprofile/internal/adapters/httpapi"
	"reelprofile/internal/adapters/memory"
	redisadapter "reelprofile/internal/adapters/redis"
	"reelprofile/internal/config"
	"reelprofile/internal/core/content"
	contentapp "reelprofile/internal/core/content/service"
	followerapp "reelprofile/internal/core/follower/service"
	"reelprofile/internal/core/profile"
	profileapp "reelprofile/internal/core/profile/service"
	profileviewapp "reelprofile/internal/core/profileview/service"
	contentPort "reelprofile/internal/ports/content"
	eventsPort "reelprofile/internal/ports/events"
	followerPort "reelprofile/internal/ports/follower"
	messagingPort "reelprofile/internal/ports/messaging"
	profilePort "reelprofile/internal/ports/profile"
	"reelprofile/internal/workers"

	"go.uber.org/zap"
)

type repositories struct {
	profiles      profilePort.ProfileRepository
	followers     followerPort.FollowerRepository
	content       contentPort.ContentRepository
	conversations messagingPort.ConversationRepository
}

func main() {
	config.InitLogger()
	defer config.Logger.Sync() // خالی کردن بافر لاگ‌ها قبل از خروج
	settings := config.Init() // بارگذاری تنظیمات از .env

	repos := buildRepositories(settings)

	// بستن منابع بعد از اتمام کار سرور
	defer closeResources(config.Logger)

	var publisher eventsPort.RelationshipPublisher = eventbroker.NoopPublisher{}
	if settings.NatsURL != "" {
		broker, err := eventbroker.NewNatsBroker(settings.NatsURL)
		if err != nil {
			config.Logger.Fatal("Error connecting to NATS", zap.Error(err))
		}
		defer broker.Close()
		publisher = broker
		config.Logger.Info("✅ Connected to NATS", zap.String("url", settings.NatsURL))
	}

	profileSvc := profileapp.NewProfileService(repos.profiles, config.Logger)   // یوزکیس/سرویس
	followerSvc := followerapp.NewFollowerService(repos.followers, config.Logger) // یوزکیس/سرویس
	contentSvc := contentapp.NewContentService(repos.content, config.Logger)     // یوزکیس/سرویس

	views := profileviewapp.NewFactory(profileviewapp.Dependencies{
		Identity:      profileSvc,
		Relationships: followerSvc,
		Content:       contentSvc,
		Conversations: repos.conversations,
	}, publisher, config.Logger, settings.PostsLimit)

	r := httpapi.SetupRoutes(views, []byte(settings.JWTSecret), settings.RequestTimeout, config.Logger) // تزریق یوزکیس به آداپتر ورودی

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// اجرای worker در پس‌زمینه؛ فقط استورهایی که دو ایندکس جدا دارند
	if reconciler, ok := repos.followers.(followerPort.MirrorReconciler); ok {
		mirrorWorker := workers.NewMirrorWorker(reconciler, settings.ReconcileBatchSize, settings.ReconcileInterval, config.Logger)
		go mirrorWorker.Run(ctx)
	}

	config.Logger.Info("App is running...", zap.String("port", settings.Port))

	// اجرای سرور Gin (در اینجا سرور به صورت بلوکینگ عمل می‌کند)
	if err := r.Run(":" + settings.Port); err != nil {
		config.Logger.Fatal("Server failed to start:", zap.Error(err))
	}
}

func buildRepositories(s config.Settings) repositories {
	if s.StoreBackend == config.BackendMemory {
		store := memory.NewStore()
		seedDemo(store)
		config.Logger.Info("✅ Using in-memory store")
		return repositories{profiles: store, followers: store, content: store, conversations: store}
	}

	// اتصال به دیتابیس و اجرای مایگریشن‌ها
	config.InitDB(s.DBDSN)
	if err := config.DB.AutoMigrate(dbadapter.Models()...); err != nil {
		config.Logger.Fatal("Error during migrations:", zap.Error(err))
	}
	config.Logger.Info("✅ Database migrations completed")

	repos := repositories{
		profiles:      dbadapter.NewProfileRepositoryDatabase(config.DB),      // آداپتر خروجی
		followers:     dbadapter.NewFollowerRepositoryDatabase(config.DB),     // آداپتر خروجی
		content:       dbadapter.NewContentRepositoryDatabase(config.DB),      // آداپتر خروجی
		conversations: dbadapter.NewConversationRepositoryDatabase(config.DB), // آداپتر خروجی
	}

	if s.RelationshipBackend == config.BackendRedis {
		// اتصال به Redis
		config.InitRedis(s)
		repos.followers = redisadapter.NewFollowerRepositoryRedis(config.RedisClient, config.Logger)
	}
	return repos
}

// seedDemo چند پروفایل نمونه برای اجرای محلی با استور درون حافظه‌ای
func seedDemo(store *memory.Store) {
	now := time.Now().UTC()
	alice := store.AddProfile(&profile.Profile{Handle: "alice", DisplayName: "Alice", CreatedAt: now})
	bob := store.AddProfile(&profile.Profile{Handle: "bob", DisplayName: "Bob", CreatedAt: now.Add(time.Second)})

	ctx := context.Background()
	_ = store.AddEdge(ctx, alice.ID, bob.ID)
	_ = store.AddEdge(ctx, bob.ID, alice.ID)

	for i := 0; i < 3; i++ {
		at := now.Add(-time.Duration(i) * time.Hour)
		store.AddItem(&content.Item{
			OwnerID:     bob.ID,
			Kind:        content.KindVideo,
			MediaURL:    "https://media.example.com/bob/" + at.Format("150405") + ".mp4",
			CreatedAt:   &at,
			FavoritedBy: []string{alice.ID},
		})
	}
	config.Logger.Info("✅ Demo profiles seeded", zap.String("alice", alice.ID), zap.String("bob", bob.ID))
}

// closeResources بستن اتصالات به Redis و دیتابیس
func closeResources(logger *zap.Logger) {
	// بستن اتصال به Redis
	if config.RedisClient != nil {
		if err := config.RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection:", zap.Error(err))
		}
	}

	if config.DB == nil {
		return
	}
	// بستن اتصال دیتابیس
	sqlDB, err := config.DB.DB() // گرفتن *sql.DB از *gorm.DB
	if err != nil {
		logger.Error("Error getting raw DB:", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection:", zap.Error(err))
	}
}

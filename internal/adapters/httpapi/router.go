package httpapi

import (
	"time"

	"reelprofile/internal/adapters/httpapi/middleware"
	profileviewapp "reelprofile/internal/core/profileview/service"
	"reelprofile/internal/core/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileViewUseCase: اینترفیسِ لازم برای کنترلر (Inbound Port)
type ProfileViewUseCase interface {
	New(sess *session.Session) (*profileviewapp.Assembler, *profileviewapp.FollowController)
}

// فقط روتینگ: UseCase از بیرون تزریق می‌شود
func SetupRoutes(views ProfileViewUseCase, jwtSecret []byte, timeout time.Duration, logger *zap.Logger) *gin.Engine {
	r := gin.Default()

	pc := NewProfileController(views, timeout, logger)

	profiles := r.Group("/profiles", middleware.SessionMiddleware(jwtSecret))
	profiles.GET("/:handle", pc.GetProfile)
	profiles.POST("/:handle/follow", pc.ToggleFollow)
	profiles.POST("/:handle/conversation", pc.StartConversation)
	profiles.GET("/:handle/media/:itemID", pc.OpenMedia)

	r.POST("/session/logout", middleware.SessionMiddleware(jwtSecret), pc.Logout)

	return r
}

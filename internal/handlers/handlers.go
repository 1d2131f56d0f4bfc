package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/config"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/dal"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/middleware"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/otp"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/repository"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/security"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/service"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/session"
)

// Database is the pool handle the handlers need: queries, transactions and a
// liveness ping.
type Database interface {
	dal.Beginner
	Ping(ctx context.Context) error
}

type Deps struct {
	Config  *config.AppConfig
	Log     zerolog.Logger
	DB      Database
	Cache   redis.UniversalClient
	Objects service.ObjectStore
	Tasks   service.TaskQueue
}

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	db       Database
	cache    redis.UniversalClient
	sessions *session.RedisStore
	tokens   *security.TokenIssuer
	limiter  *middleware.RateLimiter
	auth     *service.AuthService
	profiles *service.ProfileService
	friends  *service.FriendService
	chats    *service.ChatService
}

func NewHandlerSet(deps Deps) HandlerSet {
	cfg := deps.Config
	store := dal.NewStore(deps.DB)

	users := repository.NewUserRepository(deps.DB, cfg.Storage.CDNURL)
	otps := repository.NewOtpRepository(deps.DB)
	avatars := repository.NewAvatarRepository(deps.DB)
	requests := repository.NewRequestRepository(deps.DB, cfg.Storage.CDNURL)
	chats := repository.NewChatRepository(deps.DB)

	keys := security.NewSessionKeyer(cfg.Security.HMACAlgorithm, cfg.Security.HMACSalt)
	tokens := security.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	sessions := session.NewRedisStore(deps.Cache, cfg.Security.SessionPrefix)
	otpService := otp.NewService(users, otps, deps.Tasks, cfg.OTP, cfg.IsProduction(), deps.Log)

	return HandlerSet{
		log:      deps.Log,
		cfg:      cfg,
		db:       deps.DB,
		cache:    deps.Cache,
		sessions: sessions,
		tokens:   tokens,
		limiter:  middleware.NewRateLimiter(cfg.OTP.RatePerMinute, cfg.OTP.Burst, deps.Log),
		auth:     service.NewAuthService(store, users, otpService, keys, tokens, sessions, deps.Log),
		profiles: service.NewProfileService(store, users, avatars, deps.Objects, deps.Tasks, cfg.Storage, deps.Log),
		friends:  service.NewFriendService(users, requests, deps.Log),
		chats:    service.NewChatService(users, requests, chats, cfg.Chat, deps.Log),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.Use(middleware.Authenticate(h.cfg.Security.SessionHeader, h.sessions, h.tokens, h.log))

	router.POST("/signup", h.Signup)
	router.POST("/signup/otp", h.limiter.Handler(), h.SendSignupOtp)
	router.POST("/login", h.Login)

	protected := router.Group("")
	protected.Use(middleware.RequireAuth(h.log))
	{
		protected.POST("/logout", h.Logout)

		protected.GET("/user", h.GetProfile)
		protected.PATCH("/user", h.UpdateProfile)

		protected.POST("/request", h.SendRequest)
		protected.PATCH("/request", h.RespondRequest)
		protected.GET("/friends", h.ListFriends)

		protected.POST("/chat", h.SendChat)
		protected.GET("/chat", h.GetChat)
	}
}

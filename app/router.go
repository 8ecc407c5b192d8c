// Package app wires the HTTP surface together
package app

import (
	"context"
	"fmt"
	"time"

	"bitwise74/socials-api/app/account"
	"bitwise74/socials-api/app/auth"
	"bitwise74/socials-api/app/onboarding"
	"bitwise74/socials-api/app/profile"
	"bitwise74/socials-api/app/root"
	"bitwise74/socials-api/app/socials"
	"bitwise74/socials-api/aws"
	"bitwise74/socials-api/cloudflare"
	"bitwise74/socials-api/db"
	"bitwise74/socials-api/internal"
	"bitwise74/socials-api/internal/service"
	"bitwise74/socials-api/internal/store"
	"bitwise74/socials-api/internal/store/gormstore"
	"bitwise74/socials-api/internal/store/mongostore"
	"bitwise74/socials-api/minio"
	"bitwise74/socials-api/pkg/middleware"
	"bitwise74/socials-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

type Options struct {
	CORSOrigins []string
	// RateLimit is the per IP requests per second on /api/auth, 0 disables it
	RateLimit int
	// Turnstile guards sign-up and forgot-password when set
	Turnstile *middleware.TurnstileConfig
	// PublicCacheTTL is how long public profiles stay cached, 0 disables it
	PublicCacheTTL time.Duration
}

// NewRouter builds every dependency from the loaded config. The returned
// func releases them once the server stopped.
func NewRouter(ctx context.Context) (*gin.Engine, func(), error) {
	if err := makeLogger(viper.GetString("app.log_level")); err != nil {
		return nil, nil, fmt.Errorf("failed to build logger, %w", err)
	}

	st, closeStore, err := newStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	media, err := newMedia(ctx)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("failed to initialize media storage, %w", err)
	}

	mail := service.NewMailQueue(service.NewMailer(service.MailerConfig{
		Host:     viper.GetString("mail.host"),
		Port:     viper.GetInt("mail.port"),
		Username: viper.GetString("mail.username"),
		Password: viper.GetString("mail.password"),
		From:     viper.GetString("mail.from"),
	}), viper.GetInt("mail.queue_size"), viper.GetInt("mail.workers"))
	mail.Start()

	notifier := service.NewNotifier(mail, viper.GetString("app.name"), viper.GetString("client.url"))
	sessions := security.NewSessionIssuer(viper.GetString("jwt.secret"))

	d := internal.NewDeps(st, media, security.NewArgon(), sessions, notifier)
	d.Mail = mail
	d.SecureCookies = viper.GetBool("host.ssl.enabled")
	d.MaxImageSize = viper.GetInt64("upload.max_size")

	opts := Options{
		CORSOrigins:    viper.GetStringSlice("host.cors_origins"),
		RateLimit:      viper.GetInt("security.rate_limit"),
		PublicCacheTTL: 30 * time.Second,
	}

	if viper.GetBool("cloudflare.turnstile.enabled") {
		opts.Turnstile = &middleware.TurnstileConfig{
			Secret: viper.GetString("cloudflare.turnstile.secret_token"),
		}
	}

	router := gin.New()
	Routes(ctx, router, d, opts)

	service.TokenCleanup(ctx, viper.GetDuration("tokens.cleanup_interval"), st.Users)

	cleanup := func() {
		mail.Stop()
		closeStore()
	}

	return router, cleanup, nil
}

func newStore(ctx context.Context) (*store.Store, func(), error) {
	if viper.GetString("db.type") == "mongo" {
		mdb, err := db.NewMongo(ctx, viper.GetString("db.mongo_uri"), viper.GetString("db.mongo_database"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to MongoDB, %w", err)
		}

		st, err := mongostore.New(ctx, mdb)
		if err != nil {
			mdb.Client().Disconnect(context.Background())
			return nil, nil, fmt.Errorf("failed to prepare MongoDB collections, %w", err)
		}

		return st, func() { mdb.Client().Disconnect(context.Background()) }, nil
	}

	gdb, err := db.New(db.Options{
		Type: viper.GetString("db.type"),
		Path: viper.GetString("db.path"),
		DSN:  viper.GetString("db.dsn"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, nil, err
	}

	return gormstore.New(gdb), func() { sqlDB.Close() }, nil
}

func newMedia(ctx context.Context) (service.MediaStore, error) {
	switch viper.GetString("storage.type") {
	case "r2":
		s, err := cloudflare.NewR2(ctx, cloudflare.R2Options{
			AccountID: viper.GetString("cloudflare.account_id"),
			AccessKey: viper.GetString("cloudflare.access_key_id"),
			SecretKey: viper.GetString("cloudflare.secret_access_key"),
			Bucket:    viper.GetString("cloudflare.bucket"),
			PublicURL: viper.GetString("cloudflare.public_url"),
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "minio":
		s, err := minio.New(ctx, minio.Options{
			Endpoint:  viper.GetString("minio.endpoint"),
			AccessKey: viper.GetString("minio.access_key"),
			SecretKey: viper.GetString("minio.secret_key"),
			Bucket:    viper.GetString("minio.bucket"),
			UseSSL:    viper.GetBool("minio.use_ssl"),
			PublicURL: viper.GetString("minio.public_url"),
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := aws.NewS3(ctx, aws.S3Options{
			AccessKey: viper.GetString("aws.access_key"),
			SecretKey: viper.GetString("aws.secret_access_key"),
			Region:    viper.GetString("aws.region"),
			Bucket:    viper.GetString("aws.bucket"),
			Endpoint:  viper.GetString("aws.endpoint"),
			PublicURL: viper.GetString("aws.public_url"),
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Routes attaches the middleware stack and every endpoint to router.
// Background work started here stops with ctx.
func Routes(ctx context.Context, router *gin.Engine, d *internal.Deps, opts Options) {
	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 8 << 20

	session := middleware.NewSessionMiddleware(d.Sessions)
	emailChange := middleware.NewEmailChangeMiddleware(d.Sessions)
	jsonBody := middleware.BodySizeLimiter(1 << 20)
	imageBody := middleware.BodySizeLimiter(d.MaxImageSize + 1<<20)
	rateLimiter := middleware.RateLimiterMiddleware(ctx, middleware.RateLimiterConfig{
		RequestsPerSecond: opts.RateLimit,
		Burst:             opts.RateLimit * 2,
		CleanupInterval:   time.Minute,
	})

	var bot gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.Turnstile != nil {
		bot = middleware.NewTurnstileMiddleware(*opts.Turnstile)
	}

	var publicCache gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.PublicCacheTTL > 0 {
		publicCache = cache.CacheByRequestURI(persist.NewMemoryStore(time.Minute), opts.PublicCacheTTL)
	}

	m := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)
	}

	a := m.Group("/auth", rateLimiter, jsonBody)
	{
		// POST /api/auth/sign-up	-> Registers a new user and mails a verification code
		a.POST("/sign-up", bot, func(c *gin.Context) { auth.SignUp(c, d) })

		// POST /api/auth/verify-email	-> Confirms the code from the verification email
		a.POST("/verify-email", func(c *gin.Context) { auth.VerifyEmail(c, d) })

		// POST /api/auth/login		-> Logs in with an email or username
		a.POST("/login", func(c *gin.Context) { auth.Login(c, d) })

		// POST /api/auth/logout	-> Clears the session cookies
		a.POST("/logout", func(c *gin.Context) { auth.Logout(c, d) })

		// POST /api/auth/forgot-password	-> Mails a password reset link
		a.POST("/forgot-password", bot, func(c *gin.Context) { auth.ForgotPassword(c, d) })

		// POST /api/auth/reset-password/:token	-> Sets a new password
		a.POST("/reset-password/:token", func(c *gin.Context) { auth.ResetPassword(c, d) })

		// GET /api/auth/check-auth	-> Returns the session user
		a.GET("/check-auth", session, func(c *gin.Context) { auth.CheckAuth(c, d) })
	}

	h := m.Group("/home", session)
	{
		h.GET("/profile", func(c *gin.Context) { profile.Get(c, d) })
		h.POST("/edit-profile", jsonBody, func(c *gin.Context) { profile.Edit(c, d) })
		h.POST("/level", jsonBody, func(c *gin.Context) { profile.SetLevel(c, d) })
		h.POST("/profile-picture", imageBody, func(c *gin.Context) { profile.UploadPicture(c, d) })
		h.DELETE("/profile-picture", func(c *gin.Context) { profile.DeletePicture(c, d) })
	}

	acc := h.Group("/account", jsonBody)
	{
		acc.POST("/change-password", func(c *gin.Context) { account.ChangePassword(c, d) })
		acc.POST("/change-username", func(c *gin.Context) { account.ChangeUsername(c, d) })

		// GET /api/home/account/verify-email-token	-> Mails a fresh verification code
		acc.GET("/verify-email-token", func(c *gin.Context) { account.VerificationCode(c, d) })

		// GET /api/home/account/verify-change-email-token	-> Mails the email change code
		acc.GET("/verify-change-email-token", func(c *gin.Context) { account.EmailChangeCode(c, d) })

		// POST /api/home/account/verify-change-email-otp	-> Trades the code for the email change cookie
		acc.POST("/verify-change-email-otp", func(c *gin.Context) { account.VerifyEmailChangeCode(c, d) })

		// PATCH /api/home/account/change-email	-> Needs the email change cookie
		acc.PATCH("/change-email", emailChange, func(c *gin.Context) { account.ChangeEmail(c, d) })
	}

	o := m.Group("/onboarding", session)
	{
		o.GET("/status", func(c *gin.Context) { onboarding.Status(c, d) })
		o.POST("/username", jsonBody, func(c *gin.Context) { onboarding.Username(c, d) })
		o.POST("/phone", jsonBody, func(c *gin.Context) { onboarding.Phone(c, d) })
		o.POST("/country", jsonBody, func(c *gin.Context) { onboarding.Country(c, d) })
		o.POST("/profile-picture", imageBody, func(c *gin.Context) { onboarding.ProfilePicture(c, d) })

		// POST /api/onboarding/skip/:step	-> one, two, three or all
		o.POST("/skip/:step", func(c *gin.Context) { onboarding.Skip(c, d) })
	}

	s := m.Group("/socials", session)
	{
		// GET /api/socials/profile/:id	-> Public profile of any user, cached briefly
		s.GET("/profile/:id", publicCache, func(c *gin.Context) { profile.GetPublic(c, d) })
	}

	p := s.Group("/post")
	{
		p.POST("/create-post", imageBody, func(c *gin.Context) { socials.CreatePost(c, d) })
		p.GET("/get-posts", func(c *gin.Context) { socials.ListPosts(c, d) })
		p.GET("/get-personal-posts", func(c *gin.Context) { socials.PersonalPosts(c, d) })
		p.GET("/user/:id", func(c *gin.Context) { socials.PersonalPosts(c, d) })
		p.POST("/like-post", jsonBody, func(c *gin.Context) { socials.LikePost(c, d) })
		p.POST("/comment-post", jsonBody, func(c *gin.Context) { socials.CommentPost(c, d) })
		p.DELETE("/delete-post/:id", func(c *gin.Context) { socials.DeletePost(c, d) })
	}

	f := s.Group("/follow", jsonBody)
	{
		f.POST("/follow-user", func(c *gin.Context) { socials.Follow(c, d) })
		f.POST("/unfollow-user", func(c *gin.Context) { socials.Unfollow(c, d) })

		// GET /api/socials/follow/get-followers?page=&limit=&userId=
		f.GET("/get-followers", func(c *gin.Context) { socials.Followers(c, d) })
		f.GET("/get-following", func(c *gin.Context) { socials.Following(c, d) })

		f.POST("/get-following-status", func(c *gin.Context) { socials.FollowingStatus(c, d) })
		f.GET("/get-follow-suggestion", func(c *gin.Context) { socials.Suggestions(c, d) })
	}
}

func makeLogger(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(log)
	return nil
}

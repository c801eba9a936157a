package main

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/responder"
	"github.com/Zachkp/portfolio/internal/timer"
)

const contactTimeout = 30 * time.Second

type server struct {
	cfg       *config.Config
	content   *content.Store
	responder *responder.Responder
	sender    contact.Sender
	analytics *analytics.Store
	limiter   *clientLimiter
	upgrader  websocket.Upgrader

	// newScheduler hands each websocket connection its own timers.
	newScheduler func() timer.Scheduler
	now          func() time.Time
}

func newServer(cfg *config.Config, store *content.Store, r *responder.Responder, sender contact.Sender, stats *analytics.Store) *server {
	s := &server{
		cfg:          cfg,
		content:      store,
		responder:    r,
		sender:       sender,
		analytics:    stats,
		limiter:      newClientLimiter(cfg.ChatRatePerMinute),
		newScheduler: func() timer.Scheduler { return timer.NewSimpleTimer() },
		now:          time.Now,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// senderFor picks SMTP delivery when credentials are present and the logging
// stub otherwise.
func senderFor(cfg *config.Config) contact.Sender {
	if cfg.SMTPConfigured() {
		return contact.NewSMTPSender(cfg.SMTP)
	}
	logger.Named("contact").Infow("SMTP not configured, contact submissions will only be logged")
	return contact.LogSender{Delay: cfg.ContactDelay}
}

func (s *server) router() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(), gin.Recovery())
	if s.analytics != nil {
		r.Use(s.visitorTracking())
	}

	r.SetHTMLTemplate(loadTemplates())
	r.StaticFS("/static", staticFiles())

	r.GET("/", s.index)
	r.GET("/skills", s.skills)
	r.GET("/projects", s.projects)
	r.GET("/contact-form", s.contactForm)
	r.POST("/contact", s.submitContact)
	r.GET("/privacy", s.privacy)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/chat", s.rateLimit(), s.chatReply)
	api.GET("/stats", s.stats)

	ws := r.Group("/ws")
	ws.GET("/chat", s.chatSocket)
	ws.GET("/typewriter", s.typewriterSocket)

	return r
}

// handler wraps the router with CORS handling.
func (s *server) handler() http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "HX-Request", "HX-Target", "HX-Trigger", "HX-Current-URL"},
		AllowCredentials: false,
		MaxAge:           300,
	})(s.router())
}

func (s *server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logger.Named("ws").Warnw("rejected websocket origin", "origin", origin)
	return false
}

// serve runs the HTTP server until ctx is cancelled, then drains it.
func (s *server) serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Infow("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Logger.Infow("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger() gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infow("request",
			logger.FieldMethod, c.Request.Method,
			logger.FieldPath, c.Request.URL.Path,
			logger.FieldStatus, c.Writer.Status(),
			logger.FieldDuration, time.Since(start).Milliseconds(),
			logger.FieldClient, c.ClientIP(),
		)
	}
}

// admin.go - privacy-conscious visitor tracking and aggregate stats
package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/logger"
)

const (
	recordTimeout   = 5 * time.Second
	cleanupInterval = 24 * time.Hour
)

// Paths that are never counted as page views.
var untrackedPrefixes = []string{"/static/", "/ws/", "/api/", "/favicon", "/privacy", "/ping"}

func tracked(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet {
		return false
	}
	path := c.Request.URL.Path
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	// Respect Do Not Track header
	return c.GetHeader("DNT") != "1"
}

// Privacy-conscious visitor tracking middleware. The view is recorded in the
// background so a slow database never holds up the page.
func (s *server) visitorTracking() gin.HandlerFunc {
	log := logger.Named("analytics")
	return func(c *gin.Context) {
		if !tracked(c) {
			c.Next()
			return
		}

		ip, ua, path, at := c.ClientIP(), c.GetHeader("User-Agent"), c.Request.URL.Path, s.now()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
			defer cancel()
			if err := s.analytics.Record(ctx, ip, ua, path, at); err != nil {
				log.Warnw("record visit", logger.FieldPath, path, logger.FieldError, err)
			}
		}()
		c.Next()
	}
}

// GET /api/stats returns aggregate counts only; hashes never leave the store.
func (s *server) stats(c *gin.Context) {
	if s.analytics == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analytics disabled"})
		return
	}
	stats, err := s.analytics.Stats(c.Request.Context(), s.now())
	if err != nil {
		logger.Named("analytics").Errorw("load stats", logger.FieldError, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// cleanupVisitors drops views older than the retention window now and then
// once a day until ctx is done.
func (s *server) cleanupVisitors(ctx context.Context) {
	log := logger.Named("analytics")
	run := func() {
		n, err := s.analytics.Cleanup(ctx, s.now())
		if err != nil {
			log.Errorw("cleanup old visits", logger.FieldError, err)
			return
		}
		if n > 0 {
			log.Infow("privacy cleanup removed old visits", logger.FieldCount, n)
		}
	}

	run()
	t := time.NewTicker(cleanupInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}

package main

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Zachkp/portfolio/internal/chat"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/typewriter"
)

const (
	writeWait    = 10 * time.Second
	maxChatInput = 2000
	// Entries waiting for a slow socket beyond this are dropped.
	outboxSize = 32
)

type chatRequest struct {
	Message string `json:"message"`
}

// POST /api/chat answers immediately; the typing delay is the client's job.
func (s *server) chatReply(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected JSON body with a message"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
		return
	}
	if len(req.Message) > maxChatInput {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "message too long"})
		return
	}

	reply := s.responder.Reply(req.Message)
	logger.Named("chat").Debugw("reply", logger.FieldCategory, reply.Category)
	c.JSON(http.StatusOK, reply)
}

type socketEvent struct {
	Type  string      `json:"type"`
	Entry *chat.Entry `json:"entry,omitempty"`
	Error string      `json:"error,omitempty"`
}

// GET /ws/chat runs one chat session per connection. The server owns the
// reply delay so every client sees the same pacing.
func (s *server) chatSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Named("ws").Warnw("chat upgrade failed", logger.FieldError, err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxChatInput * 2)

	client := c.ClientIP()
	outbox := make(chan socketEvent, outboxSize)
	sched := s.newScheduler()
	defer sched.Stop()

	var sess *chat.Session
	sess = chat.NewSession(s.responder, sched,
		chat.WithDelay(s.cfg.ChatReplyDelay),
		chat.WithGreeting(s.content.Get().Chat.Greeting),
		chat.WithClock(s.now),
		chat.WithObserver(func(e chat.Entry) {
			select {
			case outbox <- socketEvent{Type: "entry", Entry: &e}:
			default:
				logger.Named("ws").Warnw("chat outbox full, dropping entry", logger.FieldSessionID, sess.ID())
			}
		}),
	)
	log := logger.Named("ws").With(logger.FieldSessionID, sess.ID(), logger.FieldClient, client)
	log.Infow("chat session opened")

	for _, e := range sess.Transcript().Entries() {
		if err := writeEvent(conn, socketEvent{Type: "entry", Entry: &e}); err != nil {
			sess.Close()
			return
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range outbox {
			if err := writeEvent(conn, ev); err != nil {
				log.Debugw("chat write failed", logger.FieldError, err)
				conn.Close()
				for range outbox {
				}
				return
			}
		}
	}()

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debugw("chat read failed", logger.FieldError, err)
			}
			break
		}
		if !s.limiter.allow(client, s.now()) {
			select {
			case outbox <- socketEvent{Type: "error", Error: "slow down a little"}:
			default:
			}
			continue
		}
		sess.Submit(req.Message)
	}

	// No observer calls happen after Close returns.
	sess.Close()
	close(outbox)
	wg.Wait()
	log.Infow("chat session closed", logger.FieldCount, sess.Transcript().Len())
}

func writeEvent(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

type typewriterFrame struct {
	Text   string `json:"text"`
	Phase  string `json:"phase"`
	WaitMS int64  `json:"wait_ms"`
}

// GET /ws/typewriter streams the hero animation frame by frame.
func (s *server) typewriterSocket(c *gin.Context) {
	seq, err := typewriter.New(s.content.Get().Hero.Phrases)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no phrases configured"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Named("ws").Warnw("typewriter upgrade failed", logger.FieldError, err)
		return
	}
	defer conn.Close()

	frames := make(chan typewriter.Frame, outboxSize)
	sched := s.newScheduler()
	defer sched.Stop()

	ticker := typewriter.NewTicker(seq, sched, func(f typewriter.Frame) {
		if !f.Emitted {
			return
		}
		select {
		case frames <- f:
		default:
		}
	})
	if err := ticker.Start(); err != nil {
		logger.Named("ws").Errorw("start typewriter", logger.FieldError, err)
		return
	}
	defer ticker.Stop()

	// The client never sends anything; reading only detects the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case <-c.Request.Context().Done():
			return
		case f := <-frames:
			err := writeEvent(conn, typewriterFrame{Text: f.Text, Phase: f.Phase.String(), WaitMS: f.Wait.Milliseconds()})
			if err != nil {
				return
			}
		}
	}
}

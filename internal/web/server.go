package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	oanet "github.com/peterkuimelis/organattack/internal/net"
	"github.com/peterkuimelis/organattack/internal/session"
)

//go:embed static
var staticFiles embed.FS

// Server is the browser front end: a hot-seat table shared by every
// connected tab.
type Server struct {
	sess *session.Session
	log  *zap.Logger
	mux  *http.ServeMux
}

// NewServer creates a web server over the session.
func NewServer(sess *session.Session, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		sess: sess,
		log:  logger.Named("web"),
		mux:  http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	s.mux.HandleFunc("GET /api/saves", s.handleSaves)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeReply writes a protocol reply, mapping errors to HTTP statuses.
func writeReply(w http.ResponseWriter, reply oanet.ServerMessage) {
	status := http.StatusOK
	if reply.Type == oanet.ReplyError {
		switch reply.Code {
		case "no_game", "save_not_found":
			status = http.StatusNotFound
		case "no_store":
			status = http.StatusNotImplemented
		default:
			status = http.StatusBadRequest
		}
	}
	writeJSON(w, status, reply)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeReply(w, oanet.Handle(r.Context(), s.sess, oanet.ClientMessage{Type: oanet.MsgState}))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	since := 0
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, oanet.ServerMessage{Type: oanet.ReplyError, Code: "bad_request", Error: "since must be a number"})
			return
		}
		since = n
	}
	writeReply(w, oanet.Handle(r.Context(), s.sess, oanet.ClientMessage{Type: oanet.MsgEvents, Since: since}))
}

func (s *Server) handleSaves(w http.ResponseWriter, r *http.Request) {
	writeReply(w, oanet.Handle(r.Context(), s.sess, oanet.ClientMessage{Type: oanet.MsgSaves}))
}

// handleWebSocket carries client messages in and replies out. Every tab
// also receives the table state after any change made by any tab.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.log.Warn("websocket accept", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	updates, stop := s.sess.Watch()
	defer stop()

	if sum, err := s.sess.Summary(); err == nil {
		s.send(ctx, conn, oanet.ServerMessage{Type: oanet.ReplyState, State: oanet.BuildStateView(s.sess, sum)})
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sum, ok := <-updates:
				if !ok {
					return
				}
				s.send(ctx, conn, oanet.ServerMessage{Type: oanet.ReplyState, State: oanet.BuildStateView(s.sess, sum)})
			}
		}
	}()

	for {
		var msg oanet.ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				s.log.Debug("websocket read", zap.Error(err))
			}
			return
		}
		reply := oanet.Handle(ctx, s.sess, msg)
		if reply.Type == oanet.ReplyError {
			s.log.Debug("request rejected", zap.String("type", msg.Type), zap.String("code", reply.Code))
		}
		s.send(ctx, conn, reply)
	}
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, msg oanet.ServerMessage) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		s.log.Debug("websocket write", zap.Error(err))
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

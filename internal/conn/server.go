package conn

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/linedb/linedb/internal/snapshot"
	"github.com/linedb/linedb/internal/store"
	"github.com/linedb/linedb/pkg"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 10,
	WriteBufferSize: 1024 * 10,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server serves the line protocol over raw TCP and, on a second
// port, over websocket (one text message in, one response block
// out). Both transports share one database and one snapshot
// manager.
type Server struct {
	DB        *store.Database
	Snapshots *snapshot.Manager

	Port   int
	WsPort int
}

// Listen blocks serving both transports until SIGINT/SIGTERM, then
// shuts down and takes a final snapshot.
func (s *Server) Listen() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.Port))
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", s.handleWs)
	httpServer := &http.Server{Addr: fmt.Sprintf(":%d", s.WsPort), Handler: mux}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			c, err := listener.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return nil
				}
				return err
			}
			go s.HandleConnection(ctx, c)
		}
	})

	g.Go(func() error {
		err := httpServer.ListenAndServe()
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return s.Snapshots.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		pkg.DebugLog("shutting down...")
		listener.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
		return nil
	})

	pkg.InfoLog("linedb listening on port", s.Port, "(tcp) and", s.WsPort, "(ws)")
	err = g.Wait()

	if serr := s.Snapshots.Save(context.Background()); serr != nil {
		pkg.ErrorLog("final snapshot failed;", serr)
	}
	return err
}

// handleWs serves the same query protocol over websocket: each text
// message is one query line, each reply one response block.
func (s *Server) handleWs(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		pkg.ErrorLog(err)
		return
	}
	defer c.Close()

	session := r.RemoteAddr
	pkg.InfoLog("ws session opened from", session)
	defer pkg.InfoLog("ws session closed from", session)

	for {
		kind, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				pkg.ErrorLog("ws unexpected close;", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		line := strings.TrimSpace(string(message))
		if line == "" {
			continue
		}
		response := s.HandleQuery(r.Context(), line)
		if err := c.WriteMessage(websocket.TextMessage, []byte(response)); err != nil {
			pkg.ErrorLog("ws write error;", err)
			return
		}
	}
}

// Package stream mirrors a scene graph to browser viewers over websockets.
package stream

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jeffnv/blockclock/internal/scene"
)

//go:embed viewer.html
var viewerPage []byte

const (
	viewerBuffer = 8
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
)

// Recorder receives every published frame.
type Recorder interface {
	Write(v any) error
}

type Options struct {
	AllowRemote bool
	Recorder    Recorder
	Logger      *log.Logger
}

// Server fans frames out to connected viewers. Publish may be called from
// any goroutine.
type Server struct {
	graph       *scene.Graph
	log         *log.Logger
	recorder    Recorder
	allowRemote bool

	upgrader websocket.Upgrader

	mu          sync.Mutex
	viewers     map[string]chan []byte
	seq         uint64
	last        []byte
	lastVersion uint64
	lastTime    string
}

func NewServer(g *scene.Graph, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		graph:       g,
		log:         logger,
		recorder:    opts.Recorder,
		allowRemote: opts.AllowRemote,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		viewers: make(map[string]chan []byte),
	}
}

// Publish snapshots the graph and sends a frame to every viewer when the
// scene or the time changed since the last frame. It reports whether a frame
// was sent.
func (s *Server) Publish(clockTime string) bool {
	cubes, version := s.graph.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != nil && version == s.lastVersion && clockTime == s.lastTime {
		return false
	}
	s.seq++
	frame := NewFrame(s.seq, clockTime, cubes)
	b, err := json.Marshal(frame)
	if err != nil {
		s.log.Printf("stream: marshal frame %d: %v", s.seq, err)
		return false
	}
	s.last = b
	s.lastVersion = version
	s.lastTime = clockTime

	if s.recorder != nil {
		if err := s.recorder.Write(frame); err != nil {
			s.log.Printf("stream: record frame %d: %v", s.seq, err)
		}
	}

	for id, out := range s.viewers {
		select {
		case out <- b:
		default:
			s.log.Printf("stream: viewer %s too slow, dropping", id)
			close(out)
			delete(s.viewers, id)
		}
	}
	return true
}

// Viewers returns the number of connected viewers.
func (s *Server) Viewers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.pageHandler)
	mux.HandleFunc("/ws", s.wsHandler)
	return mux
}

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts viewers on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Printf("stream: serving viewers on http://%s/", ln.Addr())
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) pageHandler(rw http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(rw, r)
		return
	}
	if !s.allowed(r) {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = rw.Write(viewerPage)
}

func (s *Server) wsHandler(rw http.ResponseWriter, r *http.Request) {
	if !s.allowed(r) {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}

	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id, out, hello := s.join()
	defer s.leave(id)
	s.log.Printf("stream: viewer %s joined from %s", id, r.RemoteAddr)

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(hello); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Writer goroutine.
	writeErr := make(chan error, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				writeErr <- ctx.Err()
				return
			case b, ok := <-out:
				if !ok {
					writeErr <- nil
					_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"), time.Now().Add(time.Second))
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					writeErr <- err
					return
				}
			}
		}
	}()

	// Viewers only send control frames; reading keeps them flowing and
	// notices disconnects.
	for {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	cancel()
	select {
	case <-writeErr:
	case <-time.After(500 * time.Millisecond):
	}
	s.log.Printf("stream: viewer %s left", id)
}

func (s *Server) join() (string, chan []byte, Hello) {
	id := uuid.NewString()
	out := make(chan []byte, viewerBuffer)

	cubes, _ := s.graph.Snapshot()
	hello := Hello{
		Type:            "HELLO",
		ProtocolVersion: Version,
		ViewerID:        id,
		Count:           len(cubes),
	}
	if len(cubes) > 0 {
		hello.BlockSize = cubes[0].Size
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewers[id] = out
	if s.last != nil {
		out <- s.last
	}
	return id, out, hello
}

func (s *Server) leave(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if out, ok := s.viewers[id]; ok {
		close(out)
		delete(s.viewers, id)
	}
}

func (s *Server) allowed(r *http.Request) bool {
	return s.allowRemote || isLoopbackRemote(r.RemoteAddr)
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

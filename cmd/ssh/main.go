package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/napguard/internal/audio"
	"github.com/tomz197/napguard/internal/client"
	"github.com/tomz197/napguard/internal/config"
	"github.com/tomz197/napguard/internal/draw"
	"github.com/tomz197/napguard/internal/game"
	"github.com/tomz197/napguard/internal/object"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultIdleTimeout = 5 * time.Minute

	// Players get this long to see the shutdown notice and leave.
	drainTimeout = 15 * time.Second
)

// server owns what every SSH session shares.
type server struct {
	ctx         context.Context // Cancelled when the process shuts down
	table       *object.Table
	logger      *log.Logger
	idleTimeout time.Duration
	clients     sync.WaitGroup
}

func main() {
	logger := config.NewLogger(os.Stderr, "ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	idleTimeout := config.GetEnvDuration("SSH_IDLE_TIMEOUT", defaultIdleTimeout)
	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath,
		"idleTimeout", idleTimeout, "workingDir", workingDir)

	table, err := config.LoadTable()
	if err != nil {
		logger.Fatal("failed to load annoyance types", "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := &server{ctx: ctx, table: table, logger: logger, idleTimeout: idleTimeout}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			srv.gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Clients show the shutdown notice, then disconnect on their own.
	cancel()
	if srv.wait(drainTimeout) {
		logger.Info("all players disconnected")
	} else {
		logger.Warn("players still connected after drain timeout")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// wait blocks until every client left or the timeout passed. It reports
// whether all clients left.
func (srv *server) wait(timeout time.Duration) bool {
	left := make(chan struct{})
	go func() {
		srv.clients.Wait()
		close(left)
	}()
	select {
	case <-left:
		return true
	case <-time.After(timeout):
		return false
	}
}

// gameMiddleware gives each SSH session its own game and runs the client.
func (srv *server) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}
		if srv.ctx.Err() != nil {
			fmt.Fprintln(sess, "Server is shutting down. Please reconnect in a moment.")
			return
		}

		srv.clients.Add(1)
		defer srv.clients.Done()

		logger := srv.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("new game session", "terminal", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		// Sound would play on the server, so remote sessions stay silent.
		session := game.NewSession(game.Options{
			Audio:  audio.Nop{},
			Table:  srv.table,
			Logger: logger,
			Muted:  true,
		})
		defer session.Close()

		reader := bufio.NewReader(sess)
		c := client.NewClient(session, reader, sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Logger:       logger,
			IdleTimeout:  srv.idleTimeout,
		})
		if err := c.Run(srv.ctx); err != nil {
			logger.Error("game error", "err", err)
		}

		s := session.Snapshot().State
		logger.Info("session ended", "score", s.Score, "wave", s.WaveNumber)
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize

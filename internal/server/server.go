package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clario/internal/config"
	"clario/internal/route"
	"clario/internal/static"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	engine     *gin.Engine
	httpServer *http.Server
	routes     *route.Table
	resolver   *static.Resolver

	// logrus へのパイプ。Close で閉じる
	writers []*io.PipeWriter
}

// New は新しいServerインスタンスを作成する
// gin のモードと出力先はパッケージ全体の設定なので、最後に作成した Server の設定が有効になる
func New(cfg *config.Config, logger *logrus.Logger) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger,
		routes:   route.Default(),
		resolver: static.NewResolver(cfg.Static.BaseDir, cfg.Static.Index),
	}

	if cfg.Static.Watch {
		gin.SetMode(gin.DebugMode)
		gin.DefaultWriter = s.pipe(logrus.DebugLevel)
		gin.DefaultErrorWriter = s.pipe(logrus.ErrorLevel)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.engine = gin.New()
	s.engine.HandleMethodNotAllowed = true
	s.engine.Use(gin.RecoveryWithWriter(s.pipe(logrus.ErrorLevel)))
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      s.engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

// setupRoutes はHTTPルートを設定する
// 振り分けは gin のツリーではなくルート表の最長一致で行う
func (s *Server) setupRoutes() {
	s.engine.GET("/*filepath", s.handleStatic)
	s.engine.HEAD("/*filepath", s.handleStatic)
}

// Handler はサーバーの http.Handler を返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// pipe は指定レベルで logrus に書き込む Writer を作成する
func (s *Server) pipe(level logrus.Level) *io.PipeWriter {
	w := s.logger.WriterLevel(level)
	s.writers = append(s.writers, w)
	return w
}

// Close は logrus へのパイプを閉じ、gin の出力先を標準出力に戻す
func (s *Server) Close() {
	if s.config.Static.Watch {
		gin.DefaultWriter = os.Stdout
		gin.DefaultErrorWriter = os.Stderr
	}
	for _, w := range s.writers {
		_ = w.Close()
	}
	s.writers = nil
}

// Listen はサーバーのアドレスにバインドする
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, fmt.Errorf("%s へのバインドに失敗: %w", s.httpServer.Addr, err)
	}
	return ln, nil
}

// Start はサーバーを起動する
func (s *Server) Start(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		s.Close()
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve はリスナーでリクエストを受け付け、コンテキストのキャンセルかシグナルで停止する
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		s.logger.WithField("addr", ln.Addr().String()).Info("HTTPサーバーを起動しています")
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			shutdownCh <- fmt.Errorf("サーバーの起動に失敗: %w", err)
		}
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		s.logger.Info("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		s.logger.WithField("signal", sig.String()).Info("シグナルを受信しました")
	case err := <-shutdownCh:
		s.Close()
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	s.logger.Info("サーバーをシャットダウンしています...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	defer s.Close()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	s.logger.Info("サーバーが正常にシャットダウンされました")
	return nil
}

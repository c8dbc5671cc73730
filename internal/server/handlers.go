package server

import (
	"errors"
	"net/http"

	"clario/internal/static"

	"github.com/gin-gonic/gin"
)

// handleStatic はルート表で要求パスを振り分け、静的ファイルを返す
func (s *Server) handleStatic(c *gin.Context) {
	urlPath := c.Param("filepath")

	rt, rest, ok := s.routes.Match(urlPath)
	if !ok {
		notFound(c)
		return
	}

	file, err := s.resolver.Resolve(rt, rest)
	if errors.Is(err, static.ErrNotFound) {
		s.logger.WithError(err).Debug("ファイルが見つかりません")
		notFound(c)
		return
	}
	if err != nil {
		s.logger.WithError(err).WithField("path", urlPath).Error("ファイルの配信に失敗しました")
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	// 開発用なのでキャッシュさせない
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// notFound は外部に詳細を漏らさない 404 を返す
func notFound(c *gin.Context) {
	c.String(http.StatusNotFound, "404 page not found")
}

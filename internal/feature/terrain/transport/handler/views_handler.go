package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"stock_terrain/internal/feature/terrain/domain/camera"
	"stock_terrain/internal/feature/terrain/transport/http/dto"
	"stock_terrain/internal/feature/terrain/usecase"
	jwtmw "stock_terrain/internal/platform/jwt"
)

const (
	streamReadTimeout  = 90 * time.Second
	streamPingInterval = 45 * time.Second
	streamWriteTimeout = 10 * time.Second
)

// ViewerRegistry はビューアの作成・取得・削除を抽象化します。
type ViewerRegistry interface {
	Create(owner string) (*usecase.Viewer, error)
	Get(id, owner string) (*usecase.Viewer, error)
	Delete(id, owner string) error
}

// FrameRunner は FrameSource を一定間隔で再ピックします。
type FrameRunner interface {
	Run(ctx context.Context, src usecase.FrameSource, emit func(usecase.PickState) error) error
}

// ViewsHandler はビューア（表示状態）のHTTP・WebSocketリクエストを処理します。
// すべてのエンドポイントは認証済みユーザー（JWTのsubject）を所有者として扱います。
type ViewsHandler struct {
	registry ViewerRegistry
	loop     FrameRunner
	upgrader websocket.Upgrader
}

// NewViewsHandler は新しいViewsHandlerを生成します。
// checkOrigin が nil の場合、WebSocketはすべてのOriginを受け付けます（CORSはルーターで制御）。
func NewViewsHandler(registry ViewerRegistry, loop FrameRunner, checkOrigin func(*http.Request) bool) *ViewsHandler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &ViewsHandler{
		registry: registry,
		loop:     loop,
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
	}
}

// Create は新しいビューアを作成します。
//
// POST /views
func (h *ViewsHandler) Create(c *gin.Context) {
	v, err := h.registry.Create(jwtmw.Subject(c))
	if err != nil {
		c.JSON(statusOf(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toView(v))
}

// Get はビューアの状態を返します。
//
// GET /views/:id
func (h *ViewsHandler) Get(c *gin.Context) {
	v, ok := h.viewer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toView(v))
}

// Delete はビューアを閉じます。
//
// DELETE /views/:id
func (h *ViewsHandler) Delete(c *gin.Context) {
	if err := h.registry.Delete(c.Param("id"), jwtmw.Subject(c)); err != nil {
		c.JSON(statusOf(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// PutScene はビューアにシーンを読み込み、ビルド結果を返します。
// より新しいリクエストに追い越された場合は 409 を返します。
//
// PUT /views/:id/scene
func (h *ViewsHandler) PutScene(c *gin.Context) {
	v, ok := h.viewer(c)
	if !ok {
		return
	}
	var req dto.SceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}

	s, err := v.Load(c.Request.Context(), usecase.Request{
		Symbol:    req.Symbol,
		Year:      req.Year,
		Synthetic: req.Synthetic,
		Seed:      req.Seed,
		Size:      req.Size,
	})
	if err != nil {
		c.JSON(statusOf(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toTerrainResponse(s))
}

// PutCamera はビューアのカメラを更新します。
//
// PUT /views/:id/camera
func (h *ViewsHandler) PutCamera(c *gin.Context) {
	v, ok := h.viewer(c)
	if !ok {
		return
	}
	var req dto.CameraDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}
	if err := v.SetCamera(fromCameraDTO(req)); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toCameraDTO(v.Camera()))
}

// PostPointer はポインタ位置でピックし、現在と最後に当たった結果を返します。
//
// POST /views/:id/pointer
func (h *ViewsHandler) PostPointer(c *gin.Context) {
	v, ok := h.viewer(c)
	if !ok {
		return
	}
	var req dto.PointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "x and y are required"})
		return
	}

	st, err := v.PointerMove(*req.X, *req.Y)
	if err != nil {
		status := statusOf(err)
		if errors.Is(err, camera.ErrNDCOutOfRange) || errors.Is(err, camera.ErrInvalidCamera) {
			status = http.StatusBadRequest
		}
		c.JSON(status, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toPickState(st))
}

// Stream はWebSocketでポインタ位置を受け取り、フレームごとに変化したピック結果を送信します。
//
// GET /views/:id/stream
func (h *ViewsHandler) Stream(c *gin.Context) {
	v, ok := h.viewer(c)
	if !ok {
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade がエラーレスポンスを書き込み済み
		slog.Warn("websocket upgrade failed", "viewer", v.ID(), "error", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Warn("failed to close websocket", "viewer", v.ID(), "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sc := &streamConn{conn: conn}
	go func() {
		defer cancel()
		sc.readPointers(v)
	}()
	go sc.ping(ctx)

	err = h.loop.Run(ctx, v, func(st usecase.PickState) error {
		ps := toPickState(st)
		return sc.write(dto.StreamMessage{Type: "pick", Pick: &ps})
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Info("pick stream closed", "viewer", v.ID(), "error", err)
	}
}

// viewer は :id のビューアを取得します。見つからない場合はエラーレスポンスを書き込みます。
func (h *ViewsHandler) viewer(c *gin.Context) (*usecase.Viewer, bool) {
	v, err := h.registry.Get(c.Param("id"), jwtmw.Subject(c))
	if err != nil {
		c.JSON(statusOf(err), dto.ErrorResponse{Error: err.Error()})
		return nil, false
	}
	return v, true
}

// streamConn serializes writes to one websocket connection.
type streamConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *streamConn) write(msg dto.StreamMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return s.conn.WriteJSON(msg)
}

func (s *streamConn) ping(ctx context.Context) {
	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteTimeout))
			s.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// readPointers は接続が閉じられるまでポインタメッセージを読み、ビューアに反映します。
// 描画結果はフレームループが送信するため、ここでは不正な入力へのエラーのみ返信します。
func (s *streamConn) readPointers(v *usecase.Viewer) {
	_ = s.conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
	})

	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
		if mt != websocket.TextMessage {
			continue
		}

		var msg dto.StreamMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "pointer" {
			_ = s.write(dto.StreamMessage{Type: "error", Error: "expected pointer message"})
			continue
		}
		if _, err := v.PointerMove(msg.X, msg.Y); err != nil && !errors.Is(err, usecase.ErrNoScene) {
			_ = s.write(dto.StreamMessage{Type: "error", Error: err.Error()})
		}
	}
}

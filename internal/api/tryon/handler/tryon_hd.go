package tryOnHandler

import (
	"ProjectTryOn/internal/api/tryon"
	contextPkg "ProjectTryOn/pkg/context"
	"ProjectTryOn/pkg/handlerUtil"
	"ProjectTryOn/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/context"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// handleWebSocket answers every frame with exactly one message, in arrival order.
// Per-frame failures are reported inline; only the peer going away ends the loop.
func (h *TryOnHandler) handleWebSocket(c *websocket.Conn) {
	connectionID, _ := c.Locals(ConnectionIDKey).(string)
	ctx := contextPkg.WithConnectionID(context.Background(), connectionID)
	logger := log.WithConnectionID(ctx)

	h.metrics.ConnectionOpened()
	logger.Info("Try-on client connected")

	frames := 0
	defer func() {
		h.metrics.ConnectionClosed()
		logger.WithField("frames", frames).Info("Try-on client disconnected")
	}()

	// frames above the decoder limit but below this one still get a decode_failed reply
	if h.maxMessageBytes > 0 {
		c.SetReadLimit(int64(h.maxMessageBytes))
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger.Warnf("Try-on WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			logger.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		frames++
		outcome := h.tryOnService.ProcessMessage(ctx, message)

		if outcome.Failure != nil && outcome.Failure.Kind == tryon.KindUnexpected {
			log.ErrorWithTraceID(log.Fields{
				log.ConnectionIDKey: connectionID,
				"frame":             frames,
				"error":             outcome.Failure.Message,
			}, "Unexpected failure while processing frame")
		}

		payload, err := json.Marshal(outcome.Response())
		if err != nil {
			logger.Errorf("Error encoding response: %v", err)
			payload = []byte(`{"error":"internal server error"}`)
		}

		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Errorf("Error writing response: %v", err)
			break
		}
	}
}

// DetectAnchors is the one-shot HTTP variant of the websocket loop. It accepts either a
// multipart "image" file or a JSON body {"image": "<data uri>"}.
func (h *TryOnHandler) DetectAnchors(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var payload string

	file, err := ctx.FormFile("image")
	if err == nil {
		h.log.WithFields(log.Fields{
			log.RequestIDKey: requestID,
			"file_name":      file.Filename,
			"file_size":      file.Size,
		}).Debug("Processing file upload")

		if err := h.utils.ValidateImageFile(file); err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_image_file")
		}

		fileContent, err := file.Open()
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_file")
		}
		defer fileContent.Close()

		payload, err = h.utils.ConvertFileToBase64(fileContent)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "convert_to_base64")
		}
	} else {
		var req tryon.FrameRequest
		if err := json.Unmarshal(ctx.Body(), &req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}

		if err := h.validator.Struct(req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}

		payload = req.Image
	}

	result, err := h.tryOnService.DetectAnchors(c, payload)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "detect_anchors")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			log.RequestIDKey: requestID,
			"face":           result.Face,
		}).Info("Anchor detection successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, tryon.NewAnchorResponse(result))
	}
}

package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"redshift-backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second

	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// PredictSession upgrades to a websocket and answers each request message in
// order. One message is one interaction; a failure ends that interaction,
// not the session.
func (h *Handler) PredictSession(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	user, _ := UserFromContext(r.Context())
	log.Printf("✅ [WS] Session opened (user=%q)", user)
	defer log.Printf("❌ [WS] Session closed (user=%q)", user)

	conn.SetReadLimit(h.MaxUploadBytes)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(conn, done)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] read: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		reply := h.handleSessionMessage(r, message)
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("[WS] write: %v", err)
			return
		}
	}
}

// keepAlive pings the client until done is closed. WriteControl may run
// concurrently with the session's other writes.
func (h *Handler) keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	period := h.PingPeriod
	if period <= 0 {
		period = pingPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) handleSessionMessage(r *http.Request, message []byte) models.SessionReply {
	var req models.SessionRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return models.SessionReply{Type: "error", Error: &models.ErrorResponse{Error: "malformed_input", Message: MsgMalformed}}
	}

	switch req.Action {
	case "ping":
		return models.SessionReply{Type: "pong"}
	case "validate":
		insp, err := h.Predictor.Inspect(req.Document)
		if err != nil {
			_, body := failure(err)
			return models.SessionReply{Type: "error", Error: &body}
		}
		resp := validateResponse(insp)
		return models.SessionReply{Type: "valid", Validate: &resp}
	case "predict", "":
		out, err := h.Predictor.Run(r.Context(), req.Document)
		if err != nil {
			_, body := failure(err)
			return models.SessionReply{Type: "error", Error: &body}
		}
		resp := predictResponse(out)
		return models.SessionReply{Type: "result", Predict: &resp}
	default:
		return models.SessionReply{Type: "error", Error: &models.ErrorResponse{
			Error:   "bad_request",
			Message: "Unknown action " + req.Action,
		}}
	}
}

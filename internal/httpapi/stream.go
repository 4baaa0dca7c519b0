package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"calcforge/internal/domain"
	"calcforge/internal/observability"
	"calcforge/internal/roi"
)

// StreamError is the error payload of a stream reply.
type StreamError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StreamReply is sent for every received frame. Either Results or Error is set.
type StreamReply struct {
	Results     *domain.Results `json:"results,omitempty"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	Error       *StreamError    `json:"error,omitempty"`
}

// handleStream upgrades to a WebSocket and recalculates for every DealInputs frame.
// Replies are written in the order frames were received.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("stream upgrade id=%s: %v", RequestID(r.Context()), err)
		return
	}
	defer conn.Close()

	observability.StreamOpened()
	defer observability.StreamClosed()

	conn.SetReadLimit(MaxBodyBytes)
	conn.SetReadDeadline(time.Now().Add(s.stream.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.stream.ReadTimeout))
	})

	// Writes come from the read loop and the ping loop.
	var writeMu sync.Mutex
	write := func(messageType int, data []byte) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(s.stream.WriteTimeout))
		return conn.WriteMessage(messageType, data)
	}

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(done, write)

	ctx := r.Context()
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Printf("stream read id=%s: %v", RequestID(ctx), err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		observability.RecordStreamMessage()
		conn.SetReadDeadline(time.Now().Add(s.stream.ReadTimeout))

		reply := s.recalculate(r, data)
		payload, err := json.Marshal(reply)
		if err != nil {
			s.logger.Printf("stream encode id=%s: %v", RequestID(ctx), err)
			return
		}
		if err := write(websocket.TextMessage, payload); err != nil {
			s.logger.Printf("stream write id=%s: %v", RequestID(ctx), err)
			return
		}
	}
}

func (s *Server) recalculate(r *http.Request, data []byte) StreamReply {
	var in domain.DealInputs
	if err := json.Unmarshal(data, &in); err != nil {
		return StreamReply{Error: &StreamError{Message: "Malformed JSON frame"}}
	}

	res, meta, err := s.calc.Calculate(r.Context(), in)
	if err != nil {
		var verr *roi.ValidationError
		if errors.As(err, &verr) {
			return StreamReply{Error: &StreamError{Field: verr.Field, Message: verr.Message}}
		}
		s.logger.Printf("stream calc id=%s: %v", RequestID(r.Context()), err)
		return StreamReply{Error: &StreamError{Message: "Internal server error"}}
	}
	return StreamReply{Results: res, Fingerprint: meta.Fingerprint}
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (s *Server) pingLoop(done <-chan struct{}, write func(int, []byte) error) {
	ticker := time.NewTicker(s.stream.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

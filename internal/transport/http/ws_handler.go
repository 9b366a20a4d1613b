package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"olympiad-service/internal/app"
	"olympiad-service/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.OlympiadService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.OlympiadService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Option int `json:"option"`
}

type jumpPayload struct {
	Index int `json:"index"`
}

type startedPayload struct {
	AttemptID string             `json:"attemptId"`
	Bank      domain.BankSummary `json:"bank"`
	View      app.View           `json:"view"`
}

type tickPayload struct {
	RemainingSeconds int    `json:"remainingSeconds"`
	Remaining        string `json:"remaining"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs one olympiad attempt over the
// connection. Closing the connection before completion abandons the attempt.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	bankID := r.URL.Query().Get("bankId")
	userID := r.URL.Query().Get("userId")
	if bankID == "" || userID == "" {
		http.Error(w, "missing bankId or userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancelAttempt := context.WithCancel(context.Background())
	defer cancelAttempt()

	session, err := h.service.Start(ctx, bankID, userID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Abandon(session.ID())

	events, cancel := session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	// single writer: gorilla connections allow one concurrent writer
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- eventMessage(ev):
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	push := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	push(outboundMessage[any]{Type: "started", Payload: startedPayload{
		AttemptID: session.ID(),
		Bank:      session.Bank().Summary(),
		View:      session.View(),
	}})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := apply(session, inbound); err != nil {
			push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
			continue
		}
		push(outboundMessage[any]{Type: "view", Payload: session.View()})
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

func apply(session *app.Session, msg inboundMessage) error {
	switch msg.Type {
	case "select":
		var payload selectPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return session.SelectAnswer(payload.Option)
	case "next":
		return session.Advance()
	case "previous":
		return session.Retreat()
	case "jump":
		var payload jumpPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return session.JumpTo(payload.Index)
	case "finish":
		session.Complete(domain.ReasonManual)
		return nil
	default:
		return errUnsupported
	}
}

func eventMessage(ev app.Event) outboundMessage[any] {
	if ev.Kind == app.EventCompleted && ev.Result != nil {
		return outboundMessage[any]{Type: "result", Payload: ev.Result}
	}
	return outboundMessage[any]{Type: "tick", Payload: tickPayload{
		RemainingSeconds: ev.RemainingSeconds,
		Remaining:        ev.Remaining,
	}}
}

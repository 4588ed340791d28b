package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/KaripeHS/marketor-sub002/internal/proto"
	"github.com/KaripeHS/marketor-sub002/internal/realtime"
)

// WSHandler upgrades HTTP connections and bridges them to gateway sessions.
type WSHandler struct {
	gateway    *realtime.Gateway
	origins    []string
	frameLimit int
	log        zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler. An empty origins list allows
// cross-origin handshakes from anywhere.
func NewWSHandler(gateway *realtime.Gateway, origins []string, frameLimit int, logger zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		gateway:    gateway,
		origins:    origins,
		frameLimit: frameLimit,
		log:        logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	opts := &websocket.AcceptOptions{OriginPatterns: h.origins}
	if len(h.origins) == 0 {
		opts.InsecureSkipVerify = true
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	sess := h.gateway.Connect()
	defer h.gateway.Disconnect(sess)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, sess)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, sess)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, sess *realtime.Session) error {
	limiter := newFrameLimiter(h.frameLimit)

	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		if !limiter.allow(time.Now()) {
			if err := writeError(ctx, conn, proto.ErrCodeRateLimited, "too many messages"); err != nil {
				return err
			}
			continue
		}

		reply, protoErr := h.handleInbound(sess, inbound)
		if protoErr != nil {
			if err := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: protoErr,
			}); err != nil {
				return err
			}
			continue
		}
		if err := wsjson.Write(ctx, conn, reply); err != nil {
			h.log.Error().Err(err).Str("conn_id", sess.ID).Msg("write ws reply")
			return err
		}
	}
}

// handleInbound applies a join or leave frame to the gateway. Omitted
// tenantId/userId fields are fine; a frame naming neither room simply acks
// with the current membership.
func (h *WSHandler) handleInbound(sess *realtime.Session, inbound proto.Inbound) (proto.Outbound, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		m, err := decodeMembership(inbound.Data)
		if err != nil {
			return proto.Outbound{}, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "malformed join payload"}
		}
		rooms := h.gateway.Join(sess, m)
		return proto.Outbound{
			Type: proto.OutboundTypeJoin,
			Data: proto.JoinReply{Success: true, Rooms: rooms},
		}, nil
	case proto.InboundTypeLeave:
		m, err := decodeMembership(inbound.Data)
		if err != nil {
			return proto.Outbound{}, &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "malformed leave payload"}
		}
		h.gateway.Leave(sess, m)
		return proto.Outbound{
			Type: proto.OutboundTypeLeave,
			Data: proto.LeaveReply{Success: true},
		}, nil
	default:
		return proto.Outbound{}, &proto.Error{Code: proto.ErrCodeInvalidMessage, Msg: "unknown message type"}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sess *realtime.Session) error {
	for {
		select {
		case env := <-sess.Events:
			out := proto.Outbound{Type: proto.OutboundTypeNotification, Data: env}
			if err := wsjson.Write(ctx, conn, out); err != nil {
				h.log.Error().Err(err).Str("conn_id", sess.ID).Msg("write ws notification")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func decodeMembership(data json.RawMessage) (realtime.Membership, error) {
	var payload proto.MembershipData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			return realtime.Membership{}, err
		}
	}
	return realtime.Membership{TenantID: payload.TenantID, UserID: payload.UserID}, nil
}

func writeError(ctx context.Context, conn *websocket.Conn, code, msg string) error {
	return wsjson.Write(ctx, conn, proto.Outbound{
		Type:  proto.OutboundTypeError,
		Error: &proto.Error{Code: code, Msg: msg},
	})
}

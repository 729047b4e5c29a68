package server

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/kaliyo-backend/internal"
	"github.com/scythe504/kaliyo-backend/internal/config"
	"github.com/skip2/go-qrcode"
)

const (
	qrSize      = 320
	lookupLimit = 2 * time.Second
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(s.corsMiddleware)

	r.HandleFunc("/healthz", s.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/version", s.VersionHandler).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{roomId}", s.GetRoomHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/rooms/{roomId}/qr", s.RoomQRHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.gateway.HandleWebSocket)

	return r
}

// CORS middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "false")

		// Websocket upgrades check their origin in the gateway.
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowOrigin(origin string) string {
	if slices.Contains(s.cfg.AllowedOrigins, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(s.cfg.AllowedOrigins, origin) {
		return origin
	}
	return ""
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()

	rooms := 0
	err := s.onLoop(r.Context(), func() {
		rooms = s.ctrl.Store().Len()
	})
	if err != nil {
		writeResponse(w, startTime, http.StatusServiceUnavailable, "game loop unavailable")
		return
	}

	writeResponse(w, startTime, http.StatusOK, map[string]int{
		"rooms":       rooms,
		"connections": s.hub.Len(),
	})
}

func (s *Server) VersionHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, time.Now().UnixMilli(), http.StatusOK, map[string]string{
		"version": config.ReleaseVersion,
	})
}

// GetRoomHandler answers whether a room code can be joined.
func (s *Server) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()
	roomId := mux.Vars(r)["roomId"]

	var summary *internal.RoomSummary
	err := s.onLoop(r.Context(), func() {
		if room := s.ctrl.Store().GetRoom(roomId); room != nil {
			sum := room.Summary(s.cfg.MaxPlayers)
			summary = &sum
		}
	})

	switch {
	case err != nil:
		writeResponse(w, startTime, http.StatusServiceUnavailable, "game loop unavailable")
	case summary == nil:
		writeResponse(w, startTime, http.StatusNotFound, "Room not found")
	default:
		writeResponse(w, startTime, http.StatusOK, summary)
	}
}

// RoomQRHandler renders a PNG QR code linking to the join page for a room.
func (s *Server) RoomQRHandler(w http.ResponseWriter, r *http.Request) {
	roomId := mux.Vars(r)["roomId"]

	exists := false
	if err := s.onLoop(r.Context(), func() {
		exists = s.ctrl.Store().GetRoom(roomId) != nil
	}); err != nil {
		http.Error(w, "game loop unavailable", http.StatusServiceUnavailable)
		return
	}
	if !exists {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode(JoinURL(r, roomId), qrcode.Medium, qrSize)
	if err != nil {
		log.Error().Err(err).Str("room", roomId).Msg("[RoomQRHandler] qr generation failed")
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// JoinURL is the link a phone camera opens for roomId.
func JoinURL(r *http.Request, roomId string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + "/?room=" + roomId
}

func (s *Server) onLoop(ctx context.Context, fn func()) error {
	ctx, cancel := context.WithTimeout(ctx, lookupLimit)
	defer cancel()
	return s.loop.Call(ctx, fn)
}

func writeResponse(w http.ResponseWriter, startTime int64, status int, data any) {
	endTime := time.Now().UnixMilli()
	resp := internal.Response{
		StatusCode:    status,
		RespStartTime: startTime,
		RespEndTime:   endTime,
		NetRespTime:   endTime - startTime,
		Data:          data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("[writeResponse] error encoding response")
	}
}

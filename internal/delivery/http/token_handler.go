package http

import (
	"encoding/json"
	"net/http"

	"upbit-gem-screener/internal/repository"
)

type TokenHandler struct {
	tokenRepo *repository.TokenRepository
}

func NewTokenHandler(tokenRepo *repository.TokenRepository) *TokenHandler {
	return &TokenHandler{tokenRepo: tokenRepo}
}

type tokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// HandleRegister registers a device token for screener alerts.
func (h *TokenHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeToken(w, r)
	if !ok {
		return
	}

	platform := req.Platform
	if platform == "" {
		platform = "android"
	}
	h.tokenRepo.Register(req.Token, platform)

	writeJSON(w, tokenResponse{
		Success: true,
		Message: "Token registered",
		Count:   h.tokenRepo.Count(),
	})
}

// HandleUnregister removes a device token.
func (h *TokenHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeToken(w, r)
	if !ok {
		return
	}

	h.tokenRepo.Unregister(req.Token)

	writeJSON(w, tokenResponse{
		Success: true,
		Message: "Token removed",
		Count:   h.tokenRepo.Count(),
	})
}

func (h *TokenHandler) decodeToken(w http.ResponseWriter, r *http.Request) (tokenRequest, bool) {
	var req tokenRequest

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return req, false
	}
	if req.Token == "" {
		http.Error(w, "Token is required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

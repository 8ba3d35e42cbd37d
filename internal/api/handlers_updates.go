package api

import (
	"net/http"
	"strings"

	"github.com/dgallion1/faqbot/internal/bot"
)

type commandRequest struct {
	UserID  string   `json:"user_id"`
	ChatID  string   `json:"chat_id"`
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

type callbackRequest struct {
	UserID string `json:"user_id"`
	ChatID string `json:"chat_id"`
	Data   string `json:"data"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := decodeBody(w, r, &req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	u, ok := updateFor(w, req.UserID, req.ChatID)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		jsonError(w, "command is required", http.StatusBadRequest)
		return
	}

	reply := s.bot.Command(r.Context(), u, req.Command, req.Args)
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest
	if err := decodeBody(w, r, &req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	u, ok := updateFor(w, req.UserID, req.ChatID)
	if !ok {
		return
	}

	reply := s.bot.Callback(r.Context(), u, req.Data)
	writeJSON(w, http.StatusOK, reply)
}

// updateFor requires a user id; the chat defaults to the user's private chat.
func updateFor(w http.ResponseWriter, userID, chatID string) (bot.Update, bool) {
	if userID == "" {
		jsonError(w, "user_id is required", http.StatusBadRequest)
		return bot.Update{}, false
	}
	if chatID == "" {
		chatID = userID
	}
	return bot.Update{UserID: userID, ChatID: chatID}, true
}

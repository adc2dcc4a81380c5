package server

import (
	"net/http"
	"strconv"

	"justus/auth"
	"justus/domain/chat"
	"justus/domain/search"
)

type sendRequest struct {
	ReceiverID     string           `json:"receiverId"`
	ConversationID string           `json:"conversationId"`
	Type           chat.MessageType `json:"type"`
	Content        string           `json:"content"`
}

func (r sendRequest) draft(senderID string) chat.Draft {
	msgType := r.Type
	if msgType == "" {
		msgType = chat.TextType
	}
	return chat.Draft{
		SenderID:       senderID,
		ReceiverID:     r.ReceiverID,
		ConversationID: r.ConversationID,
		Type:           msgType,
		Content:        r.Content,
	}
}

type markReadRequest struct {
	ConversationID string `json:"conversationId"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	caller := auth.IdentityFrom(r.Context())
	views, err := s.chat.History(chat.HistoryCommand{
		CallerID:       caller.UserID,
		ConversationID: r.URL.Query().Get("conversationId"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(views))
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	caller := auth.IdentityFrom(r.Context())
	m, err := s.chat.SendMessage(r.Context(), chat.SendCommand{
		Draft:   req.draft(caller.UserID),
		Channel: chat.RequestChannel,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	caller := auth.IdentityFrom(r.Context())
	views, err := s.chat.MarkConversationRead(r.Context(), chat.ReadConversationCommand{
		CallerID:       caller.UserID,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(views))
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	caller := auth.IdentityFrom(r.Context())
	conv, err := s.chat.ResolveConversation(caller.UserID, r.URL.Query().Get("other"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	caller := auth.IdentityFrom(r.Context())
	q := r.URL.Query()
	query := search.NewSearchQuery(q.Get("q"))
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		query.Limit = limit
	}
	views, err := s.chat.Search(r.Context(), chat.SearchCommand{
		CallerID:       caller.UserID,
		ConversationID: q.Get("conversationId"),
		Terms:          query.Terms,
		SenderID:       query.SenderID,
		Limit:          query.Limit,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(views))
}

// nonNil makes empty results encode as [] rather than null.
func nonNil(views []chat.MessageView) []chat.MessageView {
	if views == nil {
		return []chat.MessageView{}
	}
	return views
}

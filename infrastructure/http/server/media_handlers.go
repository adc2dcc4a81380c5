package server

import (
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"justus/auth"
	"justus/domain/chat"
	"justus/errors"

	"github.com/go-chi/chi/v5"
)

const multipartOverhead = 1 << 20

type uploadResponse struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.media.MaxSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(maxSize + multipartOverhead); err != nil {
		s.writeError(w, r, uploadError(err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: file is required", errors.ErrValidation))
		return
	}
	defer func() { _ = file.Close() }()

	// One byte past the limit is enough to know it is too large
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		s.writeError(w, r, uploadError(err))
		return
	}

	caller := auth.IdentityFrom(r.Context())
	meta, err := s.media.Upload(chat.UploadCommand{
		UploaderID:     caller.UserID,
		ConversationID: r.FormValue("conversationId"),
		Filename:       header.Filename,
		ContentType:    header.Header.Get("Content-Type"),
		Data:           data,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		ID:          meta.ID,
		Filename:    meta.Filename,
		ContentType: meta.ContentType,
		Size:        meta.Size,
	})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	caller := auth.IdentityFrom(r.Context())
	meta, data, err := s.media.Download(caller.UserID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": meta.Filename}))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", errors.ErrPayloadTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: invalid multipart body", errors.ErrValidation)
}

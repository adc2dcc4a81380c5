//go:generate go run go.uber.org/mock/mockgen -source=media_service.go -destination=../mocks/mock_media_service.go -package=mocks
package services

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"justus/domain/chat"
	"justus/domain/mimetypes"
	"justus/errors"
	"justus/infrastructure/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type IMediaService interface {
	Upload(cmd chat.UploadCommand) (chat.Media, error)
	Download(callerID, mediaID string) (chat.Media, []byte, error)
	MaxSize() int64
}

// MediaService stores attachments. A file bound to a conversation is only
// readable by its participants.
type MediaService struct {
	log           *slog.Logger
	media         storage.IMediaRepository
	conversations storage.IConversationRepository
	maxSize       int64
	now           func() time.Time
}

func NewMediaService(log *slog.Logger, media storage.IMediaRepository, conversations storage.IConversationRepository, maxSize int64) *MediaService {
	return &MediaService{
		log:           log,
		media:         media,
		conversations: conversations,
		maxSize:       maxSize,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *MediaService) MaxSize() int64 {
	return s.maxSize
}

func (s *MediaService) Upload(cmd chat.UploadCommand) (chat.Media, error) {
	if len(cmd.Data) == 0 {
		return chat.Media{}, fmt.Errorf("%w: file is required", errors.ErrValidation)
	}
	if s.maxSize > 0 && int64(len(cmd.Data)) > s.maxSize {
		return chat.Media{}, fmt.Errorf("%w: limit is %d bytes", errors.ErrPayloadTooLarge, s.maxSize)
	}
	if cmd.ConversationID != "" {
		if err := s.checkParticipant(cmd.ConversationID, cmd.UploaderID); err != nil {
			return chat.Media{}, err
		}
	}

	detected := mimetype.Detect(cmd.Data)
	contentType, ok := sniff(detected)
	if !ok {
		return chat.Media{}, fmt.Errorf("%w: unsupported media type %s", errors.ErrValidation, mimetypes.Normalize(detected.String()))
	}
	if !mimetypes.IsUndetermined(cmd.ContentType) {
		if _, ok = mimetypes.Matches(cmd.ContentType, contentType); !ok {
			return chat.Media{}, fmt.Errorf("%w: declared %s but content is %s", errors.ErrValidation, mimetypes.Normalize(cmd.ContentType), contentType)
		}
	}
	filename := filepath.Base(strings.TrimSpace(cmd.Filename))
	if filename == "." || filename == string(filepath.Separator) {
		filename = "upload"
	}

	meta := chat.Media{
		ID:             uuid.NewString(),
		Filename:       filename,
		ContentType:    string(contentType),
		Size:           int64(len(cmd.Data)),
		UploaderID:     cmd.UploaderID,
		ConversationID: cmd.ConversationID,
		CreatedAt:      s.now(),
	}
	if err := s.media.SaveMedia(meta, cmd.Data); err != nil {
		return chat.Media{}, err
	}
	s.log.Info("Media stored", "media_id", meta.ID, "content_type", meta.ContentType, "size", meta.Size)
	return meta, nil
}

func (s *MediaService) Download(callerID, mediaID string) (chat.Media, []byte, error) {
	meta, err := s.media.GetMediaMeta(mediaID)
	if err != nil {
		return chat.Media{}, nil, err
	}
	if meta.ConversationID != "" {
		if err = s.checkParticipant(meta.ConversationID, callerID); err != nil {
			return chat.Media{}, nil, err
		}
	}
	return s.media.GetMedia(mediaID)
}

// sniff maps detected content onto an attachable type. The declared type of
// an upload is never trusted on its own.
func sniff(detected *mimetype.MIME) (mimetypes.MIME, bool) {
	for _, m := range mimetypes.Attachable {
		if detected.Is(string(m)) {
			return m, true
		}
	}
	return mimetypes.Unknown, false
}

func (s *MediaService) checkParticipant(conversationID, userID string) error {
	conv, err := s.conversations.GetConversation(conversationID)
	if stderrors.Is(err, errors.ErrNotFound) {
		return errors.ErrForbidden
	}
	if err != nil {
		return err
	}
	if !conv.HasParticipant(userID) {
		return errors.ErrForbidden
	}
	return nil
}

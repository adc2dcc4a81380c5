//go:generate go run go.uber.org/mock/mockgen -source=search_index.go -destination=../../mocks/mock_search_index.go -package=mocks
package storage

import (
	"context"
	"log/slog"

	"justus/domain/chat"

	"github.com/abadojack/whatlanggo"
	"github.com/blugelabs/bluge"
)

const (
	fieldID             = "_id"
	fieldContent        = "content"
	fieldConversationID = "conversation_id"
	fieldSenderID       = "sender_id"
	fieldLang           = "lang"
	fieldTimestamp      = "timestamp"
)

type ISearchIndex interface {
	IndexMessage(msg chat.Message) error
	RemoveMessage(id string) error
	Search(ctx context.Context, conversationID, senderID, terms string, limit int) ([]string, error)
}

// SearchIndex is a bluge full-text index over text message content, scoped
// by conversation.
type SearchIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchIndex(writer *bluge.Writer, log *slog.Logger) *SearchIndex {
	return &SearchIndex{writer: writer, log: log}
}

// IndexMessage upserts a text message. Other message types carry a media
// reference rather than words and are skipped.
func (s *SearchIndex) IndexMessage(m chat.Message) error {
	if m.Type != chat.TextType || m.Deleted {
		return nil
	}
	doc := bluge.NewDocument(m.ID).
		AddField(bluge.NewTextField(fieldContent, m.Content).StoreValue()).
		AddField(bluge.NewKeywordField(fieldConversationID, m.ConversationID).StoreValue()).
		AddField(bluge.NewKeywordField(fieldSenderID, m.SenderID).StoreValue()).
		AddField(bluge.NewDateTimeField(fieldTimestamp, m.Timestamp).StoreValue())
	if info := whatlanggo.Detect(m.Content); info.IsReliable() {
		doc.AddField(bluge.NewKeywordField(fieldLang, info.Lang.Iso6391()).StoreValue())
	}
	return s.writer.Update(doc.ID(), doc)
}

func (s *SearchIndex) RemoveMessage(id string) error {
	return s.writer.Delete(bluge.Identifier(id))
}

// Search returns the IDs of the best matching messages of one conversation,
// restricted to one sender when senderID is set.
func (s *SearchIndex) Search(ctx context.Context, conversationID, senderID, terms string, limit int) ([]string, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			s.log.Warn("Unable to close search reader", "error", err)
		}
	}()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField(fieldContent)).
		AddMust(bluge.NewTermQuery(conversationID).SetField(fieldConversationID))
	if senderID != "" {
		query.AddMust(bluge.NewTermQuery(senderID).SetField(fieldSenderID))
	}
	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var ids []string
	match, err := iterator.Next()
	for err == nil && match != nil {
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == fieldID {
				ids = append(ids, string(value))
				return false
			}
			return true
		})
		if err != nil {
			break
		}
		match, err = iterator.Next()
	}
	return ids, err
}

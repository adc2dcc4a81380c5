//go:generate go run go.uber.org/mock/mockgen -source=media_repository.go -destination=../../mocks/mock_media_repository.go -package=mocks
package storage

import (
	"log/slog"

	"justus/domain/chat"

	"github.com/dgraph-io/badger/v4"
)

type IMediaRepository interface {
	SaveMedia(meta chat.Media, data []byte) error
	GetMedia(id string) (chat.Media, []byte, error)
	GetMediaMeta(id string) (chat.Media, error)
}

// MediaRepository is the attachment content store. Metadata and bytes live
// under separate keys so authorization checks never load the blob.
type MediaRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMediaRepository(db *badger.DB, log *slog.Logger) *MediaRepository {
	return &MediaRepository{db: db, log: log}
}

func (r *MediaRepository) SaveMedia(meta chat.Media, data []byte) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if err := setJSON(txn, mediaMetaKey(meta.ID), meta); err != nil {
			return err
		}
		return txn.Set(mediaBlobKey(meta.ID), data)
	})
}

func (r *MediaRepository) GetMediaMeta(id string) (chat.Media, error) {
	var meta chat.Media
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		meta, err = getJSON[chat.Media](txn, mediaMetaKey(id))
		return err
	})
	return meta, err
}

func (r *MediaRepository) GetMedia(id string) (chat.Media, []byte, error) {
	var meta chat.Media
	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		if meta, err = getJSON[chat.Media](txn, mediaMetaKey(id)); err != nil {
			return err
		}
		item, err := txn.Get(mediaBlobKey(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	return meta, data, err
}

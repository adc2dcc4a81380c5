package storage

import (
	"fmt"
	"time"

	"justus/domain/chat"
)

// Key layout. Timestamps are zero padded to 19 digits so that lexicographic
// order is chronological, the message ID breaks ties.
//
//	user:id:{id}                              -> User
//	user:name:{username}                      -> id
//	user:count                                -> uint64
//	conv:id:{id}                              -> Conversation
//	conv:key:{canonicalKey}                   -> id
//	msg:id:{id}                               -> Message
//	msg:conv:{conversationId}:{ts}:{id}       -> id
//	msg:user:{userId}:{ts}:{id}               -> id
//	msg:unread:{conversationId}:{receiverId}:{ts}:{id}
//	msg:undelivered:{receiverId}:{ts}:{id}
//	media:meta:{id}                           -> Media
//	media:blob:{id}                           -> raw bytes
const (
	userIDPrefix     = "user:id:"
	userNamePrefix   = "user:name:"
	userCountKey     = "user:count"
	convIDPrefix     = "conv:id:"
	convKeyPrefix    = "conv:key:"
	msgIDPrefix      = "msg:id:"
	msgConvPrefix    = "msg:conv:"
	msgUserPrefix    = "msg:user:"
	msgUnreadPrefix  = "msg:unread:"
	msgPendingPrefix = "msg:undelivered:"
	mediaMetaPrefix  = "media:meta:"
	mediaBlobPrefix  = "media:blob:"
)

func userKey(id string) []byte { return []byte(userIDPrefix + id) }
func userNameKey(name string) []byte { return []byte(userNamePrefix + name) }
func convKey(id string) []byte { return []byte(convIDPrefix + id) }
func convCanonicalKey(k string) []byte { return []byte(convKeyPrefix + k) }
func messageKey(id string) []byte { return []byte(msgIDPrefix + id) }
func mediaMetaKey(id string) []byte { return []byte(mediaMetaPrefix + id) }
func mediaBlobKey(id string) []byte { return []byte(mediaBlobPrefix + id) }

func suffix(at time.Time, id string) string {
	return fmt.Sprintf("%019d:%s", at.UnixNano(), id)
}

func conversationPrefix(conversationID string) []byte {
	return []byte(msgConvPrefix + conversationID + ":")
}

func userMessagesPrefix(userID string) []byte {
	return []byte(msgUserPrefix + userID + ":")
}

func unreadPrefix(conversationID, receiverID string) []byte {
	return []byte(msgUnreadPrefix + conversationID + ":" + receiverID + ":")
}

func undeliveredPrefix(receiverID string) []byte {
	return []byte(msgPendingPrefix + receiverID + ":")
}

func conversationIndexKey(m chat.Message) []byte {
	return append(conversationPrefix(m.ConversationID), suffix(m.Timestamp, m.ID)...)
}

func userIndexKey(userID string, m chat.Message) []byte {
	return append(userMessagesPrefix(userID), suffix(m.Timestamp, m.ID)...)
}

func unreadKey(m chat.Message) []byte {
	return append(unreadPrefix(m.ConversationID, m.ReceiverID), suffix(m.Timestamp, m.ID)...)
}

func undeliveredKey(m chat.Message) []byte {
	return append(undeliveredPrefix(m.ReceiverID), suffix(m.Timestamp, m.ID)...)
}

// idFromIndexKey returns the trailing message ID of an index key.
func idFromIndexKey(key []byte) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ':' {
			return string(key[i+1:])
		}
	}
	return string(key)
}

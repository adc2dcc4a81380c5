package chat

import "time"

// Media describes a stored attachment. Image and audio messages carry its ID
// as content.
type Media struct {
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	ContentType    string    `json:"contentType"`
	Size           int64     `json:"size"`
	UploaderID     string    `json:"uploaderId"`
	ConversationID string    `json:"conversationId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

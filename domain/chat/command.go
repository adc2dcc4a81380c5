package chat

// Channel tells the lifecycle which surface a command came through.
// Sends over the persistent channel count as delivered immediately.
type Channel int

const (
	RequestChannel Channel = iota
	SocketChannel
)

type SendCommand struct {
	Draft   Draft
	Channel Channel
}

type EditCommand struct {
	CallerID  string
	MessageID string
	Content   string
}

type DeleteCommand struct {
	CallerID  string
	MessageID string
}

type ReadConversationCommand struct {
	CallerID       string
	ConversationID string
}

type ReadMessageCommand struct {
	CallerID  string
	MessageID string
}

type TypingCommand struct {
	SenderID   string
	ReceiverID string
}

type HistoryCommand struct {
	CallerID       string
	ConversationID string
}

type SearchCommand struct {
	CallerID       string
	ConversationID string
	Terms          string
	SenderID       string
	Limit          int
}

type UploadCommand struct {
	UploaderID     string
	ConversationID string
	Filename       string
	ContentType    string
	Data           []byte
}

package services

import (
	"context"
	"log/slog"
	"testing"

	"justus/domain/chat"
	"justus/domain/event"
	"justus/errors"
	"justus/mocks"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type chatFixture struct {
	service       *ChatService
	lifecycle     *mocks.MockIMessageLifecycle
	resolver      *mocks.MockIConversationResolver
	conversations *mocks.MockIConversationRepository
	messages      *mocks.MockIMessageRepository
	users         *mocks.MockIUserRepository
	index         *mocks.MockISearchIndex
	publisher     *mocks.MockPublisher
	observer      *mocks.MockOperationObserver
}

func newChatFixture(t *testing.T) chatFixture {
	ctrl := gomock.NewController(t)
	f := chatFixture{
		lifecycle:     mocks.NewMockIMessageLifecycle(ctrl),
		resolver:      mocks.NewMockIConversationResolver(ctrl),
		conversations: mocks.NewMockIConversationRepository(ctrl),
		messages:      mocks.NewMockIMessageRepository(ctrl),
		users:         mocks.NewMockIUserRepository(ctrl),
		index:         mocks.NewMockISearchIndex(ctrl),
		publisher:     mocks.NewMockPublisher(ctrl),
		observer:      mocks.NewMockOperationObserver(ctrl),
	}
	f.observer.EXPECT().IncOperation(gomock.Any(), gomock.Any()).AnyTimes()
	f.service = NewChatService(
		logs.GetLoggerFromLevel(slog.LevelDebug),
		f.lifecycle, f.resolver, f.conversations, f.messages, f.users, f.index, f.publisher, f.observer,
	)
	return f
}

func TestChatService_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("should persist then notify sender and receiver", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t)
		cmd := chat.SendCommand{Draft: chat.Draft{SenderID: "alice", ReceiverID: "bob", Type: chat.TextType, Content: "hi"}}
		stored := chat.Message{ID: "m1", SenderID: "alice", ReceiverID: "bob", ConversationID: "c1", Content: "hi"}
		view := chat.MessageView{ID: "m1", SenderID: "alice", ReceiverID: "bob", ConversationID: "c1"}

		f.users.EXPECT().GetUserByID("bob").Return(chat.User{ID: "bob"}, nil)
		f.lifecycle.EXPECT().Send(cmd).Return(stored, nil)
		f.index.EXPECT().IndexMessage(stored).Return(nil)
		f.lifecycle.EXPECT().ToView(stored).Return(view, nil)
		f.publisher.EXPECT().Publish(ctx, event.UserTopic("alice"), view).Return(1)
		f.publisher.EXPECT().Publish(ctx, event.UserTopic("bob"), view).Return(0)

		m, err := f.service.SendMessage(ctx, cmd)

		req.NoError(err)
		req.Equal("c1", m.ConversationID)
	})

	t.Run("should refuse an unknown receiver", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t)
		f.users.EXPECT().GetUserByID("ghost").Return(chat.User{}, errors.ErrNotFound)
		f.lifecycle.EXPECT().Send(gomock.Any()).Times(0)

		_, err := f.service.SendMessage(ctx, chat.SendCommand{
			Draft: chat.Draft{SenderID: "alice", ReceiverID: "ghost", Type: chat.TextType, Content: "hi"},
		})
		req.ErrorIs(err, errors.ErrNotFound)
	})

	t.Run("should censor text when moderation is on", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t)
		moderator := mocks.NewMockModerator(gomock.NewController(t))
		f.service.WithModerator(moderator)

		moderator.EXPECT().Censor("you idiot").Return("you *****", []string{"idiot"})
		f.conversations.EXPECT().GetConversation(gomock.Any()).Times(0)
		f.lifecycle.EXPECT().Send(gomock.Any()).DoAndReturn(func(cmd chat.SendCommand) (chat.Message, error) {
			req.Equal("you *****", cmd.Draft.Content)
			return chat.Message{ID: "m1", SenderID: "alice", ReceiverID: "bob", Content: cmd.Draft.Content}, nil
		})
		f.index.EXPECT().IndexMessage(gomock.Any()).Return(nil)
		f.lifecycle.EXPECT().ToView(gomock.Any()).Return(chat.MessageView{ID: "m1"}, nil)
		f.publisher.EXPECT().Publish(ctx, gomock.Any(), gomock.Any()).Return(1).Times(2)

		_, err := f.service.SendMessage(ctx, chat.SendCommand{
			Draft: chat.Draft{SenderID: "alice", ConversationID: "c1", Type: chat.TextType, Content: "you idiot"},
		})
		req.NoError(err)
	})
}

func TestChatService_EditMessage(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newChatFixture(t)
	cmd := chat.EditCommand{CallerID: "alice", MessageID: "m1", Content: "hello"}
	edited := chat.Message{ID: "m1", SenderID: "alice", ReceiverID: "bob", Content: "hello", Edited: true}
	view := chat.MessageView{ID: "m1", SenderID: "alice", ReceiverID: "bob", Content: "hello", Edited: true}

	f.lifecycle.EXPECT().Edit(cmd).Return(edited, nil)
	f.index.EXPECT().IndexMessage(edited).Return(nil)
	f.lifecycle.EXPECT().ToView(edited).Return(view, nil)
	envelope := event.NewMessageEvent(event.MessageEdited, view)
	f.publisher.EXPECT().Publish(ctx, event.UserTopic("alice"), envelope).Return(1)
	f.publisher.EXPECT().Publish(ctx, event.UserTopic("bob"), envelope).Return(1)
	f.publisher.EXPECT().Publish(ctx, event.TopicEdited, view).Return(2)

	got, err := f.service.EditMessage(ctx, cmd)
	req.NoError(err)
	req.Equal(view, got)
}

func TestChatService_DeleteMessage(t *testing.T) {
	ctx := context.Background()
	deleted := chat.Message{ID: "m1", SenderID: "alice", ReceiverID: "bob", Deleted: true}
	view := chat.MessageView{ID: "m1", SenderID: "alice", ReceiverID: "bob", Deleted: true}

	t.Run("should broadcast the first deletion", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t)
		f.lifecycle.EXPECT().MarkDeleted(gomock.Any()).Return(deleted, true, nil)
		f.lifecycle.EXPECT().ToView(deleted).Return(view, nil)
		f.index.EXPECT().RemoveMessage("m1").Return(nil)
		f.publisher.EXPECT().Publish(ctx, event.UserTopic("alice"), gomock.Any()).Return(1)
		f.publisher.EXPECT().Publish(ctx, event.UserTopic("bob"), gomock.Any()).Return(1)
		f.publisher.EXPECT().Publish(ctx, event.TopicDeleted, view).Return(1)

		_, err := f.service.DeleteMessage(ctx, chat.DeleteCommand{CallerID: "alice", MessageID: "m1"})
		req.NoError(err)
	})

	t.Run("should stay quiet when already deleted", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t)
		f.lifecycle.EXPECT().MarkDeleted(gomock.Any()).Return(deleted, false, nil)
		f.lifecycle.EXPECT().ToView(deleted).Return(view, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		got, err := f.service.DeleteMessage(ctx, chat.DeleteCommand{CallerID: "alice", MessageID: "m1"})
		req.NoError(err)
		req.True(got.Deleted)
	})

	t.Run("should refuse another caller", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t)
		f.lifecycle.EXPECT().MarkDeleted(gomock.Any()).Return(chat.Message{}, false, errors.ErrUnauthorized)

		_, err := f.service.DeleteMessage(ctx, chat.DeleteCommand{CallerID: "bob", MessageID: "m1"})
		req.ErrorIs(err, errors.ErrUnauthorized)
	})
}

func TestChatService_MarkConversationRead(t *testing.T) {
	ctx := context.Background()

	t.Run("should notify the sender of every message read", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t)
		read := []chat.Message{{ID: "m1", SenderID: "alice"}, {ID: "m2", SenderID: "alice"}}
		views := []chat.MessageView{{ID: "m1", SenderID: "alice", Read: true}, {ID: "m2", SenderID: "alice", Read: true}}

		f.conversations.EXPECT().GetConversation("c1").Return(aliceBob, nil)
		f.lifecycle.EXPECT().MarkReadConversation("c1", "bob").Return(read, nil)
		f.lifecycle.EXPECT().ToViews(read).Return(views, nil)
		f.publisher.EXPECT().Publish(ctx, event.UserTopic("alice"), gomock.Any()).Return(1).Times(2)

		got, err := f.service.MarkConversationRead(ctx, chat.ReadConversationCommand{CallerID: "bob", ConversationID: "c1"})
		req.NoError(err)
		req.Len(got, 2)
	})

	t.Run("should answer an outsider like a missing conversation", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t)
		f.conversations.EXPECT().GetConversation("c1").Return(aliceBob, nil)
		f.conversations.EXPECT().GetConversation("nope").Return(chat.Conversation{}, errors.ErrNotFound)
		f.lifecycle.EXPECT().MarkReadConversation(gomock.Any(), gomock.Any()).Times(0)

		outsider, err := f.service.MarkConversationRead(ctx, chat.ReadConversationCommand{CallerID: "mallory", ConversationID: "c1"})
		req.NoError(err)
		missing, err := f.service.MarkConversationRead(ctx, chat.ReadConversationCommand{CallerID: "mallory", ConversationID: "nope"})
		req.NoError(err)
		req.Equal(outsider, missing)
		req.Empty(outsider)
	})
}

func TestChatService_MarkMessageRead(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newChatFixture(t)
	read := chat.Message{ID: "m1", SenderID: "alice", ReceiverID: "bob", Read: true}
	view := chat.MessageView{ID: "m1", SenderID: "alice", ReceiverID: "bob", Read: true}

	f.lifecycle.EXPECT().MarkReadMessage(chat.ReadMessageCommand{CallerID: "bob", MessageID: "m1"}).Return(read, true, nil)
	f.lifecycle.EXPECT().ToView(read).Return(view, nil)
	f.publisher.EXPECT().Publish(ctx, event.UserTopic("alice"), event.NewMessageEvent(event.MessageRead, view)).Return(1)

	_, err := f.service.MarkMessageRead(ctx, chat.ReadMessageCommand{CallerID: "bob", MessageID: "m1"})
	req.NoError(err)
}

func TestChatService_Typing(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newChatFixture(t)
	f.publisher.EXPECT().Publish(ctx, event.UserTopic("bob"), event.Event{Type: event.Typing, User: "alice"}).Return(1)

	req.NoError(f.service.Typing(ctx, chat.TypingCommand{SenderID: "alice", ReceiverID: "bob"}))
	req.ErrorIs(f.service.Typing(ctx, chat.TypingCommand{SenderID: "alice"}), errors.ErrValidation)
}

func TestChatService_History(t *testing.T) {
	t.Run("should list a conversation the caller takes part in", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t)
		messages := []chat.Message{{ID: "m1"}, {ID: "m2"}}
		f.conversations.EXPECT().GetConversation("c1").Return(aliceBob, nil)
		f.messages.EXPECT().GetConversationMessages("c1").Return(messages, nil)
		f.lifecycle.EXPECT().ToViews(messages).Return([]chat.MessageView{{ID: "m1"}, {ID: "m2"}}, nil)

		views, err := f.service.History(chat.HistoryCommand{CallerID: "alice", ConversationID: "c1"})
		req.NoError(err)
		req.Len(views, 2)
	})

	t.Run("should list nothing for an outsider", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t)
		f.conversations.EXPECT().GetConversation("c1").Return(aliceBob, nil)
		f.messages.EXPECT().GetConversationMessages(gomock.Any()).Times(0)

		views, err := f.service.History(chat.HistoryCommand{CallerID: "mallory", ConversationID: "c1"})
		req.NoError(err)
		req.Empty(views)
	})

	t.Run("should list every message of the caller without a conversation", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t)
		messages := []chat.Message{{ID: "m1"}}
		f.messages.EXPECT().GetUserMessages("alice").Return(messages, nil)
		f.lifecycle.EXPECT().ToViews(messages).Return([]chat.MessageView{{ID: "m1"}}, nil)

		views, err := f.service.History(chat.HistoryCommand{CallerID: "alice"})
		req.NoError(err)
		req.Len(views, 1)
	})
}

func TestChatService_ResolveConversation(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)
	f.users.EXPECT().GetUserByID("bob").Return(chat.User{ID: "bob"}, nil)
	f.resolver.EXPECT().Resolve("alice", "bob").Return(aliceBob, nil)

	conv, err := f.service.ResolveConversation("alice", "bob")
	req.NoError(err)
	req.Equal("c1", conv.ID)

	_, err = f.service.ResolveConversation("alice", " ")
	req.ErrorIs(err, errors.ErrValidation)
}

func TestChatService_Search(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newChatFixture(t)
	hit := chat.Message{ID: "m1", ConversationID: "c1", Content: "lunch at noon"}
	gone := chat.Message{ID: "m2", ConversationID: "c1", Deleted: true}

	f.conversations.EXPECT().GetConversation("c1").Return(aliceBob, nil)
	f.index.EXPECT().Search(ctx, "c1", "", "lunch", defaultSearchLimit).Return([]string{"m1", "m2", "m3"}, nil)
	f.messages.EXPECT().GetMessage("m1").Return(hit, nil)
	f.messages.EXPECT().GetMessage("m2").Return(gone, nil)
	f.messages.EXPECT().GetMessage("m3").Return(chat.Message{}, errors.ErrNotFound)
	f.lifecycle.EXPECT().ToViews([]chat.Message{hit}).Return([]chat.MessageView{{ID: "m1"}}, nil)

	views, err := f.service.Search(ctx, chat.SearchCommand{CallerID: "alice", ConversationID: "c1", Terms: "lunch"})
	req.NoError(err)
	req.Len(views, 1)

	_, err = f.service.Search(ctx, chat.SearchCommand{CallerID: "alice", ConversationID: "c1"})
	req.ErrorIs(err, errors.ErrValidation)
}

func TestChatService_SearchBySender(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newChatFixture(t)
	fromBob := chat.Message{ID: "m2", SenderID: "bob", ConversationID: "c1", Content: "lunch!"}

	// The sender narrows the index query itself
	f.conversations.EXPECT().GetConversation("c1").Return(aliceBob, nil)
	f.index.EXPECT().Search(ctx, "c1", "bob", "lunch", 5).Return([]string{"m2"}, nil)
	f.messages.EXPECT().GetMessage("m2").Return(fromBob, nil)
	f.lifecycle.EXPECT().ToViews([]chat.Message{fromBob}).Return([]chat.MessageView{{ID: "m2"}}, nil)

	views, err := f.service.Search(ctx, chat.SearchCommand{CallerID: "alice", ConversationID: "c1", Terms: "lunch", SenderID: "bob", Limit: 5})
	req.NoError(err)
	req.Equal("m2", views[0].ID)
}

func TestChatService_ConfirmDeliveries(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newChatFixture(t)
	delivered := []chat.Message{{ID: "m1", SenderID: "alice"}}
	view := chat.MessageView{ID: "m1", SenderID: "alice", Delivered: true}

	f.lifecycle.EXPECT().MarkDeliveredTo("bob").Return(delivered, nil)
	f.lifecycle.EXPECT().ToViews(delivered).Return([]chat.MessageView{view}, nil)
	f.publisher.EXPECT().Publish(ctx, event.UserTopic("alice"), event.NewMessageEvent(event.MessageDelivered, view)).Return(1)

	n, err := f.service.ConfirmDeliveries(ctx, "bob")
	req.NoError(err)
	req.Equal(1, n)

	// Nothing pending
	f.lifecycle.EXPECT().MarkDeliveredTo("bob").Return(nil, nil)
	n, err = f.service.ConfirmDeliveries(ctx, "bob")
	req.NoError(err)
	req.Zero(n)
}

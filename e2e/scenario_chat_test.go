package e2e

import (
	"encoding/json"
	"net/http"
	"testing"

	"justus/domain/chat"
	"justus/domain/event"

	"github.com/stretchr/testify/suite"
)

type testChatSuite struct {
	BaseSuite
}

func TestChatSuite(t *testing.T) {
	suite.Run(t, &testChatSuite{})
}

func (s *testChatSuite) TestHealth() {
	s.Step("Health endpoint answers")
	var health map[string]any
	s.Require().Equal(http.StatusOK, s.Call(http.MethodGet, "/health", "", nil, &health))
	s.Require().Equal("UP", health["status"])
}

func (s *testChatSuite) TestAnonymousIsRejected() {
	s.Step("Protected routes need a credential")
	s.Require().Equal(http.StatusUnauthorized, s.Call(http.MethodGet, "/chat/messages", "", nil, nil))
	s.Require().Equal(http.StatusUnauthorized, s.Call(http.MethodGet, "/chat/messages", "not-a-token", nil, nil))
}

func (s *testChatSuite) TestSocketRoundTrip() {
	var alice, bob chat.Session

	s.Run("Step 1: Register two accounts", func() {
		var ok bool
		alice, ok = s.NewAccount("alice")
		if !ok {
			s.T().Skip("instance is full, run against a fresh store")
		}
		bob, ok = s.NewAccount("bob")
		if !ok {
			s.T().Skip("instance is full, run against a fresh store")
		}
	})
	if alice.Token == "" || bob.Token == "" {
		return
	}

	s.Run("Step 2: Alice sends over the socket, Bob receives it", func() {
		aliceWS := s.Dial(alice.Token)
		defer func() { _ = aliceWS.Close() }()
		bobWS := s.Dial(bob.Token)
		defer func() { _ = bobWS.Close() }()

		s.Require().NoError(aliceWS.WriteJSON(map[string]any{
			"action":  "chat.send",
			"payload": map[string]string{"receiverId": bob.User.ID, "content": "hello from e2e"},
		}))

		var view chat.MessageView
		s.Require().NoError(json.Unmarshal(s.ReadTopic(bobWS, event.UserTopic(bob.User.ID)), &view))
		s.Require().Equal("hello from e2e", view.Content)
		s.Require().Equal(alice.User.ID, view.SenderID)
		s.Require().True(view.Delivered)
	})
}

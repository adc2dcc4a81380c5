package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"justus/domain/chat"

	"github.com/gookit/color"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type BaseSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.BaseURL == "" {
		s.T().Skip("E2E_BASE_URL not set")
	}
	s.client = &http.Client{Timeout: 10 * time.Second}
}

// Step prints a colorized header for a scenario step in logs
func (s *BaseSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Call sends a JSON request and decodes the JSON answer into out when set.
func (s *BaseSuite) Call(method, path, token string, body, out any) int {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		s.Require().NoError(err)
	}
	r, err := http.NewRequest(method, s.Config.BaseURL+path, bytes.NewReader(payload))
	s.Require().NoError(err)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.client.Do(r)
	s.Require().NoError(err, "Failed to reach "+s.Config.BaseURL)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		fmt.Fprintf(&logBuilder, "\nREQUEST:\n%s\nRESPONSE:\n%s", payload, data)
	}
	s.T().Log(logBuilder.String())

	if out != nil && len(data) > 0 {
		s.Require().NoError(json.Unmarshal(data, out))
	}
	return resp.StatusCode
}

// NewAccount registers a unique user, or logs in when the instance is full
// and the name was registered by a previous run.
func (s *BaseSuite) NewAccount(prefix string) (chat.Session, bool) {
	username := prefix + "-" + uuid.NewString()[:8]
	var session chat.Session
	status := s.Call(http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"password": s.Config.Password,
	}, &session)
	return session, status == http.StatusOK
}

// Dial opens the persistent channel with the token query parameter.
func (s *BaseSuite) Dial(token string) *websocket.Conn {
	u := "ws" + strings.TrimPrefix(s.Config.BaseURL, "http") + "/ws?token=" + url.QueryEscape(token)
	ws, _, err := websocket.DefaultDialer.Dial(u, nil)
	s.Require().NoError(err)

	// Frames are handled after the default subscriptions, so the refusal of
	// the errors topic proves the inbox is live
	s.Require().NoError(ws.WriteJSON(map[string]string{"action": "subscribe", "topic": "errors"}))
	s.ReadTopic(ws, "errors")
	return ws
}

// ReadTopic waits for the next frame on topic, skipping the others.
func (s *BaseSuite) ReadTopic(ws *websocket.Conn, topic string) json.RawMessage {
	deadline := time.Now().Add(5 * time.Second)
	for {
		s.Require().NoError(ws.SetReadDeadline(deadline))
		var f struct {
			Topic   string          `json:"topic"`
			Payload json.RawMessage `json:"payload"`
		}
		s.Require().NoError(ws.ReadJSON(&f), "no frame on "+topic)
		if f.Topic == topic {
			return f.Payload
		}
	}
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"careerhub/server/internal/database"
	"careerhub/server/internal/handlers"
	"careerhub/server/internal/messaging"
	"careerhub/server/internal/models"
	"careerhub/server/internal/routes"
	"careerhub/server/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	app    *fiber.App
	tokens *utils.TokenIssuer
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	db, err := database.OpenBadger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	directory := database.NewBadgerDirectory(db)
	for _, id := range []string{"alice", "bob", "conversations", "unread"} {
		require.NoError(t, directory.PutProfile(models.Profile{ID: id, Name: id, Contact: id + "@example.com"}))
	}

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	service := messaging.NewService(database.NewBadgerMessageStore(db), directory, log)
	tokens := utils.NewTokenIssuer("handler-test-secret", time.Hour)

	app := fiber.New()
	routes.SetupRoutes(app, routes.Dependencies{
		Messages:    handlers.NewMessageHandler(service, log),
		Attachments: handlers.NewAttachmentHandler(t.TempDir(), 1024),
		Tokens:      tokens,
	})
	return testServer{app: app, tokens: tokens}
}

func (s testServer) do(t *testing.T, method, path, userID string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if userID != "" {
		token, err := s.tokens.GenerateToken(userID, userID+"@example.com")
		require.NoError(t, err)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return s.send(t, req)
}

func (s testServer) send(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func Test_Messaging_Flow_Over_HTTP(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	for _, content := range []string{"one", "two", "three"} {
		status, env := server.do(t, http.MethodPost, "/api/v1/messages", "alice", map[string]string{"receiverId": "bob", "content": content})
		req.Equal(fiber.StatusCreated, status, env.Error)
		req.True(env.Success)
	}
	status, env := server.do(t, http.MethodPost, "/api/v1/messages", "bob", map[string]string{"receiverId": "alice", "content": "reply"})
	req.Equal(fiber.StatusCreated, status)
	var reply models.Message
	req.NoError(json.Unmarshal(env.Data, &reply))

	status, env = server.do(t, http.MethodGet, "/api/v1/messages/conversations", "bob", nil)
	req.Equal(fiber.StatusOK, status)
	var conversations []models.ConversationSummary
	req.NoError(json.Unmarshal(env.Data, &conversations))
	req.Len(conversations, 1)
	req.Equal("alice", conversations[0].CounterpartID)
	req.Equal(3, conversations[0].UnreadCount)
	req.Equal("reply", conversations[0].LatestMessageContent)

	status, env = server.do(t, http.MethodGet, "/api/v1/messages/with/alice?limit=2", "bob", nil)
	req.Equal(fiber.StatusOK, status)
	var thread struct {
		Messages []models.Message `json:"messages"`
		Count    int              `json:"count"`
	}
	req.NoError(json.Unmarshal(env.Data, &thread))
	req.Equal(2, thread.Count)
	req.Equal("three", thread.Messages[0].Content)
	req.Equal("reply", thread.Messages[1].Content)

	status, env = server.do(t, http.MethodGet, "/api/v1/messages/unread", "bob", nil)
	req.Equal(fiber.StatusOK, status)
	req.JSONEq(`{"unreadCount":3}`, string(env.Data))

	status, env = server.do(t, http.MethodPut, "/api/v1/messages/conversations/alice/read", "bob", nil)
	req.Equal(fiber.StatusOK, status)
	req.JSONEq(`{"updatedCount":3}`, string(env.Data))

	status, env = server.do(t, http.MethodPut, "/api/v1/messages/conversations/alice/read", "bob", nil)
	req.Equal(fiber.StatusOK, status)
	req.JSONEq(`{"updatedCount":0}`, string(env.Data))

	status, env = server.do(t, http.MethodPut, "/api/v1/messages/"+reply.ID+"/read", "bob", nil)
	req.Equal(fiber.StatusForbidden, status)
	req.False(env.Success)

	status, env = server.do(t, http.MethodPut, "/api/v1/messages/"+reply.ID+"/read", "alice", nil)
	req.Equal(fiber.StatusOK, status)
	req.JSONEq(`{"id":"`+reply.ID+`"}`, string(env.Data))
}

func Test_Threads_Open_For_Ids_That_Match_Route_Names(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	for _, counterpart := range []string{"conversations", "unread"} {
		status, env := server.do(t, http.MethodPost, "/api/v1/messages", "alice", map[string]string{"receiverId": counterpart, "content": "hi " + counterpart})
		req.Equal(fiber.StatusCreated, status, env.Error)

		status, env = server.do(t, http.MethodGet, "/api/v1/messages/with/"+counterpart, "alice", nil)
		req.Equal(fiber.StatusOK, status, env.Error)
		var thread struct {
			Messages []models.Message `json:"messages"`
		}
		req.NoError(json.Unmarshal(env.Data, &thread))
		req.Len(thread.Messages, 1)
		req.Equal(counterpart, thread.Messages[0].ReceiverID)
	}
}

func Test_Error_Status_Mapping(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   any
		want   int
	}{
		{"no token", http.MethodGet, "/api/v1/messages/conversations", "", nil, fiber.StatusUnauthorized},
		{"self message", http.MethodPost, "/api/v1/messages", "alice", map[string]string{"receiverId": "alice", "content": "hi"}, fiber.StatusBadRequest},
		{"missing content", http.MethodPost, "/api/v1/messages", "alice", map[string]string{"receiverId": "bob"}, fiber.StatusBadRequest},
		{"unknown receiver", http.MethodPost, "/api/v1/messages", "alice", map[string]string{"receiverId": "ghost", "content": "hi"}, fiber.StatusNotFound},
		{"unknown counterpart", http.MethodGet, "/api/v1/messages/with/ghost", "alice", nil, fiber.StatusNotFound},
		{"negative limit", http.MethodGet, "/api/v1/messages/with/bob?limit=-1", "alice", nil, fiber.StatusBadRequest},
		{"non numeric limit", http.MethodGet, "/api/v1/messages/with/bob?limit=abc", "alice", nil, fiber.StatusBadRequest},
		{"unknown message", http.MethodPut, "/api/v1/messages/missing/read", "alice", nil, fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := server.do(t, tt.method, tt.path, tt.user, tt.body)
			require.Equal(t, tt.want, status)
			require.False(t, env.Success)
			require.NotEmpty(t, env.Error)
		})
	}
}

func Test_Invalid_Token_Is_Rejected(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	token, err := utils.NewTokenIssuer("another-secret", time.Hour).GenerateToken("alice", "")
	req.NoError(err)
	request := httptest.NewRequest(http.MethodGet, "/api/v1/messages/conversations", nil)
	request.AddCookie(&http.Cookie{Name: "token", Value: token})

	status, env := server.send(t, request)
	req.Equal(fiber.StatusUnauthorized, status)
	req.Equal("Unauthorized - Invalid token", env.Error)
}

func uploadRequest(t *testing.T, server testServer, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attachments", &body)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	token, err := server.tokens.GenerateToken("alice", "")
	require.NoError(t, err)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	return req
}

func Test_Upload_And_Fetch_Attachment(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

	status, env := server.send(t, uploadRequest(t, server, "portfolio.bin", png))
	req.Equal(fiber.StatusCreated, status, env.Error)
	var uploaded struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	}
	req.NoError(json.Unmarshal(env.Data, &uploaded))
	req.Equal("image/png", uploaded.Type)
	req.True(strings.HasPrefix(uploaded.URL, "/attachments/"))
	req.True(strings.HasSuffix(uploaded.URL, ".png"))

	resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, uploaded.URL, nil), -1)
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(fiber.StatusOK, resp.StatusCode)

	status, _ = server.send(t, httptest.NewRequest(http.MethodGet, "/attachments/missing.png", nil))
	req.Equal(fiber.StatusNotFound, status)
}

func Test_Upload_Rejects_Disallowed_And_Oversized_Files(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	executable := append([]byte("MZ"), make([]byte, 64)...)
	status, env := server.send(t, uploadRequest(t, server, "resume.pdf", executable))
	req.Equal(fiber.StatusUnsupportedMediaType, status)
	req.False(env.Success)

	status, _ = server.send(t, uploadRequest(t, server, "notes.txt", bytes.Repeat([]byte("a"), 2048)))
	req.Equal(fiber.StatusBadRequest, status)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"travel-assistant/internal/domain"
	"travel-assistant/internal/envelope"
	"travel-assistant/internal/params"
	"travel-assistant/internal/usecase"
)

type stubMemory struct {
	loadOut any
	saveOut any
	err     error
	got     params.Map
}

func (s *stubMemory) Load(_ context.Context, p params.Map) (any, error) {
	s.got = p
	return s.loadOut, s.err
}

func (s *stubMemory) Save(_ context.Context, p params.Map) (any, error) {
	s.got = p
	return s.saveOut, s.err
}

func memoryEvent(path string, props string) domain.InboundEvent {
	return domain.InboundEvent{
		ActionGroup: "memory",
		APIPath:     path,
		HTTPMethod:  http.MethodPost,
		RequestBody: json.RawMessage(`{"content":{"application/json":{"properties":` + props + `}}}`),
	}
}

func handleMemory(t *testing.T, mem *stubMemory, ev domain.InboundEvent) envelope.APIResponse {
	t.Helper()
	h, err := NewMemoryHandler(NewMemoryRegistry(mem), zerolog.Nop())
	require.NoError(t, err)
	resp, err := h.Handle(context.Background(), ev)
	require.NoError(t, err)
	return resp
}

func TestMemoryHandler_Load(t *testing.T) {
	mem := &stubMemory{loadOut: usecase.MemoryFound{Status: "found", History: "去過<大阪>", LastUpdated: "2026-01-01T00:00:00Z"}}
	resp := handleMemory(t, mem, memoryEvent(PathGetMemory, `[{"name":"userId","value":"u1"},{"name":"sessionId","value":"s1"}]`))

	require.Equal(t, http.StatusOK, resp.Response.HTTPStatusCode)
	require.Equal(t, PathGetMemory, resp.Response.APIPath)
	require.Equal(t, "u1", mem.got.Get("userId"))
	require.JSONEq(t,
		`{"status":"found","history":"去過<大阪>","last_updated":"2026-01-01T00:00:00Z"}`,
		resp.Response.ResponseBody[envelope.ContentTypeJSON].Body)
}

func TestMemoryHandler_Save(t *testing.T) {
	mem := &stubMemory{saveOut: usecase.MemoryMessage{Status: "success", Message: usecase.MsgMemorySaved}}
	resp := handleMemory(t, mem, memoryEvent(PathSaveMemory, `[{"name":"userId","value":"u1"},{"name":"sessionId","value":"s1"},{"name":"conversation","value":"hi"}]`))

	require.Equal(t, http.StatusOK, resp.Response.HTTPStatusCode)
	require.Equal(t, "hi", mem.got.Get("conversation"))
	require.Contains(t, resp.Response.ResponseBody[envelope.ContentTypeJSON].Body, `"success"`)
}

func TestMemoryHandler_ErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		err    error
		status int
		want   string
	}{
		{name: "missing parameter", path: PathGetMemory, err: &usecase.Error{Code: usecase.ErrorMissingParameter, Message: "缺少 userId"}, status: http.StatusBadRequest, want: "缺少 userId"},
		{name: "unknown path", path: "/delete_memory", status: http.StatusBadRequest, want: "不支援的功能：/delete_memory"},
		{name: "persistence", path: PathSaveMemory, err: &usecase.Error{Code: usecase.ErrorPersistenceFailure, Err: errors.New("throttled")}, status: http.StatusInternalServerError, want: usecase.MsgPersistenceFailure},
		{name: "untyped", path: PathGetMemory, err: errors.New("boom"), status: http.StatusInternalServerError, want: usecase.MsgInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := handleMemory(t, &stubMemory{err: tc.err}, memoryEvent(tc.path, `[]`))
			require.Equal(t, tc.status, resp.Response.HTTPStatusCode)
			require.Equal(t, tc.path, resp.Response.APIPath)

			var body errorResponse
			require.NoError(t, json.Unmarshal([]byte(resp.Response.ResponseBody[envelope.ContentTypeJSON].Body), &body))
			require.Equal(t, tc.want, body.Error)
		})
	}
}

func TestNewMemoryHandler_NilRegistry(t *testing.T) {
	_, err := NewMemoryHandler(nil, zerolog.Nop())
	require.Error(t, err)
}

package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"travel-assistant/internal/params"
	"travel-assistant/internal/usecase"
)

func echo(_ context.Context, req Request) (string, error) {
	return req.Name + ":" + req.Params.Get("q"), nil
}

func TestDispatch_KnownAction(t *testing.T) {
	r := New[string]().Register("echo", Func[string](echo))

	out, err := r.Dispatch(context.Background(), Request{Name: "echo", Params: params.Map{"q": "hi"}})
	require.NoError(t, err)
	require.Equal(t, "echo:hi", out)
}

func TestDispatch_UnknownAction(t *testing.T) {
	r := New[string]().Register("echo", Func[string](echo))

	out, err := r.Dispatch(context.Background(), Request{Name: "fly_to_moon"})
	require.Error(t, err)
	require.Empty(t, out)
	require.Equal(t, usecase.ErrorUnsupportedOperation, usecase.CodeOf(err))
	require.Contains(t, usecase.Apology(err), "fly_to_moon")
}

func TestDispatch_PropagatesActionError(t *testing.T) {
	boom := errors.New("boom")
	r := New[int]().Register("fail", Func[int](func(context.Context, Request) (int, error) { return 0, boom }))

	_, err := r.Dispatch(context.Background(), Request{Name: "fail"})
	require.ErrorIs(t, err, boom)
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	r := New[string]().Register("echo", Func[string](echo))
	require.Panics(t, func() { r.Register("echo", Func[string](echo)) })
	require.Panics(t, func() { r.Register("", Func[string](echo)) })
}

func TestNames_Sorted(t *testing.T) {
	r := New[string]().
		Register("b", Func[string](echo)).
		Register("a", Func[string](echo))
	require.Equal(t, []string{"a", "b"}, r.Names())
}

func TestRequest_SessionAttr(t *testing.T) {
	require.Empty(t, Request{}.SessionAttr("x"))
	require.Equal(t, "v", Request{SessionAttributes: map[string]string{"x": "v"}}.SessionAttr("x"))
}

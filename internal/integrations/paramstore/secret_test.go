package paramstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	vals     map[string]string
	err      error
	failOnce bool
	calls    int
}

func (f *fakeGetter) GetParameter(_ context.Context, name string) (string, error) {
	f.calls++
	if f.failOnce {
		f.failOnce = false
		return "", errors.New("temporary ssm failure")
	}
	if f.err != nil {
		return "", f.err
	}
	return f.vals[name], nil
}

func TestSecret_FetchedOnce(t *testing.T) {
	g := &fakeGetter{vals: map[string]string{"/travel/line-token": "tok"}}
	s := NewSecret(g, "/travel/line-token")

	for i := 0; i < 3; i++ {
		v, err := s.Key(context.Background())
		require.NoError(t, err)
		require.Equal(t, "tok", v)
	}
	require.Equal(t, 1, g.calls, "SSM must only be called once per process lifetime")
}

func TestSecret_RetriesAfterTransientFailure(t *testing.T) {
	g := &fakeGetter{vals: map[string]string{"p": "tok"}, failOnce: true}
	s := NewSecret(g, "p")

	_, err := s.Key(context.Background())
	require.ErrorContains(t, err, "temporary ssm failure")

	v, err := s.Key(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok", v)
	require.Equal(t, 2, g.calls)
}

func TestSecret_JSONToken(t *testing.T) {
	g := &fakeGetter{vals: map[string]string{"p": `{"token":"sk-json"}`}}
	v, err := NewSecret(g, "p").Key(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sk-json", v)
}

func TestSecret_Errors(t *testing.T) {
	cases := []struct {
		name   string
		getter Getter
		param  string
		want   string
	}{
		{name: "getter error", getter: &fakeGetter{err: errors.New("ssm unavailable")}, param: "p", want: "ssm unavailable"},
		{name: "nil getter", getter: nil, param: "p", want: "nil"},
		{name: "empty name", getter: &fakeGetter{}, param: " ", want: "empty"},
		{name: "empty value", getter: &fakeGetter{vals: map[string]string{"p": ""}}, param: "p", want: "empty"},
		{name: "json without token", getter: &fakeGetter{vals: map[string]string{"p": `{"other":"x"}`}}, param: "p", want: "empty"},
		{name: "malformed json", getter: &fakeGetter{vals: map[string]string{"p": `{"broken`}}, param: "p", want: "unmarshal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSecret(tc.getter, tc.param).Key(context.Background())
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestStatic(t *testing.T) {
	v, err := Static("abc").Key(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc", v)

	_, err = Static("").Key(context.Background())
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	g := &fakeGetter{vals: map[string]string{"google-api-key": "from-ssm"}}

	require.Equal(t, Static("env"), Resolve("env", g, "google-api-key"))
	require.Equal(t, Static(""), Resolve("", nil, "google-api-key"))

	src := Resolve("", g, "google-api-key")
	v, err := src.Key(context.Background())
	require.NoError(t, err)
	require.Equal(t, "from-ssm", v)
}

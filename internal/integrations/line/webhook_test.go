package line

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	body := []byte(`{"destination":"Uxx","events":[
		{"type":"message","replyToken":"rt1","source":{"type":"user","userId":"U1"},"message":{"id":"m1","type":"text","text":"你好"}},
		{"type":"message","replyToken":"rt2","source":{"type":"user","userId":"U1"},"message":{"id":"m2","type":"sticker"}},
		{"type":"follow","replyToken":"rt3","source":{"type":"user","userId":"U2"}}
	]}`)

	p, err := ParsePayload(body)
	require.NoError(t, err)
	require.Len(t, p.Events, 3)
	require.True(t, p.Events[0].IsText())
	require.Equal(t, "你好", p.Events[0].Message.Text)
	require.Equal(t, "U1", p.Events[0].Source.UserID)
	require.False(t, p.Events[1].IsText())
	require.False(t, p.Events[2].IsText())
}

func TestParsePayload_Malformed(t *testing.T) {
	_, err := ParsePayload([]byte(`{"events":`))
	require.Error(t, err)
}

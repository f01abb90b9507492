package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlexText_Unmarshal(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want FlexText
	}{
		{name: "string", raw: `"自由行"`, want: "自由行"},
		{name: "number", raw: `3`, want: "3"},
		{name: "float", raw: `2.5`, want: "2.5"},
		{name: "bool", raw: `true`, want: "true"},
		{name: "null", raw: `null`, want: ""},
		{name: "list", raw: `["帶雨傘", " ", 2, "護照"]`, want: "帶雨傘\n2\n護照"},
		{name: "object", raw: `{"住宿": "6000", "交通": "1500"}`, want: "交通: 1500\n住宿: 6000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got FlexText
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &got))
			require.Equal(t, tc.want, got)
		})
	}
}

func TestItinerary_LenientDecode(t *testing.T) {
	raw := `{
		"title": "北海道五日",
		"budget_info": {"總計": 30000},
		"days": [
			{"day": 1, "date": "2026-01-10", "activities": [{"time": "09:00", "place": "小樽運河", "note": ["穿雪靴"]}]},
			{"day": "第二天", "activities": []}
		]
	}`
	var it Itinerary
	require.NoError(t, json.Unmarshal([]byte(raw), &it))
	require.Equal(t, "北海道五日", it.Title)
	require.Equal(t, FlexText("總計: 30000"), it.BudgetInfo)
	require.Len(t, it.Days, 2)
	require.Equal(t, "1", it.Days[0].Day.String())
	require.Equal(t, FlexText("穿雪靴"), it.Days[0].Activities[0].Note)
	require.Equal(t, FlexText("第二天"), it.Days[1].Day)
}

func TestFlexText_RejectsBrokenJSON(t *testing.T) {
	var got FlexText
	require.Error(t, json.Unmarshal([]byte(`["a", {]`), &got))
}

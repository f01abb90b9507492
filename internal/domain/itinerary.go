package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Itinerary is the structured trip plan rendered into a downloadable document.
type Itinerary struct {
	Title          string   `json:"title"`
	Style          FlexText `json:"style"`
	Days           []Day    `json:"days"`
	Transportation FlexText `json:"transportation"`
	BudgetInfo     FlexText `json:"budget_info"`
	Reminders      FlexText `json:"reminders"`
}

// Day is one day of an itinerary.
type Day struct {
	Day        FlexText   `json:"day"`
	Date       FlexText   `json:"date"`
	Theme      FlexText   `json:"theme"`
	Activities []Activity `json:"activities"`
}

// Activity is a single scheduled stop.
type Activity struct {
	Time        FlexText `json:"time"`
	Place       FlexText `json:"place"`
	Description FlexText `json:"description"`
	Note        FlexText `json:"note"`
}

// FlexText accepts a JSON string, number, boolean or a list of those and keeps
// it as display text. Lists are joined with newlines.
type FlexText string

func (t *FlexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = FlexText(s)
	case '[':
		var items []FlexText
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		lines := make([]string, 0, len(items))
		for _, it := range items {
			if s := strings.TrimSpace(string(it)); s != "" {
				lines = append(lines, s)
			}
		}
		*t = FlexText(strings.Join(lines, "\n"))
	case '{':
		var obj map[string]FlexText
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		lines := make([]string, 0, len(obj))
		for k, v := range obj {
			lines = append(lines, k+": "+string(v))
		}
		sort.Strings(lines)
		*t = FlexText(strings.Join(lines, "\n"))
	default:
		*t = FlexText(string(data))
	}
	return nil
}

func (t FlexText) String() string { return string(t) }


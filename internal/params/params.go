// Package params flattens the parameter shapes sent by the agent platform into
// a single name to value mapping.
package params

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"travel-assistant/internal/domain"
)

// requestBodyPropertiesPath locates the property list inside an API-path requestBody.
const requestBodyPropertiesPath = `content.application/json.properties`

// Map is a flat parameter set. Missing keys read as the empty string.
type Map map[string]string

func (m Map) Get(name string) string {
	return m[name]
}

// GetOr returns the trimmed value for name, or def when it is blank.
func (m Map) GetOr(name, def string) string {
	if v := strings.TrimSpace(m[name]); v != "" {
		return v
	}
	return def
}

// Has reports whether name holds a non-blank value.
func (m Map) Has(name string) bool {
	return strings.TrimSpace(m[name]) != ""
}

// Missing returns the names that are absent or blank, in argument order.
func (m Map) Missing(names ...string) []string {
	var out []string
	for _, n := range names {
		if !m.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// FromList builds a Map from name/value records. Later duplicates win.
func FromList(list []domain.Parameter) Map {
	m := make(Map, len(list))
	for _, p := range list {
		if p.Name == "" {
			continue
		}
		m[p.Name] = p.Value
	}
	return m
}

// FromRequestBody reads the property list nested in an API-path request body.
// Any missing or malformed structure yields an empty Map.
func FromRequestBody(raw json.RawMessage) Map {
	m := Map{}
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return m
	}
	props := gjson.GetBytes(raw, requestBodyPropertiesPath)
	if !props.IsArray() {
		return m
	}
	props.ForEach(func(_, p gjson.Result) bool {
		name := p.Get("name")
		if name.Type != gjson.String || name.Str == "" {
			return true
		}
		m[name.Str] = valueText(p.Get("value"))
		return true
	})
	return m
}

// FromEvent merges the flat parameter list with request-body properties.
// Request-body properties take precedence.
func FromEvent(ev domain.InboundEvent) Map {
	m := FromList(ev.Parameters)
	for k, v := range FromRequestBody(ev.RequestBody) {
		m[k] = v
	}
	return m
}

func valueText(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Null:
		return ""
	default:
		return v.Raw
	}
}

package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"travel-assistant/internal/domain"
	"travel-assistant/internal/integrations/line"
	"travel-assistant/internal/params"
)

const (
	itineraryKeyPrefix = "itineraries/"
	itineraryKeyLen    = 12
	pdfContentType     = "application/pdf"

	DefaultCoverImageKey = "assets/cover.jpg"
)

type DocumentRenderer interface {
	Render(it domain.Itinerary, defaultTitle string) ([]byte, error)
}

type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	SignedURL(ctx context.Context, key string) (string, error)
}

// Pusher delivers a message to a user outside of a reply.
type Pusher interface {
	Push(ctx context.Context, to string, msgs ...line.Message) error
}

// ItineraryService turns an agent-authored itinerary into a downloadable PDF.
type ItineraryService struct {
	renderer DocumentRenderer
	store    ObjectStore
	pusher   Pusher
	coverKey string
	newID    func() string
	log      zerolog.Logger
}

type ItineraryOption func(*ItineraryService)

// WithPusher enables delivery of a link card to the requesting messaging user.
func WithPusher(p Pusher) ItineraryOption {
	return func(s *ItineraryService) {
		s.pusher = p
	}
}

func WithCoverImageKey(key string) ItineraryOption {
	return func(s *ItineraryService) {
		if strings.TrimSpace(key) != "" {
			s.coverKey = key
		}
	}
}

func WithIDGenerator(newID func() string) ItineraryOption {
	return func(s *ItineraryService) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func WithItineraryLogger(log zerolog.Logger) ItineraryOption {
	return func(s *ItineraryService) {
		s.log = log
	}
}

// NewItineraryService creates an ItineraryService. Without WithPusher the
// download link is always returned in the action response.
func NewItineraryService(renderer DocumentRenderer, store ObjectStore, opts ...ItineraryOption) (*ItineraryService, error) {
	if renderer == nil {
		return nil, errors.New("usecase: document renderer must not be nil")
	}
	if store == nil {
		return nil, errors.New("usecase: object store must not be nil")
	}
	s := &ItineraryService{
		renderer: renderer,
		store:    store,
		coverKey: DefaultCoverImageKey,
		newID:    uuid.NewString,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generate handles generate_itinerary_pdf.
func (s *ItineraryService) Generate(ctx context.Context, p params.Map, sessionAttrs map[string]string) (string, error) {
	raw := p.Get("itinerary_content")
	if strings.TrimSpace(raw) == "" {
		return "", NewError(ErrorMissingParameter, "missing_itinerary_content", MsgItineraryMissing, nil)
	}

	it, err := ParseItinerary(raw)
	if err != nil {
		return "", NewError(ErrorInvalidInput, "itinerary_malformed", MsgItineraryFailed, err)
	}

	doc, err := s.renderer.Render(it, DefaultItineraryTitle)
	if err != nil {
		return "", NewError(ErrorInternal, "itinerary_render_failed", MsgItineraryFailed, err)
	}

	key := s.objectKey()
	if err := s.store.Put(ctx, key, pdfContentType, doc); err != nil {
		return "", NewError(ErrorVendorUnavailable, "itinerary_upload_failed", MsgItineraryFailed, err)
	}
	link, err := s.store.SignedURL(ctx, key)
	if err != nil {
		return "", NewError(ErrorVendorUnavailable, "itinerary_presign_failed", MsgItineraryFailed, err)
	}

	userID := strings.TrimSpace(sessionAttrs[domain.SessionAttrLineUserID])
	if s.pusher == nil || userID == "" || userID == domain.DefaultUserID {
		return fmt.Sprintf(MsgItineraryLink, link), nil
	}

	if err := s.pushCard(ctx, userID, it.Title, link); err != nil {
		s.log.Warn().Err(err).Str("object_key", key).Msg("itinerary card push failed")
		return fmt.Sprintf(MsgItineraryCardFailed, link), nil
	}
	return MsgItineraryCardSent, nil
}

func (s *ItineraryService) pushCard(ctx context.Context, userID, title, link string) error {
	cover, err := s.store.SignedURL(ctx, s.coverKey)
	if err != nil {
		s.log.Warn().Err(err).Str("object_key", s.coverKey).Msg("cover image presign failed")
		cover = ""
	}
	title = truncateRunes(orDefault(strings.TrimSpace(title), DefaultCardTitle), maxCardTitleRunes)
	card := line.NewLinkCard(CardAltText, CardHeading, fmt.Sprintf(CardTextFormat, title), cover, CardButtonLabel, link)
	return s.pusher.Push(ctx, userID, card)
}

func (s *ItineraryService) objectKey() string {
	id := strings.ReplaceAll(s.newID(), "/", "")
	if r := []rune(id); len(r) > itineraryKeyLen {
		id = string(r[:itineraryKeyLen])
	}
	return itineraryKeyPrefix + id + ".pdf"
}

// ParseItinerary decodes the JSON object embedded in raw. Anything before the
// first '{' or after the last '}' (code fences, tags, prose) is ignored, and
// raw control characters inside strings are tolerated.
func ParseItinerary(raw string) (domain.Itinerary, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return domain.Itinerary{}, errors.New("usecase: no JSON object in itinerary content")
	}
	var it domain.Itinerary
	if err := json.Unmarshal(escapeControlChars(raw[start:end+1]), &it); err != nil {
		return domain.Itinerary{}, fmt.Errorf("usecase: decode itinerary: %w", err)
	}
	return it, nil
}

// escapeControlChars rewrites literal newlines, tabs and carriage returns that
// appear inside JSON string literals into their escaped forms.
func escapeControlChars(s string) []byte {
	out := make([]byte, 0, len(s)+16)
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString && c == '\n':
			out = append(out, '\\', 'n')
			continue
		case inString && c == '\r':
			out = append(out, '\\', 'r')
			continue
		case inString && c == '\t':
			out = append(out, '\\', 't')
			continue
		}
		out = append(out, c)
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

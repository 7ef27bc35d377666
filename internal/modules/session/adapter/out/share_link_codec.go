package out

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"studyplan/internal/modules/session/domain"
	sessionout "studyplan/internal/modules/session/port/out"
	apperrors "studyplan/internal/platform/errors"
)

const (
	SharePath   = "/study-schedule"
	ImportParam = "import"
)

// ShareLinkCodec carries a share payload as base64 JSON in the import query parameter.
type ShareLinkCodec struct {
	baseURL string
}

func NewShareLinkCodec(baseURL string) sessionout.ShareCodec {
	return &ShareLinkCodec{baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *ShareLinkCodec) Encode(payload domain.SharePayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal share payload: %w", err)
	}
	u, err := url.Parse(c.baseURL + SharePath)
	if err != nil {
		return "", fmt.Errorf("parse share base url: %w", err)
	}
	q := u.Query()
	q.Set(ImportParam, base64.StdEncoding.EncodeToString(raw))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Decode accepts a full link, a query string or the bare parameter value.
func (c *ShareLinkCodec) Decode(link string) (domain.SharePayload, error) {
	value, err := importValue(link)
	if err != nil {
		return domain.SharePayload{}, err
	}
	raw, err := decodeBase64(value)
	if err != nil {
		return domain.SharePayload{}, fmt.Errorf("decode share link: %w: %w", apperrors.ErrMalformedShare, err)
	}
	payload := domain.SharePayload{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.SharePayload{}, fmt.Errorf("parse share payload: %w: %w", apperrors.ErrMalformedShare, err)
	}
	return payload, nil
}

func importValue(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", fmt.Errorf("empty share link: %w", apperrors.ErrMalformedShare)
	}
	// '?' and '&' never occur in base64, so only links and query strings carry them.
	isQuery := strings.HasPrefix(link, ImportParam+"=") || strings.Contains(link, "&")
	if !isQuery && !strings.Contains(link, "?") {
		return link, nil
	}
	query := link
	if strings.Contains(link, "?") {
		u, err := url.Parse(link)
		if err != nil {
			return "", fmt.Errorf("parse share link: %w: %w", apperrors.ErrMalformedShare, err)
		}
		query = u.RawQuery
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return "", fmt.Errorf("parse share query: %w: %w", apperrors.ErrMalformedShare, err)
	}
	value := values.Get(ImportParam)
	if value == "" {
		return "", fmt.Errorf("share link has no %s parameter: %w", ImportParam, apperrors.ErrMalformedShare)
	}
	return value, nil
}

func decodeBase64(value string) ([]byte, error) {
	// An unescaped '+' arrives as a space after query decoding.
	value = strings.ReplaceAll(value, " ", "+")
	var lastErr error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		raw, err := enc.DecodeString(value)
		if err == nil {
			return raw, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

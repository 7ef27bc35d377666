package out_test

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	sessionout "studyplan/internal/modules/session/adapter/out"
	"studyplan/internal/modules/session/domain"
	apperrors "studyplan/internal/platform/errors"
)

func samplePayload(t *testing.T) domain.SharePayload {
	t.Helper()
	start, err := domain.ParseLocal("2024-01-01T10:00")
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	end, err := domain.ParseLocal("2024-01-01T11:00")
	if err != nil {
		t.Fatalf("parse end: %v", err)
	}
	return domain.SharePayload{
		Sessions: []domain.SessionDraft{{
			Subject:   "arabic",
			StartDate: start,
			EndDate:   end,
			Lessons:   []domain.Lesson{{Name: "النحو"}, {Name: "البلاغة"}},
		}},
		CreatedAt: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestShareLinkRoundTripAcrossLinkShapes(t *testing.T) {
	t.Parallel()
	codec := sessionout.NewShareLinkCodec("https://plan.example.com/")
	link, err := codec.Encode(samplePayload(t))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(link, "https://plan.example.com/study-schedule?import=") {
		t.Fatalf("unexpected link: %s", link)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	value := u.Query().Get("import")

	for _, in := range []string{link, "?" + u.RawQuery, value, strings.TrimRight(value, "=")} {
		got, err := codec.Decode(in)
		if err != nil {
			t.Fatalf("decode %q: %v", in, err)
		}
		if len(got.Sessions) != 1 || got.Sessions[0].Subject != "arabic" || got.Sessions[0].Lessons[1].Name != "البلاغة" {
			t.Fatalf("unexpected payload: %+v", got)
		}
		if got.Sessions[0].StartDate.String() != "2024-01-01T10:00" {
			t.Fatalf("unexpected start: %s", got.Sessions[0].StartDate)
		}
	}
}

func TestShareLinkDecodesUnescapedBrowserLinks(t *testing.T) {
	t.Parallel()
	raw := `{"sessions":[{"subject":"math","startDate":"2024-01-01T10:00","endDate":"2024-01-01T11:00","lessons":[{"name":"limits?>","completed":false}]}],"createdAt":"2024-01-01T08:00:00.000Z"}`
	encoded := base64.StdEncoding.EncodeToString([]byte(raw))
	codec := sessionout.NewShareLinkCodec("http://localhost:8080")
	got, err := codec.Decode("http://localhost:8080/study-schedule?import=" + encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Sessions[0].Lessons[0].Name != "limits?>" {
		t.Fatalf("unexpected lesson: %+v", got.Sessions[0].Lessons)
	}
}

func TestShareLinkRejectsMalformedInput(t *testing.T) {
	t.Parallel()
	codec := sessionout.NewShareLinkCodec("http://localhost:8080")
	notJSON := base64.StdEncoding.EncodeToString([]byte("hello"))
	for _, in := range []string{"", "!!!not-base64!!!", notJSON, "http://localhost:8080/study-schedule?import="} {
		if _, err := codec.Decode(in); !errors.Is(err, apperrors.ErrMalformedShare) {
			t.Fatalf("decode %q: expected malformed share error, got %v", in, err)
		}
	}
}

func TestShareLinkPicksImportParameterFromQueryStrings(t *testing.T) {
	t.Parallel()
	codec := sessionout.NewShareLinkCodec("http://localhost:8080")
	link, err := codec.Encode(samplePayload(t))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	escaped := url.QueryEscape(u.Query().Get("import"))

	for _, in := range []string{
		"import=" + escaped,
		"ref=chat&import=" + escaped,
		"http://localhost:8080/study-schedule?ref=chat&import=" + escaped,
	} {
		got, err := codec.Decode(in)
		if err != nil {
			t.Fatalf("decode %q: %v", in, err)
		}
		if len(got.Sessions) != 1 || got.Sessions[0].Subject != "arabic" {
			t.Fatalf("unexpected payload from %q: %+v", in, got)
		}
	}

	if _, err := codec.Decode("ref=chat&page=2"); !errors.Is(err, apperrors.ErrMalformedShare) {
		t.Fatalf("query without import must be malformed, got %v", err)
	}
}

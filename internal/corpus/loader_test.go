package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tenderlens/tenderlens/internal/domain"
)

func TestLoad_Bundled(t *testing.T) {
	notices, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(notices) == 0 {
		t.Fatal("bundled corpus is empty")
	}
	for _, n := range notices {
		if n.NoticeID == "" {
			t.Error("notice without id in bundled corpus")
		}
		if n.DescriptionExcerpt == "" {
			t.Errorf("notice %s without excerpt", n.NoticeID)
		}
		for _, c := range n.CPVCodes {
			if len(c) != 8 {
				t.Errorf("notice %s has non-8-digit CPV code %q", n.NoticeID, c)
			}
		}
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notices.json")
	data := `[{"notice_id":"n-1","title":"Road maintenance","cpv_codes":["CPV 45233141"],
		"published_date":"05.03.2024","description_raw":"  Maintenance   of   municipal roads. "}]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	notices, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(notices) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(notices))
	}
	n := notices[0]
	if n.PublishedDate != "2024-03-05" {
		t.Errorf("expected normalized date 2024-03-05, got %q", n.PublishedDate)
	}
	if len(n.CPVCodes) != 1 || n.CPVCodes[0] != "45233141" {
		t.Errorf("expected CPV [45233141], got %v", n.CPVCodes)
	}
	if n.DescriptionExcerpt != "Maintenance of municipal roads." {
		t.Errorf("unexpected excerpt %q", n.DescriptionExcerpt)
	}
}

func TestNormalize_DedupeAndDrop(t *testing.T) {
	raw := []domain.Notice{
		{NoticeID: "a", Title: "First"},
		{NoticeID: "a", Title: "Duplicate of first"},
		{NoticeID: "", Title: "No id"},
		{NoticeID: "b", Title: ""},
		{NoticeID: "c", Title: "Third"},
	}

	out := Normalize(raw)
	if len(out) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(out))
	}
	if out[0].NoticeID != "a" || out[0].Title != "First" {
		t.Errorf("dedupe should keep the first occurrence, got %+v", out[0])
	}
	if out[1].NoticeID != "c" {
		t.Errorf("expected c, got %q", out[1].NoticeID)
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2024-01-15": "2024-01-15",
		"2024.01.15": "2024-01-15",
		"15.01.2024": "2024-01-15",
		"2024/01/15": "2024-01-15",
		"January 15": "",
		"":           "",
	}
	for in, want := range cases {
		if got := normalizeDate(in); got != want {
			t.Errorf("normalizeDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTrimExcerpt_Bound(t *testing.T) {
	long := strings.Repeat("procurement notice text ", 100)
	got := trimExcerpt(long)
	if len([]rune(got)) > maxExcerptLen {
		t.Errorf("excerpt length %d exceeds bound %d", len([]rune(got)), maxExcerptLen)
	}
	if strings.HasSuffix(got, " ") {
		t.Error("excerpt should not end with a space")
	}
}

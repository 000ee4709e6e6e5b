package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fp(v float64) *float64 { return &v }

func TestStore_UpsertDeduplicates(t *testing.T) {
	t.Parallel()

	s := New()
	s.Upsert(".com", Record{Domain: "ab.com", Price: fp(20)})
	s.Upsert(".com", Record{Domain: "ac.com"})
	s.Upsert(".com", Record{Domain: "ab.com", Price: fp(18), Tentative: true})

	recs := s.Records(".com")
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	// Overwrite keeps the original slot but replaces the data.
	if recs[0].Domain != "ab.com" || recs[0].Price == nil || *recs[0].Price != 18 || !recs[0].Tentative {
		t.Fatalf("unexpected first record: %+v", recs[0])
	}
	if s.Count() != 2 {
		t.Fatalf("Count=%d, want 2", s.Count())
	}
}

func TestStore_MergeIsLossFree(t *testing.T) {
	t.Parallel()

	loaded := New()
	loaded.Upsert(".com", Record{Domain: "ab.com", Price: fp(20)})

	s := New()
	s.Merge(loaded)
	s.Upsert(".com", Record{Domain: "ac.com"})

	recs := s.Records(".com")
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Domain != "ab.com" || recs[1].Domain != "ac.com" {
		t.Fatalf("unexpected merge order: %+v", recs)
	}
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "available.json")

	s := New()
	s.EnsureTLD(".io")
	s.Upsert(".com", Record{Domain: "ad.com", Tentative: true})

	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	recs := got.Records(".com")
	if len(recs) != 1 || recs[0].Domain != "ad.com" || !recs[0].Tentative || recs[0].Price != nil {
		t.Fatalf("unexpected loaded records: %+v", recs)
	}
	// Empty buckets survive the roundtrip.
	tlds := got.TLDs()
	if len(tlds) != 2 || tlds[0] != ".com" || tlds[1] != ".io" {
		t.Fatalf("TLDs=%v, want [.com .io]", tlds)
	}
}

func TestSave_PersistedShape(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "available.json")
	s := New()
	s.Upsert(".com", Record{Domain: "ad.com", Tentative: true})
	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var decoded map[string][]map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	recs := decoded[".com"]
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0]["domain"] != "ad.com" || recs[0]["tentative"] != true {
		t.Fatalf("unexpected record shape: %v", recs[0])
	}
	// Absent price must be omitted, not null.
	if _, ok := recs[0]["price"]; ok {
		t.Fatalf("price key present for priceless record: %v", recs[0])
	}
}

func TestSave_IdempotentAndNoTempLeftovers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "available.json")

	s := New()
	s.Upsert(".com", Record{Domain: "ab.com", Price: fp(20)})
	s.Upsert(".io", Record{Domain: "ab.io"})

	if err := Save(path, s); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := Save(path, s); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("flushing an unchanged store is not byte-identical")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSave_FailureLeavesPriorFileIntact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "available.json")

	s := New()
	s.Upsert(".com", Record{Domain: "ab.com"})
	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	// Renaming over a directory fails after the temp write; the original
	// file must be untouched.
	blocked := filepath.Join(dir, "blocked")
	if err := os.Mkdir(blocked, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := Save(blocked, s); err == nil {
		t.Fatalf("Save over a directory succeeded")
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("prior file changed after failed save")
	}
}

func TestLoad_MissingAndMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	s, err := Load(filepath.Join(dir, "nope.json"))
	if err != nil {
		t.Fatalf("Load missing: %v", err)
	}
	if s.Count() != 0 {
		t.Fatalf("missing file gave non-empty store")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatalf("Load of malformed file succeeded")
	}
}

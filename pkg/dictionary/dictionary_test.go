package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

func TestContainsCaseInsensitiveByDefault(t *testing.T) {
	d := New([]string{"Hello", "world"}, false)
	if !d.Contains("hello") {
		t.Fatal("expected case-insensitive match for \"hello\"")
	}
	if !d.Contains("WORLD") {
		t.Fatal("expected case-insensitive match for \"WORLD\"")
	}
}

func TestContainsCaseSensitive(t *testing.T) {
	d := New([]string{"Hello"}, true)
	if d.Contains("hello") {
		t.Fatal("case-sensitive dictionary should not match \"hello\" against \"Hello\"")
	}
	if !d.Contains("Hello") {
		t.Fatal("expected exact match for \"Hello\"")
	}
}

func TestAddPromotesWord(t *testing.T) {
	d := New(nil, false)
	if d.Contains("teh") {
		t.Fatal("dictionary should start empty")
	}
	d.Add("teh")
	if !d.Contains("teh") {
		t.Fatal("expected \"teh\" to be present after Add")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	d := New([]string{"cat"}, false)
	snap := d.Snapshot()
	snap.Add("dog")

	if d.Contains("dog") {
		t.Fatal("mutating a snapshot should not affect the source dictionary")
	}
	if !snap.Contains("cat") {
		t.Fatal("snapshot should retain entries from the source dictionary")
	}
	if !snap.Contains("dog") {
		t.Fatal("snapshot should retain its own additions")
	}
}

func TestLoadSkipsBlankAndCommentLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	content := "cat\n\n# a comment\ndog\n  \nbird\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	d, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", d.Len())
	}
	for _, w := range []string{"cat", "dog", "bird"} {
		if !d.Contains(w) {
			t.Errorf("expected %q to be loaded", w)
		}
	}
}

func TestEmptyStringNeverMatches(t *testing.T) {
	d := New([]string{"cat"}, false)
	if d.Contains("") {
		t.Fatal("empty string should never be considered a dictionary hit")
	}
}

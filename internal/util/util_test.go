package util

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestStorableTextDropsControls(t *testing.T) {
	in := "<td>a\x00b\x01</td>\n\t<td>c</td>"
	if out := StorableText(in); out != "<td>ab</td>\n\t<td>c</td>" {
		t.Fatalf("unexpected storable text: %q", out)
	}
	if StorableText("") != "" {
		t.Fatalf("expected empty output")
	}
}

func TestSHA256Hex(t *testing.T) {
	got := SHA256Hex([]byte("abc"))
	if got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Fatalf("unexpected digest %s", got)
	}
}

func TestWriteJSONAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")
	if err := WriteJSONAtomic(path, map[string]int{"documents": 2}); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got map[string]int
	if err := json.Unmarshal(b, &got); err != nil || got["documents"] != 2 {
		t.Fatalf("unexpected report %s (%v)", b, err)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("expected only the report in the directory, got %d entries", len(entries))
	}
}

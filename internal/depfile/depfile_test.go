package depfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	dir := t.TempDir()

	for _, test := range []struct {
		desc    string
		content string
		want    []string
	}{
		{
			desc:    "single line",
			content: "main.o: main.c main.h util.h\n",
			want:    []string{"main.c", "main.h", "util.h"},
		},
		{
			desc: "continuation lines",
			content: "main.o: main.c \\\n" +
				"  main.h \\\n" +
				"  util.h\n",
			want: []string{"main.c", "main.h", "util.h"},
		},
		{
			desc:    "no prerequisites",
			content: "main.o:\n",
			want:    nil,
		},
		{
			desc:    "target directory with colon-free path",
			content: "build/obj/main.o: src/main.c include/main.h\n",
			want:    []string{"src/main.c", "include/main.h"},
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			path := filepath.Join(dir, test.desc+".d")
			if err := os.WriteFile(path, []byte(test.content), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := Parse(path)
			if err != nil {
				t.Fatalf("Parse(%s) returned error: %v", path, err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Parse(%s) diff (-want +got):\n%s", path, diff)
			}
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	got, err := Parse(filepath.Join(t.TempDir(), "nonexistent.d"))
	if err != nil {
		t.Fatalf("Parse() on missing file returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Parse() on missing file = %v, want empty", got)
	}
}

func TestParseDropsSelfReference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.d")
	content := "main.o: main.c " + path + " main.h\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse(%s) returned error: %v", path, err)
	}
	want := []string{"main.c", "main.h"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse(%s) diff (-want +got):\n%s", path, diff)
	}
}

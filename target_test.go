package cbuild

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		path string
		want SourceLanguage
	}{
		{"main.c", LangC},
		{"main.cpp", LangCXX},
		{"main.cxx", LangCXX},
		{"main.cc", LangCXX},
		{"start.s", LangASM},
		{"START.S", LangASM},
		{"readme.md", LangUnknown},
	}
	for _, c := range cases {
		if got := detectLanguage(c.path); got != c.want {
			t.Errorf("detectLanguage(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestSourceResolvedLanguage(t *testing.T) {
	explicit := Source{Path: "weird.txt", Language: LangCXX}
	if got := explicit.resolvedLanguage(); got != LangCXX {
		t.Errorf("resolvedLanguage() with explicit language = %v, want LangCXX", got)
	}

	auto := Source{Path: "thing.c", Language: LangAuto}
	if got := auto.resolvedLanguage(); got != LangC {
		t.Errorf("resolvedLanguage() with LangAuto = %v, want LangC", got)
	}
}

func TestNewExecutableDefaultsToPIE(t *testing.T) {
	t1 := NewExecutable("app")
	if !t1.PIE {
		t.Error("NewExecutable: PIE = false, want true")
	}
	if !t1.EmitDeps {
		t.Error("NewExecutable: EmitDeps = false, want true")
	}
	if t1.OutputName != "app" {
		t.Errorf("OutputName = %q, want %q", t1.OutputName, "app")
	}
}

func TestNewStaticLibraryNotPIEByDefault(t *testing.T) {
	lib := NewStaticLibrary("mylib")
	if lib.PIE {
		t.Error("NewStaticLibrary: PIE = true, want false")
	}
}

func TestIncludeFlags(t *testing.T) {
	tgt := NewExecutable("app")
	tgt.AddInclude("include", IncludeNormal)
	tgt.AddInclude("/usr/include/foo", IncludeSystem)
	tgt.AddInclude("fallback", IncludeAfter)
	tgt.AddInclude("Frameworks", IncludeFramework)

	want := []string{
		"-Iinclude",
		"-isystem", "/usr/include/foo",
		"-idirafter", "fallback",
		"-F", "Frameworks",
	}
	if diff := cmp.Diff(want, tgt.includeFlags()); diff != "" {
		t.Errorf("includeFlags() diff (-want +got):\n%s", diff)
	}
}

func TestDefineFlags(t *testing.T) {
	tgt := NewExecutable("app")
	tgt.AddDefine("DEBUG")
	tgt.AddDefine("VERSION=2")

	want := []string{"-DDEBUG", "-DVERSION=2"}
	if diff := cmp.Diff(want, tgt.defineFlags()); diff != "" {
		t.Errorf("defineFlags() diff (-want +got):\n%s", diff)
	}
}

func TestExpandSourceDirs(t *testing.T) {
	tgt := NewExecutable("app")
	tgt.AddSources("existing.c")
	tgt.AddSourceDir("src")
	tgt.AddSourceDir("src2")

	listDir := func(dir string) ([]string, error) {
		switch dir {
		case "src":
			return []string{"src/a.c", "src/b.h", "src/c.cpp"}, nil
		case "src2":
			return []string{"src2/d.s"}, nil
		}
		t.Fatalf("unexpected dir %q", dir)
		return nil, nil
	}

	if err := tgt.expandSourceDirs(listDir); err != nil {
		t.Fatalf("expandSourceDirs() error: %v", err)
	}

	var paths []string
	for _, s := range tgt.Sources {
		paths = append(paths, s.Path)
	}
	want := []string{"existing.c", "src/a.c", "src/c.cpp", "src2/d.s"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("Sources diff (-want +got):\n%s", diff)
	}
}

func TestLinkObjectHelpers(t *testing.T) {
	tgt := NewExecutable("app")
	dep := NewStaticLibrary("util")
	tgt.LinkTarget(dep)
	tgt.LinkSystemLibrary("m")
	tgt.LinkFramework("CoreFoundation")
	tgt.LinkStaticPath("/opt/libfoo.a")
	tgt.LinkSharedPath("/opt/libbar.so")
	tgt.LinkObjectFile("extra.o")

	want := []LinkObject{
		{Kind: LinkTargetRef, Name: "util"},
		{Kind: LinkSystemLib, Name: "m"},
		{Kind: LinkFramework, Name: "CoreFoundation"},
		{Kind: LinkStaticPath, Path: "/opt/libfoo.a"},
		{Kind: LinkSharedPath, Path: "/opt/libbar.so"},
		{Kind: LinkObjectFile, Path: "extra.o"},
	}
	if diff := cmp.Diff(want, tgt.LinkObjects); diff != "" {
		t.Errorf("LinkObjects diff (-want +got):\n%s", diff)
	}
}

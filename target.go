// Package cbuild is a self-hosting build orchestrator for native C/C++/
// assembler projects: a user program declares targets, the orchestrator
// expands them into a DAG of compile/archive/link steps, and Run executes
// that DAG with incremental-rebuild skipping.
package cbuild

import (
	"path/filepath"
	"strings"

	"github.com/gocbuild/cbuild/internal/logx"
	"github.com/gocbuild/cbuild/internal/step"
)

// TargetKind is the kind of artifact a Target produces.
type TargetKind int

const (
	Executable TargetKind = iota
	StaticLibrary
	SharedLibrary
	ObjectAggregate
)

func (k TargetKind) String() string {
	switch k {
	case Executable:
		return "executable"
	case StaticLibrary:
		return "static library"
	case SharedLibrary:
		return "shared library"
	case ObjectAggregate:
		return "object aggregate"
	default:
		return "unknown"
	}
}

// SourceLanguage is the language of one source file, or a request to
// detect it from the file extension.
type SourceLanguage int

const (
	LangAuto SourceLanguage = iota
	LangUnknown
	LangC
	LangCXX
	LangASM
)

func detectLanguage(path string) SourceLanguage {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".c":
		return LangC
	case ".cpp", ".cxx", ".cc":
		return LangCXX
	case ".s":
		return LangASM
	default:
		return LangUnknown
	}
}

func (l SourceLanguage) stepLanguage() step.Language {
	switch l {
	case LangC:
		return step.LangC
	case LangCXX:
		return step.LangCXX
	case LangASM:
		return step.LangASM
	default:
		return step.LangUnknown
	}
}

func (l SourceLanguage) toolchainKey() string {
	switch l {
	case LangCXX:
		return "cxx"
	case LangASM:
		return "asm"
	default:
		return "c"
	}
}

// Source is one entry in a Target's source list.
type Source struct {
	Path       string
	Language   SourceLanguage
	ExtraFlags []string // per-source extra compiler flags
}

// resolvedLanguage returns the source's explicit language if it names one,
// otherwise detects it from the file extension.
func (s Source) resolvedLanguage() SourceLanguage {
	if s.Language != LangAuto && s.Language != LangUnknown {
		return s.Language
	}
	return detectLanguage(s.Path)
}

// IncludeKind selects how an include directory is passed to the compiler.
type IncludeKind int

const (
	IncludeNormal IncludeKind = iota
	IncludeSystem
	IncludeAfter
	IncludeFramework
)

// Include is one include-search entry.
type Include struct {
	Path string
	Kind IncludeKind
}

// LinkObjectKind is the variant of one entry in a Target's link-object list.
type LinkObjectKind int

const (
	LinkTargetRef LinkObjectKind = iota
	LinkSystemLib
	LinkStaticPath
	LinkSharedPath
	LinkFramework
	LinkObjectFile
)

// LinkObject is one tagged entry in a Target's link list.
type LinkObject struct {
	Kind LinkObjectKind
	Name string // system library or framework name, or the referenced target's name
	Path string // static/shared library path, or object file path
}

// OptimizeMode selects the compiler's optimization level.
type OptimizeMode int

const (
	OptimizeNone OptimizeMode = iota
	OptimizeDebug
	OptimizeRelease
	OptimizeFast
	OptimizeSize
	OptimizeSizeMin
)

func (m OptimizeMode) flag() string {
	switch m {
	case OptimizeNone:
		return "-O0"
	case OptimizeDebug:
		return "-Og"
	case OptimizeRelease:
		return "-O2"
	case OptimizeFast:
		return "-O3"
	case OptimizeSize:
		return "-Os"
	case OptimizeSizeMin:
		return "-Oz"
	default:
		return ""
	}
}

// Target is a mutable, append-only description of one desired build
// artifact: an executable, a static or shared library, or an object-only
// aggregate with no final link step.
type Target struct {
	Name string
	Kind TargetKind

	Sources    []Source
	SourceDirs []string

	Includes []Include
	Defines  []string // "name" or "name=value" tokens, without a leading -D

	CFlags    []string
	CXXFlags  []string
	CPPFlags  []string // flags common to every language (preprocessor flags)
	LinkFlags []string
	LibPaths  []string

	LinkObjects []LinkObject

	Optimize OptimizeMode
	PIE      bool
	LTO      bool
	Strip    bool
	EmitDeps bool

	BinDir       string
	ArtifactsDir string
	OutputName   string
}

// NewExecutable returns an executable target named name, with PIE and
// header-dependency emission on by default.
func NewExecutable(name string) *Target {
	t := newTarget(name, Executable)
	t.PIE = true
	return t
}

// NewStaticLibrary returns a static library target named name.
func NewStaticLibrary(name string) *Target {
	return newTarget(name, StaticLibrary)
}

// NewSharedLibrary returns a shared library target named name.
func NewSharedLibrary(name string) *Target {
	return newTarget(name, SharedLibrary)
}

// NewObjectAggregate returns an object-aggregate target named name: its
// sources are compiled but never linked or archived into a final artifact.
func NewObjectAggregate(name string) *Target {
	return newTarget(name, ObjectAggregate)
}

func newTarget(name string, kind TargetKind) *Target {
	return &Target{
		Name:         name,
		Kind:         kind,
		OutputName:   name,
		EmitDeps:     true,
		BinDir:       "bin",
		ArtifactsDir: "bin",
	}
}

// AddSources appends sources whose language will be auto-detected from
// their extension.
func (t *Target) AddSources(paths ...string) {
	for _, p := range paths {
		t.Sources = append(t.Sources, Source{Path: p, Language: LangAuto})
	}
}

// AddSource appends one source with an explicit language and per-source
// extra flags.
func (t *Target) AddSource(path string, lang SourceLanguage, extraFlags ...string) {
	t.Sources = append(t.Sources, Source{Path: path, Language: lang, ExtraFlags: extraFlags})
}

// AddSourceDir registers a directory to be enumerated non-recursively at
// target-registration time; every recognized source file it contains is
// added to Sources.
func (t *Target) AddSourceDir(dir string) {
	t.SourceDirs = append(t.SourceDirs, dir)
}

// AddInclude appends one include-search entry.
func (t *Target) AddInclude(path string, kind IncludeKind) {
	t.Includes = append(t.Includes, Include{Path: path, Kind: kind})
}

// AddDefine appends a preprocessor define token ("NAME" or "NAME=VALUE").
func (t *Target) AddDefine(token string) {
	t.Defines = append(t.Defines, token)
}

// LinkTarget records a dependency on another target's build artifact. dep
// must already be registered with the orchestrator by the time this
// target is registered; otherwise the cross-target DAG edge is silently
// not added and the link step falls back to whatever else names the
// dependency's path.
func (t *Target) LinkTarget(dep *Target) {
	t.LinkObjects = append(t.LinkObjects, LinkObject{Kind: LinkTargetRef, Name: dep.Name})
}

// LinkSystemLibrary links against a system library by name (emits -lname).
func (t *Target) LinkSystemLibrary(name string) {
	t.LinkObjects = append(t.LinkObjects, LinkObject{Kind: LinkSystemLib, Name: name})
}

// LinkFramework links against a macOS framework by name.
func (t *Target) LinkFramework(name string) {
	t.LinkObjects = append(t.LinkObjects, LinkObject{Kind: LinkFramework, Name: name})
}

// LinkStaticPath links an explicit static library path.
func (t *Target) LinkStaticPath(path string) {
	t.LinkObjects = append(t.LinkObjects, LinkObject{Kind: LinkStaticPath, Path: path})
}

// LinkSharedPath links an explicit shared library path.
func (t *Target) LinkSharedPath(path string) {
	t.LinkObjects = append(t.LinkObjects, LinkObject{Kind: LinkSharedPath, Path: path})
}

// LinkObjectFile links an explicit object file path.
func (t *Target) LinkObjectFile(path string) {
	t.LinkObjects = append(t.LinkObjects, LinkObject{Kind: LinkObjectFile, Path: path})
}

// expandSourceDirs enumerates each of t.SourceDirs non-recursively and
// appends every recognized source file found, in directory order then
// directory-listing order.
func (t *Target) expandSourceDirs(listDir func(dir string) ([]string, error)) error {
	for _, dir := range t.SourceDirs {
		entries, err := listDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if detectLanguage(entry) == LangUnknown {
				continue
			}
			t.Sources = append(t.Sources, Source{Path: entry, Language: LangAuto})
		}
	}
	return nil
}

// includeFlags renders t.Includes in declaration order. -I takes its path
// concatenated (a single argv token, valid for every compiler this design
// targets); -isystem/-idirafter/-F take the path as a separate token, the
// way gcc and clang require it.
func (t *Target) includeFlags() []string {
	var out []string
	for _, inc := range t.Includes {
		switch inc.Kind {
		case IncludeSystem:
			out = append(out, "-isystem", inc.Path)
		case IncludeAfter:
			out = append(out, "-idirafter", inc.Path)
		case IncludeFramework:
			out = append(out, "-F", inc.Path)
		default:
			out = append(out, "-I"+inc.Path)
		}
	}
	return out
}

// defineFlags renders t.Defines in declaration order as -D flags.
func (t *Target) defineFlags() []string {
	var out []string
	for _, d := range t.Defines {
		out = append(out, "-D"+d)
	}
	return out
}

// LogConfig dumps the target's full configuration at INFO level, tag
// "TARGET" — sources, source directories, include directories, defines,
// and link objects, one line per entry — useful for
// confirming a configure() function built the graph the caller expected.
func (t *Target) LogConfig(log *logx.Logger) {
	log.Tagf(logx.Info, "TARGET", "%s %q -> %s", t.Kind, t.Name, t.OutputName)
	for _, s := range t.Sources {
		if len(s.ExtraFlags) > 0 {
			log.Tagf(logx.Info, "TARGET", "  source %s (flags: %s)", s.Path, strings.Join(s.ExtraFlags, " "))
		} else {
			log.Tagf(logx.Info, "TARGET", "  source %s", s.Path)
		}
	}
	for _, dir := range t.SourceDirs {
		log.Tagf(logx.Info, "TARGET", "  source dir %s", dir)
	}
	for _, inc := range t.Includes {
		log.Tagf(logx.Info, "TARGET", "  include %s", inc.Path)
	}
	for _, d := range t.Defines {
		log.Tagf(logx.Info, "TARGET", "  define %s", d)
	}
	for _, lo := range t.LinkObjects {
		switch lo.Kind {
		case LinkTargetRef:
			log.Tagf(logx.Info, "TARGET", "  link target %s", lo.Name)
		case LinkSystemLib:
			log.Tagf(logx.Info, "TARGET", "  link system library %s", lo.Name)
		case LinkFramework:
			log.Tagf(logx.Info, "TARGET", "  link framework %s", lo.Name)
		default:
			log.Tagf(logx.Info, "TARGET", "  link path %s", lo.Path)
		}
	}
}

// Package toolchain describes the set of compiler-family binaries an
// Orchestrator invokes to compile, archive, and link.
package toolchain

// Toolchain names the binaries used to turn sources into objects, objects
// into archives, and objects/archives into linked artifacts.
type Toolchain struct {
	// CCompiler compiles C sources. Defaults to "gcc".
	CCompiler string
	// CXXCompiler compiles C++ sources. Defaults to "g++".
	CXXCompiler string
	// Assembler assembles assembly sources. Defaults to "as".
	Assembler string
	// Archiver creates static library archives. Defaults to "gcc-ar".
	Archiver string
	// Linker links executables and shared libraries. Empty means "use
	// the compiler matching the target's dominant source language" —
	// the same fallback link.c performs when no linker override is set.
	Linker string
	// Objcopy manipulates object file sections. Defaults to "objcopy".
	Objcopy string
	// Size reports object/executable section sizes. Defaults to "size".
	Size string
}

// Default returns the toolchain an Orchestrator starts with before any
// user configuration runs.
func Default() Toolchain {
	return Toolchain{
		CCompiler:   "gcc",
		CXXCompiler: "g++",
		Assembler:   "as",
		Archiver:    "gcc-ar",
		Linker:      "",
		Objcopy:     "objcopy",
		Size:        "size",
	}
}

// CompilerFor returns the compiler to use for lang ("c", "cxx", or "asm").
// Assembly sources are assembled with Assembler directly rather than routed
// through a compiler driver.
func (t Toolchain) CompilerFor(lang string) string {
	switch lang {
	case "cxx":
		return t.CXXCompiler
	case "asm":
		return t.Assembler
	default:
		return t.CCompiler
	}
}

// LinkerFor returns the linker to invoke for a target whose dominant
// source language is lang: the explicit Linker override if set, otherwise
// the compiler driver for that language, since invoking the compiler as
// the final link step is standard practice for pulling in the correct
// runtime/startup objects.
func (t Toolchain) LinkerFor(lang string) string {
	if t.Linker != "" {
		return t.Linker
	}
	return t.CompilerFor(lang)
}

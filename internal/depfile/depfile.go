// Package depfile reads Makefile-fragment dependency files, the kind a C
// compiler emits alongside an object file when invoked with -MMD: a single
// rule whose prerequisites are the headers that object file was built
// against.
package depfile

import (
	"os"
	"strings"

	"golang.org/x/xerrors"
)

// Parse reads the depfile at path and returns the header paths it lists.
// A missing depfile is not an error: it simply means no prior build has
// recorded header dependencies yet, and Parse returns an empty list, the
// same as the first build of a source file.
func Parse(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, xerrors.Errorf("depfile.Parse(%s): %w", path, err)
	}

	// A depfile is "target: prereq prereq ...". Discarding everything up
	// to and including the last colon in the file strips the target and
	// leaves only prerequisites, provided no prerequisite contains a colon
	// itself (a drive-letter path such as C:\x would cut off every
	// prerequisite listed before it).
	rule := string(content)
	if idx := strings.LastIndexByte(rule, ':'); idx >= 0 {
		rule = rule[idx+1:]
	}

	var headers []string
	for _, tok := range strings.Fields(rule) {
		switch tok {
		case "", "\\", "\\\n", path:
			continue
		}
		headers = append(headers, tok)
	}
	return headers, nil
}

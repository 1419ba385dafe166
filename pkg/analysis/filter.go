package analysis

import (
	"path"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/commitclass/pkg/gitlib"
)

// preprocessed lists the languages whose sources use #if-style conditional
// compilation. Keys are lower case; detectLanguage returns enry's canonical
// casing ("C", "C++"), so hasAnnotations lowercases before the lookup.
var preprocessed = map[string]bool{
	"c":             true,
	"c++":           true,
	"cuda":          true,
	"objective-c":   true,
	"objective-c++": true,
}

// skipReason explains why a file change was not turned into a diff.
type skipReason string

const (
	skipNone     skipReason = ""
	skipVendor   skipReason = "vendor"
	skipSize     skipReason = "size"
	skipBinary   skipReason = "binary"
	skipLanguage skipReason = "language"
)

type fileFilter struct {
	languages map[string]bool // empty accepts every language
	maxSize   int64           // zero disables the limit
}

func newFileFilter(languages []string, maxSize int64) fileFilter {
	f := fileFilter{languages: make(map[string]bool, len(languages)), maxSize: maxSize}

	for _, l := range languages {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			f.languages[l] = true
		}
	}

	return f
}

// checkPath applies the checks that need no file contents.
func (f fileFilter) checkPath(change *gitlib.Change) skipReason {
	if enry.IsVendor(change.Path()) {
		return skipVendor
	}

	if f.maxSize > 0 && max(change.From.Size, change.To.Size) > f.maxSize {
		return skipSize
	}

	return skipNone
}

// checkContents detects the language from the newest side of the change and
// applies the binary and language checks.
func (f fileFilter) checkContents(name string, oldContent, newContent []byte) (string, skipReason) {
	sample := newContent
	if sample == nil {
		sample = oldContent
	}

	if enry.IsBinary(sample) {
		return "", skipBinary
	}

	lang := detectLanguage(name, sample)

	if len(f.languages) > 0 && !f.languages[strings.ToLower(lang)] {
		return lang, skipLanguage
	}

	return lang, skipNone
}

func detectLanguage(name string, contents []byte) string {
	lang := enry.GetLanguage(path.Base(name), nil)
	if lang == "" && len(contents) > 0 {
		lang = enry.GetLanguage(path.Base(name), contents)
	}

	return lang
}

// hasAnnotations reports whether #if lines in the language are preprocessor
// conditionals.
func hasAnnotations(lang string) bool {
	return preprocessed[strings.ToLower(lang)]
}

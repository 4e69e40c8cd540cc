package parser

import (
	"path/filepath"
	"strings"
)

// Language is the grammar family of a source file.
type Language int

const (
	// LanguageTypeScript covers .ts and .tsx. TSX is selected per file via IsTSXFile.
	LanguageTypeScript Language = iota
	// LanguageJavaScript covers .js and .jsx; the JavaScript grammar parses JSX natively.
	LanguageJavaScript
	// LanguageUnknown marks files the analyzer does not read.
	LanguageUnknown
)

func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// SourceExtensions lists the extensions module resolution probes, in order.
var SourceExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// DetectLanguage returns the grammar family for a path.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".tsx", ".mts", ".cts":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// IsTSXFile reports whether the path needs the TSX grammar.
func IsTSXFile(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), ".tsx")
}

// IsSourceFile reports whether the analyzer can parse the path.
func IsSourceFile(filePath string) bool {
	return DetectLanguage(filePath) != LanguageUnknown
}

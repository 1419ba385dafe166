package analysis

// DetectLanguage exposes detectLanguage for tests.
func DetectLanguage(name string, contents []byte) string { return detectLanguage(name, contents) }

// HasAnnotations exposes hasAnnotations for tests.
func HasAnnotations(lang string) bool { return hasAnnotations(lang) }

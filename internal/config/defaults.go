package config

// DefaultMaxFileBytes is the largest file size included in a dump unless
// overridden on the command line.
const DefaultMaxFileBytes = 2_000_000

// DefaultExcludedDirectoryNames lists directory names that are never
// descended into unless explicitly re-enabled.
var DefaultExcludedDirectoryNames = []string{
	".git",
	".hg",
	".svn",
	".idea",
	".vscode",
	"__pycache__",
	".mypy_cache",
	".pytest_cache",
	"node_modules",
	"dist",
	"build",
	".venv",
	"venv",
}

// DefaultExcludedExtensions lists file extensions that are usually binary or
// otherwise not useful as model context.
var DefaultExcludedExtensions = []string{
	".pyc", ".pyo", ".so", ".dll", ".dylib", ".exe", ".bin", ".obj", ".o",
	".pdf", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico",
	".ttf", ".otf", ".woff", ".woff2",
	".zip", ".tar", ".gz", ".xz", ".7z",
	".mp3", ".mp4", ".mov", ".avi", ".mkv",
}

package utils

import (
	"bytes"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var binaryExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".ico": true, ".webp": true,
	".zip": true, ".tar": true, ".gz": true, ".rar": true, ".7z": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true,
	".mp3": true, ".mp4": true, ".wav": true, ".avi": true, ".mov": true,
	".so": true, ".dll": true, ".exe": true, ".bin": true,
}

// IsBinaryFile checks if a file is binary based on its extension
func IsBinaryFile(filename string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(filename))]
}

// MimeTypeFor guesses a MIME type from the file name, falling back to
// text/plain or application/octet-stream.
func MimeTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return "text/markdown"
	case ".go", ".py", ".rb", ".java", ".c", ".cpp", ".cs", ".php", ".sh", ".ts", ".tex":
		return "text/x-" + strings.TrimPrefix(ext, ".")
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	if IsBinaryFile(filename) {
		return "application/octet-stream"
	}
	return "text/plain"
}

const sniffLen = 8000

// ContainsBinaryData reports whether content cannot be returned as text: a
// NUL byte within the first few kilobytes, or invalid UTF-8 anywhere.
func ContainsBinaryData(content []byte) bool {
	sample := content
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	return !utf8.Valid(content)
}

package constants

import "strings"

// Source formats recorded on every extraction.
const (
	FormatPDF   = "PDF"
	FormatImage = "IMAGE"
	FormatText  = "TXT"
)

// AllowedExtensions holds the file extensions picked up by ingestion.
var AllowedExtensions = map[string]string{
	"pdf":  FormatPDF,
	"png":  FormatImage,
	"jpg":  FormatImage,
	"jpeg": FormatImage,
	"tif":  FormatImage,
	"tiff": FormatImage,
	"txt":  FormatText,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FormatOf returns the source format for ext, or "" when ext is not ingested.
func FormatOf(ext string) string {
	return AllowedExtensions[NormalizeExt(ext)]
}

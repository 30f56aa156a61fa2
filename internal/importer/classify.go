package importer

import (
	"path/filepath"
	"strings"

	"github.com/ngenohkevin/aura-explorer/internal/catalog"
)

var byExtension = map[string]catalog.Category{
	"jpg":  catalog.CategoryImages,
	"jpeg": catalog.CategoryImages,
	"png":  catalog.CategoryImages,
	"gif":  catalog.CategoryImages,
	"webp": catalog.CategoryImages,
	"bmp":  catalog.CategoryImages,
	"svg":  catalog.CategoryImages,
	"heic": catalog.CategoryImages,
	"tiff": catalog.CategoryImages,
	"ico":  catalog.CategoryImages,

	"mp4":  catalog.CategoryVideos,
	"mov":  catalog.CategoryVideos,
	"mkv":  catalog.CategoryVideos,
	"avi":  catalog.CategoryVideos,
	"webm": catalog.CategoryVideos,
	"m4v":  catalog.CategoryVideos,
	"wmv":  catalog.CategoryVideos,

	"pdf":  catalog.CategoryDocuments,
	"doc":  catalog.CategoryDocuments,
	"docx": catalog.CategoryDocuments,
	"txt":  catalog.CategoryDocuments,
	"md":   catalog.CategoryDocuments,
	"rtf":  catalog.CategoryDocuments,
	"odt":  catalog.CategoryDocuments,
	"csv":  catalog.CategoryDocuments,
	"xls":  catalog.CategoryDocuments,
	"xlsx": catalog.CategoryDocuments,
	"ppt":  catalog.CategoryDocuments,
	"pptx": catalog.CategoryDocuments,

	"mp3":  catalog.CategoryMusic,
	"wav":  catalog.CategoryMusic,
	"flac": catalog.CategoryMusic,
	"aac":  catalog.CategoryMusic,
	"ogg":  catalog.CategoryMusic,
	"m4a":  catalog.CategoryMusic,
	"opus": catalog.CategoryMusic,

	"zip": catalog.CategoryArchives,
	"rar": catalog.CategoryArchives,
	"7z":  catalog.CategoryArchives,
	"tar": catalog.CategoryArchives,
	"gz":  catalog.CategoryArchives,
	"tgz": catalog.CategoryArchives,
	"bz2": catalog.CategoryArchives,
	"xz":  catalog.CategoryArchives,

	"exe":      catalog.CategoryApps,
	"msi":      catalog.CategoryApps,
	"apk":      catalog.CategoryApps,
	"dmg":      catalog.CategoryApps,
	"deb":      catalog.CategoryApps,
	"rpm":      catalog.CategoryApps,
	"appimage": catalog.CategoryApps,
	"ipa":      catalog.CategoryApps,
}

// Extension returns the lower-cased extension of name without the dot
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Classify maps a file name to its category; unknown extensions are documents
func Classify(name string) catalog.Category {
	if category, ok := byExtension[Extension(name)]; ok {
		return category
	}
	return catalog.CategoryDocuments
}

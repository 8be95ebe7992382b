package files

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "salesanalyzer/internal/errors"
)

// InputExtensions are the file types the loader understands
var InputExtensions = []string{".xlsx", ".csv"}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds sales export files
type Discovery struct {
	basePath string
	logger   *slog.Logger
}

// NewDiscovery creates a new file discovery instance. Relative directories
// are resolved against basePath.
func NewDiscovery(basePath string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{basePath: basePath, logger: logger}
}

// IsInputFile reports whether name has a supported extension and is not an
// office lock file or hidden file
func IsInputFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range InputExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindInputFiles lists the input files of dir sorted by name
func (d *Discovery) FindInputFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, apperrors.NewNotFoundError("input directory "+fullPath).WithContext("cause", err.Error())
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsInputFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// ResolveInput returns path itself when it is a file, or the first input
// file of path when it is a directory
func (d *Discovery) ResolveInput(path string) (string, error) {
	fullPath := d.resolve(path)
	info, err := os.Stat(fullPath)
	if err != nil {
		return "", apperrors.NewNotFoundError("input "+fullPath).WithContext("cause", err.Error())
	}
	if !info.IsDir() {
		return fullPath, nil
	}

	files, err := d.FindInputFiles(fullPath)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", apperrors.NewNotFoundError("sales export in " + fullPath)
	}
	if len(files) > 1 {
		d.logger.Warn("several input files found, using the first",
			slog.String("directory", fullPath),
			slog.String("file", files[0].Name),
			slog.Int("found", len(files)))
	}
	return files[0].Path, nil
}

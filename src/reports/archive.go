package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"market-twin/src/helpers"
	"market-twin/src/models"
)

// -----------------------------------------------------------------------------
// Archive Timestamp Prefixes
// -----------------------------------------------------------------------------

const (
	// Second resolution for the admin save path, which can fire many times a minute.
	SecurePrefixLayout = "20060102_150405"
	// Minute resolution for the once-daily scheduled job.
	ScheduledPrefixLayout = "20060102_1504"
)

// -----------------------------------------------------------------------------
// Archive
// -----------------------------------------------------------------------------

// Archive manages the directory of persisted report artifacts. Entries are
// only ever created, never mutated in place.
type Archive struct {
	Dir string
}

// -----------------------------------------------------------------------------

func NewArchive(dir string) *Archive {
	return &Archive{Dir: dir}
}

// -----------------------------------------------------------------------------

// EnsureDir creates the archive directory if it does not exist.
func (a *Archive) EnsureDir() error {
	return os.MkdirAll(a.Dir, 0755)
}

// -----------------------------------------------------------------------------

// Write persists an artifact as <timestamp>_<filename>. When two writes land
// on the same timestamp the name gets a numeric suffix so neither overwrites
// the other. Returns the final filename.
func (a *Archive) Write(ts time.Time, prefixLayout string, filename string, data []byte) (string, error) {
	if err := a.EnsureDir(); err != nil {
		return "", helpers.NewStorageError("failed to create archive directory", err)
	}

	base := fmt.Sprintf("%s_%s", ts.Format(prefixLayout), filepath.Base(filename))
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for attempt := 0; ; attempt++ {
		name := base
		if attempt > 0 {
			name = fmt.Sprintf("%s-%d%s", stem, attempt, ext)
		}

		f, err := os.OpenFile(filepath.Join(a.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", helpers.NewStorageError("failed to create archive file", err)
		}

		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", helpers.NewStorageError("failed to write archive file", err)
		}
		if err := f.Close(); err != nil {
			return "", helpers.NewStorageError("failed to close archive file", err)
		}
		return name, nil
	}
}

// -----------------------------------------------------------------------------

// Recent returns up to limit entries sorted by modification time, newest
// first. The retrieval URL is urlPrefix + name.
func (a *Archive) Recent(limit int, urlPrefix string) ([]models.MArchiveEntry, error) {
	dirEntries, err := os.ReadDir(a.Dir)
	if os.IsNotExist(err) {
		return []models.MArchiveEntry{}, nil
	}
	if err != nil {
		return nil, helpers.NewStorageError("failed to read archive directory", err)
	}

	entries := make([]models.MArchiveEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, models.MArchiveEntry{
			Name:  de.Name(),
			Size:  info.Size(),
			MTime: info.ModTime(),
			URL:   urlPrefix + de.Name(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].MTime.After(entries[j].MTime)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// -----------------------------------------------------------------------------

// Resolve maps a caller-supplied name to a path inside the archive directory.
// Only the final path element of the supplied name is used, so traversal
// attempts degrade to a lookup of a non-existent plain filename.
func (a *Archive) Resolve(name string) (string, error) {
	safeName := filepath.Base(name)
	if safeName == "." || safeName == ".." || safeName == string(filepath.Separator) {
		return "", helpers.NewNotFoundError("file not found")
	}
	path := filepath.Join(a.Dir, safeName)

	if _, err := os.Stat(path); err != nil {
		return "", helpers.NewNotFoundError("file not found")
	}
	return path, nil
}

// -----------------------------------------------------------------------------

// Count returns the number of archived artifacts.
func (a *Archive) Count() int {
	dirEntries, err := os.ReadDir(a.Dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, de := range dirEntries {
		if !de.IsDir() {
			count++
		}
	}
	return count
}

// -----------------------------------------------------------------------------

// MIMEForFile derives a MIME type from the file extension.
func MIMEForFile(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/database"
	"github.com/aristath/lattice/internal/events"
)

const (
	// archivePrefix is the object key prefix every archive shares.
	archivePrefix = "lattice-archive-"

	// archiveTimestampLayout names archives down to the second.
	archiveTimestampLayout = "2006-01-02-150405"

	// minArchivesToKeep is the rotation floor: the newest archives are
	// never deleted regardless of age.
	minArchivesToKeep = 3
)

// ObjectStore is the subset of the S3 client the service needs. Client
// satisfies it; tests substitute a fake.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader) error
	List(ctx context.Context, prefix string) ([]Object, error)
	Delete(ctx context.Context, key string) error
}

// Metadata describes the contents of one archive, stored alongside the
// database backups inside the tarball.
type Metadata struct {
	Timestamp time.Time          `json:"timestamp"`
	Version   string             `json:"version"`
	Databases []DatabaseMetadata `json:"databases"`
}

// DatabaseMetadata describes one database backup inside an archive.
type DatabaseMetadata struct {
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// Info summarizes one stored archive for listings.
type Info struct {
	Key       string    `json:"key"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
	AgeHours  int64     `json:"age_hours"`
}

// Service creates, uploads, lists and rotates cold archives of the
// service databases.
type Service struct {
	store     ObjectStore
	databases []*database.DB
	dataDir   string
	bus       *events.Bus
	log       zerolog.Logger
}

// NewService creates a new archive service
func NewService(
	store ObjectStore,
	databases []*database.DB,
	dataDir string,
	bus *events.Bus,
	log zerolog.Logger,
) *Service {
	return &Service{
		store:     store,
		databases: databases,
		dataDir:   dataDir,
		bus:       bus,
		log:       log.With().Str("service", "archive").Logger(),
	}
}

// CreateAndUploadArchive backs up every database into a staging
// directory, bundles them with checksummed metadata into a tar.gz, and
// uploads the result.
//
// Backups are taken with VACUUM INTO, which produces a consistent copy
// without blocking concurrent writers.
func (s *Service) CreateAndUploadArchive(ctx context.Context) (string, error) {
	s.log.Info().Msg("Starting archive upload")
	startTime := time.Now()

	stagingDir := filepath.Join(s.dataDir, "archive-staging")
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	metadata := Metadata{
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Databases: make([]DatabaseMetadata, 0, len(s.databases)),
	}

	var files []string
	for _, db := range s.databases {
		filename := db.Name() + ".db"
		backupPath := filepath.Join(stagingDir, filename)

		s.log.Debug().Str("database", db.Name()).Msg("Backing up database")

		if err := db.VacuumInto(backupPath); err != nil {
			return "", fmt.Errorf("failed to back up %s: %w", db.Name(), err)
		}

		info, err := os.Stat(backupPath)
		if err != nil {
			return "", fmt.Errorf("failed to stat %s backup: %w", db.Name(), err)
		}

		checksum, err := fileChecksum(backupPath)
		if err != nil {
			return "", fmt.Errorf("failed to checksum %s backup: %w", db.Name(), err)
		}

		metadata.Databases = append(metadata.Databases, DatabaseMetadata{
			Name:      db.Name(),
			Filename:  filename,
			SizeBytes: info.Size(),
			Checksum:  checksum,
		})
		files = append(files, filename)
	}

	metadataPath := filepath.Join(stagingDir, "archive-metadata.json")
	if err := writeMetadata(metadataPath, metadata); err != nil {
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}
	files = append(files, "archive-metadata.json")

	key := archivePrefix + metadata.Timestamp.Format(archiveTimestampLayout) + ".tar.gz"
	archivePath := filepath.Join(stagingDir, key)
	if err := createTarball(archivePath, stagingDir, files); err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	archiveInfo, err := os.Stat(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to stat archive: %w", err)
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer archiveFile.Close()

	if err := s.store.Upload(ctx, key, archiveFile); err != nil {
		return "", fmt.Errorf("failed to upload archive: %w", err)
	}

	s.bus.Emit(events.ArchiveCompleted, "archive", &events.ArchiveCompletedData{
		Key:       key,
		SizeBytes: archiveInfo.Size(),
	})

	s.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Str("key", key).
		Int64("size_bytes", archiveInfo.Size()).
		Msg("Archive upload completed")

	return key, nil
}

// ListArchives returns stored archives, newest first. Objects whose key
// does not parse as an archive name are skipped.
func (s *Service) ListArchives(ctx context.Context) ([]Info, error) {
	objects, err := s.store.List(ctx, archivePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}

	archives := make([]Info, 0, len(objects))
	now := time.Now()

	for _, obj := range objects {
		timestamp, ok := ParseArchiveKey(obj.Key)
		if !ok {
			s.log.Warn().Str("key", obj.Key).Msg("Skipping object with unparseable archive key")
			continue
		}

		archives = append(archives, Info{
			Key:       obj.Key,
			Timestamp: timestamp,
			SizeBytes: obj.SizeBytes,
			AgeHours:  int64(now.Sub(timestamp).Hours()),
		})
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].Timestamp.After(archives[j].Timestamp)
	})

	return archives, nil
}

// RotateOldArchives deletes archives older than the retention window,
// always keeping the newest few regardless of age. Retention 0 keeps
// everything.
func (s *Service) RotateOldArchives(ctx context.Context, retentionDays int) (int, error) {
	archives, err := s.ListArchives(ctx)
	if err != nil {
		return 0, err
	}

	toDelete := SelectForRotation(archives, retentionDays, time.Now())

	deleted := 0
	for _, archive := range toDelete {
		if err := s.store.Delete(ctx, archive.Key); err != nil {
			s.log.Error().Err(err).Str("key", archive.Key).Msg("Failed to delete old archive")
			continue
		}

		s.log.Info().
			Str("key", archive.Key).
			Time("timestamp", archive.Timestamp).
			Msg("Deleted old archive")
		deleted++
	}

	if deleted > 0 {
		s.log.Info().
			Int("deleted", deleted).
			Int("remaining", len(archives)-deleted).
			Msg("Archive rotation completed")
	}

	return deleted, nil
}

// ParseArchiveKey extracts the timestamp from an archive object key.
func ParseArchiveKey(key string) (time.Time, bool) {
	if !strings.HasPrefix(key, archivePrefix) || !strings.HasSuffix(key, ".tar.gz") {
		return time.Time{}, false
	}

	raw := strings.TrimSuffix(strings.TrimPrefix(key, archivePrefix), ".tar.gz")
	timestamp, err := time.Parse(archiveTimestampLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return timestamp, true
}

// SelectForRotation returns the archives that rotation should delete:
// everything past the keep floor that is older than the retention
// window. Input must be sorted newest first, as ListArchives returns.
func SelectForRotation(archives []Info, retentionDays int, now time.Time) []Info {
	if retentionDays <= 0 || len(archives) <= minArchivesToKeep {
		return nil
	}

	cutoff := now.AddDate(0, 0, -retentionDays)

	var toDelete []Info
	for i, archive := range archives {
		if i < minArchivesToKeep {
			continue
		}
		if archive.Timestamp.Before(cutoff) {
			toDelete = append(toDelete, archive)
		}
	}
	return toDelete
}

func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

func writeMetadata(path string, metadata Metadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}

func createTarball(archivePath, sourceDir string, filenames []string) error {
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer archiveFile.Close()

	gzipWriter := gzip.NewWriter(archiveFile)
	defer gzipWriter.Close()

	tarWriter := tar.NewWriter(gzipWriter)
	defer tarWriter.Close()

	for _, filename := range filenames {
		if err := addFileToTarball(tarWriter, filepath.Join(sourceDir, filename), filename); err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", filename, err)
		}
	}

	return nil
}

func addFileToTarball(tarWriter *tar.Writer, path, nameInArchive string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    nameInArchive,
		Size:    info.Size(),
		Mode:    int64(info.Mode()),
		ModTime: info.ModTime(),
	}

	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(tarWriter, file)
	return err
}

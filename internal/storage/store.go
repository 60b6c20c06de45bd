// internal/storage/store.go
package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Bucket names used by the application.
const (
	BucketCarImages       = "car-images"
	BucketCarDocuments    = "car-documents"
	BucketClientDocuments = "client-documents"
	BucketProfilePhotos   = "profile-photos"
)

// SignedBuckets holds documents and requires a signed URL to read.
var SignedBuckets = map[string]bool{
	BucketCarDocuments:    true,
	BucketClientDocuments: true,
}

// Store is a disk backed object store. Objects live under
// rootDir/bucket/key and are served from baseURL/files/bucket/key.
type Store struct {
	rootDir   string
	baseURL   string
	signKey   []byte
	signedTTL time.Duration
	logger    *zap.Logger
}

func NewStore(rootDir, baseURL string, signKey []byte, signedTTL time.Duration, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	if signedTTL <= 0 {
		signedTTL = time.Hour
	}
	return &Store{
		rootDir:   rootDir,
		baseURL:   strings.TrimRight(baseURL, "/"),
		signKey:   signKey,
		signedTTL: signedTTL,
		logger:    logger,
	}, nil
}

// ObjectKey builds the storage key for a car asset.
func ObjectKey(vendorID, carID int64, filename string) string {
	return fmt.Sprintf("%d/%d/%d_%s", vendorID, carID, time.Now().UnixMilli(), SanitizeFilename(filename))
}

// ClientDocumentKey builds the storage key for a sale document.
func ClientDocumentKey(filename string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), SanitizeFilename(filename))
}

// ProfilePhotoKey builds the storage key for a vendor profile photo.
func ProfilePhotoKey(vendorID int64, filename string) string {
	return fmt.Sprintf("%d/%d-%s", vendorID, time.Now().UnixMilli(), SanitizeFilename(filename))
}

// Upload writes an object and returns its key.
func (s *Store) Upload(bucket, key string, data []byte) error {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create object dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

// Read returns the contents of an object.
func (s *Store) Read(bucket, key string) ([]byte, error) {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// PublicURL returns the unauthenticated URL for an object in a public bucket.
func (s *Store) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/files/%s/%s", s.baseURL, bucket, key)
}

// SignedURL returns a time limited URL for an object in a signed bucket.
func (s *Store) SignedURL(bucket, key string) string {
	exp := time.Now().Add(s.signedTTL).Unix()
	sig := s.sign(bucket, key, exp)
	return fmt.Sprintf("%s/files/%s/%s?exp=%d&sig=%s", s.baseURL, bucket, url.PathEscape(key), exp, sig)
}

// VerifySignature checks an exp/sig pair for an object.
func (s *Store) VerifySignature(bucket, key, expStr, sig string) bool {
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return false
	}
	if time.Now().Unix() > exp {
		return false
	}
	expected := s.sign(bucket, key, exp)
	return hmac.Equal([]byte(expected), []byte(sig))
}

// Remove deletes a single object. Missing objects are not an error.
func (s *Store) Remove(bucket, key string) error {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}

// RemovePrefix deletes every object under a key prefix, best effort.
func (s *Store) RemovePrefix(bucket, prefix string) {
	path, err := s.objectPath(bucket, prefix)
	if err != nil {
		s.logger.Warn("invalid storage prefix", zap.String("bucket", bucket), zap.String("prefix", prefix))
		return
	}
	if err := os.RemoveAll(path); err != nil {
		s.logger.Warn("failed to remove storage prefix",
			zap.String("bucket", bucket),
			zap.String("prefix", prefix),
			zap.Error(err),
		)
	}
}

// KeyFromURL extracts the bucket relative key from a stored URL.
func (s *Store) KeyFromURL(bucket, rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	marker := fmt.Sprintf("/files/%s/", bucket)
	idx := strings.Index(u.Path, marker)
	if idx < 0 {
		return "", false
	}
	key, err := url.PathUnescape(u.Path[idx+len(marker):])
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

func (s *Store) sign(bucket, key string, exp int64) string {
	mac := hmac.New(sha256.New, s.signKey)
	fmt.Fprintf(mac, "%s/%s|%d", bucket, key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Store) objectPath(bucket, key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("invalid object key")
	}
	return filepath.Join(s.rootDir, bucket, clean), nil
}

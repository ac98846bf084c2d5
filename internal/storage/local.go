package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	BucketProductImages = "product-images"
	BucketAvatars       = "avatars"
	BucketScreenshots   = "screenshots"

	publicPrefix = "/files/"
	// MaxObjectBytes limits a single upload.
	MaxObjectBytes = 10 << 20
)

var Buckets = []string{BucketProductImages, BucketAvatars, BucketScreenshots}

var (
	ErrNotFound      = errors.New("storage: object not found")
	ErrBadName       = errors.New("storage: invalid object name")
	ErrUnknownBucket = errors.New("storage: unknown bucket")
	ErrTooLarge      = errors.New("storage: object too large")
)

var nameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

type FileInfo struct {
	Bucket     string    `json:"bucket"`
	Name       string    `json:"name"`
	PublicPath string    `json:"public_path"`
	Size       int64     `json:"size"`
	ModTime    time.Time `json:"mod_time"`
}

// Local хранит бакеты каталогами под root.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	for _, b := range Buckets {
		if err := os.MkdirAll(filepath.Join(root, b), 0o755); err != nil {
			return nil, fmt.Errorf("storage bucket %s: %w", b, err)
		}
	}
	return &Local{root: root}, nil
}

func ValidBucket(bucket string) bool {
	for _, b := range Buckets {
		if b == bucket {
			return true
		}
	}
	return false
}

func ValidName(name string) bool {
	return nameRe.MatchString(name) && !strings.Contains(name, "..")
}

func (s *Local) path(bucket, name string) (string, error) {
	if !ValidBucket(bucket) {
		return "", ErrUnknownBucket
	}
	if !ValidName(name) {
		return "", ErrBadName
	}
	return filepath.Join(s.root, bucket, name), nil
}

// Put writes the object atomically (temp file + rename) and returns its public path.
func (s *Local) Put(bucket, name string, r io.Reader) (string, error) {
	dst, err := s.path(bucket, name)
	if err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, io.LimitReader(r, MaxObjectBytes+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	if n > MaxObjectBytes {
		return "", ErrTooLarge
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}
	return PublicPath(bucket, name), nil
}

func (s *Local) Get(bucket, name string) ([]byte, error) {
	p, err := s.path(bucket, name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return b, err
}

// Path returns the on-disk location of an existing object, for serving.
func (s *Local) Path(bucket, name string) (string, error) {
	p, err := s.path(bucket, name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}
	return p, nil
}

func (s *Local) Delete(bucket, name string) error {
	p, err := s.path(bucket, name)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// List returns the bucket's objects sorted by name. Temp files of in-flight uploads are skipped.
func (s *Local) List(bucket string) ([]FileInfo, error) {
	if !ValidBucket(bucket) {
		return nil, ErrUnknownBucket
	}
	entries, err := os.ReadDir(filepath.Join(s.root, bucket))
	if err != nil {
		return nil, err
	}
	out := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !ValidName(e.Name()) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, FileInfo{
			Bucket:     bucket,
			Name:       e.Name(),
			PublicPath: PublicPath(bucket, e.Name()),
			Size:       fi.Size(),
			ModTime:    fi.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func PublicPath(bucket, name string) string {
	return publicPrefix + bucket + "/" + name
}

// ParsePublicPath: обратное к PublicPath; принимает и абсолютные URL с тем же путём.
func ParsePublicPath(p string) (bucket, name string, ok bool) {
	if i := strings.Index(p, publicPrefix); i > 0 && strings.Contains(p[:i], "://") {
		p = p[i:]
	}
	rest, found := strings.CutPrefix(p, publicPrefix)
	if !found {
		return "", "", false
	}
	bucket, name, found = strings.Cut(rest, "/")
	if !found || !ValidBucket(bucket) || !ValidName(name) {
		return "", "", false
	}
	return bucket, name, true
}

func (s *Local) ReadPublic(publicPath string) ([]byte, error) {
	bucket, name, ok := ParsePublicPath(publicPath)
	if !ok {
		return nil, ErrBadName
	}
	return s.Get(bucket, name)
}

// DeletePublic removes the object behind a public path; foreign URLs are ignored.
func (s *Local) DeletePublic(publicPath string) error {
	bucket, name, ok := ParsePublicPath(publicPath)
	if !ok {
		return nil
	}
	return s.Delete(bucket, name)
}

var allowedExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

// NewObjectName returns a fresh random name keeping an allowed image extension of original.
func NewObjectName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if !allowedExt[ext] {
		ext = ""
	}
	return uuid.NewString() + ext
}

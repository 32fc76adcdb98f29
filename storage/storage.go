// Package storage is the object store the pipeline stages read their inputs from and write their
// dated outputs to
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrInvalidKey = errors.New("invalid object key")
)

// DateLayout is the date stamp embedded in dated object names
const DateLayout = "20060102"

// Store holds objects under slash separated keys
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// DatedKey returns prefix/nameYYYYMMDD.ext for the UTC date of t
func DatedKey(prefix, name, ext string, t time.Time) string {
	return path.Join(prefix, name+t.UTC().Format(DateLayout)+"."+strings.TrimPrefix(ext, "."))
}

// LatestDated returns the key under prefix matching nameYYYYMMDD.ext with the greatest date
// stamp, or ErrNotFound when none match
func LatestDated(ctx context.Context, s Store, prefix, name, ext string) (string, error) {
	keys, err := s.List(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("unable to list %s, %w", prefix, err)
	}

	pattern, err := regexp.Compile(regexp.QuoteMeta(name) + `(\d{8})\.` + regexp.QuoteMeta(strings.TrimPrefix(ext, ".")) + `$`)
	if err != nil {
		return "", err
	}

	var latest, latestStamp string
	for _, key := range keys {
		m := pattern.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		if m[1] > latestStamp || (m[1] == latestStamp && key > latest) {
			latest, latestStamp = key, m[1]
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no %s*.%s under %s, %w", name, ext, prefix, ErrNotFound)
	}
	return latest, nil
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.HasSuffix(key, "/") {
		return fmt.Errorf("key %q, %w", key, ErrInvalidKey)
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("key %q, %w", key, ErrInvalidKey)
		}
	}
	return nil
}

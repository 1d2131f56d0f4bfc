// Package storage puts avatar objects into S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/config"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/ids"
)

type Object struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store is implemented by the minio and the AWS S3 backed drivers.
type Store interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, obj Object) error
	Remove(ctx context.Context, key string) error
}

func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "minio":
		return NewMinioStore(cfg)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// AvatarKey builds "<prefix>/<userID>/dp/<id>-<name>" with whitespace and
// other unsafe characters in name replaced by dashes.
func AvatarKey(prefix string, userID int64, filename string) string {
	name := unsafeName.ReplaceAllString(path.Base(filename), "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		name = "avatar"
	}
	return path.Join(prefix, strconv.FormatInt(userID, 10), "dp", ids.New()+"-"+name)
}

// PublicURL joins the CDN base and an object key.
func PublicURL(cdnBase string, key string) string {
	if cdnBase == "" {
		return key
	}
	return strings.TrimSuffix(cdnBase, "/") + "/" + strings.TrimPrefix(key, "/")
}

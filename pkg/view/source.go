package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// DefaultExtension is appended to chunk names to form file names and keys.
const DefaultExtension = ".html"

// MaxChunkSize bounds how much of a chunk is read.
const MaxChunkSize = 4 << 20

// Chunk errors.
var (
	ErrChunkNotFound    = errors.New("chunk not found")
	ErrInvalidChunkName = errors.New("invalid chunk name")
	ErrChunkTooLarge    = errors.New("chunk too large")
)

// Source fetches chunk contents by name.
type Source interface {
	Fetch(ctx context.Context, chunk string) ([]byte, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, chunk string) ([]byte, error)

// Fetch implements Source.
func (f SourceFunc) Fetch(ctx context.Context, chunk string) ([]byte, error) {
	return f(ctx, chunk)
}

// checkChunkName rejects names that could escape the chunk root.
func checkChunkName(chunk string) error {
	if chunk == "" || strings.Contains(chunk, "\\") || !fs.ValidPath(chunk) {
		return fmt.Errorf("%w: %q", ErrInvalidChunkName, chunk)
	}
	return nil
}

// FSSource reads chunks from a file system, e.g. an embed.FS or os.DirFS.
type FSSource struct {
	fsys fs.FS
	ext  string
}

// NewFSSource creates a source reading "<chunk>.html" files from fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys, ext: DefaultExtension}
}

// WithExtension sets the file extension appended to chunk names.
func (s *FSSource) WithExtension(ext string) *FSSource {
	s.ext = ext
	return s
}

// Fetch implements Source.
func (s *FSSource) Fetch(ctx context.Context, chunk string) ([]byte, error) {
	if err := checkChunkName(chunk); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := chunk + s.ext
	f, err := s.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrChunkNotFound, chunk)
		}
		return nil, fmt.Errorf("open chunk %s: %w", name, err)
	}
	defer f.Close()
	return readLimited(f, chunk)
}

// S3API is the subset of the S3 client used by S3Source.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads chunks from an S3 bucket.
//
// Example usage:
//
//	client := s3.New(s3.Options{Region: "eu-west-1", Credentials: creds})
//	src := view.NewS3Source(client, "my-app-chunks", "views/")
type S3Source struct {
	client S3API
	bucket string
	prefix string
	ext    string
}

// NewS3Source creates a source reading "<prefix><chunk>.html" objects.
func NewS3Source(client S3API, bucket, prefix string) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
		ext:    DefaultExtension,
	}
}

// WithExtension sets the extension appended to chunk names.
func (s *S3Source) WithExtension(ext string) *S3Source {
	s.ext = ext
	return s
}

// Key returns the object key of a chunk.
func (s *S3Source) Key(chunk string) string {
	if s.prefix == "" {
		return chunk + s.ext
	}
	return path.Join(s.prefix, chunk+s.ext)
}

// Fetch implements Source.
func (s *S3Source) Fetch(ctx context.Context, chunk string) ([]byte, error) {
	if err := checkChunkName(chunk); err != nil {
		return nil, err
	}

	key := s.Key(chunk)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", ErrChunkNotFound, chunk)
		}
		return nil, fmt.Errorf("s3 get %s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()
	return readLimited(out.Body, chunk)
}

func readLimited(r io.Reader, chunk string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxChunkSize+1))
	if err != nil {
		return nil, fmt.Errorf("read chunk %s: %w", chunk, err)
	}
	if len(data) > MaxChunkSize {
		return nil, fmt.Errorf("%w: %s", ErrChunkTooLarge, chunk)
	}
	return data, nil
}

// Package storage keeps uploaded audio cues on local disk or in
// DigitalOcean Spaces.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
)

// MaxAudioSize bounds a single uploaded cue.
const MaxAudioSize = 10 << 20

var (
	ErrUnsupportedAudio = errors.New("unsupported audio format")
	ErrTooLarge         = errors.New("audio file too large")
)

type Storage interface {
	// SaveAudio stores an uploaded cue and returns the URL screens play it from.
	SaveAudio(ctx context.Context, fileHeader *multipart.FileHeader, cue string) (string, error)
}

type LocalStorage struct {
	uploadDir string
	baseURL   string
}

type SpacesStorage struct {
	client *s3.S3
	bucket string
	cdnURL string
}

// NewLocalStorage writes into uploadDir; files are served under baseURL.
func NewLocalStorage(uploadDir, baseURL string) *LocalStorage {
	return &LocalStorage{uploadDir: uploadDir, baseURL: baseURL}
}

func NewSpacesStorage(endpoint, region, bucket, cdnURL, accessKey, secretKey string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SpacesStorage{
		client: s3.New(sess),
		bucket: bucket,
		cdnURL: cdnURL,
	}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// normalizeFilename names a cue file "<cue>_<timestamp><ext>".
func normalizeFilename(cue, originalFilename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	base := unsafeChars.ReplaceAllString(strings.ReplaceAll(cue, " ", "_"), "")
	if base == "" {
		base = "audio"
	}
	return fmt.Sprintf("%s_%s%s", base, now.Format("20060102_150405"), ext)
}

// ContentType returns the MIME type of an audio file name.
func ContentType(filename string) (string, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp3":
		return "audio/mpeg", true
	case ".ogg", ".oga":
		return "audio/ogg", true
	case ".wav":
		return "audio/wav", true
	case ".m4a":
		return "audio/mp4", true
	case ".aac":
		return "audio/aac", true
	case ".webm":
		return "audio/webm", true
	default:
		return "", false
	}
}

func checkUpload(fileHeader *multipart.FileHeader) (string, error) {
	contentType, ok := ContentType(fileHeader.Filename)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAudio, fileHeader.Filename)
	}
	if fileHeader.Size > MaxAudioSize {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, fileHeader.Size)
	}
	return contentType, nil
}

func (ls *LocalStorage) SaveAudio(_ context.Context, fileHeader *multipart.FileHeader, cue string) (string, error) {
	if _, err := checkUpload(fileHeader); err != nil {
		return "", err
	}
	name := normalizeFilename(cue, fileHeader.Filename, time.Now())
	log.Debug().Str("original", fileHeader.Filename).Str("normalized", name).Msg("audio upload normalized")

	if err := os.MkdirAll(ls.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(ls.uploadDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return path.Join("/", strings.Trim(ls.baseURL, "/"), name), nil
}

func (ss *SpacesStorage) SaveAudio(ctx context.Context, fileHeader *multipart.FileHeader, cue string) (string, error) {
	contentType, err := checkUpload(fileHeader)
	if err != nil {
		return "", err
	}
	name := normalizeFilename(cue, fileHeader.Filename, time.Now())
	log.Debug().Str("original", fileHeader.Filename).Str("normalized", name).Msg("audio upload normalized")

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	key := "audio/" + name
	_, err = ss.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to upload audio to Spaces")
		return "", fmt.Errorf("failed to upload to Spaces: %w", err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(ss.cdnURL, "/"), key), nil
}

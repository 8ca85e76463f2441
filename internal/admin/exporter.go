package admin

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/driveaccess/internal/server/models"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// S3Config points the exporter at an S3-compatible bucket. Endpoint is
// optional; when set, path-style addressing is used (MinIO and friends).
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type S3Exporter struct {
	cfg    S3Config
	now    func() time.Time
	newKey func(time.Time) string
}

func NewS3Exporter(cfg S3Config) (*S3Exporter, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("export bucket is required")
	}
	return &S3Exporter{cfg: cfg, now: time.Now, newKey: ExportKey}, nil
}

// ExportKey returns a fresh object key under the day of t.
func ExportKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("exports/users/%04d/%02d/%02d/%s.csv", t.Year(), int(t.Month()), t.Day(), uuid.New())
}

func (e *S3Exporter) client(ctx context.Context) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(e.cfg.Region)}
	if e.cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(e.cfg.AccessKey, e.cfg.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if e.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(e.cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Export uploads profiles as one CSV object and returns its key.
func (e *S3Exporter) Export(ctx context.Context, profiles []*models.Profile) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, profiles); err != nil {
		return "", err
	}

	c, err := e.client(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 config error: %w", err)
	}

	key := e.newKey(e.now())
	_, err = putObject(c, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(e.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String("text/csv; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put error: %w", err)
	}

	return key, nil
}

var csvHeader = []string{
	"id", "display_name", "handle", "phone", "phone_shared_at",
	"team", "email", "granted_at", "created_at", "updated_at",
}

// WriteCSV writes the header row and one row per profile. Unset timestamps
// are written as empty cells.
func WriteCSV(w io.Writer, profiles []*models.Profile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, p := range profiles {
		row := []string{
			strconv.FormatInt(p.ID, 10),
			p.DisplayName,
			p.Handle,
			p.Phone,
			formatTime(p.PhoneSharedAt),
			p.Team,
			p.Email,
			formatTime(p.GrantedAt),
			formatTime(&p.CreatedAt),
			formatTime(&p.UpdatedAt),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

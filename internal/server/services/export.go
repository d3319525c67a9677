package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/fitplan/internal/common"
	sc "github.com/dmitrijs2005/fitplan/internal/server/config"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/repomanager"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ExportResult points at an uploaded plan document.
type ExportResult struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// ExportService uploads plans to S3-compatible storage and hands out
// time-limited download links.
type ExportService struct {
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	now         func() time.Time
}

func NewExportService(m repomanager.RepositoryManager, cfg *sc.Config) *ExportService {
	return &ExportService{repomanager: m, config: cfg, now: time.Now}
}

// ExportKey is the object key of a plan export.
func ExportKey(userID, planID string) string {
	return fmt.Sprintf("plans/%s/%s.json", userID, planID)
}

func (s *ExportService) getClients(ctx context.Context) (*s3.Client, *s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return client, newS3PresignClient(client), nil
}

// Export uploads plan id of userID as JSON and returns a presigned GET link.
func (s *ExportService) Export(ctx context.Context, userID, planID string) (*ExportResult, error) {
	if !s.config.ExportEnabled() {
		return nil, common.ErrExportDisabled
	}

	plan, err := s.repomanager.Plans().GetByID(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(map[string]any{
		"plan_id":    plan.ID,
		"goal_id":    plan.GoalID,
		"created_at": plan.CreatedAt,
		"plan":       plan.Plan,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding plan: %w", err)
	}

	client, presignClient, err := s.getClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("error configuring object storage: %w", err)
	}

	bucket := s.config.S3Bucket
	key := ExportKey(userID, planID)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("error uploading plan: %w", err)
	}

	ttl := s.config.ExportURLTTL
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("error presigning download: %w", err)
	}

	return &ExportResult{Key: key, URL: req.URL, ExpiresAt: s.now().Add(ttl)}, nil
}

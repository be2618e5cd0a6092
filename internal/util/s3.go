package util

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/nakachan-ing/agenda-cli/internal/model"
)

// UploadToS3 uploads a local file to the backup bucket under s3Key.
func UploadToS3(s3Client *s3.Client, bucket, filePath string, s3Key string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("❌ Failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(s3Key),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to upload %s to S3: %w", s3Key, err)
	}

	log.Printf("✅ Uploaded %s to S3", s3Key)
	return nil
}

// DownloadFromS3 downloads an object to localPath, creating parent
// directories as needed.
func DownloadFromS3(s3Client *s3.Client, bucket, s3Key string, localPath string) error {
	resp, err := s3Client.GetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to download %s from S3: %w", s3Key, err)
	}
	defer resp.Body.Close()

	localDir := filepath.Dir(localPath)
	if err := os.MkdirAll(localDir, os.ModePerm); err != nil {
		return fmt.Errorf("❌ Failed to create directory %s: %w", localDir, err)
	}

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("❌ Failed to create file %s: %w", localPath, err)
	}
	defer file.Close()

	_, err = file.ReadFrom(resp.Body)
	if err != nil {
		return fmt.Errorf("❌ Failed to write file %s: %w", localPath, err)
	}

	log.Printf("✅ Downloaded %s from S3", s3Key)
	return nil
}

// SyncFilesToS3 moves a list of relative paths between a local directory
// type and its bucket prefix. direction "push" uploads, "pull" downloads.
// A failed file is logged and skipped so one bad object does not stall
// the rest of the batch.
func SyncFilesToS3(s3Client *s3.Client, config model.Config, direction, dirType string, files []string) error {
	var baseDir, prefix string
	switch dirType {
	case "vault":
		baseDir, prefix = config.VaultDir, "vault/"
	case "data":
		baseDir, prefix = filepath.Dir(config.DatabasePath), "data/"
	default:
		return fmt.Errorf("❌ Invalid directory type: %s", dirType)
	}

	for _, file := range files {
		localPath := filepath.Join(baseDir, file)
		s3Key := prefix + filepath.ToSlash(file)

		var err error
		switch direction {
		case "push":
			err = UploadToS3(s3Client, config.Sync.Bucket, localPath, s3Key)
		case "pull":
			err = DownloadFromS3(s3Client, config.Sync.Bucket, s3Key, localPath)
		default:
			return fmt.Errorf("❌ Unknown sync direction: %s", direction)
		}
		if err != nil {
			log.Printf("⚠️ Skipping %s: %v", file, err)
		}
	}
	return nil
}

func isNotFoundErr(err error) bool {
	var s3Err *types.NoSuchKey
	return errors.As(err, &s3Err)
}

// NewS3Client builds an S3 client from the profile and region in the
// backup config.
func NewS3Client(agendaConfig model.Config) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithSharedConfigProfile(agendaConfig.Sync.AWSProfile),
		config.WithRegion(agendaConfig.Sync.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}

	s3Client := s3.NewFromConfig(cfg)

	return s3Client, nil
}

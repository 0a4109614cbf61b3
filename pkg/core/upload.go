package core

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"

	"sg-sweeper/pkg/core/awsclients"
)

// UploadReport stores a rendered report in an S3 bucket under the given object key
func UploadReport(ctx context.Context, region string, profile string, bucketName string, objectKey string,
	body []byte) error {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region), config.WithSharedConfigProfile(profile))
	if err != nil {
		return err
	}

	return awsclients.NewAwsS3Client(cfg).PutReport(ctx, bucketName, objectKey, body)
}

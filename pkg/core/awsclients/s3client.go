package awsclients

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type AwsS3Client struct {
	client *s3.Client
}

func NewAwsS3Client(cfg aws.Config) *AwsS3Client {
	return &AwsS3Client{
		client: s3.NewFromConfig(cfg),
	}
}

// PutReport uploads the report body to the bucket under the given object key
func (c *AwsS3Client) PutReport(ctx context.Context, bucketName, objectKey string, body []byte) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	return err
}

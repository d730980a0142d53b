package export

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rotblauer/stopd/params"
)

// UploadS3 puts an export object in the configured bucket. The AWS
// library reads credentials and region from the environment; an unset
// bucket name skips the upload without error so local runs work
// offline.
func UploadS3(key string, data []byte, contentType string) error {
	if params.AWS_BUCKETNAME == "" {
		slog.Warn("AWS_BUCKETNAME not set, skipping S3 upload", "key", key)
		return nil
	}

	// All clients require a Session. The Session provides the client with
	// shared configuration such as region, endpoint, and credentials.
	sess := session.Must(session.NewSession())
	svc := s3.New(sess)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(params.AWS_BUCKETNAME),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == request.CanceledErrorCode {
			slog.Error("AWS S3 upload canceled due to timeout", "error", err)
		} else {
			slog.Error("Failed to upload object", "error", err)
		}
		return err
	}

	slog.Info("Uploaded export to AWS S3", "bucket", params.AWS_BUCKETNAME, "key", key)
	return nil
}

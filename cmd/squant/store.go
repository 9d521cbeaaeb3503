package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/squant/blobstore"
	minioblob "github.com/hupe1980/squant/blobstore/minio"
	s3blob "github.com/hupe1980/squant/blobstore/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// store is what the commands need from a backend: reading and creating blobs.
type store interface {
	blobstore.Store
	blobstore.Writer
}

// openStore connects to the backend a location points at.
func openStore(ctx context.Context, loc blobstore.Location, cfg Config) (store, error) {
	switch loc.Scheme {
	case blobstore.SchemeFile:
		return blobstore.NewLocalStore(loc.Root), nil
	case blobstore.SchemeS3:
		return newS3Store(ctx, loc.Root, cfg.S3)
	case blobstore.SchemeMinio:
		return newMinioStore(loc.Root, cfg.Minio)
	default:
		return nil, fmt.Errorf("unsupported location scheme %q", loc.Scheme)
	}
}

func newS3Store(ctx context.Context, bucket string, cfg S3Config) (*s3blob.Store, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return s3blob.NewStore(client, bucket, ""), nil
}

func newMinioStore(bucket string, cfg MinioConfig) (*minioblob.Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}
	return minioblob.NewStore(client, bucket, ""), nil
}

package minio

import (
	"Murmur/internal/api/config"
	"context"
	"fmt"
	"io"
	log "log/slog"

	"github.com/minio/minio-go/v7"
)

// UploadFile 上传文件到MinIO
func UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, MainBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// RemovePrefix 删除指定前缀下的全部对象，尽力而为：
// 单个对象删除失败只记录日志，返回首个遇到的错误
func RemovePrefix(ctx context.Context, prefix string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	objectCh := Client.ListObjects(ctx, MainBucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	var firstErr error
	for object := range objectCh {
		if object.Err != nil {
			if firstErr == nil {
				firstErr = object.Err
			}
			log.ErrorContext(ctx, "MinIO list object failed", "prefix", prefix, "err", object.Err)
			continue
		}
		err := Client.RemoveObject(ctx, MainBucket, object.Key, minio.RemoveObjectOptions{})
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			log.ErrorContext(ctx, "MinIO remove object failed", "key", object.Key, "err", err)
		}
	}
	return firstErr
}

// GetPublicURL 获取文件的公共访问URL
func GetPublicURL(objectName string) string {
	cfg := config.Cfg.MinIO

	protocol := "http"
	if cfg.UseSSL {
		protocol = "https"
	}

	return fmt.Sprintf("%s://%s/%s/%s", protocol, cfg.Endpoint, MainBucket, objectName)
}

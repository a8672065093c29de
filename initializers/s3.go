package initializers

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"approval-flow-backend/config"
	filestorage "approval-flow-backend/lib/file-storage"
)

func InitS3(ctx context.Context, cfg *config.Configuration) {
	minioClient, err := minio.New(cfg.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV2(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, ""),
		Secure: *cfg.S3.UseSSL,
	})
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		return
	}

	// Проверка соединения
	_, err = minioClient.ListBuckets(ctx)
	if err != nil {
		log.WithError(err).Error("S3 соединение не удалось — ListBuckets вернул ошибку")
	}

	filestorage.NewInstance(minioClient, cfg.S3.BucketName)
	if err = filestorage.Instance.MakeBucket(ctx); err != nil {
		log.WithError(err).Error("Ошибка создания бакета для вложений")
	}
	log.Info("S3 клиент успешно инициализирован")
}

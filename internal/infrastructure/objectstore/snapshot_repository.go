// Package objectstore persiste el snapshot de periodo bloqueado como un objeto
// en un bucket S3 compatible (AWS S3 o MinIO). El documento es el mismo que
// escribe filestore; PutObject reemplaza el objeto completo de forma atómica.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	"github.com/jhoicas/inventario-osv/internal/domain/repository"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/filestore"
)

var _ repository.SnapshotRepository = (*SnapshotRepository)(nil)

// DefaultKey objeto usado si Config.Key está vacío.
const DefaultKey = "saved_turnovers.json"

// Config parámetros del bucket. Las credenciales salen de la cadena por
// defecto del SDK (AWS_ACCESS_KEY_ID, perfil, rol de instancia).
type Config struct {
	Bucket    string
	Key       string
	Region    string
	Endpoint  string // opcional, para MinIO
	PathStyle bool
}

// SnapshotRepository implementación sobre un objeto S3.
type SnapshotRepository struct {
	client *s3.Client
	bucket string
	key    string
}

// New carga la configuración del SDK y construye el adaptador.
func New(ctx context.Context, cfg Config) (*SnapshotRepository, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("objectstore: bucket requerido")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("objectstore: configuración AWS: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Key), nil
}

// NewWithClient usa un cliente ya construido (tests, clientes compartidos).
func NewWithClient(client *s3.Client, bucket, key string) *SnapshotRepository {
	if key == "" {
		key = DefaultKey
	}
	return &SnapshotRepository{client: client, bucket: bucket, key: key}
}

// Location s3://bucket/key, para logs.
func (r *SnapshotRepository) Location() string {
	return "s3://" + r.bucket + "/" + r.key
}

// Load devuelve (nil, nil) si el objeto no existe.
func (r *SnapshotRepository) Load(ctx context.Context) (*osv.Snapshot, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &r.bucket, Key: &r.key})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer snapshot %s: %w", r.Location(), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("leer snapshot %s: %w", r.Location(), err)
	}
	snap, err := filestore.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", r.Location(), err)
	}
	return snap, nil
}

// Save reemplaza el objeto.
func (r *SnapshotRepository) Save(ctx context.Context, snap *osv.Snapshot) error {
	data, err := filestore.Encode(snap)
	if err != nil {
		return err
	}
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &r.bucket,
		Key:         &r.key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata:    map[string]string{"revision": snap.Revision, "cutoff": snap.Cutoff.Format(osv.DateLayout)},
	})
	if err != nil {
		return fmt.Errorf("escribir snapshot %s: %w: %w", r.Location(), domain.ErrPersistence, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}

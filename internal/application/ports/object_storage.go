package ports

import (
	"context"
	"io"
)

// ObjectStorage almacenamiento de archivos (fotos de perfil) en un bucket S3-compatible.
type ObjectStorage interface {
	// Put sube el contenido bajo key.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL devuelve una URL temporal (presignada) para leer el objeto.
	URL(ctx context.Context, key string) (string, error)
}

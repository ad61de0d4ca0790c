// Package file provides storage backends and content checks for uploaded assets.
//
// The Storage interface is deliberately small: directories are ensured, files
// are probed for existence and created exclusively, so a caller that races
// another writer for the same path gets ErrFileExists instead of overwriting
// someone else's upload.
//
// Two implementations are provided:
//   - LocalStorage: filesystem storage confined to a base directory. Exclusive
//     creation uses O_CREATE|O_EXCL.
//   - S3Storage: Amazon S3 and S3-compatible services (MinIO, Wasabi, etc.).
//     Exclusive creation uses conditional writes (If-None-Match: *).
//
// # Usage
//
//	import "github.com/dmitrymomot/printdrop/pkg/file"
//
//	storage, err := file.NewLocalStorage("./uploads", "/files/")
//	if err != nil {
//		return err
//	}
//
//	data, err := file.ReadAll(fh, 25_000_000)
//	if err != nil {
//		return err
//	}
//
//	kind, err := file.DetectImageType(data)
//	if err != nil {
//		return err // *UnsupportedTypeError carries the detected MIME
//	}
//
//	p := file.Join("order42", "order42."+kind.Ext)
//	if err := storage.Create(ctx, p, data, kind.MIME); errors.Is(err, file.ErrFileExists) {
//		// pick another name
//	}
//
// Using S3 storage:
//
//	storage, err := file.NewS3Storage(ctx, file.S3Config{
//		Bucket:         "prints",
//		Region:         "us-east-1",
//		Endpoint:       "http://localhost:9000",
//		ForcePathStyle: true,
//	})
//
// # Content detection
//
// DetectImageType relies on magic bytes via http.DetectContentType. Only PNG
// and JPEG are accepted; client-supplied filenames and MIME types are ignored.
//
// # Error Handling
//
// Errors are wrapped around package sentinels and can be checked with
// errors.Is: ErrFileExists, ErrInvalidPath, ErrFailedToCreateDirectory,
// ErrFileTooLarge, ErrUnsupportedMediaType, ErrOperationTimeout and others.
package file

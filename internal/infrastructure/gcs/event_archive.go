// Package gcs archives every published event as a JSON object in a bucket.
package gcs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/helpers"
)

// Uploader writes r to objectPath and returns its URL.
type Uploader func(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)

// BucketUploader uploads into bucket through client.
func BucketUploader(client *storage.Client, bucket string) Uploader {
	return func(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
		return helpers.UploadObject(ctx, client, bucket, objectPath, contentType, r)
	}
}

type EventArchive struct {
	upload Uploader
	prefix string
	now    func() time.Time
}

func NewEventArchive(upload Uploader, prefix string) *EventArchive {
	return &EventArchive{upload: upload, prefix: prefix, now: time.Now}
}

func (a *EventArchive) Publish(ctx context.Context, e event.Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", apperror.ErrEventPublication, e.DetailType, err)
	}
	obj := objectPath(a.prefix, e.DetailType, a.now().UTC(), uuid.NewString())
	if _, err := a.upload(ctx, obj, "application/json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("%w: gcs upload %s: %v", apperror.ErrEventPublication, obj, err)
	}
	return nil
}

// objectPath lays events out by day so a bucket listing reads chronologically.
func objectPath(prefix string, t event.DetailType, at time.Time, id string) string {
	name := fmt.Sprintf("%s-%s-%s.json", at.Format("150405.000000000"), t, id)
	return path.Join(prefix, at.Format("2006/01/02"), name)
}

package ivory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/ivory/blobstore"
	"github.com/hupe1980/ivory/persistence"
)

// ManifestSuffix is appended to the snapshot key for the manifest blob.
const ManifestSuffix = ".manifest.json"

// ExportManifest describes an exported snapshot. It is stored next to the
// snapshot blob as human-readable JSON so exports can be inventoried without
// decoding them.
type ExportManifest struct {
	Key       string    `json:"key"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
	Codec     string    `json:"codec"`
	Size      int       `json:"size"`
	Checksum  uint32    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}

// Export uploads the current snapshot and its manifest to bs under key.
// The on-disk location is untouched; exporting does not count as a save.
func (s *Store) Export(ctx context.Context, bs blobstore.BlobStore, key string) error {
	if s.closed {
		return ErrClosed
	}
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidName)
	}

	s.Compact()

	var buf bytes.Buffer
	if err := persistence.WriteSnapshot(&buf, s.snapshot(), s.opts.codec, s.opts.compression); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data := buf.Bytes()

	manifest := ExportManifest{
		Key:       key,
		Rows:      s.Rows(),
		Columns:   s.Columns(),
		Codec:     s.opts.codec.Name(),
		Size:      len(data),
		Checksum:  persistence.ComputeChecksum(data),
		CreatedAt: time.Now().UTC(),
	}
	manifestBytes, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bs.Put(ctx, key, data) })
	g.Go(func() error { return bs.Put(ctx, key+ManifestSuffix, manifestBytes) })

	err = g.Wait()
	s.opts.logger.LogExport(key, len(data), err)
	return err
}

// Import loads a store from a snapshot previously uploaded with Export.
//
// The imported store has no location assigned; call SetLocation (or rely on
// the default) before saving it. A missing key fails with ErrStoreNotFound.
func Import(ctx context.Context, bs blobstore.BlobStore, key string, optFns ...Option) (*Store, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrStoreNotFound)
	}

	blob, err := bs.Open(ctx, key)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, key)
		}
		return nil, err
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(blob)
	if err != nil {
		return nil, err
	}

	snap, err := persistence.ReadSnapshot(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", key, err)
	}

	s := New(optFns...)
	s.rows = int(snap.Rows)
	s.attributes = make([]*Attribute, 0, len(snap.Columns))
	for _, col := range snap.Columns {
		s.attributes = append(s.attributes, &Attribute{name: col.Name, values: col.Values})
	}
	return s, nil
}

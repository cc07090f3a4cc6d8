package main

import (
	"context"
	"fmt"
	"hash/crc32"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gamma-omg/rag-cite/docstore"
)

type DocStore interface {
	Ingest(ctx context.Context, doc docstore.Doc) error
	Forget(ctx context.Context, doc docstore.IngestedDoc) error
	GetIngested(ctx context.Context) ([]docstore.IngestedDoc, error)
}

type FileReader interface {
	CanRead(path string) bool
	ReadText(path string) (string, error)
}

type Chunkifier interface {
	Chunkify(text string) []string
}

// DocRegistry keeps the vector index in step with the documents under root.
// Sources are named by their path relative to root; change detection is a
// CRC32 over the extracted text.
type DocRegistry struct {
	log              *slog.Logger
	root             string
	mergeEventsDelay time.Duration
	store            DocStore
	chunkifier       Chunkifier
	readers          []FileReader
}

type DiskDoc struct {
	Source string
	Path   string
	Crc    uint32
}

type diskDocs map[string]DiskDoc
type dbDocs map[string]docstore.IngestedDoc

// Sync ingests new and changed documents and forgets removed ones. Changed
// documents are forgotten before re-ingestion so a shrinking chunk count
// leaves no stale tail points behind.
func (dr *DocRegistry) Sync(ctx context.Context) error {
	disk, err := dr.collectDocs()
	if err != nil {
		return err
	}

	diskMap := make(diskDocs)
	for _, d := range disk {
		diskMap[d.Source] = d
	}

	db, err := dr.store.GetIngested(ctx)
	if err != nil {
		return err
	}

	dbMap := make(dbDocs)
	for _, d := range db {
		dbMap[d.Source] = d
	}

	err = dr.forgetStaleDocuments(ctx, diskMap, dbMap)
	if err != nil {
		return err
	}

	return dr.ingestNewDocuments(ctx, diskMap, dbMap)
}

// Watch re-syncs whenever files under root change. Bursts of events are
// merged: a sync runs only after mergeEventsDelay of quiet. Blocks until ctx
// is cancelled.
func (dr *DocRegistry) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	err = filepath.Walk(dr.root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.Add(path)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dr.root, err)
	}

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op.Has(fsnotify.Create) {
				if info, e := os.Stat(ev.Name); e == nil && info.IsDir() {
					if e := w.Add(ev.Name); e != nil {
						dr.log.Warn("failed to watch new directory", "path", ev.Name, "error", e)
					}
				}
			}

			timer.Reset(dr.mergeEventsDelay)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			dr.log.Error("watch error", "error", err)

		case <-timer.C:
			if err := dr.Sync(ctx); err != nil {
				dr.log.Error("sync failed", "error", err)
			}
		}
	}
}

func (dr *DocRegistry) collectDocs() (docs []DiskDoc, err error) {
	err = filepath.Walk(dr.root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		reader, e := dr.findReader(path)
		if e != nil {
			dr.log.Warn(fmt.Sprintf("unsupported file: %s", path))
			return nil
		}

		text, e := reader.ReadText(path)
		if e != nil {
			return e
		}

		source, e := filepath.Rel(dr.root, path)
		if e != nil {
			return e
		}

		docs = append(docs, DiskDoc{
			Source: filepath.ToSlash(source),
			Path:   path,
			Crc:    crc32.Checksum([]byte(text), crc32.IEEETable),
		})

		return nil
	})

	return
}

func (dr *DocRegistry) ingestNewDocuments(ctx context.Context, disk diskDocs, db dbDocs) error {
	for _, diskDoc := range disk {
		dbDoc, ok := db[diskDoc.Source]
		if ok && dbDoc.Crc == diskDoc.Crc {
			continue
		}

		reader, err := dr.findReader(diskDoc.Path)
		if err != nil {
			return fmt.Errorf("failed to find reader for document %s: %w", diskDoc.Source, err)
		}

		text, err := reader.ReadText(diskDoc.Path)
		if err != nil {
			return fmt.Errorf("failed to read document %s: %w", diskDoc.Source, err)
		}

		err = dr.store.Ingest(ctx, docstore.Doc{
			Source: diskDoc.Source,
			Crc:    diskDoc.Crc,
			Chunks: dr.chunkifier.Chunkify(text),
		})
		if err != nil {
			return fmt.Errorf("failed to store document %s: %w", diskDoc.Source, err)
		}

		dr.log.Info("ingested document", "source", diskDoc.Source)
	}

	return nil
}

func (dr *DocRegistry) forgetStaleDocuments(ctx context.Context, disk diskDocs, db dbDocs) error {
	for _, dbDoc := range db {
		diskDoc, ok := disk[dbDoc.Source]
		if ok && diskDoc.Crc == dbDoc.Crc {
			continue
		}

		err := dr.store.Forget(ctx, dbDoc)
		if err != nil {
			return fmt.Errorf("failed to remove document %s from store: %w", dbDoc.Source, err)
		}

		dr.log.Info("forgot document", "source", dbDoc.Source)
	}

	return nil
}

func (dr *DocRegistry) findReader(path string) (FileReader, error) {
	for _, r := range dr.readers {
		if r.CanRead(path) {
			return r, nil
		}
	}

	return nil, fmt.Errorf("unable to find reader for file: %s", path)
}

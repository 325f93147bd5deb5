package cmd

import (
	"context"
	"fmt"

	"github.com/justapithecus/lode/lode"
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/depthcap/cli/config"
	"github.com/justapithecus/depthcap/storage"
)

// defaultStoragePath is the fs storage root when none is configured.
const defaultStoragePath = "./depthcap-data"

// storageChoice holds parsed storage configuration.
type storageChoice struct {
	backend   string // "fs" or "s3"
	path      string // fs: directory, s3: bucket/prefix
	region    string
	endpoint  string
	pathStyle bool
}

func resolveStorageChoice(c *cli.Context, cfg *config.Config) storageChoice {
	sc := configVal(cfg, func(c *config.Config) config.StorageConfig { return c.Storage })
	return storageChoice{
		backend:   resolveString(c, "storage-backend", sc.Backend),
		path:      resolveString(c, "storage-path", sc.Path),
		region:    resolveString(c, "s3-region", sc.Region),
		endpoint:  resolveString(c, "s3-endpoint", sc.Endpoint),
		pathStyle: resolveBool(c, "s3-path-style", sc.S3PathStyle),
	}
}

// storageFactory builds the Lode store factory for the chosen backend.
func storageFactory(ctx context.Context, choice storageChoice) (lode.StoreFactory, error) {
	switch choice.backend {
	case "fs", "":
		if choice.path == "" {
			return nil, fmt.Errorf("--storage-path is required for the fs backend")
		}
		return lode.NewFSFactory(choice.path), nil
	case "s3":
		bucket, prefix := storage.ParseS3Path(choice.path)
		return storage.NewS3Factory(ctx, storage.S3Config{
			Bucket:       bucket,
			Prefix:       prefix,
			Region:       choice.region,
			Endpoint:     choice.endpoint,
			UsePathStyle: choice.pathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage-backend: %s (must be fs or s3)", choice.backend)
	}
}

// buildStorage opens the session store that run writes to. The fs root is
// created when missing.
func buildStorage(ctx context.Context, choice storageChoice, cfg storage.Config) (*storage.LodeStorage, error) {
	if (choice.backend == "fs" || choice.backend == "") && choice.path != "" {
		return storage.NewFS(cfg, choice.path)
	}
	factory, err := storageFactory(ctx, choice)
	if err != nil {
		return nil, err
	}
	backend := choice.backend
	if backend == "" {
		backend = "fs"
	}
	return storage.NewLodeStorage(cfg, backend, factory)
}

// buildBrowser opens the store read-only for list and inspect.
func buildBrowser(ctx context.Context, choice storageChoice) (*storage.LodeStorage, error) {
	factory, err := storageFactory(ctx, choice)
	if err != nil {
		return nil, err
	}
	backend := choice.backend
	if backend == "" {
		backend = "fs"
	}
	return storage.NewBrowser(backend, factory)
}

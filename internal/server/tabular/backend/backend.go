// Package backend opens the tabular store selected by the configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/blocksearch/internal/logging"
	"github.com/dmitrijs2005/blocksearch/internal/server/config"
	"github.com/dmitrijs2005/blocksearch/internal/server/tabular"
	"github.com/dmitrijs2005/blocksearch/internal/server/tabular/gsheets"
	"github.com/dmitrijs2005/blocksearch/internal/server/tabular/workbook"
	"google.golang.org/api/option"
)

// Open returns the Google Sheets store or the workbook store, depending
// on cfg.TabularBackend.
func Open(ctx context.Context, cfg *config.Config, l logging.Logger) (tabular.Store, error) {
	switch cfg.TabularBackend {
	case config.TabularBackendGSheets:
		return openGSheets(ctx, cfg, l)
	case config.TabularBackendWorkbook:
		blob, err := openBlob(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return workbook.New(blob, l), nil
	default:
		return nil, fmt.Errorf("unknown tabular backend %q", cfg.TabularBackend)
	}
}

func openGSheets(ctx context.Context, cfg *config.Config, l logging.Logger) (tabular.Store, error) {
	var opts []option.ClientOption
	switch {
	case cfg.GoogleCredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.GoogleCredentialsJSON)))
	case cfg.GoogleCredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
	}

	s, err := gsheets.New(ctx, cfg.SpreadsheetID, l, opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openBlob(ctx context.Context, cfg *config.Config) (workbook.Blob, error) {
	switch cfg.WorkbookStorage {
	case config.WorkbookStorageFile:
		return workbook.FileBlob{Path: cfg.WorkbookPath}, nil
	case config.WorkbookStorageS3:
		client, err := workbook.NewS3Client(ctx, workbook.S3Settings{
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		return workbook.NewS3Blob(client, cfg.S3Bucket, cfg.WorkbookPath), nil
	default:
		return nil, fmt.Errorf("unknown workbook storage %q", cfg.WorkbookStorage)
	}
}

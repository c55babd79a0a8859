// Command ingest walks a folder or S3 prefix of .docx license requests,
// extracts their fields and syncs one record per equipment into Postgres.
// Usage:
//
//	ingest dir [path]           process .docx files under a local directory
//	ingest file <path>          process a single .docx file
//	ingest bucket [prefix]      process the configured S3 bucket
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"
	"syscall"

	"radlic/internal/config"
	"radlic/internal/extract"
	"radlic/internal/parser"
	"radlic/internal/parser/gemini"
	"radlic/internal/port"
	"radlic/internal/repository/postgres"
	"radlic/internal/service"
	s3storage "radlic/internal/storage/s3"
	"radlic/internal/xlsxexport"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: ingest [dir [path] | file <path> | bucket [prefix]]")
		os.Exit(1)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	var aiParser port.DocumentParser
	if cfg.Ingest.UseAI {
		parser.RegisterProvider("gemini", func(pc *config.ParserConfig) (port.DocumentParser, error) {
			return gemini.NewParser(pc), nil
		})
		aiParser, err = parser.NewParser(&cfg.Parser)
		if err != nil {
			return fmt.Errorf("failed to initialize AI parser: %w", err)
		}
	}

	var storage port.ObjectStorage
	if os.Args[1] == "bucket" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	svc := service.NewIngestService(
		&cfg.Ingest,
		extract.DefaultDictionary(),
		aiParser,
		storage,
		postgres.NewLicenseRecordRepo(db),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "dir":
		dir := cfg.Ingest.SourceDir
		if len(os.Args) > 2 {
			dir = os.Args[2]
		}
		if dir == "" {
			return fmt.Errorf("no source directory given or configured")
		}
		_, err = svc.ProcessDir(ctx, dir)
		return err

	case "file":
		if len(os.Args) < 3 {
			return fmt.Errorf("file requires a path argument")
		}
		result, err := svc.ProcessFile(ctx, os.Args[2])
		if err != nil {
			return err
		}
		log.Printf("radicado %s: %d record(s) written", result.Radicado, result.Records)
		return nil

	case "bucket":
		prefix := cfg.S3.Prefix
		if len(os.Args) > 2 {
			prefix = os.Args[2]
		}
		summary, err := svc.ProcessBucket(ctx, cfg.S3.Bucket, prefix)
		if err != nil {
			return err
		}
		if summary.Records > 0 {
			key := path.Join("exports", xlsxexport.BuildFilename("licencias"))
			if err := svc.SyncWorkbook(ctx, cfg.S3.Bucket, key); err != nil {
				return err
			}
		}
		return nil

	default:
		fmt.Printf("unknown command: %s\n", os.Args[1])
		fmt.Println("Usage: ingest [dir [path] | file <path> | bucket [prefix]]")
		os.Exit(1)
		return nil
	}
}

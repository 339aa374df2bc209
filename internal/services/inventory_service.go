package services

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/crypto/blake2b"

	"stockroom/internal/csvio"
	"stockroom/internal/domain"
	applog "stockroom/internal/log"
	"stockroom/internal/repos"
	"stockroom/internal/validate"
)

type InventoryService struct {
	Products *repos.ProductRepo
	CSV      csvio.Options
	// Strict makes Seed all-or-nothing: one bad row and nothing is written.
	Strict bool
	Now    func() time.Time
}

func NewInventoryService(products *repos.ProductRepo, opts csvio.Options, strict bool) *InventoryService {
	return &InventoryService{Products: products, CSV: opts, Strict: strict, Now: time.Now}
}

type SeedReport struct {
	Rows    int
	Created int
	Updated int
	Skipped int
	// Errs holds the skipped rows' errors (lenient mode only).
	Errs error
}

type BackupReport struct {
	Path   string
	Rows   int
	Digest string // hex BLAKE2b-256 of the file
}

// Seed loads the CSV at path and upserts every row.
func (s *InventoryService) Seed(ctx context.Context, path string) (SeedReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed: %w", err)
	}
	defer f.Close()
	return s.SeedFrom(ctx, f)
}

func (s *InventoryService) SeedFrom(ctx context.Context, r io.Reader) (SeedReport, error) {
	rows, err := csvio.ReadSeed(r, s.CSV)
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed: %w", err)
	}

	rep := SeedReport{Rows: len(rows)}
	var good []domain.Product
	for _, row := range rows {
		if row.Err != nil {
			rep.Errs = multierr.Append(rep.Errs, row.Err)
			continue
		}
		good = append(good, row.Product)
	}
	if rep.Errs != nil {
		if s.Strict {
			return SeedReport{Rows: len(rows)}, fmt.Errorf("seed: %w", rep.Errs)
		}
		for _, e := range multierr.Errors(rep.Errs) {
			applog.Warn(ctx, "seed.row.skip", e, nil)
		}
		rep.Skipped = len(multierr.Errors(rep.Errs))
	}

	for _, p := range good {
		res, err := s.Products.Upsert(ctx, p)
		if err != nil {
			return rep, fmt.Errorf("seed %q: %w", p.Name, err)
		}
		if res.Created {
			rep.Created++
		} else {
			rep.Updated++
		}
	}
	applog.Info(ctx, "seed.done", map[string]any{
		"rows": rep.Rows, "created": rep.Created, "updated": rep.Updated, "skipped": rep.Skipped,
	})
	return rep, nil
}

// Add stores a product entered by hand. price is already in minor units.
func (s *InventoryService) Add(ctx context.Context, name string, quantity int, price int64) (domain.UpsertResult, error) {
	p := domain.Product{Name: name, Quantity: quantity, Price: price, UpdatedAt: s.Now()}
	if err := validate.Struct(p); err != nil {
		return domain.UpsertResult{}, fmt.Errorf("add: %w", err)
	}
	res, err := s.Products.Upsert(ctx, p)
	if err != nil {
		return domain.UpsertResult{}, fmt.Errorf("add %q: %w", name, err)
	}
	applog.Audit(ctx, "product.upsert", map[string]any{
		"id": res.ID, "name": name, "quantity": quantity, "price": price, "created": res.Created,
	})
	return res, nil
}

// Lookup returns domain.ErrNotFound for unknown ids.
func (s *InventoryService) Lookup(ctx context.Context, id int64) (domain.Product, error) {
	return s.Products.Get(ctx, id)
}

// Backup exports every product to path. The file is written next to path,
// read back to check the row count, then renamed into place.
func (s *InventoryService) Backup(ctx context.Context, path string) (BackupReport, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return BackupReport{}, fmt.Errorf("backup: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	hash, _ := blake2b.New256(nil)
	n, err := csvio.WriteBackup(io.MultiWriter(tmp, hash), s.CSV, func(fn func(domain.Product) error) error {
		return s.Products.Scan(ctx, fn)
	})
	if err != nil {
		_ = tmp.Close()
		return BackupReport{}, fmt.Errorf("backup: write: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return BackupReport{}, fmt.Errorf("backup: chmod: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return BackupReport{}, fmt.Errorf("backup: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return BackupReport{}, fmt.Errorf("backup: close: %w", err)
	}

	if err := verifyBackup(tmpName, s.CSV, n); err != nil {
		return BackupReport{}, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return BackupReport{}, fmt.Errorf("backup: %w", err)
	}

	rep := BackupReport{Path: path, Rows: n, Digest: hex.EncodeToString(hash.Sum(nil))}
	applog.Info(ctx, "backup.done", map[string]any{"path": rep.Path, "rows": rep.Rows, "blake2b": rep.Digest})
	return rep, nil
}

func verifyBackup(path string, opts csvio.Options, want int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("backup: verify: %w", err)
	}
	defer f.Close()
	got, err := csvio.ReadBackup(f, opts)
	if err != nil {
		return fmt.Errorf("backup: verify: %w", err)
	}
	if len(got) != want {
		return fmt.Errorf("backup: verify: wrote %d rows, read back %d", want, len(got))
	}
	return nil
}

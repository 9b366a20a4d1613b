package yamlbank

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"olympiad-service/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed samples/*.yaml
var samples embed.FS

// Loader reads banks stored as <bankID>.yaml in a filesystem.
type Loader struct {
	fsys fs.FS
}

func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// NewDirLoader reads banks from a directory on disk.
func NewDirLoader(dir string) *Loader {
	return NewLoader(os.DirFS(dir))
}

// NewSampleLoader serves the banks compiled into the binary.
func NewSampleLoader() *Loader {
	sub, err := fs.Sub(samples, "samples")
	if err != nil {
		panic(err)
	}
	return NewLoader(sub)
}

func (l *Loader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if bankID == "" || strings.ContainsAny(bankID, `/\`) || strings.HasPrefix(bankID, ".") {
		return domain.Bank{}, domain.ErrBankNotFound
	}
	data, err := fs.ReadFile(l.fsys, bankID+".yaml")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Bank{}, domain.ErrBankNotFound
		}
		return domain.Bank{}, fmt.Errorf("read bank %s: %w", bankID, err)
	}
	var bank domain.Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return domain.Bank{}, fmt.Errorf("decode bank %s: %w", bankID, err)
	}
	if bank.ID == "" {
		bank.ID = bankID
	}
	return bank, nil
}

// IDs lists the bank ids available in the filesystem.
func (l *Loader) IDs() ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return ids, nil
}

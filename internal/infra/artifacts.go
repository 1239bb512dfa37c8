package infra

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dario-aloisi/gestionale-ordini/internal/config"
)

// Artifacts manages the on-disk homes of generated documents: a scratch
// directory for previews (wiped at the start of every generation cycle), two
// archive directories for finalized documents, and a backup directory for
// database copies.
type Artifacts struct {
	PreviewDir   string
	ArchivioPDF  string
	ArchivioXLSX string
	BackupDir    string

	databaseDSN string
}

func NewArtifacts(cfg *config.Config) (*Artifacts, error) {
	a := &Artifacts{
		PreviewDir:   cfg.PreviewDir,
		ArchivioPDF:  cfg.ArchivioPDF,
		ArchivioXLSX: cfg.ArchivioXLSX,
		BackupDir:    cfg.BackupDir,
		databaseDSN:  cfg.DatabaseDSN,
	}
	for _, dir := range []string{a.PreviewDir, a.ArchivioPDF, a.ArchivioXLSX, a.BackupDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("artifacts: creazione %s: %w", dir, err)
		}
	}
	return a, nil
}

// SvuotaPreview deletes every file in the scratch directory. Previews from an
// abandoned cycle never survive into the next one.
func (a *Artifacts) SvuotaPreview() error {
	voci, err := os.ReadDir(a.PreviewDir)
	if err != nil {
		return fmt.Errorf("artifacts: lettura preview dir: %w", err)
	}
	for _, v := range voci {
		if v.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(a.PreviewDir, v.Name())); err != nil {
			return fmt.Errorf("artifacts: rimozione %s: %w", v.Name(), err)
		}
	}
	return nil
}

// Archivia copies a preview file into the PDF archive under its final name.
func (a *Artifacts) Archivia(previewPath, nomeArchivio string) (string, error) {
	dst := filepath.Join(a.ArchivioPDF, nomeArchivio)
	if err := copiaFile(previewPath, dst); err != nil {
		return "", fmt.Errorf("artifacts: archiviazione %s: %w", nomeArchivio, err)
	}
	return dst, nil
}

// BackupDatabase copies the sqlite file into the backup directory with a
// timestamped name and returns the destination path.
func (a *Artifacts) BackupDatabase(now time.Time) (string, error) {
	nome := fmt.Sprintf("backup_%s.db", now.Format("2006-01-02_15-04"))
	dst := filepath.Join(a.BackupDir, nome)
	if err := copiaFile(a.databaseDSN, dst); err != nil {
		return "", fmt.Errorf("artifacts: backup database: %w", err)
	}
	return dst, nil
}

func copiaFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// =============================================================================
// HomeTax Batch Submitter - Workbook Backup
// =============================================================================
//
// Copies the transaction workbook aside before a run touches it. The backup
// carries a timestamp so repeated runs against the same workbook never
// overwrite an earlier snapshot.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BackupWorkbook copies the workbook at path into dir, creating dir if
// needed. The backup is named "<base>_backup_YYYYMMDD_HHMMSS<ext>". Returns
// the backup path.
func BackupWorkbook(path, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	stamp := time.Now().Format("20060102_150405")

	dst := filepath.Join(dir, fmt.Sprintf("%s_backup_%s%s", stem, stamp, ext))
	if err := copyFile(path, dst); err != nil {
		return "", fmt.Errorf("failed to back up workbook: %w", err)
	}
	return dst, nil
}

// copyFile copies src to dst, preserving the source file's permissions.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

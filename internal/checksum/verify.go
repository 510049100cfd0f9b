// Package checksum verifies locally materialized resource archives
// against the md5 checksums declared in a dataset definition. It never
// fetches anything; downloading is an external collaborator's job.
package checksum

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/gazeset/internal/config"
	"github.com/vk/gazeset/internal/ctxlog"
)

// Status is the verification outcome for one declared resource.
type Status string

const (
	StatusOK       Status = "ok"
	StatusMismatch Status = "mismatch"
	StatusMissing  Status = "missing"
)

// Report is the verification result of one resource archive.
type Report struct {
	Category string `json:"category"`
	Filename string `json:"filename"`
	Status   Status `json:"status"`
	Expected string `json:"expected"`
	Actual   string `json:"actual,omitempty"`
}

// Verify hashes every declared resource file under root and compares it
// with the definition's checksum. A missing file is reported, not an
// error; only genuine I/O failures abort.
func Verify(ctx context.Context, def *config.DatasetDefinition, root string) ([]Report, error) {
	logger := ctxlog.FromContext(ctx)

	var reports []Report
	for _, category := range config.Categories() {
		for _, res := range def.Resources[category] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			report := Report{
				Category: category,
				Filename: res.Filename,
				Expected: strings.ToLower(res.MD5),
			}

			actual, err := hashFile(filepath.Join(root, res.Filename))
			switch {
			case os.IsNotExist(err):
				report.Status = StatusMissing
			case err != nil:
				return nil, fmt.Errorf("failed to hash %s: %w", res.Filename, err)
			case actual == report.Expected:
				report.Status = StatusOK
				report.Actual = actual
			default:
				report.Status = StatusMismatch
				report.Actual = actual
			}

			logger.Debug("Resource verified.", "dataset", def.Name, "filename", res.Filename, "status", report.Status)
			reports = append(reports, report)
		}
	}
	return reports, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

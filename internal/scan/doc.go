// Package scan walks a local data directory and matches every file
// against a dataset's compiled filename matchers, extracting typed
// per-file metadata. Matching is independent per file, so the work is
// spread over a pool of concurrent workers.
package scan

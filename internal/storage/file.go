package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bher20/expensemanager/internal/expense"
)

// DefaultFilePath is where the file backend keeps expenses when no path is configured.
const DefaultFilePath = "data/expenses.json"

// FileStorage keeps the collection as a JSON array in a single file. Every
// Save rewrites the whole file in place; a crash mid-write can truncate it.
type FileStorage struct {
	path   string
	logger *slog.Logger
}

// NewFile returns a FileStorage backed by path.
func NewFile(path string, logger *slog.Logger) *FileStorage {
	if path == "" {
		path = DefaultFilePath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStorage{path: path, logger: logger.With("component", "file_storage")}
}

// Path returns the backing file path.
func (s *FileStorage) Path() string { return s.path }

func (s *FileStorage) Close() error { return nil }

// Ping checks that the directory holding the file is reachable.
func (s *FileStorage) Ping(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Created on first Save.
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// Load reads the collection. A missing, empty or undecodable file yields an
// empty collection; decode failures are logged, never returned.
func (s *FileStorage) Load(ctx context.Context) ([]expense.Expense, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("could not read expenses file, starting empty", "path", s.path, "error", err)
		}
		return []expense.Expense{}, nil
	}
	if len(data) == 0 {
		return []expense.Expense{}, nil
	}

	var out []expense.Expense
	if err := json.Unmarshal(data, &out); err != nil {
		s.logger.Warn("could not decode expenses file, starting empty", "path", s.path, "error", err)
		return []expense.Expense{}, nil
	}
	if out == nil {
		out = []expense.Expense{}
	}
	return out, nil
}

// Save overwrites the file with the full collection.
func (s *FileStorage) Save(ctx context.Context, expenses []expense.Expense) error {
	if expenses == nil {
		expenses = []expense.Expense{}
	}
	data, err := json.MarshalIndent(expenses, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling json: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing json file: %w", err)
	}

	s.logger.Debug("wrote expenses to json", "path", s.path, "count", len(expenses))
	return nil
}

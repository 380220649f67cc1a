package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// MoveToDir moves (or copies, if keep_input_intact is set) the selected
// input file into a computed target directory, per §4.1.a.
type MoveToDir struct {
	Input              Input  `yaml:"input"`
	DirectoryPath      string `yaml:"directory_path"`
	RequireDirExists   bool   `yaml:"require_dir_exists"`
	ReplaceOlderFiles  bool   `yaml:"replace_older_files"`
	KeepInputIntact    bool   `yaml:"keep_input_intact"`
	DateTimeFormatting bool   `yaml:"datetime_formatting"`
	MustSucceedFlag    bool   `yaml:"must_succeed"`
}

// Name implements Action.Name.
func (a *MoveToDir) Name() string {
	return "MoveToDir"
}

// MustSucceed implements Action.MustSucceed.
func (a *MoveToDir) MustSucceed() bool {
	return a.MustSucceedFlag
}

// Run implements Action.Run.
func (a *MoveToDir) Run(context *ExecutionContext) bool {
	context.setCurrentAction(a.Name())

	inputPath := context.GetInput(a.Input)

	effectiveDirectoryPath := applyDateTimeFormatting(a.DirectoryPath, time.Now(), a.DateTimeFormatting)

	var targetDirectory string
	if filepath.IsAbs(effectiveDirectoryPath) {
		targetDirectory = filepath.Clean(effectiveDirectoryPath)
	} else {
		targetDirectory = filepath.Clean(filepath.Join(filepath.Dir(inputPath), effectiveDirectoryPath))
	}

	if info, err := os.Stat(targetDirectory); err != nil {
		if !os.IsNotExist(err) {
			return context.HandleError(fmt.Errorf("unable to stat target directory: %w", err))
		}
		if a.RequireDirExists {
			return context.HandleError(fmt.Errorf("directory required to exist: %s", targetDirectory))
		}
		if err := os.MkdirAll(targetDirectory, 0755); err != nil {
			return context.HandleError(fmt.Errorf("unable to create target directory: %w", err))
		}
	} else if !info.IsDir() {
		return context.HandleError(fmt.Errorf("target path is not a directory: %s", targetDirectory))
	}

	targetPath := filepath.Join(targetDirectory, filepath.Base(inputPath))

	if _, err := os.Stat(targetPath); err == nil {
		if !a.ReplaceOlderFiles {
			return context.HandleError(fmt.Errorf("can't replace older file: %s", targetPath))
		}
	} else if !os.IsNotExist(err) {
		return context.HandleError(fmt.Errorf("unable to stat target file: %w", err))
	}

	size, err := copyFile(inputPath, targetPath)
	if err != nil {
		return context.HandleError(fmt.Errorf("unable to copy file to target: %w", err))
	}

	if !a.KeepInputIntact {
		if err := os.Remove(inputPath); err != nil {
			context.Log(fmt.Sprintf("moved file to %s but could not remove original: %v", targetPath, err))
		}
	}

	context.ActionFilePath = &targetPath
	context.Log(fmt.Sprintf("moved %s (%s) to %s", inputPath, humanize.Bytes(uint64(size)), targetPath))

	return true
}

// copyFile copies the contents of src to dst, returning the number of bytes
// copied. dst is created (or truncated) with permissions 0644.
func copyFile(src, dst string) (int64, error) {
	source, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer source.Close()

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, err
	}

	written, copyErr := io.Copy(destination, source)
	if closeErr := destination.Close(); copyErr == nil {
		copyErr = closeErr
	}
	return written, copyErr
}

package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/codecollector/internal/utils"
)

const (
	// errorStatRootFormat is used when the root path cannot be inspected.
	errorStatRootFormat = "inspecting %s: %w"
	// warningReadDirectoryMessage is logged when a directory cannot be listed.
	warningReadDirectoryMessage = "Skipping unreadable directory"
	// warningSymlinkDirectoryMessage is logged when a symbolic link to a directory is skipped.
	warningSymlinkDirectoryMessage = "Skipping symbolic link to directory"
)

// ErrRootIgnored is returned when the root path itself matches an ignore pattern.
var ErrRootIgnored = errors.New("root path is ignored")

// Ignorer decides whether a path is excluded from the tree.
type Ignorer interface {
	ShouldIgnoreEntry(path string, isDirectory bool) bool
}

// Builder constructs trees from the filesystem.
type Builder struct {
	// Ignorer excludes paths; nil keeps everything.
	Ignorer Ignorer
	// Extensions lists accepted file name suffixes in non-interactive mode.
	Extensions []string
	// Recursive enables descent into subdirectories of the root.
	Recursive bool
	// Interactive keeps every file regardless of extension so it can be selected by hand.
	Interactive bool
	Logger      *zap.Logger
}

// Build walks rootPath and returns its tree. The root is always index RootIndex and file
// paths reconstructed from the tree keep rootPath exactly as given, "./" prefix included. Ignore checks receive absolute
// paths. Directories that cannot be listed are logged and kept without children.
func (builder Builder) Build(rootPath string) (*Tree, error) {
	absoluteRoot, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return nil, fmt.Errorf(errorStatRootFormat, rootPath, absoluteError)
	}
	rootInformation, statError := os.Stat(absoluteRoot)
	if statError != nil {
		return nil, fmt.Errorf(errorStatRootFormat, rootPath, statError)
	}
	if builder.ignored(absoluteRoot, rootInformation.IsDir()) {
		return nil, fmt.Errorf("%s: %w", rootPath, ErrRootIgnored)
	}

	builtTree := New(rootPath, filepath.Base(absoluteRoot), rootInformation.IsDir())
	builder.populate(builtTree, RootIndex, absoluteRoot)
	return builtTree, nil
}

// populate lists the directory at the absolute path and adds its accepted entries beneath nodeIndex.
func (builder Builder) populate(builtTree *Tree, nodeIndex int, path string) {
	logger := utils.LoggerOrNop(builder.Logger)
	logger.Debug("Building tree", zap.String("path", path))
	if !builtTree.Nodes[nodeIndex].IsDirectory {
		return
	}

	directoryEntries, readDirectoryError := os.ReadDir(path)
	if readDirectoryError != nil {
		logger.Warn(warningReadDirectoryMessage, zap.String("path", path), zap.Error(readDirectoryError))
		return
	}

	for _, directoryEntry := range directoryEntries {
		entryPath := filepath.Join(path, directoryEntry.Name())
		entryIsDirectory := directoryEntry.IsDir()
		if directoryEntry.Type()&fs.ModeSymlink != 0 {
			if targetInformation, targetError := os.Stat(entryPath); targetError == nil && targetInformation.IsDir() {
				logger.Debug(warningSymlinkDirectoryMessage, zap.String("path", entryPath))
				continue
			}
		}
		if builder.ignored(entryPath, entryIsDirectory) {
			continue
		}
		switch {
		case entryIsDirectory:
			if !builder.Recursive {
				continue
			}
			childIndex := builtTree.AddChild(nodeIndex, directoryEntry.Name(), true)
			builder.populate(builtTree, childIndex, entryPath)
		case builder.Interactive || utils.HasAnySuffix(directoryEntry.Name(), builder.Extensions):
			builtTree.AddChild(nodeIndex, directoryEntry.Name(), false)
		}
	}
}

func (builder Builder) ignored(path string, isDirectory bool) bool {
	if builder.Ignorer == nil {
		return false
	}
	return builder.Ignorer.ShouldIgnoreEntry(path, isDirectory)
}

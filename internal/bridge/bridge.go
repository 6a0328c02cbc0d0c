// Package bridge is the boundary between the editor core and the host: it
// saves files, runs commands and browses the filesystem. Results are plain
// values; failures are reported through the Success flag rather than Go
// errors so callers can surface them as they are.
package bridge

import (
	"context"
)

type Bridge interface {
	// SaveFile writes content to filename inside the writable root.
	SaveFile(ctx context.Context, filename, content string) SaveResult
	// RunCommand runs a shell command with the writable root as the working
	// directory.
	RunCommand(ctx context.Context, command string) CommandResult
	ReadDirectory(ctx context.Context, path string) DirectoryResult
	ReadFile(ctx context.Context, path string) FileResult
	HomePath() string
}

type SaveResult struct {
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
}

type CommandResult struct {
	Success bool   `json:"success"`
	Stdout  string `json:"stdout"`
	Stderr  string `json:"stderr"`
}

type EntryType string

const (
	EntryFile   EntryType = "file"
	EntryFolder EntryType = "folder"
)

type FileEntry struct {
	Name     string      `json:"name"`
	Type     EntryType   `json:"type"`
	Path     string      `json:"path"`
	Children []FileEntry `json:"children,omitempty"`
}

func (e FileEntry) IsFolder() bool { return e.Type == EntryFolder }

type DirectoryResult struct {
	Success bool        `json:"success"`
	Files   []FileEntry `json:"files,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type FileResult struct {
	Success bool   `json:"success"`
	Content []byte `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

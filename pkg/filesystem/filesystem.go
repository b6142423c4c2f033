// Package filesystem defines the capability interface dotfold mutates
// the disk through, and its behavioral variants.
//
// Three implementations exist: Real performs actual mutations (and, in
// interactive mode, prompts before destructive ones), DryRun answers
// reads and comparisons from the real disk but only pretends to mutate,
// and the test suite uses a mock double (see testutil). Mode-specific
// behavior never leaks past this interface: callers observe only the
// operation results.
package filesystem

import (
	"errors"
)

// ErrDeclined is returned by interactive implementations when the user
// answers no to a destructive-operation prompt. Callers treat it as a
// soft failure (skip), not an error.
var ErrDeclined = errors.New("operation declined by user")

// SymlinkComparison classifies a desired symlink's on-disk reality
// relative to its definition.
type SymlinkComparison int

const (
	// SymlinkIdentical means the target is a link pointing at the source
	SymlinkIdentical SymlinkComparison = iota
	// SymlinkOnlySourceExists means the target path is missing entirely
	SymlinkOnlySourceExists
	// SymlinkOnlyTargetExists means something occupies the target but the
	// source is gone
	SymlinkOnlyTargetExists
	// SymlinkMismatch means the target exists but is not a link to the
	// source, or links somewhere else
	SymlinkMismatch
	// SymlinkBothMissing means neither source nor target exists
	SymlinkBothMissing
)

func (c SymlinkComparison) String() string {
	switch c {
	case SymlinkIdentical:
		return "identical"
	case SymlinkOnlySourceExists:
		return "only source exists"
	case SymlinkOnlyTargetExists:
		return "only target exists"
	case SymlinkMismatch:
		return "mismatch"
	case SymlinkBothMissing:
		return "both missing"
	default:
		return "unknown"
	}
}

// TemplateComparison classifies a deployed template's target against
// the cached rendered artifact.
type TemplateComparison int

const (
	// TemplateIdentical means target and cached artifact have equal content
	TemplateIdentical TemplateComparison = iota
	// TemplateOnlyCacheExists means the cached artifact exists but the
	// target is missing
	TemplateOnlyCacheExists
	// TemplateOnlyTargetExists means the target exists but no cached
	// artifact does, so ownership cannot be verified
	TemplateOnlyTargetExists
	// TemplateMismatch means target and cached artifact differ
	TemplateMismatch
	// TemplateBothMissing means neither target nor cached artifact exists
	TemplateBothMissing
)

func (c TemplateComparison) String() string {
	switch c {
	case TemplateIdentical:
		return "identical"
	case TemplateOnlyCacheExists:
		return "only cache exists"
	case TemplateOnlyTargetExists:
		return "only target exists"
	case TemplateMismatch:
		return "mismatch"
	case TemplateBothMissing:
		return "both missing"
	default:
		return "unknown"
	}
}

// Filesystem is the capability interface the action engine runs against.
// Owner is an optional "user" or "user:group" identity; the empty string
// means no ownership handling. Ownership application is a no-op on
// platforms without the concept.
type Filesystem interface {
	// CompareSymlink classifies the on-disk state of a desired link from
	// source to target
	CompareSymlink(source, target string) (SymlinkComparison, error)

	// CompareTemplate classifies the target file against the cached
	// rendered artifact
	CompareTemplate(target, cachePath string) (TemplateComparison, error)

	// CreateDirAll ensures path and its parents exist
	CreateDirAll(path, owner string) error

	// MakeSymlink creates a symlink at link pointing to pointTo
	MakeSymlink(link, pointTo, owner string) error

	// RemoveFile removes the file or symlink at path
	RemoveFile(path string) error

	// RemoveDir removes the directory at path and its contents
	RemoveDir(path string) error

	// ReadToString reads the file at path
	ReadToString(path string) (string, error)

	// WriteString writes content to path, replacing any existing file
	WriteString(path, content string) error

	// CopyFile copies the file at from to to
	CopyFile(from, to, owner string) error

	// CopyPermissions copies the file mode of from onto to
	CopyPermissions(from, to, owner string) error

	// SetOwner applies the owner identity to path
	SetOwner(path, owner string) error
}

// entryKind describes what occupies a path
type entryKind int

const (
	kindAbsent entryKind = iota
	kindFile
	kindSymlink
	kindDir
)

// entryState is a point-in-time snapshot of a path, rich enough to
// answer both comparison kinds
type entryState struct {
	kind     entryKind
	linkDest string // for kindSymlink
	content  string // for kindFile, when loaded
}

// classifySymlink derives the symlink comparison from the source's
// existence and the target's state. This is the single source of
// conflict-detection truth for symlinks; both Real and DryRun feed it.
func classifySymlink(source string, sourceExists bool, target entryState) SymlinkComparison {
	switch {
	case target.kind == kindSymlink && target.linkDest == source:
		return SymlinkIdentical
	case target.kind == kindAbsent && sourceExists:
		return SymlinkOnlySourceExists
	case target.kind == kindAbsent:
		return SymlinkBothMissing
	case !sourceExists:
		return SymlinkOnlyTargetExists
	default:
		return SymlinkMismatch
	}
}

// classifyTemplate derives the template comparison from the target and
// cached-artifact states. Contents must be loaded for kindFile entries.
func classifyTemplate(target, cached entryState) TemplateComparison {
	switch {
	case target.kind == kindAbsent && cached.kind == kindAbsent:
		return TemplateBothMissing
	case target.kind == kindAbsent:
		return TemplateOnlyCacheExists
	case cached.kind == kindAbsent:
		return TemplateOnlyTargetExists
	case target.kind == kindFile && cached.kind == kindFile && target.content == cached.content:
		return TemplateIdentical
	default:
		return TemplateMismatch
	}
}

package filesystem

import (
	"github.com/rs/zerolog"

	"github.com/dotfold/dotfold/pkg/logging"
)

// DryRun answers reads and comparisons from the real filesystem but
// only pretends to mutate. Pretend mutations are recorded in an
// in-memory overlay so later comparisons in the same plan observe the
// effects of earlier actions, keeping multi-action previews accurate.
type DryRun struct {
	overlay map[string]entryState
	logger  zerolog.Logger
}

// NewDryRun creates a DryRun filesystem
func NewDryRun() *DryRun {
	return &DryRun{
		overlay: make(map[string]entryState),
		logger:  logging.GetLogger("filesystem.dryrun"),
	}
}

// stateOf consults the overlay first, then the real disk
func (d *DryRun) stateOf(path string, withContent bool) (entryState, error) {
	if state, ok := d.overlay[path]; ok {
		return state, nil
	}
	if withContent {
		return loadEntry(path)
	}
	return statEntry(path)
}

func (d *DryRun) CompareSymlink(source, target string) (SymlinkComparison, error) {
	sourceState, err := d.stateOf(source, false)
	if err != nil {
		return 0, err
	}
	targetState, err := d.stateOf(target, false)
	if err != nil {
		return 0, err
	}
	return classifySymlink(source, sourceState.kind != kindAbsent, targetState), nil
}

func (d *DryRun) CompareTemplate(target, cachePath string) (TemplateComparison, error) {
	targetState, err := d.stateOf(target, true)
	if err != nil {
		return 0, err
	}
	cachedState, err := d.stateOf(cachePath, true)
	if err != nil {
		return 0, err
	}
	return classifyTemplate(targetState, cachedState), nil
}

func (d *DryRun) CreateDirAll(path, owner string) error {
	if path == "" {
		return nil
	}
	d.logger.Info().Str("path", path).Msg("would create directory")
	d.overlay[path] = entryState{kind: kindDir}
	return nil
}

func (d *DryRun) MakeSymlink(link, pointTo, owner string) error {
	d.logger.Info().Str("link", link).Str("points_to", pointTo).Msg("would create symlink")
	d.overlay[link] = entryState{kind: kindSymlink, linkDest: pointTo}
	return nil
}

func (d *DryRun) RemoveFile(path string) error {
	d.logger.Info().Str("path", path).Msg("would remove file")
	d.overlay[path] = entryState{kind: kindAbsent}
	return nil
}

func (d *DryRun) RemoveDir(path string) error {
	d.logger.Info().Str("path", path).Msg("would remove directory")
	d.overlay[path] = entryState{kind: kindAbsent}
	return nil
}

func (d *DryRun) ReadToString(path string) (string, error) {
	state, err := d.stateOf(path, true)
	if err != nil {
		return "", err
	}
	return state.content, nil
}

func (d *DryRun) WriteString(path, content string) error {
	d.logger.Info().Str("path", path).Int("bytes", len(content)).Msg("would write file")
	d.overlay[path] = entryState{kind: kindFile, content: content}
	return nil
}

func (d *DryRun) CopyFile(from, to, owner string) error {
	d.logger.Info().Str("from", from).Str("to", to).Msg("would copy file")
	state, err := d.stateOf(from, true)
	if err != nil {
		return err
	}
	d.overlay[to] = entryState{kind: kindFile, content: state.content}
	return nil
}

func (d *DryRun) CopyPermissions(from, to, owner string) error {
	d.logger.Info().Str("from", from).Str("to", to).Msg("would copy permissions")
	return nil
}

func (d *DryRun) SetOwner(path, owner string) error {
	if owner != "" {
		d.logger.Info().Str("path", path).Str("owner", owner).Msg("would set owner")
	}
	return nil
}

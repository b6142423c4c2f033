package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotfold/dotfold/pkg/cache"
	"github.com/dotfold/dotfold/pkg/config"
	"github.com/dotfold/dotfold/pkg/errors"
	"github.com/dotfold/dotfold/pkg/filesystem"
	"github.com/dotfold/dotfold/pkg/filesystem/testutil"
	"github.com/dotfold/dotfold/pkg/render"
	"github.com/dotfold/dotfold/pkg/state"
)

func symlinkDesc(source, target string) state.SymlinkDescription {
	return state.SymlinkDescription{
		Source: source,
		Target: config.SymbolicTarget{Target: target},
	}
}

func templateDesc(source, target, cachePath string) state.TemplateDescription {
	return state.TemplateDescription{
		Source: source,
		Target: config.TemplateTarget{Target: target},
		Cache:  cachePath,
	}
}

// TestInitialDeploy walks the first-run scenario: one symlink and one
// template, nothing on disk, verifying the exact filesystem call
// sequence and the cache mutations.
func TestInitialDeploy(t *testing.T) {
	renderer := render.New()
	variables := map[string]interface{}{}
	managed := cache.New()

	// Action 1: create the symlink
	fs := testutil.NewMockFilesystem()
	fs.On("CompareSymlink", "a_in", "a_out").
		Return(filesystem.SymlinkOnlySourceExists, nil).Once()
	fs.On("CreateDirAll", "", "").Return(nil).Once()
	fs.On("MakeSymlink", "a_out", "a_in", "").Return(nil).Once()

	createLink := &CreateSymlink{SymlinkDescription: symlinkDesc("a_in", "a_out")}
	applied, err := createLink.Run(fs, Options{}, renderer, variables)
	require.NoError(t, err)
	assert.True(t, applied)
	fs.AssertExpectations(t)

	createLink.AffectCache(managed)
	assert.Equal(t, "a_out", managed.Symlinks["a_in"])

	// Action 2: create the template
	fs = testutil.NewMockFilesystem()
	fs.On("CompareTemplate", "b_out", "cache/b_cache").
		Return(filesystem.TemplateBothMissing, nil).Once()
	fs.On("CreateDirAll", "", "").Return(nil).Once()
	fs.On("ReadToString", "b_in").Return("", nil).Once()
	fs.On("CreateDirAll", "cache", "").Return(nil).Once()
	fs.On("WriteString", "cache/b_cache", "").Return(nil).Once()
	fs.On("CopyFile", "cache/b_cache", "b_out", "").Return(nil).Once()
	fs.On("CopyPermissions", "b_in", "b_out", "").Return(nil).Once()

	createTemplate := &CreateTemplate{TemplateDescription: templateDesc("b_in", "b_out", "cache/b_cache")}
	applied, err = createTemplate.Run(fs, Options{}, renderer, variables)
	require.NoError(t, err)
	assert.True(t, applied)
	fs.AssertExpectations(t)

	createTemplate.AffectCache(managed)
	assert.Equal(t, "b_out", managed.Templates["b_in"])
}

func TestCreateSymlink_ForceGating(t *testing.T) {
	tests := []struct {
		name        string
		comparison  filesystem.SymlinkComparison
		force       bool
		wantApplied bool
		setupForce  func(fs *testutil.MockFilesystem)
	}{
		{
			name:        "occupied target without force is skipped",
			comparison:  filesystem.SymlinkOnlyTargetExists,
			force:       false,
			wantApplied: false,
		},
		{
			name:        "mismatch without force is skipped",
			comparison:  filesystem.SymlinkMismatch,
			force:       false,
			wantApplied: false,
		},
		{
			name:        "occupied target with force is replaced",
			comparison:  filesystem.SymlinkOnlyTargetExists,
			force:       true,
			wantApplied: true,
			setupForce: func(fs *testutil.MockFilesystem) {
				fs.On("RemoveFile", "out/link").Return(nil).Once()
				fs.On("CreateDirAll", "out", "").Return(nil).Once()
				fs.On("MakeSymlink", "out/link", "src", "").Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testutil.NewMockFilesystem()
			fs.On("CompareSymlink", "src", "out/link").Return(tt.comparison, nil).Once()
			if tt.setupForce != nil {
				tt.setupForce(fs)
			}

			action := &CreateSymlink{SymlinkDescription: symlinkDesc("src", "out/link")}
			applied, err := action.Run(fs, Options{Force: tt.force}, render.New(), nil)

			require.NoError(t, err)
			assert.Equal(t, tt.wantApplied, applied)
			fs.AssertExpectations(t)
			if !tt.force {
				fs.AssertNotCalled(t, "RemoveFile", "out/link")
				fs.AssertNotCalled(t, "MakeSymlink", "out/link", "src", "")
			}
		})
	}
}

func TestUpdateSymlink(t *testing.T) {
	tests := []struct {
		name        string
		comparison  filesystem.SymlinkComparison
		force       bool
		wantApplied bool
		setup       func(fs *testutil.MockFilesystem)
	}{
		{
			name:        "identical is a no-op success",
			comparison:  filesystem.SymlinkIdentical,
			wantApplied: true,
		},
		{
			name:        "missing target is recreated without force",
			comparison:  filesystem.SymlinkOnlySourceExists,
			wantApplied: true,
			setup: func(fs *testutil.MockFilesystem) {
				fs.On("CreateDirAll", "out", "").Return(nil).Once()
				fs.On("MakeSymlink", "out/link", "src", "").Return(nil).Once()
			},
		},
		{
			name:        "externally modified target is skipped without force",
			comparison:  filesystem.SymlinkMismatch,
			wantApplied: false,
		},
		{
			name:        "externally modified target is replaced with force",
			comparison:  filesystem.SymlinkMismatch,
			force:       true,
			wantApplied: true,
			setup: func(fs *testutil.MockFilesystem) {
				fs.On("RemoveFile", "out/link").Return(nil).Once()
				fs.On("CreateDirAll", "out", "").Return(nil).Once()
				fs.On("MakeSymlink", "out/link", "src", "").Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testutil.NewMockFilesystem()
			fs.On("CompareSymlink", "src", "out/link").Return(tt.comparison, nil).Once()
			if tt.setup != nil {
				tt.setup(fs)
			}

			action := &UpdateSymlink{SymlinkDescription: symlinkDesc("src", "out/link")}
			applied, err := action.Run(fs, Options{Force: tt.force}, render.New(), nil)

			require.NoError(t, err)
			assert.Equal(t, tt.wantApplied, applied)
			fs.AssertExpectations(t)
		})
	}
}

func TestDeleteSymlink(t *testing.T) {
	tests := []struct {
		name        string
		comparison  filesystem.SymlinkComparison
		force       bool
		wantApplied bool
		wantRemove  bool
	}{
		{
			name:        "identical link is removed",
			comparison:  filesystem.SymlinkIdentical,
			wantApplied: true,
			wantRemove:  true,
		},
		{
			name:        "already missing target succeeds without removal",
			comparison:  filesystem.SymlinkBothMissing,
			wantApplied: true,
		},
		{
			name:        "externally modified target is skipped",
			comparison:  filesystem.SymlinkMismatch,
			wantApplied: false,
		},
		{
			name:        "externally modified target is removed with force",
			comparison:  filesystem.SymlinkMismatch,
			force:       true,
			wantApplied: true,
			wantRemove:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testutil.NewMockFilesystem()
			fs.On("CompareSymlink", "src", "out/link").Return(tt.comparison, nil).Once()
			if tt.wantRemove {
				fs.On("RemoveFile", "out/link").Return(nil).Once()
			}

			action := &DeleteSymlink{Source: "src", Target: "out/link"}
			applied, err := action.Run(fs, Options{Force: tt.force}, render.New(), nil)

			require.NoError(t, err)
			assert.Equal(t, tt.wantApplied, applied)
			fs.AssertExpectations(t)
			if !tt.wantRemove {
				fs.AssertNotCalled(t, "RemoveFile", "out/link")
			}
		})
	}
}

func TestTemplate_IdenticalIsNoOp(t *testing.T) {
	for _, name := range []string{"create", "update"} {
		t.Run(name, func(t *testing.T) {
			fs := testutil.NewMockFilesystem()
			fs.On("CompareTemplate", "out/t", "cache/t").
				Return(filesystem.TemplateIdentical, nil).Once()

			desc := templateDesc("src/t", "out/t", "cache/t")
			var action Action
			if name == "create" {
				action = &CreateTemplate{TemplateDescription: desc}
			} else {
				action = &UpdateTemplate{TemplateDescription: desc}
			}

			applied, err := action.Run(fs, Options{}, render.New(), nil)
			require.NoError(t, err)
			assert.True(t, applied, "identical comparison is an idempotent success")
			fs.AssertExpectations(t)
			fs.AssertNotCalled(t, "WriteString")
			fs.AssertNotCalled(t, "CopyFile")
		})
	}
}

func TestTemplate_RendersVariables(t *testing.T) {
	fs := testutil.NewMockFilesystem()
	fs.On("CompareTemplate", "out/gitconfig", "cache/gitconfig").
		Return(filesystem.TemplateOnlyCacheExists, nil).Once()
	fs.On("CreateDirAll", "out", "").Return(nil).Once()
	fs.On("ReadToString", "src/gitconfig").Return("name = {{.name}}", nil).Once()
	fs.On("CreateDirAll", "cache", "").Return(nil).Once()
	fs.On("WriteString", "cache/gitconfig", "# begin\nname = me\n# end").Return(nil).Once()
	fs.On("CopyFile", "cache/gitconfig", "out/gitconfig", "").Return(nil).Once()
	fs.On("CopyPermissions", "src/gitconfig", "out/gitconfig", "").Return(nil).Once()

	desc := templateDesc("src/gitconfig", "out/gitconfig", "cache/gitconfig")
	desc.Target.Prepend = "# begin\n"
	desc.Target.Append = "\n# end"

	action := &UpdateTemplate{TemplateDescription: desc}
	applied, err := action.Run(fs, Options{}, render.New(), map[string]interface{}{"name": "me"})

	require.NoError(t, err)
	assert.True(t, applied)
	fs.AssertExpectations(t)
}

func TestTemplate_RenderFailure(t *testing.T) {
	fs := testutil.NewMockFilesystem()
	fs.On("CompareTemplate", "out/t", "cache/t").
		Return(filesystem.TemplateBothMissing, nil).Once()
	fs.On("CreateDirAll", "out", "").Return(nil).Once()
	fs.On("ReadToString", "src/t").Return("{{.missing}}", nil).Once()

	action := &CreateTemplate{TemplateDescription: templateDesc("src/t", "out/t", "cache/t")}
	applied, err := action.Run(fs, Options{}, render.New(), map[string]interface{}{})

	require.Error(t, err)
	assert.False(t, applied)
	assert.True(t, errors.IsCode(err, errors.ErrRender))
	fs.AssertNotCalled(t, "WriteString")
}

func TestDeleteTemplate(t *testing.T) {
	tests := []struct {
		name        string
		comparison  filesystem.TemplateComparison
		force       bool
		wantApplied bool
		setup       func(fs *testutil.MockFilesystem)
	}{
		{
			name:        "identical removes target and cached artifact",
			comparison:  filesystem.TemplateIdentical,
			wantApplied: true,
			setup: func(fs *testutil.MockFilesystem) {
				fs.On("RemoveFile", "out/t").Return(nil).Once()
				fs.On("RemoveFile", "cache/t").Return(nil).Once()
			},
		},
		{
			name:        "missing target still removes cached artifact",
			comparison:  filesystem.TemplateOnlyCacheExists,
			wantApplied: true,
			setup: func(fs *testutil.MockFilesystem) {
				fs.On("RemoveFile", "cache/t").Return(nil).Once()
			},
		},
		{
			name:        "both missing succeeds without removal",
			comparison:  filesystem.TemplateBothMissing,
			wantApplied: true,
		},
		{
			name:        "mismatch without force is skipped",
			comparison:  filesystem.TemplateMismatch,
			wantApplied: false,
		},
		{
			name:        "mismatch with force removes both",
			comparison:  filesystem.TemplateMismatch,
			force:       true,
			wantApplied: true,
			setup: func(fs *testutil.MockFilesystem) {
				fs.On("RemoveFile", "out/t").Return(nil).Once()
				fs.On("RemoveFile", "cache/t").Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testutil.NewMockFilesystem()
			fs.On("CompareTemplate", "out/t", "cache/t").Return(tt.comparison, nil).Once()
			if tt.setup != nil {
				tt.setup(fs)
			}

			action := &DeleteTemplate{Source: "src/t", Cache: "cache/t", Target: "out/t"}
			applied, err := action.Run(fs, Options{Force: tt.force}, render.New(), nil)

			require.NoError(t, err)
			assert.Equal(t, tt.wantApplied, applied)
			fs.AssertExpectations(t)
		})
	}
}

func TestInteractiveDeclineIsSkip(t *testing.T) {
	fs := testutil.NewMockFilesystem()
	fs.On("CompareSymlink", "src", "out/link").
		Return(filesystem.SymlinkIdentical, nil).Once()
	fs.On("RemoveFile", "out/link").Return(filesystem.ErrDeclined).Once()

	action := &DeleteSymlink{Source: "src", Target: "out/link"}
	applied, err := action.Run(fs, Options{}, render.New(), nil)

	require.NoError(t, err, "a declined prompt is a soft failure, not an error")
	assert.False(t, applied)
}

func TestRunErrorPropagates(t *testing.T) {
	ioErr := errors.New(errors.ErrSymlinkCreate, "permission denied")

	fs := testutil.NewMockFilesystem()
	fs.On("CompareSymlink", "src", "out/link").
		Return(filesystem.SymlinkOnlySourceExists, nil).Once()
	fs.On("CreateDirAll", "out", "").Return(nil).Once()
	fs.On("MakeSymlink", "out/link", "src", "").Return(ioErr).Once()

	action := &CreateSymlink{SymlinkDescription: symlinkDesc("src", "out/link")}
	applied, err := action.Run(fs, Options{}, render.New(), nil)

	require.Error(t, err)
	assert.False(t, applied)
	assert.True(t, errors.IsCode(err, errors.ErrSymlinkCreate))
}

func TestAffectCache(t *testing.T) {
	managed := cache.New()
	managed.SetSymlink("old", "old_out")
	managed.SetTemplate("told", "told_out")

	(&CreateSymlink{SymlinkDescription: symlinkDesc("a", "a_out")}).AffectCache(managed)
	(&UpdateSymlink{SymlinkDescription: symlinkDesc("a", "a_out2")}).AffectCache(managed)
	(&DeleteSymlink{Source: "old", Target: "old_out"}).AffectCache(managed)
	(&CreateTemplate{TemplateDescription: templateDesc("t", "t_out", "c/t")}).AffectCache(managed)
	(&DeleteTemplate{Source: "told", Cache: "c/told", Target: "told_out"}).AffectCache(managed)

	assert.Equal(t, map[string]string{"a": "a_out2"}, managed.Symlinks)
	assert.Equal(t, map[string]string{"t": "t_out"}, managed.Templates)
}

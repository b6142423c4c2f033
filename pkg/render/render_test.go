package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotfold/dotfold/pkg/errors"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		variables map[string]interface{}
		want      string
		wantErr   bool
	}{
		{
			name:      "plain content passes through",
			content:   "set nocompatible\n",
			variables: map[string]interface{}{},
			want:      "set nocompatible\n",
		},
		{
			name:      "variables are substituted",
			content:   "email = {{.email}}",
			variables: map[string]interface{}{"email": "me@example.com"},
			want:      "email = me@example.com",
		},
		{
			name:      "empty content renders empty",
			content:   "",
			variables: map[string]interface{}{},
			want:      "",
		},
		{
			name:      "missing variable is a render failure",
			content:   "{{.absent}}",
			variables: map[string]interface{}{},
			wantErr:   true,
		},
		{
			name:      "malformed template is a render failure",
			content:   "{{.unclosed",
			variables: map[string]interface{}{},
			wantErr:   true,
		},
	}

	renderer := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderer.Render("test", tt.content, tt.variables)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrRender))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

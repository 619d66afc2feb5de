package finder_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/vuetmpls/pkg/finder"
)

func setup(t *testing.T) (context.Context, *finder.DefaultFinder) {
	t.Helper()

	fs := afero.NewMemMapFs()
	files := map[string]string{
		"app/App.vue":              "<template><div></div></template>",
		"app/index.html":           "<div></div>",
		"app/main.js":              "new Vue()",
		"app/components/List.vue":  "<template><ul></ul></template>",
		"app/components/README.md": "# list",
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	ctx := zerolog.New(zerolog.TestWriter{T: t}).With().Str("test", t.Name()).Logger().WithContext(context.Background())
	return ctx, finder.NewDefaultFinder(fs)
}

func TestDefaultFinder_FindTemplates(t *testing.T) {
	tests := []struct {
		name       string
		dir        string
		extensions []string
		want       []string
		wantErr    bool
	}{
		{
			name: "default extensions",
			dir:  "app",
			want: []string{"app/App.vue", "app/components/List.vue", "app/index.html"},
		},
		{
			name:       "only vue",
			dir:        "app",
			extensions: []string{".vue"},
			want:       []string{"app/App.vue", "app/components/List.vue"},
		},
		{
			name:    "non-existent directory",
			dir:     "nope",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, f := setup(t)

			got, err := f.FindTemplates(ctx, tt.dir, tt.extensions)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestDefaultFinder_Resolve(t *testing.T) {
	ctx, f := setup(t)

	got, err := f.Resolve(ctx, []string{"./app/**/*.vue", "app/App.vue", "app/components"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"app/App.vue", "app/components/List.vue"}, got)

	_, err = f.Resolve(ctx, []string{"web/*.vue"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no files match "web/*.vue"`)
}

func TestDefaultFinder_Load(t *testing.T) {
	ctx, f := setup(t)

	info, err := f.Load(ctx, "app/App.vue")
	require.NoError(t, err)
	assert.Equal(t, "vue", info.FileType)
	assert.Equal(t, "          <div></div>           ", string(info.Content))

	info, err = f.Load(ctx, "app/index.html")
	require.NoError(t, err)
	assert.Equal(t, "html", info.FileType)
	assert.Equal(t, "<div></div>", string(info.Content))

	_, err = f.Load(ctx, "app/missing.vue")
	assert.Error(t, err)
}

func TestTemplateBlock(t *testing.T) {
	src := "<template>\n  <div>é</div>\n</template>\n<style>a{}</style>"

	got := finder.TemplateBlock(src)

	assert.Len(t, got, len(src))
	assert.Equal(t, "          \n  <div>é</div>\n           \n                  ", got)

	assert.Equal(t, "<div></div>", finder.TemplateBlock("<div></div>"), "plain html is left alone")
}

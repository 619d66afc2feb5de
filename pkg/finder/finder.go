package finder

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// DefaultExtensions are searched when FindTemplates gets no extensions.
var DefaultExtensions = []string{".vue", ".html"}

// TemplateFinder is responsible for finding template files
type TemplateFinder interface {
	// FindTemplates finds all template files under dir that match the given extensions
	FindTemplates(ctx context.Context, dir string, extensions []string) ([]string, error)
	// Resolve expands globs and directories into a deduplicated file list
	Resolve(ctx context.Context, args []string) ([]string, error)
	Load(ctx context.Context, path string) (*FileInfo, error)
}

// FileInfo represents information about a found template file
type FileInfo struct {
	Path string
	// Content is the template source, with everything outside the
	// <template> block blanked for single-file components.
	Content  []byte
	FileType string
}

// DefaultFinder is the default implementation of TemplateFinder
type DefaultFinder struct {
	fs afero.Fs
}

var _ TemplateFinder = &DefaultFinder{}

func NewDefaultFinder(fs afero.Fs) *DefaultFinder {
	return &DefaultFinder{fs: fs}
}

// FindTemplates implements TemplateFinder
func (f *DefaultFinder) FindTemplates(ctx context.Context, dir string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	var files []string
	err := afero.Walk(f.fs, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		for _, ext := range extensions {
			if strings.HasSuffix(path, ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", dir, err)
	}

	zerolog.Ctx(ctx).Debug().Str("dir", dir).Int("files", len(files)).Msg("found templates")

	return files, nil
}

// Resolve implements TemplateFinder. A directory argument is searched with
// the default extensions, anything else is a doublestar pattern that must
// match at least one file.
func (f *DefaultFinder) Resolve(ctx context.Context, args []string) ([]string, error) {
	fsys := afero.NewIOFS(f.fs)

	var files []string
	seen := make(map[string]bool)
	add := func(paths []string) {
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				files = append(files, p)
			}
		}
	}

	for _, arg := range args {
		if info, err := f.fs.Stat(arg); err == nil && info.IsDir() {
			found, err := f.FindTemplates(ctx, arg, nil)
			if err != nil {
				return nil, err
			}
			add(found)
			continue
		}

		pattern := strings.TrimPrefix(filepath.ToSlash(arg), "./")
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no files match %q", pattern)
		}
		add(matches)
	}

	return files, nil
}

// Load implements TemplateFinder
func (f *DefaultFinder) Load(ctx context.Context, path string) (*FileInfo, error) {
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}

	info := &FileInfo{
		Path:     path,
		Content:  data,
		FileType: strings.TrimPrefix(filepath.Ext(path), "."),
	}
	if info.FileType == "vue" {
		info.Content = []byte(TemplateBlock(string(data)))
	}
	return info, nil
}

// TemplateBlock blanks out everything but the body of the outermost
// <template> block of a single-file component. Byte offsets and line breaks
// are kept so diagnostics point into the original file.
func TemplateBlock(src string) string {
	start := strings.Index(src, "<template")
	if start < 0 {
		return src
	}
	open := strings.IndexByte(src[start:], '>')
	end := strings.LastIndex(src, "</template>")
	if open < 0 || end < start+open {
		return src
	}
	bodyStart := start + open + 1

	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); i++ {
		if (i >= bodyStart && i < end) || src[i] == '\n' {
			b.WriteByte(src[i])
			continue
		}
		b.WriteByte(' ')
	}
	return b.String()
}

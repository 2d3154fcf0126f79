package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguageData_Defaults(t *testing.T) {
	data, err := parseLanguageData(defaultLanguagesYAML)
	require.NoError(t, err)

	tests := []struct {
		path string
		lang string
		ok   bool
	}{
		{"main.go", "Go", true},
		{"dir/go.mod", "Go", true},
		{"script.PY", "Python", true},
		{"Makefile", "Makefile", true},
		{"rules.mk", "Makefile", true},
		{"README.md", "Markdown", true},
		{"notes.txt", "Text", true},
		{"binary.bin", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		lang, ok := data.GetLanguageForFile(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.lang, lang, tt.path)
	}

	assert.True(t, data.HasLanguage("go"))
	assert.True(t, data.HasLanguage("PYTHON"))
	assert.False(t, data.HasLanguage("cobol"))
}

func TestParseLanguageData_Invalid(t *testing.T) {
	_, err := parseLanguageData([]byte("Go: [unterminated"))
	assert.Error(t, err)
}

func TestLoadLanguageData_UserFileOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "languages.yml"), []byte(`
Cobol:
  type: programming
  extensions: ["cbl", ".COB"]
`), 0o644))

	data, err := loadLanguageData(dir)
	require.NoError(t, err)

	lang, ok := data.GetLanguageForFile("payroll.cbl")
	assert.True(t, ok)
	assert.Equal(t, "Cobol", lang)
	_, ok = data.GetLanguageForFile("x.cob")
	assert.True(t, ok)
	assert.False(t, data.HasLanguage("go"))
}

func TestLoadLanguageData_FallsBackToDefaults(t *testing.T) {
	data, err := loadLanguageData(t.TempDir())
	require.NoError(t, err)
	assert.True(t, data.HasLanguage("go"))

	data, err = loadLanguageData("")
	require.NoError(t, err)
	assert.True(t, data.HasLanguage("rust"))
}

func TestNilLanguageData(t *testing.T) {
	var data *LoadedLanguageData
	_, ok := data.GetLanguageForFile("main.go")
	assert.False(t, ok)
	assert.False(t, data.HasLanguage("go"))
}

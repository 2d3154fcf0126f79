package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yml
var defaultLanguagesYAML []byte

// LanguageInfo holds details about a specific programming/markup language.
// Only the fields used for file detection are decoded.
type LanguageInfo struct {
	Type         string   `yaml:"type"` // e.g., programming, data, markup
	Extensions   []string `yaml:"extensions"`
	Filenames    []string `yaml:"filenames"`
	Interpreters []string `yaml:"interpreters"`
}

// LanguageMap maps language names (e.g., "Go") to their details.
type LanguageMap map[string]LanguageInfo

// LoadedLanguageData holds the parsed language map and provides helper methods.
type LoadedLanguageData struct {
	Langs        LanguageMap
	extensionMap map[string]string // Map extension (e.g., ".go") to language name ("Go")
	filenameMap  map[string]string // Map filename (e.g., "Makefile") to language name ("Makefile")
}

// loadLanguageData loads languages.yml from the config directory, falling
// back to the built-in definitions.
func loadLanguageData(configDir string) (*LoadedLanguageData, error) {
	if configDir != "" {
		langFilePath := filepath.Join(configDir, "languages.yml")
		if yamlFile, err := os.ReadFile(langFilePath); err == nil {
			logger.Debug("loading language definitions", "path", langFilePath)
			data, err := parseLanguageData(yamlFile)
			if err != nil {
				return nil, fmt.Errorf("error parsing language file %s: %w", langFilePath, err)
			}
			return data, nil
		}
	}
	return parseLanguageData(defaultLanguagesYAML)
}

// parseLanguageData decodes a languages.yml document and builds the lookup maps.
func parseLanguageData(yamlFile []byte) (*LoadedLanguageData, error) {
	var langs LanguageMap
	if err := yaml.Unmarshal(yamlFile, &langs); err != nil {
		return nil, err
	}

	data := &LoadedLanguageData{
		Langs:        langs,
		extensionMap: make(map[string]string),
		filenameMap:  make(map[string]string),
	}

	for langName, info := range langs {
		for _, ext := range info.Extensions {
			lowerExt := strings.ToLower(ext)
			if !strings.HasPrefix(lowerExt, ".") {
				lowerExt = "." + lowerExt
			}
			// First claim wins; map order is random, so prefer the smaller name for stability.
			if prev, ok := data.extensionMap[lowerExt]; !ok || langName < prev {
				data.extensionMap[lowerExt] = langName
			}
		}
		for _, fname := range info.Filenames {
			if prev, ok := data.filenameMap[fname]; !ok || langName < prev {
				data.filenameMap[fname] = langName
			}
		}
	}

	logger.Debug("language definitions loaded", "languages", len(data.Langs), "extensions", len(data.extensionMap), "filenames", len(data.filenameMap))
	return data, nil
}

// GetLanguageForFile determines the language for a given path based on loaded data.
func (ld *LoadedLanguageData) GetLanguageForFile(filePath string) (string, bool) {
	if ld == nil {
		return "", false
	}

	baseName := filepath.Base(filePath)

	// Exact filename match has precedence over the extension.
	if lang, ok := ld.filenameMap[baseName]; ok {
		return lang, true
	}

	if ext := strings.ToLower(filepath.Ext(baseName)); ext != "" {
		if lang, ok := ld.extensionMap[ext]; ok {
			return lang, true
		}
	}
	return "", false
}

// HasLanguage reports whether name (case-insensitive) is a known language.
func (ld *LoadedLanguageData) HasLanguage(name string) bool {
	if ld == nil {
		return false
	}
	for lang := range ld.Langs {
		if strings.EqualFold(lang, name) {
			return true
		}
	}
	return false
}

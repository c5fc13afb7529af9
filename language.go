package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"gopkg.in/yaml.v3"
)

// LanguageInfo holds the detection-relevant fields of one language entry
// from a linguist-style languages.yml.
type LanguageInfo struct {
	Type       string   `yaml:"type"` // e.g. programming, data, markup
	Extensions []string `yaml:"extensions"`
	Filenames  []string `yaml:"filenames"`
}

// LanguageMap maps language names (e.g. "Go") to their details.
type LanguageMap map[string]LanguageInfo

// LoadedLanguageData holds the parsed language map plus lookup indexes.
// A nil *LoadedLanguageData is valid; detection then relies on chroma's
// lexer registry alone.
type LoadedLanguageData struct {
	Langs        LanguageMap
	extensionMap map[string]string
	filenameMap  map[string]string
}

// loadLanguageData looks for languages.yml in the standard config
// locations. Absence is not an error: language names then come from the
// chroma fallback only.
func loadLanguageData() (*LoadedLanguageData, error) {
	configPaths := []string{}
	if home, err := os.UserHomeDir(); err == nil {
		configPaths = append(configPaths, filepath.Join(home, ".config", "toksum"))
	}
	configPaths = append(configPaths, ".")

	var langFilePath string
	for _, p := range configPaths {
		testPath := filepath.Join(p, "languages.yml")
		if _, err := os.Stat(testPath); err == nil {
			langFilePath = testPath
			break
		}
	}
	if langFilePath == "" {
		return nil, nil
	}

	yamlFile, err := os.ReadFile(langFilePath)
	if err != nil {
		return nil, fmt.Errorf("reading language file %s: %w", langFilePath, err)
	}

	var langs LanguageMap
	if err := yaml.Unmarshal(yamlFile, &langs); err != nil {
		return nil, fmt.Errorf("parsing language file %s: %w", langFilePath, err)
	}

	data := &LoadedLanguageData{
		Langs:        langs,
		extensionMap: make(map[string]string),
		filenameMap:  make(map[string]string),
	}
	for langName, info := range langs {
		for _, ext := range info.Extensions {
			lowerExt := strings.ToLower(ext)
			if data.extensionMap[lowerExt] == "" { // first language claiming an extension wins
				data.extensionMap[lowerExt] = langName
			}
		}
		for _, fname := range info.Filenames {
			if data.filenameMap[fname] == "" {
				data.filenameMap[fname] = langName
			}
		}
	}
	return data, nil
}

// languageForFile names the language of a path for report enrichment.
// languages.yml data wins when loaded; otherwise chroma's lexer registry
// matches on the file name. Unknown files return "".
func (ld *LoadedLanguageData) languageForFile(path string) string {
	baseName := filepath.Base(path)
	if ld != nil {
		if lang, ok := ld.filenameMap[baseName]; ok {
			return lang
		}
		if ext := strings.ToLower(filepath.Ext(baseName)); ext != "" {
			if lang, ok := ld.extensionMap[ext]; ok {
				return lang
			}
		}
	}
	if lexer := lexers.Match(baseName); lexer != nil {
		return lexer.Config().Name
	}
	return ""
}

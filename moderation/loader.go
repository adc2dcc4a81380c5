package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"justus/errors"
)

//go:embed censored/*.txt
var censoredFolder embed.FS

// Dictionary is the merged word list of every language file.
type Dictionary struct {
	Words     []string
	Languages []string
}

// LoadEmbedded reads the dictionaries shipped with the binary.
func LoadEmbedded() (*Dictionary, error) {
	return LoadDictionary(censoredFolder, "censored")
}

// LoadDictionary reads every .txt file of dir, one word per line. The file
// name is the language code.
func LoadDictionary(fsys fs.FS, dir string) (*Dictionary, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var languages []string
	unique := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		// Scanner copes with \r\n line endings
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				unique[line] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}
	if len(unique) == 0 {
		return nil, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(unique))
	for w := range unique {
		words = append(words, w)
	}
	sort.Strings(words)
	return &Dictionary{Words: words, Languages: languages}, nil
}

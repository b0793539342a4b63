// Package grammarbundle loads a reducer's grammar definition from one or
// more TOML files on disk: a GRAMMAR file describes tokens, rules, island
// patterns, and manual replacement overrides directly; a MANIFEST file lists
// other bundle files (GRAMMAR or MANIFEST) to combine, recursively.
//
// Grounded on internal/tqw's TQW world-data loader: same file-format
// common-header convention ("format"/"type" keys), the same manifest
// recursion with depth limit and circular-reference tolerance, and the same
// two-stage unmarshal-then-validate split.
package grammarbundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

// MaxManifestRecursionDepth bounds how many manifest files may be nested
// inside one another before loading is aborted.
const MaxManifestRecursionDepth = 32

var (
	// ErrManifestEmpty is returned when the first manifest in a load chain
	// names no files that resolved to usable grammar data.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is returned when manifest inclusion nests
	// deeper than MaxManifestRecursionDepth.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is returned internally when a manifest chain
	// refers back to a file already being loaded; the recursive loader
	// tolerates this by skipping the repeated file rather than failing.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")
)

// FileInfo is the common header every bundle file must carry.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// ScanFileInfo reads just the top-level header of a bundle file, stopping
// before the first table definition, so the file's type can be determined
// without fully unmarshaling (and without requiring the rest of the file to
// already be well-formed for its declared type).
func ScanFileInfo(data []byte) (FileInfo, error) {
	topLevelEnd := -1
	onNewLine := false
	for i := range data {
		if onNewLine {
			if data[i] == '[' {
				topLevelEnd = i
				break
			}
		}
		if data[i] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[i])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}

// Load reads the bundle file at path (GRAMMAR or MANIFEST type,
// auto-detected) and every file it transitively includes, merges their
// contents, and builds the resulting Bundle.
func Load(path string) (*Bundle, error) {
	merged, err := recursiveUnmarshal(path, nil)
	if err != nil {
		return nil, err
	}
	return build(merged)
}

// LoadManifest reads and validates a single manifest file without following
// its includes, returning the list of files it names.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	raw, err := unmarshalManifest(data)
	if err != nil {
		return Manifest{}, err
	}
	return Manifest{Files: raw.Files}, nil
}

// Manifest is a parsed MANIFEST-type file: a list of paths, relative to the
// manifest's own directory, to include.
type Manifest struct {
	Files []string
}

func recursiveUnmarshal(path string, manifStack []string) (topLevelGrammarData, error) {
	path = filepath.Clean(path)

	fileData, err := os.ReadFile(path)
	if err != nil {
		return topLevelGrammarData{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	info, err := ScanFileInfo(fileData)
	if err != nil {
		return topLevelGrammarData{}, fmt.Errorf("%q: detecting file type: %w", path, err)
	}
	if strings.ToUpper(info.Format) != "PICIRENY" {
		return topLevelGrammarData{}, fmt.Errorf("%q: file does not have a 'format = \"PICIRENY\"' entry", path)
	}

	switch strings.ToUpper(info.Type) {
	case "GRAMMAR":
		data, err := unmarshalGrammarData(fileData)
		if err != nil {
			return data, fmt.Errorf("grammar file %q: %w", path, err)
		}
		return data, nil

	case "MANIFEST":
		if len(manifStack) >= MaxManifestRecursionDepth {
			return topLevelGrammarData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for _, seen := range manifStack {
			if seen == path {
				return topLevelGrammarData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		rawManif, err := unmarshalManifest(fileData)
		if err != nil {
			return topLevelGrammarData{}, fmt.Errorf("manifest file %q: %w", path, err)
		}

		if len(rawManif.Files) < 1 && len(manifStack) == 0 {
			return topLevelGrammarData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}

		subStack := make([]string, len(manifStack)+1)
		copy(subStack, manifStack)
		subStack[len(subStack)-1] = path

		dir := filepath.Dir(path)
		merged := topLevelGrammarData{}
		processed := 0

		for _, rel := range rawManif.Files {
			includedPath := filepath.Join(dir, rel)
			included, err := recursiveUnmarshal(includedPath, subStack)
			if err != nil {
				if errors.Is(err, ErrManifestCircularRef) {
					continue
				}
				return topLevelGrammarData{}, fmt.Errorf("in file referred to by manifest file:\n    %q\n%w", path, err)
			}
			mergeGrammarData(&merged, included)
			processed++
		}

		if len(manifStack) == 0 && processed == 0 {
			return merged, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}
		return merged, nil

	default:
		return topLevelGrammarData{}, fmt.Errorf("%q: file does not have 'type = ' entry set to either \"GRAMMAR\" or \"MANIFEST\"", path)
	}
}

func unmarshalGrammarData(data []byte) (topLevelGrammarData, error) {
	var g topLevelGrammarData
	if err := toml.Unmarshal(data, &g); err != nil {
		return g, err
	}
	if strings.ToUpper(g.Type) != "GRAMMAR" {
		return g, fmt.Errorf("in header: 'type' must exist and be set to 'GRAMMAR'")
	}
	return g, nil
}

func unmarshalManifest(data []byte) (topLevelManifest, error) {
	var m topLevelManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return m, err
	}
	if strings.ToUpper(m.Type) != "MANIFEST" {
		return m, fmt.Errorf("in header: 'type' must exist and be set to 'MANIFEST'")
	}
	return m, nil
}

func mergeGrammarData(dst *topLevelGrammarData, src topLevelGrammarData) {
	if src.Start != "" {
		dst.Start = src.Start
	}
	dst.Tokens = append(dst.Tokens, src.Tokens...)
	dst.Rules = append(dst.Rules, src.Rules...)
	dst.Islands = append(dst.Islands, src.Islands...)
	for k, v := range src.Overrides {
		if dst.Overrides == nil {
			dst.Overrides = make(map[string]string)
		}
		dst.Overrides[k] = v
	}
}

// Package textstore reads and writes the engine's JSON files. Reads tolerate
// the three encodings that have historically shown up on disk (UTF-16 with
// either byte-order mark, UTF-8 with a BOM, plain UTF-8); writes always emit
// canonical UTF-8 with two-space indentation and a trailing newline, so every
// write heals prior encoding drift.
package textstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadText decodes the file at path, sniffing the leading bytes for a UTF-16
// or UTF-8 byte-order mark. Data that decodes under none of the tolerated
// encodings is an error: the file is truly corrupt, not merely mis-encoded.
func ReadText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("ReadText: %w", err)
	}
	if len(b) >= 2 && ((b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF)) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(b)
		if err != nil {
			return "", fmt.Errorf("ReadText: decode utf-16 %s: %w", path, err)
		}
		return string(out), nil
	}
	b = bytes.TrimPrefix(b, utf8BOM)
	if !utf8.Valid(b) {
		return "", fmt.Errorf("ReadText: %s is not valid UTF-8", path)
	}
	return string(b), nil
}

// ReadJSON decodes the JSON file at path into v. A missing file is not an
// error: it returns (false, nil) so callers can decide between "initialize"
// and "fail". Decode and parse failures propagate.
func ReadJSON(path string, v any) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("ReadJSON: stat: %w", err)
	}
	text, err := ReadText(path)
	if err != nil {
		return false, fmt.Errorf("ReadJSON: %w", err)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return false, fmt.Errorf("ReadJSON: unmarshal %s: %w", path, err)
	}
	return true, nil
}

// WriteJSON serializes v as pretty-printed UTF-8 JSON (HTML escaping off, so
// non-ASCII text survives verbatim) and writes it atomically, creating parent
// directories as needed.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("WriteJSON: marshal: %w", err)
	}
	// Encode already appended the trailing newline.
	if err := writeFileAtomicSameDir(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("WriteJSON: write %s: %w", path, err)
	}
	return nil
}

// WriteText writes text verbatim as UTF-8, atomically.
func WriteText(path, text string) error {
	if err := writeFileAtomicSameDir(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("WriteText: write %s: %w", path, err)
	}
	return nil
}

func writeFileAtomicSameDir(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp_store_*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

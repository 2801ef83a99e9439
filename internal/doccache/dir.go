package doccache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"braces.dev/errtrace"
	"github.com/klauspost/compress/gzip"

	"github.com/alexhsamuel/supdoc/internal/docenc"
	"github.com/alexhsamuel/supdoc/internal/objdoc"
)

// Dir is an on-disk cache storing one gzip-compressed JSON file
// per module, named <modname>.json.gz.
//
// Each file carries a check record alongside the objdoc.
// An entry is served only if its schema version matches and,
// when the objdoc records the module's source path,
// that file's size and mtime are unchanged.
type Dir struct {
	// Path is the cache directory. Required.
	// It is created on first write.
	Path string
}

type cacheEntry struct {
	Check  checkRecord    `json:"check"`
	Objdoc *objdoc.Objdoc `json:"objdoc"`
}

// checkRecord identifies the extraction an entry came from.
type checkRecord struct {
	Version int    `json:"version"`
	Path    string `json:"path,omitempty"`
	Mtime   int64  `json:"mtime,omitempty"`
	Size    int64  `json:"size,omitempty"`
}

func newCheck(doc *objdoc.Objdoc) checkRecord {
	check := checkRecord{Version: objdoc.Version}
	if doc.Path != "" {
		if info, err := os.Stat(doc.Path); err == nil {
			check.Path = doc.Path
			check.Mtime = info.ModTime().UnixNano()
			check.Size = info.Size()
		}
	}
	return check
}

// valid reports whether the entry still describes its module.
func (c checkRecord) valid() bool {
	if c.Version != objdoc.Version {
		return false
	}
	if c.Path == "" {
		return true
	}
	info, err := os.Stat(c.Path)
	if err != nil {
		return false
	}
	return info.ModTime().UnixNano() == c.Mtime && info.Size() == c.Size
}

// Get implements Cache.
func (d *Dir) Get(modname string) (_ *objdoc.Objdoc, ok bool, err error) {
	f, err := os.Open(d.file(modname))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errtrace.Wrap(err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, false, errtrace.Wrap(err)
	}
	defer gz.Close()

	var entry cacheEntry
	if err := json.NewDecoder(gz).Decode(&entry); err != nil {
		return nil, false, errtrace.Wrap(err)
	}
	if !entry.Check.valid() || entry.Objdoc == nil {
		return nil, false, nil
	}
	return entry.Objdoc, true, nil
}

// Put implements Cache.
func (d *Dir) Put(modname string, doc *objdoc.Objdoc) (err error) {
	if err := os.MkdirAll(d.Path, 0o700); err != nil {
		return errtrace.Wrap(err)
	}

	// Serialize through the ref-aware encoder
	// so shared or cyclic nodes inside the fragment
	// do not inline forever.
	wire, err := docenc.MarshalModule(modname, doc)
	if err != nil {
		return errtrace.Wrap(err)
	}
	check, err := json.Marshal(newCheck(doc))
	if err != nil {
		return errtrace.Wrap(err)
	}

	f, err := os.CreateTemp(d.Path, modname+".*")
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, os.Remove(f.Name()))
		}
	}()

	gz := gzip.NewWriter(f)
	for _, chunk := range [][]byte{
		[]byte(`{"check":`), check,
		[]byte(`,"objdoc":`), wire,
		[]byte(`}`),
	} {
		if _, err := gz.Write(chunk); err != nil {
			return errors.Join(errtrace.Wrap(err), f.Close())
		}
	}
	if err := gz.Close(); err != nil {
		return errors.Join(errtrace.Wrap(err), f.Close())
	}
	if err := f.Close(); err != nil {
		return errtrace.Wrap(err)
	}

	// Replace atomically so concurrent readers
	// never see a partial entry.
	return errtrace.Wrap(os.Rename(f.Name(), d.file(modname)))
}

func (d *Dir) file(modname string) string {
	return filepath.Join(d.Path, modname+".json.gz")
}

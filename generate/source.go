package generate

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"navgen/archive"
	"navgen/course"
	"navgen/state"
)

// loadStructure reads course outline from src, which is either a path to a
// file or a path to a file inside zip archive:
// "[path_to_archive]archive.zip[path_in_archive]/course-structure.json".
// Returned name is what should be used to refer to the source in messages.
func loadStructure(ctx context.Context, src string, log *zap.Logger) (*course.Structure, string, error) {
	src, err := filepath.Abs(src)
	if err != nil {
		return nil, "", err
	}

	for head := src; len(head) != 0; head, _ = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}
		if !fi.Mode().IsRegular() {
			break
		}

		tail := strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
		if len(tail) == 0 {
			return loadFile(ctx, head, log)
		}

		arc, err := archive.IsArchive(head)
		if err != nil {
			return nil, "", fmt.Errorf("unable to check archive type: %w", err)
		}
		if !arc {
			// regular file cannot have tail
			return nil, "", fmt.Errorf("input source was not found (%s) => (%s)", head, tail)
		}
		return loadFromArchive(ctx, head, filepath.ToSlash(tail), log)
	}
	return nil, "", fmt.Errorf("input source was not found (%s)", src)
}

func loadFile(ctx context.Context, fname string, log *zap.Logger) (*course.Structure, string, error) {
	env := state.EnvFromContext(ctx)

	log.Debug("Reading course structure", zap.String("file", fname))
	structure, err := course.LoadFile(fname)
	if err != nil {
		return nil, "", err
	}
	env.Rpt.Store(path.Join("source", filepath.Base(fname)), fname)
	return structure, fname, nil
}

func loadFromArchive(ctx context.Context, arc, pathIn string, log *zap.Logger) (*course.Structure, string, error) {
	env := state.EnvFromContext(ctx)

	log.Debug("Reading course structure from archive", zap.String("archive", arc), zap.String("path", pathIn))
	_, data, err := archive.ReadFile(arc, func(f *zip.File) bool {
		return entryName(f, env.CodePage, log) == pathIn
	})
	if errors.Is(err, archive.ErrNotFound) {
		return nil, "", fmt.Errorf("input source was not found in archive (%s) => (%s)", arc, pathIn)
	}
	if err != nil {
		return nil, "", fmt.Errorf("unable to read archive: %w", err)
	}

	structure, err := course.Parse(data, course.FormatFromName(pathIn))
	if err != nil {
		return nil, "", err
	}
	env.Rpt.StoreData(path.Join("source", path.Base(pathIn)), data)
	return structure, filepath.Join(arc, filepath.FromSlash(pathIn)), nil
}

// entryName returns name of the file in archive, decoding it when code page
// was forced and file name is not marked as UTF-8.
func entryName(f *zip.File, cp encoding.Encoding, log *zap.Logger) string {
	name := f.FileHeader.Name
	if cp == nil || !f.FileHeader.NonUTF8 {
		return name
	}
	decoded, err := cp.NewDecoder().String(name)
	if err != nil {
		n, _ := ianaindex.IANA.Name(cp)
		log.Warn("Unable to convert archive name from specified encoding",
			zap.String("charset", n), zap.String("path", name), zap.Error(err))
		return name
	}
	return decoded
}

// selectCodePage handles --force-zip-cp: zip "standard" does not define file
// name encoding and old archives may need an archaic code page.
func selectCodePage(cp string, log *zap.Logger) encoding.Encoding {
	if len(cp) == 0 {
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(cp)
	if err != nil || enc == nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
		return nil
	}
	n, _ := ianaindex.IANA.Name(enc)
	log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
	return enc
}

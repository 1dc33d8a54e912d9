package workorder

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// ResetDir empties dir, creating it when missing. Every run starts from an
// empty output tree so sheets of earlier runs never mix in.
func ResetDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return woc.Setup("read output directory", dir, err)
	}
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(p); err != nil {
			return woc.Setup("clear output directory", p, err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return woc.Setup("create output directory", dir, err)
	}
	return nil
}

// Files lists the regular files below root as slash-separated relative
// paths, sorted.
func Files(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, woc.Setup("list output directory", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// Zip writes every file below root into a deflated archive on w, keeping
// the {region}/{orderType}/ layout.
func Zip(w io.Writer, root string) error {
	files, err := Files(root)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(w)
	for _, rel := range files {
		if err := addFile(zw, root, rel); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, root, rel string) error {
	src, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return woc.Setup("open pdf", rel, err)
	}
	defer src.Close()

	dst, err := zw.CreateHeader(&zip.FileHeader{Name: rel, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}

// ZipFile writes the archive of root to path.
func ZipFile(path, root string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return woc.Setup("create zip directory", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return woc.Setup("create zip", path, err)
	}
	if err := Zip(f, root); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return woc.Setup("write zip", path, err)
	}
	return nil
}

// ZipSheets renders sheets straight into an archive on w, without touching
// the file system.
func ZipSheets(w io.Writer, r *Renderer, sheets []Sheet) error {
	zw := zip.NewWriter(w)
	for _, s := range sheets {
		dst, err := zw.CreateHeader(&zip.FileHeader{Name: s.Location.Rel(), Method: zip.Deflate})
		if err != nil {
			zw.Close()
			return err
		}
		if err := r.Render(dst, s.Document); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

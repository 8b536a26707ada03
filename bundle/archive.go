package bundle

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// CreateArchive writes an archive of the directory tree rooted at dir
// to fileName in the given format. Entries are stored under the base
// name of dir so that extraction recreates the package directory.
func CreateArchive(format ArchiveFormat, fileName, dir string) error {
	switch format {
	case TarGz:
		return createTarGz(fileName, dir)
	case Zip:
		return createZip(fileName, dir)
	default:
		return errors.Errorf("unknown archive format '%s'", format)
	}
}

type archiveWorkUnit struct {
	path string
	rel  string
	stat os.FileInfo
}

func getContents(dir string) ([]archiveWorkUnit, error) {
	prefix := filepath.Base(dir)

	var units []archiveWorkUnit
	err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}

		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return errors.WithStack(err)
		}

		units = append(units, archiveWorkUnit{
			path: p,
			rel:  filepath.ToSlash(filepath.Join(prefix, rel)),
			stat: info,
		})
		return nil
	})

	return units, errors.Wrapf(err, "problem walking tree %s", dir)
}

func addTarFile(tw *tar.Writer, unit archiveWorkUnit) error {
	file, err := os.Open(unit.path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() { grip.Error(file.Close()) }()

	header := new(tar.Header)
	header.Name = unit.rel
	header.Size = unit.stat.Size()
	header.Mode = int64(unit.stat.Mode())
	header.ModTime = unit.stat.ModTime()

	if err := tw.WriteHeader(header); err != nil {
		return errors.WithStack(err)
	}
	if _, err := io.Copy(tw, file); err != nil {
		return errors.WithStack(err)
	}

	grip.Debug(message.Fields{
		"message": "added file to archive",
		"name":    header.Name,
	})

	return nil
}

func createTarGz(fileName, dir string) error {
	units, err := getContents(dir)
	if err != nil {
		return errors.WithStack(err)
	}

	file, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "problem creating file %s", fileName)
	}
	defer func() { grip.Error(errors.Wrapf(file.Close(), "problem closing file %s", fileName)) }()

	gw := gzip.NewWriter(file)
	defer func() { grip.Error(errors.Wrapf(gw.Close(), "problem closing gzip writer %s", fileName)) }()
	tw := tar.NewWriter(gw)
	defer func() { grip.Error(errors.Wrapf(tw.Close(), "problem closing tar writer %s", fileName)) }()

	grip.Infoln("creating archive:", fileName)

	for _, unit := range units {
		if err := addTarFile(tw, unit); err != nil {
			return errors.Wrapf(err, "error adding path: %s", unit.path)
		}
	}

	return nil
}

func addZipFile(zw *zip.Writer, unit archiveWorkUnit) error {
	file, err := os.Open(unit.path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() { grip.Error(file.Close()) }()

	header, err := zip.FileInfoHeader(unit.stat)
	if err != nil {
		return errors.WithStack(err)
	}
	header.Name = unit.rel
	header.Method = zip.Deflate

	out, err := zw.CreateHeader(header)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := io.Copy(out, file); err != nil {
		return errors.WithStack(err)
	}

	grip.Debug(message.Fields{
		"message": "added file to archive",
		"name":    header.Name,
	})

	return nil
}

func createZip(fileName, dir string) error {
	units, err := getContents(dir)
	if err != nil {
		return errors.WithStack(err)
	}

	file, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "problem creating file %s", fileName)
	}
	defer func() { grip.Error(errors.Wrapf(file.Close(), "problem closing file %s", fileName)) }()

	zw := zip.NewWriter(file)
	defer func() { grip.Error(errors.Wrapf(zw.Close(), "problem closing zip writer %s", fileName)) }()

	grip.Infoln("creating archive:", fileName)

	for _, unit := range units {
		if err := addZipFile(zw, unit); err != nil {
			return errors.Wrapf(err, "error adding path: %s", unit.path)
		}
	}

	return nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"seobuilder/internal/apperr"
	"seobuilder/internal/models"
	"seobuilder/internal/storage"
	"seobuilder/internal/theme"
)

// keyPrefix is where finished archives live on the Disk.
const keyPrefix = "exports/"

// Packager renders a project's pages into theme files and archives them.
type Packager struct {
	disk storage.Disk
}

// NewPackager returns a packager writing archives to disk.
func NewPackager(disk storage.Disk) *Packager {
	return &Packager{disk: disk}
}

// GenerateTheme renders every theme file into a staging directory,
// archives them flat, uploads the archive, and returns its storage key
// and download filename. The staging directory never outlives the call.
// A project with zero pages still exports: the theme gets a placeholder
// page so the archive is installable.
func (p *Packager) GenerateTheme(ctx context.Context, project *models.Project, pages []*models.Page) (key, filename string, err error) {
	themeName := fmt.Sprintf("seobuilder-project-%s-%s",
		project.ID, time.Now().Format("20060102-150405"))

	staging, err := os.MkdirTemp("", themeName+"-")
	if err != nil {
		return "", "", apperr.Wrap(apperr.CodeStorage, "create staging directory", err)
	}
	defer os.RemoveAll(staging)

	files, err := writeThemeFiles(staging, themeName, project, pages)
	if err != nil {
		return "", "", err
	}

	archivePath := filepath.Join(staging, themeName+".zip")
	if err := archiveFlat(archivePath, files); err != nil {
		return "", "", err
	}

	key = keyPrefix + themeName + ".zip"
	filename = themeName + ".zip"

	f, err := os.Open(archivePath)
	if err != nil {
		return "", "", apperr.Wrap(apperr.CodeStorage, "open archive", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", "", apperr.Wrap(apperr.CodeStorage, "stat archive", err)
	}
	if err := p.disk.Put(ctx, key, "application/zip", f, info.Size()); err != nil {
		return "", "", apperr.Wrap(apperr.CodeStorage, "store archive", err)
	}

	return key, filename, nil
}

// writeThemeFiles renders the theme into dir and returns the written
// paths in archive order: style sheet first, then the fragments, then
// one file per page.
func writeThemeFiles(dir, themeName string, project *models.Project, pages []*models.Page) ([]string, error) {
	type themeFile struct {
		name    string
		content string
	}

	files := []themeFile{
		{"style.css", theme.RenderStyle(project, themeName)},
		{"header.php", theme.RenderHeader(project)},
		{"footer.php", theme.RenderFooter()},
		{"index.php", theme.RenderIndex()},
	}
	if len(pages) == 0 {
		files = append(files, themeFile{"page-empty.php", theme.RenderPage(&models.Page{
			Title: project.Name,
		})})
	}
	for _, page := range pages {
		files = append(files, themeFile{
			name:    fmt.Sprintf("page-%s.php", page.Slug),
			content: theme.RenderPage(page),
		})
	}

	paths := make([]string, 0, len(files))
	for _, tf := range files {
		p := filepath.Join(dir, tf.name)
		if err := os.WriteFile(p, []byte(tf.content), 0o644); err != nil {
			return nil, apperr.Wrap(apperr.CodeStorage, "write "+tf.name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// archiveFlat zips the given files using their basenames as entry names.
// The archive is written to a scratch name and renamed only after a
// clean close so a half-written file can never pass for a finished one.
func archiveFlat(archivePath string, files []string) error {
	tmpPath := archivePath + ".partial"
	out, err := os.Create(tmpPath)
	if err != nil {
		return apperr.Wrap(apperr.CodeStorage, "create archive", err)
	}

	zw := zip.NewWriter(out)
	for _, file := range files {
		if err := addEntry(zw, file); err != nil {
			zw.Close()
			out.Close()
			os.Remove(tmpPath)
			return err
		}
	}
	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return apperr.Wrap(apperr.CodeStorage, "finalize archive", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return apperr.Wrap(apperr.CodeStorage, "close archive", err)
	}
	if err := os.Rename(tmpPath, archivePath); err != nil {
		os.Remove(tmpPath)
		return apperr.Wrap(apperr.CodeStorage, "finalize archive name", err)
	}
	return nil
}

func addEntry(zw *zip.Writer, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return apperr.Wrap(apperr.CodeStorage, "read "+filepath.Base(file), err)
	}
	w, err := zw.Create(filepath.Base(file))
	if err != nil {
		return apperr.Wrap(apperr.CodeStorage, "add archive entry", err)
	}
	if _, err := w.Write(data); err != nil {
		return apperr.Wrap(apperr.CodeStorage, "write archive entry", err)
	}
	return nil
}

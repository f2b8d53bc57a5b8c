package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Form is a multipart body, the counterpart of a browser FormData.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, path string
}

// NewForm returns an empty multipart body.
func NewForm() *Form {
	return &Form{}
}

// AddField appends a plain form field.
func (f *Form) AddField(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})

	return f
}

// AddFile appends a file part read from path when the request is sent.
func (f *Form) AddFile(field, path string) *Form {
	f.files = append(f.files, formFile{field: field, path: path})

	return f
}

// Empty reports whether the form has no parts.
func (f *Form) Empty() bool {
	return len(f.fields) == 0 && len(f.files) == 0
}

func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", field.name, err)
		}
	}

	for _, file := range f.files {
		if err := copyFilePart(w, file); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

func copyFilePart(w *multipart.Writer, file formFile) error {
	src, err := os.Open(file.path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", file.path, err)
	}

	defer func() { _ = src.Close() }()

	part, err := w.CreateFormFile(file.field, filepath.Base(file.path))
	if err != nil {
		return fmt.Errorf("creating part for %s: %w", file.path, err)
	}

	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copying %s: %w", file.path, err)
	}

	return nil
}

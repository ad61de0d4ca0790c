package binder

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
)

var fileHeaderType = reflect.TypeOf((*multipart.FileHeader)(nil))

// Form copies values of a request whose form is already parsed into the
// struct pointed to by v. It never reads the request body.
//
// Supported tags:
//   - `form:"a,b"` binds the first non-empty value of field a, then b, to a
//     string, bool or integer field.
//   - `file:"a,b"` binds the first uploaded file of part a, then b, to a
//     *multipart.FileHeader field.
//   - "-" skips the field.
//
//	type UploadRequest struct {
//		OrderID string                `form:"order_id"`
//		Image   *multipart.FileHeader `file:"image,file"`
//	}
func Form(r *http.Request, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	if r.MultipartForm == nil && r.PostForm == nil {
		return ErrFormNotParsed
	}

	values := map[string][]string(r.PostForm)
	var files map[string][]*multipart.FileHeader
	if r.MultipartForm != nil {
		values = r.MultipartForm.Value
		files = r.MultipartForm.File
	}

	rv = rv.Elem()
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}

		if names := tagNames(sf.Tag.Get("form")); len(names) > 0 {
			if raw, ok := firstValue(values, names); ok {
				if err := setValue(field, raw); err != nil {
					return fmt.Errorf("%w: field %s: %v", ErrInvalidValue, sf.Name, err)
				}
			}
			continue
		}

		if names := tagNames(sf.Tag.Get("file")); len(names) > 0 {
			if sf.Type != fileHeaderType {
				return fmt.Errorf("%w: %s must be *multipart.FileHeader", ErrUnsupportedTag, sf.Name)
			}
			if fh := firstFile(files, names); fh != nil {
				fh.Filename = cleanFilename(fh.Filename)
				field.Set(reflect.ValueOf(fh))
			}
		}
	}
	return nil
}

func tagNames(tag string) []string {
	if tag == "" || tag == "-" {
		return nil
	}
	var names []string
	for name := range strings.SplitSeq(tag, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func firstValue(values map[string][]string, names []string) (string, bool) {
	for _, name := range names {
		if vs := values[name]; len(vs) > 0 && vs[0] != "" {
			return vs[0], true
		}
	}
	return "", false
}

func firstFile(files map[string][]*multipart.FileHeader, names []string) *multipart.FileHeader {
	for _, name := range names {
		if fhs := files[name]; len(fhs) > 0 && fhs[0] != nil {
			return fhs[0]
		}
	}
	return nil
}

func setValue(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedTag, field.Type())
	}
	return nil
}

// cleanFilename drops client-supplied directories from an upload name.
func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.ReplaceAll(name, "\\", "/"), "\x00", ""))
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}

// Package binder maps parsed form fields and uploaded files onto structs.
//
// The caller owns body parsing, so size limits and cleanup of spooled
// multipart files stay in one place; Form only reads r.MultipartForm or
// r.PostForm.
package binder

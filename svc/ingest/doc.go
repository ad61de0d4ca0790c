// Package ingest accepts print assets: one PNG or JPEG image and an optional
// JSON sidecar per request.
//
// A request flows through Service in a fixed order. The form is parsed under
// a body limit, the caller is authorized against the project map, the order
// directory is derived from the sanitized order id, the image is sniffed and
// committed under a collision-free base name, and finally the sidecar is
// validated and stored next to it as <base>.json. Every outcome, success or
// not, is written to the audit log.
//
// Failures are *Error values with a stable Code and HTTP status:
//
//	403 demo_upload_disabled, upload_requires_token
//	401 unauthorized_unknown_project_token
//	400 invalid_form, missing_image, empty_image, invalid_json, invalid_json_file
//	413 image_too_large, json_too_large, json_file_too_large
//	415 unsupported_media_type
//	500 server_misconfig, server_cannot_create_dir, cannot_save_image, cannot_save_json
//
// A sidecar failure does not remove the committed image.
package ingest

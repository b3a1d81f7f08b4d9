// Package common contains shared constants and sentinel errors used across
// DropVault components.
package common

// UploadFieldName is the multipart form field under which clients send
// the uploaded file.
const UploadFieldName = "file"

// BearerScheme is the authorization scheme expected in the
// Authorization header on protected requests.
const BearerScheme = "Bearer"

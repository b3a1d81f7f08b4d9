package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/dropvault/internal/common"
)

// maxUploadMemory caps the in-memory part of multipart parsing; larger
// bodies spill to temp files.
const maxUploadMemory = 32 << 20

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type fileEntry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail mirrors the error shape clients already expect:
// {"detail": "..."}.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", common.BearerScheme)
	writeDetail(w, http.StatusUnauthorized, detail)
}

func (s *HTTPServer) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) Register(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	s.logger.Info(ctx, "Registration request")

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			writeDetail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, common.ErrorAlreadyExists):
			writeDetail(w, http.StatusBadRequest, "Username already registered")
		default:
			s.logger.Error(ctx, err.Error())
			writeDetail(w, http.StatusInternalServerError, "Internal error")
		}
		return
	}

	s.logger.Info(ctx, "Registered", "username", req.Username)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

// Token implements the password-grant login: credentials arrive as
// URL-encoded form fields, the response carries a bearer access token.
func (s *HTTPServer) Token(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := s.users.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			// deliberately the same answer for unknown user and wrong password
			writeUnauthorized(w, "Incorrect username or password")
			return
		}
		s.logger.Error(ctx, err.Error())
		writeDetail(w, http.StatusInternalServerError, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *HTTPServer) Upload(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	owner, ok := usernameFromContext(ctx)
	if !ok {
		writeUnauthorized(w, "Could not validate credentials")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	file, header, err := r.FormFile(common.UploadFieldName)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Missing %q field", common.UploadFieldName))
		return
	}
	defer file.Close()

	stored, err := s.files.Save(ctx, owner, header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			writeDetail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, common.ErrorAlreadyExists):
			writeDetail(w, http.StatusConflict, "File already exists")
		default:
			s.logger.Error(ctx, err.Error())
			writeDetail(w, http.StatusInternalServerError, "Internal error")
		}
		return
	}

	s.logger.Info(ctx, "Uploaded", "owner", owner, "name", stored.Name, "size", stored.Size)
	writeJSON(w, http.StatusOK, map[string]string{
		"info": fmt.Sprintf("File '%s' saved.", stored.Name),
		"user": owner,
	})
}

func (s *HTTPServer) Files(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	owner, ok := usernameFromContext(ctx)
	if !ok {
		writeUnauthorized(w, "Could not validate credentials")
		return
	}

	files, err := s.files.List(ctx, owner)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		writeDetail(w, http.StatusInternalServerError, "Internal error")
		return
	}

	entries := make([]fileEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, fileEntry{Name: f.Name, Size: f.Size})
	}
	writeJSON(w, http.StatusOK, map[string][]fileEntry{"files": entries})
}

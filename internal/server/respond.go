package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeMsgpack = "application/msgpack"

	maxBodyBytes = 4 << 20
)

// apiError is the error response body.
type apiError struct {
	Code    perrors.Code `json:"code"`
	Message string       `json:"message"`
}

// statusOf maps an error code to an HTTP status.
func statusOf(code perrors.Code) int {
	switch code {
	case perrors.ErrCodeInvalidInput, perrors.ErrCodeInvalidTree, perrors.ErrCodeInvalidAction:
		return http.StatusBadRequest
	case perrors.ErrCodeInvalidPlacement:
		return http.StatusUnprocessableEntity
	case perrors.ErrCodeNotFound, perrors.ErrCodePageNotFound:
		return http.StatusNotFound
	case perrors.ErrCodeDuplicateID, perrors.ErrCodeNothingToUndo, perrors.ErrCodeNothingToRedo:
		return http.StatusConflict
	case perrors.ErrCodeUnsupported:
		return http.StatusNotAcceptable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := perrors.GetCode(err)
	if code == "" {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			code = perrors.ErrCodeInvalidInput
		} else {
			code = perrors.ErrCodeInternal
		}
	}
	status := statusOf(code)
	msg := perrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, apiError{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// write encodes v as msgpack when the request accepts it and as JSON
// otherwise. Msgpack bodies carry the same shape as the JSON encoding.
func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, v any) {
	if !strings.Contains(r.Header.Get("Accept"), contentTypeMsgpack) {
		writeJSON(w, status, v)
		return
	}
	data, err := toMsgpack(v)
	if err != nil {
		s.writeError(w, r, perrors.Wrap(perrors.ErrCodeInternal, err, "encode msgpack"))
		return
	}
	w.Header().Set("Content-Type", contentTypeMsgpack)
	w.WriteHeader(status)
	w.Write(data)
}

// toMsgpack goes through the JSON encoding so that nodes keep their flat
// wire form.
func toMsgpack(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return msgpack.Marshal(generic)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "Malformed request body")
	}
	return nil
}

package webutils

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/pkg/errors"
)

func WriteFileHeaders(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
}

func WriteFile(w http.ResponseWriter, in io.Reader, name string) {
	WriteFileHeaders(w, name)
	io.Copy(w, in)
}

func WriteJson(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		WriteError(w, err)
	} else {
		w.Header().Set("Content-Type", "application/json")
		WriteResult(w, res)
	}
}

func ReadJson(r *http.Request, v interface{}) error {
	if r.Method != http.MethodPost {
		return errors.Errorf("Invalid http method %q", r.Method)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrapf(err, "Failed to decode request body")
	}
	return nil
}

func WriteResult(w http.ResponseWriter, data []byte) {
	_, err := w.Write(data)
	if err != nil {
		log.Printf("[webutils] Error when writing response: %v", err)
	}
}

func WriteError(w http.ResponseWriter, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	data, merr := json.Marshal(&jError{Error: err.Error()})
	if merr == nil {
		WriteResult(w, data)
	} else {
		log.Printf("[webutils] Failed to marshal error %v: %v", err, merr)
	}
}

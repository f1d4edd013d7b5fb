/*
Package req provides helpers for HTTP request parsing and data binding.

It encapsulates strict JSON decoding of request bodies and maps parse
failures onto the application error taxonomy.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gustavoamc/sitem-backend/internal/pkg/errs"
)

// MaxBodyBytes is the maximum allowed size for a JSON request body.
const MaxBodyBytes int64 = 1 << 20 // 1 MB

// BindJSON binds the JSON request body to the destination struct dst.
// Unknown fields and trailing content are rejected.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

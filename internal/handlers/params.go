package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"amc-backend/internal/apperr"
	"amc-backend/internal/models"
	"amc-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// MaxSheetBytes caps a service job sheet upload.
const MaxSheetBytes = 20 << 20

// formOverhead leaves room for the service_date field and multipart framing.
const formOverhead = 1 << 20

var errBadPath = errors.New("invalid path parameter")

func pathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, errBadPath
	}
	return n, nil
}

// pathInts reads several integer path variables in order.
func pathInts(r *http.Request, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		n, err := pathInt(r, name)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// decodeJSON decodes an optional JSON body; an empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// readSheet reads the multipart form of a service job sheet submission. The file part
// is optional. A sheet over MaxSheetBytes is refused rather than stored truncated.
func readSheet(w http.ResponseWriter, r *http.Request) (string, models.ServiceSheet, error) {
	var sheet models.ServiceSheet
	r.Body = http.MaxBytesReader(w, r.Body, MaxSheetBytes+formOverhead)
	if err := r.ParseMultipartForm(MaxSheetBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", sheet, errSheetTooLarge()
		}
		return "", sheet, err
	}
	serviceDate := r.FormValue("service_date")

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return serviceDate, sheet, nil
	}
	if err != nil {
		return "", sheet, err
	}
	defer file.Close()

	if header.Size > MaxSheetBytes {
		return "", sheet, errSheetTooLarge()
	}
	content, err := io.ReadAll(io.LimitReader(file, MaxSheetBytes+1))
	if err != nil {
		return "", sheet, err
	}
	if len(content) > MaxSheetBytes {
		return "", sheet, errSheetTooLarge()
	}
	sheet = models.ServiceSheet{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        int64(len(content)),
		Content:     content,
	}
	return serviceDate, sheet, nil
}

func errSheetTooLarge() error {
	return apperr.Validation("file", "Service sheet must be at most %d MB", MaxSheetBytes>>20)
}

// sheetFormError answers a readSheet failure.
func sheetFormError(w http.ResponseWriter, err error) {
	if apperr.KindOf(err) != 0 {
		utils.Error(w, err)
		return
	}
	utils.BadRequest(w, "Invalid upload form")
}

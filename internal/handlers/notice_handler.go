package handlers

import (
	"net/http"
	"strconv"

	"amc-backend/internal/notify"
	"amc-backend/pkg/utils"
)

const defaultNoticeLimit = 50

type NoticeHandler struct {
	Feed *notify.Feed
	Hub  *notify.Hub
}

func NewNoticeHandler(feed *notify.Feed, hub *notify.Hub) *NoticeHandler {
	return &NoticeHandler{Feed: feed, Hub: hub}
}

// ListNotices returns the most recent notices, newest first.
func (h *NoticeHandler) ListNotices(w http.ResponseWriter, r *http.Request) {
	limit := defaultNoticeLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			utils.BadRequest(w, "Invalid limit")
			return
		}
		limit = n
	}
	utils.JSON(w, http.StatusOK, h.Feed.Recent(limit))
}

func (h *NoticeHandler) Stream(w http.ResponseWriter, r *http.Request) {
	h.Hub.ServeWS(w, r)
}

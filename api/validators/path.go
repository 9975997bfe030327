package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/mechanicshop-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
)

// ParsePathID reads a positive integer route parameter. An id that cannot match
// any row fails like a missing row would, with the endpoint's message and status.
func ParsePathID(r *http.Request, key, notFoundMessage string, notFoundStatus int) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage).
			WithStatus(notFoundStatus)
	}
	return uint(id), nil
}

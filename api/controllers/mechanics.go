package controllers

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/angelmondragon/mechanicshop-backend/api/responses"
	"github.com/angelmondragon/mechanicshop-backend/api/validators"
	"github.com/angelmondragon/mechanicshop-backend/internal/mechanics"
	"github.com/angelmondragon/mechanicshop-backend/pkg/logger"
)

const maxMechanicNameLen = 255

func MechanicCreate(svc mechanics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input mechanics.CreateMechanicInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mechanic, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, map[string]any{
			"Message":  "New Mechanic details added successfully",
			"Mechanic": mechanics.FromModel(mechanic),
		})
	}
}

func MechanicList(svc mechanics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, mechanics.FromModels(rows))
	}
}

func MechanicGet(svc mechanics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "mechanicID", "Mechanic id is not found.", http.StatusNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mechanic, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, mechanics.FromModel(mechanic))
	}
}

func MechanicUpdate(svc mechanics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "mechanicID", "Mechanic id is not found.", http.StatusNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input mechanics.UpdateMechanicInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mechanic, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"Message":  fmt.Sprintf("Successfully Updated Mechanic id: %d", id),
			"mechanic": mechanics.FromModel(mechanic),
		})
	}
}

func MechanicDelete(svc mechanics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "mechanicID", "Mechanic not found.", http.StatusNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("mechanic id: %d, successfully deleted.", id),
		})
	}
}

// MechanicPopular lists mechanics busiest first.
func MechanicPopular(svc mechanics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.Popular(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"Message":                               "Successfully Retrieve a list mechanics in order of who has worked on the most tikets",
			"Most popular Mechanics List Order by:": mechanics.FromModels(rows),
		})
	}
}

// MechanicSearch matches mechanics whose name contains the name query value.
func MechanicSearch(svc mechanics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		// names are at most 255 characters, so a longer fragment cannot match
		if utf8.RuneCountInString(name) > maxMechanicNameLen {
			responses.WriteJSON(w, http.StatusOK, []mechanics.MechanicDTO{})
			return
		}
		rows, err := svc.Search(r.Context(), name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, mechanics.FromModels(rows))
	}
}

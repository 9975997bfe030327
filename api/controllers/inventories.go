package controllers

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/mechanicshop-backend/api/responses"
	"github.com/angelmondragon/mechanicshop-backend/api/validators"
	"github.com/angelmondragon/mechanicshop-backend/internal/inventories"
	"github.com/angelmondragon/mechanicshop-backend/pkg/logger"
)

func InventoryCreate(svc inventories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input inventories.CreateInventoryInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inventory, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, map[string]any{
			"Message":   fmt.Sprintf("The %s New Inventory details added successfully", inventory.Name),
			"Inventory": inventories.FromModel(inventory),
		})
	}
}

func InventoryList(svc inventories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, inventories.FromModels(rows))
	}
}

func InventoryGet(svc inventories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "inventoryID", "Inventory id is not found.", http.StatusNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inventory, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, inventories.FromModel(inventory))
	}
}

func InventoryUpdate(svc inventories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "inventoryID", "Inventory id is not found.", http.StatusNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input inventories.UpdateInventoryInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inventory, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"Message":   fmt.Sprintf("Successfully Updated Inventory id: %d", id),
			"Inventory": inventories.FromModel(inventory),
		})
	}
}

func InventoryDelete(svc inventories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "inventoryID", "Inventory not found.", http.StatusNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("Inventory id: %d, successfully deleted.", id),
		})
	}
}

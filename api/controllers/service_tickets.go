package controllers

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/mechanicshop-backend/api/middleware"
	"github.com/angelmondragon/mechanicshop-backend/api/responses"
	"github.com/angelmondragon/mechanicshop-backend/api/validators"
	"github.com/angelmondragon/mechanicshop-backend/internal/tickets"
	pkgerrors "github.com/angelmondragon/mechanicshop-backend/pkg/errors"
	"github.com/angelmondragon/mechanicshop-backend/pkg/logger"
)

const (
	msgTicketCreated   = "New service ticket details added successfully"
	msgInvalidPair     = "Invalid service_id or mechanic_id"
	msgInvalidPartPair = "Invalid service id or inventory id."
	msgTicketEdited    = "New service ticket details added successfully and Remove successfully"
)

// editTicketResponse carries the per-id outcomes under Mechanics.
type editTicketResponse struct {
	Messages  string             `json:"Messages"`
	Mechanics []string           `json:"Mechanics"`
	Service   *tickets.TicketDTO `json:"Service"`
}

type addPartResponse struct {
	Message         string `json:"Message"`
	ServiceTicketID uint   `json:"service_ticket_id"`
	InventoryID     uint   `json:"inventory_id"`
	Quantity        int    `json:"quantity"`
}

// TicketCreateWithMechanics creates a ticket and assigns every listed mechanic.
func TicketCreateWithMechanics(svc tickets.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input tickets.CreateWithMechanicsInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.CreateWithMechanics(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCreatedTicket(w, tickets.FromModel(ticket))
	}
}

func TicketCreate(svc tickets.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input tickets.CreateTicketInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCreatedTicket(w, tickets.FromModel(ticket))
	}
}

func TicketList(svc tickets.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, tickets.FromModels(rows))
	}
}

// TicketListMine returns the authenticated customer's tickets.
func TicketListMine(svc tickets.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, ok := middleware.CustomerIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "You must be logged in to access this."))
			return
		}

		rows, err := svc.ListForCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, tickets.FromModels(rows))
	}
}

func TicketGet(svc tickets.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "ticketID", "Service id is not found.", http.StatusNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, tickets.FromModel(ticket))
	}
}

// TicketEditMechanics adds then removes mechanics and reports one message per id.
func TicketEditMechanics(svc tickets.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "ticketID", "Service ticket not found.", http.StatusNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input tickets.EditMechanicsInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.EditMechanics(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, editTicketResponse{
			Messages:  msgTicketEdited,
			Mechanics: result.Messages,
			Service:   tickets.FromModel(result.Ticket),
		})
	}
}

func TicketDelete(svc tickets.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "ticketID", "service not found.", http.StatusBadRequest)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("service id: %d, successfully deleted.", id),
		})
	}
}

func TicketAssignMechanic(svc tickets.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticketID, mechanicID, err := ticketMechanicIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AssignMechanic(r.Context(), ticketID, mechanicID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]string{
			"Message": fmt.Sprintf("Successfully added item to the mechanic id is: %d  form service ticket id is: %d.", mechanicID, ticketID),
		})
	}
}

func TicketRemoveMechanic(svc tickets.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticketID, mechanicID, err := ticketMechanicIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveMechanic(r.Context(), ticketID, mechanicID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]string{
			"Message": fmt.Sprintf("Succefully removed the mechanic id is: %d  form service ticket id is: %d.", mechanicID, ticketID),
		})
	}
}

// TicketDeleteMechanic deletes the mechanic record itself once it is confirmed
// to be assigned to the ticket.
func TicketDeleteMechanic(svc tickets.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticketID, mechanicID, err := ticketMechanicIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteMechanicFromTicket(r.Context(), ticketID, mechanicID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("succefully deleted the mechanic: %d and the product id is :%d", mechanicID, ticketID),
		})
	}
}

// TicketAddPart adds inventory units to the ticket, accumulating on repeat calls.
func TicketAddPart(svc tickets.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticketID, err := validators.ParsePathID(r, "ticketID", msgInvalidPartPair, http.StatusBadRequest)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input tickets.AddPartInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddPart(r.Context(), ticketID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, addPartResponse{
			Message:         "Part added to service ticket successfully.",
			ServiceTicketID: result.ServiceTicketID,
			InventoryID:     result.InventoryID,
			Quantity:        result.Quantity,
		})
	}
}

func writeCreatedTicket(w http.ResponseWriter, ticket *tickets.TicketDTO) {
	responses.WriteJSON(w, http.StatusCreated, map[string]any{
		"Message": msgTicketCreated,
		"Service": ticket,
	})
}

func ticketMechanicIDs(r *http.Request) (uint, uint, error) {
	ticketID, err := validators.ParsePathID(r, "ticketID", msgInvalidPair, http.StatusBadRequest)
	if err != nil {
		return 0, 0, err
	}
	mechanicID, err := validators.ParsePathID(r, "mechanicID", msgInvalidPair, http.StatusBadRequest)
	if err != nil {
		return 0, 0, err
	}
	return ticketID, mechanicID, nil
}

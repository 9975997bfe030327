package controllers

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/mechanicshop-backend/api/middleware"
	"github.com/angelmondragon/mechanicshop-backend/api/responses"
	"github.com/angelmondragon/mechanicshop-backend/api/validators"
	"github.com/angelmondragon/mechanicshop-backend/internal/auth"
	"github.com/angelmondragon/mechanicshop-backend/internal/customers"
	pkgerrors "github.com/angelmondragon/mechanicshop-backend/pkg/errors"
	"github.com/angelmondragon/mechanicshop-backend/pkg/logger"
	"github.com/angelmondragon/mechanicshop-backend/pkg/pagination"
)

type loginResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	AuthToken string `json:"auth_token"`
}

// CustomerLogin exchanges email and password for a bearer token.
func CustomerLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input customers.LoginInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, loginResponse{
			Status: "Success",
			Message: fmt.Sprintf("Successfully Logged In and the Customer name is: %s , customer id is: %d",
				result.Customer.Name, result.Customer.ID),
			AuthToken: result.Token,
		})
	}
}

func CustomerCreate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input customers.CreateCustomerInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, map[string]any{
			"Message":  "New Customer details added successfully",
			"customer": customers.FromModel(customer),
		})
	}
}

// CustomerList returns every customer, or one page when both page and per_page
// are positive integers.
func CustomerList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var page *pagination.Params
		query := r.URL.Query()
		if params, ok := pagination.Parse(query.Get("page"), query.Get("per_page")); ok {
			page = &params
		}

		rows, err := svc.List(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, customers.FromModels(rows))
	}
}

func CustomerGet(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "customerID", "Customer not found.", http.StatusNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, customers.FromModel(customer))
	}
}

// CustomerUpdate applies a partial update to the authenticated customer.
func CustomerUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.CustomerIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "You must be logged in to access this."))
			return
		}

		var input customers.UpdateCustomerInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"Message":  fmt.Sprintf("Successfully Updated Customer id: %d", id),
			"customer": customers.FromModel(customer),
		})
	}
}

// CustomerDelete removes the authenticated customer.
func CustomerDelete(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.CustomerIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "You must be logged in to access this."))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]string{
			"Message": fmt.Sprintf("customer id: %d, successfully deleted.", id),
		})
	}
}

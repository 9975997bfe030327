package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/mechanicshop-backend/api/middleware"
	"github.com/angelmondragon/mechanicshop-backend/internal/tickets"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/mechanicshop-backend/pkg/db/types"
	pkgerrors "github.com/angelmondragon/mechanicshop-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTicketManager struct {
	ticket      *models.ServiceTicket
	edit        *tickets.EditResult
	part        *tickets.AddPartResult
	err         error
	gotTicketID uint
	gotMechanic uint
	gotCustomer uint
	gotCreate   tickets.CreateWithMechanicsInput
	gotPart     tickets.AddPartInput
}

func (s *stubTicketManager) Create(_ context.Context, in tickets.CreateTicketInput) (*models.ServiceTicket, error) {
	s.gotCreate.CreateTicketInput = in
	return s.ticket, s.err
}

func (s *stubTicketManager) CreateWithMechanics(_ context.Context, in tickets.CreateWithMechanicsInput) (*models.ServiceTicket, error) {
	s.gotCreate = in
	return s.ticket, s.err
}

func (s *stubTicketManager) Get(_ context.Context, id uint) (*models.ServiceTicket, error) {
	s.gotTicketID = id
	return s.ticket, s.err
}

func (s *stubTicketManager) List(context.Context) ([]models.ServiceTicket, error) {
	return []models.ServiceTicket{*s.ticket}, s.err
}

func (s *stubTicketManager) ListForCustomer(_ context.Context, customerID uint) ([]models.ServiceTicket, error) {
	s.gotCustomer = customerID
	return []models.ServiceTicket{}, s.err
}

func (s *stubTicketManager) EditMechanics(_ context.Context, id uint, _ tickets.EditMechanicsInput) (*tickets.EditResult, error) {
	s.gotTicketID = id
	return s.edit, s.err
}

func (s *stubTicketManager) Delete(_ context.Context, id uint) error {
	s.gotTicketID = id
	return s.err
}

func (s *stubTicketManager) AssignMechanic(_ context.Context, ticketID, mechanicID uint) error {
	s.gotTicketID, s.gotMechanic = ticketID, mechanicID
	return s.err
}

func (s *stubTicketManager) RemoveMechanic(_ context.Context, ticketID, mechanicID uint) error {
	s.gotTicketID, s.gotMechanic = ticketID, mechanicID
	return s.err
}

func (s *stubTicketManager) DeleteMechanicFromTicket(_ context.Context, ticketID, mechanicID uint) error {
	s.gotTicketID, s.gotMechanic = ticketID, mechanicID
	return s.err
}

func (s *stubTicketManager) AddPart(_ context.Context, ticketID uint, in tickets.AddPartInput) (*tickets.AddPartResult, error) {
	s.gotTicketID = ticketID
	s.gotPart = in
	return s.part, s.err
}

func sampleTicket() *models.ServiceTicket {
	return &models.ServiceTicket{
		ID:            3,
		VIN:           "1HGCM82633A004352",
		ServiceDate:   dbtypes.NewDate(2025, 3, 14),
		CustomerIssue: "grinding brakes",
		CustomerID:    5,
		Customer:      sampleCustomer(),
		Mechanics:     []models.Mechanic{{ID: 2, Name: "Alex"}},
		Parts:         []models.TicketPart{{InventoryID: 4, Quantity: 3}},
	}
}

func TestTicketCreateWithMechanics(t *testing.T) {
	svc := &stubTicketManager{ticket: sampleTicket()}
	body := `{"VIN":"1HGCM82633A004352","service_date":"2025-03-14","customer_issue":"grinding brakes","customer_id":5,"mechanic_ids":[2]}`

	rec := httptest.NewRecorder()
	TicketCreateWithMechanics(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/service-tickets/with-mechanics", body, nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []int64{2}, svc.gotCreate.MechanicIDs)
	assert.Equal(t, "2025-03-14", svc.gotCreate.ServiceDate.String())

	payload := decodeBody(t, rec)
	assert.Equal(t, "New service ticket details added successfully", payload["Message"])
	service := payload["Service"].(map[string]any)
	assert.Equal(t, "2025-03-14", service["service_date"])
	assert.Len(t, service["mechanics"], 1)
}

func TestTicketCreateWithMechanicsRequiresFields(t *testing.T) {
	svc := &stubTicketManager{ticket: sampleTicket()}
	body := `{"VIN":"1HGCM82633A004352","customer_issue":"grinding brakes","customer_id":5}`

	rec := httptest.NewRecorder()
	TicketCreateWithMechanics(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/service-tickets/with-mechanics", body, nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeBody(t, rec)
	details := payload["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "service_date")
	assert.Contains(t, details, "mechanic_ids")
}

func TestTicketEditResponseShape(t *testing.T) {
	ticket := sampleTicket()
	svc := &stubTicketManager{edit: &tickets.EditResult{Messages: []string{"Mechanic id: 9 does not exist."}, Ticket: ticket}}
	body := `{"add_mechanic_ids":[9],"remove_mechanic_ids":[]}`

	rec := httptest.NewRecorder()
	TicketEditMechanics(svc, nil).ServeHTTP(rec, newRequest(http.MethodPut, "/service-tickets/3", body, map[string]string{"ticketID": "3"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, svc.gotTicketID)
	payload := decodeBody(t, rec)
	assert.Equal(t, "New service ticket details added successfully and Remove successfully", payload["Messages"])
	assert.Equal(t, []any{"Mechanic id: 9 does not exist."}, payload["Mechanics"])
	service := payload["Service"].(map[string]any)
	assert.Len(t, service["mechanics"], len(ticket.Mechanics))
}

func TestTicketDeleteMessages(t *testing.T) {
	svc := &stubTicketManager{}
	rec := httptest.NewRecorder()
	TicketDelete(svc, nil).ServeHTTP(rec, newRequest(http.MethodDelete, "/service-tickets/8", "", map[string]string{"ticketID": "8"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "service id: 8, successfully deleted.", decodeBody(t, rec)["message"])

	svc.err = pkgerrors.New(pkgerrors.CodeNotFound, "service not found.").WithStatus(http.StatusBadRequest)
	rec = httptest.NewRecorder()
	TicketDelete(svc, nil).ServeHTTP(rec, newRequest(http.MethodDelete, "/service-tickets/8", "", map[string]string{"ticketID": "8"}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "service not found.", errorMessage(t, rec))
}

func TestTicketAssignMechanic(t *testing.T) {
	svc := &stubTicketManager{}
	params := map[string]string{"ticketID": "3", "mechanicID": "2"}

	rec := httptest.NewRecorder()
	TicketAssignMechanic(svc, nil).ServeHTTP(rec, newRequest(http.MethodPut, "/service-tickets/3/assign-mechanic/2", "", params))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, svc.gotTicketID)
	assert.EqualValues(t, 2, svc.gotMechanic)
	payload := decodeBody(t, rec)
	assert.Equal(t, "Successfully added item to the mechanic id is: 2  form service ticket id is: 3.", payload["Message"])
	assert.NotContains(t, payload, "message")

	rec = httptest.NewRecorder()
	TicketAssignMechanic(svc, nil).ServeHTTP(rec, newRequest(http.MethodPut, "/service-tickets/3/assign-mechanic/x", "", map[string]string{"ticketID": "3", "mechanicID": "x"}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid service_id or mechanic_id", errorMessage(t, rec))
}

func TestTicketRemoveMechanic(t *testing.T) {
	svc := &stubTicketManager{}
	params := map[string]string{"ticketID": "3", "mechanicID": "2"}

	rec := httptest.NewRecorder()
	TicketRemoveMechanic(svc, nil).ServeHTTP(rec, newRequest(http.MethodPut, "/service-tickets/3/remove-mechanic/2", "", params))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, svc.gotMechanic)
	payload := decodeBody(t, rec)
	assert.Equal(t, "Succefully removed the mechanic id is: 2  form service ticket id is: 3.", payload["Message"])
	assert.NotContains(t, payload, "message")
}

func TestTicketListMineUsesResolvedCustomer(t *testing.T) {
	svc := &stubTicketManager{}
	req := newRequest(http.MethodGet, "/service-tickets/my-tickets", "", nil)
	req = req.WithContext(middleware.WithCustomerID(req.Context(), 5))

	rec := httptest.NewRecorder()
	TicketListMine(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 5, svc.gotCustomer)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestTicketAddPart(t *testing.T) {
	svc := &stubTicketManager{part: &tickets.AddPartResult{ServiceTicketID: 3, InventoryID: 4, Quantity: 5}}
	params := map[string]string{"ticketID": "3"}

	rec := httptest.NewRecorder()
	TicketAddPart(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/service-tickets/3/add_part", `{"inventory_id":4,"quantity":"2"}`, params))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4", svc.gotPart.InventoryID.Value)
	assert.Equal(t, "2", svc.gotPart.Quantity.Value)
	payload := decodeBody(t, rec)
	assert.Equal(t, "Part added to service ticket successfully.", payload["Message"])
	assert.EqualValues(t, 5, payload["quantity"])
	assert.EqualValues(t, 3, payload["service_ticket_id"])
	assert.EqualValues(t, 4, payload["inventory_id"])
}

package tickets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/mechanicshop-backend/internal/inventories"
	"github.com/angelmondragon/mechanicshop-backend/internal/mechanics"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/mechanicshop-backend/pkg/db/types"
	pkgerrors "github.com/angelmondragon/mechanicshop-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	client *db.Client
	mgr    Manager
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.NewSQLite(t)
	mgr, err := NewManager(client)
	require.NoError(t, err)
	return fixture{client: client, mgr: mgr}
}

func (f fixture) customer(t *testing.T) *models.Customer {
	t.Helper()
	var count int64
	require.NoError(t, f.client.DB().Model(&models.Customer{}).Count(&count).Error)
	c := &models.Customer{
		Name:     "Dana",
		Email:    fmt.Sprintf("dana%d@example.com", count),
		Password: "secret",
		Address:  "12 Elm St",
		Phone:    "555-0100",
		Salary:   decimal.RequireFromString("1000.00"),
	}
	require.NoError(t, f.client.DB().Create(c).Error)
	return c
}

func (f fixture) mechanic(t *testing.T, name string) *models.Mechanic {
	t.Helper()
	m := &models.Mechanic{Name: name, Email: name + "@shop.example.com", Address: "1 Garage Way", Phone: "555-0101"}
	require.NoError(t, f.client.DB().Create(m).Error)
	return m
}

func (f fixture) inventory(t *testing.T, name string) *models.Inventory {
	t.Helper()
	inv := &models.Inventory{Name: name, Price: decimal.RequireFromString("9.99")}
	require.NoError(t, f.client.DB().Create(inv).Error)
	return inv
}

func (f fixture) ticket(t *testing.T, customerID uint) *models.ServiceTicket {
	t.Helper()
	ticket, err := f.mgr.Create(context.Background(), ticketInput(customerID))
	require.NoError(t, err)
	return ticket
}

func (f fixture) assignedCount(t *testing.T, ticketID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.client.DB().Model(&models.MechanicService{}).Where("service_id = ?", ticketID).Count(&count).Error)
	return count
}

func ticketInput(customerID uint) CreateTicketInput {
	return CreateTicketInput{
		VIN:           "1HGCM82633A004352",
		ServiceDate:   dbtypes.NewDate(2025, time.March, 14),
		CustomerIssue: "grinding brakes",
		CustomerID:    customerID,
	}
}

func partInput(inventoryID, quantity string) AddPartInput {
	var in AddPartInput
	in.InventoryID.Present, in.InventoryID.Value = inventoryID != "", inventoryID
	in.Quantity.Present, in.Quantity.Value = quantity != "", quantity
	return in
}

func TestCreateWithUnknownCustomerCreatesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.mgr.Create(context.Background(), ticketInput(999))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, pkgerrors.As(err).HTTPStatus())
	assert.Equal(t, "Customer id not in an account.", pkgerrors.As(err).Message())

	var count int64
	require.NoError(t, f.client.DB().Model(&models.ServiceTicket{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateWithMechanics(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t)
	a := f.mechanic(t, "alex")
	b := f.mechanic(t, "bo")

	ticket, err := f.mgr.CreateWithMechanics(context.Background(), CreateWithMechanicsInput{
		CreateTicketInput: ticketInput(c.ID),
		MechanicIDs:       []int64{int64(b.ID), int64(a.ID), int64(a.ID)},
	})
	require.NoError(t, err)
	require.Len(t, ticket.Mechanics, 2)
	assert.Equal(t, a.ID, ticket.Mechanics[0].ID)
	assert.Equal(t, b.ID, ticket.Mechanics[1].ID)
	require.NotNil(t, ticket.Customer)
	assert.Equal(t, c.ID, ticket.Customer.ID)
	assert.Equal(t, "2025-03-14", ticket.ServiceDate.String())
}

func TestCreateWithUnknownMechanicRollsBack(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t)
	a := f.mechanic(t, "alex")

	_, err := f.mgr.CreateWithMechanics(context.Background(), CreateWithMechanicsInput{
		CreateTicketInput: ticketInput(c.ID),
		MechanicIDs:       []int64{int64(a.ID), 404},
	})
	require.ErrorIs(t, err, mechanics.ErrMechanicNotFound)
	assert.Equal(t, http.StatusBadRequest, pkgerrors.As(err).HTTPStatus())
	assert.Equal(t, "Invalid mechanic id: 404", pkgerrors.As(err).Message())

	var tickets, links int64
	require.NoError(t, f.client.DB().Model(&models.ServiceTicket{}).Count(&tickets).Error)
	require.NoError(t, f.client.DB().Model(&models.MechanicService{}).Count(&links).Error)
	assert.Zero(t, tickets)
	assert.Zero(t, links)
}

func TestGetMissingTicket(t *testing.T) {
	f := newFixture(t)

	_, err := f.mgr.Get(context.Background(), 7)
	require.ErrorIs(t, err, ErrTicketNotFound)
	assert.Equal(t, http.StatusNotFound, pkgerrors.As(err).HTTPStatus())
	assert.Equal(t, "Service id is not found.", pkgerrors.As(err).Message())
}

func TestListForCustomer(t *testing.T) {
	f := newFixture(t)
	mine := f.customer(t)
	other := f.customer(t)
	f.ticket(t, mine.ID)
	f.ticket(t, mine.ID)
	f.ticket(t, other.ID)

	rows, err := f.mgr.ListForCustomer(context.Background(), mine.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, mine.ID, row.CustomerID)
	}

	none, err := f.mgr.ListForCustomer(context.Background(), 12345)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	all, err := f.mgr.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAssignMechanicTwice(t *testing.T) {
	f := newFixture(t)
	ticket := f.ticket(t, f.customer(t).ID)
	m := f.mechanic(t, "alex")
	ctx := context.Background()

	require.NoError(t, f.mgr.AssignMechanic(ctx, ticket.ID, m.ID))

	err := f.mgr.AssignMechanic(ctx, ticket.ID, m.ID)
	require.ErrorIs(t, err, ErrAlreadyAssigned)
	assert.Equal(t, http.StatusBadRequest, pkgerrors.As(err).HTTPStatus())
	assert.Equal(t, int64(1), f.assignedCount(t, ticket.ID))
}

func TestAssignMechanicInvalidPair(t *testing.T) {
	f := newFixture(t)
	ticket := f.ticket(t, f.customer(t).ID)
	m := f.mechanic(t, "alex")
	ctx := context.Background()

	err := f.mgr.AssignMechanic(ctx, ticket.ID, 999)
	require.ErrorIs(t, err, mechanics.ErrMechanicNotFound)
	assert.Equal(t, "Invalid service_id or mechanic_id", pkgerrors.As(err).Message())

	err = f.mgr.AssignMechanic(ctx, 999, m.ID)
	require.ErrorIs(t, err, ErrTicketNotFound)
	assert.Equal(t, http.StatusBadRequest, pkgerrors.As(err).HTTPStatus())
}

func TestRemoveMechanic(t *testing.T) {
	f := newFixture(t)
	ticket := f.ticket(t, f.customer(t).ID)
	m := f.mechanic(t, "alex")
	ctx := context.Background()

	err := f.mgr.RemoveMechanic(ctx, ticket.ID, m.ID)
	require.ErrorIs(t, err, ErrNotAssigned)
	assert.Equal(t, "Mechanic is not assigned to this service ticket.", pkgerrors.As(err).Message())

	require.NoError(t, f.mgr.AssignMechanic(ctx, ticket.ID, m.ID))
	require.NoError(t, f.mgr.RemoveMechanic(ctx, ticket.ID, m.ID))
	assert.Zero(t, f.assignedCount(t, ticket.ID))

	var mechanicsLeft int64
	require.NoError(t, f.client.DB().Model(&models.Mechanic{}).Count(&mechanicsLeft).Error)
	assert.Equal(t, int64(1), mechanicsLeft)
}

func TestDeleteMechanicFromTicketRemovesMechanic(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t)
	first := f.ticket(t, c.ID)
	second := f.ticket(t, c.ID)
	m := f.mechanic(t, "alex")
	ctx := context.Background()

	err := f.mgr.DeleteMechanicFromTicket(ctx, first.ID, m.ID)
	require.ErrorIs(t, err, ErrNotAssigned)

	require.NoError(t, f.mgr.AssignMechanic(ctx, first.ID, m.ID))
	require.NoError(t, f.mgr.AssignMechanic(ctx, second.ID, m.ID))
	require.NoError(t, f.mgr.DeleteMechanicFromTicket(ctx, first.ID, m.ID))

	var remaining int64
	require.NoError(t, f.client.DB().Model(&models.Mechanic{}).Where("id = ?", m.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
	assert.Zero(t, f.assignedCount(t, first.ID))
	assert.Zero(t, f.assignedCount(t, second.ID))
}

func TestEditMechanicsAddThenRemove(t *testing.T) {
	f := newFixture(t)
	ticket := f.ticket(t, f.customer(t).ID)
	a := f.mechanic(t, "alex")
	b := f.mechanic(t, "bo")
	ctx := context.Background()
	ids := []int64{int64(a.ID), int64(b.ID)}

	result, err := f.mgr.EditMechanics(ctx, ticket.ID, EditMechanicsInput{AddMechanicIDs: ids, RemoveMechanicIDs: ids})
	require.NoError(t, err)
	require.Len(t, result.Messages, 4)
	assert.Equal(t, fmt.Sprintf("Successfully added item to the mechanic id: %d", a.ID), result.Messages[0])
	assert.Equal(t, fmt.Sprintf("Succefully removed mechanic id: %d", b.ID), result.Messages[3])
	assert.Empty(t, result.Ticket.Mechanics)
	assert.Zero(t, f.assignedCount(t, ticket.ID))
}

func TestEditMechanicsReportsEachID(t *testing.T) {
	f := newFixture(t)
	ticket := f.ticket(t, f.customer(t).ID)
	a := f.mechanic(t, "alex")
	b := f.mechanic(t, "bo")
	ctx := context.Background()
	require.NoError(t, f.mgr.AssignMechanic(ctx, ticket.ID, a.ID))

	result, err := f.mgr.EditMechanics(ctx, ticket.ID, EditMechanicsInput{
		AddMechanicIDs:    []int64{int64(a.ID), 77},
		RemoveMechanicIDs: []int64{int64(b.ID), -1},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		fmt.Sprintf("Details is %d already included in this service_tickets.", a.ID),
		"Mechanic id: 77 does not exist.",
		fmt.Sprintf("Invalid %d is not attached to this service ticket.", b.ID),
		"-1 does not exist.",
	}, result.Messages)
	require.Len(t, result.Ticket.Mechanics, 1)
	assert.Equal(t, a.ID, result.Ticket.Mechanics[0].ID)
}

func TestEditMechanicsMissingTicket(t *testing.T) {
	f := newFixture(t)

	_, err := f.mgr.EditMechanics(context.Background(), 55, EditMechanicsInput{AddMechanicIDs: []int64{}, RemoveMechanicIDs: []int64{}})
	require.ErrorIs(t, err, ErrTicketNotFound)
	assert.Equal(t, http.StatusNotFound, pkgerrors.As(err).HTTPStatus())
	assert.Equal(t, "Service ticket not found.", pkgerrors.As(err).Message())
}

func TestDeleteTicketTwice(t *testing.T) {
	f := newFixture(t)
	ticket := f.ticket(t, f.customer(t).ID)
	m := f.mechanic(t, "alex")
	inv := f.inventory(t, "filter")
	ctx := context.Background()
	require.NoError(t, f.mgr.AssignMechanic(ctx, ticket.ID, m.ID))
	_, err := f.mgr.AddPart(ctx, ticket.ID, partInput(fmt.Sprint(inv.ID), "2"))
	require.NoError(t, err)

	require.NoError(t, f.mgr.Delete(ctx, ticket.ID))

	err = f.mgr.Delete(ctx, ticket.ID)
	require.ErrorIs(t, err, ErrTicketNotFound)
	assert.Equal(t, http.StatusBadRequest, pkgerrors.As(err).HTTPStatus())
	assert.Equal(t, "service not found.", pkgerrors.As(err).Message())

	var parts int64
	require.NoError(t, f.client.DB().Model(&models.TicketPart{}).Count(&parts).Error)
	assert.Zero(t, parts)
	assert.Zero(t, f.assignedCount(t, ticket.ID))
}

func TestAddPartAccumulates(t *testing.T) {
	f := newFixture(t)
	ticket := f.ticket(t, f.customer(t).ID)
	inv := f.inventory(t, "brake pad")
	ctx := context.Background()
	invID := fmt.Sprint(inv.ID)

	first, err := f.mgr.AddPart(ctx, ticket.ID, partInput(invID, "3"))
	require.NoError(t, err)
	assert.Equal(t, 3, first.Quantity)

	second, err := f.mgr.AddPart(ctx, ticket.ID, partInput(invID, "2"))
	require.NoError(t, err)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, ticket.ID, second.ServiceTicketID)
	assert.Equal(t, inv.ID, second.InventoryID)

	loaded, err := f.mgr.Get(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Parts, 1)
	assert.Equal(t, 5, loaded.Parts[0].Quantity)
}

func TestAddPartConcurrentIncrementsAreNotLost(t *testing.T) {
	f := newFixture(t)
	ticket := f.ticket(t, f.customer(t).ID)
	invID := fmt.Sprint(f.inventory(t, "spark plug").ID)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	totals := make(chan int, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.mgr.AddPart(ctx, ticket.ID, partInput(invID, "1"))
			if err != nil {
				errs <- err
				return
			}
			totals <- res.Quantity
		}()
	}
	wg.Wait()
	close(totals)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	seen := map[int]bool{}
	for total := range totals {
		assert.False(t, seen[total], "total %d reported twice", total)
		seen[total] = true
	}
	assert.Len(t, seen, workers)

	loaded, err := f.mgr.Get(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Parts, 1)
	assert.Equal(t, workers, loaded.Parts[0].Quantity)
}

func TestAddPartRejectsTotalBeyondColumnRange(t *testing.T) {
	f := newFixture(t)
	ticket := f.ticket(t, f.customer(t).ID)
	invID := fmt.Sprint(f.inventory(t, "bolt").ID)
	ctx := context.Background()
	ceiling := fmt.Sprint(MaxPartQuantity)

	first, err := f.mgr.AddPart(ctx, ticket.ID, partInput(invID, ceiling))
	require.NoError(t, err)
	assert.Equal(t, MaxPartQuantity, first.Quantity)

	_, err = f.mgr.AddPart(ctx, ticket.ID, partInput(invID, "1"))
	require.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, http.StatusBadRequest, pkgerrors.As(err).HTTPStatus())
	assert.Equal(t, "Part quantity total is too large.", pkgerrors.As(err).Message())

	_, err = f.mgr.AddPart(ctx, ticket.ID, partInput(invID, ceiling))
	require.ErrorIs(t, err, ErrInvalidQuantity)

	loaded, err := f.mgr.Get(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Parts, 1)
	assert.Equal(t, MaxPartQuantity, loaded.Parts[0].Quantity, "refused add leaves the total untouched")

	_, err = f.mgr.AddPart(ctx, ticket.ID, partInput(invID, fmt.Sprint(int64(MaxPartQuantity)+1)))
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAddPartValidation(t *testing.T) {
	f := newFixture(t)
	ticket := f.ticket(t, f.customer(t).ID)
	inv := f.inventory(t, "wiper")
	invID := fmt.Sprint(inv.ID)

	cases := []struct {
		name    string
		input   AddPartInput
		target  error
		message string
	}{
		{"missing quantity", partInput(invID, ""), ErrMissingFields, "Both inventory_id and quantity are required."},
		{"missing inventory", partInput("", "1"), ErrMissingFields, "Both inventory_id and quantity are required."},
		{"fractional", partInput(invID, "2.5"), ErrInvalidQuantity, "Quantity must be an integer."},
		{"word", partInput(invID, "abc"), ErrInvalidQuantity, "Quantity must be an integer."},
		{"zero", partInput(invID, "0"), ErrInvalidQuantity, "Both inventory_id and a positive quantity are required."},
		{"negative", partInput(invID, "-4"), ErrInvalidQuantity, "Both inventory_id and a positive quantity are required."},
		{"unknown inventory", partInput("999", "1"), inventories.ErrInventoryNotFound, "Invalid service id or inventory id."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.mgr.AddPart(context.Background(), ticket.ID, tc.input)
			require.ErrorIs(t, err, tc.target)
			assert.Equal(t, tc.message, pkgerrors.As(err).Message())
			assert.Equal(t, http.StatusBadRequest, pkgerrors.As(err).HTTPStatus())
		})
	}

	_, err := f.mgr.AddPart(context.Background(), 999, partInput(invID, "1"))
	require.ErrorIs(t, err, ErrTicketNotFound)
}

func TestAddPartAcceptsWholeFloat(t *testing.T) {
	f := newFixture(t)
	ticket := f.ticket(t, f.customer(t).ID)
	inv := f.inventory(t, "belt")

	var in AddPartInput
	require.NoError(t, json.Unmarshal([]byte(fmt.Sprintf(`{"inventory_id": %d, "quantity": 4.0}`, inv.ID)), &in))

	res, err := f.mgr.AddPart(context.Background(), ticket.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Quantity)
}

func TestTicketDTOShape(t *testing.T) {
	f := newFixture(t)
	c := f.customer(t)
	m := f.mechanic(t, "alex")
	ticket, err := f.mgr.CreateWithMechanics(context.Background(), CreateWithMechanicsInput{
		CreateTicketInput: ticketInput(c.ID),
		MechanicIDs:       []int64{int64(m.ID)},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(FromModel(ticket))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "1HGCM82633A004352", decoded["VIN"])
	assert.Equal(t, "2025-03-14", decoded["service_date"])
	assert.Equal(t, float64(c.ID), decoded["customer_id"])
	assert.Len(t, decoded["mechanics"], 1)
	assert.Equal(t, []any{}, decoded["parts"])
	customer := decoded["customer"].(map[string]any)
	assert.NotContains(t, customer, "password")
}

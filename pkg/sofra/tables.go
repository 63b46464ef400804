package sofra

import (
	"context"
	"fmt"
	"net/http"

	"sofra-client/pkg/api"
	"sofra-client/pkg/cache"
	"sofra-client/pkg/logging"
	"sofra-client/pkg/resource"
)

// TableService is the owner-side table management surface. All write
// payloads are validated client-side before any network call.
type TableService struct {
	tables *resource.Client[Table]
}

// CreateTableRequest adds a table to a restaurant's floor plan.
type CreateTableRequest struct {
	Number   int `json:"number" validate:"required,gt=0"`
	Capacity int `json:"capacity" validate:"gte=1,lte=50"`
}

// UpdateTableRequest edits a table.
type UpdateTableRequest struct {
	Number   int    `json:"number" validate:"required,gt=0"`
	Capacity int    `json:"capacity" validate:"gte=1,lte=50"`
	Status   string `json:"status" validate:"omitempty,oneof=free occupied reserved"`
}

// AssignWaiterRequest assigns a waiter to a table.
type AssignWaiterRequest struct {
	WaiterID string `json:"waiterId" validate:"required"`
}

func newTableService(doer api.Doer, c *cache.Cache, logger *logging.Logger) (*TableService, error) {
	tables, err := resource.NewClient[Table](resource.Config{
		API: doer, Cache: c, Name: "table", BasePath: "/tables", Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return &TableService{tables: tables}, nil
}

func restaurantTablesPath(restaurantID string) string {
	return fmt.Sprintf("/restaurants/%s/tables", restaurantID)
}

// ListByRestaurant returns a restaurant's tables.
func (s *TableService) ListByRestaurant(ctx context.Context, restaurantID string) ([]Table, error) {
	return s.tables.ListAt(ctx,
		restaurantTablesPath(restaurantID),
		restaurantSubKey(restaurantID, "tables"),
	)
}

// Create adds a table.
func (s *TableService) Create(ctx context.Context, restaurantID string, req CreateTableRequest) (*Table, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	var created Table
	err := s.tables.Mutate(ctx, http.MethodPost, restaurantTablesPath(restaurantID), req, &created,
		restaurantSubKey(restaurantID, "tables"),
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update edits a table.
func (s *TableService) Update(ctx context.Context, restaurantID, tableID string, req UpdateTableRequest) (*Table, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	var updated Table
	err := s.tables.Mutate(ctx, http.MethodPut,
		fmt.Sprintf("%s/%s", restaurantTablesPath(restaurantID), tableID),
		req, &updated,
		s.tables.EntityKey(tableID),
		restaurantSubKey(restaurantID, "tables"),
	)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a table.
func (s *TableService) Delete(ctx context.Context, restaurantID, tableID string) error {
	return s.tables.Mutate(ctx, http.MethodDelete,
		fmt.Sprintf("%s/%s", restaurantTablesPath(restaurantID), tableID),
		nil, nil,
		s.tables.EntityKey(tableID),
		restaurantSubKey(restaurantID, "tables"),
	)
}

// AssignWaiter puts a waiter on a table.
func (s *TableService) AssignWaiter(ctx context.Context, restaurantID, tableID string, req AssignWaiterRequest) (*Table, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	var updated Table
	err := s.tables.Mutate(ctx, http.MethodPut,
		fmt.Sprintf("%s/%s/waiter", restaurantTablesPath(restaurantID), tableID),
		req, &updated,
		s.tables.EntityKey(tableID),
		restaurantSubKey(restaurantID, "tables"),
	)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

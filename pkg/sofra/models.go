package sofra

import "time"

// All entities below are server-owned records. The client holds only
// transient, possibly-stale copies via the cache; derived business state
// (totals, availability, order state transitions) is computed server-side
// and displayed as-is.

// User is a platform account: customer, owner, or waiter.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Restaurant is a venue listing.
type Restaurant struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"ownerId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	ImageURL    string  `json:"imageUrl"`
	Rating      float64 `json:"rating"`
	IsOpen      bool    `json:"isOpen"`
}

// MenuItem is a dish on a restaurant's menu.
type MenuItem struct {
	ID           string  `json:"id"`
	RestaurantID string  `json:"restaurantId"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Available    bool    `json:"available"`
	ImageURL     string  `json:"imageUrl"`
}

// OrderItem is a line in an order.
type OrderItem struct {
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	LineTotal  float64 `json:"lineTotal"`
}

// Order statuses as reported by the backend.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusCancelled = "cancelled"
)

// Order is a placed order.
type Order struct {
	ID           string      `json:"id"`
	UserID       string      `json:"userId"`
	RestaurantID string      `json:"restaurantId"`
	TableID      string      `json:"tableId,omitempty"`
	Status       string      `json:"status"`
	Items        []OrderItem `json:"items"`
	Total        float64     `json:"total"`
	Note         string      `json:"note,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// CartItem is a line in a cart.
type CartItem struct {
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
}

// Cart is a user's current cart. One cart per user; adding an item from
// another restaurant replaces the cart server-side.
type Cart struct {
	UserID       string     `json:"userId"`
	RestaurantID string     `json:"restaurantId"`
	Items        []CartItem `json:"items"`
	Total        float64    `json:"total"`
}

// Table is a physical table in a restaurant.
type Table struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurantId"`
	Number       int    `json:"number"`
	Capacity     int    `json:"capacity"`
	Status       string `json:"status"`
	WaiterID     string `json:"waiterId,omitempty"`
}

// Reservation is a booked table slot.
type Reservation struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	RestaurantID string    `json:"restaurantId"`
	TableID      string    `json:"tableId,omitempty"`
	PartySize    int       `json:"partySize"`
	Time         time.Time `json:"time"`
	Status       string    `json:"status"`
}

// Review is a user's rating of a restaurant.
type Review struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	RestaurantID string    `json:"restaurantId"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Friendship links two users; Status is "pending" or "accepted".
type Friendship struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	FriendID   string `json:"friendId"`
	FriendName string `json:"friendName"`
	Status     string `json:"status"`
}

// PaymentMethod is a stored payment instrument.
type PaymentMethod struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int    `json:"expMonth"`
	ExpYear  int    `json:"expYear"`
	Default  bool   `json:"default"`
}

// Payment is a completed or pending charge for an order.
type Payment struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	MethodID  string    `json:"methodId"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// WaiterCall is a customer's request for service at a table.
type WaiterCall struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	TableID      string    `json:"tableId"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}
